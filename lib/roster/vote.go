package roster

import (
	"boscoin.io/roster/lib/common"
)

type VoteValue string

const (
	Aye     VoteValue = "aye"
	Nay     VoteValue = "nay"
	Abstain VoteValue = "abstain"
)

func (v VoteValue) IsValid() bool {
	switch v {
	case Aye, Nay, Abstain:
		return true
	default:
		return false
	}
}

type Vote struct {
	Voter   string        `json:"voter"`
	Value   VoteValue     `json:"value"`
	VotedAt common.Height `json:"voted_at"`
}

type Votes []Vote

func (vs Votes) Index(voter string) int {
	for i, v := range vs {
		if v.Voter == voter {
			return i
		}
	}

	return -1
}

func (vs Votes) Has(voter string) bool {
	return vs.Index(voter) >= 0
}

func (vs Votes) Remove(voter string) Votes {
	i := vs.Index(voter)
	if i < 0 {
		return vs
	}

	n := make(Votes, 0, len(vs)-1)
	n = append(n, vs[:i]...)
	return append(n, vs[i+1:]...)
}

// Tally counts each value.
func (vs Votes) Tally() (ayes, nays, abstains int) {
	for _, v := range vs {
		switch v.Value {
		case Aye:
			ayes++
		case Nay:
			nays++
		case Abstain:
			abstains++
		}
	}

	return
}

// AllVoted checks every one of `members` has a vote.
func (vs Votes) AllVoted(members []string) bool {
	for _, m := range members {
		if !vs.Has(m) {
			return false
		}
	}

	return true
}
