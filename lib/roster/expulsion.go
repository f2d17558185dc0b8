package roster

import (
	"fmt"

	"boscoin.io/roster/lib/common"
)

type ProposalStatus string

const (
	ProposalProposed               ProposalStatus = "proposed"
	ProposalSeconded               ProposalStatus = "seconded"
	ProposalVoting                 ProposalStatus = "voting"
	ProposalPassed                 ProposalStatus = "passed"
	ProposalDismissed              ProposalStatus = "dismissed"
	ProposalDismissedWithPrejudice ProposalStatus = "dismissed-with-prejudice"
)

// IsOpen is true until the proposal is decided.
func (s ProposalStatus) IsOpen() bool {
	switch s {
	case ProposalProposed, ProposalSeconded, ProposalVoting:
		return true
	case ProposalPassed, ProposalDismissed, ProposalDismissedWithPrejudice:
		return false
	default:
		return false
	}
}

// ExpulsionProposal is a motion to remove `Subject` from a roster.
//
// models
//  * 'ep-<ExpulsionProposal.RosterID>-<Motioner>-<Subject>': `ExpulsionProposal`
//  * 'lo-<RosterID>-<identity>': lockout end height
type ExpulsionProposal struct {
	Motioner       string         `json:"motioner"`
	Subject        string         `json:"subject"`
	RosterID       RosterID       `json:"roster_id"`
	Reason         string         `json:"reason"`
	Seconds        []string       `json:"seconds"`
	Votes          Votes          `json:"votes"`
	ProposedAt     common.Height  `json:"proposed_at"`
	VotingOpenedAt *common.Height `json:"voting_opened_at"`
	DecidedAt      *common.Height `json:"decided_at"`
	Status         ProposalStatus `json:"status"`
}

const (
	ExpulsionPrefix = "ep-"
	LockoutPrefix   = "lo-"
)

func GetExpulsionKeyPrefix(rosterID RosterID) string {
	return fmt.Sprintf("%s%s-", ExpulsionPrefix, rosterID)
}

func GetExpulsionKey(rosterID RosterID, motioner, subject string) string {
	return fmt.Sprintf("%s%s-%s", GetExpulsionKeyPrefix(rosterID), motioner, subject)
}

func GetLockoutKeyPrefix(rosterID RosterID) string {
	return fmt.Sprintf("%s%s-", LockoutPrefix, rosterID)
}

func GetLockoutKey(rosterID RosterID, identity string) string {
	return fmt.Sprintf("%s%s", GetLockoutKeyPrefix(rosterID), identity)
}

func (p *ExpulsionProposal) Key() string {
	return GetExpulsionKey(p.RosterID, p.Motioner, p.Subject)
}

func (p *ExpulsionProposal) Ref() ExpulsionRef {
	return ExpulsionRef{Motioner: p.Motioner, Subject: p.Subject}
}

func (p *ExpulsionProposal) String() string {
	return string(common.MustMarshalJSON(p))
}

func (p *ExpulsionProposal) IsSeconder(identity string) bool {
	_, found := common.InStringArray(p.Seconds, identity)
	return found
}

func (p *ExpulsionProposal) InVotingPeriod(now, period common.Height) bool {
	return p.Status == ProposalVoting &&
		p.VotingOpenedAt != nil &&
		p.VotingOpenedAt.Add(period) >= now
}

func (p *ExpulsionProposal) decide(status ProposalStatus, now common.Height) {
	p.Status = status
	decidedAt := now
	p.DecidedAt = &decidedAt
}
