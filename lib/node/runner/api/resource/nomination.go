package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/roster/lib/roster"
)

type Nomination struct {
	n *roster.Nomination
}

func NewNomination(n *roster.Nomination) *Nomination {
	return &Nomination{n: n}
}

func tally(votes roster.Votes) hal.Entry {
	ayes, nays, abstains := votes.Tally()
	return hal.Entry{
		"aye":     ayes,
		"nay":     nays,
		"abstain": abstains,
	}
}

func (n Nomination) GetMap() hal.Entry {
	return hal.Entry{
		"roster_id": n.n.RosterID.String(),
		"nominee":   n.n.Nominee,
		"nominator": n.n.Nominator,
		"opened_at": n.n.OpenedAt,
		"votes":     n.n.Votes,
		"tally":     tally(n.n.Votes),
		"status":    n.n.Status,
	}
}

func (n Nomination) Resource() *hal.Resource {
	r := hal.NewResource(n, n.LinkSelf())
	r.AddLink("roster", hal.NewLink(RosterURL(n.n.RosterID.String())))
	return r
}

func (n Nomination) LinkSelf() string {
	return NominationURL(n.n.RosterID.String(), n.n.Nominee)
}
