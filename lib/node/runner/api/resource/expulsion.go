package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/roster/lib/roster"
)

type Expulsion struct {
	p *roster.ExpulsionProposal
}

func NewExpulsion(p *roster.ExpulsionProposal) *Expulsion {
	return &Expulsion{p: p}
}

func (e Expulsion) GetMap() hal.Entry {
	return hal.Entry{
		"roster_id":        e.p.RosterID.String(),
		"motioner":         e.p.Motioner,
		"subject":          e.p.Subject,
		"reason":           e.p.Reason,
		"seconds":          e.p.Seconds,
		"votes":            e.p.Votes,
		"tally":            tally(e.p.Votes),
		"proposed_at":      e.p.ProposedAt,
		"voting_opened_at": e.p.VotingOpenedAt,
		"decided_at":       e.p.DecidedAt,
		"status":           e.p.Status,
	}
}

func (e Expulsion) Resource() *hal.Resource {
	r := hal.NewResource(e, e.LinkSelf())
	r.AddLink("roster", hal.NewLink(RosterURL(e.p.RosterID.String())))
	return r
}

func (e Expulsion) LinkSelf() string {
	return ExpulsionURL(e.p.RosterID.String(), e.p.Motioner, e.p.Subject)
}
