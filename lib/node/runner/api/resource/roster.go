package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/roster"
)

type Roster struct {
	r *roster.Roster
}

func NewRoster(r *roster.Roster) *Roster {
	return &Roster{r: r}
}

func (r Roster) GetMap() hal.Entry {
	return hal.Entry{
		"id":          r.r.ID.String(),
		"founder":     r.r.Founder,
		"title":       r.r.Title,
		"members":     r.r.Members,
		"nominations": r.r.Nominations,
		"expulsions":  r.r.Expulsions,
		"founded_at":  r.r.FoundedAt,
		"status":      r.r.Status,
	}
}

func (r Roster) Resource() *hal.Resource {
	id := r.r.ID.String()

	rs := hal.NewResource(r, r.LinkSelf())
	rs.AddLink("nomination", hal.NewLink(strings.Replace(URLNomination, "{id}", id, -1), hal.LinkAttr{"templated": true}))
	rs.AddLink("expulsions", hal.NewLink(strings.Replace(URLRosterExpulsions, "{id}", id, -1)))
	rs.AddLink("events", hal.NewLink(strings.Replace(URLRosterEvents, "{id}", id, -1)))
	return rs
}

func (r Roster) LinkSelf() string {
	return RosterURL(r.r.ID.String())
}

func (r Roster) MarshalJSON() ([]byte, error) {
	return common.JSONMarshalWithoutEscapeHTML(r.Resource().GetMap())
}
