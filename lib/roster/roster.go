package roster

import (
	"fmt"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
)

type RosterStatus string

const (
	RosterActive   RosterStatus = "active"
	RosterInactive RosterStatus = "inactive"
)

func (s RosterStatus) IsValid() bool {
	switch s {
	case RosterActive, RosterInactive:
		return true
	default:
		return false
	}
}

// ExpulsionRef points at an open proposal from its roster.
type ExpulsionRef struct {
	Motioner string `json:"motioner"`
	Subject  string `json:"subject"`
}

// Roster is the stored roster model.
//
// models
//  * 'rt-<Roster.ID>': `Roster`
type Roster struct {
	ID          RosterID       `json:"id"`
	Founder     string         `json:"founder"`
	Title       string         `json:"title"`
	Members     []string       `json:"members"`
	Nominations []string       `json:"nominations"`
	Expulsions  []ExpulsionRef `json:"expulsions"`
	FoundedAt   common.Height  `json:"founded_at"`
	Status      RosterStatus   `json:"status"`
}

const RosterPrefix = "rt-"

func GetRosterKey(id RosterID) string {
	return fmt.Sprintf("%s%s", RosterPrefix, id)
}

func NewRoster(founder, title string, foundedAt common.Height) *Roster {
	return &Roster{
		ID:          NewRosterID(founder, title),
		Founder:     founder,
		Title:       title,
		Members:     []string{founder},
		Nominations: []string{},
		Expulsions:  []ExpulsionRef{},
		FoundedAt:   foundedAt,
		Status:      RosterActive,
	}
}

func (r *Roster) String() string {
	return string(common.MustMarshalJSON(r))
}

func (r *Roster) IsActive() bool {
	return r.Status == RosterActive
}

func (r *Roster) IsMember(identity string) bool {
	_, found := common.InStringArray(r.Members, identity)
	return found
}

func capacityExceeded(collection string, limit int) error {
	return errors.CapacityExceeded.Clone().
		SetData("collection", collection).
		SetData("limit", limit)
}

func (r *Roster) addMember(member string, limit int) error {
	if r.IsMember(member) {
		return errors.AlreadyMember
	}
	if len(r.Members) >= limit {
		return capacityExceeded("members", limit)
	}

	r.Members = append(r.Members, member)

	return nil
}

func (r *Roster) removeMember(member string) error {
	if member == r.Founder {
		return errors.FounderImmune
	}

	members, found := common.RemoveFromStringArray(r.Members, member)
	if !found {
		return errors.NotMember
	}
	r.Members = members

	return nil
}

func (r *Roster) addNominationRef(nominee string, limit int) error {
	if _, found := common.InStringArray(r.Nominations, nominee); found {
		return errors.NominationAlreadyExists
	}
	if len(r.Nominations) >= limit {
		return capacityExceeded("nominations", limit)
	}

	r.Nominations = append(r.Nominations, nominee)

	return nil
}

func (r *Roster) hasNominationRef(nominee string) bool {
	_, found := common.InStringArray(r.Nominations, nominee)
	return found
}

func (r *Roster) removeNominationRef(nominee string) {
	r.Nominations, _ = common.RemoveFromStringArray(r.Nominations, nominee)
}

func (r *Roster) addExpulsionRef(ref ExpulsionRef, limit int) error {
	if len(r.Expulsions) >= limit {
		return capacityExceeded("expulsions", limit)
	}

	r.Expulsions = append(r.Expulsions, ref)

	return nil
}

func (r *Roster) removeExpulsionRef(ref ExpulsionRef) {
	for i, e := range r.Expulsions {
		if e == ref {
			refs := make([]ExpulsionRef, 0, len(r.Expulsions)-1)
			refs = append(refs, r.Expulsions[:i]...)
			r.Expulsions = append(refs, r.Expulsions[i+1:]...)
			return
		}
	}
}

func (r *Roster) isMotioner(identity string) bool {
	for _, e := range r.Expulsions {
		if e.Motioner == identity {
			return true
		}
	}

	return false
}

func (r *Roster) isSubject(identity string) bool {
	for _, e := range r.Expulsions {
		if e.Subject == identity {
			return true
		}
	}

	return false
}
