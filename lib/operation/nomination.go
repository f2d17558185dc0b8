package operation

import (
	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/roster"
)

type Nominate struct {
	RosterID string `json:"roster_id"`
	Nominee  string `json:"nominee"`
}

func (o Nominate) IsWellFormed(common.Config) error {
	if err := checkRosterID(o.RosterID); err != nil {
		return err
	}

	return checkIdentity(o.Nominee)
}

func (o Nominate) Roster() string {
	return o.RosterID
}

type VoteNomination struct {
	RosterID string           `json:"roster_id"`
	Nominee  string           `json:"nominee"`
	Vote     roster.VoteValue `json:"vote"`
}

func (o VoteNomination) IsWellFormed(common.Config) error {
	if err := checkRosterID(o.RosterID); err != nil {
		return err
	}
	if err := checkIdentity(o.Nominee); err != nil {
		return err
	}

	return checkVote(o.Vote)
}

func (o VoteNomination) Roster() string {
	return o.RosterID
}

type RecantNomination struct {
	RosterID string `json:"roster_id"`
	Nominee  string `json:"nominee"`
}

func (o RecantNomination) IsWellFormed(common.Config) error {
	if err := checkRosterID(o.RosterID); err != nil {
		return err
	}

	return checkIdentity(o.Nominee)
}

func (o RecantNomination) Roster() string {
	return o.RosterID
}

type CloseNomination struct {
	RosterID string `json:"roster_id"`
	Nominee  string `json:"nominee"`
}

func (o CloseNomination) IsWellFormed(common.Config) error {
	if err := checkRosterID(o.RosterID); err != nil {
		return err
	}

	return checkIdentity(o.Nominee)
}

func (o CloseNomination) Roster() string {
	return o.RosterID
}

// AddMember is sent by the nominee of an approved nomination.
type AddMember struct {
	RosterID string `json:"roster_id"`
}

func (o AddMember) IsWellFormed(common.Config) error {
	return checkRosterID(o.RosterID)
}

func (o AddMember) Roster() string {
	return o.RosterID
}
