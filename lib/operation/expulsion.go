package operation

import (
	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/roster"
)

type ProposeExpulsion struct {
	RosterID string `json:"roster_id"`
	Subject  string `json:"subject"`
	Reason   string `json:"reason"`
}

func (o ProposeExpulsion) IsWellFormed(config common.Config) error {
	if err := checkRosterID(o.RosterID); err != nil {
		return err
	}
	if err := checkIdentity(o.Subject); err != nil {
		return err
	}
	if l := len(o.Reason); l < config.MinReasonLength || l > config.MaxReasonLength {
		return errors.InvalidReason.Clone().SetData("length", l)
	}

	return nil
}

func (o ProposeExpulsion) Roster() string {
	return o.RosterID
}

// proposal identifies an expulsion proposal by motioner and subject.
type proposal struct {
	RosterID string `json:"roster_id"`
	Motioner string `json:"motioner"`
	Subject  string `json:"subject"`
}

func (o proposal) IsWellFormed(common.Config) error {
	if err := checkRosterID(o.RosterID); err != nil {
		return err
	}

	return checkIdentity(o.Motioner, o.Subject)
}

func (o proposal) Roster() string {
	return o.RosterID
}

type SecondExpulsion struct {
	RosterID string `json:"roster_id"`
	Motioner string `json:"motioner"`
	Subject  string `json:"subject"`
}

func (o SecondExpulsion) IsWellFormed(config common.Config) error {
	return proposal(o).IsWellFormed(config)
}

func (o SecondExpulsion) Roster() string {
	return o.RosterID
}

// OpenExpulsionVoting is sent by the motioner.
type OpenExpulsionVoting struct {
	RosterID string `json:"roster_id"`
	Subject  string `json:"subject"`
}

func (o OpenExpulsionVoting) IsWellFormed(common.Config) error {
	if err := checkRosterID(o.RosterID); err != nil {
		return err
	}

	return checkIdentity(o.Subject)
}

func (o OpenExpulsionVoting) Roster() string {
	return o.RosterID
}

type VoteExpulsion struct {
	RosterID string           `json:"roster_id"`
	Motioner string           `json:"motioner"`
	Subject  string           `json:"subject"`
	Vote     roster.VoteValue `json:"vote"`
}

func (o VoteExpulsion) IsWellFormed(config common.Config) error {
	p := proposal{RosterID: o.RosterID, Motioner: o.Motioner, Subject: o.Subject}
	if err := p.IsWellFormed(config); err != nil {
		return err
	}

	return checkVote(o.Vote)
}

func (o VoteExpulsion) Roster() string {
	return o.RosterID
}

type RecantExpulsion struct {
	RosterID string `json:"roster_id"`
	Motioner string `json:"motioner"`
	Subject  string `json:"subject"`
}

func (o RecantExpulsion) IsWellFormed(config common.Config) error {
	return proposal(o).IsWellFormed(config)
}

func (o RecantExpulsion) Roster() string {
	return o.RosterID
}

type CloseExpulsion struct {
	RosterID string `json:"roster_id"`
	Motioner string `json:"motioner"`
	Subject  string `json:"subject"`
}

func (o CloseExpulsion) IsWellFormed(config common.Config) error {
	return proposal(o).IsWellFormed(config)
}

func (o CloseExpulsion) Roster() string {
	return o.RosterID
}
