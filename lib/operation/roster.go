package operation

import (
	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/roster"
)

type CreateRoster struct {
	Title string `json:"title"`
}

func NewCreateRoster(title string) CreateRoster {
	return CreateRoster{Title: title}
}

func (o CreateRoster) IsWellFormed(config common.Config) error {
	if l := len(o.Title); l < 1 || l > config.MaxTitleLength {
		return errors.InvalidTitle.Clone().SetData("length", l)
	}

	return nil
}

type SetRosterStatus struct {
	RosterID string              `json:"roster_id"`
	Status   roster.RosterStatus `json:"status"`
}

func (o SetRosterStatus) IsWellFormed(common.Config) error {
	if err := checkRosterID(o.RosterID); err != nil {
		return err
	}
	if !o.Status.IsValid() {
		return errors.InvalidStatus.Clone().SetData("status", o.Status)
	}

	return nil
}

func (o SetRosterStatus) Roster() string {
	return o.RosterID
}

type RemoveRoster struct {
	RosterID string `json:"roster_id"`
}

func (o RemoveRoster) IsWellFormed(common.Config) error {
	return checkRosterID(o.RosterID)
}

func (o RemoveRoster) Roster() string {
	return o.RosterID
}

type LeaveRoster struct {
	RosterID string `json:"roster_id"`
}

func (o LeaveRoster) IsWellFormed(common.Config) error {
	return checkRosterID(o.RosterID)
}

func (o LeaveRoster) Roster() string {
	return o.RosterID
}

// ForceAddMembers is only accepted from the configured admin.
type ForceAddMembers struct {
	RosterID string   `json:"roster_id"`
	Members  []string `json:"members"`
}

func (o ForceAddMembers) IsWellFormed(config common.Config) error {
	if err := checkRosterID(o.RosterID); err != nil {
		return err
	}
	if len(o.Members) < 1 {
		return errors.InvalidOperation.Clone().SetData("members", 0)
	}
	if len(o.Members) > config.MaxMembers {
		return errors.CapacityExceeded.Clone().
			SetData("collection", "members").
			SetData("limit", config.MaxMembers)
	}

	return checkIdentity(o.Members...)
}

func (o ForceAddMembers) Roster() string {
	return o.RosterID
}

// RemoveMember is only accepted from the configured admin.
type RemoveMember struct {
	RosterID string `json:"roster_id"`
	Member   string `json:"member"`
}

func (o RemoveMember) IsWellFormed(common.Config) error {
	if err := checkRosterID(o.RosterID); err != nil {
		return err
	}

	return checkIdentity(o.Member)
}

func (o RemoveMember) Roster() string {
	return o.RosterID
}
