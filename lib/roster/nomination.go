package roster

import (
	"fmt"

	"boscoin.io/roster/lib/common"
)

type NominationStatus string

const (
	NominationPending  NominationStatus = "pending"
	NominationApproved NominationStatus = "approved"
	NominationRejected NominationStatus = "rejected"
)

// Nomination is a proposal to admit `Nominee` into a roster.
//
// models
//  * 'nm-<Nomination.Nominee>-<Nomination.RosterID>': `Nomination`
type Nomination struct {
	RosterID  RosterID         `json:"roster_id"`
	Nominee   string           `json:"nominee"`
	Nominator string           `json:"nominator"`
	OpenedAt  common.Height    `json:"opened_at"`
	Votes     Votes            `json:"votes"`
	Status    NominationStatus `json:"status"`
}

const NominationPrefix = "nm-"

func GetNominationKey(nominee string, rosterID RosterID) string {
	return fmt.Sprintf("%s%s-%s", NominationPrefix, nominee, rosterID)
}

func (n *Nomination) Key() string {
	return GetNominationKey(n.Nominee, n.RosterID)
}

func (n *Nomination) String() string {
	return string(common.MustMarshalJSON(n))
}

// InVotingPeriod is inclusive of the last height of the period.
func (n *Nomination) InVotingPeriod(now, period common.Height) bool {
	return n.Status == NominationPending && n.OpenedAt.Add(period) >= now
}
