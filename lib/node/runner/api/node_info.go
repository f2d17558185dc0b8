package api

import (
	"net/http"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/network/httputils"
	"boscoin.io/roster/lib/version"
)

type NodeInfo struct {
	Node    NodeInfoNode  `json:"node"`
	Policy  NodePolicy    `json:"policy"`
	Height  common.Height `json:"height"`
	Version string        `json:"version"`
}

type NodeInfoNode struct {
	Name      string `json:"name"`
	NetworkID string `json:"network_id"`
}

// NodePolicy is the governance configuration clients need to build valid
// operations.
type NodePolicy struct {
	RosterDeposit          common.Amount  `json:"roster_deposit"`
	NominationDeposit      common.Amount  `json:"nomination_deposit"`
	MembershipDues         common.Amount  `json:"membership_dues"`
	ProposalDeposit        common.Amount  `json:"proposal_deposit"`
	NominationVotingPeriod common.Height  `json:"nomination_voting_period"`
	AwaitingSecondPeriod   common.Height  `json:"awaiting_second_period"`
	ExpulsionVotingPeriod  common.Height  `json:"expulsion_voting_period"`
	LockoutPeriod          common.Height  `json:"lockout_period"`
	SecondThreshold        int            `json:"second_threshold"`
	Supermajority          common.Perbill `json:"supermajority"`
	ReparationsPercent     common.Perbill `json:"reparations_percent"`
	Treasury               string         `json:"treasury"`
}

func (api NetworkHandlerAPI) GetNodeInfoHandler(w http.ResponseWriter, r *http.Request) {
	c := api.config

	info := NodeInfo{
		Node: NodeInfoNode{
			Name:      api.nodeName,
			NetworkID: string(c.NetworkID),
		},
		Policy: NodePolicy{
			RosterDeposit:          c.RosterDeposit,
			NominationDeposit:      c.NominationDeposit,
			MembershipDues:         c.MembershipDues,
			ProposalDeposit:        c.ProposalDeposit,
			NominationVotingPeriod: c.NominationVotingPeriod,
			AwaitingSecondPeriod:   c.AwaitingSecondPeriod,
			ExpulsionVotingPeriod:  c.ExpulsionVotingPeriod,
			LockoutPeriod:          c.LockoutPeriod,
			SecondThreshold:        c.SecondThreshold,
			Supermajority:          c.Supermajority,
			ReparationsPercent:     c.ReparationsPercent,
			Treasury:               c.Treasury,
		},
		Height:  api.clock.Height(),
		Version: version.Version,
	}

	httputils.MustWriteJSON(w, 200, info)
}
