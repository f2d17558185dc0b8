package client

import (
	"encoding/json"
	"fmt"

	"boscoin.io/roster/lib/common"
)

type Problem struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Code     uint                   `json:"code,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// Error is returned for every non 2xx response.
type Error struct {
	Problem Problem
}

func (e Error) Error() string {
	if e.Problem.Code > 0 {
		return fmt.Sprintf("%d %s (code=%d)", e.Problem.Status, e.Problem.Title, e.Problem.Code)
	}
	return fmt.Sprintf("%d %s", e.Problem.Status, e.Problem.Title)
}

type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

type NodeInfo struct {
	Node struct {
		Name      string `json:"name"`
		NetworkID string `json:"network_id"`
	} `json:"node"`
	Policy struct {
		RosterDeposit          common.Amount `json:"roster_deposit"`
		NominationDeposit      common.Amount `json:"nomination_deposit"`
		MembershipDues         common.Amount `json:"membership_dues"`
		ProposalDeposit        common.Amount `json:"proposal_deposit"`
		NominationVotingPeriod common.Height `json:"nomination_voting_period"`
		AwaitingSecondPeriod   common.Height `json:"awaiting_second_period"`
		ExpulsionVotingPeriod  common.Height `json:"expulsion_voting_period"`
		LockoutPeriod          common.Height `json:"lockout_period"`
		SecondThreshold        int           `json:"second_threshold"`
		Treasury               string        `json:"treasury"`
	} `json:"policy"`
	Height  common.Height `json:"height"`
	Version string        `json:"version"`
}

type ExpulsionRef struct {
	Motioner string `json:"motioner"`
	Subject  string `json:"subject"`
}

type Roster struct {
	Links struct {
		Self       Link `json:"self"`
		Nomination Link `json:"nomination"`
		Expulsions Link `json:"expulsions"`
		Events     Link `json:"events"`
	} `json:"_links"`

	ID          string         `json:"id"`
	Founder     string         `json:"founder"`
	Title       string         `json:"title"`
	Members     []string       `json:"members"`
	Nominations []string       `json:"nominations"`
	Expulsions  []ExpulsionRef `json:"expulsions"`
	FoundedAt   common.Height  `json:"founded_at"`
	Status      string         `json:"status"`
}

type RostersPage struct {
	Links struct {
		Self Link `json:"self"`
		Next Link `json:"next"`
		Prev Link `json:"prev"`
	} `json:"_links"`
	Embedded struct {
		Records []Roster `json:"records"`
	} `json:"_embedded"`
}

type Vote struct {
	Voter   string        `json:"voter"`
	Value   string        `json:"value"`
	VotedAt common.Height `json:"voted_at"`
}

type Tally struct {
	Aye     int `json:"aye"`
	Nay     int `json:"nay"`
	Abstain int `json:"abstain"`
}

type Nomination struct {
	Links struct {
		Self   Link `json:"self"`
		Roster Link `json:"roster"`
	} `json:"_links"`

	RosterID  string        `json:"roster_id"`
	Nominee   string        `json:"nominee"`
	Nominator string        `json:"nominator"`
	OpenedAt  common.Height `json:"opened_at"`
	Votes     []Vote        `json:"votes"`
	Tally     Tally         `json:"tally"`
	Status    string        `json:"status"`
}

type Expulsion struct {
	Links struct {
		Self   Link `json:"self"`
		Roster Link `json:"roster"`
	} `json:"_links"`

	RosterID       string         `json:"roster_id"`
	Motioner       string         `json:"motioner"`
	Subject        string         `json:"subject"`
	Reason         string         `json:"reason"`
	Seconds        []string       `json:"seconds"`
	Votes          []Vote         `json:"votes"`
	Tally          Tally          `json:"tally"`
	ProposedAt     common.Height  `json:"proposed_at"`
	VotingOpenedAt *common.Height `json:"voting_opened_at"`
	DecidedAt      *common.Height `json:"decided_at"`
	Status         string         `json:"status"`
}

type ExpulsionsPage struct {
	Links struct {
		Self Link `json:"self"`
	} `json:"_links"`
	Embedded struct {
		Records []Expulsion `json:"records"`
	} `json:"_embedded"`
}

type Account struct {
	Links struct {
		Self Link `json:"self"`
	} `json:"_links"`

	Address      string                   `json:"address"`
	Balance      common.Amount            `json:"balance"`
	Reserved     common.Amount            `json:"reserved"`
	Reservations map[string]common.Amount `json:"reservations"`
}

type OperationResult struct {
	Links struct {
		Self   Link `json:"self"`
		Roster Link `json:"roster"`
	} `json:"_links"`

	Hash     string      `json:"hash"`
	Type     string      `json:"type"`
	Caller   string      `json:"caller"`
	RosterID string      `json:"roster_id"`
	Result   interface{} `json:"result,omitempty"`
}

// Event is one line of an event stream. `Event` is left encoded; its shape
// depends on `Kind`.
type Event struct {
	Kind     string          `json:"kind"`
	RosterID string          `json:"roster_id"`
	Event    json.RawMessage `json:"event"`
}
