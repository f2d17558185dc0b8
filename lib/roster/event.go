package roster

import (
	"github.com/GianlucaGuarini/go-observable"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/observer"
)

// Event names never contain whitespace; go-observable splits on it.
const (
	EventRosterCreated                  = "roster-created"
	EventRosterStatusChanged            = "roster-status-changed"
	EventRosterRemoved                  = "roster-removed"
	EventNominationOpened               = "nomination-opened"
	EventNominationVoted                = "nomination-voted"
	EventNominationVoteRecanted         = "nomination-vote-recanted"
	EventNominationClosed               = "nomination-closed"
	EventMemberAdded                    = "member-added"
	EventMemberRemoved                  = "member-removed"
	EventMemberLeft                     = "member-left"
	EventProposalOpened                 = "proposal-opened"
	EventProposalSeconded               = "proposal-seconded"
	EventProposalVotingOpened           = "proposal-voting-opened"
	EventProposalVoted                  = "proposal-voted"
	EventProposalVoteRecanted           = "proposal-vote-recanted"
	EventProposalPassed                 = "proposal-passed"
	EventProposalDismissed              = "proposal-dismissed"
	EventProposalDismissedWithPrejudice = "proposal-dismissed-with-prejudice"
)

type Event interface {
	Kind() string
	Roster() RosterID
}

type EventSink interface {
	Emit(Event)
}

// ObserverSink triggers events on a go-observable bus. Every event is
// triggered three times: by its kind, as 'roster-*' and as
// 'roster-id=<roster id>', so streams can subscribe to one roster.
type ObserverSink struct {
	Observable *observable.Observable
}

func NewObserverSink() ObserverSink {
	return ObserverSink{Observable: observer.RosterObserver}
}

func (s ObserverSink) Emit(e Event) {
	s.Observable.Trigger(e.Kind(), e)
	s.Observable.Trigger(observer.AllRostersEvent, e)
	s.Observable.Trigger(observer.RosterEvent(e.Roster().String()), e)
}

type rosterEvent struct {
	RosterID RosterID `json:"roster_id"`
}

func (e rosterEvent) Roster() RosterID {
	return e.RosterID
}

type RosterCreated struct {
	rosterEvent
	Founder string `json:"founder"`
	Title   string `json:"title"`
}

func (RosterCreated) Kind() string { return EventRosterCreated }

type RosterStatusChanged struct {
	rosterEvent
	Status RosterStatus `json:"status"`
}

func (RosterStatusChanged) Kind() string { return EventRosterStatusChanged }

type RosterRemoved struct {
	rosterEvent
}

func (RosterRemoved) Kind() string { return EventRosterRemoved }

type NominationOpened struct {
	rosterEvent
	Nominee   string `json:"nominee"`
	Nominator string `json:"nominator"`
}

func (NominationOpened) Kind() string { return EventNominationOpened }

type NominationVoted struct {
	rosterEvent
	Nominee string    `json:"nominee"`
	Voter   string    `json:"voter"`
	Value   VoteValue `json:"value"`
}

func (NominationVoted) Kind() string { return EventNominationVoted }

type NominationVoteRecanted struct {
	rosterEvent
	Nominee string `json:"nominee"`
	Voter   string `json:"voter"`
}

func (NominationVoteRecanted) Kind() string { return EventNominationVoteRecanted }

type NominationClosed struct {
	rosterEvent
	Nominee string           `json:"nominee"`
	Status  NominationStatus `json:"status"`
}

func (NominationClosed) Kind() string { return EventNominationClosed }

type MemberAdded struct {
	rosterEvent
	Member string `json:"member"`
}

func (MemberAdded) Kind() string { return EventMemberAdded }

type MemberRemoved struct {
	rosterEvent
	Member string `json:"member"`
}

func (MemberRemoved) Kind() string { return EventMemberRemoved }

type MemberLeft struct {
	rosterEvent
	Member string `json:"member"`
}

func (MemberLeft) Kind() string { return EventMemberLeft }

type proposalEvent struct {
	rosterEvent
	Motioner string `json:"motioner"`
	Subject  string `json:"subject"`
}

type ExpulsionOpened struct {
	proposalEvent
	Reason string `json:"reason"`
}

func (ExpulsionOpened) Kind() string { return EventProposalOpened }

type ExpulsionSeconded struct {
	proposalEvent
	Seconder string `json:"seconder"`
}

func (ExpulsionSeconded) Kind() string { return EventProposalSeconded }

type ExpulsionVotingOpened struct {
	proposalEvent
}

func (ExpulsionVotingOpened) Kind() string { return EventProposalVotingOpened }

type ExpulsionVoted struct {
	proposalEvent
	Voter string    `json:"voter"`
	Value VoteValue `json:"value"`
}

func (ExpulsionVoted) Kind() string { return EventProposalVoted }

type ExpulsionVoteRecanted struct {
	proposalEvent
	Voter string `json:"voter"`
}

func (ExpulsionVoteRecanted) Kind() string { return EventProposalVoteRecanted }

type ExpulsionPassed struct {
	proposalEvent
	Slashed common.Amount `json:"slashed"`
}

func (ExpulsionPassed) Kind() string { return EventProposalPassed }

type ExpulsionDismissed struct {
	proposalEvent
}

func (ExpulsionDismissed) Kind() string { return EventProposalDismissed }

type ExpulsionDismissedWithPrejudice struct {
	proposalEvent
	Reparations common.Amount `json:"reparations"`
	Slashed     common.Amount `json:"slashed"`
}

func (ExpulsionDismissedWithPrejudice) Kind() string { return EventProposalDismissedWithPrejudice }

func newProposalEvent(p *ExpulsionProposal) proposalEvent {
	return proposalEvent{
		rosterEvent: rosterEvent{RosterID: p.RosterID},
		Motioner:    p.Motioner,
		Subject:     p.Subject,
	}
}
