package roster

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/keypair"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/ledger"
	"boscoin.io/roster/lib/metrics"
	"boscoin.io/roster/lib/storage"
)

type recordingSink struct {
	events []Event
}

func (s *recordingSink) Emit(e Event) {
	s.events = append(s.events, e)
}

func (s *recordingSink) Kinds() []string {
	var kinds []string
	for _, e := range s.events {
		kinds = append(kinds, e.Kind())
	}

	return kinds
}

func (s *recordingSink) Reset() {
	s.events = nil
}

type testEngine struct {
	*Engine

	clock  *ManualClock
	sink   *recordingSink
	ledger *ledger.LevelDBLedger
}

func newTestEngine(t *testing.T) *testEngine {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)

	clock := NewManualClock(1)
	sink := &recordingSink{}

	e := NewEngine(st, clock, common.NewTestConfig(), sink)
	e.SetMetrics(metrics.NopEngineMetrics())

	return &testEngine{
		Engine: e,
		clock:  clock,
		sink:   sink,
		ledger: ledger.New(st),
	}
}

func (te *testEngine) Close() {
	te.st.Close()
}

func (te *testEngine) fund(t *testing.T, amount common.Amount) string {
	address := keypair.Random().Address()
	require.NoError(t, te.ledger.Deposit(address, amount))

	return address
}

func (te *testEngine) balance(t *testing.T, address string) common.Amount {
	b, err := te.ledger.Balance(address)
	require.NoError(t, err)

	return b
}

func (te *testEngine) reserved(t *testing.T, scope ledger.ScopeName, address string) common.Amount {
	r, err := te.ledger.Reserved(scope, address)
	require.NoError(t, err)

	return r
}

// newTestRoster creates a roster with `size` members in total; the ones
// besides the founder are force-added and hold no dues.
func (te *testEngine) newTestRoster(t *testing.T, size int) (RosterID, string, []string) {
	founder := te.fund(t, 10000)
	id, err := te.Create(founder, "test roster")
	require.NoError(t, err)

	var members []string
	for i := 1; i < size; i++ {
		members = append(members, te.fund(t, 1000))
	}
	if len(members) > 0 {
		require.NoError(t, te.ForceAddMembers(id, members...))
	}

	te.sink.Reset()

	return id, founder, members
}

// admit runs a whole nomination, every member voting aye.
func (te *testEngine) admit(t *testing.T, id RosterID, nominator, nominee string) {
	require.NoError(t, te.Nominate(nominator, id, nominee))

	r, err := te.GetRoster(id)
	require.NoError(t, err)
	for _, m := range r.Members {
		require.NoError(t, te.VoteNomination(m, id, nominee, Aye))
	}

	status, err := te.CloseNomination(nominee, id, nominee)
	require.NoError(t, err)
	require.Equal(t, NominationApproved, status)

	require.NoError(t, te.AddMember(nominee, id))
}

func requireError(t *testing.T, expected *errors.Error, err error) {
	require.Error(t, err)
	require.True(t, errors.Is(err, expected), "expected %q, got %q", expected.Message, err)
}

func TestCreateRoster(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	founder := te.fund(t, 5000)

	id, err := te.Create(founder, "chess club")
	require.NoError(t, err)
	require.Equal(t, NewRosterID(founder, "chess club"), id)

	r, err := te.GetRoster(id)
	require.NoError(t, err)
	require.Equal(t, founder, r.Founder)
	require.Equal(t, []string{founder}, r.Members)
	require.Equal(t, RosterActive, r.Status)
	require.Equal(t, common.Height(1), r.FoundedAt)

	require.Equal(t, common.Amount(1000), te.reserved(t, RosterDepositScope(r), founder))
	require.Equal(t, common.Amount(4000), te.balance(t, founder))

	require.Equal(t, []string{EventRosterCreated}, te.sink.Kinds())
	created := te.sink.events[0].(RosterCreated)
	require.Equal(t, id, created.Roster())
	require.Equal(t, "chess club", created.Title)
}

func TestCreateRosterTitleUniqueness(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	a := te.fund(t, 5000)
	b := te.fund(t, 5000)

	_, err := te.Create(a, "X")
	require.NoError(t, err)

	_, err = te.Create(a, "X")
	requireError(t, errors.AlreadyExists, err)

	// the failed attempt reserved nothing more
	require.Equal(t, common.Amount(4000), te.balance(t, a))

	_, err = te.Create(b, "X")
	require.NoError(t, err)
}

func TestCreateRosterValidation(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	founder := te.fund(t, 5000)

	_, err := te.Create(founder, "")
	requireError(t, errors.InvalidTitle, err)

	_, err = te.Create(founder, strings.Repeat("a", te.config.MaxTitleLength+1))
	requireError(t, errors.InvalidTitle, err)

	_, err = te.Create(founder, string([]byte{0xff, 0xfe}))
	requireError(t, errors.InvalidTitle, err)

	_, err = te.Create("not-an-address", "title")
	requireError(t, errors.InvalidIdentity, err)

	_, err = te.Create(founder, strings.Repeat("a", te.config.MaxTitleLength))
	require.NoError(t, err)
}

func TestCreateRosterInsufficientFunds(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	founder := te.fund(t, 10)

	_, err := te.Create(founder, "poor")
	requireError(t, errors.InsufficientFunds, err)

	_, err = te.GetRoster(NewRosterID(founder, "poor"))
	requireError(t, errors.NotFound, err)
	require.Empty(t, te.sink.events)
	require.Equal(t, common.Amount(10), te.balance(t, founder))
}

func TestSetStatus(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	id, founder, members := te.newTestRoster(t, 2)

	requireError(t, errors.NotFound, te.SetStatus(founder, NewRosterID(founder, "unknown"), RosterInactive))
	requireError(t, errors.PermissionDenied, te.SetStatus(members[0], id, RosterInactive))
	requireError(t, errors.AlreadyInState, te.SetStatus(founder, id, RosterActive))
	requireError(t, errors.InvalidStatus, te.SetStatus(founder, id, RosterStatus("paused")))

	require.NoError(t, te.SetStatus(founder, id, RosterInactive))
	r, err := te.GetRoster(id)
	require.NoError(t, err)
	require.Equal(t, RosterInactive, r.Status)

	requireError(t, errors.RosterInactive, te.Nominate(founder, id, te.fund(t, 10)))

	require.NoError(t, te.SetStatus(founder, id, RosterActive))
	require.Equal(t, []string{EventRosterStatusChanged, EventRosterStatusChanged}, te.sink.Kinds())
}

func TestDeactivateCascades(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	id, founder, members := te.newTestRoster(t, 4)
	nominee := te.fund(t, 1000)

	require.NoError(t, te.Nominate(members[0], id, nominee))
	require.NoError(t, te.Propose(members[1], members[2], id, "reason for expulsion"))

	nominationScope := NominationDepositScope(id, nominee)
	proposalScope := ProposalDepositScope(id, members[2])
	require.Equal(t, te.config.NominationDeposit, te.reserved(t, nominationScope, members[0]))
	require.Equal(t, te.config.ProposalDeposit, te.reserved(t, proposalScope, members[1]))

	te.sink.Reset()
	require.NoError(t, te.SetStatus(founder, id, RosterInactive))

	n, err := te.GetNomination(id, nominee)
	require.NoError(t, err)
	require.Equal(t, NominationRejected, n.Status)

	p, err := te.GetProposal(id, members[1], members[2])
	require.NoError(t, err)
	require.Equal(t, ProposalDismissed, p.Status)
	require.NotNil(t, p.DecidedAt)

	r, err := te.GetRoster(id)
	require.NoError(t, err)
	require.Empty(t, r.Nominations)
	require.Empty(t, r.Expulsions)

	require.Equal(t, common.Amount(0), te.reserved(t, nominationScope, members[0]))
	require.Equal(t, common.Amount(0), te.reserved(t, proposalScope, members[1]))
	require.Equal(t, common.Amount(1000), te.balance(t, members[0]))
	require.Equal(t, common.Amount(1000), te.balance(t, members[1]))

	require.Equal(
		t,
		[]string{EventNominationClosed, EventProposalDismissed, EventRosterStatusChanged},
		te.sink.Kinds(),
	)
	require.Equal(t, NominationRejected, te.sink.events[0].(NominationClosed).Status)

	nominations, err := te.Concluded(ConcludedNominationsKey)
	require.NoError(t, err)
	require.Equal(t, []string{n.Key()}, nominations)

	expulsions, err := te.Concluded(ConcludedExpulsionsKey)
	require.NoError(t, err)
	require.Equal(t, []string{p.Key()}, expulsions)
}

func TestDeactivateRejectsApprovedNomination(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	id, founder, _ := te.newTestRoster(t, 1)
	nominee := te.fund(t, 1000)

	require.NoError(t, te.Nominate(founder, id, nominee))
	require.NoError(t, te.VoteNomination(founder, id, nominee, Aye))
	status, err := te.CloseNomination(nominee, id, nominee)
	require.NoError(t, err)
	require.Equal(t, NominationApproved, status)

	require.NoError(t, te.SetStatus(founder, id, RosterInactive))

	n, err := te.GetNomination(id, nominee)
	require.NoError(t, err)
	require.Equal(t, NominationRejected, n.Status)
	require.Equal(t, common.Amount(0), te.reserved(t, NominationDepositScope(id, nominee), founder))

	require.NoError(t, te.SetStatus(founder, id, RosterActive))
	requireError(t, errors.NominationNotApproved, te.AddMember(nominee, id))
}

func TestRemoveRoster(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	id, founder, members := te.newTestRoster(t, 3)
	joined := te.fund(t, 1000)
	te.admit(t, id, founder, joined)
	require.Equal(t, te.config.MembershipDues, te.reserved(t, MembershipDuesScope(id, joined), joined))

	// leave a dismissed-with-prejudice proposal and its lockouts behind
	require.NoError(t, te.Propose(members[0], members[1], id, "reason for expulsion"))
	te.clock.Advance(te.config.AwaitingSecondPeriod)
	status, err := te.CloseProposal(founder, members[0], members[1], id)
	require.NoError(t, err)
	require.Equal(t, ProposalDismissedWithPrejudice, status)

	requireError(t, errors.StillActive, te.Remove(founder, id))
	require.NoError(t, te.SetStatus(founder, id, RosterInactive))
	requireError(t, errors.PermissionDenied, te.Remove(members[0], id))

	te.sink.Reset()
	require.NoError(t, te.Remove(founder, id))

	_, err = te.GetRoster(id)
	requireError(t, errors.NotFound, err)

	keys, err := te.st.Keys(GetExpulsionKeyPrefix(id))
	require.NoError(t, err)
	require.Empty(t, keys)
	keys, err = te.st.Keys(GetLockoutKeyPrefix(id))
	require.NoError(t, err)
	require.Empty(t, keys)

	require.Equal(t, common.Amount(10000), te.balance(t, founder))
	require.Equal(t, common.Amount(1000), te.balance(t, joined))
	require.Equal(t, []string{EventRosterRemoved}, te.sink.Kinds())

	requireError(t, errors.NotFound, te.Remove(founder, id))
}

func TestRemoveRosterIncompleteCleanup(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	id, founder, members := te.newTestRoster(t, 5)

	require.NoError(t, te.Propose(members[0], members[1], id, "reason for expulsion"))
	require.NoError(t, te.Propose(members[2], members[3], id, "reason for expulsion"))
	require.NoError(t, te.SetStatus(founder, id, RosterInactive))

	te.config.MaxRemovalBatch = 1
	requireError(t, errors.IncompleteCleanup, te.Remove(founder, id))

	// nothing was removed
	r, err := te.GetRoster(id)
	require.NoError(t, err)
	require.Equal(t, RosterInactive, r.Status)
	proposals, err := te.ListProposals(id)
	require.NoError(t, err)
	require.Equal(t, 2, len(proposals))

	te.config.MaxRemovalBatch = 2
	require.NoError(t, te.Remove(founder, id))

	proposals, err = te.ListProposals(id)
	require.NoError(t, err)
	require.Empty(t, proposals)
}

func TestLeave(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	id, founder, members := te.newTestRoster(t, 3)
	joined := te.fund(t, 1000)
	te.admit(t, id, founder, joined)
	require.Equal(t, common.Amount(950), te.balance(t, joined))

	requireError(t, errors.PermissionDenied, te.Leave(founder, id))

	te.sink.Reset()
	require.NoError(t, te.Leave(joined, id))
	require.Equal(t, common.Amount(1000), te.balance(t, joined))
	require.Equal(t, []string{EventMemberLeft}, te.sink.Kinds())

	requireError(t, errors.NotMember, te.Leave(joined, id))

	require.NoError(t, te.Propose(members[0], members[1], id, "reason for expulsion"))
	requireError(t, errors.HasOpenProposal, te.Leave(members[0], id))
	requireError(t, errors.HasOpenProposal, te.Leave(members[1], id))
}

func TestForceAddAndRemoveMember(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	id, founder, members := te.newTestRoster(t, 2)

	requireError(t, errors.FounderImmune, te.RemoveMember(id, founder))
	requireError(t, errors.AlreadyMember, te.ForceAddMembers(id, members[0]))
	requireError(t, errors.InvalidIdentity, te.ForceAddMembers(id, "nobody"))

	require.NoError(t, te.RemoveMember(id, members[0]))
	requireError(t, errors.NotMember, te.RemoveMember(id, members[0]))

	te.config.MaxMembers = 2
	require.NoError(t, te.ForceAddMembers(id, members[0]))
	err := te.ForceAddMembers(id, keypair.Random().Address())
	requireError(t, errors.CapacityExceeded, err)
	require.Equal(t, "members", err.(*errors.Error).Data["collection"])

	r, err := te.GetRoster(id)
	require.NoError(t, err)
	require.Equal(t, 2, len(r.Members))
}

func TestForceAddSettlesNominations(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	id, founder, members := te.newTestRoster(t, 2)
	approved := te.fund(t, 1000)
	pending := te.fund(t, 1000)

	require.NoError(t, te.Nominate(founder, id, approved))
	require.NoError(t, te.VoteNomination(founder, id, approved, Aye))
	require.NoError(t, te.VoteNomination(members[0], id, approved, Aye))
	status, err := te.CloseNomination(approved, id, approved)
	require.NoError(t, err)
	require.Equal(t, NominationApproved, status)

	require.NoError(t, te.Nominate(founder, id, pending))

	te.sink.Reset()
	require.NoError(t, te.ForceAddMembers(id, approved, pending))

	r, err := te.GetRoster(id)
	require.NoError(t, err)
	require.Empty(t, r.Nominations)
	require.True(t, r.IsMember(approved))
	require.True(t, r.IsMember(pending))

	require.Equal(t, common.Amount(0), te.reserved(t, NominationDepositScope(id, approved), founder))
	require.Equal(t, common.Amount(0), te.reserved(t, NominationDepositScope(id, pending), founder))
	require.Equal(t, common.Amount(10000)-te.config.RosterDeposit, te.balance(t, founder))

	n, err := te.GetNomination(id, pending)
	require.NoError(t, err)
	require.Equal(t, NominationRejected, n.Status)
	require.Equal(
		t,
		[]string{EventMemberAdded, EventNominationClosed, EventMemberAdded},
		te.sink.Kinds(),
	)

	keys, err := te.Concluded(ConcludedNominationsKey)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{GetNominationKey(approved, id), GetNominationKey(pending, id)}, keys)

	requireError(t, errors.AlreadyMember, te.AddMember(approved, id))

	// a settled nomination can not be used to join again
	require.NoError(t, te.RemoveMember(id, approved))
	requireError(t, errors.NominationNotApproved, te.AddMember(approved, id))
}

func TestLeaveWithdrawsVotesAndSeconds(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	id, founder, members := te.newTestRoster(t, 5)
	joined := te.fund(t, 1000)
	te.admit(t, id, founder, joined)

	nominee := te.fund(t, 1000)
	require.NoError(t, te.Nominate(founder, id, nominee))
	require.NoError(t, te.VoteNomination(joined, id, nominee, Aye))

	// voting on one proposal, awaiting seconds on the other
	require.NoError(t, te.Propose(members[0], members[1], id, testReason))
	require.NoError(t, te.Second(members[2], members[0], members[1], id))
	require.NoError(t, te.Second(members[3], members[0], members[1], id))
	require.NoError(t, te.OpenVoting(members[0], members[1], id))
	require.NoError(t, te.VoteProposal(joined, members[0], members[1], id, Nay))

	require.NoError(t, te.Propose(members[2], members[3], id, testReason))
	require.NoError(t, te.Second(joined, members[2], members[3], id))

	require.NoError(t, te.Leave(joined, id))

	n, err := te.GetNomination(id, nominee)
	require.NoError(t, err)
	require.Empty(t, n.Votes)

	voting, err := te.GetProposal(id, members[0], members[1])
	require.NoError(t, err)
	require.Equal(t, ProposalVoting, voting.Status)
	require.Empty(t, voting.Votes)
	require.Equal(t, 2, len(voting.Seconds))

	seconded, err := te.GetProposal(id, members[2], members[3])
	require.NoError(t, err)
	require.Equal(t, ProposalProposed, seconded.Status)
	require.Empty(t, seconded.Seconds)
}

func TestAddMemberIsAtomic(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	id, founder, _ := te.newTestRoster(t, 1)
	nominee := te.fund(t, 10)

	require.NoError(t, te.Nominate(founder, id, nominee))
	require.NoError(t, te.VoteNomination(founder, id, nominee, Aye))
	_, err := te.CloseNomination(founder, id, nominee)
	require.NoError(t, err)

	te.sink.Reset()
	requireError(t, errors.InsufficientFunds, te.AddMember(nominee, id))
	require.Empty(t, te.sink.events)

	r, err := te.GetRoster(id)
	require.NoError(t, err)
	require.False(t, r.IsMember(nominee))
	require.Equal(t, []string{nominee}, r.Nominations)
	require.Equal(t, te.config.NominationDeposit, te.reserved(t, NominationDepositScope(id, nominee), founder))

	require.NoError(t, te.ledger.Deposit(nominee, 100))
	require.NoError(t, te.AddMember(nominee, id))
}

func TestListRosters(t *testing.T) {
	te := newTestEngine(t)
	defer te.Close()

	founder := te.fund(t, 10000)
	for i := 0; i < 3; i++ {
		_, err := te.Create(founder, fmt.Sprintf("roster %d", i))
		require.NoError(t, err)
	}

	rosters, err := te.ListRosters(storage.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 2, len(rosters))

	cursor := []byte(GetRosterKey(rosters[1].ID))
	rest, err := te.ListRosters(storage.ListOptions{Cursor: cursor, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 1, len(rest))
	require.NotEqual(t, rosters[0].ID, rest[0].ID)
	require.NotEqual(t, rosters[1].ID, rest[0].ID)
}
