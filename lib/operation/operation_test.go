package operation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/keypair"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/roster"
)

func TestNewOperationType(t *testing.T) {
	kp := keypair.Random()
	id := roster.NewRosterID(kp.Address(), "title").String()

	cases := []struct {
		body Body
		t    OperationType
	}{
		{NewCreateRoster("title"), TypeCreateRoster},
		{SetRosterStatus{RosterID: id, Status: roster.RosterInactive}, TypeSetRosterStatus},
		{Nominate{RosterID: id, Nominee: kp.Address()}, TypeNominate},
		{VoteExpulsion{RosterID: id, Motioner: kp.Address(), Subject: kp.Address(), Vote: roster.Aye}, TypeVoteExpulsion},
		{ForceAddMembers{RosterID: id, Members: []string{kp.Address()}}, TypeForceAddMembers},
	}

	for _, c := range cases {
		op, err := NewOperation(kp.Address(), c.body)
		require.NoError(t, err)
		require.Equal(t, c.t, op.H.Type)
		require.True(t, IsValidOperationType(string(op.H.Type)))
	}

	_, err := NewOperation(kp.Address(), nil)
	require.True(t, errors.Is(err, errors.InvalidOperation))
}

func TestOperationSignAndVerify(t *testing.T) {
	conf := common.NewTestConfig()
	kp := keypair.Random()

	op := MakeTestSignedOperation(kp, conf.NetworkID, NewCreateRoster("title"))
	require.Equal(t, kp.Address(), op.H.Caller)
	require.NotEmpty(t, op.H.Signature)
	require.NoError(t, op.IsWellFormed(conf))
	require.NoError(t, op.VerifySignature(conf.NetworkID))

	{ // other network
		err := op.VerifySignature([]byte("other-network"))
		require.True(t, errors.Is(err, errors.InvalidSignature))
	}

	{ // modified body
		modified := op
		modified.B = NewCreateRoster("other title")
		err := modified.VerifySignature(conf.NetworkID)
		require.True(t, errors.Is(err, errors.InvalidSignature))
	}

	{ // other caller
		modified := op
		modified.H.Caller = keypair.Random().Address()
		err := modified.VerifySignature(conf.NetworkID)
		require.True(t, errors.Is(err, errors.InvalidSignature))
	}

	{ // empty signature
		modified := op
		modified.H.Signature = ""
		err := modified.VerifySignature(conf.NetworkID)
		require.True(t, errors.Is(err, errors.InvalidSignature))
	}
}

func TestOperationJSON(t *testing.T) {
	conf := common.NewTestConfig()
	kp := keypair.Random()
	subject := keypair.Random().Address()
	id := roster.NewRosterID(kp.Address(), "title").String()

	op := MakeTestSignedOperation(kp, conf.NetworkID, VoteExpulsion{
		RosterID: id,
		Motioner: kp.Address(),
		Subject:  subject,
		Vote:     roster.Nay,
	})

	b, err := json.Marshal(op)
	require.NoError(t, err)

	var decoded Operation
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, op.H, decoded.H)

	body, ok := decoded.B.(VoteExpulsion)
	require.True(t, ok)
	require.Equal(t, subject, body.Subject)
	require.Equal(t, roster.Nay, body.Vote)
	require.Equal(t, id, body.Roster())

	require.Equal(t, op.MakeHashString(), decoded.MakeHashString())
	require.NoError(t, decoded.VerifySignature(conf.NetworkID))
}

func TestOperationJSONUnknownType(t *testing.T) {
	var op Operation
	err := json.Unmarshal([]byte(`{"H":{"type":"pay","caller":"","signature":""},"B":{}}`), &op)
	require.True(t, errors.Is(err, errors.InvalidOperation))
}

func TestOperationIsWellFormed(t *testing.T) {
	conf := common.NewTestConfig()
	kp := keypair.Random()
	id := roster.NewRosterID(kp.Address(), "title").String()

	cases := []struct {
		name string
		body Body
		err  *errors.Error
	}{
		{"empty title", NewCreateRoster(""), errors.InvalidTitle},
		{"long title", NewCreateRoster(strings.Repeat("t", conf.MaxTitleLength+1)), errors.InvalidTitle},
		{"bad roster id", RemoveRoster{RosterID: "not-an-id"}, errors.InvalidRosterID},
		{"bad status", SetRosterStatus{RosterID: id, Status: "dormant"}, errors.InvalidStatus},
		{"bad nominee", Nominate{RosterID: id, Nominee: "nobody"}, errors.InvalidIdentity},
		{"seed as nominee", Nominate{RosterID: id, Nominee: kp.Seed()}, errors.InvalidIdentity},
		{"bad vote", VoteNomination{RosterID: id, Nominee: kp.Address(), Vote: "maybe"}, errors.InvalidVote},
		{"short reason", ProposeExpulsion{RosterID: id, Subject: kp.Address(), Reason: "bad"}, errors.InvalidReason},
		{"bad motioner", SecondExpulsion{RosterID: id, Motioner: "", Subject: kp.Address()}, errors.InvalidIdentity},
		{"no members", ForceAddMembers{RosterID: id}, errors.InvalidOperation},
		{"bad member", ForceAddMembers{RosterID: id, Members: []string{"nobody"}}, errors.InvalidIdentity},
	}

	for _, c := range cases {
		op, err := NewOperation(kp.Address(), c.body)
		require.NoError(t, err, c.name)

		err = op.IsWellFormed(conf)
		require.True(t, errors.Is(err, c.err), "%s: %v", c.name, err)
	}

	{ // bad caller
		op, err := NewOperation("caller", NewCreateRoster("title"))
		require.NoError(t, err)
		require.True(t, errors.Is(op.IsWellFormed(conf), errors.InvalidIdentity))
	}

	{ // well-formed bodies
		bodies := []Body{
			ProposeExpulsion{RosterID: id, Subject: kp.Address(), Reason: "absent for a long time"},
			OpenExpulsionVoting{RosterID: id, Subject: kp.Address()},
			CloseNomination{RosterID: id, Nominee: kp.Address()},
			AddMember{RosterID: id},
			LeaveRoster{RosterID: id},
		}
		for _, body := range bodies {
			op, err := NewOperation(kp.Address(), body)
			require.NoError(t, err)
			require.NoError(t, op.IsWellFormed(conf))
		}
	}
}
