package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/keypair"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/ledger"
	"boscoin.io/roster/lib/network"
	"boscoin.io/roster/lib/node/runner"
	"boscoin.io/roster/lib/operation"
	"boscoin.io/roster/lib/roster"
	"boscoin.io/roster/lib/storage"
)

type testNode struct {
	nr     *runner.NodeRunner
	ts     *httptest.Server
	client *Client
}

func prepareTestNode(t *testing.T) *testNode {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)

	conf := common.NewTestConfig()
	conf.BlockTime = time.Second

	clock, err := runner.NewHeightClock(st, conf.BlockTime)
	require.NoError(t, err)

	endpoint, _ := url.Parse("http://127.0.0.1:0")
	networkConfig, err := network.NewHTTP2NetworkConfigFromEndpoint("test-node", endpoint)
	require.NoError(t, err)

	nr, err := runner.NewNodeRunner("test-node", network.NewHTTP2Network(networkConfig), st, clock, conf)
	require.NoError(t, err)
	nr.Ready()

	ts := httptest.NewServer(nr.Network())

	client, err := NewClient(ts.URL)
	require.NoError(t, err)

	return &testNode{nr: nr, ts: ts, client: client}
}

func (tn *testNode) Close() {
	tn.client.Close()
	tn.ts.Close()
	tn.nr.Stop()
	tn.nr.Storage().Close()
}

func (tn *testNode) submit(t *testing.T, kp keypair.KP, opb operation.Body) (OperationResult, error) {
	op := operation.MakeTestSignedOperation(kp, tn.nr.Conf.NetworkID, opb)
	b, err := json.Marshal(op)
	require.NoError(t, err)

	return tn.client.SubmitOperation(b)
}

func TestClientLoad(t *testing.T) {
	tn := prepareTestNode(t)
	defer tn.Close()

	info, err := tn.client.LoadNodeInfo()
	require.NoError(t, err)
	require.Equal(t, "test-node", info.Node.Name)
	require.Equal(t, tn.nr.Conf.RosterDeposit, info.Policy.RosterDeposit)

	founder := keypair.Random()
	require.NoError(t, ledger.New(tn.nr.Storage()).Deposit(founder.Address(), 10000))

	result, err := tn.submit(t, founder, operation.NewCreateRoster("chess club"))
	require.NoError(t, err)

	id := roster.NewRosterID(founder.Address(), "chess club")
	require.Equal(t, id.String(), result.RosterID)
	require.Equal(t, founder.Address(), result.Caller)

	r, err := tn.client.LoadRoster(id.String())
	require.NoError(t, err)
	require.Equal(t, "chess club", r.Title)
	require.Equal(t, []string{founder.Address()}, r.Members)
	require.NotEmpty(t, r.Links.Self.Href)

	page, err := tn.client.LoadRosters(Q{Key: QueryLimit, Value: "10"})
	require.NoError(t, err)
	require.Equal(t, 1, len(page.Embedded.Records))

	account, err := tn.client.LoadAccount(founder.Address())
	require.NoError(t, err)
	require.Equal(t, common.Amount(10000-1000), account.Balance)
	require.Equal(t, common.Amount(1000), account.Reserved)

	expulsions, err := tn.client.LoadExpulsions(id.String())
	require.NoError(t, err)
	require.Empty(t, expulsions.Embedded.Records)
}

func TestClientError(t *testing.T) {
	tn := prepareTestNode(t)
	defer tn.Close()

	id := roster.NewRosterID(keypair.Random().Address(), "unknown")
	_, err := tn.client.LoadRoster(id.String())
	require.Error(t, err)

	cerr, ok := err.(Error)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, cerr.Problem.Status)

	{ // not funded
		_, err := tn.submit(t, keypair.Random(), operation.NewCreateRoster("chess club"))
		require.Error(t, err)

		cerr, ok := err.(Error)
		require.True(t, ok)
		require.Equal(t, errors.InsufficientFunds.Code, cerr.Problem.Code)
	}
}

func TestClientStreamRosterEvents(t *testing.T) {
	tn := prepareTestNode(t)
	defer tn.Close()

	founder := keypair.Random()
	require.NoError(t, ledger.New(tn.nr.Storage()).Deposit(founder.Address(), 10000))

	_, err := tn.submit(t, founder, operation.NewCreateRoster("chess club"))
	require.NoError(t, err)
	id := roster.NewRosterID(founder.Address(), "chess club")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rosters := make(chan Roster, 1)
	events := make(chan Event, 10)
	go tn.client.StreamRosterEvents(ctx, id.String(), func(r Roster) {
		rosters <- r
	}, func(e Event) {
		events <- e
	})

	select {
	case r := <-rosters:
		require.Equal(t, id.String(), r.ID)
	case <-time.After(time.Second * 2):
		t.Fatal("roster not streamed")
	}

	_, err = tn.submit(t, founder, operation.SetRosterStatus{RosterID: id.String(), Status: roster.RosterInactive})
	require.NoError(t, err)

	select {
	case e := <-events:
		require.Equal(t, roster.EventRosterStatusChanged, e.Kind)
		require.Equal(t, id.String(), e.RosterID)
	case <-time.After(time.Second * 2):
		t.Fatal("event not streamed")
	}
}

func TestQueries(t *testing.T) {
	require.Equal(t, "", Queries{}.toQueryString())
	require.Equal(
		t,
		"?limit=3&reverse=true",
		Queries{{Key: QueryLimit, Value: "3"}, {Key: QueryReverse, Value: "true"}, {Key: "unknown", Value: "x"}}.toQueryString(),
	)
}
