package api

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/keypair"
	"boscoin.io/roster/lib/ledger"
	"boscoin.io/roster/lib/metrics"
	"boscoin.io/roster/lib/network/httpcache"
	"boscoin.io/roster/lib/operation"
	"boscoin.io/roster/lib/roster"
	"boscoin.io/roster/lib/storage"
)

type testAPI struct {
	ts      *httptest.Server
	api     *NetworkHandlerAPI
	engine  *roster.Engine
	storage *storage.LevelDBBackend
	clock   *roster.ManualClock
	config  common.Config
}

func prepareAPIServer(t *testing.T, cache httpcache.Cache) *testAPI {
	return prepareAPIServerWithConfig(t, common.NewTestConfig(), cache)
}

func prepareAPIServerWithConfig(t *testing.T, config common.Config, cache httpcache.Cache) *testAPI {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)

	clock := roster.NewManualClock(1)
	engine := roster.NewEngine(st, clock, config, nil)
	engine.SetMetrics(metrics.NopEngineMetrics())

	apiHandler := NewNetworkHandlerAPI(engine, st, clock, cache, "/api", "test-node")

	router := mux.NewRouter()
	handle := func(pattern string, handler http.HandlerFunc) *mux.Route {
		return router.HandleFunc(apiHandler.HandlerURLPattern(pattern), handler)
	}
	handle(GetNodeInfoPattern, apiHandler.GetNodeInfoHandler).Methods("GET")
	handle(GetRostersHandlerPattern, apiHandler.GetRostersHandler).Methods("GET")
	handle(GetRosterHandlerPattern, apiHandler.Cached(apiHandler.GetRosterHandler)).Methods("GET")
	handle(GetRosterEventsHandlerPattern, apiHandler.GetRosterEventsHandler).Methods("GET")
	handle(GetRosterExpulsionsPattern, apiHandler.GetRosterExpulsionsHandler).Methods("GET")
	handle(GetNominationHandlerPattern, apiHandler.GetNominationHandler).Methods("GET")
	handle(GetExpulsionHandlerPattern, apiHandler.GetExpulsionHandler).Methods("GET")
	handle(GetAccountHandlerPattern, apiHandler.GetAccountHandler).Methods("GET")
	handle(GetEventsHandlerPattern, apiHandler.GetEventsHandler).Methods("GET")
	handle(PostOperationsHandlerPattern, apiHandler.PostOperationsHandler).Methods("POST")

	return &testAPI{
		ts:      httptest.NewServer(router),
		api:     apiHandler,
		engine:  engine,
		storage: st,
		clock:   clock,
		config:  config,
	}
}

func (ta *testAPI) Close() {
	ta.ts.Close()
	ta.storage.Close()
}

func (ta *testAPI) fund(t *testing.T, amount common.Amount) *keypair.Full {
	kp := keypair.Random()
	require.NoError(t, ledger.New(ta.storage).Deposit(kp.Address(), amount))

	return kp
}

func (ta *testAPI) url(pattern string) string {
	return ta.api.HandlerURLPattern(pattern)
}

func (ta *testAPI) get(t *testing.T, url string) (int, map[string]interface{}) {
	resp, err := ta.ts.Client().Get(ta.ts.URL + url)
	require.NoError(t, err)
	defer resp.Body.Close()

	return resp.StatusCode, readJSON(t, resp.Body)
}

func (ta *testAPI) post(t *testing.T, body []byte) (int, map[string]interface{}) {
	resp, err := ta.ts.Client().Post(ta.ts.URL+ta.url(PostOperationsHandlerPattern), "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	return resp.StatusCode, readJSON(t, resp.Body)
}

func (ta *testAPI) postOperation(t *testing.T, kp keypair.KP, opb operation.Body) (int, map[string]interface{}) {
	op := operation.MakeTestSignedOperation(kp, ta.config.NetworkID, opb)
	b, err := json.Marshal(op)
	require.NoError(t, err)

	return ta.post(t, b)
}

func readJSON(t *testing.T, r io.Reader) map[string]interface{} {
	b, err := ioutil.ReadAll(r)
	require.NoError(t, err)

	m := map[string]interface{}{}
	if len(b) > 0 {
		require.NoError(t, json.Unmarshal(b, &m), string(b))
	}

	return m
}

func request(ts *httptest.Server, url string, streaming bool) io.ReadCloser {
	url = ts.URL + url
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		panic(err)
	}
	if streaming {
		req.Header.Set("Accept", "text/event-stream")
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		panic(err)
	}
	return resp.Body
}
