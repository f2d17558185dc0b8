package api

import (
	"fmt"
	"net/http"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/network/httpcache"
	"boscoin.io/roster/lib/network/httputils"
	"boscoin.io/roster/lib/roster"
	"boscoin.io/roster/lib/storage"
)

const APIVersionV1 = "v1"

// API Endpoint patterns
const (
	GetNodeInfoPattern            = "/"
	GetRostersHandlerPattern      = "/rosters"
	GetRosterHandlerPattern       = "/rosters/{id}"
	GetRosterEventsHandlerPattern = "/rosters/{id}/events"
	GetRosterExpulsionsPattern    = "/rosters/{id}/expulsions"
	GetNominationHandlerPattern   = "/rosters/{id}/nominations/{nominee}"
	GetExpulsionHandlerPattern    = "/rosters/{id}/expulsions/{motioner}/{subject}"
	GetAccountHandlerPattern      = "/accounts/{id}"
	GetEventsHandlerPattern       = "/events"
	PostOperationsHandlerPattern  = "/operations"
)

type NetworkHandlerAPI struct {
	engine    *roster.Engine
	storage   *storage.LevelDBBackend
	clock     roster.Clock
	config    common.Config
	cache     httpcache.Cache
	urlPrefix string
	version   string
	nodeName  string
}

func NewNetworkHandlerAPI(engine *roster.Engine, storage *storage.LevelDBBackend, clock roster.Clock, cache httpcache.Cache, urlPrefix, nodeName string) *NetworkHandlerAPI {
	if cache == nil {
		cache = httpcache.NewNopCache()
	}

	return &NetworkHandlerAPI{
		engine:    engine,
		storage:   storage,
		clock:     clock,
		config:    engine.Config(),
		cache:     cache,
		urlPrefix: urlPrefix,
		version:   APIVersionV1,
		nodeName:  nodeName,
	}
}

func (api NetworkHandlerAPI) HandlerURLPattern(pattern string) string {
	return fmt.Sprintf("%s/%s%s", api.urlPrefix, api.version, pattern)
}

// Cached wraps handlers whose response only changes with roster events.
func (api NetworkHandlerAPI) Cached(handlerFunc func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return api.cache.WrapHandlerFunc(handlerFunc)
}

// respond writes the resource made by `read`, or its error as a problem.
func respond(w http.ResponseWriter, read func() (interface{}, error)) {
	payload, err := read()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, payload)
}
