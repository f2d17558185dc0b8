//
// NodeRunner bridges together the http network, the storage, the height
// clock and the roster engine. It can be seen as a single node, and is used
// as such in unit tests.
//
package runner

import (
	"net/http"
	"net/http/pprof"

	ghandlers "github.com/gorilla/handlers"
	logging "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/observer"
	"boscoin.io/roster/lib/network"
	"boscoin.io/roster/lib/network/httpcache"
	"boscoin.io/roster/lib/node/runner/api"
	"boscoin.io/roster/lib/roster"
	"boscoin.io/roster/lib/storage"
)

type NodeRunner struct {
	nodeName string
	network  *network.HTTP2Network
	storage  *storage.LevelDBBackend
	clock    *HeightClock
	engine   *roster.Engine
	cache    httpcache.Cache

	stopInvalidation func()

	log logging.Logger

	Conf common.Config
}

func NewNodeRunner(
	nodeName string,
	n *network.HTTP2Network,
	st *storage.LevelDBBackend,
	clock *HeightClock,
	conf common.Config,
) (nr *NodeRunner, err error) {
	nr = &NodeRunner{
		nodeName: nodeName,
		network:  n,
		storage:  st,
		clock:    clock,
		log:      log.New(logging.Ctx{"node": nodeName}),
		Conf:     conf,
	}

	nr.engine = roster.NewEngine(st, clock, conf, nil)

	if nr.cache, err = httpcache.NewCache(conf, httpcache.WithLogger(nr.log), httpcache.WithNamespace(nodeName)); err != nil {
		return
	}
	nr.log.Debug("http cache", "adapter", conf.HTTPCacheAdapter, "expire", conf.HTTPCacheExpire)

	return
}

func (nr *NodeRunner) Ready() {
	rateLimitMiddlewareAPI := network.RateLimitMiddleware(nr.log, nr.Conf.RateLimitRuleAPI)
	if err := nr.network.AddMiddleware(network.RouterNameAPI, rateLimitMiddlewareAPI); err != nil {
		nr.log.Error("`network.RateLimitMiddleware` for `RouterNameAPI` has an error", "err", err)
		return
	}
	if err := nr.network.AddMiddleware(network.RouterNameMetric, rateLimitMiddlewareAPI); err != nil {
		nr.log.Error("`network.RateLimitMiddleware` for `RouterNameMetric` router has an error", "err", err)
		return
	}
	if err := nr.network.AddMiddleware(network.RouterNameDebug, rateLimitMiddlewareAPI); err != nil {
		nr.log.Error("`network.RateLimitMiddleware` for `RouterNameDebug` router has an error", "err", err)
		return
	}

	// BaseRouter's middlewares impact all sub routers.
	if err := nr.network.AddMiddleware("", network.RecoverMiddleware(nr.log)); err != nil {
		nr.log.Error("Middleware has an error", "err", err)
		return
	}

	if err := nr.network.AddMiddleware(network.RouterNameAPI, network.MetricsMiddleware); err != nil {
		nr.log.Error("`network.MetricsMiddleware` has an error", "err", err)
		return
	}

	{ //CORS
		allowedOrigins := ghandlers.AllowedOrigins([]string{"*"})
		allowedMethods := ghandlers.AllowedMethods([]string{"GET", "POST"})
		allowedHeaders := ghandlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", "Cache-Control", "Access-Control"})

		cors := ghandlers.CORS(allowedOrigins, allowedMethods, allowedHeaders)
		err := nr.network.AddMiddleware(network.RouterNameAPI, cors)
		if err != nil {
			nr.log.Error("Middleware has an error", "err", err)
			return
		}
	}

	nr.network.AddHandler(network.UrlPathPrefixMetric, promhttp.Handler().ServeHTTP)

	// api handlers
	apiHandler := api.NewNetworkHandlerAPI(
		nr.engine,
		nr.storage,
		nr.clock,
		nr.cache,
		network.UrlPathPrefixAPI,
		nr.nodeName,
	)
	nr.stopInvalidation = apiHandler.InvalidateCacheOnEvents(observer.RosterObserver)

	gets := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{api.GetNodeInfoPattern, apiHandler.GetNodeInfoHandler},
		{api.GetRostersHandlerPattern, apiHandler.GetRostersHandler},
		{api.GetRosterHandlerPattern, apiHandler.Cached(apiHandler.GetRosterHandler)},
		{api.GetRosterEventsHandlerPattern, apiHandler.GetRosterEventsHandler},
		{api.GetRosterExpulsionsPattern, apiHandler.GetRosterExpulsionsHandler},
		{api.GetNominationHandlerPattern, apiHandler.GetNominationHandler},
		{api.GetExpulsionHandlerPattern, apiHandler.GetExpulsionHandler},
		{api.GetAccountHandlerPattern, apiHandler.GetAccountHandler},
		{api.GetEventsHandlerPattern, apiHandler.GetEventsHandler},
	}
	for _, g := range gets {
		nr.network.AddHandler(apiHandler.HandlerURLPattern(g.pattern), g.handler).Methods("GET", "OPTIONS")
	}

	nr.network.AddHandler(
		apiHandler.HandlerURLPattern(api.PostOperationsHandlerPattern),
		apiHandler.PostOperationsHandler,
	).Methods("POST", "OPTIONS")

	// pprof
	if DebugPProf == true {
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/cmdline", pprof.Cmdline)
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/profile", pprof.Profile)
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/symbol", pprof.Symbol)
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/trace", pprof.Trace)
		nr.network.AddHandler(network.UrlPathPrefixDebug+"/pprof/*", pprof.Index)
	}

	if DebugJSONRPC == true {
		nr.network.AddHandler(network.UrlPathPrefixDebug+JSONRPCPath, NewJSONRPCHandler(nr.engine, nr.clock, nr.storage).ServeHTTP).
			Methods("POST", "OPTIONS")
	}

	nr.network.AddHandler(api.GetNodeInfoPattern, apiHandler.GetNodeInfoHandler).Methods("GET")

	nr.network.Ready()
}

// Start blocks until the network is stopped.
func (nr *NodeRunner) Start() (err error) {
	nr.log.Debug("NodeRunner started", "height", nr.clock.Height())
	nr.Ready()

	go nr.clock.Start(nr.onTick)

	if err = nr.network.Start(); err != nil {
		return
	}

	return
}

func (nr *NodeRunner) Stop() {
	nr.clock.Stop()
	nr.network.Stop()
	if nr.stopInvalidation != nil {
		nr.stopInvalidation()
	}
}

// onTick drains concluded nominations and expulsions.
func (nr *NodeRunner) onTick(height common.Height) {
	result, err := nr.engine.Cleanup()
	if err != nil {
		nr.log.Error("failed to clean up", "height", height, "error", err)
		return
	}
	if result.Nominations > 0 || result.Expulsions > 0 {
		nr.log.Debug("cleaned up", "height", height, "nominations", result.Nominations, "expulsions", result.Expulsions)
	}
}

func (nr *NodeRunner) Network() *network.HTTP2Network {
	return nr.network
}

func (nr *NodeRunner) Storage() *storage.LevelDBBackend {
	return nr.storage
}

func (nr *NodeRunner) Clock() *HeightClock {
	return nr.clock
}

func (nr *NodeRunner) Engine() *roster.Engine {
	return nr.engine
}

func (nr *NodeRunner) Log() logging.Logger {
	return nr.log
}
