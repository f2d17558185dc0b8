package network

import (
	"context"
	goLog "log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"golang.org/x/net/http2"

	"boscoin.io/roster/lib/errors"
)

const (
	RouterNameAPI    = "api"
	RouterNameMetric = "metrics"
	RouterNameDebug  = "debug"
)

var (
	UrlPathPrefixAPI    = "/" + RouterNameAPI
	UrlPathPrefixMetric = "/" + RouterNameMetric
	UrlPathPrefixDebug  = "/" + RouterNameDebug
)

// mount is a sub router serving every path under `prefix`.
type mount struct {
	name   string
	prefix string
	router *mux.Router
}

// HTTP2Network serves the api, metric and debug routers over one http2
// server. Until `Ready()` every request gets 503.
type HTTP2Network struct {
	sync.RWMutex

	server    *http.Server
	router    *mux.Router
	rootRoute *mux.Route
	mounts    []mount
	ready     bool

	config *HTTP2NetworkConfig
	log    logging.Logger
}

func NewHTTP2Network(config *HTTP2NetworkConfig) *HTTP2Network {
	httpLog := log.New(logging.Ctx{"module": "http", "node": config.NodeName})

	server := &http.Server{
		Addr:              config.Addr,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		WriteTimeout:      config.WriteTimeout,
		ErrorLog:          goLog.New(serverErrorLog{httpLog}, "", 0),
	}
	http2.ConfigureServer(server, &http2.Server{IdleTimeout: config.IdleTimeout})

	router := mux.NewRouter()
	t := &HTTP2Network{
		server: server,
		router: router,
		config: config,
		log:    httpLog,
	}

	for _, name := range []string{RouterNameAPI, RouterNameMetric, RouterNameDebug} {
		prefix := "/" + name
		t.mounts = append(t.mounts, mount{
			name:   name,
			prefix: prefix,
			router: router.PathPrefix(prefix).Subrouter(),
		})
	}

	t.rootRoute = router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server.Handler = t

	return t
}

func (t *HTTP2Network) Endpoint() string {
	return t.config.Endpoint.String()
}

func (t *HTTP2Network) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !t.IsReady() {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	accessLog{log: t.log, handler: t.router}.ServeHTTP(w, r)
}

func (t *HTTP2Network) mountByName(name string) (mount, bool) {
	for _, m := range t.mounts {
		if m.name == name {
			return m, true
		}
	}

	return mount{}, false
}

func (t *HTTP2Network) mountByPattern(pattern string) (mount, string, bool) {
	for _, m := range t.mounts {
		if strings.HasPrefix(pattern, m.prefix) {
			return m, pattern[len(m.prefix):], true
		}
	}

	return mount{}, "", false
}

// AddMiddleware adds `mws` to the router of `routerName`; an empty name means
// the base router, whose middlewares impact every sub router.
func (t *HTTP2Network) AddMiddleware(routerName string, mws ...mux.MiddlewareFunc) error {
	r := t.router
	if len(routerName) > 0 {
		m, ok := t.mountByName(routerName)
		if !ok {
			return errors.BadRequestParameter.Clone().SetData("router", routerName)
		}
		r = m.router
	}

	for _, mw := range mws {
		r.Use(mw)
	}

	return nil
}

// AddHandler routes `pattern` to the sub router of its prefix. A pattern
// ending with '*' is registered as a path prefix.
func (t *HTTP2Network) AddHandler(pattern string, handler http.HandlerFunc) *mux.Route {
	m, path, ok := t.mountByPattern(pattern)
	if !ok {
		if pattern == "" || pattern == "/" {
			return t.rootRoute.Handler(handler)
		}
		return t.router.HandleFunc(pattern, handler)
	}

	if strings.HasSuffix(path, "*") {
		return m.router.PathPrefix(strings.TrimSuffix(path, "*")).Handler(handler)
	}

	return m.router.HandleFunc(path, handler)
}

func (t *HTTP2Network) Ready() {
	t.Lock()
	defer t.Unlock()

	t.ready = true
}

func (t *HTTP2Network) IsReady() bool {
	t.RLock()
	defer t.RUnlock()

	return t.ready
}

// Start blocks until the server is stopped.
func (t *HTTP2Network) Start() (err error) {
	t.log.Info("starting http server", "endpoint", t.Endpoint())

	if t.config.IsHTTPS() {
		err = t.server.ListenAndServeTLS(t.config.TLSCertFile, t.config.TLSKeyFile)
	} else {
		err = t.server.ListenAndServe()
	}

	if err == http.ErrServerClosed {
		err = nil
	}

	return
}

// Stop waits up to `ShutdownTimeout` for in-flight requests, then closes
// every connection left, including open event streams.
func (t *HTTP2Network) Stop() {
	if t.config.ShutdownTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), t.config.ShutdownTimeout)
		defer cancel()

		if err := t.server.Shutdown(ctx); err != nil && err != context.DeadlineExceeded {
			t.log.Error("failed to shut down", "error", err)
		}
	}

	t.server.Close()
}
