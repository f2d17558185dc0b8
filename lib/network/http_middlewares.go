package network

import (
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"github.com/ulule/limiter"
	"github.com/ulule/limiter/drivers/store/memory"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/metrics"
	"boscoin.io/roster/lib/network/httputils"
)

func RecoverMiddleware(logger logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("panic: %v", r)
					}
					httputils.WriteJSON(w, http.StatusInternalServerError, err)
					logger.Error("recover an panic", "err", err, "stack", string(debug.Stack()))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware limits requests by the remote ip address. The ip
// addresses of `rule.ByIPAddress` get their own rate; a rate with `Limit` 0
// is unlimited.
func RateLimitMiddleware(logger logging.Logger, rule common.RateLimitRule) mux.MiddlewareFunc {
	store := memory.NewStore()

	defaultLimiter := limiter.New(store, rule.Default)
	byIPAddress := map[string]*limiter.Limiter{}
	for ip, rate := range rule.ByIPAddress {
		byIPAddress[ip] = limiter.New(store, rate)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := remoteIP(r)

			l, found := byIPAddress[ip]
			if !found {
				l = defaultLimiter
			}
			if l.Rate.Limit < 1 {
				next.ServeHTTP(w, r)
				return
			}

			context, err := l.Get(r.Context(), ip)
			if err != nil {
				logger.Error("failed to get rate limit", "ip", ip, "err", err)
				httputils.WriteJSONError(w, errors.StorageCoreError.Clone().SetData("error", err.Error()))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(context.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(context.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(context.Reset, 10))

			if context.Reached {
				logger.Debug("rate limit reached", "ip", ip, "limit", context.Limit)
				metrics.API.RateLimited.Add(1)
				httputils.WriteJSONError(w, errors.RateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MetricsMiddleware counts requests by route template, method and status.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}

		writer := newResponseRecorder(w)
		next.ServeHTTP(writer, r)

		metrics.API.Observe(endpoint, r.Method, writer.Status(), time.Since(begin))
	})
}
