package network

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/network/httputils"
)

func TestRecoverMiddleware(t *testing.T) {
	panicMsg := "Don't panic,just use go"

	router := mux.NewRouter()
	router.Use(RecoverMiddleware(common.NopLogger()))
	router.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {
		panic(panicMsg)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	require.Equal(t, 500, w.Code)
	require.Equal(t, httputils.ProblemContentType, w.Header().Get("Content-Type"))

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	require.Equal(t, "panic: "+panicMsg, msg["title"])
}

func newRateLimitedRouter(rule common.RateLimitRule) *mux.Router {
	router := mux.NewRouter()
	router.Use(RateLimitMiddleware(common.NopLogger(), rule))
	router.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return router
}

func requestFrom(router http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	r := httptest.NewRequest("GET", "/test", nil)
	r.RemoteAddr = remoteAddr

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	rule := common.NewRateLimitRule(limiter.Rate{Period: time.Minute, Limit: 2})
	router := newRateLimitedRouter(rule)

	require.Equal(t, http.StatusOK, requestFrom(router, "1.1.1.1:1000").Code)

	w := requestFrom(router, "1.1.1.1:1001")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = requestFrom(router, "1.1.1.1:1002")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var p httputils.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Equal(t, errors.RateLimited.Code, p.Code)

	// other address has its own budget
	require.Equal(t, http.StatusOK, requestFrom(router, "2.2.2.2:1000").Code)
}

func TestRateLimitMiddlewareByIPAddress(t *testing.T) {
	rule := common.NewRateLimitRule(limiter.Rate{Period: time.Minute, Limit: 1})
	rule.ByIPAddress["3.3.3.3"] = limiter.Rate{Period: time.Minute, Limit: 0}

	router := newRateLimitedRouter(rule)

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, requestFrom(router, "3.3.3.3:1000").Code)
	}

	require.Equal(t, http.StatusOK, requestFrom(router, "4.4.4.4:1000").Code)
	require.Equal(t, http.StatusTooManyRequests, requestFrom(router, "4.4.4.4:1000").Code)
}
