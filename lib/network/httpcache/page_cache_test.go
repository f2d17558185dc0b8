package httpcache

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/roster/lib/common"
)

func newTestPageCache(t *testing.T, opts ...Option) (*PageCache, *MemoryAdapter) {
	a, err := NewMemoryAdapter(100)
	require.NoError(t, err)

	c, err := NewPageCache(append([]Option{WithAdapter(a)}, opts...)...)
	require.NoError(t, err)

	return c, a
}

func countingHandler(c Cache) (http.HandlerFunc, *int) {
	cnt := 0
	return c.WrapHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cnt++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fmt.Sprintf("%d", cnt)))
	}), &cnt
}

func request(handler http.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestPageCacheHit(t *testing.T) {
	c, _ := newTestPageCache(t)
	handler, cnt := countingHandler(c)

	w := request(handler, "GET", "/api/v1/rosters/a?limit=1&reverse=true")
	require.Equal(t, "1", w.Body.String())
	require.Equal(t, "MISS", w.Header().Get(HeaderCache))

	// same query in another order
	w = request(handler, "GET", "/api/v1/rosters/a?reverse=true&limit=1")
	require.Equal(t, "1", w.Body.String())
	require.Equal(t, "HIT", w.Header().Get(HeaderCache))
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	w = request(handler, "GET", "/api/v1/rosters/a?limit=2")
	require.Equal(t, "2", w.Body.String())

	w = request(handler, "POST", "/api/v1/rosters/a")
	require.Equal(t, "3", w.Body.String())
	require.Empty(t, w.Header().Get(HeaderCache))
	require.Equal(t, 3, *cnt)
}

func TestPageCacheNoCacheHeader(t *testing.T) {
	c, _ := newTestPageCache(t)
	handler, _ := countingHandler(c)

	request(handler, "GET", "/a")

	r := httptest.NewRequest("GET", "/a", nil)
	r.Header.Set("Cache-Control", "no-cache")
	w := httptest.NewRecorder()
	handler(w, r)
	require.Equal(t, "2", w.Body.String())

	// the fresh page replaced the old one
	require.Equal(t, "2", request(handler, "GET", "/a").Body.String())
}

func TestPageCacheErrorNotCached(t *testing.T) {
	notFound := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}

	{
		c, a := newTestPageCache(t)
		c.WrapHandlerFunc(notFound)(httptest.NewRecorder(), httptest.NewRequest("GET", "/showme", nil))
		require.Equal(t, 0, a.Len())
	}

	{ // explicit status ttl
		c, a := newTestPageCache(t, WithStatusCode(http.StatusNotFound, time.Minute))
		c.WrapHandlerFunc(notFound)(httptest.NewRecorder(), httptest.NewRequest("GET", "/showme", nil))
		require.Equal(t, 1, a.Len())
	}
}

func TestPageCacheExpire(t *testing.T) {
	c, _ := newTestPageCache(t, WithExpire(20*time.Millisecond))
	handler, _ := countingHandler(c)

	require.Equal(t, "1", request(handler, "GET", "/a").Body.String())
	require.Equal(t, "1", request(handler, "GET", "/a").Body.String())

	time.Sleep(40 * time.Millisecond)
	require.Equal(t, "2", request(handler, "GET", "/a").Body.String())

	a, err := NewMemoryAdapter(1)
	require.NoError(t, err)
	_, err = NewPageCache(WithAdapter(a), WithExpire(-time.Second))
	require.Error(t, err)
}

func TestPageCacheInvalidate(t *testing.T) {
	c, _ := newTestPageCache(t, WithNamespace("node0"))
	handler, _ := countingHandler(c)

	require.Equal(t, "1", request(handler, "GET", "/api/v1/rosters/a").Body.String())
	require.Equal(t, "2", request(handler, "GET", "/api/v1/rosters/a?limit=3").Body.String())
	require.Equal(t, "3", request(handler, "GET", "/api/v1/rosters/b").Body.String())

	c.Invalidate("/api/v1/rosters/a")

	// every variant of the path is dropped
	require.Equal(t, "4", request(handler, "GET", "/api/v1/rosters/a").Body.String())
	require.Equal(t, "5", request(handler, "GET", "/api/v1/rosters/a?limit=3").Body.String())
	require.Equal(t, "3", request(handler, "GET", "/api/v1/rosters/b").Body.String())
}

func TestNewCache(t *testing.T) {
	cfg := common.NewTestConfig()

	{ // default is memory
		cache, err := NewCache(cfg)
		require.NoError(t, err)
		require.IsType(t, &PageCache{}, cache)
	}

	{
		cfg.HTTPCacheAdapter = common.HTTPCacheNoneAdapterName
		cache, err := NewCache(cfg)
		require.NoError(t, err)
		require.Equal(t, NewNopCache(), cache)
	}

	{
		cfg.HTTPCacheAdapter = common.HTTPCacheRedisAdapterName
		_, err := NewCache(cfg)
		require.Error(t, err)

		cfg.HTTPCacheRedisAddrs = map[string]string{"server0": "localhost:6379"}
		cache, err := NewCache(cfg)
		require.NoError(t, err)
		require.IsType(t, &RedisAdapter{}, cache.(*PageCache).adapter)
	}

	{
		cfg.HTTPCacheAdapter = "showme"
		_, err := NewCache(cfg)
		require.Error(t, err)
	}
}
