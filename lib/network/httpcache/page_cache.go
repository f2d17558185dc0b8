package httpcache

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	logging "github.com/inconshreveable/log15"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
)

type PageCache struct {
	sync.Mutex

	adapter     Adapter
	namespace   string
	ttl         time.Duration
	statusCodes map[int]time.Duration
	generations map[string]uint64
	logger      logging.Logger
}

type Option func(c *PageCache) error

func NewPageCache(opts ...Option) (*PageCache, error) {
	c := &PageCache{
		statusCodes: map[int]time.Duration{},
		generations: map[string]uint64{},
		logger:      common.NopLogger(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.adapter == nil {
		return nil, errors.BadRequestParameter.Clone().SetData("error", "page cache needs an adapter")
	}

	return c, nil
}

func WithAdapter(a Adapter) Option {
	return func(c *PageCache) error {
		c.adapter = a
		return nil
	}
}

// WithNamespace prefixes every key; nodes sharing one redis ring use their
// own namespace.
func WithNamespace(ns string) Option {
	return func(c *PageCache) error {
		c.namespace = ns
		return nil
	}
}

func WithExpire(ttl time.Duration) Option {
	return func(c *PageCache) error {
		if ttl < 0 {
			return errors.BadRequestParameter.Clone().SetData("expire", ttl.String())
		}
		c.ttl = ttl
		return nil
	}
}

// WithStatusCode caches responses of `code` for `ttl`, even error pages.
func WithStatusCode(code int, ttl time.Duration) Option {
	return func(c *PageCache) error {
		c.statusCodes[code] = ttl
		return nil
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(c *PageCache) error {
		c.logger = logger
		return nil
	}
}

func (c *PageCache) generation(path string) uint64 {
	c.Lock()
	defer c.Unlock()

	return c.generations[path]
}

func (c *PageCache) key(u *url.URL) string {
	// `Encode` sorts by name; values of one name are kept in request order
	query := u.Query().Encode()

	return fmt.Sprintf("%s%s#%d?%s", c.namespace, u.Path, c.generation(u.Path), query)
}

// Invalidate drops every cached page of `paths`, like
// '/api/v1/rosters/<id>'.
func (c *PageCache) Invalidate(paths ...string) {
	for _, path := range paths {
		c.Lock()
		gen := c.generations[path]
		c.generations[path] = gen + 1
		c.Unlock()

		c.adapter.Remove(fmt.Sprintf("%s%s#%d?", c.namespace, path, gen))
		c.logger.Debug("page invalidated", "path", path, "generation", gen+1)
	}
}

func (c *PageCache) WrapHandlerFunc(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			next(w, r)
			return
		}

		key := c.key(r.URL)
		if !strings.Contains(r.Header.Get("Cache-Control"), "no-cache") {
			if page, found := c.adapter.Get(key); found {
				if !page.Expired(time.Now()) {
					c.logger.Debug("page hit", "key", key)
					writePage(w, page, "HIT")
					return
				}
				c.adapter.Remove(key)
			}
		}

		rec := httptest.NewRecorder()
		next(rec, r)

		result := rec.Result()
		page := &Page{
			Body:       rec.Body.Bytes(),
			StatusCode: result.StatusCode,
			Header:     result.Header,
		}

		if ttl, ok := c.cachingTTL(page.StatusCode); ok {
			if ttl > 0 {
				page.Expiration = time.Now().Add(ttl)
			}
			c.adapter.Set(key, page, page.Expiration)
			c.logger.Debug("page stored", "key", key, "status", page.StatusCode, "expiration", page.Expiration)
		}

		writePage(w, page, "MISS")
	}
}

func (c *PageCache) cachingTTL(code int) (time.Duration, bool) {
	if ttl, ok := c.statusCodes[code]; ok {
		return ttl, true
	}

	return c.ttl, code < 400
}

func writePage(w http.ResponseWriter, page *Page, state string) {
	for k, v := range page.Header {
		w.Header()[k] = v
	}
	w.Header().Set(HeaderCache, state)
	w.WriteHeader(page.StatusCode)
	w.Write(page.Body)
}

type nopCache struct{}

func (nopCache) WrapHandlerFunc(handlerFunc http.HandlerFunc) http.HandlerFunc {
	return handlerFunc
}

func (nopCache) Invalidate(...string) {}

func NewNopCache() Cache {
	return nopCache{}
}
