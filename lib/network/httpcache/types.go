//
// Package httpcache keeps rendered api pages. A page is stored under its
// path, a generation of that path and its sorted query; `Invalidate` moves
// the path to the next generation, so every query variant of the page is
// dropped at once, whatever the adapter.
//
package httpcache

import (
	"net/http"
	"time"
)

const HeaderCache = "X-Cache"

// Adapter stores pages. A zero `expiration` never expires.
type Adapter interface {
	Get(key string) (*Page, bool)
	Set(key string, page *Page, expiration time.Time)
	Remove(key string)
}

type Page struct {
	Body       []byte
	StatusCode int
	Header     http.Header
	Expiration time.Time
}

func (p *Page) Expired(now time.Time) bool {
	return !p.Expiration.IsZero() && !p.Expiration.After(now)
}

// Cache is what the api handlers see.
type Cache interface {
	WrapHandlerFunc(http.HandlerFunc) http.HandlerFunc
	Invalidate(paths ...string)
}
