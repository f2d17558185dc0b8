package httpcache

import (
	"time"

	"github.com/hashicorp/golang-lru"
)

// MemoryAdapter keeps at most `size` pages, evicting the least recently
// used. Expired pages are dropped when they are read.
type MemoryAdapter struct {
	pages *lru.Cache
}

func NewMemoryAdapter(size int) (*MemoryAdapter, error) {
	pages, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &MemoryAdapter{pages: pages}, nil
}

func (a *MemoryAdapter) Get(key string) (*Page, bool) {
	v, found := a.pages.Get(key)
	if !found {
		return nil, false
	}

	page := v.(*Page)
	if page.Expired(time.Now()) {
		a.pages.Remove(key)
		return nil, false
	}

	return page, true
}

func (a *MemoryAdapter) Set(key string, page *Page, expiration time.Time) {
	stored := *page
	stored.Expiration = expiration
	a.pages.Add(key, &stored)
}

func (a *MemoryAdapter) Remove(key string) {
	a.pages.Remove(key)
}

func (a *MemoryAdapter) Len() int {
	return a.pages.Len()
}
