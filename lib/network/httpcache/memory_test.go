package httpcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var _ Adapter = (*MemoryAdapter)(nil)

func TestMemoryAdapter(t *testing.T) {
	_, err := NewMemoryAdapter(0)
	require.Error(t, err)

	a, err := NewMemoryAdapter(2)
	require.NoError(t, err)

	page := &Page{Body: []byte("hello"), StatusCode: 200}

	a.Set("key", page, time.Time{})
	cached, found := a.Get("key")
	require.True(t, found)
	require.Equal(t, page.Body, cached.Body)

	a.Remove("key")
	_, found = a.Get("key")
	require.False(t, found)

	// least recently used is evicted
	a.Set("a", page, time.Time{})
	a.Set("b", page, time.Time{})
	a.Set("c", page, time.Time{})
	_, found = a.Get("a")
	require.False(t, found)
	require.Equal(t, 2, a.Len())

	// expired page is dropped on read
	a.Set("d", page, time.Now().Add(-time.Second))
	_, found = a.Get("d")
	require.False(t, found)
	require.Equal(t, 1, a.Len())
}
