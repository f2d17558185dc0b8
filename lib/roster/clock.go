package roster

import (
	"sync"

	"boscoin.io/roster/lib/common"
)

// Clock supplies the current block height. It never goes backwards.
type Clock interface {
	Height() common.Height
}

// ManualClock is moved by hand, for tests and tools.
type ManualClock struct {
	sync.RWMutex
	height common.Height
}

func NewManualClock(height common.Height) *ManualClock {
	return &ManualClock{height: height}
}

func (c *ManualClock) Height() common.Height {
	c.RLock()
	defer c.RUnlock()

	return c.height
}

func (c *ManualClock) Advance(n common.Height) common.Height {
	c.Lock()
	defer c.Unlock()

	c.height = c.height.Add(n)

	return c.height
}

// Set moves the clock to `height`; lower heights are ignored.
func (c *ManualClock) Set(height common.Height) {
	c.Lock()
	defer c.Unlock()

	if height > c.height {
		c.height = height
	}
}
