package runner

import (
	"sync"
	"time"

	"github.com/GianlucaGuarini/go-observable"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/observer"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/metrics"
	"boscoin.io/roster/lib/storage"
)

// HeightClock is the block height clock of a single node. The height moves
// by one every `blockTime` and survives restarts.
type HeightClock struct {
	sync.RWMutex

	st         *storage.LevelDBBackend
	height     common.Height
	blockTime  time.Duration
	observable *observable.Observable
	metrics    *metrics.NodeMetrics

	stopOnce sync.Once
	stop     chan struct{}
}

func NewHeightClock(st *storage.LevelDBBackend, blockTime time.Duration) (*HeightClock, error) {
	if blockTime <= 0 {
		return nil, errors.BadRequestParameter.Clone().SetData("block-time", blockTime.String())
	}

	var height common.Height
	if err := st.Get(HeightClockKey, &height); err != nil {
		if err != errors.StorageRecordDoesNotExist {
			return nil, err
		}
		height = GenesisHeight
		if err := st.New(HeightClockKey, height); err != nil {
			return nil, err
		}
	}

	c := &HeightClock{
		st:         st,
		height:     height,
		blockTime:  blockTime,
		observable: observer.HeightObserver,
		metrics:    metrics.Node,
		stop:       make(chan struct{}),
	}
	c.metrics.SetHeight(uint64(height))

	return c, nil
}

func (c *HeightClock) SetObservable(ob *observable.Observable) {
	c.observable = ob
}

func (c *HeightClock) SetMetrics(m *metrics.NodeMetrics) {
	c.metrics = m
}

func (c *HeightClock) Height() common.Height {
	c.RLock()
	defer c.RUnlock()

	return c.height
}

// Tick moves the clock by one height and stores it. `HeightObserver` gets
// the new height.
func (c *HeightClock) Tick() (common.Height, error) {
	c.Lock()
	next := c.height.Add(1)
	if err := c.st.Put(HeightClockKey, next); err != nil {
		c.Unlock()
		return c.height, err
	}
	c.height = next
	c.Unlock()

	c.metrics.SetHeight(uint64(next))
	c.observable.Trigger(observer.HeightEvent, next)

	return next, nil
}

// Start ticks until `Stop()` and calls `onTick` after every tick.
func (c *HeightClock) Start(onTick func(common.Height)) {
	ticker := time.NewTicker(c.blockTime)
	defer ticker.Stop()

	log.Debug("height clock started", "height", c.Height(), "block-time", c.blockTime)

	for {
		select {
		case <-c.stop:
			log.Debug("height clock stopped", "height", c.Height())
			return
		case <-ticker.C:
			height, err := c.Tick()
			if err != nil {
				log.Error("failed to tick", "height", height, "error", err)
				continue
			}
			if onTick != nil {
				onTick(height)
			}
		}
	}
}

func (c *HeightClock) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}
