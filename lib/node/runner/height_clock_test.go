package runner

import (
	"testing"
	"time"

	"github.com/GianlucaGuarini/go-observable"
	"github.com/stretchr/testify/require"

	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/observer"
	"boscoin.io/roster/lib/metrics"
	"boscoin.io/roster/lib/storage"
)

func TestHeightClockPersist(t *testing.T) {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)
	defer st.Close()

	clock, err := NewHeightClock(st, time.Second)
	require.NoError(t, err)
	clock.SetObservable(observable.New())
	require.Equal(t, common.Height(GenesisHeight), clock.Height())

	for i := 0; i < 3; i++ {
		_, err = clock.Tick()
		require.NoError(t, err)
	}
	require.Equal(t, common.Height(GenesisHeight+3), clock.Height())

	// same storage, like a restarted node
	reopened, err := NewHeightClock(st, time.Second)
	require.NoError(t, err)
	require.Equal(t, common.Height(GenesisHeight+3), reopened.Height())
}

func TestHeightClockBadBlockTime(t *testing.T) {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)
	defer st.Close()

	_, err = NewHeightClock(st, 0)
	require.Error(t, err)
}

func TestHeightClockTrigger(t *testing.T) {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)
	defer st.Close()

	clock, err := NewHeightClock(st, time.Second)
	require.NoError(t, err)
	clock.SetMetrics(metrics.NopNodeMetrics())

	ob := observable.New()
	clock.SetObservable(ob)

	heights := make(chan common.Height, 1)
	ob.On(observer.HeightEvent, func(args ...interface{}) {
		heights <- args[len(args)-1].(common.Height)
	})

	next, err := clock.Tick()
	require.NoError(t, err)

	select {
	case h := <-heights:
		require.Equal(t, next, h)
	case <-time.After(time.Second):
		t.Fatal("height event not triggered")
	}
}

func TestHeightClockStartStop(t *testing.T) {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)
	defer st.Close()

	clock, err := NewHeightClock(st, 10*time.Millisecond)
	require.NoError(t, err)
	clock.SetObservable(observable.New())

	ticked := make(chan common.Height, 100)
	done := make(chan struct{})
	go func() {
		clock.Start(func(h common.Height) {
			ticked <- h
		})
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-ticked:
		case <-time.After(time.Second):
			t.Fatal("clock did not tick")
		}
	}

	clock.Stop()
	clock.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("clock did not stop")
	}
	require.True(t, clock.Height() >= GenesisHeight+2)
}
