package builder_test

import (
	"sync"
	"testing"
	"time"

	"github.com/openweb3-io/cryptocapital/builder"
	"github.com/stretchr/testify/require"
)

func TestWallClock(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	clock := builder.WallClock{Now: func() time.Time { return fixed }}
	require.Equal(t, int64(1700000000000), clock.Next())
	require.Equal(t, int64(1700000000000), clock.Next())

	before := time.Now().UnixMilli()
	got := builder.WallClock{}.Next()
	require.GreaterOrEqual(t, got, before)
}

func TestMonotonicClock(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	clock := builder.NewMonotonicClockAt(func() time.Time { return now })

	require.Equal(t, int64(1700000000000), clock.Next())
	require.Equal(t, int64(1700000000001), clock.Next())

	// clock steps backwards
	now = time.UnixMilli(1600000000000)
	require.Equal(t, int64(1700000000002), clock.Next())

	now = time.UnixMilli(1800000000000)
	require.Equal(t, int64(1800000000000), clock.Next())
}

func TestMonotonicClockConcurrent(t *testing.T) {
	clock := builder.NewMonotonicClock()
	const n = 64
	out := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out <- clock.Next()
		}()
	}
	wg.Wait()
	close(out)

	seen := map[int64]bool{}
	for v := range out {
		require.False(t, seen[v], "duplicate nonce %d", v)
		seen[v] = true
	}
}
