package builder

import (
	"sync"
	"time"
)

// NonceSource yields the per-request nonce, in milliseconds since the epoch.
type NonceSource interface {
	Next() int64
}

// WallClock returns the raw wall clock. Two calls within the same millisecond produce the
// same nonce.
type WallClock struct {
	Now func() time.Time
}

var _ NonceSource = WallClock{}

func (c WallClock) Next() int64 {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().UnixMilli()
}

// MonotonicClock follows the wall clock but never repeats or goes backwards.
type MonotonicClock struct {
	now  func() time.Time
	mu   sync.Mutex
	last int64
}

var _ NonceSource = &MonotonicClock{}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{now: time.Now}
}

// NewMonotonicClockAt is NewMonotonicClock with an injected time source.
func NewMonotonicClockAt(now func() time.Time) *MonotonicClock {
	return &MonotonicClock{now: now}
}

func (c *MonotonicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.now().UnixMilli()
	if n <= c.last {
		n = c.last + 1
	}
	c.last = n
	return n
}
