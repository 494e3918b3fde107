package testutil

import (
	"sync"

	"github.com/openweb3-io/cryptocapital/channel"
)

type Emitted struct {
	Event   string
	Payload string
}

// MemoryChannel is a channel.Channel that records emits and delivers inbound
// messages synchronously through Deliver.
type MemoryChannel struct {
	mu       sync.Mutex
	handlers map[string][]channel.Handler
	emitted  []Emitted
	opened   bool
	closed   bool

	emitErr error
	OpenErr error
}

var _ channel.Channel = &MemoryChannel{}

func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{handlers: make(map[string][]channel.Handler)}
}

func (c *MemoryChannel) On(event string, h channel.Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], h)
}

func (c *MemoryChannel) Emit(event string, payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.emitErr != nil {
		return c.emitErr
	}
	c.emitted = append(c.emitted, Emitted{Event: event, Payload: payload})
	return nil
}

func (c *MemoryChannel) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.OpenErr != nil {
		return c.OpenErr
	}
	c.opened = true
	return nil
}

func (c *MemoryChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// SetEmitErr makes every following Emit fail with err; nil restores normal behavior.
func (c *MemoryChannel) SetEmitErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emitErr = err
}

// Deliver runs the handlers registered for event, as the transport would on receipt.
func (c *MemoryChannel) Deliver(event string, payload string) {
	c.mu.Lock()
	handlers := append([]channel.Handler(nil), c.handlers[event]...)
	c.mu.Unlock()
	for _, h := range handlers {
		h(payload)
	}
}

func (c *MemoryChannel) Emitted() []Emitted {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Emitted(nil), c.emitted...)
}

func (c *MemoryChannel) Registered(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handlers[event])
}

func (c *MemoryChannel) Opened() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

func (c *MemoryChannel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
