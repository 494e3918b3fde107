package client

import (
	"sync"

	"github.com/openweb3-io/cryptocapital/types"
	"github.com/tidwall/btree"
)

type Handler = func(ev types.Event)

// Registry fans inbound events out to subscribers. Subscribers of one name are
// called in subscription order.
type Registry struct {
	mu   sync.Mutex
	seq  uint64
	subs map[types.EventName]*btree.Map[uint64, Handler]
}

func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[types.EventName]*btree.Map[uint64, Handler]),
	}
}

// Subscribe registers h for name. The returned cancel may be called any number of times.
// A nil handler is not registered.
func (r *Registry) Subscribe(name types.EventName, h Handler) (cancel func()) {
	if h == nil {
		return func() {}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.subs[name]
	if !ok {
		// use btree map to keep subscription order
		subs = btree.NewMap[uint64, Handler](0)
		r.subs[name] = subs
	}
	r.seq++
	id := r.seq
	subs.Set(id, h)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			subs.Delete(id)
		})
	}
}

// Publish calls every subscriber of ev.Name. Handlers may subscribe or cancel while
// being called; the change applies from the next Publish.
func (r *Registry) Publish(ev types.Event) int {
	r.mu.Lock()
	var handlers []Handler
	if subs, ok := r.subs[ev.Name]; ok {
		handlers = make([]Handler, 0, subs.Len())
		subs.Scan(func(_ uint64, h Handler) bool {
			handlers = append(handlers, h)
			return true
		})
	}
	r.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
	return len(handlers)
}

func (r *Registry) Len(name types.EventName) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if subs, ok := r.subs[name]; ok {
		return subs.Len()
	}
	return 0
}
