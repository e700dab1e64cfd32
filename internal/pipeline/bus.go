package pipeline

import (
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/llmdocs/internal/logfields"
)

// Handler processes an Event. Errors are logged by the bus and never abort a run.
type Handler func(Event) error

// Bus is a simple synchronous pub/sub event bus.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
	all         []Handler
}

func NewBus() *Bus { return &Bus{subscribers: map[string][]Handler{}} }

// Subscribe registers a handler for a given event name.
func (b *Bus) Subscribe(event string, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.subscribers[event] = append(b.subscribers[event], h)
	b.mu.Unlock()
}

// SubscribeAll registers a handler for every event.
func (b *Bus) SubscribeAll(h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.all = append(b.all, h)
	b.mu.Unlock()
}

// Publish delivers an event to all handlers synchronously. The first handler
// error is returned after every handler ran.
func (b *Bus) Publish(e Event) error {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	hs := append([]Handler(nil), b.subscribers[e.Name()]...)
	hs = append(hs, b.all...)
	b.mu.RUnlock()

	var first error
	for _, h := range hs {
		if err := h(e); err != nil {
			slog.Warn("Event handler failed", logfields.Event(e.Name()), logfields.Error(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}
