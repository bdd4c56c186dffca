// Package hub provides the in-process broadcast fan-out for orchestration
// events. The orchestrator publishes; observers (websocket connections,
// tests, log sinks) subscribe. Publishing never blocks on or fails because
// of a subscriber: a subscriber that returns an error is dropped from the
// hub and the broadcast continues.
package hub

import (
	"sync"

	"github.com/agenthubhq/agenthub/core"
	"github.com/agenthubhq/agenthub/logging"
)

// Subscriber receives every event published while subscribed. Deliver is
// called from the publisher's goroutine; implementations should hand the
// event off quickly. Returning an error unsubscribes the subscriber.
type Subscriber interface {
	Deliver(ev core.Event) error
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(ev core.Event) error

// Deliver implements Subscriber.
func (f SubscriberFunc) Deliver(ev core.Event) error { return f(ev) }

// Hub is a concurrency-safe broadcast registry. The zero value is not
// usable; construct with New.
type Hub struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[int]Subscriber
	logger      logging.Logger
}

// Options configures a Hub.
type Options struct {
	Logger logging.Logger
}

// New creates an empty hub.
func New(optFns ...func(o *Options)) *Hub {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Hub{
		subscribers: make(map[int]Subscriber),
		logger:      opts.Logger,
	}
}

// Subscribe registers s for future events and returns a cancel function
// that removes the subscription. Cancel is idempotent.
func (h *Hub) Subscribe(s Subscriber) (cancel func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subscribers[id] = s
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subscribers, id)
		h.mu.Unlock()
	}
}

// Len returns the current subscriber count.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Publish delivers ev to every current subscriber. Delivery iterates over a
// snapshot, so subscribers may subscribe or unsubscribe from within Deliver.
// Failed subscribers are removed after the pass.
func (h *Hub) Publish(ev core.Event) {
	type entry struct {
		id  int
		sub Subscriber
	}

	h.mu.Lock()
	snapshot := make([]entry, 0, len(h.subscribers))
	for id, s := range h.subscribers {
		snapshot = append(snapshot, entry{id: id, sub: s})
	}
	h.mu.Unlock()

	var failed []int
	for _, e := range snapshot {
		if err := e.sub.Deliver(ev); err != nil {
			h.logger.Warn("dropping subscriber after delivery failure", "event_type", string(ev.Type), "error", err)
			failed = append(failed, e.id)
		}
	}
	if len(failed) == 0 {
		return
	}
	h.mu.Lock()
	for _, id := range failed {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
}
