package observable

import (
	"sync"
	"sync/atomic"
)

// Wildcard is the topic under which whole-object handlers are registered.
const Wildcard = "*"

var globalIDCounter uint64

func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}

// Subscription is the handle returned by every Listen call.
type Subscription struct {
	id    uint64
	topic string
	owner any
	once  sync.Once
	drop  func()
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.drop != nil {
			s.drop()
		}
	})
}

// Topic returns the property name (or Wildcard) the handler listens to.
func (s *Subscription) Topic() string {
	if s == nil {
		return ""
	}
	return s.topic
}

type entry[H any] struct {
	id uint64
	fn H
}

// hub is a per-instance handler table keyed by topic.
type hub[H any] struct {
	mu     sync.Mutex
	topics map[string][]entry[H]
}

func newHub[H any]() *hub[H] {
	return &hub[H]{topics: make(map[string][]entry[H])}
}

func (h *hub[H]) add(topic string, fn H) *Subscription {
	id := nextID()

	h.mu.Lock()
	h.topics[topic] = append(h.topics[topic], entry[H]{id: id, fn: fn})
	h.mu.Unlock()

	sub := &Subscription{id: id, topic: topic, owner: h}
	sub.drop = func() { h.remove(topic, id) }
	return sub
}

func (h *hub[H]) remove(topic string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.topics[topic]
	for i, e := range entries {
		if e.id == id {
			// Keep registration order for the remaining handlers.
			h.topics[topic] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(h.topics[topic]) == 0 {
		delete(h.topics, topic)
	}
}

// owns reports whether sub was issued by this hub for topic.
func (h *hub[H]) owns(topic string, sub *Subscription) bool {
	return sub != nil && sub.owner == any(h) && sub.topic == topic
}

// snapshot copies the handlers for topic so dispatch runs without the lock.
func (h *hub[H]) snapshot(topic string) []H {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.topics[topic]
	if len(entries) == 0 {
		return nil
	}
	fns := make([]H, len(entries))
	for i, e := range entries {
		fns[i] = e.fn
	}
	return fns
}

func (h *hub[H]) count(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}
