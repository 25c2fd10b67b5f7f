package observable

import (
	"errors"
	"sort"
	"sync"
)

// Op identifies a collection mutation.
type Op uint8

const (
	OpSet    Op = iota + 1 // Map: key added
	OpChange               // Map: existing key overwritten
	OpClear                // Map: key removed
	OpAdd                  // Sequence: item appended
	OpRemove               // Sequence: item removed
)

// String returns the event name.
func (op Op) String() string {
	switch op {
	case OpSet:
		return "set"
	case OpChange:
		return "change"
	case OpClear:
		return "clear"
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Present reports whether the event leaves a value in place for its key.
func (op Op) Present() bool {
	return op == OpSet || op == OpChange || op == OpAdd
}

// ItemEvent describes exactly one collection mutation.
type ItemEvent struct {
	Op Op

	// Item is the added, set or removed value.
	Item any

	// Old is the replaced value for OpChange.
	Old any

	// Key is the map key (Map events only).
	Key string

	// Index is the position for Sequence events: the new last index for
	// OpAdd, the index valid immediately before removal for OpRemove.
	Index int

	// Source is the collection that fired the event.
	Source Collection
}

// ItemHandler handles a collection event.
type ItemHandler func(ItemEvent) error

// Collection is implemented by Map and Sequence.
type Collection interface {
	// Each calls fn for every item in iteration order until fn returns false.
	// Map keys are passed as string, Sequence keys as int.
	Each(fn func(key any, item any) bool)

	// Len returns the number of items.
	Len() int

	// Listen registers h for every mutation event.
	Listen(h ItemHandler) *Subscription

	// Ignore removes a subscription made with Listen.
	Ignore(sub *Subscription)
}

const eventTopic = "items"

func dispatch(h *hub[ItemHandler], ev ItemEvent) error {
	var errs []error
	for _, fn := range h.snapshot(eventTopic) {
		if err := fn(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Map is an observable string-keyed collection.
type Map struct {
	mu       sync.RWMutex
	items    map[string]any
	keys     []string
	handlers *hub[ItemHandler]
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{
		items:    make(map[string]any),
		handlers: newHub[ItemHandler](),
	}
}

// Set stores item under key. It fires OpChange when key already held a
// value and OpSet otherwise.
func (m *Map) Set(key string, item any) error {
	m.mu.Lock()
	old, existed := m.items[key]
	if !existed {
		m.keys = append(m.keys, key)
	}
	m.items[key] = item
	m.mu.Unlock()

	if existed {
		return dispatch(m.handlers, ItemEvent{Op: OpChange, Item: item, Old: old, Key: key, Source: m})
	}
	return dispatch(m.handlers, ItemEvent{Op: OpSet, Item: item, Key: key, Source: m})
}

// Clear deletes key and fires OpClear. Missing keys are a no-op.
func (m *Map) Clear(key string) error {
	m.mu.Lock()
	item, ok := m.items[key]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	delete(m.items, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	return dispatch(m.handlers, ItemEvent{Op: OpClear, Item: item, Key: key, Source: m})
}

// Get returns the item stored under key.
func (m *Map) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.keys...)
}

// Len returns the number of keys.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Each iterates in insertion order.
func (m *Map) Each(fn func(key any, item any) bool) {
	for _, k := range m.Keys() {
		v, ok := m.Get(k)
		if !ok {
			continue
		}
		if !fn(k, v) {
			return
		}
	}
}

// Listen registers h for set, change and clear events.
func (m *Map) Listen(h ItemHandler) *Subscription {
	return m.handlers.add(eventTopic, h)
}

// Ignore removes a subscription made with Listen.
func (m *Map) Ignore(sub *Subscription) {
	if m.handlers.owns(eventTopic, sub) {
		sub.Unsubscribe()
	}
}

// HandlerCount returns the number of registered handlers.
func (m *Map) HandlerCount() int {
	return m.handlers.count(eventTopic)
}

// Sequence is an observable ordered collection.
type Sequence struct {
	mu       sync.RWMutex
	items    []any
	handlers *hub[ItemHandler]
}

// NewSequence creates a sequence holding items.
func NewSequence(items ...any) *Sequence {
	return &Sequence{
		items:    append([]any(nil), items...),
		handlers: newHub[ItemHandler](),
	}
}

// Add appends item and fires OpAdd with the new last index.
func (s *Sequence) Add(item any) error {
	s.mu.Lock()
	s.items = append(s.items, item)
	index := len(s.items) - 1
	s.mu.Unlock()

	return dispatch(s.handlers, ItemEvent{Op: OpAdd, Item: item, Index: index, Source: s})
}

// Remove deletes every element identical to item, scanning from the end.
// Each removal fires its own OpRemove with the index it had just before
// removal. Absent items are a no-op.
func (s *Sequence) Remove(item any) error {
	var errs []error

	s.mu.RLock()
	i := len(s.items) - 1
	s.mu.RUnlock()

	for ; i >= 0; i-- {
		s.mu.Lock()
		if i >= len(s.items) || !Identical(s.items[i], item) {
			s.mu.Unlock()
			continue
		}
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		s.mu.Unlock()

		if err := dispatch(s.handlers, ItemEvent{Op: OpRemove, Item: item, Index: i, Source: s}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Items returns a copy of the current items.
func (s *Sequence) Items() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]any(nil), s.items...)
}

// At returns the item at index i.
func (s *Sequence) At(i int) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		return nil, false
	}
	return s.items[i], true
}

// Len returns the number of items.
func (s *Sequence) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Each iterates in index order.
func (s *Sequence) Each(fn func(key any, item any) bool) {
	for i, v := range s.Items() {
		if !fn(i, v) {
			return
		}
	}
}

// Listen registers h for add and remove events.
func (s *Sequence) Listen(h ItemHandler) *Subscription {
	return s.handlers.add(eventTopic, h)
}

// Ignore removes a subscription made with Listen.
func (s *Sequence) Ignore(sub *Subscription) {
	if s.handlers.owns(eventTopic, sub) {
		sub.Unsubscribe()
	}
}

// HandlerCount returns the number of registered handlers.
func (s *Sequence) HandlerCount() int {
	return s.handlers.count(eventTopic)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
