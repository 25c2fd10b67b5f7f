package observable

import (
	"errors"
	"sync"
)

// Change is the payload delivered to Object handlers.
type Change struct {
	// Source is the object that changed.
	Source *Object

	// Property is the name of the property that changed. Wildcard handlers
	// receive the real property name, not Wildcard.
	Property string

	// Value is the new value.
	Value any

	// Old is the value before the change.
	Old any
}

// ChangeHandler handles an Object change notification.
type ChangeHandler func(Change) error

// Accessor is a computed getter/setter pair for one property.
// Either half may be nil.
type Accessor struct {
	Get func(o *Object) any
	Set func(o *Object, value any)
}

// Descriptors maps property names to accessors. A table is usually built
// once per record type and shared by every instance of it; only the
// handler hub is per instance.
type Descriptors map[string]Accessor

// Option configures an Object at construction.
type Option func(*Object)

// WithDescriptors installs a property descriptor table.
func WithDescriptors(d Descriptors) Option {
	return func(o *Object) {
		o.descriptors = d
	}
}

// Object is a mutable property record with change notification.
type Object struct {
	mu          sync.RWMutex
	values      map[string]any
	keys        []string
	descriptors Descriptors
	handlers    *hub[ChangeHandler]
}

// NewObject creates an empty object.
func NewObject(opts ...Option) *Object {
	o := &Object{
		values:   make(map[string]any),
		handlers: newHub[ChangeHandler](),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FromMap creates an object holding a copy of values. Keys are recorded in
// sorted order since Go maps carry no insertion order.
func FromMap(values map[string]any, opts ...Option) *Object {
	o := NewObject(opts...)
	for _, k := range sortedKeys(values) {
		o.store(k, values[k])
	}
	return o
}

// Get returns the property value: the descriptor getter if one is
// registered, else the stored value, else nil.
func (o *Object) Get(property string) any {
	if acc, ok := o.descriptors[property]; ok && acc.Get != nil {
		return acc.Get(o)
	}
	return o.Stored(property)
}

// Stored returns the raw stored value, bypassing descriptors. Descriptor
// getters use it to read their backing field.
func (o *Object) Stored(property string) any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.values[property]
}

// Store writes the raw value without notifying. Descriptor setters use it
// to write their backing field.
func (o *Object) Store(property string, value any) {
	o.store(property, value)
}

func (o *Object) store(property string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.values[property]; !ok {
		o.keys = append(o.keys, property)
	}
	o.values[property] = value
}

// Has reports whether the property is stored or has a getter.
func (o *Object) Has(property string) bool {
	if acc, ok := o.descriptors[property]; ok && acc.Get != nil {
		return true
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.values[property]
	return ok
}

// Keys returns stored property names in insertion order, followed by
// descriptor-only properties in sorted order.
func (o *Object) Keys() []string {
	o.mu.RLock()
	keys := append([]string(nil), o.keys...)
	seen := make(map[string]bool, len(o.values))
	for k := range o.values {
		seen[k] = true
	}
	o.mu.RUnlock()

	for _, k := range sortedKeys(o.descriptors) {
		if !seen[k] && o.descriptors[k].Get != nil {
			keys = append(keys, k)
		}
	}
	return keys
}

// Set stores value and notifies handlers when it differs from the current
// value. Property handlers run before wildcard handlers.
func (o *Object) Set(property string, value any) error {
	old := o.Get(property)
	if Equal(old, value) {
		return nil
	}
	o.write(property, value)
	return o.notify(property, o.Get(property), old)
}

// Assign stores value and always notifies, even when unchanged.
func (o *Object) Assign(property string, value any) error {
	old := o.Get(property)
	o.write(property, value)
	return o.notify(property, o.Get(property), old)
}

func (o *Object) write(property string, value any) {
	if acc, ok := o.descriptors[property]; ok && acc.Set != nil {
		acc.Set(o, value)
		return
	}
	o.store(property, value)
}

// Notify dispatches a change for property without writing anything.
// Descriptor-backed objects use it when a computed value changes.
func (o *Object) Notify(property string, value, old any) error {
	return o.notify(property, value, old)
}

func (o *Object) notify(property string, value, old any) error {
	change := Change{Source: o, Property: property, Value: value, Old: old}

	var errs []error
	for _, h := range o.handlers.snapshot(property) {
		if err := h(change); err != nil {
			errs = append(errs, err)
		}
	}
	if property != Wildcard {
		for _, h := range o.handlers.snapshot(Wildcard) {
			if err := h(change); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// ListenChange registers h for future changes to property. When
// triggerImmediately is set, h runs once with the current value before
// ListenChange returns; its error is returned alongside the subscription.
func (o *Object) ListenChange(property string, h ChangeHandler, triggerImmediately bool) (*Subscription, error) {
	var err error
	if triggerImmediately {
		v := o.Get(property)
		err = h(Change{Source: o, Property: property, Value: v, Old: v})
	}
	return o.handlers.add(property, h), err
}

// IgnoreChange removes a subscription registered for property. Unknown or
// foreign subscriptions are ignored.
func (o *Object) IgnoreChange(property string, sub *Subscription) {
	if o.handlers.owns(property, sub) {
		sub.Unsubscribe()
	}
}

// ListenChanges registers h for every property's changes.
func (o *Object) ListenChanges(h ChangeHandler) *Subscription {
	return o.handlers.add(Wildcard, h)
}

// IgnoreChanges removes a wildcard subscription.
func (o *Object) IgnoreChanges(sub *Subscription) {
	o.IgnoreChange(Wildcard, sub)
}

// HandlerCount returns the number of handlers registered for property
// (use Wildcard for whole-object handlers).
func (o *Object) HandlerCount(property string) int {
	return o.handlers.count(property)
}
