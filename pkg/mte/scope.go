package mte

import (
	"github.com/vango-dev/mte/pkg/observable"
	"github.com/vango-dev/mte/pkg/vdom"
)

// changedTopic is the single topic of a Scope's context-changed channel.
const changedTopic = "context"

// Scope is the rendering state of one output element: its context, the
// context-changed channel its descendants listen to, and the cleanups that
// release its subscriptions.
//
// Scopes form a tree that mirrors the output tree. Disposing a Scope
// disposes its descendants first, then runs its own cleanups in reverse
// registration order.
type Scope struct {
	engine   *Engine
	node     vdom.Node
	parent   *Scope
	context  any
	changed  *observable.Object
	children []*Scope
	cleanups []func()
	disposed bool
}

func newScope(engine *Engine, node vdom.Node, parent *Scope, context any) *Scope {
	s := &Scope{
		engine:  engine,
		node:    node,
		parent:  parent,
		context: context,
		changed: observable.NewObject(),
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// child creates a child scope owning node. Its context starts as the
// parent's until a context expression sets it.
func (s *Scope) child(node vdom.Node) *Scope {
	return newScope(s.engine, node, s, s.context)
}

// Engine returns the engine that rendered this scope.
func (s *Scope) Engine() *Engine { return s.engine }

// Node returns the output node owned by the scope. The synthetic root
// scope of a render has no node.
func (s *Scope) Node() vdom.Node { return s.node }

// Parent returns the parent scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Context returns the data context currently in scope.
func (s *Scope) Context() any { return s.context }

// Disposed reports whether the scope has been disposed.
func (s *Scope) Disposed() bool { return s.disposed }

// Children returns the live child scopes.
func (s *Scope) Children() []*Scope {
	return append([]*Scope(nil), s.children...)
}

// OnContextChanged registers fn to run whenever this scope's context is
// replaced. The signal carries no payload; read Context again.
func (s *Scope) OnContextChanged(fn func() error) *observable.Subscription {
	return s.changed.ListenChanges(func(observable.Change) error {
		return fn()
	})
}

// ListenerCount returns the number of context-changed listeners.
func (s *Scope) ListenerCount() int {
	return s.changed.HandlerCount(observable.Wildcard)
}

// setContext stores ctx and signals listeners.
func (s *Scope) setContext(ctx any) error {
	s.context = ctx
	return s.changed.Notify(changedTopic, ctx, nil)
}

// OnCleanup registers fn to run when the scope is disposed. A disposed
// scope runs fn immediately.
func (s *Scope) OnCleanup(fn func()) {
	if s.disposed {
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
}

// Dispose releases every subscription held by the scope and its
// descendants. It does not touch the output node.
func (s *Scope) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true

	for i := len(s.children) - 1; i >= 0; i-- {
		s.children[i].Dispose()
	}
	s.children = nil

	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
	s.cleanups = nil

	if s.parent != nil {
		s.parent.removeChild(s)
	}
}

func (s *Scope) removeChild(child *Scope) {
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}
