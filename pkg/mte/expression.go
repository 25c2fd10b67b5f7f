package mte

import (
	"github.com/vango-dev/mte/pkg/observable"
)

// Expression is a child of a template that binds output to the element's
// context: Binding, Display, Style and List expressions.
type Expression interface {
	Apply(scope *Scope) error
}

// ElementCreator produces a child element: *Template and *TemplateRef.
type ElementCreator interface {
	CreateElement(parent *Scope) (*Scope, error)
}

// expression holds the property path shared by every expression kind.
type expression struct {
	path Path
}

// Path returns the expression's property path.
func (e expression) Path() Path { return e.path }

// watch keeps update in sync with source's context. It subscribes to the
// context's notifications for every watched property and to source's
// context-changed channel. When the context is replaced the old property
// subscriptions are dropped, update runs, then the new context is
// subscribed. owner's disposal releases everything.
func (e expression) watch(source, owner *Scope, update func() error) {
	names := e.path.Watched()

	var (
		current Observable
		subs    []*observable.Subscription
	)

	run := func() error {
		if owner.disposed {
			return nil
		}
		return update()
	}

	listen := func(ctx any) {
		o, ok := ctx.(Observable)
		if !ok || len(names) == 0 {
			current = nil
			return
		}
		current = o
		for _, name := range names {
			sub, _ := o.ListenChange(name, func(observable.Change) error {
				return run()
			}, false)
			subs = append(subs, sub)
		}
	}

	ignore := func() {
		if current != nil {
			for _, sub := range subs {
				current.IgnoreChange(sub.Topic(), sub)
			}
		}
		current = nil
		subs = nil
	}

	listen(source.Context())

	ctxSub := source.OnContextChanged(func() error {
		if owner.disposed {
			return nil
		}
		ignore()
		err := update()
		listen(source.Context())
		return err
	})

	owner.OnCleanup(func() {
		ignore()
		ctxSub.Unsubscribe()
	})
}
