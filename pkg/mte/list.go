package mte

import (
	"fmt"
	"reflect"

	"github.com/vango-dev/mte/pkg/observable"
	"github.com/vango-dev/mte/pkg/vdom"
)

// ListExpr renders one child per item of a collection property.
type ListExpr struct {
	expression
	item   ElementCreator
	sortBy string
}

// List creates a list expression rendering item once per element of the
// collection found at property (Self for the context itself). When
// sortProperty is set, each new item is inserted before the first item
// whose sort value is strictly greater.
func List(property string, item ElementCreator, sortProperty string) *ListExpr {
	return &ListExpr{
		expression: expression{path: Prop(property)},
		item:       item,
		sortBy:     sortProperty,
	}
}

// Apply renders the list into scope's node and keeps it reconciled.
func (l *ListExpr) Apply(scope *Scope) error {
	st := &listState{
		expr:   l,
		scope:  scope,
		keyed:  make(map[string]*listEntry),
		byNode: make(map[vdom.Node]*listEntry),
	}
	if err := st.reset(); err != nil {
		return err
	}

	l.watch(scope, scope, func() error {
		scope.engine.hooks.Patched(PatchListReset)
		return st.reset()
	})
	scope.OnCleanup(st.unsubscribe)
	return nil
}

// listEntry is one rendered item.
type listEntry struct {
	root *Scope
	node vdom.Node
}

// listState is the per-render reconciliation state. Map and object sources
// are tracked by key; sequences by position, mirroring source order. A
// sequence item whose render failed keeps a nil slot so later indexes still
// line up with the source.
//
// The nodes a list produces are contiguous among the parent's children.
// While there are none, an empty placeholder text node holds the list's
// position.
type listState struct {
	expr  *ListExpr
	scope *Scope

	source      any
	sub         *observable.Subscription
	keyed       map[string]*listEntry
	ordered     []*listEntry
	byNode      map[vdom.Node]*listEntry
	placeholder vdom.Node
}

func (st *listState) sourceValue() any {
	ctx := st.scope.Context()
	if st.expr.path.IsSelf() {
		return ctx
	}
	return st.expr.path.resolve(ctx)
}

// reset is the full reconciliation: drop the old source subscription,
// tear down everything rendered, render the new source and subscribe.
func (st *listState) reset() error {
	st.unsubscribe()
	st.clear()

	src := st.sourceValue()
	st.source = src
	log := st.scope.engine.logger

	switch s := src.(type) {
	case *observable.Map:
		for _, key := range s.Keys() {
			item, ok := s.Get(key)
			if !ok {
				continue
			}
			if err := st.put(key, item); err != nil {
				return err
			}
		}
		st.sub = s.Listen(st.onItem)
	case *observable.Sequence:
		for _, item := range s.Items() {
			if err := st.push(len(st.ordered), item); err != nil {
				return err
			}
		}
		st.sub = s.Listen(st.onItem)
	case *observable.Object:
		for _, key := range s.Keys() {
			if v := s.Get(key); Present(v) {
				if err := st.put(key, v); err != nil {
					return err
				}
			}
		}
		st.sub = s.ListenChanges(st.onProperty)
	default:
		keys, values, ok := entries(src)
		if !ok || !Present(src) {
			st.hold()
			log.Debug("list source is not a collection", "property", st.expr.path.String())
			return nil
		}
		for i, key := range keys {
			if err := st.put(key, values[i]); err != nil {
				return err
			}
		}
	}

	if len(st.byNode) == 0 {
		st.hold()
	}
	log.Debug("list rendered", "property", st.expr.path.String(), "items", len(st.byNode))
	return nil
}

func (st *listState) unsubscribe() {
	if st.sub == nil {
		return
	}
	switch s := st.source.(type) {
	case *observable.Map:
		s.Ignore(st.sub)
	case *observable.Sequence:
		s.Ignore(st.sub)
	case *observable.Object:
		s.IgnoreChanges(st.sub)
	}
	st.sub.Unsubscribe()
	st.sub = nil
}

// clear destroys every rendered item. The last one leaves the placeholder
// behind so a following render lands in the same place.
func (st *listState) clear() {
	for _, e := range st.ordered {
		st.dispose(e)
	}
	for _, e := range st.keyed {
		st.dispose(e)
	}
	st.ordered = nil
	st.keyed = make(map[string]*listEntry)
	st.byNode = make(map[vdom.Node]*listEntry)
}

func (st *listState) onItem(ev observable.ItemEvent) error {
	if st.scope.disposed {
		return nil
	}

	var err error
	switch ev.Op {
	case observable.OpSet, observable.OpChange:
		err = st.put(ev.Key, ev.Item)
	case observable.OpClear:
		st.drop(ev.Key)
	case observable.OpAdd:
		err = st.push(ev.Index, ev.Item)
	case observable.OpRemove:
		if ev.Index >= 0 && ev.Index < len(st.ordered) {
			st.dispose(st.ordered[ev.Index])
			st.ordered = append(st.ordered[:ev.Index], st.ordered[ev.Index+1:]...)
		}
	}
	st.scope.engine.hooks.Patched(PatchListItem)
	return err
}

func (st *listState) onProperty(c observable.Change) error {
	if st.scope.disposed {
		return nil
	}
	var err error
	if Present(c.Value) {
		err = st.put(c.Property, c.Value)
	} else {
		st.drop(c.Property)
	}
	st.scope.engine.hooks.Patched(PatchListItem)
	return err
}

// put renders item for key, replacing any output the key already had.
func (st *listState) put(key string, item any) error {
	e, err := st.render(item)
	if err != nil {
		return err
	}

	old := st.keyed[key]
	st.keyed[key] = e
	if old != nil && st.expr.sortBy == "" {
		st.scope.Node().ReplaceChild(e.node, old.node)
		st.byNode[e.node] = e
		st.dispose(old)
		return nil
	}
	if old != nil {
		st.dispose(old)
	}
	st.insert(e)
	return nil
}

// drop destroys key's output.
func (st *listState) drop(key string) {
	if e, ok := st.keyed[key]; ok {
		delete(st.keyed, key)
		st.dispose(e)
	}
}

// push renders a sequence item at index. A failed render still takes its
// slot.
func (st *listState) push(index int, item any) error {
	if index < 0 || index > len(st.ordered) {
		index = len(st.ordered)
	}
	e, err := st.render(item)
	st.ordered = append(st.ordered, nil)
	copy(st.ordered[index+1:], st.ordered[index:])
	st.ordered[index] = e
	if err != nil {
		return err
	}
	st.insert(e)
	return nil
}

func (st *listState) render(item any) (*listEntry, error) {
	root := newScope(st.scope.engine, nil, st.scope, item)
	el, err := st.expr.item.CreateElement(root)
	if err != nil {
		root.Dispose()
		return nil, err
	}
	return &listEntry{root: root, node: el.Node()}, nil
}

// insert places e's node among the parent's children: before the first
// sibling from this list with a strictly greater sort value, else at the
// end of the list's nodes.
func (st *listState) insert(e *listEntry) {
	parent := st.scope.Node()
	st.byNode[e.node] = e
	defer st.release()

	if st.expr.sortBy != "" {
		value := Lookup(e.root.Context(), st.expr.sortBy)
		for _, sibling := range parent.Children() {
			other, ok := st.byNode[sibling]
			if !ok || other == e {
				continue
			}
			if greater(Lookup(other.root.Context(), st.expr.sortBy), value) {
				parent.InsertBefore(e.node, sibling)
				return
			}
		}
	}
	parent.InsertBefore(e.node, st.end())
}

// end returns the first sibling after the list's nodes, or nil when the
// list is last.
func (st *listState) end() vdom.Node {
	children := st.scope.Node().Children()
	last := -1
	for i, c := range children {
		if _, ok := st.byNode[c]; ok || (st.placeholder != nil && c == st.placeholder) {
			last = i
		}
	}
	if last < 0 || last+1 >= len(children) {
		return nil
	}
	return children[last+1]
}

// hold puts the placeholder where the list's nodes would go.
func (st *listState) hold() {
	if st.placeholder != nil {
		return
	}
	st.placeholder = st.scope.engine.doc.NewTextNode("")
	st.scope.Node().InsertBefore(st.placeholder, st.end())
}

// release drops the placeholder once the list has nodes.
func (st *listState) release() {
	if st.placeholder == nil || len(st.byNode) == 0 {
		return
	}
	st.placeholder.Destroy()
	st.placeholder = nil
}

// dispose destroys e. Removing the list's last node leaves the placeholder
// in its place. e may be nil for a failed render.
func (st *listState) dispose(e *listEntry) {
	if e == nil {
		return
	}
	delete(st.byNode, e.node)
	if len(st.byNode) == 0 && st.placeholder == nil {
		st.placeholder = st.scope.engine.doc.NewTextNode("")
		st.scope.Node().InsertBefore(st.placeholder, e.node)
	}
	e.root.Dispose()
	e.node.Destroy()
}

// greater orders sort values: numerically when both are numbers,
// lexically when both are strings, else by their printed form.
func greater(a, b any) bool {
	af, aok := number(a)
	bf, bok := number(b)
	if aok && bok {
		return af > bf
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as > bs
	}
	return fmt.Sprint(a) > fmt.Sprint(b)
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
