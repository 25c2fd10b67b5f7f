package mte

import (
	"github.com/vango-dev/mte/pkg/vdom"
)

// Binding renders one reactive value as a text child or an attribute.
type Binding struct {
	expression
	format Formatter
}

// Bind creates a binding on a single property. An empty property or Self
// binds the context itself. format may be nil.
func Bind(property string, format Formatter) *Binding {
	return &Binding{expression: expression{path: Prop(property)}, format: format}
}

// BindAll creates a multi-property binding. The formatter receives the
// resolved values as []any in the given order.
func BindAll(properties []string, format Formatter) *Binding {
	return &Binding{expression: expression{path: Props(properties...)}, format: format}
}

func (b *Binding) kind() string {
	if b.path.Multi() {
		return "MultiBinding"
	}
	return "Binding"
}

// Apply inserts the bound value as a child of scope's node and replaces it
// in place whenever the value's inputs change.
func (b *Binding) Apply(scope *Scope) error {
	nodes, err := b.render(scope)
	if err != nil {
		return err
	}
	parent := scope.Node()
	parent.Adopt(vdom.Nodes(nodes))

	b.watch(scope, scope, func() error {
		next, err := b.render(scope)
		if err != nil {
			return err
		}
		replaceNodes(parent, nodes, next)
		nodes = next
		scope.engine.hooks.Patched(PatchBinding)
		return nil
	})

	return nil
}

// ApplyToAttribute sets attribute name on scope's node now and on every
// relevant change.
func (b *Binding) ApplyToAttribute(scope *Scope, name string) error {
	update := func() error {
		data, err := resolveBinding(scope, b.path, b.kind(), true)
		if err != nil {
			return err
		}
		scope.Node().SetAttribute(name, Stringify(applyFormat(b.format, data)))
		return nil
	}
	if err := update(); err != nil {
		return err
	}

	b.watch(scope, scope, func() error {
		if err := update(); err != nil {
			return err
		}
		scope.engine.hooks.Patched(PatchAttribute)
		return nil
	})
	return nil
}

// render resolves, formats and wraps the value. It always returns at least
// one node so later replacements have a position to take.
func (b *Binding) render(scope *Scope) ([]vdom.Node, error) {
	data, err := resolveBinding(scope, b.path, b.kind(), true)
	if err != nil {
		return nil, err
	}
	out := applyFormat(b.format, data)
	if vdom.IsAdoptable(out) {
		if nodes := out.(vdom.Adoptable).Nodes(); len(nodes) > 0 {
			return append([]vdom.Node(nil), nodes...), nil
		}
	}
	return []vdom.Node{scope.engine.doc.NewTextNode(Stringify(out))}, nil
}

// replaceNodes swaps next into the position held by prev. Nodes present in
// both stay alive.
func replaceNodes(parent vdom.Node, prev, next []vdom.Node) {
	if len(prev) == 1 && len(next) == 1 {
		if next[0] == prev[0] {
			return
		}
		parent.ReplaceChild(next[0], prev[0])
		prev[0].Destroy()
		return
	}

	kept := make(map[vdom.Node]bool, len(next))
	for _, n := range next {
		kept[n] = true
	}
	// Insert before the first node that goes away, or after the last old
	// node when every one of them stays.
	var ref vdom.Node
	for _, n := range prev {
		if !kept[n] {
			ref = n
			break
		}
	}
	if ref == nil && len(prev) > 0 {
		ref = siblingAfter(parent, prev[len(prev)-1])
	}
	for _, n := range next {
		parent.InsertBefore(n, ref)
	}
	for _, n := range prev {
		if !kept[n] {
			n.Destroy()
		}
	}
}

func siblingAfter(parent, n vdom.Node) vdom.Node {
	children := parent.Children()
	for i, c := range children {
		if c == n && i+1 < len(children) {
			return children[i+1]
		}
	}
	return nil
}

func applyFormat(format Formatter, data any) any {
	if format == nil {
		return data
	}
	return format(data)
}

// resolveBinding evaluates path against scope's context under the engine's
// policy. requireValue controls whether strict mode rejects absent values.
func resolveBinding(scope *Scope, path Path, kind string, requireValue bool) (any, error) {
	ctx := scope.Context()
	if !scope.engine.strict {
		return path.resolve(ctx), nil
	}

	indexable := Indexable(ctx)
	switch {
	case path.Empty() && indexable:
		if _, ok := ctx.(Observable); ok {
			return nil, &BindingConfigurationError{
				Expression: kind,
				Reason:     "a binding source property has to be specified when binding against an observable object",
			}
		}
		return nil, &BindingConfigurationError{
			Expression: kind,
			Reason:     "a binding source property must be specified when the binding source is an object or an array",
		}
	case path.IsSelf():
		return path.resolve(ctx), nil
	case !indexable:
		return nil, &BindingConfigurationError{
			Expression: kind,
			Property:   path.String(),
			Reason:     "a binding source property may only be specified when the binding source is an object or an array",
		}
	}

	data := path.resolve(ctx)
	if !requireValue {
		return data, nil
	}
	if path.Multi() {
		for i, v := range data.([]any) {
			if !Present(v) {
				return nil, &BindingConfigurationError{
					Expression: kind,
					Property:   path.names[i],
					Reason:     "the binding source property did not return any value",
				}
			}
		}
		return data, nil
	}
	if !Present(data) {
		return nil, &BindingConfigurationError{
			Expression: kind,
			Property:   path.String(),
			Reason:     "the binding source property did not return any value",
		}
	}
	return data, nil
}
