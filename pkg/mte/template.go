package mte

import (
	"sort"

	"github.com/vango-dev/mte/pkg/vdom"
)

// Attrs maps attribute names to literal values or *Binding.
type Attrs map[string]any

// Template is an immutable description of an output element.
type Template struct {
	tag      string
	context  *ContextExpr
	attrs    Attrs
	children []any
}

// NewTemplate creates a template. A nil context is the identity.
// Children may be Expressions, ElementCreators, adoptable vdom values or
// literals, which are appended as text.
func NewTemplate(tag string, context *ContextExpr, attrs Attrs, children ...any) *Template {
	if context == nil {
		context = Identity()
	}
	copied := make(Attrs, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return &Template{
		tag:      tag,
		context:  context,
		attrs:    copied,
		children: append([]any(nil), children...),
	}
}

// Tag builds a template from a tag and a loose argument list: an optional
// leading *ContextExpr, then optional Attrs, then children.
//
//	mte.Tag("li", mte.Context("owner"), mte.Attrs{"class": "row"}, mte.Bind("name", nil))
func Tag(tag string, args ...any) *Template {
	var context *ContextExpr
	if len(args) > 0 {
		if c, ok := args[0].(*ContextExpr); ok {
			context = c
			args = args[1:]
		}
	}
	var attrs Attrs
	if len(args) > 0 {
		if a, ok := args[0].(Attrs); ok {
			attrs = a
			args = args[1:]
		}
	}
	return NewTemplate(tag, context, attrs, args...)
}

// TagName returns the element tag.
func (t *Template) TagName() string { return t.tag }

// CreateElement builds the element under parent: node, context, attributes
// and children, in that order. On error the partial element is released
// and nothing is attached to parent.
func (t *Template) CreateElement(parent *Scope) (*Scope, error) {
	node := parent.engine.doc.CreateElement(t.tag)
	scope := parent.child(node)

	if err := t.build(scope, parent); err != nil {
		scope.Dispose()
		node.Destroy()
		return nil, err
	}
	return scope, nil
}

func (t *Template) build(scope, parent *Scope) error {
	if err := t.context.Apply(scope, parent); err != nil {
		return err
	}

	node := scope.Node()
	names := make([]string, 0, len(t.attrs))
	for name := range t.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch v := t.attrs[name].(type) {
		case *Binding:
			if err := v.ApplyToAttribute(scope, name); err != nil {
				return err
			}
		default:
			node.SetAttribute(name, Stringify(v))
		}
	}

	for _, child := range t.children {
		if err := appendChild(scope, child); err != nil {
			return err
		}
	}
	return nil
}

// appendChild dispatches one template child by capability.
func appendChild(scope *Scope, child any) error {
	node := scope.Node()
	switch c := child.(type) {
	case nil:
		return nil
	case Expression:
		return c.Apply(scope)
	case ElementCreator:
		el, err := c.CreateElement(scope)
		if err != nil {
			return err
		}
		node.Adopt(el.Node())
		return nil
	case vdom.Adoptable:
		node.Adopt(c)
		return nil
	default:
		node.AppendText(Stringify(c))
		return nil
	}
}
