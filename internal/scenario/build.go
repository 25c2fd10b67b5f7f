package scenario

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/mte/internal/errors"
	"github.com/vango-dev/mte/pkg/mte"
)

// NodeSpec describes one template node. Exactly one of Tag, Bind, Binds,
// List, Ref and Text is set.
type NodeSpec struct {
	Tag      string              `yaml:"tag"`
	Context  *string             `yaml:"context"`
	Attrs    map[string]AttrSpec `yaml:"attrs"`
	Display  string              `yaml:"display"`
	Styles   map[string]string   `yaml:"styles"`
	Children []*NodeSpec         `yaml:"children"`

	Bind   *string  `yaml:"bind"`
	Binds  []string `yaml:"binds"`
	Format string   `yaml:"format"`

	List string    `yaml:"list"`
	Item *NodeSpec `yaml:"item"`
	Sort string    `yaml:"sort"`

	Ref  string  `yaml:"ref"`
	Text *string `yaml:"text"`

	line, column int
}

// UnmarshalYAML records the node's position.
func (n *NodeSpec) UnmarshalYAML(value *yaml.Node) error {
	type raw NodeSpec
	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}
	*n = NodeSpec(r)
	n.line, n.column = value.Line, value.Column
	return nil
}

// AttrSpec is a literal attribute value or a binding.
type AttrSpec struct {
	Literal string
	Bind    string `yaml:"bind"`
	Format  string `yaml:"format"`
}

// UnmarshalYAML accepts a scalar literal or a {bind, format} mapping.
func (a *AttrSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		a.Literal = value.Value
		return nil
	}
	type raw AttrSpec
	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}
	*a = AttrSpec(r)
	return nil
}

func (n *NodeSpec) kinds() []string {
	var kinds []string
	if n.Tag != "" {
		kinds = append(kinds, "tag")
	}
	if n.Bind != nil {
		kinds = append(kinds, "bind")
	}
	if len(n.Binds) > 0 {
		kinds = append(kinds, "binds")
	}
	if n.List != "" {
		kinds = append(kinds, "list")
	}
	if n.Ref != "" {
		kinds = append(kinds, "ref")
	}
	if n.Text != nil {
		kinds = append(kinds, "text")
	}
	return kinds
}

func (n *NodeSpec) validate(file string) error {
	fail := func(detail string) error {
		return locate(errors.New("E203").WithDetail(detail), file, n.line, n.column)
	}

	kinds := n.kinds()
	if len(kinds) != 1 {
		return fail("A template node must have exactly one of tag, bind, binds, list, ref or text")
	}
	if n.Format != "" {
		if _, ok := formatters[n.Format]; !ok {
			return locate(errors.New("E204"), file, n.line, n.column).
				WithDetail("Unknown formatter " + n.Format).
				WithSuggestion("Built-in formatters: " + formatterNames())
		}
	}
	for _, name := range sortedNames(n.Attrs) {
		if f := n.Attrs[name].Format; f != "" {
			if _, ok := formatters[f]; !ok {
				return locate(errors.New("E204"), file, n.line, n.column).
					WithDetail("Unknown formatter " + f).
					WithSuggestion("Built-in formatters: " + formatterNames())
			}
		}
	}

	switch kinds[0] {
	case "list":
		if n.Item == nil {
			return fail("A list needs an item template")
		}
		return n.Item.validate(file)
	case "tag":
		for _, child := range n.Children {
			if child == nil {
				return fail("Empty child")
			}
			if err := child.validate(file); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build returns the root template and a registry holding the named
// templates.
func (s *Scenario) Build() (*mte.Template, *mte.Registry, error) {
	reg := mte.NewRegistry()
	for _, name := range sortedNames(s.Templates) {
		t, err := s.Templates[name].element()
		if err != nil {
			return nil, nil, err
		}
		reg.Register(name, t)
	}
	root, err := s.Template.element()
	if err != nil {
		return nil, nil, err
	}
	return root, reg, nil
}

// element builds a node that must produce an element.
func (n *NodeSpec) element() (*mte.Template, error) {
	if n.Tag == "" {
		return nil, errors.New("E203").WithDetail("Expected a tag node")
	}

	var ctx *mte.ContextExpr
	if n.Context != nil {
		ctx = mte.Context(*n.Context)
	}

	attrs := make(mte.Attrs, len(n.Attrs))
	for name, a := range n.Attrs {
		if a.Bind != "" {
			attrs[name] = mte.Bind(a.Bind, formatters[a.Format])
		} else {
			attrs[name] = a.Literal
		}
	}

	var children []any
	if n.Display != "" {
		children = append(children, mte.Display(n.Display, formatters[n.Format]))
	}
	for _, style := range sortedNames(n.Styles) {
		children = append(children, mte.Style(n.Styles[style], style, nil))
	}
	for _, c := range n.Children {
		child, err := c.child()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return mte.NewTemplate(n.Tag, ctx, attrs, children...), nil
}

// child builds any node kind as a template child.
func (n *NodeSpec) child() (any, error) {
	format := formatters[n.Format]
	switch {
	case n.Tag != "":
		return n.element()
	case n.Bind != nil:
		return mte.Bind(*n.Bind, format), nil
	case len(n.Binds) > 0:
		return mte.BindAll(n.Binds, format), nil
	case n.List != "":
		item, err := n.Item.creator()
		if err != nil {
			return nil, err
		}
		return mte.List(n.List, item, n.Sort), nil
	case n.Ref != "":
		return mte.Ref(n.Ref), nil
	case n.Text != nil:
		return *n.Text, nil
	default:
		return nil, errors.New("E203")
	}
}

// creator builds a list item: a tag or a reference.
func (n *NodeSpec) creator() (mte.ElementCreator, error) {
	if n.Ref != "" {
		return mte.Ref(n.Ref), nil
	}
	return n.element()
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
