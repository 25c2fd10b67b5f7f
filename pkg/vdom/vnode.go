package vdom

import (
	"sort"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement VKind = iota // <div>, <li>, etc.
	KindText                 // Plain text leaf
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// VNode is a node of an in-memory output tree.
type VNode struct {
	Kind   VKind             // Node type
	Tag    string            // Element tag name (e.g., "div")
	Attrs  map[string]string // Attributes
	Styles map[string]string // Inline style properties
	Text   string            // For KindText

	children  []*VNode
	parent    *VNode
	tree      *Tree
	destroyed bool
}

// Nodes implements Adoptable.
func (v *VNode) Nodes() []Node {
	return []Node{v}
}

// Parent returns the parent node, or nil when detached.
func (v *VNode) Parent() *VNode {
	return v.parent
}

// Destroyed reports whether Destroy has been called.
func (v *VNode) Destroyed() bool {
	return v.destroyed
}

// Children implements Node.
func (v *VNode) Children() []Node {
	out := make([]Node, len(v.children))
	for i, c := range v.children {
		out[i] = c
	}
	return out
}

// ChildNodes returns the concrete children.
func (v *VNode) ChildNodes() []*VNode {
	return append([]*VNode(nil), v.children...)
}

// Index returns the position of v in its parent, or -1.
func (v *VNode) Index() int {
	if v.parent == nil {
		return -1
	}
	return v.parent.indexOf(v)
}

func (v *VNode) indexOf(child *VNode) int {
	for i, c := range v.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Adopt implements Node.
func (v *VNode) Adopt(child Adoptable) {
	if child == nil {
		return
	}
	for _, n := range child.Nodes() {
		c, ok := n.(*VNode)
		if !ok || c == nil {
			continue
		}
		v.insertAt(c, len(v.children))
	}
}

// InsertBefore implements Node.
func (v *VNode) InsertBefore(child, ref Node) {
	c, ok := child.(*VNode)
	if !ok || c == nil {
		return
	}
	at := len(v.children)
	if r, ok := ref.(*VNode); ok && r != nil {
		if i := v.indexOf(r); i >= 0 {
			at = i
		}
	}
	v.insertAt(c, at)
}

func (v *VNode) insertAt(c *VNode, at int) {
	if c.parent != nil {
		if c.parent == v {
			if i := v.indexOf(c); i >= 0 && i < at {
				at--
			}
		}
		c.parent.detach(c)
	}
	if at > len(v.children) {
		at = len(v.children)
	}
	v.children = append(v.children, nil)
	copy(v.children[at+1:], v.children[at:])
	v.children[at] = c
	c.parent = v
	v.emit(Patch{Op: PatchInsertNode, Target: v, Node: c, Index: at})
}

// ReplaceChild implements Node.
func (v *VNode) ReplaceChild(newChild, oldChild Node) {
	n, ok1 := newChild.(*VNode)
	o, ok2 := oldChild.(*VNode)
	if !ok1 || !ok2 || n == nil || o == nil || n == o {
		return
	}
	i := v.indexOf(o)
	if i < 0 {
		return
	}
	if n.parent != nil {
		n.parent.detach(n)
		i = v.indexOf(o)
	}
	v.children[i] = n
	n.parent = v
	o.parent = nil
	v.emit(Patch{Op: PatchReplaceNode, Target: v, Node: n, Index: i})
}

func (v *VNode) detach(c *VNode) {
	i := v.indexOf(c)
	if i < 0 {
		return
	}
	v.children = append(v.children[:i], v.children[i+1:]...)
	c.parent = nil
	v.emit(Patch{Op: PatchRemoveNode, Target: v, Node: c, Index: i})
}

// SetAttribute implements Node.
func (v *VNode) SetAttribute(name, value string) {
	if v.Attrs == nil {
		v.Attrs = make(map[string]string)
	}
	if old, ok := v.Attrs[name]; ok && old == value {
		return
	}
	v.Attrs[name] = value
	v.emit(Patch{Op: PatchSetAttr, Target: v, Key: name, Value: value})
}

// SetStyle implements Node.
func (v *VNode) SetStyle(name, value string) {
	if value == "" {
		if _, ok := v.Styles[name]; !ok {
			return
		}
		delete(v.Styles, name)
		v.emit(Patch{Op: PatchRemoveStyle, Target: v, Key: name})
		return
	}
	if v.Styles == nil {
		v.Styles = make(map[string]string)
	}
	if old, ok := v.Styles[name]; ok && old == value {
		return
	}
	v.Styles[name] = value
	v.emit(Patch{Op: PatchSetStyle, Target: v, Key: name, Value: value})
}

// AppendText implements Node.
func (v *VNode) AppendText(text string) {
	v.insertAt(v.tree.text(text), len(v.children))
}

// Destroy implements Node.
func (v *VNode) Destroy() {
	if v.destroyed {
		return
	}
	if v.parent != nil {
		v.parent.detach(v)
	}
	v.destroyed = true
}

// Empty destroys every child.
func (v *VNode) Empty() {
	for _, c := range v.ChildNodes() {
		c.Destroy()
	}
}

// Style returns the inline style attribute value with properties sorted
// by name.
func (v *VNode) Style() string {
	if len(v.Styles) == 0 {
		return ""
	}
	names := make([]string, 0, len(v.Styles))
	for name := range v.Styles {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(v.Styles[name])
		b.WriteByte(';')
	}
	return b.String()
}

// TextContent returns the concatenated text of the subtree.
func (v *VNode) TextContent() string {
	if v.Kind == KindText {
		return v.Text
	}
	var b strings.Builder
	for _, c := range v.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Path returns the child indexes leading from the detached root of v's
// tree down to v.
func (v *VNode) Path() []int {
	var path []int
	for n := v; n.parent != nil; n = n.parent {
		path = append(path, n.parent.indexOf(n))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Root returns the top-most ancestor of v.
func (v *VNode) Root() *VNode {
	n := v
	for n.parent != nil {
		n = n.parent
	}
	return n
}

func (v *VNode) emit(p Patch) {
	if v.tree != nil {
		v.tree.emit(p)
	}
}
