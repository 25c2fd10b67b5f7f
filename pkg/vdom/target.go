package vdom

// Adoptable is implemented by values that are renderable output.
type Adoptable interface {
	// Nodes returns the nodes to adopt, in order.
	Nodes() []Node
}

// Node is a mutable output node.
type Node interface {
	Adoptable

	// Adopt appends the given node(s) as last children. A node that already
	// has a parent is moved.
	Adopt(child Adoptable)

	// InsertBefore inserts child immediately before ref. A nil or foreign
	// ref appends.
	InsertBefore(child, ref Node)

	// ReplaceChild swaps newChild into oldChild's position. It is a no-op
	// when oldChild is not a child of this node.
	ReplaceChild(newChild, oldChild Node)

	// SetAttribute sets an attribute value.
	SetAttribute(name, value string)

	// SetStyle sets a style property. An empty value removes it.
	SetStyle(name, value string)

	// AppendText appends a text leaf.
	AppendText(text string)

	// Children returns the current children.
	Children() []Node

	// Destroy detaches the node from its parent and releases it.
	Destroy()
}

// Document constructs nodes.
type Document interface {
	CreateElement(tag string) Node
	NewTextNode(text string) Node
}

// Nodes is an adoptable collection of nodes.
type Nodes []Node

// Nodes implements Adoptable.
func (n Nodes) Nodes() []Node {
	return n
}

// IsAdoptable reports whether v is renderable output rather than a literal
// to be stringified.
func IsAdoptable(v any) bool {
	switch a := v.(type) {
	case nil:
		return false
	case *VNode:
		return a != nil
	case Adoptable:
		return true
	default:
		return false
	}
}
