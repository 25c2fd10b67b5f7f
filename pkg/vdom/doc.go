// Package vdom provides the render target for MTE templates.
//
// The package has two halves. The interfaces in target.go (Node, Document,
// Adoptable) are the capability the template engine drives: create nodes,
// adopt children, replace a child in place, set attributes and styles,
// append text and destroy. Any output tree can back them.
//
// VNode and Tree are the in-memory implementation shipped with MTE. A Tree
// creates VNodes and reports every structural or attribute mutation to its
// observers as a Patch, which is how the live inspector streams updates.
//
// # Adoptability
//
// A value is adoptable when it is itself renderable output. The test is an
// interface check against Adoptable, implemented by every Node and by the
// Nodes collection type:
//
//	if vdom.IsAdoptable(v) {
//	    parent.Adopt(v.(vdom.Adoptable))
//	} else {
//	    parent.AppendText(fmt.Sprint(v))
//	}
package vdom
