package vdom

import "sync"

// Tree is the in-memory Document. Nodes created by a Tree report their
// mutations to the Tree's observers.
type Tree struct {
	mu        sync.Mutex
	observers map[uint64]func(Patch)
	nextObs   uint64
	created   int
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{observers: make(map[uint64]func(Patch))}
}

// CreateElement implements Document.
func (t *Tree) CreateElement(tag string) Node {
	return t.Element(tag)
}

// NewTextNode implements Document.
func (t *Tree) NewTextNode(text string) Node {
	return t.text(text)
}

// Element creates a concrete element node.
func (t *Tree) Element(tag string) *VNode {
	t.count()
	return &VNode{Kind: KindElement, Tag: tag, tree: t}
}

func (t *Tree) text(s string) *VNode {
	t.count()
	return &VNode{Kind: KindText, Text: s, tree: t}
}

func (t *Tree) count() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.created++
	t.mu.Unlock()
}

// Created returns how many nodes the tree has constructed.
func (t *Tree) Created() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.created
}

// Observe registers fn for every patch. The returned function removes it.
func (t *Tree) Observe(fn func(Patch)) (cancel func()) {
	t.mu.Lock()
	t.nextObs++
	id := t.nextObs
	t.observers[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.observers, id)
		t.mu.Unlock()
	}
}

func (t *Tree) emit(p Patch) {
	t.mu.Lock()
	if len(t.observers) == 0 {
		t.mu.Unlock()
		return
	}
	fns := make([]func(Patch), 0, len(t.observers))
	for _, fn := range t.observers {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}
