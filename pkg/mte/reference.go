package mte

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds named templates for TemplateRef lookups.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Register stores t under name, replacing any previous template.
func (r *Registry) Register(name string, t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[name] = t
}

// Lookup returns the template registered under name.
func (r *Registry) Lookup(name string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[name]
	return t, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplateRef names a registered template. It is resolved against the
// engine's registry each time it renders, so templates may refer to each
// other recursively.
type TemplateRef struct {
	name string
}

// Ref creates a reference to the template registered under name.
func Ref(name string) *TemplateRef {
	return &TemplateRef{name: name}
}

// Name returns the referenced name.
func (r *TemplateRef) Name() string { return r.name }

// CreateElement implements ElementCreator.
func (r *TemplateRef) CreateElement(parent *Scope) (*Scope, error) {
	t, ok := parent.engine.registry.Lookup(r.name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, r.name)
	}
	return t.CreateElement(parent)
}
