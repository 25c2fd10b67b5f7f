package inspect

import (
	"sync"

	"github.com/vango-dev/mte/pkg/mte"
	"github.com/vango-dev/mte/pkg/render"
	"github.com/vango-dev/mte/pkg/vdom"
)

// Session is one rendered view shared by every inspector client.
type Session struct {
	mu      sync.Mutex
	name    string
	view    *mte.View
	root    *vdom.VNode
	pending []PatchMessage
	total   int
	cancel  func()
}

// Snapshot is the JSON body of GET /snapshot.
type Snapshot struct {
	Name    string `json:"name"`
	HTML    string `json:"html"`
	Patches int    `json:"patches"`
}

// NewSession watches tree for patches to view's output. view must have
// been rendered into tree.
func NewSession(name string, tree *vdom.Tree, view *mte.View) *Session {
	s := &Session{
		name: name,
		view: view,
		root: view.Node().(*vdom.VNode),
	}
	s.cancel = tree.Observe(s.observe)
	return s
}

// observe runs with s.mu held: patches only happen inside Apply.
func (s *Session) observe(p vdom.Patch) {
	if msg, ok := newPatchMessage(p, s.root); ok {
		s.pending = append(s.pending, msg)
		s.total++
	}
}

// Apply runs fn with exclusive access to the view's data and returns the
// patches it produced.
func (s *Session) Apply(fn func(view *mte.View) error) ([]PatchMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = nil
	err := fn(s.view)
	patches := s.pending
	s.pending = nil
	return patches, err
}

// Snapshot returns the current output.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Name:    s.name,
		HTML:    render.HTML(s.root),
		Patches: s.total,
	}
}

// Close stops observing and disposes the view.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
	s.view.Dispose()
}
