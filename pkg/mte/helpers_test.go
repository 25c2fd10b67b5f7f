package mte

import (
	"context"
	"testing"
	"time"

	"github.com/vango-dev/mte/pkg/render"
	"github.com/vango-dev/mte/pkg/vdom"
)

func mustRender(t *testing.T, e *Engine, tpl ElementCreator, data any) *View {
	t.Helper()
	v, err := e.Render(context.Background(), tpl, data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return v
}

func html(v *View) string {
	return render.HTML(v.Node().(*vdom.VNode))
}

func childNodes(v *View) []*vdom.VNode {
	return v.Node().(*vdom.VNode).ChildNodes()
}

type recordingHooks struct {
	renders []string
	patched map[string]int
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{patched: make(map[string]int)}
}

func (h *recordingHooks) RenderDone(template string, _ time.Duration, _ error) {
	h.renders = append(h.renders, template)
}

func (h *recordingHooks) Patched(kind string) {
	h.patched[kind]++
}
