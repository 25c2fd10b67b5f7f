package mte

import "time"

// Patch kinds reported to Hooks.Patched.
const (
	PatchBinding   = "binding"
	PatchAttribute = "attribute"
	PatchStyle     = "style"
	PatchContext   = "context"
	PatchListReset = "list_reset"
	PatchListItem  = "list_item"
)

// Hooks observes engine activity. Implementations must be cheap; they run
// inline with renders and change dispatch.
type Hooks interface {
	// RenderDone is called once per Engine.Render.
	RenderDone(template string, d time.Duration, err error)

	// Patched is called after an expression updated the output in
	// response to a change.
	Patched(kind string)
}

// NopHooks ignores everything.
type NopHooks struct{}

func (NopHooks) RenderDone(string, time.Duration, error) {}
func (NopHooks) Patched(string)                          {}

// MultiHooks fans out to every hook in order.
type MultiHooks []Hooks

func (m MultiHooks) RenderDone(template string, d time.Duration, err error) {
	for _, h := range m {
		h.RenderDone(template, d, err)
	}
}

func (m MultiHooks) Patched(kind string) {
	for _, h := range m {
		h.Patched(kind)
	}
}
