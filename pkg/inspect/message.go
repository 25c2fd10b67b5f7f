package inspect

import (
	"github.com/vango-dev/mte/pkg/render"
	"github.com/vango-dev/mte/pkg/vdom"
)

// MessageType identifies websocket messages.
type MessageType string

const (
	MessageSnapshot MessageType = "snapshot"
	MessagePatch    MessageType = "patch"
	MessageError    MessageType = "error"
)

// Message is sent to inspector clients.
type Message struct {
	Type    MessageType    `json:"type"`
	HTML    string         `json:"html,omitempty"`
	Patches []PatchMessage `json:"patches,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// PatchMessage describes one output mutation. Target is the child index
// path from the view root.
type PatchMessage struct {
	Op     string `json:"op"`
	Target []int  `json:"target"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
	Index  int    `json:"index"`
	Node   string `json:"node,omitempty"`
}

// newPatchMessage converts p. Patches on nodes outside root's tree, such
// as list items still being built, are skipped.
func newPatchMessage(p vdom.Patch, root *vdom.VNode) (PatchMessage, bool) {
	if p.Target == nil || p.Target.Root() != root {
		return PatchMessage{}, false
	}
	msg := PatchMessage{
		Op:     p.Op.String(),
		Target: p.Target.Path(),
		Key:    p.Key,
		Value:  p.Value,
		Index:  p.Index,
	}
	if p.Node != nil && p.Op != vdom.PatchRemoveNode {
		msg.Node = render.HTML(p.Node)
	}
	return msg, true
}
