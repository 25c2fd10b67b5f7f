package vdom

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetAttr     PatchOp = 0x02 // Set/update attribute
	PatchInsertNode  PatchOp = 0x04 // Insert new node
	PatchRemoveNode  PatchOp = 0x05 // Remove node
	PatchReplaceNode PatchOp = 0x07 // Replace node entirely
	PatchSetStyle    PatchOp = 0x0C // Set/update style property
	PatchRemoveStyle PatchOp = 0x0D // Remove style property
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetAttr:
		return "SetAttr"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchReplaceNode:
		return "ReplaceNode"
	case PatchSetStyle:
		return "SetStyle"
	case PatchRemoveStyle:
		return "RemoveStyle"
	default:
		return "Unknown"
	}
}

// Patch records a single mutation of a Tree.
type Patch struct {
	Op     PatchOp // Operation type
	Target *VNode  // Node that was mutated (the parent for node ops)
	Key    string  // Attribute or style name
	Value  string  // New attribute or style value
	Node   *VNode  // Inserted, removed or replacing node
	Index  int     // Child position for node ops
}

// Recorder collects patches from a Tree.
type Recorder struct {
	Patches []Patch
	cancel  func()
}

// Record starts collecting patches from t.
func Record(t *Tree) *Recorder {
	r := &Recorder{}
	r.cancel = t.Observe(func(p Patch) {
		r.Patches = append(r.Patches, p)
	})
	return r
}

// Count returns how many recorded patches have op.
func (r *Recorder) Count(op PatchOp) int {
	n := 0
	for _, p := range r.Patches {
		if p.Op == op {
			n++
		}
	}
	return n
}

// Reset drops recorded patches.
func (r *Recorder) Reset() {
	r.Patches = nil
}

// Stop detaches the recorder from its tree.
func (r *Recorder) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}
