package mte

// ContextExpr derives an element's context from its parent's.
type ContextExpr struct {
	expression
}

// Context selects property of the parent context as the element context.
// An empty property is the identity.
func Context(property string) *ContextExpr {
	return &ContextExpr{expression: expression{path: Prop(property)}}
}

// Identity passes the parent context through unchanged. It still relays
// context-changed signals so deeper expressions see wholesale
// replacements.
func Identity() *ContextExpr {
	return &ContextExpr{}
}

// Apply sets element's context from parent and keeps it in sync. Each
// recompute fires exactly one context-changed signal on element.
func (c *ContextExpr) Apply(element, parent *Scope) error {
	ctx, err := c.resolve(parent)
	if err != nil {
		return err
	}
	element.context = ctx

	c.watch(parent, element, func() error {
		ctx, err := c.resolve(parent)
		if err != nil {
			return err
		}
		element.engine.hooks.Patched(PatchContext)
		return element.setContext(ctx)
	})
	return nil
}

func (c *ContextExpr) resolve(parent *Scope) (any, error) {
	ctx := parent.Context()
	if c.path.Empty() {
		return ctx, nil
	}
	if c.path.IsSelf() {
		return c.path.resolve(ctx), nil
	}
	if !parent.engine.strict {
		return c.path.resolve(ctx), nil
	}
	if !Indexable(ctx) {
		return nil, &ContextResolutionError{
			Property: c.path.String(),
			Reason:   "context must be an indexable type",
		}
	}
	v := c.path.resolve(ctx)
	if !Present(v) {
		return nil, &ContextResolutionError{
			Property: c.path.String(),
			Reason:   "no property of that name",
		}
	}
	return v, nil
}
