package mte

// DisplayExpr shows or hides its element from a property's truthiness.
type DisplayExpr struct {
	expression
	format Formatter
}

// Display creates a display toggle. The element is hidden with
// display:none while the formatted value is not Truthy.
func Display(property string, format Formatter) *DisplayExpr {
	return &DisplayExpr{expression: expression{path: Prop(property)}, format: format}
}

// Apply implements Expression.
func (d *DisplayExpr) Apply(scope *Scope) error {
	update := func() error {
		// Falsy values are the point of a display toggle, so strict mode
		// only checks the binding shape here.
		data, err := resolveBinding(scope, d.path, "Display", false)
		if err != nil {
			return err
		}
		value := ""
		if !Truthy(applyFormat(d.format, data)) {
			value = "none"
		}
		scope.Node().SetStyle("display", value)
		return nil
	}
	if err := update(); err != nil {
		return err
	}
	d.watch(scope, scope, func() error {
		if err := update(); err != nil {
			return err
		}
		scope.engine.hooks.Patched(PatchStyle)
		return nil
	})
	return nil
}

// StyleExpr binds one style property of its element.
type StyleExpr struct {
	expression
	style  string
	format Formatter
}

// Style creates a style binding setting style to the formatted property
// value. An absent value removes the style.
func Style(property, style string, format Formatter) *StyleExpr {
	return &StyleExpr{expression: expression{path: Prop(property)}, style: style, format: format}
}

// Apply implements Expression.
func (s *StyleExpr) Apply(scope *Scope) error {
	update := func() error {
		data, err := resolveBinding(scope, s.path, "Style", true)
		if err != nil {
			return err
		}
		scope.Node().SetStyle(s.style, Stringify(applyFormat(s.format, data)))
		return nil
	}
	if err := update(); err != nil {
		return err
	}
	s.watch(scope, scope, func() error {
		if err := update(); err != nil {
			return err
		}
		scope.engine.hooks.Patched(PatchStyle)
		return nil
	})
	return nil
}
