// Package mte is a fine-grained reactive template engine.
//
// A Template describes an output element: its tag, a context expression
// selecting the data it renders, attribute values and children. Rendering
// a Template against a data context produces a live vdom tree plus a tree
// of Scopes holding the subscriptions that keep the output in sync. When
// an observable in the context changes, only the expressions bound to it
// recompute, and each patches only its own piece of output.
//
// # Building templates
//
//	todo := mte.Tag("li", mte.Bind("title", nil))
//	page := mte.Tag("div",
//	    mte.Attrs{"class": "app", "title": mte.Bind("name", nil)},
//	    mte.Tag("h1", mte.Bind("name", upper)),
//	    mte.Tag("ul", mte.List("todos", todo, "")),
//	)
//
//	eng := mte.New()
//	view, err := eng.Render(ctx, page, data)
//
// # Expressions
//
//   - Bind / BindAll: a text child or attribute value from one or more
//     properties, passed through an optional Formatter.
//   - Display: toggles the display style from a property's truthiness.
//   - Style: a single style property from a property value.
//   - Context: narrows the context for an element and its subtree.
//   - List: one child per item of a collection property, reconciled
//     incrementally on collection events.
//
// # Property resolution
//
// A single property name reads through observable Get first, then through
// direct access (maps, slices, structs). A value counts as present when it
// is non-nil and truthy, or a numeric zero; anything else resolves to the
// absent value "". Binding to false therefore renders "".
//
// # Errors
//
// The default policy is lenient: unresolved properties render "". With
// WithStrict(true) misconfigured bindings fail with
// *BindingConfigurationError and unresolvable contexts with
// *ContextResolutionError, from Render or from the mutating call whose
// notification triggered the recompute.
package mte
