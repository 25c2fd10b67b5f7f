// Package render serializes vdom output trees to HTML.
//
// MTE keeps its output as a live vdom.Tree; this package produces the HTML
// text of a tree at a point in time. The CLI prints it after every scenario
// step and the inspector serves it as the page snapshot.
//
//	r := render.NewRenderer(render.RendererConfig{Pretty: true})
//	html, err := r.RenderToString(view.Node().(*vdom.VNode))
//
// Attributes and style properties are written in sorted order so output is
// deterministic. Text and attribute values are escaped.
package render
