package render

// voidElements cannot have children and have no closing tag.
var voidElements = setOf(
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
)

// inlineElements don't get newlines in pretty-printed output.
var inlineElements = setOf(
	"a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "data", "dfn",
	"em", "i", "kbd", "mark", "q", "s", "samp", "small", "span", "strong",
	"sub", "sup", "time", "u", "var", "wbr",
)

// booleanAttrs are rendered as a bare name when set to "true" and omitted
// when "false" or empty.
var booleanAttrs = setOf(
	"async", "autofocus", "checked", "defer", "disabled", "hidden",
	"multiple", "open", "readonly", "required", "selected",
)

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func isVoidElement(tag string) bool   { return voidElements[tag] }
func isInlineElement(tag string) bool { return inlineElements[tag] }
func isBooleanAttr(name string) bool  { return booleanAttrs[name] }
