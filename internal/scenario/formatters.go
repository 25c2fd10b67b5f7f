package scenario

import (
	"reflect"
	"strings"

	"github.com/vango-dev/mte/pkg/mte"
	"github.com/vango-dev/mte/pkg/observable"
)

// formatters are the formatters scenario files can name.
var formatters = map[string]mte.Formatter{
	"upper": func(v any) any { return strings.ToUpper(mte.Stringify(v)) },
	"lower": func(v any) any { return strings.ToLower(mte.Stringify(v)) },
	"trim":  func(v any) any { return strings.TrimSpace(mte.Stringify(v)) },
	"not":   func(v any) any { return !mte.Present(v) },
	"len":   length,
	"join":  join,
}

func formatterNames() string {
	return strings.Join(sortedNames(formatters), ", ")
}

// length counts items of a collection or characters of a string.
func length(v any) any {
	switch c := v.(type) {
	case observable.Collection:
		return c.Len()
	case string:
		return len(c)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len()
	default:
		return 0
	}
}

// join joins the values of a multi-property binding with spaces.
func join(v any) any {
	values, ok := v.([]any)
	if !ok {
		return mte.Stringify(v)
	}
	parts := make([]string, 0, len(values))
	for _, x := range values {
		if s := mte.Stringify(x); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
