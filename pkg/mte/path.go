package mte

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/vango-dev/mte/pkg/observable"
)

// Absent is the value unresolved properties resolve to.
const Absent = ""

// Self is the path naming the context itself.
const Self = "."

// Formatter transforms resolved data before it is rendered. It must be pure.
type Formatter func(any) any

// Getter is implemented by observable records.
type Getter interface {
	Get(property string) any
}

// Observable is implemented by contexts that notify per-property changes.
type Observable interface {
	Getter
	ListenChange(property string, h observable.ChangeHandler, triggerImmediately bool) (*observable.Subscription, error)
	IgnoreChange(property string, sub *observable.Subscription)
}

// Path selects data from a context: nothing, Self, one name, or an
// ordered list of names.
type Path struct {
	names []string
	multi bool
}

// Prop returns a single-name path. "" is the empty path.
func Prop(name string) Path {
	if name == "" {
		return Path{}
	}
	return Path{names: []string{name}}
}

// Props returns a multi-property path.
func Props(names ...string) Path {
	return Path{names: append([]string(nil), names...), multi: true}
}

// ParsePath splits a comma separated list into a multi-property path; a
// single name yields a single-name path.
func ParsePath(s string) Path {
	if !strings.Contains(s, ",") {
		return Prop(strings.TrimSpace(s))
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return Props(parts...)
}

// Empty reports whether no path was given.
func (p Path) Empty() bool { return !p.multi && len(p.names) == 0 }

// IsSelf reports whether the path resolves to the context itself.
func (p Path) IsSelf() bool {
	return p.Empty() || (!p.multi && p.names[0] == Self)
}

// Multi reports whether the path is an ordered list of names.
func (p Path) Multi() bool { return p.multi }

// Name returns the single name, or "" for multi and empty paths.
func (p Path) Name() string {
	if p.multi || len(p.names) == 0 {
		return ""
	}
	return p.names[0]
}

// Watched returns the property names whose changes affect the path.
func (p Path) Watched() []string {
	if p.IsSelf() {
		return nil
	}
	return p.names
}

func (p Path) String() string {
	return strings.Join(p.names, ",")
}

// resolve implements the lenient property resolution rule.
func (p Path) resolve(ctx any) any {
	if !Present(ctx) {
		return Absent
	}
	if p.IsSelf() {
		return ctx
	}
	if p.multi {
		values := make([]any, len(p.names))
		for i, name := range p.names {
			values[i] = read(ctx, name)
		}
		return values
	}
	return Lookup(ctx, p.names[0])
}

// Lookup reads name from ctx: through Get when ctx is a Getter and the
// result is present, else through direct access under the same rule, else
// Absent.
func Lookup(ctx any, name string) any {
	if g, ok := ctx.(Getter); ok {
		if v := g.Get(name); Present(v) {
			return v
		}
	}
	if v, ok := field(ctx, name); ok && Present(v) {
		return v
	}
	return Absent
}

// Present reports whether v counts as a value: non-nil and truthy, or a
// numeric zero. false, "", NaN and nil pointers, maps and slices do not.
func Present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return true
	case float64:
		return !math.IsNaN(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Float32, reflect.Float64:
		return !math.IsNaN(rv.Float())
	default:
		return true
	}
}

// Truthy reports whether v is Present and not a numeric zero. Display
// toggles use it, so 0 hides an element even though it binds as "0".
func Truthy(v any) bool {
	if !Present(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	}
	return true
}

// Indexable reports whether ctx supports property reads.
func Indexable(ctx any) bool {
	switch ctx.(type) {
	case nil:
		return false
	case Getter, *observable.Map, *observable.Sequence:
		return true
	}
	rv := reflect.Indirect(reflect.ValueOf(ctx))
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	default:
		return false
	}
}

// read returns name's raw value with no absent fallback: false stays
// false and a missing name is nil. Multi-property paths read this way.
func read(ctx any, name string) any {
	if g, ok := ctx.(Getter); ok {
		return g.Get(name)
	}
	v, _ := field(ctx, name)
	return v
}

// field reads name by direct access.
func field(ctx any, name string) (any, bool) {
	switch c := ctx.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := c[name]
		return v, ok
	case *observable.Map:
		return c.Get(name)
	case *observable.Sequence:
		i, err := strconv.Atoi(name)
		if err != nil {
			return nil, false
		}
		return c.At(i)
	case *observable.Object:
		return c.Stored(name), c.Has(name)
	}

	rv := reflect.ValueOf(ctx)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		fields := structFields(rv.Interface())
		v, ok := fields[name]
		return v, ok
	default:
		return nil, false
	}
}

// structFields decodes a struct into its field map, honoring mapstructure
// tags.
func structFields(v any) map[string]any {
	out := make(map[string]any)
	if err := mapstructure.Decode(v, &out); err != nil {
		return nil
	}
	return out
}

// entries returns key/value pairs of a plain structured value in a stable
// order: sorted keys for maps and structs, index order for slices.
func entries(src any) ([]string, []any, bool) {
	rv := reflect.ValueOf(src)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		keys := make([]string, rv.Len())
		values := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			keys[i] = strconv.Itoa(i)
			values[i] = rv.Index(i).Interface()
		}
		return keys, values, true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, nil, false
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return sortedEntries(m)
	case reflect.Struct:
		return sortedEntries(structFields(rv.Interface()))
	default:
		return nil, nil, false
	}
}

func sortedEntries(m map[string]any) ([]string, []any, bool) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = m[k]
	}
	return keys, values, true
}

// Stringify converts a formatted value to text.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
