package mte

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/mte/pkg/observable"
	"github.com/vango-dev/mte/pkg/vdom"
)

func TestBindingRoundTrip(t *testing.T) {
	ctx := observable.FromMap(map[string]any{"name": "x"})
	v := mustRender(t, New(), Tag("span", Bind("name", nil)), ctx)

	if got := html(v); got != "<span>x</span>" {
		t.Errorf("initial = %q, want %q", got, "<span>x</span>")
	}
	if err := ctx.Set("name", "y"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := html(v); got != "<span>y</span>" {
		t.Errorf("after Set = %q, want %q", got, "<span>y</span>")
	}
}

func TestBindingReplacesExactlyOneNode(t *testing.T) {
	tree := vdom.NewTree()
	ctx := observable.FromMap(map[string]any{"name": "x"})
	v := mustRender(t, New(WithDocument(tree)), Tag("p", "Hi ", Bind("name", nil), "!"), ctx)

	before := childNodes(v)
	rec := vdom.Record(tree)
	defer rec.Stop()

	if err := ctx.Set("name", "y"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got := html(v); got != "<p>Hi y!</p>" {
		t.Errorf("html = %q, want %q", got, "<p>Hi y!</p>")
	}
	if got := rec.Count(vdom.PatchReplaceNode); got != 1 {
		t.Errorf("replace patches = %d, want 1", got)
	}
	if got := rec.Count(vdom.PatchInsertNode) + rec.Count(vdom.PatchRemoveNode); got != 0 {
		t.Errorf("insert/remove patches = %d, want 0", got)
	}

	after := childNodes(v)
	if len(after) != 3 {
		t.Fatalf("children = %d, want 3", len(after))
	}
	if after[0] != before[0] || after[2] != before[2] {
		t.Error("sibling text nodes were replaced")
	}
	if !before[1].Destroyed() {
		t.Error("old bound node was not destroyed")
	}
}

func TestBindingUnchangedValueDoesNotPatch(t *testing.T) {
	tree := vdom.NewTree()
	ctx := observable.FromMap(map[string]any{"name": "x"})
	mustRender(t, New(WithDocument(tree)), Tag("p", Bind("name", nil)), ctx)

	rec := vdom.Record(tree)
	defer rec.Stop()
	_ = ctx.Set("name", "x")
	_ = ctx.Set("other", 1)

	if got := len(rec.Patches); got != 0 {
		t.Errorf("patches = %d, want 0", got)
	}
}

func TestBindingFormatter(t *testing.T) {
	tree := vdom.NewTree()
	e := New(WithDocument(tree))

	tests := []struct {
		name   string
		format Formatter
		data   map[string]any
		want   string
	}{
		{
			name:   "numeric zero is a value",
			format: func(v any) any { return fmt.Sprintf("#%v", v) },
			data:   map[string]any{"v": 0},
			want:   "<p>#0</p>",
		},
		{
			name:   "false is absent",
			format: nil,
			data:   map[string]any{"v": false},
			want:   "<p></p>",
		},
		{
			name:   "adoptable result is used directly",
			format: func(v any) any { b := tree.Element("b"); b.AppendText(Stringify(v)); return b },
			data:   map[string]any{"v": "bold"},
			want:   "<p><b>bold</b></p>",
		},
		{
			name:   "upper",
			format: func(v any) any { return strings.ToUpper(Stringify(v)) },
			data:   map[string]any{"v": "abc"},
			want:   "<p>ABC</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustRender(t, e, Tag("p", Bind("v", tt.format)), observable.FromMap(tt.data))
			if got := html(v); got != tt.want {
				t.Errorf("html = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBindingAdoptableReplacement(t *testing.T) {
	tree := vdom.NewTree()
	bold := func(v any) any {
		b := tree.Element("b")
		b.AppendText(Stringify(v))
		return b
	}
	ctx := observable.FromMap(map[string]any{"name": "x"})
	v := mustRender(t, New(WithDocument(tree)), Tag("p", Bind("name", bold)), ctx)

	_ = ctx.Set("name", "y")
	if got := html(v); got != "<p><b>y</b></p>" {
		t.Errorf("html = %q, want %q", got, "<p><b>y</b></p>")
	}
}

func TestBindingReusedNodeStaysAttached(t *testing.T) {
	tree := vdom.NewTree()
	badge := tree.Element("b")
	cached := func(v any) any {
		badge.Empty()
		badge.AppendText(Stringify(v))
		return badge
	}
	ctx := observable.FromMap(map[string]any{"name": "x"})
	v := mustRender(t, New(WithDocument(tree)), Tag("p", Bind("name", cached), "!"), ctx)

	_ = ctx.Set("name", "y")
	if got := html(v); got != "<p><b>y</b>!</p>" {
		t.Errorf("html = %q, want %q", got, "<p><b>y</b>!</p>")
	}
	if badge.Destroyed() {
		t.Error("reused node was destroyed")
	}
}

func TestBindingReusedNodeAmongSeveral(t *testing.T) {
	tree := vdom.NewTree()
	icon := tree.Element("i")
	withIcon := func(v any) any {
		return vdom.Nodes{icon, tree.NewTextNode(Stringify(v))}
	}
	ctx := observable.FromMap(map[string]any{"name": "x"})
	v := mustRender(t, New(WithDocument(tree)), Tag("p", "<", Bind("name", withIcon), ">"), ctx)
	if got := html(v); got != "<p>&lt;<i></i>x&gt;</p>" {
		t.Fatalf("initial = %q", got)
	}

	_ = ctx.Set("name", "y")
	if got := html(v); got != "<p>&lt;<i></i>y&gt;</p>" {
		t.Errorf("html = %q", got)
	}
	if icon.Destroyed() {
		t.Error("reused node was destroyed")
	}
}

func TestMultiBinding(t *testing.T) {
	ctx := observable.FromMap(map[string]any{"first": "Ada", "last": "Lovelace"})
	full := func(v any) any {
		vs := v.([]any)
		return fmt.Sprintf("%v %v", vs[0], vs[1])
	}
	v := mustRender(t, New(), Tag("p", BindAll([]string{"first", "last"}, full)), ctx)

	if got := html(v); got != "<p>Ada Lovelace</p>" {
		t.Errorf("initial = %q", got)
	}
	_ = ctx.Set("last", "Byron")
	if got := html(v); got != "<p>Ada Byron</p>" {
		t.Errorf("after last = %q", got)
	}
	_ = ctx.Set("first", "Lord")
	if got := html(v); got != "<p>Lord Byron</p>" {
		t.Errorf("after first = %q", got)
	}
}

func TestMultiBindingPassesRawValues(t *testing.T) {
	ctx := observable.FromMap(map[string]any{"done": false, "count": 1})
	var got []any
	capture := func(v any) any {
		got = v.([]any)
		return ""
	}
	mustRender(t, New(), Tag("p", BindAll([]string{"done", "count", "missing"}, capture)), ctx)

	want := []any{false, 1, nil}
	if len(got) != len(want) {
		t.Fatalf("formatter input = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestBindingAttribute(t *testing.T) {
	ctx := observable.FromMap(map[string]any{"url": "/x"})
	tpl := Tag("a", Attrs{"href": Bind("url", nil), "class": "link"}, "go")
	v := mustRender(t, New(), tpl, ctx)

	if got, want := html(v), `<a class="link" href="/x">go</a>`; got != want {
		t.Errorf("initial = %q, want %q", got, want)
	}
	_ = ctx.Set("url", "/y")
	if got, want := html(v), `<a class="link" href="/y">go</a>`; got != want {
		t.Errorf("after Set = %q, want %q", got, want)
	}
}

func TestBindingPolicy(t *testing.T) {
	tests := []struct {
		name    string
		binding *Binding
		data    any
		lenient string
		reason  string // empty when strict succeeds
	}{
		{
			name:    "missing property",
			binding: Bind("missing", nil),
			data:    observable.FromMap(map[string]any{"a": "1"}),
			lenient: "<p></p>",
			reason:  "did not return any value",
		},
		{
			name:    "property on scalar",
			binding: Bind("x", nil),
			data:    "hello",
			lenient: "<p></p>",
			reason:  "may only be specified",
		},
		{
			name:    "no property on observable",
			binding: Bind("", nil),
			data:    observable.FromMap(map[string]any{"a": "1"}),
			reason:  "observable object",
		},
		{
			name:    "no property on plain map",
			binding: Bind("", nil),
			data:    map[string]any{"a": "1"},
			reason:  "object or an array",
		},
		{
			name:    "self on scalar",
			binding: Bind(Self, nil),
			data:    "hello",
			lenient: "<p>hello</p>",
		},
		{
			name:    "zero value",
			binding: Bind("n", nil),
			data:    map[string]any{"n": 0},
			lenient: "<p>0</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.lenient != "" {
				v := mustRender(t, New(), Tag("p", tt.binding), tt.data)
				if got := html(v); got != tt.lenient {
					t.Errorf("lenient html = %q, want %q", got, tt.lenient)
				}
			}

			_, err := New(WithStrict(true)).Render(context.Background(), Tag("p", tt.binding), tt.data)
			if tt.reason == "" {
				if err != nil {
					t.Errorf("strict Render() error = %v, want nil", err)
				}
				return
			}
			var bce *BindingConfigurationError
			if !errors.As(err, &bce) {
				t.Fatalf("strict Render() error = %v, want BindingConfigurationError", err)
			}
			if !strings.Contains(bce.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to contain %q", bce.Reason, tt.reason)
			}
			if bce.Code() != "E001" {
				t.Errorf("Code() = %q, want E001", bce.Code())
			}
		})
	}
}

func TestStrictMutationError(t *testing.T) {
	ctx := observable.FromMap(map[string]any{"name": "x"})
	v := mustRender(t, New(WithStrict(true)), Tag("p", Bind("name", nil)), ctx)

	err := ctx.Set("name", "")
	if !IsBindingConfiguration(err) {
		t.Fatalf("Set() error = %v, want BindingConfigurationError", err)
	}
	if got := html(v); got != "<p>x</p>" {
		t.Errorf("html after failed update = %q, want unchanged", got)
	}
}

func TestBindingHooks(t *testing.T) {
	hooks := newRecordingHooks()
	ctx := observable.FromMap(map[string]any{"name": "x"})
	mustRender(t, New(WithHooks(hooks)), Tag("p", Bind("name", nil)), ctx)
	_ = ctx.Set("name", "y")

	if len(hooks.renders) != 1 || hooks.renders[0] != "p" {
		t.Errorf("renders = %v, want [p]", hooks.renders)
	}
	if got := hooks.patched[PatchBinding]; got != 1 {
		t.Errorf("binding patches = %d, want 1", got)
	}
}
