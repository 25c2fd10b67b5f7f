package mte

import (
	"testing"

	"github.com/vango-dev/mte/pkg/observable"
	"github.com/vango-dev/mte/pkg/vdom"
)

func item() *Template {
	return Tag("li", Bind(Self, nil))
}

func TestListSequenceRemovePreservesIdentity(t *testing.T) {
	tree := vdom.NewTree()
	seq := observable.NewSequence("A", "B", "C")
	ctx := observable.FromMap(map[string]any{"items": seq})

	v := mustRender(t, New(WithDocument(tree)), Tag("ul", List("items", item(), "")), ctx)
	if got := html(v); got != "<ul><li>A</li><li>B</li><li>C</li></ul>" {
		t.Fatalf("initial = %q", got)
	}
	before := childNodes(v)

	rec := vdom.Record(tree)
	defer rec.Stop()
	if err := seq.Remove("B"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	after := childNodes(v)
	if len(after) != 2 {
		t.Fatalf("children = %d, want 2", len(after))
	}
	if after[0] != before[0] || after[1] != before[2] {
		t.Error("surviving item nodes were re-created")
	}
	if !before[1].Destroyed() {
		t.Error("removed item node not destroyed")
	}
	if got := rec.Count(vdom.PatchInsertNode); got != 0 {
		t.Errorf("insert patches = %d, want 0", got)
	}
	if got := rec.Count(vdom.PatchRemoveNode); got != 1 {
		t.Errorf("remove patches = %d, want 1", got)
	}
}

func TestListSequenceAdd(t *testing.T) {
	seq := observable.NewSequence()
	ctx := observable.FromMap(map[string]any{"items": seq})
	v := mustRender(t, New(), Tag("ul", List("items", item(), "")), ctx)

	_ = seq.Add("x")
	_ = seq.Add("y")
	_ = seq.Add("x")
	if got := html(v); got != "<ul><li>x</li><li>y</li><li>x</li></ul>" {
		t.Errorf("after adds = %q", got)
	}

	_ = seq.Remove("x")
	if got := html(v); got != "<ul><li>y</li></ul>" {
		t.Errorf("after remove = %q", got)
	}
}

func TestListSortedInsertion(t *testing.T) {
	seq := observable.NewSequence()
	ctx := observable.FromMap(map[string]any{"items": seq})
	tpl := Tag("ul", List("items", Tag("li", Bind("n", nil)), "n"))
	v := mustRender(t, New(), tpl, ctx)

	for _, n := range []int{3, 1, 2} {
		if err := seq.Add(observable.FromMap(map[string]any{"n": n})); err != nil {
			t.Fatalf("Add(%d) error = %v", n, err)
		}
	}
	if got := html(v); got != "<ul><li>1</li><li>2</li><li>3</li></ul>" {
		t.Errorf("sorted = %q", got)
	}

	// Removal follows source order, not output order.
	first, _ := seq.At(0)
	_ = seq.Remove(first)
	if got := html(v); got != "<ul><li>1</li><li>2</li></ul>" {
		t.Errorf("after removing 3 = %q", got)
	}
}

func TestListSortedStrings(t *testing.T) {
	m := observable.NewMap()
	ctx := observable.FromMap(map[string]any{"people": m})
	tpl := Tag("ul", List("people", Tag("li", Bind("name", nil)), "name"))
	v := mustRender(t, New(), tpl, ctx)

	for _, name := range []string{"cy", "al", "bo"} {
		_ = m.Set(name, map[string]any{"name": name})
	}
	if got := html(v); got != "<ul><li>al</li><li>bo</li><li>cy</li></ul>" {
		t.Errorf("sorted = %q", got)
	}

	_ = m.Set("al", map[string]any{"name": "zz"})
	if got := html(v); got != "<ul><li>bo</li><li>cy</li><li>zz</li></ul>" {
		t.Errorf("after re-sort = %q", got)
	}
}

func TestListMapSource(t *testing.T) {
	m := observable.NewMap()
	_ = m.Set("a", "1")
	ctx := observable.FromMap(map[string]any{"m": m})
	v := mustRender(t, New(), Tag("ul", List("m", item(), "")), ctx)

	steps := []struct {
		name string
		do   func() error
		want string
	}{
		{"set", func() error { return m.Set("b", "2") }, "<ul><li>1</li><li>2</li></ul>"},
		{"change in place", func() error { return m.Set("a", "9") }, "<ul><li>9</li><li>2</li></ul>"},
		{"clear", func() error { return m.Clear("a") }, "<ul><li>2</li></ul>"},
		{"clear missing", func() error { return m.Clear("nope") }, "<ul><li>2</li></ul>"},
	}
	for _, step := range steps {
		if err := step.do(); err != nil {
			t.Fatalf("%s: error = %v", step.name, err)
		}
		if got := html(v); got != step.want {
			t.Errorf("%s: html = %q, want %q", step.name, got, step.want)
		}
	}
}

func TestListObjectSource(t *testing.T) {
	obj := observable.FromMap(map[string]any{"x": "1"})
	ctx := observable.FromMap(map[string]any{"o": obj})
	v := mustRender(t, New(), Tag("ul", List("o", item(), "")), ctx)

	_ = obj.Set("y", "2")
	if got := html(v); got != "<ul><li>1</li><li>2</li></ul>" {
		t.Errorf("after set = %q", got)
	}
	_ = obj.Set("x", "")
	if got := html(v); got != "<ul><li>2</li></ul>" {
		t.Errorf("after falsy = %q", got)
	}
	_ = obj.Set("x", "3")
	if got := html(v); got != "<ul><li>2</li><li>3</li></ul>" {
		t.Errorf("after re-set = %q", got)
	}
}

func TestListPlainValues(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"slice", map[string]any{"items": []string{"a", "b"}}, "<ul><li>a</li><li>b</li></ul>"},
		{"map in key order", map[string]any{"items": map[string]int{"b": 2, "a": 1}}, "<ul><li>1</li><li>2</li></ul>"},
		{"struct fields", map[string]any{"items": struct{ A, B string }{"x", "y"}}, "<ul><li>x</li><li>y</li></ul>"},
		{"not a collection", map[string]any{"items": 7}, "<ul></ul>"},
		{"absent", map[string]any{}, "<ul></ul>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustRender(t, New(), Tag("ul", List("items", item(), "")), tt.data)
			if got := html(v); got != tt.want {
				t.Errorf("html = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListFullReset(t *testing.T) {
	first := observable.NewSequence("a1", "a2")
	second := observable.NewSequence("b1")
	ctx := observable.FromMap(map[string]any{"items": first})

	tpl := Tag("ul", Tag("li", "head"), List("items", item(), ""))
	v := mustRender(t, New(), tpl, ctx)
	if got := html(v); got != "<ul><li>head</li><li>a1</li><li>a2</li></ul>" {
		t.Fatalf("initial = %q", got)
	}

	_ = ctx.Set("items", second)
	if got := html(v); got != "<ul><li>head</li><li>b1</li></ul>" {
		t.Errorf("after reset = %q", got)
	}
	if got := first.HandlerCount(); got != 0 {
		t.Errorf("old source handlers = %d, want 0", got)
	}
	if got := second.HandlerCount(); got != 1 {
		t.Errorf("new source handlers = %d, want 1", got)
	}

	_ = first.Add("a3")
	if got := html(v); got != "<ul><li>head</li><li>b1</li></ul>" {
		t.Errorf("old source still drives output: %q", got)
	}
}

func TestListKeepsPositionBeforeTrailingSiblings(t *testing.T) {
	seq := observable.NewSequence("a")
	ctx := observable.FromMap(map[string]any{"items": seq})

	tpl := Tag("ul", List("items", item(), ""), Tag("li", "tail"))
	v := mustRender(t, New(), tpl, ctx)
	if got := html(v); got != "<ul><li>a</li><li>tail</li></ul>" {
		t.Fatalf("initial = %q", got)
	}

	steps := []struct {
		name   string
		mutate func() error
		want   string
	}{
		{"add", func() error { return seq.Add("b") }, "<ul><li>a</li><li>b</li><li>tail</li></ul>"},
		{"reset", func() error { return ctx.Set("items", observable.NewSequence("c")) }, "<ul><li>c</li><li>tail</li></ul>"},
		{"reset to empty", func() error { return ctx.Set("items", observable.NewSequence()) }, "<ul><li>tail</li></ul>"},
		{"reset from empty", func() error { return ctx.Set("items", observable.NewSequence("d", "e")) }, "<ul><li>d</li><li>e</li><li>tail</li></ul>"},
		{"not a collection", func() error { return ctx.Set("items", 7) }, "<ul><li>tail</li></ul>"},
		{"back to a collection", func() error { return ctx.Set("items", []string{"f"}) }, "<ul><li>f</li><li>tail</li></ul>"},
	}
	for _, step := range steps {
		if err := step.mutate(); err != nil {
			t.Fatalf("%s: error = %v", step.name, err)
		}
		if got := html(v); got != step.want {
			t.Errorf("after %s = %q, want %q", step.name, got, step.want)
		}
	}
}

func TestListSortedKeepsPositionBeforeTrailingSiblings(t *testing.T) {
	seq := observable.NewSequence()
	ctx := observable.FromMap(map[string]any{"items": seq})
	tpl := Tag("ul", List("items", Tag("li", Bind("n", nil)), "n"), Tag("li", "tail"))
	v := mustRender(t, New(), tpl, ctx)

	for _, n := range []int{3, 1, 2} {
		_ = seq.Add(observable.FromMap(map[string]any{"n": n}))
	}
	if got := html(v); got != "<ul><li>1</li><li>2</li><li>3</li><li>tail</li></ul>" {
		t.Errorf("html = %q", got)
	}
}

func TestListPlaceholder(t *testing.T) {
	ctx := observable.FromMap(map[string]any{})
	v := mustRender(t, New(), Tag("ul", List("items", item(), "")), ctx)

	if got := len(childNodes(v)); got != 1 {
		t.Fatalf("children = %d, want placeholder only", got)
	}

	_ = ctx.Set("items", observable.NewSequence("x"))
	if got := html(v); got != "<ul><li>x</li></ul>" {
		t.Errorf("html = %q", got)
	}
	if got := len(childNodes(v)); got != 1 {
		t.Errorf("children = %d, want 1", got)
	}

	_ = ctx.Set("items", "")
	if got := len(childNodes(v)); got != 1 || html(v) != "<ul></ul>" {
		t.Errorf("after clearing source: children = %d, html = %q", got, html(v))
	}
}

func TestListItemBindingsStayLive(t *testing.T) {
	row := observable.FromMap(map[string]any{"name": "a"})
	seq := observable.NewSequence(row)
	ctx := observable.FromMap(map[string]any{"rows": seq})
	v := mustRender(t, New(), Tag("ul", List("rows", Tag("li", Bind("name", nil)), "")), ctx)

	_ = row.Set("name", "b")
	if got := html(v); got != "<ul><li>b</li></ul>" {
		t.Errorf("html = %q", got)
	}

	_ = seq.Remove(row)
	if got := row.HandlerCount("name"); got != 0 {
		t.Errorf("removed row handlers = %d, want 0", got)
	}
}

func TestListDisposeReleasesEverything(t *testing.T) {
	row := observable.FromMap(map[string]any{"name": "a"})
	seq := observable.NewSequence(row)
	ctx := observable.FromMap(map[string]any{"rows": seq})
	v := mustRender(t, New(), Tag("ul", List("rows", Tag("li", Bind("name", nil)), "")), ctx)

	v.Dispose()

	if got := seq.HandlerCount(); got != 0 {
		t.Errorf("sequence handlers = %d, want 0", got)
	}
	if got := ctx.HandlerCount("rows"); got != 0 {
		t.Errorf("rows handlers = %d, want 0", got)
	}
	if got := row.HandlerCount("name"); got != 0 {
		t.Errorf("row handlers = %d, want 0", got)
	}
	if err := seq.Add(observable.FromMap(map[string]any{"name": "b"})); err != nil {
		t.Errorf("Add() after Dispose error = %v", err)
	}
}

func TestListStrictItemError(t *testing.T) {
	seq := observable.NewSequence()
	ctx := observable.FromMap(map[string]any{"rows": seq})
	tpl := Tag("ul", List("rows", Tag("li", Bind("name", nil)), ""))
	v := mustRender(t, New(WithStrict(true)), tpl, ctx)

	err := seq.Add(observable.FromMap(map[string]any{"other": 1}))
	if !IsBindingConfiguration(err) {
		t.Fatalf("Add() error = %v, want BindingConfigurationError", err)
	}
	if got := html(v); got != "<ul></ul>" {
		t.Errorf("html = %q, want <ul></ul>", got)
	}
}

func TestListFailedItemKeepsSiblings(t *testing.T) {
	seq := observable.NewSequence()
	ctx := observable.FromMap(map[string]any{"rows": seq})
	tpl := Tag("ul", List("rows", Tag("li", Bind("name", nil)), ""))
	v := mustRender(t, New(WithStrict(true)), tpl, ctx)

	bad := observable.FromMap(map[string]any{"other": 1})
	good := observable.FromMap(map[string]any{"name": "good"})

	if err := seq.Add(bad); !IsBindingConfiguration(err) {
		t.Fatalf("Add(bad) error = %v, want BindingConfigurationError", err)
	}
	if err := seq.Add(good); err != nil {
		t.Fatalf("Add(good) error = %v", err)
	}
	if got := html(v); got != "<ul><li>good</li></ul>" {
		t.Fatalf("after adds = %q", got)
	}
	before := childNodes(v)

	if err := seq.Remove(bad); err != nil {
		t.Fatalf("Remove(bad) error = %v", err)
	}
	if got := html(v); got != "<ul><li>good</li></ul>" {
		t.Errorf("after Remove(bad) = %q, want <ul><li>good</li></ul>", got)
	}
	if after := childNodes(v); len(after) != 1 || after[0] != before[0] {
		t.Error("healthy item node was replaced or destroyed")
	}

	if err := seq.Remove(good); err != nil {
		t.Fatalf("Remove(good) error = %v", err)
	}
	if got := html(v); got != "<ul></ul>" {
		t.Errorf("after Remove(good) = %q", got)
	}
	if got := good.HandlerCount("name"); got != 0 {
		t.Errorf("removed row handlers = %d, want 0", got)
	}
}
