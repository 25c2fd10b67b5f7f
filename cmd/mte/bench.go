package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vango-dev/mte/internal/errors"
	"github.com/vango-dev/mte/pkg/mte"
	"github.com/vango-dev/mte/pkg/observable"
	"github.com/vango-dev/mte/pkg/vdom"
)

func benchCmd(g *globals) *cobra.Command {
	var (
		iterations int
		items      int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time renders and incremental updates",
		Long: `Time the engine's hot paths: a full list render, a single binding
update, appending and removing a list item, and a sorted insert.

Examples:
  mte bench
  mte bench --iterations=5000 --items=1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if iterations <= 0 {
				iterations = g.cfg.Bench.Iterations
			}
			if items <= 0 {
				items = g.cfg.Bench.Items
			}
			if err := runBench(os.Stdout, iterations, items, g.cfg.Strict); err != nil {
				return errors.New("E302").Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "Timed runs per case (default from mte.json)")
	cmd.Flags().IntVar(&items, "items", 0, "Collection size for list cases (default from mte.json)")

	return cmd
}

// benchCase prepares a live view and returns the operation to time.
type benchCase struct {
	name string
	run  func(e *mte.Engine, items, iterations int, tach *tachymeter.Tachymeter) error
}

var benchCases = []benchCase{
	{"render list", benchRender},
	{"binding update", benchBinding},
	{"list add/remove", benchAddRemove},
	{"sorted insert", benchSortedInsert},
}

func runBench(w io.Writer, iterations, items int, strict bool) error {
	if iterations <= 0 || items <= 0 {
		return fmt.Errorf("iterations and items must be positive")
	}

	tbl := table.NewWriter()
	tbl.SetTitle(fmt.Sprintf("mte: %s iterations, %s items", humanize.Comma(int64(iterations)), humanize.Comma(int64(items))))
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "ops/s", "nodes"})

	for _, bc := range benchCases {
		tree := vdom.NewTree()
		e := mte.New(mte.WithDocument(tree), mte.WithStrict(strict))
		tach := tachymeter.New(&tachymeter.Config{Size: iterations})

		if err := bc.run(e, items, iterations, tach); err != nil {
			return fmt.Errorf("%s: %w", bc.name, err)
		}

		calc := tach.Calc()
		tbl.AppendRow(table.Row{
			bc.name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
			humanize.Comma(int64(calc.Rate.Second)),
			humanize.Comma(int64(tree.Created())),
		})
	}

	tbl.Render()
	return nil
}

func itemTemplate() *mte.Template {
	return mte.Tag("li", mte.Attrs{"data-rank": mte.Bind("rank", nil)}, mte.Bind("label", nil))
}

func newItem(i int) *observable.Object {
	return observable.FromMap(map[string]any{"label": fmt.Sprintf("item %d", i), "rank": i})
}

func newItems(n int) *observable.Sequence {
	seq := observable.NewSequence()
	for i := 0; i < n; i++ {
		_ = seq.Add(newItem(i))
	}
	return seq
}

func benchRender(e *mte.Engine, items, iterations int, tach *tachymeter.Tachymeter) error {
	tpl := mte.Tag("ul", mte.List("items", itemTemplate(), ""))
	data := observable.FromMap(map[string]any{"items": newItems(items)})

	for i := 0; i < iterations; i++ {
		start := time.Now()
		v, err := e.Render(context.Background(), tpl, data)
		if err != nil {
			return err
		}
		tach.AddTime(time.Since(start))
		v.Dispose()
	}
	return nil
}

func benchBinding(e *mte.Engine, items, iterations int, tach *tachymeter.Tachymeter) error {
	data := observable.FromMap(map[string]any{"count": 0})
	v, err := e.Render(context.Background(), mte.Tag("p", mte.Bind("count", nil)), data)
	if err != nil {
		return err
	}
	defer v.Dispose()

	for i := 1; i <= iterations; i++ {
		start := time.Now()
		if err := data.Set("count", i); err != nil {
			return err
		}
		tach.AddTime(time.Since(start))
	}
	return nil
}

func benchAddRemove(e *mte.Engine, items, iterations int, tach *tachymeter.Tachymeter) error {
	seq := newItems(items)
	data := observable.FromMap(map[string]any{"items": seq})
	v, err := e.Render(context.Background(), mte.Tag("ul", mte.List("items", itemTemplate(), "")), data)
	if err != nil {
		return err
	}
	defer v.Dispose()

	for i := 0; i < iterations; i++ {
		item := newItem(items + i)
		start := time.Now()
		if err := seq.Add(item); err != nil {
			return err
		}
		if err := seq.Remove(item); err != nil {
			return err
		}
		tach.AddTime(time.Since(start))
	}
	return nil
}

func benchSortedInsert(e *mte.Engine, items, iterations int, tach *tachymeter.Tachymeter) error {
	seq := newItems(items)
	data := observable.FromMap(map[string]any{"items": seq})
	v, err := e.Render(context.Background(), mte.Tag("ul", mte.List("items", itemTemplate(), "rank")), data)
	if err != nil {
		return err
	}
	defer v.Dispose()

	for i := 0; i < iterations; i++ {
		// Lands in the middle of the list.
		item := newItem(items / 2)
		start := time.Now()
		if err := seq.Add(item); err != nil {
			return err
		}
		tach.AddTime(time.Since(start))
		if err := seq.Remove(item); err != nil {
			return err
		}
	}
	return nil
}
