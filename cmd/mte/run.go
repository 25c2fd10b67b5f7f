package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vango-dev/mte/internal/errors"
	"github.com/vango-dev/mte/internal/scenario"
	"github.com/vango-dev/mte/pkg/mte"
	"github.com/vango-dev/mte/pkg/render"
	"github.com/vango-dev/mte/pkg/vdom"
)

func runCmd(g *globals) *cobra.Command {
	var (
		pretty  bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Render a scenario and apply its steps",
		Long: `Render a scenario, print the output, then apply each step and print
the output again together with the patches the step produced.

Scenario names are resolved against the scenarios directory from mte.json.

Examples:
  mte run todo
  mte run scenarios/todo.yaml --pretty
  mte run todo --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(g.scenarioPath(args[0]))
			if err != nil {
				return err
			}
			if g.cfg.Strict {
				s.Strict = true
			}
			return runScenario(cmd.Context(), os.Stdout, s, pretty, summary)
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Pretty-print HTML")
	cmd.Flags().BoolVar(&summary, "summary", true, "Print a patch summary table")

	return cmd
}

// runScenario renders s and replays its steps, writing the output after
// each one to w. It stops at the first failing step.
func runScenario(ctx context.Context, w io.Writer, s *scenario.Scenario, pretty, summary bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := scenario.NewRunner(ctx, s)
	if err != nil {
		return err
	}
	defer r.Close()

	renderer := render.NewRenderer(render.RendererConfig{Pretty: pretty})
	printHTML := func() error {
		out, err := renderer.RenderToString(r.View().Node().(*vdom.VNode))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, strings.TrimRight(out, "\n"))
		return nil
	}

	mode := "lenient"
	if r.Engine().Strict() {
		mode = "strict"
	}
	fmt.Fprintf(w, "# %s (%s, %s nodes)\n", s.Name, mode, humanize.Comma(int64(r.Tree().Created())))
	if err := printHTML(); err != nil {
		return err
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetTitle(s.Name)
	tbl.AppendHeader(table.Row{"#", "step", "patches", "ops"})

	rec := vdom.Record(r.Tree())
	defer rec.Stop()

	for i, step := range s.Steps {
		rec.Reset()
		fmt.Fprintf(w, "\n# %s: %s", humanize.Ordinal(i+1), step)
		if step.Note != "" {
			fmt.Fprintf(w, " (%s)", step.Note)
		}
		fmt.Fprintln(w)

		stepErr := r.Apply(step)
		ops := patchSummary(rec.Patches)
		tbl.AppendRow(table.Row{i + 1, step.String(), humanize.Comma(int64(len(rec.Patches))), ops})

		if stepErr != nil {
			kind := "step failed"
			if mte.IsBindingConfiguration(stepErr) || mte.IsContextResolution(stepErr) {
				kind = "engine error"
			}
			fmt.Fprintf(w, "%s: %s\n", kind, errors.FromError(stepErr, "E202").FormatCompact())
			return stepErr
		}
		if err := printHTML(); err != nil {
			return err
		}
	}

	if summary && len(s.Steps) > 0 {
		fmt.Fprintln(w)
		tbl.Render()
	}
	return nil
}

// patchSummary counts patches by op, e.g. "InsertNode×1 RemoveNode×2".
func patchSummary(patches []vdom.Patch) string {
	counts := make(map[string]int)
	for _, p := range patches {
		counts[p.Op.String()]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s×%d", name, counts[name]))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
