package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/mte/internal/config"
	"github.com/vango-dev/mte/internal/errors"
)

const exampleScenario = `name: hello
template:
  tag: p
  children:
    - text: "Hello, "
    - bind: name
      format: upper
data:
  name: world
steps:
  - op: set
    path: name
    value: mte
`

func initCmd(g *globals) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create mte.json and an example scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing mte.json")

	return cmd
}

func runInit(dir string, force bool) error {
	if config.Exists(dir) && !force {
		return errors.New("E300").
			WithDetail("mte.json already exists in " + dir).
			WithSuggestion("Use --force to overwrite it")
	}

	cfg := config.New()
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	cfg.Name = filepath.Base(abs)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New("E103").Wrap(err)
	}
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		return err
	}
	success("Created %s", cfg.Path())

	scenarios := cfg.ScenariosPath()
	example := filepath.Join(scenarios, "hello.yaml")
	if _, err := os.Stat(example); err == nil {
		info("Keeping existing %s", example)
		return nil
	}
	if err := os.MkdirAll(scenarios, 0755); err != nil {
		return errors.New("E103").Wrap(err)
	}
	if err := os.WriteFile(example, []byte(exampleScenario), 0644); err != nil {
		return errors.New("E103").Wrap(err)
	}
	success("Created %s", example)
	info("Try: mte run hello")
	return nil
}
