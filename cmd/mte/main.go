package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/mte/internal/config"
	"github.com/vango-dev/mte/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┬┐┌┬┐┌─┐
  │││ │ ├┤
  ┴ ┴ ┴ └─┘
`

// globals are the persistent flags shared by every command.
type globals struct {
	configPath  string
	logLevel    string
	strict      bool
	noColor     bool
	errorFormat string

	cfg *config.Config
}

func main() {
	g := &globals{errorFormat: errors.OutputText}
	if err := newRootCmd(g).Execute(); err != nil {
		errors.PrintError(errors.FromError(err, "E300"), g.errorFormat)
		os.Exit(1)
	}
}

func newRootCmd(g *globals) *cobra.Command {

	rootCmd := &cobra.Command{
		Use:   "mte",
		Short: "Reactive template engine toolkit",
		Long: `mte renders reactive templates against observable data and keeps the
output in sync as the data changes.

Scenario files describe a template, its data and a list of mutations:

  • run     render a scenario and apply its steps
  • serve   watch a scenario live in the browser
  • bench   time renders and incremental updates`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "Path to mte.json (default: search upward from the working directory)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from mte.json)")
	flags.BoolVar(&g.strict, "strict", false, "Render with the strict error policy")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&g.errorFormat, "errors", errors.OutputText, "Error output format: text, compact, json")

	rootCmd.AddCommand(
		runCmd(g),
		serveCmd(g),
		benchCmd(g),
		initCmd(g),
		versionCmd(),
	)
	return rootCmd
}

// setup loads configuration and installs the default logger.
func (g *globals) setup() error {
	if g.noColor {
		errors.DisableColors()
	}
	if !errors.ValidOutput(g.errorFormat) {
		format := g.errorFormat
		g.errorFormat = errors.OutputText
		return errors.New("E300").
			WithDetail(fmt.Sprintf("unknown error format %q", format)).
			WithSuggestion("Use --errors=text, --errors=compact or --errors=json")
	}

	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
		if err == nil {
			err = cfg.Validate()
		}
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return wdErr
		}
		cfg, err = config.LoadOrDefault(wd)
	}
	if err != nil {
		return err
	}

	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if g.strict {
		cfg.Strict = true
	}
	g.cfg = cfg

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(handler))
	return nil
}

// scenarioPath resolves a scenario argument. Names that don't exist as
// given are looked up in the configured scenarios directory.
func (g *globals) scenarioPath(arg string) string {
	if _, err := os.Stat(arg); err == nil || filepath.IsAbs(arg) {
		return arg
	}
	dir := g.cfg.ScenariosPath()
	candidates := []string{filepath.Join(dir, arg)}
	if !strings.HasSuffix(arg, ".yaml") && !strings.HasSuffix(arg, ".yml") {
		candidates = append(candidates, filepath.Join(dir, arg+".yaml"), filepath.Join(dir, arg+".yml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return arg
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
