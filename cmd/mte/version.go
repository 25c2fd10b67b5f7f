package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")
	return cmd
}

// versionString describes the build on one line, e.g.
// "mte v0.3.0 (a1b2c3d, 2026-01-02) go1.24.11 linux/amd64".
func versionString() string {
	return fmt.Sprintf("mte %s (%s, %s) %s %s/%s",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
