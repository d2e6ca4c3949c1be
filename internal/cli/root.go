// Package cli implements reconctl's Cobra command tree, rooted under
// internal/cli so it can be shared between the reconctl binary and its
// tests without an import cycle through cmd/reconctl's package main.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes reported to the shell.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

var rootCmd = &cobra.Command{
	Use:   "reconctl",
	Short: "Operate the bug-bounty reconnaissance orchestrator",
	Long: `reconctl drives the reconnaissance pipeline: register programs and
their scope, start the stage workers that subscribe to the event bus, and
replay captured tool output for operational recovery.`,
	SilenceUsage: true,
}

// SetVersion injects the build-time version into the root command.
func SetVersion(v string) { rootCmd.Version = v }

// Execute runs the CLI, exiting the process with ExitCodeError on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yaml", "path to the orchestrator configuration file")
}
