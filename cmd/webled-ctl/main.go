// Webled-ctl is a terminal client for webled servers.
//
// It speaks the password-gated line protocol over WebSocket: one-shot
// commands (stat, on, off, raw), a state watcher, mDNS discovery of
// running servers, and an interactive control panel.
//
// Usage:
//
//	webled-ctl [command] [flags]
//
// Running without arguments launches the interactive panel.
// See 'webled-ctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/webled/webled/internal/logging"
	"github.com/webled/webled/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "webled-ctl",
	Short: "Webled Control Utility",
	Long: `A terminal client for webled LED control servers.

Provides one-shot LED commands, a live state watcher, mDNS device
discovery, and an interactive control panel.

If no command is specified, the interactive panel will launch
automatically.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Silent by default; WEBLED_LOG_LEVEL turns logging on
		return logging.InitializeFromEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: open the panel when no subcommand provided
		return runTUI(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("webled-ctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
