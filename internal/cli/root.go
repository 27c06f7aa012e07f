// Package cli implements the presence CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "presence",
	Short: "Control the launcher's Discord rich presence",
	Long: `presence talks to the presenced daemon, which owns the launcher's
Discord session. Commands are queued on the daemon and applied in order;
a successful exit means the command was accepted, not that Discord
applied it. Use "presence status" to see the result.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
