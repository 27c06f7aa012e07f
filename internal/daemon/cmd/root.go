// Package cmd implements the presenced command line.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	foreground bool
	port       int
)

var rootCmd = &cobra.Command{
	Use:   "presenced",
	Short: "Keep the launcher's Discord rich presence alive",
	Long: `presenced owns the launcher's Discord session. It accepts presence
commands over a loopback gRPC / gRPC-Web port and applies them one at a
time on a single background worker.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(foreground, port)
	},
}

// Execute runs the daemon command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&foreground, "foreground", false, "Run in foreground without a system tray")
	rootCmd.Flags().IntVar(&port, "port", 0, "Port to listen on (0 for dynamic allocation)")
	rootCmd.AddCommand(daemonVersionCmd)
}
