package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nuvionclient/presence/internal/api"
	"github.com/nuvionclient/presence/internal/config"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the presence daemon",
	Long:  `Manage the presenced daemon process.`,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runDaemonStatus,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running && info != nil {
		fmt.Printf("Daemon is already running (PID %d, port %d).\n", info.PID, info.Port)
		return nil
	}

	// Clean up stale daemon info if it exists
	if info != nil {
		_ = config.RemoveDaemonInfo()
	}

	fmt.Print("Starting daemon...")
	if startErr := startDaemon(); startErr != nil {
		fmt.Println()
		return startErr
	}

	_, freshInfo, err := GetDaemonStatus()
	if err != nil || freshInfo == nil {
		fmt.Println(" started.")
		return nil
	}

	fmt.Printf(" started (PID %d, port %d).\n", freshInfo.PID, freshInfo.Port)
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	running, info, err := GetDaemonStatus()
	if err != nil {
		return err
	}

	if !running || info == nil {
		fmt.Println("Daemon is not running.")
		return nil
	}

	var st *api.DaemonStatus
	var p *api.PresenceStatus
	rpcErr := withDaemon(false, func(ctx context.Context, c *api.Client) error {
		var err error
		if st, err = c.GetStatus(ctx); err != nil {
			return err
		}
		p, err = c.GetPresence(ctx)
		return err
	})

	uptime := time.Since(info.StartedAt).Truncate(time.Second)

	fmt.Println("Daemon is running.")
	fmt.Printf("  %s       %s\n", styleLabel.Render("Host:"), info.Host)
	fmt.Printf("  %s       %d\n", styleLabel.Render("Port:"), info.Port)
	fmt.Printf("  %s        %d\n", styleLabel.Render("PID:"), info.PID)
	fmt.Printf("  %s     %s\n", styleLabel.Render("Uptime:"), uptime)

	if rpcErr != nil {
		fmt.Printf("\n%s %v\n", styleWarning.Render("Daemon did not answer:"), rpcErr)
		return nil
	}

	fmt.Printf("  %s    %s\n", styleLabel.Render("Version:"), st.Version)
	if info.Build != "" && info.Build != st.Version {
		fmt.Printf("  %s\n", styleWarning.Render("daemon.yaml was written by build "+info.Build))
	}
	fmt.Println()
	for _, line := range presenceLines(p, time.Now()) {
		fmt.Println(line)
	}
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running || info == nil {
		fmt.Println("Daemon is not running.")
		return nil
	}

	if err := withDaemon(false, func(ctx context.Context, c *api.Client) error {
		return c.Shutdown(ctx)
	}); err != nil {
		return fmt.Errorf("failed to send stop request: %w", err)
	}

	// Poll for shutdown (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		stillRunning, _, err := config.IsDaemonRunning()
		if err == nil && !stillRunning {
			fmt.Println("Daemon stopped.")
			return nil
		}
	}

	return fmt.Errorf("daemon did not stop within timeout")
}
