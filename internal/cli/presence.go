package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nuvionclient/presence/internal/api"
	"github.com/nuvionclient/presence/internal/config"
)

var connectCmd = &cobra.Command{
	Use:   "connect [client-id]",
	Short: "Connect the daemon to Discord",
	Long: `Ask the daemon to open a Discord session. Without an argument the
client id from settings.yaml is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConnect,
}

var activityCmd = &cobra.Command{
	Use:   "activity <state> [details]",
	Short: "Publish an activity",
	Long: `Publish an activity with the launcher's artwork and links. Ignored by
the daemon while it is not connected to Discord.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runActivity,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the published activity",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon's Discord session",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runConnect(cmd *cobra.Command, args []string) error {
	clientID, err := resolveClientID(args)
	if err != nil {
		return err
	}

	if err := withDaemon(true, func(ctx context.Context, c *api.Client) error {
		return c.Connect(ctx, clientID)
	}); err != nil {
		return err
	}
	fmt.Println(styleSuccess.Render("Connect queued."))
	return nil
}

// resolveClientID picks the explicit argument or falls back to settings.
func resolveClientID(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return "", err
	}
	if settings.Discord.ClientID == "" {
		return "", fmt.Errorf("no client id given and none configured (see: presence settings --client-id)")
	}
	return settings.Discord.ClientID, nil
}

func runActivity(cmd *cobra.Command, args []string) error {
	state := args[0]
	details := ""
	if len(args) == 2 {
		details = args[1]
	}

	if err := withDaemon(true, func(ctx context.Context, c *api.Client) error {
		return c.SetActivity(ctx, state, details)
	}); err != nil {
		return err
	}
	fmt.Println(styleSuccess.Render("Activity queued."))
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if err := withDaemon(true, func(ctx context.Context, c *api.Client) error {
		return c.Clear(ctx)
	}); err != nil {
		return err
	}
	fmt.Println(styleSuccess.Render("Clear queued."))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	running, _, err := GetDaemonStatus()
	if err != nil {
		return err
	}
	if !running {
		fmt.Println("Daemon is not running.")
		return nil
	}

	var p *api.PresenceStatus
	if err := withDaemon(false, func(ctx context.Context, c *api.Client) error {
		var err error
		p, err = c.GetPresence(ctx)
		return err
	}); err != nil {
		return err
	}

	for _, line := range presenceLines(p, time.Now()) {
		fmt.Println(line)
	}
	return nil
}

// presenceLines renders a presence status for the terminal.
func presenceLines(p *api.PresenceStatus, now time.Time) []string {
	if !p.Connected {
		lines := []string{fmt.Sprintf("%s %s", styleLabel.Render("Discord:"), styleWarning.Render("not connected"))}
		if !p.Since.IsZero() {
			lines = append(lines, fmt.Sprintf("%s   %s ago", styleLabel.Render("Since:"), now.Sub(p.Since).Truncate(time.Second)))
		}
		return lines
	}

	lines := []string{
		fmt.Sprintf("%s %s", styleLabel.Render("Discord:"), styleSuccess.Render("connected")),
		fmt.Sprintf("%s  %s", styleLabel.Render("Client:"), styleValue.Render(p.ClientID)),
	}
	if !p.Since.IsZero() {
		lines = append(lines, fmt.Sprintf("%s   %s ago", styleLabel.Render("Since:"), now.Sub(p.Since).Truncate(time.Second)))
	}
	if p.State == "" && p.Details == "" {
		lines = append(lines, styleHint.Render("No activity published."))
		return lines
	}
	lines = append(lines,
		fmt.Sprintf("%s   %s", styleLabel.Render("State:"), styleValue.Render(p.State)),
		fmt.Sprintf("%s %s", styleLabel.Render("Details:"), styleValue.Render(p.Details)),
	)
	return lines
}
