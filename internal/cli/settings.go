package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuvionclient/presence/internal/config"
	"github.com/nuvionclient/presence/internal/models"
)

var (
	flagClientID    string
	flagAutoConnect bool
	flagLogLevel    string
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Show or change global settings",
	Long: `Show or change ~/.nuvion-presence/settings.yaml.

Without flags the current settings are printed. A running daemon picks up
changes on its own.`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().StringVar(&flagClientID, "client-id", "", "Discord application id")
	settingsCmd.Flags().BoolVar(&flagAutoConnect, "auto-connect", true, "Connect to Discord when the daemon starts")
	settingsCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Daemon log level (error, warn, info, debug)")
}

// settingsUpdate holds the flags the user actually set.
type settingsUpdate struct {
	clientID    *string
	autoConnect *bool
	logLevel    *string
}

func (u settingsUpdate) empty() bool {
	return u.clientID == nil && u.autoConnect == nil && u.logLevel == nil
}

// apply writes the update into s and reports whether anything changed.
func (u settingsUpdate) apply(s *models.Settings) bool {
	changed := false
	if u.clientID != nil && *u.clientID != s.Discord.ClientID {
		s.Discord.ClientID = *u.clientID
		changed = true
	}
	if u.autoConnect != nil && *u.autoConnect != s.Discord.AutoConnect {
		s.Discord.AutoConnect = *u.autoConnect
		changed = true
	}
	if u.logLevel != nil && *u.logLevel != s.LogLevel {
		s.LogLevel = *u.logLevel
		changed = true
	}
	return changed
}

func runSettings(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var u settingsUpdate
	if cmd.Flags().Changed("client-id") {
		u.clientID = &flagClientID
	}
	if cmd.Flags().Changed("auto-connect") {
		u.autoConnect = &flagAutoConnect
	}
	if cmd.Flags().Changed("log-level") {
		u.logLevel = &flagLogLevel
	}

	if u.empty() {
		printSettings(settings)
		return nil
	}

	if !u.apply(settings) {
		fmt.Println("No changes made.")
		return nil
	}
	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Println(styleSuccess.Render("Settings updated."))
	printSettings(settings)
	return nil
}

func printSettings(s *models.Settings) {
	clientID := s.Discord.ClientID
	if clientID == "" {
		clientID = styleHint.Render("(not set)")
	}
	fmt.Printf("  %s    %s\n", styleLabel.Render("Client ID:"), clientID)
	fmt.Printf("  %s %t\n", styleLabel.Render("Auto-connect:"), s.Discord.AutoConnect)
	fmt.Printf("  %s    %s\n", styleLabel.Render("Log level:"), s.LogLevel)
}
