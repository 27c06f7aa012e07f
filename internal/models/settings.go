package models

// DiscordConfig holds the Discord application used for rich presence.
type DiscordConfig struct {
	ClientID    string `yaml:"client_id"`
	AutoConnect bool   `yaml:"auto_connect"`
}

// Settings represents global application settings.
// This corresponds to ~/.nuvion-presence/settings.yaml.
type Settings struct {
	Version  int           `yaml:"version"`
	Discord  DiscordConfig `yaml:"discord"`
	LogLevel string        `yaml:"log_level"` // "error" | "warn" | "info" | "debug"
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Discord: DiscordConfig{
			ClientID:    "",
			AutoConnect: true,
		},
		LogLevel: "info",
	}
}

// AutoConnectClientID returns the client id the daemon should connect
// with on its own, or "" when auto-connect is off or unconfigured.
func (s *Settings) AutoConnectClientID() string {
	if !s.Discord.AutoConnect {
		return ""
	}
	return s.Discord.ClientID
}
