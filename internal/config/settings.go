package config

import (
	"fmt"

	"github.com/nuvionclient/presence/internal/logging"
	"github.com/nuvionclient/presence/internal/models"
)

// LoadSettings loads the global settings from ~/.nuvion-presence/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings saves the global settings to ~/.nuvion-presence/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// ValidateSettings checks values that would otherwise fail later at runtime.
func ValidateSettings(s *models.Settings) error {
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	for _, r := range s.Discord.ClientID {
		if r < '0' || r > '9' {
			return fmt.Errorf("discord client_id %q must be numeric", s.Discord.ClientID)
		}
	}
	return nil
}
