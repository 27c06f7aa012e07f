package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// OpenDaemonLog opens ~/.nuvion-presence/logs/presenced.log for appending.
// The tray daemon has no terminal, so its log output goes here.
func OpenDaemonLog() (*os.File, error) {
	if err := EnsureGlobalLogsDir(); err != nil {
		return nil, fmt.Errorf("failed to ensure logs dir: %w", err)
	}

	logsDir, err := GlobalLogsDir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(logsDir, DaemonLogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
