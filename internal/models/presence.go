package models

import "time"

// PresenceInfo describes the daemon's Discord session for display in the
// tray and CLI.
type PresenceInfo struct {
	Connected bool
	ClientID  string
	State     string
	Details   string
	Since     time.Time
}
