// Package tray implements the system tray icon and menu for the daemon.
package tray

import "github.com/nuvionclient/presence/internal/models"

// DaemonState gives the tray access to the daemon it decorates.
type DaemonState interface {
	Port() int
	Presence() models.PresenceInfo
	ConnectPresence()
	ClearPresence()
	RequestShutdown()
}
