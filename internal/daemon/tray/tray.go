package tray

import (
	"fmt"
	"time"

	"github.com/getlantern/systray"

	"github.com/nuvionclient/presence/internal/logging"
	"github.com/nuvionclient/presence/internal/models"
)

var (
	state   DaemonState
	onStart func()
	onExit  func()
	trayLog = logging.New("tray")

	portItem     *systray.MenuItem
	statusItem   *systray.MenuItem
	activityItem *systray.MenuItem
	connectItem  *systray.MenuItem
	clearItem    *systray.MenuItem
	quitItem     *systray.MenuItem

	// refreshCh coalesces refresh requests from the presence worker.
	refreshCh = make(chan struct{}, 1)
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (launch gRPC server here).
// onExitFn is called when the tray exits (cleanup here).
func Run(s DaemonState, onStartFn, onExitFn func()) {
	state = s
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

// Refresh asks the tray to redraw the presence items. It never blocks, so
// it is safe to call from the presence worker's hooks.
func Refresh() {
	select {
	case refreshCh <- struct{}{}:
	default:
	}
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip(formatTooltip(models.PresenceInfo{}))

	header := systray.AddMenuItem("Nuvion Presence", "")
	header.Disable()

	portItem = systray.AddMenuItem("Starting...", "")
	portItem.Disable()

	systray.AddSeparator()

	statusItem = systray.AddMenuItem(formatStatus(models.PresenceInfo{}, time.Now()), "")
	statusItem.Disable()
	activityItem = systray.AddMenuItem("", "")
	activityItem.Disable()
	activityItem.Hide()

	systray.AddSeparator()

	connectItem = systray.AddMenuItem("Connect to Discord", "Open a Discord session with the configured client id")
	clearItem = systray.AddMenuItem("Clear presence", "Remove the published activity")
	quitItem = systray.AddMenuItem("Quit", "Shut down the presence daemon")

	if onStart != nil {
		onStart()
	}

	if state != nil {
		portItem.SetTitle(fmt.Sprintf("Running on port: %d", state.Port()))
		update()
	}

	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-connectItem.ClickedCh:
			if state != nil {
				trayLog.Infof("connect requested from tray")
				state.ConnectPresence()
			}
		case <-clearItem.ClickedCh:
			if state != nil {
				state.ClearPresence()
			}
		case <-quitItem.ClickedCh:
			if state != nil {
				state.RequestShutdown()
			}
		case <-refreshCh:
			update()
		}
	}
}

// update redraws the presence items from the daemon's snapshot.
func update() {
	if state == nil {
		return
	}
	p := state.Presence()

	statusItem.SetTitle(formatStatus(p, time.Now()))
	if title := formatActivity(p); title != "" {
		activityItem.SetTitle(title)
		activityItem.Show()
	} else {
		activityItem.Hide()
	}

	if p.Connected {
		connectItem.Disable()
		clearItem.Enable()
	} else {
		connectItem.Enable()
		clearItem.Disable()
	}

	systray.SetTooltip(formatTooltip(p))
}

func formatTooltip(p models.PresenceInfo) string {
	if !p.Connected {
		return "Nuvion Presence: not connected"
	}
	if p.State == "" && p.Details == "" {
		return "Nuvion Presence: connected"
	}
	return "Nuvion Presence: " + joinActivity(p)
}

func formatStatus(p models.PresenceInfo, now time.Time) string {
	if !p.Connected {
		return "Discord: not connected"
	}
	if p.Since.IsZero() {
		return "Discord: connected"
	}
	return fmt.Sprintf("Discord: connected for %s", now.Sub(p.Since).Truncate(time.Second))
}

func formatActivity(p models.PresenceInfo) string {
	if !p.Connected || (p.State == "" && p.Details == "") {
		return ""
	}
	return "Playing: " + joinActivity(p)
}

func joinActivity(p models.PresenceInfo) string {
	switch {
	case p.State == "":
		return p.Details
	case p.Details == "":
		return p.State
	default:
		return p.State + " / " + p.Details
	}
}
