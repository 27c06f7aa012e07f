package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/nuvionclient/presence/internal/api"
	"github.com/nuvionclient/presence/internal/buildinfo"
	"github.com/nuvionclient/presence/internal/config"
	"github.com/nuvionclient/presence/internal/daemon/server"
	"github.com/nuvionclient/presence/internal/daemon/tray"
	"github.com/nuvionclient/presence/internal/daemon/watcher"
	"github.com/nuvionclient/presence/internal/logging"
	"github.com/nuvionclient/presence/internal/models"
	"github.com/nuvionclient/presence/internal/presence"
)

func run(foreground bool, port int) error {
	log.SetPrefix("[presenced] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon already running on port %d (PID %d)", info.Port, info.PID)
	}

	if foreground {
		log.Println("Running in foreground mode (no system tray)")
		return runForeground(port, settings)
	}

	logFile, err := config.OpenDaemonLog()
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	log.Println("Running in background mode (with system tray)")
	return runWithTray(port, settings)
}

// daemon ties the presence dispatcher to the API server and the settings
// watcher for the lifetime of the process.
type daemon struct {
	dispatcher *presence.Dispatcher
	srv        *server.Server
	watcher    *watcher.Watcher
	log        *logging.Logger
}

func newDispatcher(newClient presence.ClientFactory, l *logging.Logger, onChange func()) *presence.Dispatcher {
	return presence.NewDispatcher(newClient, presence.WithHooks(presence.Hooks{
		OnTransition: func(prev, next presence.Status, cmd presence.Command) {
			l.Infof("discord %s -> %s (%s)", prev, next, cmd)
		},
		OnApplied: func(presence.Command, presence.Snapshot) {
			onChange()
		},
	}))
}

// startDaemon creates the server and publishes daemon.yaml. onChange runs
// on the presence worker after every command.
func startDaemon(port int, settings *models.Settings, onChange func()) (*daemon, error) {
	d := &daemon{log: logging.New("daemon")}
	d.dispatcher = newDispatcher(presence.NewDiscordClient, d.log, onChange)

	srv, err := server.New(port, d.dispatcher)
	if err != nil {
		d.dispatcher.Close()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	d.srv = srv

	info := models.NewDaemonInfo(server.Host, srv.Port(), os.Getpid(), buildinfo.Version,
		api.PresenceServiceName, api.DaemonServiceName)
	if err := config.SaveDaemonInfo(info); err != nil {
		srv.Stop()
		d.dispatcher.Close()
		return nil, fmt.Errorf("failed to write daemon info: %w", err)
	}

	w, err := watcher.New()
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		d.log.Warnf("settings reload disabled: %v", err)
	} else {
		d.watcher = w
	}

	d.applySettings(settings)
	d.log.Infof("daemon started on port %d (PID %d)", srv.Port(), os.Getpid())
	return d, nil
}

// applySettings updates the log level and, when configured, asks the
// worker to connect. A Connect while already connected is a no-op.
func (d *daemon) applySettings(s *models.Settings) {
	if level, err := logging.ParseLevel(s.LogLevel); err == nil {
		logging.SetLevel(level)
	}

	clientID := s.AutoConnectClientID()
	if clientID == "" {
		return
	}
	if d.dispatcher.Snapshot().Status == presence.Connected {
		return
	}
	if err := d.dispatcher.Connect(clientID); err != nil {
		d.log.Warnf("auto-connect: %v", err)
	}
}

// watchSettings reapplies settings.yaml whenever it changes.
func (d *daemon) watchSettings(ctx context.Context) error {
	if d.watcher == nil {
		<-ctx.Done()
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-d.watcher.Events():
			d.log.Debugf("%s: %s", ev.Type, ev.Path)
			settings, err := config.LoadSettings()
			if err != nil {
				d.log.Warnf("ignoring settings change: %v", err)
				continue
			}
			d.applySettings(settings)
		}
	}
}

// stop tears down in dependency order: no new requests, then drain the
// worker, then forget the port.
func (d *daemon) stop() {
	if d.watcher != nil {
		d.watcher.Stop()
	}
	d.srv.Stop()
	d.dispatcher.Close()

	if err := config.RemoveDaemonInfo(); err != nil {
		d.log.Warnf("failed to remove daemon info: %v", err)
	}
	d.log.Infof("daemon stopped")
}

// runForeground runs the daemon without a system tray until a signal or a
// Shutdown request arrives.
func runForeground(port int, settings *models.Settings) error {
	d, err := startDaemon(port, settings, func() {})
	if err != nil {
		return err
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	g, ctx := errgroup.WithContext(sigCtx)
	ctx, cancel := context.WithCancel(ctx)

	g.Go(d.srv.Serve)
	g.Go(func() error { return d.watchSettings(ctx) })
	g.Go(func() error {
		select {
		case <-ctx.Done():
			log.Println("Received signal, shutting down...")
		case <-d.srv.ShutdownRequested():
			log.Println("Shutdown requested, shutting down...")
		}
		d.stop()
		cancel()
		return nil
	})

	return g.Wait()
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(port int, settings *models.Settings) error {
	var d *daemon
	var startErr error
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	onStart := func() {
		d, startErr = startDaemon(port, settings, tray.Refresh)
		if startErr != nil {
			tray.Quit()
			return
		}

		go func() {
			if err := d.srv.Serve(); err != nil {
				log.Printf("Server error: %v", err)
				tray.Quit()
			}
		}()
		go func() { _ = d.watchSettings(ctx) }()

		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			select {
			case sig := <-sigCh:
				log.Printf("Received signal %v, shutting down...", sig)
			case <-d.srv.ShutdownRequested():
				log.Println("Shutdown requested, shutting down...")
			case <-ctx.Done():
				return
			}
			tray.Quit()
		}()
	}

	onExit := func() {
		cancel()
		if d != nil {
			d.stop()
		}
	}

	// The server is nil at tray startup and created inside onStart.
	tray.Run(&lazyDaemonState{get: func() *daemon { return d }}, onStart, onExit)
	return startErr
}

// lazyDaemonState defers to server.TrayState once the daemon exists.
type lazyDaemonState struct {
	get func() *daemon
}

func (l *lazyDaemonState) state() *server.TrayState {
	if d := l.get(); d != nil {
		return server.NewTrayState(d.srv)
	}
	return nil
}

func (l *lazyDaemonState) Port() int {
	if s := l.state(); s != nil {
		return s.Port()
	}
	return 0
}

func (l *lazyDaemonState) Presence() models.PresenceInfo {
	if s := l.state(); s != nil {
		return s.Presence()
	}
	return models.PresenceInfo{}
}

func (l *lazyDaemonState) ConnectPresence() {
	if s := l.state(); s != nil {
		s.ConnectPresence()
	}
}

func (l *lazyDaemonState) ClearPresence() {
	if s := l.state(); s != nil {
		s.ClearPresence()
	}
}

func (l *lazyDaemonState) RequestShutdown() {
	if s := l.state(); s != nil {
		s.RequestShutdown()
	}
}
