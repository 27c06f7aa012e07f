// Package server implements the daemon's loopback API. Native gRPC (CLI)
// and gRPC-Web (the launcher's webview) share one cleartext HTTP/2 port.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/improbable-eng/grpc-web/go/grpcweb"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"

	"github.com/nuvionclient/presence/internal/api"
	"github.com/nuvionclient/presence/internal/config"
	"github.com/nuvionclient/presence/internal/logging"
	"github.com/nuvionclient/presence/internal/models"
	"github.com/nuvionclient/presence/internal/presence"
)

// Host is the only interface the daemon listens on.
const Host = "127.0.0.1"

// Server is the daemon's API server.
type Server struct {
	httpServer *http.Server
	grpcServer *grpc.Server
	listener   net.Listener
	port       int
	startedAt  time.Time
	presence   *presence.Dispatcher
	log        *logging.Logger

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// New creates a new server listening on the specified loopback port.
// Pass port 0 for dynamic allocation.
func New(port int, dispatcher *presence.Dispatcher) (*Server, error) {
	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", net.JoinHostPort(Host, fmt.Sprint(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	// Get actual port if dynamically allocated
	actualPort := listener.Addr().(*net.TCPAddr).Port

	srv := &Server{
		listener:   listener,
		port:       actualPort,
		startedAt:  time.Now().UTC(),
		presence:   dispatcher,
		log:        logging.New("server"),
		shutdownCh: make(chan struct{}),
	}

	srv.grpcServer = grpc.NewServer(grpc.UnaryInterceptor(srv.logRequests))

	// Register services
	api.RegisterPresenceServer(srv.grpcServer, &presenceService{dispatcher: dispatcher})
	api.RegisterDaemonServer(srv.grpcServer, &daemonService{server: srv})

	web := grpcweb.WrapServer(srv.grpcServer,
		grpcweb.WithOriginFunc(allowLocalOrigin),
		grpcweb.WithAllowedRequestHeaders([]string{"*"}),
	)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case web.IsGrpcWebRequest(r) || web.IsAcceptableGrpcCorsRequest(r):
			web.ServeHTTP(w, r)
		case r.ProtoMajor == 2 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/grpc"):
			srv.grpcServer.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})

	srv.httpServer = &http.Server{
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return srv, nil
}

// allowLocalOrigin admits webview and dev-server origins on this machine.
func allowLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Scheme == "tauri" {
		return true
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1", "tauri.localhost":
		return true
	}
	return false
}

func (s *Server) logRequests(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		s.log.Warnf("%s: %v", info.FullMethod, err)
	} else {
		s.log.Debugf("%s ok", info.FullMethod)
	}
	return resp, err
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully stops the server.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Warnf("shutdown: %v", err)
	}
	s.grpcServer.Stop()
	// Serve may never have run.
	_ = s.listener.Close()
}

// RequestShutdown asks the process to exit; see ShutdownRequested.
func (s *Server) RequestShutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdownCh) })
}

// ShutdownRequested is closed once a client or the tray asked the daemon
// to exit.
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.shutdownCh
}

// TrayState adapts a Server to the tray.DaemonState interface.
type TrayState struct {
	srv *Server
}

// NewTrayState creates a TrayState for the given server.
func NewTrayState(srv *Server) *TrayState {
	return &TrayState{srv: srv}
}

// Port returns the port the server is listening on.
func (t *TrayState) Port() int {
	return t.srv.Port()
}

// Presence returns the current Discord session for display.
func (t *TrayState) Presence() models.PresenceInfo {
	snap := t.srv.presence.Snapshot()
	return models.PresenceInfo{
		Connected: snap.Status == presence.Connected,
		ClientID:  snap.ClientID,
		State:     snap.State,
		Details:   snap.Details,
		Since:     snap.Since,
	}
}

// ConnectPresence queues a Connect with the client id from settings.
func (t *TrayState) ConnectPresence() {
	settings, err := config.LoadSettings()
	if err != nil {
		t.srv.log.Errorf("load settings: %v", err)
		return
	}
	if settings.Discord.ClientID == "" {
		t.srv.log.Warnf("no discord client_id configured")
		return
	}
	if err := t.srv.presence.Connect(settings.Discord.ClientID); err != nil {
		t.srv.log.Errorf("connect: %v", err)
	}
}

// ClearPresence queues a Clear.
func (t *TrayState) ClearPresence() {
	if err := t.srv.presence.Clear(); err != nil {
		t.srv.log.Errorf("clear: %v", err)
	}
}

// RequestShutdown triggers a graceful shutdown of the daemon.
func (t *TrayState) RequestShutdown() {
	t.srv.RequestShutdown()
}
