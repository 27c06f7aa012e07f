package server

import (
	"context"
	"errors"
	"os"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nuvionclient/presence/internal/api"
	"github.com/nuvionclient/presence/internal/buildinfo"
	"github.com/nuvionclient/presence/internal/logging"
	"github.com/nuvionclient/presence/internal/presence"
)

// ============================================================================
// Service Implementations
// ============================================================================

var svcLog = logging.New("server")

type presenceService struct {
	dispatcher *presence.Dispatcher
}

func (s *presenceService) Connect(ctx context.Context, req *api.ConnectRequest) error {
	svcLog.Debugf("connect from %s", origin(req.Meta))
	return submitError(s.dispatcher.Connect(req.ClientID))
}

func (s *presenceService) SetActivity(ctx context.Context, req *api.SetActivityRequest) error {
	svcLog.Debugf("set activity from %s", origin(req.Meta))
	return submitError(s.dispatcher.SetActivity(req.State, req.Details))
}

func (s *presenceService) Clear(ctx context.Context, req *api.ClearRequest) error {
	svcLog.Debugf("clear from %s", origin(req.Meta))
	return submitError(s.dispatcher.Clear())
}

func (s *presenceService) GetPresence(ctx context.Context) (*api.PresenceStatus, error) {
	return snapshotToProto(s.dispatcher.Snapshot()), nil
}

type daemonService struct {
	server *Server
}

func (s *daemonService) GetStatus(ctx context.Context) (*api.DaemonStatus, error) {
	return &api.DaemonStatus{
		Host:      Host,
		Port:      s.server.Port(),
		PID:       os.Getpid(),
		StartedAt: s.server.startedAt,
		Version:   buildinfo.Version,
	}, nil
}

func (s *daemonService) Shutdown(ctx context.Context) error {
	svcLog.Infof("shutdown requested over API")
	s.server.RequestShutdown()
	return nil
}

// submitError maps enqueue failures to gRPC status codes. Only the
// enqueue is reported; command outcomes stay inside the worker.
func submitError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, presence.ErrWorkerGone):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func origin(m *api.RequestMeta) string {
	if m == nil || m.Origin == "" {
		return "unknown"
	}
	return m.Origin
}

// ============================================================================
// Conversion Functions
// ============================================================================

func snapshotToProto(snap presence.Snapshot) *api.PresenceStatus {
	return &api.PresenceStatus{
		Connected: snap.Status == presence.Connected,
		ClientID:  snap.ClientID,
		State:     snap.State,
		Details:   snap.Details,
		Since:     snap.Since,
	}
}
