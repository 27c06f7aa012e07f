package cli

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nuvionclient/presence/internal/api"
	"github.com/nuvionclient/presence/internal/config"
)

const (
	requestOrigin  = "cli"
	requestTimeout = 5 * time.Second
)

// connectDaemon establishes a gRPC connection to the running daemon.
func connectDaemon() (*grpc.ClientConn, error) {
	info, err := config.LoadDaemonInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to load daemon info: %w", err)
	}
	if info == nil {
		return nil, fmt.Errorf("daemon not running")
	}

	if !info.Serves(api.PresenceServiceName) {
		return nil, fmt.Errorf("daemon on port %d (build %s) has no presence API; restart it with: presence daemon stop", info.Port, info.BuildVersion)
	}

	conn, err := grpc.NewClient(info.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}

	return conn, nil
}

// withDaemon runs fn against the daemon, starting it first when startIfNeeded
// is set.
func withDaemon(startIfNeeded bool, fn func(ctx context.Context, c *api.Client) error) error {
	if startIfNeeded {
		if err := EnsureDaemon(); err != nil {
			return err
		}
	}

	conn, err := connectDaemon()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return fn(ctx, api.NewClient(conn, requestOrigin))
}
