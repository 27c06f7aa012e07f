package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the daemon's presence and daemon services.
type Client struct {
	cc   grpc.ClientConnInterface
	meta *RequestMeta
}

// NewClient returns a client that tags every request with origin.
func NewClient(cc grpc.ClientConnInterface, origin string) *Client {
	return &Client{cc: cc, meta: &RequestMeta{Origin: origin}}
}

// Connect queues a Connect command on the daemon.
func (c *Client) Connect(ctx context.Context, clientID string) error {
	req, err := (&ConnectRequest{Meta: c.meta, ClientID: clientID}).toProto()
	if err != nil {
		return err
	}
	return c.cc.Invoke(ctx, MethodConnect, req, &emptypb.Empty{})
}

// SetActivity queues a SetActivity command on the daemon.
func (c *Client) SetActivity(ctx context.Context, state, details string) error {
	req, err := (&SetActivityRequest{Meta: c.meta, State: state, Details: details}).toProto()
	if err != nil {
		return err
	}
	return c.cc.Invoke(ctx, MethodSetActivity, req, &emptypb.Empty{})
}

// Clear queues a Clear command on the daemon.
func (c *Client) Clear(ctx context.Context) error {
	req, err := (&ClearRequest{Meta: c.meta}).toProto()
	if err != nil {
		return err
	}
	return c.cc.Invoke(ctx, MethodClear, req, &emptypb.Empty{})
}

// GetPresence returns the daemon's view of the Discord session.
func (c *Client) GetPresence(ctx context.Context) (*PresenceStatus, error) {
	out := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, MethodGetPresence, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return presenceStatusFromProto(out)
}

// GetStatus returns daemon process information.
func (c *Client) GetStatus(ctx context.Context) (*DaemonStatus, error) {
	out := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, MethodGetStatus, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return daemonStatusFromProto(out)
}

// Shutdown asks the daemon to exit.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.cc.Invoke(ctx, MethodShutdown, &emptypb.Empty{}, &emptypb.Empty{})
}
