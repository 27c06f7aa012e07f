package api

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeServer struct {
	connects   []*ConnectRequest
	activities []*SetActivityRequest
	clears     []*ClearRequest
	shutdowns  int
	presence   *PresenceStatus
	daemon     *DaemonStatus
	err        error
}

func (f *fakeServer) Connect(_ context.Context, req *ConnectRequest) error {
	f.connects = append(f.connects, req)
	return f.err
}

func (f *fakeServer) SetActivity(_ context.Context, req *SetActivityRequest) error {
	f.activities = append(f.activities, req)
	return f.err
}

func (f *fakeServer) Clear(_ context.Context, req *ClearRequest) error {
	f.clears = append(f.clears, req)
	return f.err
}

func (f *fakeServer) GetPresence(context.Context) (*PresenceStatus, error) {
	return f.presence, nil
}

func (f *fakeServer) GetStatus(context.Context) (*DaemonStatus, error) {
	return f.daemon, nil
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdowns++
	return nil
}

func startBufServer(t *testing.T, srv *fakeServer) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 16)
	s := grpc.NewServer()
	RegisterPresenceServer(s, srv)
	RegisterDaemonServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cc.Close() })

	return NewClient(cc, "test")
}

func TestPresenceCommandsRoundTrip(t *testing.T) {
	srv := &fakeServer{}
	c := startBufServer(t, srv)
	ctx := context.Background()

	require.NoError(t, c.Connect(ctx, "123"))
	require.NoError(t, c.SetActivity(ctx, "Exploring", "Level 3"))
	require.NoError(t, c.Clear(ctx))

	require.Len(t, srv.connects, 1)
	assert.Equal(t, &ConnectRequest{Meta: &RequestMeta{Origin: "test"}, ClientID: "123"}, srv.connects[0])
	require.Len(t, srv.activities, 1)
	assert.Equal(t, "Exploring", srv.activities[0].State)
	assert.Equal(t, "Level 3", srv.activities[0].Details)
	require.Len(t, srv.clears, 1)
	assert.Equal(t, "test", srv.clears[0].Meta.Origin)
}

func TestStatusCallsRoundTrip(t *testing.T) {
	since := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	srv := &fakeServer{
		presence: &PresenceStatus{Connected: true, ClientID: "123", State: "Exploring", Details: "Level 3", Since: since},
		daemon:   &DaemonStatus{Host: "127.0.0.1", Port: 4321, PID: 99, StartedAt: since, Version: "dev"},
	}
	c := startBufServer(t, srv)
	ctx := context.Background()

	p, err := c.GetPresence(ctx)
	require.NoError(t, err)
	assert.Equal(t, srv.presence, p)

	d, err := c.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, srv.daemon, d)

	require.NoError(t, c.Shutdown(ctx))
	assert.Equal(t, 1, srv.shutdowns)
}

func TestZeroSinceSurvivesRoundTrip(t *testing.T) {
	srv := &fakeServer{presence: &PresenceStatus{}}
	c := startBufServer(t, srv)

	p, err := c.GetPresence(context.Background())
	require.NoError(t, err)
	assert.True(t, p.Since.IsZero())
	assert.False(t, p.Connected)
}

func TestServerErrorsPropagate(t *testing.T) {
	srv := &fakeServer{err: status.Error(codes.Unavailable, "presence: worker is gone")}
	c := startBufServer(t, srv)

	err := c.Connect(context.Background(), "123")
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestTimestampsKeepNanosecondsAndUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2026, 3, 1, 10, 20, 30, 123456789, loc)

	raw := formatTime(in)
	assert.Equal(t, "2026-03-01T09:20:30.123456789Z", raw)

	out, err := parseTime(raw)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))

	_, err = parseTime("yesterday")
	assert.Error(t, err)
}
