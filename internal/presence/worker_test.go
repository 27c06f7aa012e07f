package presence

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nuvionclient/presence/internal/discordipc"
	"github.com/nuvionclient/presence/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestDispatcher(rec *recorder, opts ...Option) *Dispatcher {
	opts = append([]Option{WithLogger(logging.Discard)}, opts...)
	return NewDispatcher(rec.factory, opts...)
}

// run submits cmds in order and waits for the worker to drain them.
func run(t *testing.T, d *Dispatcher, cmds ...Command) {
	t.Helper()
	for _, cmd := range cmds {
		require.NoError(t, d.Submit(cmd))
	}
	d.Close()
}

func TestConnectThenSetActivity(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(rec)

	run(t, d,
		Connect{ClientID: "123"},
		SetActivity{State: "Exploring", Details: "Level 3"},
	)

	assert.Equal(t, []string{
		"new:123",
		"Connect",
		"SetActivity:Exploring",
		"Disconnect", // teardown
	}, rec.Calls())

	acts := rec.Activities()
	require.Len(t, acts, 1)
	assert.Equal(t, &discordipc.Activity{
		State:   "Exploring",
		Details: "Level 3",
		Assets: &discordipc.Assets{
			LargeImage: "nuvion_client_icon",
			LargeText:  "Nuvion Client",
		},
		Buttons: []discordipc.Button{
			{Label: "Website", URL: "https://nuvionclient.com/"},
			{Label: "Discord", URL: "https://discord.gg/tnKvwNt3H4"},
		},
	}, acts[0])
}

func TestCommandsBeforeConnectMakeNoCalls(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(rec)

	run(t, d,
		SetActivity{State: "Exploring", Details: "Level 3"},
		Clear{},
	)

	assert.Empty(t, rec.Calls())
	assert.Equal(t, Disconnected, d.Snapshot().Status)
}

func TestDoubleConnectIsNoop(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(rec)

	run(t, d,
		Connect{ClientID: "123"},
		Connect{ClientID: "123"},
		Connect{ClientID: "456"},
	)

	assert.Equal(t, 1, rec.count("new:123"))
	assert.Equal(t, 0, rec.count("new:456"))
	assert.Equal(t, 1, rec.count("Connect"))
}

func TestPublishFailureResetsConnection(t *testing.T) {
	rec := &recorder{setErrs: []error{errBroken}}
	d := newTestDispatcher(rec)

	run(t, d,
		Connect{ClientID: "123"},
		SetActivity{State: "Exploring", Details: "Level 3"},
		Clear{},
	)

	assert.Equal(t, []string{
		"new:123",
		"Connect",
		"SetActivity:Exploring",
		"Disconnect", // reset after the failed publish
	}, rec.Calls())
	assert.Equal(t, 0, rec.count("ClearActivity"))
	assert.Equal(t, Disconnected, d.Snapshot().Status)
}

func TestClearFailureResetsConnection(t *testing.T) {
	rec := &recorder{clearErrs: []error{errBroken}}
	d := newTestDispatcher(rec)

	run(t, d,
		Connect{ClientID: "123"},
		Clear{},
		SetActivity{State: "ignored"},
		Clear{},
	)

	assert.Equal(t, []string{"new:123", "Connect", "ClearActivity", "Disconnect"}, rec.Calls())
}

func TestReconnectAfterFailureBuildsFreshClient(t *testing.T) {
	rec := &recorder{setErrs: []error{errBroken}}
	d := newTestDispatcher(rec)

	run(t, d,
		Connect{ClientID: "123"},
		SetActivity{State: "one"},
		SetActivity{State: "two"},
		Connect{ClientID: "123"},
		SetActivity{State: "three"},
	)

	assert.Equal(t, []string{
		"new:123", "Connect", "SetActivity:one", "Disconnect",
		"new:123", "Connect", "SetActivity:three",
		"Disconnect",
	}, rec.Calls())
}

func TestConnectFailureStaysDisconnected(t *testing.T) {
	tests := []struct {
		name string
		rec  *recorder
		want []string
	}{
		{
			name: "client construction fails",
			rec:  &recorder{factoryErr: discordipc.ErrInvalidClientID},
			want: []string{"new:123"},
		},
		{
			name: "handshake fails",
			rec:  &recorder{connectErrs: []error{discordipc.ErrNoSocket}},
			want: []string{"new:123", "Connect"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher(tt.rec)
			run(t, d,
				Connect{ClientID: "123"},
				SetActivity{State: "Exploring"},
			)
			assert.Equal(t, tt.want, tt.rec.Calls())
			assert.Equal(t, Disconnected, d.Snapshot().Status)
		})
	}
}

func TestTransitionsAndSnapshot(t *testing.T) {
	rec := &recorder{clearErrs: []error{nil, errBroken}}
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	type transition struct {
		prev, next Status
		cmd        string
	}
	var transitions []transition
	var snaps []Snapshot

	d := newTestDispatcher(rec,
		WithClock(func() time.Time { return clock }),
		WithHooks(Hooks{
			OnTransition: func(prev, next Status, cmd Command) {
				transitions = append(transitions, transition{prev, next, cmd.String()})
			},
			OnApplied: func(_ Command, snap Snapshot) {
				snaps = append(snaps, snap)
			},
		}),
	)

	run(t, d,
		Connect{ClientID: "123"},
		SetActivity{State: "Exploring", Details: "Level 3"},
		Clear{},
		Clear{},
	)

	assert.Equal(t, []transition{
		{Disconnected, Connected, "Connect(123)"},
		{Connected, Disconnected, "Clear"},
	}, transitions)

	require.Len(t, snaps, 4)
	assert.Equal(t, Snapshot{Status: Connected, ClientID: "123", Since: clock}, snaps[0])
	assert.Equal(t, Snapshot{Status: Connected, ClientID: "123", State: "Exploring", Details: "Level 3", Since: clock}, snaps[1])
	assert.Equal(t, Snapshot{Status: Connected, ClientID: "123", Since: clock}, snaps[2])
	assert.Equal(t, Snapshot{Status: Disconnected, Since: clock}, snaps[3])
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Connected", Connected.String())
	assert.Equal(t, "Disconnected", Disconnected.String())
	assert.Equal(t, "Unknown", Status(7).String())
}

func TestWorkerLogsNoopsAndFailures(t *testing.T) {
	tests := []struct {
		name string
		rec  *recorder
		cmds []Command
		want []string
	}{
		{
			name: "set activity while disconnected",
			rec:  &recorder{},
			cmds: []Command{SetActivity{State: "x"}},
			want: []string{"[presence] set_activity ignored (not connected)"},
		},
		{
			name: "clear while disconnected",
			rec:  &recorder{},
			cmds: []Command{Clear{}},
			want: []string{"[presence] clear ignored (not connected)"},
		},
		{
			name: "second connect",
			rec:  &recorder{},
			cmds: []Command{Connect{ClientID: "123"}, Connect{ClientID: "123"}},
			want: []string{"[presence] connecting...", "[presence] connected", "[presence] already connected"},
		},
		{
			name: "client construction fails",
			rec:  &recorder{factoryErr: discordipc.ErrInvalidClientID},
			cmds: []Command{Connect{ClientID: "123"}},
			want: []string{"[presence] client create error: "},
		},
		{
			name: "handshake fails",
			rec:  &recorder{connectErrs: []error{errBroken}},
			cmds: []Command{Connect{ClientID: "123"}},
			want: []string{"[presence] connect error: broken pipe"},
		},
		{
			name: "publish fails",
			rec:  &recorder{setErrs: []error{errBroken}},
			cmds: []Command{Connect{ClientID: "123"}, SetActivity{State: "x"}},
			want: []string{"[presence] set_activity error: broken pipe (reset client)"},
		},
		{
			name: "clear fails",
			rec:  &recorder{clearErrs: []error{errBroken}},
			cmds: []Command{Connect{ClientID: "123"}, Clear{}},
			want: []string{"[presence] clear error: broken pipe (reset client)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			d := NewDispatcher(tt.rec.factory,
				WithLogger(logging.NewWithWriter(&buf, "presence", logging.LevelInfo)))
			run(t, d, tt.cmds...)

			out := buf.String()
			for _, msg := range tt.want {
				assert.Contains(t, out, msg)
			}
		})
	}
}

func TestDebugLinesFilteredAtInfo(t *testing.T) {
	var buf bytes.Buffer
	d := NewDispatcher((&recorder{}).factory,
		WithLogger(logging.NewWithWriter(&buf, "presence", logging.LevelInfo)))
	run(t, d, Connect{ClientID: "123"})

	// The teardown disconnect is logged at debug level only.
	assert.NotContains(t, buf.String(), "queue closed")
}
