package presence

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentSubmittersShareOneTotalOrder(t *testing.T) {
	const (
		producers = 8
		perProd   = 50
	)

	rec := &recorder{}
	var mu sync.Mutex
	var observed []string
	d := newTestDispatcher(rec, WithHooks(Hooks{
		OnCommand: func(cmd Command) {
			if sa, ok := cmd.(SetActivity); ok {
				mu.Lock()
				observed = append(observed, sa.State)
				mu.Unlock()
			}
		},
	}))

	require.NoError(t, d.Connect("123"))

	var g errgroup.Group
	for p := 0; p < producers; p++ {
		g.Go(func() error {
			for i := 0; i < perProd; i++ {
				if err := d.SetActivity(fmt.Sprintf("%d-%d", p, i), "concurrent"); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	d.Close()

	require.Len(t, observed, producers*perProd)

	// The worker published in exactly the order it dequeued.
	var published []string
	for _, c := range rec.Calls() {
		if s, ok := strings.CutPrefix(c, "SetActivity:"); ok {
			published = append(published, s)
		}
	}
	assert.Equal(t, observed, published)

	// Each producer's commands keep their relative order.
	lastSeen := make(map[int]int)
	for p := 0; p < producers; p++ {
		lastSeen[p] = -1
	}
	for _, s := range observed {
		var p, i int
		_, err := fmt.Sscanf(s, "%d-%d", &p, &i)
		require.NoError(t, err)
		assert.Equal(t, lastSeen[p]+1, i, "producer %d out of order", p)
		lastSeen[p] = i
	}

	assert.Equal(t, int32(1), rec.maxInFlight.Load(), "external calls overlapped")
}

func TestEndpointCopiesDeliverExactlyOnce(t *testing.T) {
	const copies = 32

	rec := &recorder{}
	var mu sync.Mutex
	seen := make(map[string]int)
	d := newTestDispatcher(rec, WithHooks(Hooks{
		OnCommand: func(cmd Command) {
			mu.Lock()
			seen[cmd.String()]++
			mu.Unlock()
		},
	}))

	ep := d.Endpoint()
	var g errgroup.Group
	for i := 0; i < copies; i++ {
		clone := ep
		g.Go(func() error {
			return clone.Submit(SetActivity{State: fmt.Sprint(i)})
		})
	}
	require.NoError(t, g.Wait())
	d.Close()

	require.Len(t, seen, copies)
	for cmd, n := range seen {
		assert.Equal(t, 1, n, "%s delivered %d times", cmd, n)
	}
}

func TestConcurrentFirstCallsStartOneWorker(t *testing.T) {
	d := newTestDispatcher(&recorder{})
	defer d.Close()

	const callers = 64
	endpoints := make([]Endpoint, callers)
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			endpoints[i] = d.Endpoint()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, ep := range endpoints {
		require.NotNil(t, ep.queue)
		assert.Same(t, endpoints[0].queue, ep.queue)
	}
}

func TestSubmitAfterClose(t *testing.T) {
	t.Run("worker started", func(t *testing.T) {
		d := newTestDispatcher(&recorder{})
		ep := d.Endpoint()
		d.Close()

		assert.ErrorIs(t, ep.Submit(Clear{}), ErrWorkerGone)
		assert.ErrorIs(t, d.Connect("123"), ErrWorkerGone)
	})

	t.Run("worker never started", func(t *testing.T) {
		rec := &recorder{}
		d := newTestDispatcher(rec)
		d.Close()

		assert.ErrorIs(t, d.SetActivity("a", "b"), ErrWorkerGone)
		assert.Empty(t, rec.Calls())
	})

	t.Run("zero endpoint", func(t *testing.T) {
		var ep Endpoint
		assert.ErrorIs(t, ep.Submit(Clear{}), ErrWorkerGone)
	})
}

func TestSnapshotBeforeStart(t *testing.T) {
	d := newTestDispatcher(&recorder{})
	assert.Equal(t, Snapshot{Status: Disconnected}, d.Snapshot())
}

func TestSubmitRejectsNilCommand(t *testing.T) {
	d := newTestDispatcher(&recorder{})
	defer d.Close()
	assert.Error(t, d.Submit(nil))
}

func TestMailboxDrainsBeforeClosing(t *testing.T) {
	m := newMailbox()
	require.NoError(t, m.push(Clear{}))
	require.NoError(t, m.push(Connect{ClientID: "1"}))
	m.close()

	cmd, ok := m.pop()
	require.True(t, ok)
	assert.Equal(t, Clear{}, cmd)
	cmd, ok = m.pop()
	require.True(t, ok)
	assert.Equal(t, Connect{ClientID: "1"}, cmd)
	_, ok = m.pop()
	assert.False(t, ok)
	assert.ErrorIs(t, m.push(Clear{}), ErrWorkerGone)
}
