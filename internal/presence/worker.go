package presence

import (
	"sync/atomic"
	"time"

	"github.com/nuvionclient/presence/internal/logging"
)

// Hooks provide optional observability into the worker. They run on the
// worker goroutine and must not block.
type Hooks struct {
	// OnCommand is called after a command is dequeued, before it is applied.
	OnCommand func(cmd Command)
	// OnTransition is called when the connection slot changes state.
	OnTransition func(prev, next Status, cmd Command)
	// OnApplied is called after a command has been applied, with the
	// resulting snapshot.
	OnApplied func(cmd Command, snap Snapshot)
}

// worker owns the connection slot and applies commands one at a time.
type worker struct {
	newClient ClientFactory
	log       *logging.Logger
	hooks     Hooks
	now       func() time.Time

	queue *mailbox
	done  chan struct{}

	conn     connState
	snapshot atomic.Pointer[Snapshot]
}

func newWorker(newClient ClientFactory, cfg *options) *worker {
	w := &worker{
		newClient: newClient,
		log:       cfg.log,
		hooks:     cfg.hooks,
		now:       cfg.now,
		queue:     newMailbox(),
		done:      make(chan struct{}),
		conn:      disconnected{},
	}
	w.snapshot.Store(&Snapshot{Status: Disconnected})
	return w
}

// run drains the queue until it is closed, then drops any live session.
func (w *worker) run() {
	defer close(w.done)

	for {
		cmd, ok := w.queue.pop()
		if !ok {
			break
		}
		if w.hooks.OnCommand != nil {
			w.hooks.OnCommand(cmd)
		}
		w.apply(cmd)
		if w.hooks.OnApplied != nil {
			w.hooks.OnApplied(cmd, *w.snapshot.Load())
		}
	}

	if cur, ok := w.conn.(connected); ok {
		w.log.Debugf("queue closed, disconnecting")
		if err := cur.client.Disconnect(); err != nil {
			w.log.Debugf("disconnect error: %v", err)
		}
		w.conn = disconnected{}
	}
}

func (w *worker) apply(cmd Command) {
	switch cmd := cmd.(type) {
	case Connect:
		w.connect(cmd)
	case SetActivity:
		w.setActivity(cmd)
	case Clear:
		w.clear(cmd)
	default:
		w.log.Warnf("unknown command %T", cmd)
	}
}

func (w *worker) connect(cmd Connect) {
	if _, ok := w.conn.(connected); ok {
		w.log.Infof("already connected")
		return
	}

	w.log.Infof("connecting...")
	client, err := w.newClient(cmd.ClientID)
	if err != nil {
		w.log.Errorf("client create error: %v", err)
		return
	}
	if err := client.Connect(); err != nil {
		w.log.Errorf("connect error: %v", err)
		return
	}

	w.log.Infof("connected")
	w.transition(connected{client: client, clientID: cmd.ClientID}, cmd)
}

func (w *worker) setActivity(cmd SetActivity) {
	cur, ok := w.conn.(connected)
	if !ok {
		w.log.Infof("set_activity ignored (not connected)")
		return
	}

	if err := cur.client.SetActivity(NewActivity(cmd.State, cmd.Details)); err != nil {
		w.log.Errorf("set_activity error: %v (reset client)", err)
		w.reset(cur, cmd)
		return
	}

	snap := *w.snapshot.Load()
	snap.State = cmd.State
	snap.Details = cmd.Details
	w.snapshot.Store(&snap)
}

func (w *worker) clear(cmd Clear) {
	cur, ok := w.conn.(connected)
	if !ok {
		w.log.Infof("clear ignored (not connected)")
		return
	}

	if err := cur.client.ClearActivity(); err != nil {
		w.log.Errorf("clear error: %v (reset client)", err)
		w.reset(cur, cmd)
		return
	}

	snap := *w.snapshot.Load()
	snap.State = ""
	snap.Details = ""
	w.snapshot.Store(&snap)
}

// reset discards a session that failed an operation. The next Connect
// builds a fresh client.
func (w *worker) reset(cur connected, cmd Command) {
	if err := cur.client.Disconnect(); err != nil {
		w.log.Debugf("disconnect after failure: %v", err)
	}
	w.transition(disconnected{}, cmd)
}

func (w *worker) transition(next connState, cmd Command) {
	prev := w.conn.status()
	w.conn = next

	snap := Snapshot{Status: next.status(), Since: w.now()}
	if c, ok := next.(connected); ok {
		snap.ClientID = c.clientID
	}
	w.snapshot.Store(&snap)

	if w.hooks.OnTransition != nil {
		w.hooks.OnTransition(prev, next.status(), cmd)
	}
}
