package presence

import (
	"errors"
	"sync"
	"time"

	"github.com/nuvionclient/presence/internal/logging"
)

// ErrWorkerGone is returned when a command is submitted after the worker's
// queue has been closed.
var ErrWorkerGone = errors.New("presence: worker is gone")

// Endpoint enqueues commands for the worker. Endpoint values may be copied
// freely and used from any goroutine; every copy feeds the same queue.
type Endpoint struct {
	queue *mailbox
}

// Submit enqueues cmd and returns immediately. It only fails when the
// worker is gone; it never reports the outcome of the command itself.
func (e Endpoint) Submit(cmd Command) error {
	if e.queue == nil {
		return ErrWorkerGone
	}
	if cmd == nil {
		return errors.New("presence: nil command")
	}
	return e.queue.push(cmd)
}

type options struct {
	log   *logging.Logger
	hooks Hooks
	now   func() time.Time
}

// Option configures a Dispatcher.
type Option func(*options)

// WithLogger sets the worker's logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithHooks attaches worker hooks.
func WithHooks(h Hooks) Option {
	return func(o *options) { o.hooks = h }
}

// WithClock overrides time.Now for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Dispatcher hands out the endpoint of the process's single presence
// worker, starting it on first use.
type Dispatcher struct {
	newClient ClientFactory
	opts      options

	mu     sync.Mutex
	w      *worker
	closed bool
}

// NewDispatcher returns a dispatcher whose worker builds clients with
// newClient. No goroutine is started until the first submission.
func NewDispatcher(newClient ClientFactory, opts ...Option) *Dispatcher {
	o := options{
		log: logging.New("presence"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Dispatcher{newClient: newClient, opts: o}
}

// Endpoint returns the worker's endpoint, starting the worker if this is
// the first call. Concurrent first calls start exactly one worker.
func (d *Dispatcher) Endpoint() Endpoint {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.w == nil {
		if d.closed {
			return Endpoint{}
		}
		d.w = newWorker(d.newClient, &d.opts)
		go d.w.run()
	}
	return Endpoint{queue: d.w.queue}
}

// Submit enqueues cmd on the worker, starting it if needed.
func (d *Dispatcher) Submit(cmd Command) error {
	return d.Endpoint().Submit(cmd)
}

// Connect enqueues a Connect command.
func (d *Dispatcher) Connect(clientID string) error {
	return d.Submit(Connect{ClientID: clientID})
}

// SetActivity enqueues a SetActivity command.
func (d *Dispatcher) SetActivity(state, details string) error {
	return d.Submit(SetActivity{State: state, Details: details})
}

// Clear enqueues a Clear command.
func (d *Dispatcher) Clear() error {
	return d.Submit(Clear{})
}

// Snapshot returns the state published by the worker after its last
// command. Before the worker starts it reports Disconnected.
func (d *Dispatcher) Snapshot() Snapshot {
	d.mu.Lock()
	w := d.w
	d.mu.Unlock()

	if w == nil {
		return Snapshot{Status: Disconnected}
	}
	return *w.snapshot.Load()
}

// Close stops accepting commands and waits for the worker to apply what
// is already queued and drop its session. Close is meant for process
// teardown; later submissions fail with ErrWorkerGone.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	w := d.w
	d.mu.Unlock()

	if w == nil {
		return
	}
	w.queue.close()
	<-w.done
}
