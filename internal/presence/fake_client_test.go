package presence

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nuvionclient/presence/internal/discordipc"
)

var errBroken = errors.New("broken pipe")

// recorder is shared by every fake client a test's factory builds. It logs
// calls in the order the worker makes them and scripts failures.
type recorder struct {
	mu         sync.Mutex
	calls      []string
	activities []*discordipc.Activity

	factoryErr  error
	connectErrs []error
	setErrs     []error
	clearErrs   []error

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (r *recorder) factory(clientID string) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "new:"+clientID)
	if r.factoryErr != nil {
		return nil, r.factoryErr
	}
	return &fakeClient{rec: r}, nil
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) Activities() []*discordipc.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*discordipc.Activity(nil), r.activities...)
}

// count returns how many recorded calls equal name.
func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func next(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

// enter tracks concurrent calls so tests can assert they never overlap.
func (r *recorder) enter(name string) func() {
	n := r.inFlight.Add(1)
	for {
		max := r.maxInFlight.Load()
		if n <= max || r.maxInFlight.CompareAndSwap(max, n) {
			break
		}
	}
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()
	return func() { r.inFlight.Add(-1) }
}

type fakeClient struct {
	rec *recorder
}

func (c *fakeClient) Connect() error {
	defer c.rec.enter("Connect")()
	c.rec.mu.Lock()
	defer c.rec.mu.Unlock()
	return next(&c.rec.connectErrs)
}

func (c *fakeClient) Disconnect() error {
	defer c.rec.enter("Disconnect")()
	return nil
}

func (c *fakeClient) SetActivity(a *discordipc.Activity) error {
	defer c.rec.enter(fmt.Sprintf("SetActivity:%s", a.State))()
	c.rec.mu.Lock()
	defer c.rec.mu.Unlock()
	c.rec.activities = append(c.rec.activities, a)
	return next(&c.rec.setErrs)
}

func (c *fakeClient) ClearActivity() error {
	defer c.rec.enter("ClearActivity")()
	c.rec.mu.Lock()
	defer c.rec.mu.Unlock()
	return next(&c.rec.clearErrs)
}
