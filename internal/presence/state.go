package presence

import "time"

// Status is the externally visible connection state of the worker.
type Status int

const (
	Disconnected Status = iota
	Connected
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connected:
		return "Connected"
	default:
		return "Unknown"
	}
}

// connState is the worker's connection slot. Only the worker goroutine
// reads or replaces it.
type connState interface {
	status() Status
}

type disconnected struct{}

type connected struct {
	client   Client
	clientID string
}

func (disconnected) status() Status { return Disconnected }
func (connected) status() Status    { return Connected }

// Snapshot is a read-only view of the worker, published after every
// command. It never exposes the client itself.
type Snapshot struct {
	Status   Status
	ClientID string
	// State and Details hold the last activity published on the current
	// session; both are empty after Clear or a reset.
	State   string
	Details string
	// Since is when Status last changed. Zero until the first transition.
	Since time.Time
}
