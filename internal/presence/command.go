// Package presence owns the single Discord connection of the process. A
// Dispatcher lazily starts one worker goroutine that applies Connect,
// SetActivity and Clear commands one at a time, in submission order.
package presence

import "fmt"

// Command is a request for the worker. Commands are values; the worker
// consumes each exactly once.
type Command interface {
	isCommand()
	fmt.Stringer
}

// Connect opens a session for a Discord application id. It is a no-op
// while a session is live.
type Connect struct {
	ClientID string
}

// SetActivity publishes state and details alongside the fixed launcher
// branding. Ignored while disconnected.
type SetActivity struct {
	State   string
	Details string
}

// Clear removes the published activity. Ignored while disconnected.
type Clear struct{}

func (Connect) isCommand()     {}
func (SetActivity) isCommand() {}
func (Clear) isCommand()       {}

func (c Connect) String() string { return fmt.Sprintf("Connect(%s)", c.ClientID) }

func (c SetActivity) String() string {
	return fmt.Sprintf("SetActivity(state=%q, details=%q)", c.State, c.Details)
}

func (Clear) String() string { return "Clear" }
