package presence

import "github.com/nuvionclient/presence/internal/discordipc"

// Client is the set of fallible calls the worker makes against the
// external presence process. *discordipc.Client implements it.
type Client interface {
	Connect() error
	Disconnect() error
	SetActivity(a *discordipc.Activity) error
	ClearActivity() error
}

// ClientFactory constructs a Client bound to an application id.
// Construction may fail, e.g. for a malformed id.
type ClientFactory func(clientID string) (Client, error)

// NewDiscordClient is the production ClientFactory.
func NewDiscordClient(clientID string) (Client, error) {
	c, err := discordipc.New(clientID)
	if err != nil {
		return nil, err
	}
	return c, nil
}
