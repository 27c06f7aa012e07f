package discordipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/nuvionclient/presence/internal/logging"
)

const rpcVersion = 1

// DialFunc opens the raw transport to the Discord client.
type DialFunc func() (net.Conn, error)

// Option configures a Client.
type Option func(*Client)

// WithDialer replaces the platform socket discovery, mostly for tests.
func WithDialer(dial DialFunc) Option {
	return func(c *Client) { c.dial = dial }
}

// WithPID sets the process id reported with SET_ACTIVITY.
func WithPID(pid int) Option {
	return func(c *Client) { c.pid = pid }
}

// WithLogger sets the logger used for frame tracing.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// Client is a single RPC session with the local Discord client. A Client
// is not reusable after Disconnect; construct a new one instead.
type Client struct {
	clientID string
	pid      int
	dial     DialFunc
	log      *logging.Logger

	mu   sync.Mutex
	conn net.Conn
}

// New returns a client bound to a Discord application id. It does not
// touch the transport; call Connect for that.
func New(clientID string, opts ...Option) (*Client, error) {
	if !validClientID(clientID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidClientID, clientID)
	}
	c := &Client{
		clientID: clientID,
		pid:      os.Getpid(),
		dial:     dialDiscord,
		log:      logging.New("discordipc"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func validClientID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ClientID returns the application id the client is bound to.
func (c *Client) ClientID() string {
	return c.clientID
}

type handshake struct {
	V        int    `json:"v"`
	ClientID string `json:"client_id"`
}

type request struct {
	Cmd   string `json:"cmd"`
	Args  any    `json:"args"`
	Nonce string `json:"nonce"`
}

type response struct {
	Cmd   string          `json:"cmd"`
	Evt   string          `json:"evt"`
	Nonce string          `json:"nonce"`
	Data  json.RawMessage `json:"data"`
}

type activityArgs struct {
	PID      int       `json:"pid"`
	Activity *Activity `json:"activity"`
}

// Connect dials Discord and performs the handshake, returning once READY
// has been received.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	conn, err := c.dial()
	if err != nil {
		return err
	}

	if err := WriteFrame(conn, OpHandshake, handshake{V: rpcVersion, ClientID: c.clientID}); err != nil {
		_ = conn.Close()
		return err
	}

	resp, err := readResponse(conn, c.log)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("discordipc: handshake: %w", err)
	}
	if resp.Cmd != "DISPATCH" || resp.Evt != "READY" {
		_ = conn.Close()
		return fmt.Errorf("discordipc: handshake: unexpected reply cmd=%s evt=%s", resp.Cmd, resp.Evt)
	}

	c.log.Debugf("ready (client id %s)", c.clientID)
	c.conn = conn
	return nil
}

// SetActivity publishes a presence record. Buttons beyond MaxButtons are
// dropped since Discord rejects the whole activity otherwise.
func (c *Client) SetActivity(a *Activity) error {
	if a != nil && len(a.Buttons) > MaxButtons {
		trimmed := *a
		trimmed.Buttons = a.Buttons[:MaxButtons]
		a = &trimmed
	}
	_, err := c.call("SET_ACTIVITY", activityArgs{PID: c.pid, Activity: a})
	return err
}

// ClearActivity removes the published presence record.
func (c *Client) ClearActivity() error {
	_, err := c.call("SET_ACTIVITY", activityArgs{PID: c.pid, Activity: nil})
	return err
}

// Disconnect sends a CLOSE frame and closes the transport. It is safe to
// call more than once.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	conn := c.conn
	c.conn = nil

	werr := WriteFrame(conn, OpClose, struct{}{})
	cerr := conn.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// call sends a command frame and waits for the reply carrying its nonce.
// Any transport error closes the session.
func (c *Client) call(cmd string, args any) (*response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	nonce := uuid.NewString()
	if err := WriteFrame(c.conn, OpFrame, request{Cmd: cmd, Args: args, Nonce: nonce}); err != nil {
		c.closeLocked()
		return nil, err
	}
	c.log.Debugf("-> %s nonce=%s", cmd, nonce)

	for {
		resp, err := readResponse(c.conn, c.log)
		if err != nil {
			var rerr *ResponseError
			if !errors.As(err, &rerr) || resp == nil {
				c.closeLocked()
				return nil, err
			}
			if resp.Nonce != nonce {
				c.log.Debugf("skipping error for nonce %q: %v", resp.Nonce, err)
				continue
			}
			return nil, err
		}
		if resp.Nonce != nonce {
			c.log.Debugf("skipping %s/%s (nonce %q)", resp.Cmd, resp.Evt, resp.Nonce)
			continue
		}
		c.log.Debugf("<- %s nonce=%s", resp.Cmd, nonce)
		return resp, nil
	}
}

func (c *Client) closeLocked() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// readResponse reads frames until a FRAME arrives, answering PINGs on the
// way. A CLOSE frame or an ERROR event is returned as *ResponseError. For
// ERROR events the decoded response is returned alongside the error since
// the session stays usable.
func readResponse(conn net.Conn, log *logging.Logger) (*response, error) {
	for {
		op, body, err := ReadFrame(conn)
		if err != nil {
			return nil, err
		}

		switch op {
		case OpFrame:
			var resp response
			if err := json.Unmarshal(body, &resp); err != nil {
				return nil, fmt.Errorf("discordipc: decode frame: %w", err)
			}
			if resp.Evt == "ERROR" {
				rerr := &ResponseError{}
				if err := json.Unmarshal(resp.Data, rerr); err != nil {
					return nil, fmt.Errorf("discordipc: decode error event: %w", err)
				}
				return &resp, rerr
			}
			return &resp, nil

		case OpPing:
			log.Debugf("ping")
			if err := writeRaw(conn, OpPong, body); err != nil {
				return nil, err
			}

		case OpPong:
			// Unsolicited; nothing waits on it.

		case OpClose:
			rerr := &ResponseError{}
			if err := json.Unmarshal(body, rerr); err != nil {
				return nil, fmt.Errorf("discordipc: closed by discord")
			}
			return nil, rerr

		default:
			return nil, fmt.Errorf("discordipc: unexpected %s frame", op)
		}
	}
}
