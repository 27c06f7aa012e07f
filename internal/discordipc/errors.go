package discordipc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidClientID is returned by New for an empty or non-numeric id.
	ErrInvalidClientID = errors.New("discordipc: client id must be a numeric application id")

	// ErrNotConnected is returned by operations issued before Connect or
	// after Disconnect.
	ErrNotConnected = errors.New("discordipc: not connected")

	// ErrNoSocket is returned when no Discord IPC endpoint accepts a
	// connection.
	ErrNoSocket = errors.New("discordipc: no discord ipc socket found")
)

// ResponseError is an error reported by Discord, either as an ERROR event
// or as the payload of a CLOSE frame.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("discordipc: discord error %d: %s", e.Code, e.Message)
}
