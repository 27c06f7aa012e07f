// Package discordipc implements the client side of Discord's local RPC
// transport: a unix socket (or a named pipe on Windows) carrying
// length-prefixed JSON frames.
package discordipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Opcode identifies the kind of an IPC frame.
type Opcode uint32

const (
	OpHandshake Opcode = 0
	OpFrame     Opcode = 1
	OpClose     Opcode = 2
	OpPing      Opcode = 3
	OpPong      Opcode = 4
)

func (op Opcode) String() string {
	switch op {
	case OpHandshake:
		return "HANDSHAKE"
	case OpFrame:
		return "FRAME"
	case OpClose:
		return "CLOSE"
	case OpPing:
		return "PING"
	case OpPong:
		return "PONG"
	default:
		return fmt.Sprintf("OPCODE(%d)", uint32(op))
	}
}

const (
	headerSize = 8
	// maxFrameSize bounds a single payload; READY carries the user object
	// and stays far below this.
	maxFrameSize = 1 << 20
)

// WriteFrame encodes v as JSON and writes it as a single frame.
func WriteFrame(w io.Writer, op Opcode, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("discordipc: encode %s payload: %w", op, err)
	}
	return writeRaw(w, op, body)
}

func writeRaw(w io.Writer, op Opcode, body []byte) error {
	buf := make([]byte, headerSize+len(body))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(op))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(body)))
	copy(buf[headerSize:], body)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("discordipc: write %s frame: %w", op, err)
	}
	return nil
}

// ReadFrame reads one frame and returns its opcode and raw JSON body.
func ReadFrame(r io.Reader) (Opcode, []byte, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, fmt.Errorf("discordipc: read frame header: %w", err)
	}
	op := Opcode(binary.LittleEndian.Uint32(hdr[0:4]))
	n := binary.LittleEndian.Uint32(hdr[4:8])
	if n > maxFrameSize {
		return 0, nil, fmt.Errorf("discordipc: %s frame of %d bytes exceeds limit", op, n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, fmt.Errorf("discordipc: read %s frame body: %w", op, err)
	}
	return op, body, nil
}
