package presence

import "sync"

// mailbox is an unbounded FIFO of commands. push never blocks; pop blocks
// until a command is available or the mailbox is closed and drained.
type mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Command
	closed bool
}

func newMailbox() *mailbox {
	m := &mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

func (m *mailbox) push(cmd Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrWorkerGone
	}
	m.items = append(m.items, cmd)
	m.cond.Signal()
	return nil
}

// pop returns false once the mailbox is closed and empty.
func (m *mailbox) pop() (Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.items) == 0 && !m.closed {
		m.cond.Wait()
	}
	if len(m.items) == 0 {
		return nil, false
	}
	cmd := m.items[0]
	m.items[0] = nil
	m.items = m.items[1:]
	return cmd, true
}

func (m *mailbox) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cond.Broadcast()
}
