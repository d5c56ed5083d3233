package player

import (
	"context"
	"sync"
)

// mailbox is an unbounded FIFO of closures drained by a single goroutine.
// post never blocks, so engine and timer goroutines can always hand off.
type mailbox struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

func newMailbox() *mailbox {
	return &mailbox{wake: make(chan struct{}, 1)}
}

func (m *mailbox) post(fn func()) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.queue = append(m.queue, fn)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
	return true
}

func (m *mailbox) take() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.queue
	m.queue = nil
	return q
}

func (m *mailbox) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

// run drains the mailbox until ctx is cancelled. Work still queued at
// cancellation is executed before returning.
func (m *mailbox) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.close()
			for _, fn := range m.take() {
				fn()
			}
			return
		case <-m.wake:
			for _, fn := range m.take() {
				fn()
			}
		}
	}
}
