package panel

import (
	"context"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/codenotes/pkg/core"
)

// Mailbox decouples a slow observer from the broadcaster. Render never
// blocks: it replaces any frame still waiting, so the target always ends up
// with the most recent state and intermediate frames are dropped.
type Mailbox struct {
	target core.Observer
	signal chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	pending *core.Frame
	dropped int
}

// NewMailbox starts delivering to target until ctx ends.
func NewMailbox(ctx context.Context, target core.Observer) *Mailbox {
	m := &Mailbox{
		target: target,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	lifecycle.Go(ctx, m.run)
	return m
}

func (m *Mailbox) Render(frame core.Frame) {
	m.mu.Lock()
	if m.pending != nil {
		m.dropped++
	}
	m.pending = &frame
	m.mu.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}
}

func (m *Mailbox) run(ctx context.Context) error {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-m.signal:
			m.mu.Lock()
			frame := m.pending
			m.pending = nil
			m.mu.Unlock()
			if frame != nil {
				m.target.Render(*frame)
			}
		}
	}
}

// Dropped counts frames superseded before delivery.
func (m *Mailbox) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// Done is closed once the delivery loop has exited.
func (m *Mailbox) Done() <-chan struct{} {
	return m.done
}
