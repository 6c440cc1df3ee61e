package core

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

type subscription struct {
	id       uint64
	observer Observer
}

// Broadcaster pushes the current snapshot and active file to every observer.
//
// Delivery is synchronous and runs without holding any lock, so observers may
// call back into the service. Nothing is queued when no observer is attached;
// late observers must ask for a frame themselves (see Service.AttachPanel).
type Broadcaster struct {
	store   *Store
	tracker *Tracker
	logger  *slog.Logger

	mu     sync.Mutex
	nextID uint64
	subs   []subscription
	closed bool
}

// NewBroadcaster creates a broadcaster reading from store and tracker.
// The tracker may be attached later with SetTracker.
func NewBroadcaster(store *Store, tracker *Tracker, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Broadcaster{store: store, tracker: tracker, logger: logger}
}

// SetTracker binds the tracker whose value is sent as ActiveFile.
func (b *Broadcaster) SetTracker(t *Tracker) {
	b.mu.Lock()
	b.tracker = t
	b.mu.Unlock()
}

// Subscribe registers an observer. The returned function removes it and is
// safe to call more than once.
func (b *Broadcaster) Subscribe(o Observer) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, observer: o})

	return func() { b.unsubscribe(id) }
}

func (b *Broadcaster) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered observers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Frame builds the payload observers would receive right now.
func (b *Broadcaster) Frame() Frame {
	b.mu.Lock()
	tracker := b.tracker
	b.mu.Unlock()

	frame := Frame{Notes: b.store.Snapshot()}
	if tracker != nil {
		frame.ActiveFile, _ = tracker.Active()
	}
	return frame
}

// Notify sends a fresh frame to every observer in registration order.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	if b.closed || len(b.subs) == 0 {
		b.mu.Unlock()
		return
	}
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	frame := b.Frame()
	for _, s := range subs {
		b.deliver(s, frame)
	}
}

// Push sends a fresh frame to a single observer, registered or not.
func (b *Broadcaster) Push(o Observer) {
	b.deliver(subscription{observer: o}, b.Frame())
}

func (b *Broadcaster) deliver(s subscription, frame Frame) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("observer panicked during render", "observer", s.id, "error", fmt.Sprint(r))
		}
	}()
	// Each observer gets its own copy so one cannot corrupt another's view.
	s.observer.Render(Frame{Notes: frame.Notes.Clone(), ActiveFile: frame.ActiveFile})
}

// Close drops every observer. Later Subscribe calls are ignored.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
	b.closed = true
}
