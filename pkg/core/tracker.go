package core

import "sync"

// Tracker holds the file the host currently has focused.
// It is never persisted.
type Tracker struct {
	mu       sync.RWMutex
	active   string
	onChange func()
}

// NewTracker creates a tracker that calls onChange after every SetActive.
func NewTracker(onChange func()) *Tracker {
	return &Tracker{onChange: onChange}
}

// SetActive records file as focused; an empty file means nothing is focused.
// The change hook runs on every call, even if the value is unchanged, so a
// panel that was toggled can be refreshed with the same focus.
func (t *Tracker) SetActive(file string) {
	t.mu.Lock()
	t.active = file
	hook := t.onChange
	t.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Active returns the focused file.
func (t *Tracker) Active() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active, t.active != ""
}
