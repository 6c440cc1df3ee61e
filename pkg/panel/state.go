package panel

import (
	"errors"
	"fmt"
)

// State is a point in the panel lifecycle:
// Unattached → Attached → Visible ⇄ Hidden → Disposed.
type State int

const (
	StateUnattached State = iota
	StateAttached
	StateVisible
	StateHidden
	StateDisposed
)

var ErrInvalidTransition = errors.New("invalid panel transition")

func (s State) String() string {
	switch s {
	case StateUnattached:
		return "unattached"
	case StateAttached:
		return "attached"
	case StateVisible:
		return "visible"
	case StateHidden:
		return "hidden"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// renders reports whether frames received in this state are displayed.
func (s State) renders() bool {
	return s == StateAttached || s == StateVisible
}

// CanTransition reports whether the lifecycle allows moving from s to next.
// Every live state may be disposed.
func (s State) CanTransition(next State) bool {
	if next == StateDisposed {
		return s != StateDisposed
	}
	switch s {
	case StateUnattached:
		return next == StateAttached
	case StateAttached:
		return next == StateVisible || next == StateHidden
	case StateVisible:
		return next == StateHidden
	case StateHidden:
		return next == StateVisible
	}
	return false
}

func transition(from, to State) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
	}
	return nil
}
