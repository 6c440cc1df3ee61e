package core

import "context"

// DefaultStorageKey is the slot under which the snapshot is persisted.
const DefaultStorageKey = "codenotes.notes"

// Backend defines the contract for the persistence layer.
// It is a single-slot blob store: the core only ever reads and writes
// the whole snapshot under one key.
type Backend interface {
	// Read returns the blob stored under key, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the blob stored under key.
	Write(ctx context.Context, key string, data []byte) error
}

// Watchable is implemented by backends that can report external changes
// to a stored key (e.g. another process editing the file).
type Watchable interface {
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// Host is the editor the service runs inside.
type Host interface {
	// ActiveFile returns the focused file, if any.
	ActiveFile() (string, bool)

	// CursorLine returns the 0-based line of the caret in the active file.
	CursorLine() int

	// PromptText asks the user for a string. ok is false when the user cancels.
	PromptText(ctx context.Context, message string) (text string, ok bool, err error)

	// ShowMessage displays a transient notice.
	ShowMessage(text string, severity Severity)

	// OpenAndHighlight opens file, moves the caret to line and highlights it.
	OpenAndHighlight(ctx context.Context, file string, line int) error
}

// Observer receives frames from the broadcaster.
type Observer interface {
	Render(frame Frame)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Frame)

func (f ObserverFunc) Render(frame Frame) { f(frame) }
