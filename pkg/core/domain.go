package core

import (
	"fmt"
	"time"
)

// EventType represents the kind of change observed by the service.
type EventType string

const (
	EventAdd    EventType = "ADD"
	EventDelete EventType = "DELETE"
	EventFocus  EventType = "FOCUS"
	EventReload EventType = "RELOAD"
)

// Event represents a change in the note store or active context.
type Event struct {
	Type      EventType
	File      string
	Line      int
	Timestamp int64 // Unix timestamp
}

func newEvent(t EventType, file string, line int) Event {
	return Event{Type: t, File: file, Line: line, Timestamp: time.Now().Unix()}
}

// String renders the event; it also satisfies lifecycle.Event.
func (e Event) String() string {
	switch e.Type {
	case EventAdd, EventDelete:
		return fmt.Sprintf("%s %s:%d", e.Type, e.File, e.Line+1)
	case EventFocus:
		if e.File == "" {
			return fmt.Sprintf("%s <none>", e.Type)
		}
		return fmt.Sprintf("%s %s", e.Type, e.File)
	default:
		return string(e.Type)
	}
}

// Severity classifies a user-visible message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}
