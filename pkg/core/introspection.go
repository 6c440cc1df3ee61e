package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Files           int    `json:"files"`
	Notes           int    `json:"notes"`
	ActiveFile      string `json:"active_file,omitempty"`
	Observers       int    `json:"observers"`
	Streams         int    `json:"streams"`
	Dirty           bool   `json:"dirty"`
	Stopped         bool   `json:"stopped"`
	EventBufferSize int    `json:"event_buffer_size"`
	BackendType     string `json:"backend_type"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	snap := s.store.Snapshot()
	active, _ := s.tracker.Active()

	s.mu.RLock()
	defer s.mu.RUnlock()

	backendType := "unknown"
	if comp, ok := s.backend.(introspection.Component); ok {
		backendType = comp.ComponentType()
	}

	return ServiceState{
		Files:           len(snap.Files()),
		Notes:           snap.Count(),
		ActiveFile:      active,
		Observers:       s.broadcaster.Len(),
		Streams:         len(s.streams),
		Dirty:           s.store.Dirty(),
		Stopped:         s.stopped,
		EventBufferSize: s.eventBufferSize,
		BackendType:     backendType,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
