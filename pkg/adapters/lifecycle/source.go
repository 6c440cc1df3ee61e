// Package lifecycle exposes the note change stream to aretw0/lifecycle consumers.
package lifecycle

import (
	"context"
	"slices"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/codenotes/pkg/core"
)

// noteSource re-emits core events as lifecycle events, optionally keeping
// only some event types.
type noteSource struct {
	events <-chan core.Event
	types  []core.EventType
	out    chan lifecycle.Event
}

// NewSource wraps a stream returned by core.Service.Watch. With types given,
// only events of those types are emitted.
func NewSource(events <-chan core.Event, types ...core.EventType) lifecycle.Source {
	return &noteSource{
		events: events,
		types:  types,
		out:    make(chan lifecycle.Event),
	}
}

func (s *noteSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *noteSource) wants(e core.Event) bool {
	return len(s.types) == 0 || slices.Contains(s.types, e.Type)
}

// Start runs the forwarder in the background. Events is closed once ctx ends
// or the upstream stream closes.
func (s *noteSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			var e core.Event
			select {
			case <-ctx.Done():
				return nil
			case next, ok := <-s.events:
				if !ok {
					return nil
				}
				e = next
			}
			if !s.wants(e) {
				continue
			}
			select {
			case s.out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	})
	return nil
}
