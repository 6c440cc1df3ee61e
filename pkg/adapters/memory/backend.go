// Package memory provides an in-process core.Backend.
// It keeps nothing across restarts and is meant for tests and ephemeral hosts;
// reads and writes can be made to fail to exercise degraded paths.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/codenotes/pkg/core"
)

// Backend implements core.Backend with a map.
type Backend struct {
	mu       sync.RWMutex
	data     map[string][]byte
	readErr  error
	writeErr error
	writes   int
}

func New() *Backend {
	return &Backend{data: make(map[string][]byte)}
}

func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.readErr != nil {
		return nil, b.readErr
	}
	data, ok := b.data[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.writeErr != nil {
		return b.writeErr
	}
	b.data[key] = append([]byte(nil), data...)
	b.writes++
	return nil
}

// FailReads makes every Read return err until called with nil.
func (b *Backend) FailReads(err error) {
	b.mu.Lock()
	b.readErr = err
	b.mu.Unlock()
}

// FailWrites makes every Write return err until called with nil.
func (b *Backend) FailWrites(err error) {
	b.mu.Lock()
	b.writeErr = err
	b.mu.Unlock()
}

// Writes counts successful writes.
func (b *Backend) Writes() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.writes
}

// Raw returns the stored blob without going through failure injection.
func (b *Backend) Raw(key string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.data[key]
	return data, ok
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return map[string]any{
		"keys":   len(b.data),
		"writes": b.writes,
	}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "memory"
}

var _ core.Backend = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)
