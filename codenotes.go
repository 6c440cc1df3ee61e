package codenotes

import (
	"context"
	"log/slog"

	"github.com/aretw0/codenotes/internal/platform"
	"github.com/aretw0/codenotes/pkg/core"
)

// --- Types ---

// Service is a public alias for the note service.
type Service = core.Service

// Note is a public alias for a single line annotation.
type Note = core.Note

// Snapshot is a public alias for the full file to notes mapping.
type Snapshot = core.Snapshot

// Host is the editor surface the service drives.
type Host = core.Host

// FileConfig is the parsed codenotes.yaml / codenotes.toml file.
type FileConfig = platform.FileConfig

// --- Configuration ---

// Option defines a functional option for configuring codenotes.
type Option = platform.Option

// WithAdapter selects the storage adapter by name ("fs", "bolt" or "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithPath sets the storage location of the selected adapter.
func WithPath(path string) Option {
	return platform.WithPath(path)
}

// WithStorageKey overrides the slot notes are persisted under.
func WithStorageKey(key string) Option {
	return platform.WithStorageKey(key)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithBackend allows injecting a custom persistence backend.
func WithBackend(b core.Backend) Option {
	return platform.WithBackend(b)
}

// WithHost binds the editor host.
func WithHost(h core.Host) Option {
	return platform.WithHost(h)
}

// WithEventBuffer allows specifying the size of each event stream buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatch reloads notes when the storage is changed by another process.
func WithWatch(enabled bool) Option {
	return platform.WithWatch(enabled)
}

// WithMustExist ensures the storage directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// LoadConfig reads a workspace config file.
func LoadConfig(path string) (*FileConfig, error) {
	return platform.LoadConfig(path)
}

// FindConfig looks upwards from dir for a workspace config file.
func FindConfig(dir string) (string, error) {
	return platform.FindConfig(dir)
}

// --- Factory ---

// Start opens the configured storage and returns a running service.
func Start(ctx context.Context, opts ...Option) (*Service, error) {
	return platform.Start(ctx, opts...)
}
