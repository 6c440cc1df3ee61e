package platform

import (
	"log/slog"

	"github.com/aretw0/codenotes/pkg/core"
)

// options holds the internal configuration for the codenotes service.
type options struct {
	backend      core.Backend
	host         core.Host
	logger       *slog.Logger
	adapter      string
	path         string
	storageKey   string
	eventBuffer  int
	watch        bool
	mustExist    bool
	errorHandler func(error)
}

// Option defines a functional option for configuring codenotes.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:    AdapterFS,
		storageKey: core.DefaultStorageKey,
	}
}

// WithAdapter selects the storage adapter by name ("fs", "bolt" or "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		if name != "" {
			o.adapter = name
		}
	}
}

// WithPath sets where the adapter keeps its data: a directory for "fs",
// a database file (or its directory) for "bolt". Ignored by "memory".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithStorageKey overrides the slot the snapshot is persisted under.
func WithStorageKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.storageKey = key
		}
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBackend injects a custom persistence backend.
// If provided, the adapter options are skipped.
func WithBackend(b core.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithHost binds the editor host driving the service.
func WithHost(h core.Host) Option {
	return func(o *options) {
		o.host = h
	}
}

// WithEventBuffer sets the capacity of each Watch stream.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithWatch reloads the store when the backend reports external changes.
func WithWatch(enabled bool) Option {
	return func(o *options) {
		o.watch = enabled
	}
}

// WithMustExist requires the storage directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures,
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
