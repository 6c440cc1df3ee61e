package fs

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/codenotes/pkg/core"
)

// FileExt is appended to a storage key to build its file name.
const FileExt = ".json"

// Repository implements core.Backend with one JSON file per key inside a directory.
type Repository struct {
	Path   string
	config Config

	mu            sync.RWMutex
	written       map[string][sha256.Size]byte // digest of our last write per key
	watcherActive bool
	lastChange    *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	MustExist bool
	Logger    *slog.Logger
	// ErrorHandler receives runtime watcher failures, which are otherwise only logged.
	ErrorHandler func(error)
	// Debounce coalesces bursts of filesystem events. Zero means 50ms.
	Debounce time.Duration
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	return &Repository{
		Path:    config.Path,
		config:  config,
		written: make(map[string][sha256.Size]byte),
	}
}

// Initialize ensures the storage directory exists.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("storage path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat storage path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("storage path is not a directory: %s", r.Path)
		}
		r.sweep()
		return nil
	}
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	r.sweep()
	return nil
}

// sweep clears temp files left by interrupted writes. Failures only log.
func (r *Repository) sweep() {
	removed, err := sweepTempFiles(r.Path, time.Now())
	if err != nil {
		r.config.Logger.Warn("failed to remove stale temp files", "path", r.Path, "error", err)
	}
	if removed > 0 {
		r.config.Logger.Debug("removed stale temp files", "path", r.Path, "count", removed)
	}
}

func (r *Repository) filename(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(r.Path, key+FileExt), nil
}

// Read returns the content of the key's file, or core.ErrNotFound.
func (r *Repository) Read(ctx context.Context, key string) ([]byte, error) {
	name, err := r.filename(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Write atomically replaces the key's file.
func (r *Repository) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := r.filename(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	r.config.Logger.Debug("writing notes to disk", "key", key, "path", name, "bytes", len(data))

	// Record before the rename so the watcher never mistakes our own write
	// for an external change.
	r.mu.Lock()
	prev, hadPrev := r.written[key]
	r.written[key] = sha256.Sum256(data)
	r.mu.Unlock()

	if err := replaceFile(name, data); err != nil {
		r.mu.Lock()
		if hadPrev {
			r.written[key] = prev
		} else {
			delete(r.written, key)
		}
		r.mu.Unlock()
		return err
	}
	return nil
}

// isOwnWrite reports whether the key's file holds exactly what we last wrote.
func (r *Repository) isOwnWrite(key string) bool {
	name, err := r.filename(key)
	if err != nil {
		return false
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	digest, ok := r.written[key]
	return ok && digest == sha256.Sum256(data)
}

// Watch emits a core.EventReload whenever another process changes the key's
// file. Our own writes are filtered out. The channel is closed when ctx ends.
func (r *Repository) Watch(ctx context.Context, key string) (<-chan core.Event, error) {
	if _, err := r.filename(key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	events := make(chan core.Event, 16)
	w := newWatchWorker(r, key, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

var _ core.Backend = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
