package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/codenotes/pkg/adapters/bolt"
	"github.com/aretw0/codenotes/pkg/adapters/fs"
	"github.com/aretw0/codenotes/pkg/adapters/memory"
	"github.com/aretw0/codenotes/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterBolt   = "bolt"
	AdapterMemory = "memory"
)

// BoltFile is the database file name used when the bolt path is a directory.
const BoltFile = "notes.db"

var ErrUnknownAdapter = errors.New("unknown adapter")

// OpenBackend builds the persistence backend described by opts.
func OpenBackend(ctx context.Context, opts ...Option) (core.Backend, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return openBackend(ctx, o)
}

func openBackend(ctx context.Context, o *options) (core.Backend, error) {
	if o.backend != nil {
		return o.backend, nil
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	switch o.adapter {
	case AdapterMemory:
		return memory.New(), nil

	case AdapterFS:
		path, err := storagePath(o.path)
		if err != nil {
			return nil, err
		}
		repo := fs.NewRepository(fs.Config{
			Path:         path,
			MustExist:    o.mustExist,
			Logger:       logger.With("adapter", AdapterFS),
			ErrorHandler: o.errorHandler,
		})
		if err := repo.Initialize(ctx); err != nil {
			return nil, err
		}
		return repo, nil

	case AdapterBolt:
		path, err := storagePath(o.path)
		if err != nil {
			return nil, err
		}
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, BoltFile)
		}
		if o.mustExist {
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("database does not exist: %s", path)
			}
		}
		return bolt.Open(path)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, o.adapter)
	}
}

// storagePath falls back to the .codenotes directory of the enclosing
// workspace, or of the working directory when no root is found.
func storagePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	root, err := FindRoot(".")
	if err != nil {
		if root, err = os.Getwd(); err != nil {
			return "", err
		}
	}
	return filepath.Join(root, StorageDir), nil
}

// Start opens the backend and returns a running service.
//
//	svc, err := codenotes.Start(ctx, codenotes.WithAdapter("bolt"), codenotes.WithPath("./notes.db"))
func Start(ctx context.Context, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	backend, err := openBackend(ctx, o)
	if err != nil {
		return nil, err
	}

	svc, err := core.Start(ctx, core.Config{
		Backend:     backend,
		Host:        o.host,
		StorageKey:  o.storageKey,
		Logger:      o.logger,
		EventBuffer: o.eventBuffer,
		Watch:       o.watch,
	})
	if err != nil {
		// Injected backends belong to the caller.
		if closer, ok := backend.(io.Closer); ok && o.backend == nil {
			_ = closer.Close()
		}
		return nil, err
	}
	return svc, nil
}
