// Package bolt stores the note snapshot in a bbolt database file.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/introspection"
	bolt "go.etcd.io/bbolt"

	"github.com/aretw0/codenotes/pkg/core"
)

var bucketBlobs = []byte("codenotes")

// Backend implements core.Backend over a single bbolt bucket.
type Backend struct {
	path string
	db   *bolt.DB
}

// Open creates (or opens) the database at path.
func Open(path string) (*Backend, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("bolt db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBlobs)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Backend{path: path, db: db}, nil
}

func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBlobs)
		if bucket == nil {
			return core.ErrNotFound
		}
		raw := bucket.Get([]byte(key))
		if raw == nil {
			return core.ErrNotFound
		}
		// raw is only valid inside the transaction.
		out = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBlobs)
		if bucket == nil {
			return errors.New("codenotes bucket missing")
		}
		return bucket.Put([]byte(key), data)
	})
}

func (b *Backend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	keys := 0
	_ = b.db.View(func(tx *bolt.Tx) error {
		if bucket := tx.Bucket(bucketBlobs); bucket != nil {
			keys = bucket.Stats().KeyN
		}
		return nil
	})
	return map[string]any{
		"path": b.path,
		"keys": keys,
	}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "bolt"
}

var _ core.Backend = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)
