package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Store is the in-memory cache of every note and the sole writer to the backend.
//
// Every mutation follows the same unit of work: lock, mutate the snapshot,
// encode the full snapshot, write it. When the write fails the mutation is
// kept and the store is marked dirty; the next successful write carries the
// full state, so storage converges without a separate retry queue.
type Store struct {
	backend Backend
	key     string
	logger  *slog.Logger

	mu    sync.RWMutex
	notes Snapshot
	dirty bool
	gen   uint64 // bumped by every mutation
}

// NewStore creates an empty store over backend. Call Load to populate it.
func NewStore(backend Backend, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultStorageKey
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		backend: backend,
		key:     key,
		logger:  logger,
		notes:   make(Snapshot),
	}
}

// Key returns the storage slot used by the store.
func (s *Store) Key() string { return s.key }

// Load replaces the in-memory state with the persisted snapshot.
// Read and decode failures are logged and degrade to an empty snapshot.
func (s *Store) Load(ctx context.Context) Snapshot {
	loaded, err := s.read(ctx)
	if err != nil {
		s.logger.Warn("failed to load notes, starting empty", "key", s.key, "error", err)
		loaded = make(Snapshot)
	}

	s.mu.Lock()
	s.notes = loaded
	s.dirty = false
	s.gen++
	s.mu.Unlock()

	return loaded.Clone()
}

// Reload replaces the in-memory state with the persisted snapshot unless
// memory holds something storage may not: the store is dirty, a mutation
// happened while the read was in flight, or the read failed. It reports
// whether the snapshot was replaced.
func (s *Store) Reload(ctx context.Context) (Snapshot, bool) {
	s.mu.RLock()
	dirty, gen := s.dirty, s.gen
	s.mu.RUnlock()
	if dirty {
		return nil, false
	}

	loaded, err := s.read(ctx)
	if err != nil {
		s.logger.Warn("failed to reload notes, keeping memory", "key", s.key, "error", err)
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty || s.gen != gen {
		return nil, false
	}
	s.notes = loaded
	s.gen++
	return loaded.Clone(), true
}

// read fetches and decodes the persisted snapshot. An absent or empty slot
// is an empty snapshot.
func (s *Store) read(ctx context.Context) (Snapshot, error) {
	data, err := s.backend.Read(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return make(Snapshot), nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return make(Snapshot), nil
	}

	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return sanitize(decoded), nil
}

// sanitize drops entries the store would never have written itself.
func sanitize(in Snapshot) Snapshot {
	out := make(Snapshot, len(in))
	for file, notes := range in {
		if file == "" {
			continue
		}
		kept := make(FileNotes, 0, len(notes))
		for _, n := range notes {
			n.Text = strings.TrimSpace(n.Text)
			if n.Line < 0 || n.Text == "" {
				continue
			}
			kept = append(kept, n)
		}
		if len(kept) > 0 {
			out[file] = kept
		}
	}
	return out
}

// AddNote appends a note at line of file and persists the snapshot.
//
// A blank text, empty file or negative line returns ErrValidation and leaves
// the store untouched. A write failure returns ErrPersistence, but the note
// remains in memory for the rest of the session.
func (s *Store) AddNote(ctx context.Context, file string, line int, text string) (Note, error) {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return Note{}, fmt.Errorf("%w: note text is empty", ErrValidation)
	case file == "":
		return Note{}, fmt.Errorf("%w: file is empty", ErrValidation)
	case line < 0:
		return Note{}, fmt.Errorf("%w: line %d is negative", ErrValidation, line)
	}

	note := Note{Line: line, Text: trimmed}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes[file] = append(s.notes[file], note)
	s.gen++
	s.logger.Debug("note added", "file", file, "line", line)

	return note, s.persistLocked(ctx)
}

// DeleteNote removes every note anchored at line of file and returns how
// many were removed. Nothing matching is a no-op: no error, no write.
func (s *Store) DeleteNote(ctx context.Context, file string, line int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.notes[file]
	kept := make(FileNotes, 0, len(notes))
	for _, n := range notes {
		if n.Line != line {
			kept = append(kept, n)
		}
	}

	removed := len(notes) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if len(kept) == 0 {
		delete(s.notes, file)
	} else {
		s.notes[file] = kept
	}
	s.gen++
	s.logger.Debug("notes deleted", "file", file, "line", line, "count", removed)

	return removed, s.persistLocked(ctx)
}

// Save persists the current snapshot.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.notes)
	if err != nil {
		s.dirty = true
		return fmt.Errorf("%w: encode notes: %w", ErrPersistence, err)
	}
	if err := s.backend.Write(ctx, s.key, data); err != nil {
		s.dirty = true
		s.logger.Warn("failed to persist notes, keeping them in memory", "key", s.key, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.dirty = false
	return nil
}

// Dirty reports whether memory holds changes that storage does not.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// NotesForFile returns a copy of the notes of file. It never returns nil.
func (s *Store) NotesForFile(file string) FileNotes {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes[file].Clone()
}

// Note returns the first note at line of file, by insertion order.
func (s *Store) Note(file string, line int) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes[file].At(line)
}

// Snapshot returns a deep copy of every note.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes.Clone()
}
