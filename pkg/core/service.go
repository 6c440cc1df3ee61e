package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/codenotes/pkg/markup"
)

// DefaultEventBuffer is the capacity of each Watch stream.
const DefaultEventBuffer = 100

// Config wires a Service to its collaborators.
type Config struct {
	Backend     Backend
	Host        Host // optional; without it user notices are only logged
	StorageKey  string
	Logger      *slog.Logger
	EventBuffer int
	// Watch reloads the store when a Watchable backend reports external changes.
	Watch bool
}

// Service handles the note workflows the host drives.
// It owns the store, the active context tracker, the broadcaster and the
// hover resolver; nothing else holds note state.
type Service struct {
	backend     Backend
	host        Host
	logger      *slog.Logger
	store       *Store
	tracker     *Tracker
	broadcaster *Broadcaster
	hover       *HoverResolver

	eventBufferSize int

	mu       sync.RWMutex
	streams  []chan Event
	stopped  bool
	done     chan struct{}
	cancel   context.CancelFunc
	watchEnd chan struct{}
}

// Start loads the persisted notes and returns a running service.
func Start(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.Backend == nil {
		return nil, errors.New("a persistence backend is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	bufSize := cfg.EventBuffer
	if bufSize <= 0 {
		bufSize = DefaultEventBuffer
	}

	store := NewStore(cfg.Backend, cfg.StorageKey, logger)
	broadcaster := NewBroadcaster(store, nil, logger)
	tracker := NewTracker(broadcaster.Notify)
	broadcaster.SetTracker(tracker)

	s := &Service{
		backend:         cfg.Backend,
		host:            cfg.Host,
		logger:          logger,
		store:           store,
		tracker:         tracker,
		broadcaster:     broadcaster,
		hover:           NewHoverResolver(store, logger),
		eventBufferSize: bufSize,
		done:            make(chan struct{}),
	}

	loaded := store.Load(ctx)
	logger.Debug("notes loaded", "files", len(loaded.Files()), "notes", loaded.Count())

	if cfg.Host != nil {
		if file, ok := cfg.Host.ActiveFile(); ok {
			tracker.SetActive(file)
		}
	}

	if cfg.Watch {
		if err := s.startWatch(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Service) startWatch(ctx context.Context) error {
	w, ok := s.backend.(Watchable)
	if !ok {
		s.logger.Debug("backend does not support watching, external changes are ignored")
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	changes, err := w.Watch(runCtx, s.store.Key())
	if err != nil {
		cancel()
		return fmt.Errorf("failed to watch backend: %w", err)
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.cancel = cancel
	s.watchEnd = done
	s.mu.Unlock()

	lifecycle.Go(runCtx, func(ctx context.Context) error {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-changes:
				if !ok {
					return nil
				}
				s.reload(ctx)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("backend watch loop failed", "error", err)
	}))
	return nil
}

// reload pulls an externally modified snapshot. Unsaved or concurrent
// changes in memory win.
func (s *Service) reload(ctx context.Context) {
	loaded, ok := s.store.Reload(ctx)
	if !ok {
		s.logger.Warn("external change ignored, memory holds newer notes")
		return
	}
	s.logger.Debug("notes reloaded", "notes", loaded.Count())
	s.publish(newEvent(EventReload, "", 0))
	s.broadcaster.Notify()
}

// Stop tears the service down: the watcher ends, a dirty store is flushed,
// observers and event streams are released and the backend is closed.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.done)
	cancel, done := s.cancel, s.watchEnd
	s.mu.Unlock()

	var errs []error
	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("waiting for watcher: %w", ctx.Err()))
		}
	}

	if s.store.Dirty() {
		if err := s.store.Save(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	s.broadcaster.Close()

	s.mu.Lock()
	for _, ch := range s.streams {
		close(ch)
	}
	s.streams = nil
	s.mu.Unlock()

	if c, ok := s.backend.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close backend: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		return ErrStopped
	}
	return nil
}

func (s *Service) show(text string, severity Severity) {
	if s.host == nil {
		s.logger.Info("notice", "text", text, "severity", severity.String())
		return
	}
	s.host.ShowMessage(text, severity)
}

// --- Commands ---

// AddNoteAtCursor prompts for a note and anchors it at the host's caret.
// Cancelling the prompt aborts before anything is stored.
func (s *Service) AddNoteAtCursor(ctx context.Context) error {
	if err := s.running(); err != nil {
		return err
	}
	if s.host == nil {
		return ErrNoActiveEditor
	}
	file, ok := s.host.ActiveFile()
	if !ok {
		s.show("No active editor found", SeverityWarning)
		return ErrNoActiveEditor
	}
	line := s.host.CursorLine()

	text, ok, err := s.host.PromptText(ctx, "Enter note for this line")
	if err != nil {
		s.logger.Error("prompt failed", "error", err)
		s.show("Unexpected error while adding note", SeverityError)
		return fmt.Errorf("prompt failed: %w", err)
	}
	if !ok || strings.TrimSpace(text) == "" {
		s.show("Note not saved (empty)", SeverityInfo)
		return nil
	}

	_, err = s.AddNote(ctx, file, line, text)
	return err
}

// AddNote stores a note and broadcasts the new state.
// On ErrPersistence the note is still broadcast: it lives in memory.
func (s *Service) AddNote(ctx context.Context, file string, line int, text string) (Note, error) {
	if err := s.running(); err != nil {
		return Note{}, err
	}

	note, err := s.store.AddNote(ctx, file, line, text)
	switch {
	case errors.Is(err, ErrValidation):
		s.show("Note not saved (empty)", SeverityInfo)
		return Note{}, err
	case errors.Is(err, ErrPersistence):
		s.show("Failed to save note", SeverityError)
	case err == nil:
		s.show(fmt.Sprintf("%s Note saved for line %d", markup.NoteMarker, line+1), SeverityInfo)
	default:
		return Note{}, err
	}

	s.publish(newEvent(EventAdd, file, line))
	s.broadcaster.Notify()
	return note, err
}

// ViewNoteAtCursor shows the note under the caret as a transient message.
func (s *Service) ViewNoteAtCursor(ctx context.Context) error {
	if err := s.running(); err != nil {
		return err
	}
	if s.host == nil {
		return ErrNoActiveEditor
	}
	file, ok := s.host.ActiveFile()
	if !ok {
		s.show("No active editor found", SeverityWarning)
		return ErrNoActiveEditor
	}
	if text, ok := s.hover.Resolve(file, s.host.CursorLine()); ok {
		s.show(markup.Message(text), SeverityInfo)
	} else {
		s.show("No note for this line", SeverityInfo)
	}
	return nil
}

// DeleteNote removes every note at line of file and broadcasts.
func (s *Service) DeleteNote(ctx context.Context, file string, line int) (int, error) {
	if err := s.running(); err != nil {
		return 0, err
	}
	removed, err := s.store.DeleteNote(ctx, file, line)
	if err != nil {
		s.show("Failed to delete note", SeverityError)
	}
	if removed > 0 {
		s.publish(newEvent(EventDelete, file, line))
	}
	s.broadcaster.Notify()
	return removed, err
}

// Jump asks the host to reveal line of file. It never touches the store.
func (s *Service) Jump(ctx context.Context, file string, line int) error {
	if err := s.running(); err != nil {
		return err
	}
	if s.host == nil {
		return ErrNoActiveEditor
	}
	if err := s.host.OpenAndHighlight(ctx, file, line); err != nil {
		s.logger.Warn("failed to open note location", "file", file, "line", line, "error", err)
		s.show("Could not open "+file, SeverityError)
		return err
	}
	return nil
}

// FocusChanged records the new active file (empty for none) and broadcasts.
func (s *Service) FocusChanged(file string) {
	if s.running() != nil {
		return
	}
	s.publish(newEvent(EventFocus, file, 0))
	s.tracker.SetActive(file)
}

// --- Queries ---

// Hover returns tooltip markdown for the note at line of file.
func (s *Service) Hover(file string, line int) (string, bool) {
	text, ok := s.hover.Resolve(file, line)
	if !ok {
		return "", false
	}
	return markup.Hover(text), true
}

func (s *Service) Note(file string, line int) (Note, bool) {
	return s.store.Note(file, line)
}

func (s *Service) NotesForFile(file string) FileNotes {
	return s.store.NotesForFile(file)
}

func (s *Service) Snapshot() Snapshot {
	return s.store.Snapshot()
}

// ActiveFile returns the focused file tracked by the service.
func (s *Service) ActiveFile() (string, bool) {
	return s.tracker.Active()
}

// --- Panel sync ---

// AttachPanel registers o and immediately sends it a full frame, so a panel
// never depends on state from before it attached.
func (s *Service) AttachPanel(o Observer) (detach func()) {
	if s.running() != nil {
		return func() {}
	}
	detach = s.broadcaster.Subscribe(o)
	s.broadcaster.Push(o)
	return detach
}

// Refresh re-broadcasts the current state (e.g. a panel became visible).
func (s *Service) Refresh() {
	s.broadcaster.Notify()
}

// --- Reactivity ---

// Watch returns a stream of change events. The stream is closed when ctx is
// done or the service stops. Events are dropped, with a warning, when the
// consumer falls more than the buffer size behind.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, ErrStopped
	}

	ch := make(chan Event, s.eventBufferSize)
	s.streams = append(s.streams, ch)

	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, c := range s.streams {
			if c == ch {
				s.streams = append(s.streams[:i:i], s.streams[i+1:]...)
				close(ch)
				return
			}
		}
	}()
	return ch, nil
}

func (s *Service) publish(e Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.streams {
		select {
		case ch <- e:
		default:
			s.logger.Warn("event stream full, dropping event", "event", e.String())
		}
	}
}
