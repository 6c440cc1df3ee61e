package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/codenotes/pkg/core"
)

type watchWorker struct {
	*worker.BaseWorker
	repo      *Repository
	key       string
	target    string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(repo *Repository, key string, events chan<- core.Event) *watchWorker {
	target, _ := repo.filename(key)
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		repo:       repo,
		key:        key,
		target:     filepath.Clean(target),
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Atomic writes replace the file, so the directory is watched instead.
	if err := watcher.Add(w.repo.Path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.repo.Path, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(w.repo.config.Debounce)
	w.repo.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"key":               w.key,
		}
	})
}

// relevant filters events down to changes of the watched file.
func (w *watchWorker) relevant(event fsnotify.Event) bool {
	if isTempFile(event.Name) {
		return false
	}
	if filepath.Clean(event.Name) != w.target {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) {
	w.repo.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if !w.relevant(event) {
		return
	}

	w.debouncer.add(core.Event{
		Type:      core.EventReload,
		File:      w.key,
		Timestamp: time.Now().Unix(),
	}, func(e core.Event) {
		if w.repo.isOwnWrite(w.key) {
			return
		}
		w.repo.recordChange()
		w.sendEvent(ctx, e)
	})
}

// sendEvent delivers an event, protecting against channel closure during shutdown.
func (w *watchWorker) sendEvent(ctx context.Context, event core.Event) {
	defer func() {
		_ = recover()
	}()
	select {
	case w.events <- event:
	case <-ctx.Done():
	}
}

func (w *watchWorker) handleWatcherError(err error) {
	w.repo.config.Logger.Error("fsnotify error", "error", err)
	if w.repo.config.ErrorHandler != nil {
		w.repo.config.ErrorHandler(err)
	}
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if w.repo.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.repo.config.Logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				w.repo.config.Logger.Error("watcher panic", "error", panicErr)
			}
			err = panicErr
		}
	}()
	defer close(w.events)
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// In-flight deliveries must finish before the events channel closes.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
