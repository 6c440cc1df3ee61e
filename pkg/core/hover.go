package core

import (
	"fmt"
	"io"
	"log/slog"
)

// HoverResolver answers tooltip queries straight from the store.
// It never mutates, never persists and never panics.
type HoverResolver struct {
	store  *Store
	logger *slog.Logger
}

func NewHoverResolver(store *Store, logger *slog.Logger) *HoverResolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &HoverResolver{store: store, logger: logger}
}

// Resolve returns the text of the first note at line of file.
func (h *HoverResolver) Resolve(file string, line int) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Warn("hover lookup failed", "file", file, "line", line, "error", fmt.Sprint(r))
			text, ok = "", false
		}
	}()

	if h.store == nil {
		return "", false
	}
	n, found := h.store.Note(file, line)
	if !found {
		return "", false
	}
	return n.Text, true
}
