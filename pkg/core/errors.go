package core

import "errors"

// Common errors.
var (
	// ErrValidation is returned when a note is rejected before any mutation.
	ErrValidation = errors.New("invalid note")

	// ErrPersistence wraps backend read/write failures.
	// Memory stays authoritative when a write fails.
	ErrPersistence = errors.New("persistence failure")

	// ErrNotFound is returned by backends when a key holds no value.
	ErrNotFound = errors.New("key not found")

	ErrNoActiveEditor = errors.New("no active editor")
	ErrStopped        = errors.New("service is stopped")
)
