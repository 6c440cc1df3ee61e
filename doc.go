// Package codenotes is the Composition Root for the codenotes engine.
//
// It connects the core note logic with the storage adapters, the same
// way an editor extension would: the host drives the service, the service
// owns the notes, and side panels observe full frames.
//
// Features:
//
//   - **Line Notes**: free-form text attached to (file, line) pairs, persisted as one JSON snapshot.
//   - **Active Context**: the focused file drives which notes panels show.
//   - **Full Frames**: observers always receive the complete state, never deltas.
//   - **Pluggable Storage**: filesystem (default), bbolt or in-memory backends via `core.Backend`.
//   - **External Changes**: the filesystem adapter can watch for edits made by other processes.
//
// Usage:
//
//	svc, err := codenotes.Start(ctx,
//		codenotes.WithPath("./.codenotes"),
//		codenotes.WithLogger(logger),
//	)
//	defer svc.Stop(ctx)
//
//	_, err = svc.AddNote(ctx, "/src/main.go", 41, "check the error path")
package codenotes
