package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/codenotes/pkg/adapters/memory"
	"github.com/aretw0/codenotes/pkg/core"
)

type notice struct {
	text     string
	severity core.Severity
}

// fakeHost implements core.Host in memory.
type fakeHost struct {
	file      string
	line      int
	reply     string
	cancel    bool
	promptErr error
	openErr   error

	prompts  int
	notices  []notice
	openedAt []core.Note
}

func (h *fakeHost) ActiveFile() (string, bool) { return h.file, h.file != "" }
func (h *fakeHost) CursorLine() int            { return h.line }

func (h *fakeHost) PromptText(ctx context.Context, message string) (string, bool, error) {
	h.prompts++
	if h.promptErr != nil {
		return "", false, h.promptErr
	}
	return h.reply, !h.cancel, nil
}

func (h *fakeHost) ShowMessage(text string, severity core.Severity) {
	h.notices = append(h.notices, notice{text, severity})
}

func (h *fakeHost) OpenAndHighlight(ctx context.Context, file string, line int) error {
	if h.openErr != nil {
		return h.openErr
	}
	h.openedAt = append(h.openedAt, core.Note{Line: line, Text: file})
	return nil
}

func (h *fakeHost) lastNotice(t *testing.T) notice {
	t.Helper()
	require.NotEmpty(t, h.notices)
	return h.notices[len(h.notices)-1]
}

func startService(t *testing.T, host core.Host, backend core.Backend) *core.Service {
	t.Helper()
	if backend == nil {
		backend = memory.New()
	}
	svc, err := core.Start(context.Background(), core.Config{Backend: backend, Host: host})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })
	return svc
}

func TestStart_RequiresBackend(t *testing.T) {
	_, err := core.Start(context.Background(), core.Config{})
	assert.Error(t, err)
}

func TestService_AddAndHover(t *testing.T) {
	host := &fakeHost{file: "/a.ts", line: 4, reply: "fix bug"}
	svc := startService(t, host, nil)
	ctx := context.Background()

	require.NoError(t, svc.AddNoteAtCursor(ctx))
	assert.Equal(t, notice{"📝 Note saved for line 5", core.SeverityInfo}, host.lastNotice(t))

	note, ok := svc.Note("/a.ts", 4)
	require.True(t, ok)
	assert.Equal(t, "fix bug", note.Text)

	markup, ok := svc.Hover("/a.ts", 4)
	require.True(t, ok)
	assert.Contains(t, markup, "fix bug")

	_, ok = svc.Hover("/a.ts", 5)
	assert.False(t, ok)
}

func TestService_AddCancelledDoesNotMutate(t *testing.T) {
	for _, host := range []*fakeHost{
		{file: "/a.ts", cancel: true},
		{file: "/a.ts", reply: "   "},
	} {
		backend := memory.New()
		svc := startService(t, host, backend)

		require.NoError(t, svc.AddNoteAtCursor(context.Background()))
		assert.Equal(t, notice{"Note not saved (empty)", core.SeverityInfo}, host.lastNotice(t))
		assert.Empty(t, svc.Snapshot())
		assert.Zero(t, backend.Writes())
	}
}

func TestService_AddWithoutEditor(t *testing.T) {
	host := &fakeHost{}
	svc := startService(t, host, nil)

	err := svc.AddNoteAtCursor(context.Background())
	assert.ErrorIs(t, err, core.ErrNoActiveEditor)
	assert.Equal(t, core.SeverityWarning, host.lastNotice(t).severity)
	assert.Zero(t, host.prompts, "no prompt without an editor")
}

func TestService_PromptError(t *testing.T) {
	host := &fakeHost{file: "/a.ts", promptErr: errors.New("input closed")}
	svc := startService(t, host, nil)

	err := svc.AddNoteAtCursor(context.Background())
	assert.Error(t, err)
	assert.Equal(t, core.SeverityError, host.lastNotice(t).severity)
	assert.Empty(t, svc.Snapshot())
}

func TestService_WriteFailureKeepsNoteAndNotifies(t *testing.T) {
	backend := memory.New()
	host := &fakeHost{file: "/a.ts", line: 4, reply: "fix bug"}
	svc := startService(t, host, backend)

	rec := &recorder{}
	svc.AttachPanel(rec)

	backend.FailWrites(errors.New("storage unavailable"))
	err := svc.AddNoteAtCursor(context.Background())
	require.ErrorIs(t, err, core.ErrPersistence)

	assert.Equal(t, notice{"Failed to save note", core.SeverityError}, host.lastNotice(t))
	note, ok := svc.Note("/a.ts", 4)
	require.True(t, ok)
	assert.Equal(t, "fix bug", note.Text)
	assert.Len(t, rec.last(t).Notes["/a.ts"], 1, "the panel still shows the in-memory note")
}

func TestService_AttachPanelGetsFreshFrame(t *testing.T) {
	backend := memory.New()
	seed := core.NewStore(backend, "", nil)
	_, err := seed.AddNote(context.Background(), "/b.ts", 2, "existing")
	require.NoError(t, err)

	host := &fakeHost{file: "/b.ts"}
	svc := startService(t, host, backend)

	rec := &recorder{}
	detach := svc.AttachPanel(rec)
	defer detach()

	require.Len(t, rec.frames, 1, "attach pushes a frame without any later action")
	frame := rec.frames[0]
	assert.Equal(t, "/b.ts", frame.ActiveFile)
	assert.Equal(t, core.FileNotes{{Line: 2, Text: "existing"}}, frame.Notes["/b.ts"])
}

func TestService_DeleteAndFocusBroadcast(t *testing.T) {
	svc := startService(t, &fakeHost{}, nil)
	ctx := context.Background()

	rec := &recorder{}
	svc.AttachPanel(rec)

	_, _ = svc.AddNote(ctx, "/a.ts", 3, "one")
	_, _ = svc.AddNote(ctx, "/a.ts", 3, "two")

	removed, err := svc.DeleteNote(ctx, "/a.ts", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Empty(t, rec.last(t).Notes)

	svc.FocusChanged("/c.ts")
	assert.Equal(t, "/c.ts", rec.last(t).ActiveFile)
	active, ok := svc.ActiveFile()
	assert.True(t, ok)
	assert.Equal(t, "/c.ts", active)

	count := len(rec.frames)
	svc.Refresh()
	assert.Len(t, rec.frames, count+1)
}

func TestService_ViewNoteAtCursor(t *testing.T) {
	host := &fakeHost{file: "/a.ts", line: 1}
	svc := startService(t, host, nil)

	require.NoError(t, svc.ViewNoteAtCursor(context.Background()))
	assert.Equal(t, "No note for this line", host.lastNotice(t).text)

	_, _ = svc.AddNote(context.Background(), "/a.ts", 1, "look here")
	require.NoError(t, svc.ViewNoteAtCursor(context.Background()))
	assert.Equal(t, "📝 look here", host.lastNotice(t).text)
}

func TestService_Jump(t *testing.T) {
	host := &fakeHost{}
	svc := startService(t, host, nil)

	require.NoError(t, svc.Jump(context.Background(), "/a.ts", 7))
	assert.Equal(t, []core.Note{{Line: 7, Text: "/a.ts"}}, host.openedAt)

	host.openErr = errors.New("file moved")
	assert.Error(t, svc.Jump(context.Background(), "/gone.ts", 1))
	assert.Equal(t, core.SeverityError, host.lastNotice(t).severity)
}

func TestService_WatchEvents(t *testing.T) {
	svc := startService(t, &fakeHost{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := svc.Watch(ctx)
	require.NoError(t, err)

	_, _ = svc.AddNote(context.Background(), "/a.ts", 0, "x")
	_, _ = svc.DeleteNote(context.Background(), "/a.ts", 0)
	svc.FocusChanged("/a.ts")

	var types []core.EventType
	for i := 0; i < 3; i++ {
		select {
		case e := <-events:
			types = append(types, e.Type)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for event")
		}
	}
	assert.Equal(t, []core.EventType{core.EventAdd, core.EventDelete, core.EventFocus}, types)

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok, "stream closes with its context")
	case <-time.After(time.Second):
		t.Fatal("stream not closed")
	}
}

func TestService_StopFlushesAndRejects(t *testing.T) {
	backend := memory.New()
	svc, err := core.Start(context.Background(), core.Config{Backend: backend})
	require.NoError(t, err)

	backend.FailWrites(errors.New("offline"))
	_, err = svc.AddNote(context.Background(), "/a.ts", 1, "pending")
	require.ErrorIs(t, err, core.ErrPersistence)

	events, err := svc.Watch(context.Background())
	require.NoError(t, err)

	backend.FailWrites(nil)
	require.NoError(t, svc.Stop(context.Background()))
	require.NoError(t, svc.Stop(context.Background()), "stop is idempotent")

	_, open := <-events
	assert.False(t, open)

	loaded := core.NewStore(backend, "", nil).Load(context.Background())
	assert.Len(t, loaded["/a.ts"], 1, "dirty notes are flushed on stop")

	_, err = svc.AddNote(context.Background(), "/a.ts", 2, "late")
	assert.ErrorIs(t, err, core.ErrStopped)
	_, err = svc.Watch(context.Background())
	assert.ErrorIs(t, err, core.ErrStopped)

	state, ok := svc.State().(core.ServiceState)
	require.True(t, ok)
	assert.True(t, state.Stopped)
	assert.Equal(t, "memory", state.BackendType)
}

// watchableBackend lets a test announce external changes to the service.
type watchableBackend struct {
	*memory.Backend
	changes chan core.Event
}

func newWatchableBackend() *watchableBackend {
	return &watchableBackend{Backend: memory.New(), changes: make(chan core.Event, 4)}
}

func (b *watchableBackend) Watch(ctx context.Context, key string) (<-chan core.Event, error) {
	return b.changes, nil
}

func (b *watchableBackend) external(t *testing.T, blob string) {
	t.Helper()
	require.NoError(t, b.Backend.Write(context.Background(), core.DefaultStorageKey, []byte(blob)))
	b.changes <- core.Event{Type: core.EventReload, File: core.DefaultStorageKey}
}

func TestService_ExternalChangeReloads(t *testing.T) {
	backend := newWatchableBackend()
	svc, err := core.Start(context.Background(), core.Config{Backend: backend, Watch: true})
	require.NoError(t, err)
	defer svc.Stop(context.Background())

	frames := make(chan core.Frame, 8)
	detach := svc.AttachPanel(core.ObserverFunc(func(f core.Frame) { frames <- f }))
	defer detach()
	<-frames // attach frame

	events, err := svc.Watch(context.Background())
	require.NoError(t, err)

	backend.external(t, `{"/x.go":[{"line":2,"text":"from elsewhere"}]}`)

	select {
	case e := <-events:
		assert.Equal(t, core.EventReload, e.Type)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for reload event")
	}
	select {
	case f := <-frames:
		assert.Equal(t, "from elsewhere", f.Notes["/x.go"][0].Text)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for frame")
	}

	note, ok := svc.Note("/x.go", 2)
	require.True(t, ok)
	assert.Equal(t, "from elsewhere", note.Text)
}

func TestService_ExternalChangeIgnoredWhileDirty(t *testing.T) {
	backend := newWatchableBackend()
	svc, err := core.Start(context.Background(), core.Config{Backend: backend, Watch: true})
	require.NoError(t, err)
	defer svc.Stop(context.Background())

	backend.FailWrites(errors.New("offline"))
	_, err = svc.AddNote(context.Background(), "/a.ts", 1, "unsaved")
	require.ErrorIs(t, err, core.ErrPersistence)
	backend.FailWrites(nil)

	events, err := svc.Watch(context.Background())
	require.NoError(t, err)

	backend.external(t, `{"/x.go":[{"line":0,"text":"theirs"}]}`)

	select {
	case e := <-events:
		t.Fatalf("unexpected event while dirty: %v", e)
	case <-time.After(150 * time.Millisecond):
	}

	_, ok := svc.Note("/a.ts", 1)
	assert.True(t, ok, "memory wins over the external change")
	_, ok = svc.Note("/x.go", 0)
	assert.False(t, ok)
}

func TestService_ReloadRaceKeepsNote(t *testing.T) {
	backend := newStaleBackend()
	watchable := &watchableBackend{changes: make(chan core.Event, 1)}
	svc, err := core.Start(context.Background(), core.Config{
		Backend: struct {
			core.Backend
			core.Watchable
		}{backend, watchable},
		Watch: true,
	})
	require.NoError(t, err)
	defer svc.Stop(context.Background())

	events, err := svc.Watch(context.Background())
	require.NoError(t, err)

	backend.hold.Store(true)
	watchable.changes <- core.Event{Type: core.EventReload}
	<-backend.entered
	backend.hold.Store(false)

	_, err = svc.AddNote(context.Background(), "/a.ts", 4, "fix bug")
	require.NoError(t, err)
	require.Equal(t, core.EventAdd, (<-events).Type)
	close(backend.release)

	// The stale reload is refused silently; the next one goes through.
	watchable.changes <- core.Event{Type: core.EventReload}
	select {
	case e := <-events:
		require.Equal(t, core.EventReload, e.Type)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for reload event")
	}

	note, ok := svc.Note("/a.ts", 4)
	require.True(t, ok, "note added during reload vanished from memory")
	assert.Equal(t, "fix bug", note.Text)

	raw, ok := backend.Raw(core.DefaultStorageKey)
	require.True(t, ok)
	assert.JSONEq(t, `{"/a.ts":[{"line":4,"text":"fix bug"}]}`, string(raw))
}
