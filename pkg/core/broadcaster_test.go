package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/codenotes/pkg/adapters/memory"
	"github.com/aretw0/codenotes/pkg/core"
)

type recorder struct {
	frames []core.Frame
}

func (r *recorder) Render(f core.Frame) { r.frames = append(r.frames, f) }

func (r *recorder) last(t *testing.T) core.Frame {
	t.Helper()
	require.NotEmpty(t, r.frames, "observer received no frame")
	return r.frames[len(r.frames)-1]
}

func newBroadcaster(t *testing.T) (*core.Broadcaster, *core.Store, *core.Tracker) {
	t.Helper()
	store := core.NewStore(memory.New(), "", nil)
	b := core.NewBroadcaster(store, nil, nil)
	tracker := core.NewTracker(b.Notify)
	b.SetTracker(tracker)
	return b, store, tracker
}

func TestBroadcaster_NoObserversIsNoop(t *testing.T) {
	b, _, _ := newBroadcaster(t)
	assert.NotPanics(t, b.Notify)

	// A late observer receives nothing queued from before it subscribed.
	rec := &recorder{}
	b.Subscribe(rec)
	assert.Empty(t, rec.frames)
}

func TestBroadcaster_DeliversInOrder(t *testing.T) {
	b, store, tracker := newBroadcaster(t)
	_, err := store.AddNote(context.Background(), "/a.ts", 1, "note")
	require.NoError(t, err)

	var order []string
	b.Subscribe(core.ObserverFunc(func(core.Frame) { order = append(order, "first") }))
	rec := &recorder{}
	b.Subscribe(rec)

	tracker.SetActive("/a.ts")

	assert.Equal(t, []string{"first"}, order)
	frame := rec.last(t)
	assert.Equal(t, "/a.ts", frame.ActiveFile)
	assert.Equal(t, "note", frame.Notes["/a.ts"][0].Text)
}

func TestBroadcaster_SameFocusStillBroadcasts(t *testing.T) {
	b, _, tracker := newBroadcaster(t)
	rec := &recorder{}
	b.Subscribe(rec)

	tracker.SetActive("/a.ts")
	tracker.SetActive("/a.ts")
	assert.Len(t, rec.frames, 2)

	tracker.SetActive("")
	assert.Equal(t, "", rec.last(t).ActiveFile)
}

func TestBroadcaster_PanickingObserverIsIsolated(t *testing.T) {
	b, _, _ := newBroadcaster(t)
	b.Subscribe(core.ObserverFunc(func(core.Frame) { panic("renderer crashed") }))
	rec := &recorder{}
	b.Subscribe(rec)

	assert.NotPanics(t, b.Notify)
	assert.Len(t, rec.frames, 1)
}

func TestBroadcaster_ObserversGetIndependentCopies(t *testing.T) {
	b, store, _ := newBroadcaster(t)
	_, _ = store.AddNote(context.Background(), "/a.ts", 1, "note")

	b.Subscribe(core.ObserverFunc(func(f core.Frame) { f.Notes["/a.ts"][0].Text = "mutated" }))
	rec := &recorder{}
	b.Subscribe(rec)
	b.Notify()

	assert.Equal(t, "note", rec.last(t).Notes["/a.ts"][0].Text)
	got, _ := store.Note("/a.ts", 1)
	assert.Equal(t, "note", got.Text)
}

func TestBroadcaster_UnsubscribeAndClose(t *testing.T) {
	b, _, _ := newBroadcaster(t)
	rec := &recorder{}
	unsubscribe := b.Subscribe(rec)
	other := &recorder{}
	b.Subscribe(other)

	unsubscribe()
	unsubscribe()
	b.Notify()
	assert.Empty(t, rec.frames)
	assert.Len(t, other.frames, 1)
	assert.Equal(t, 1, b.Len())

	b.Close()
	b.Notify()
	assert.Len(t, other.frames, 1)
	b.Subscribe(rec)
	assert.Zero(t, b.Len())
}

func TestHoverResolver(t *testing.T) {
	store := core.NewStore(memory.New(), "", nil)
	_, _ = store.AddNote(context.Background(), "/a.ts", 4, "fix bug")
	h := core.NewHoverResolver(store, nil)

	text, ok := h.Resolve("/a.ts", 4)
	assert.True(t, ok)
	assert.Equal(t, "fix bug", text)

	_, ok = h.Resolve("/a.ts", 5)
	assert.False(t, ok)

	empty := core.NewHoverResolver(nil, nil)
	_, ok = empty.Resolve("/a.ts", 4)
	assert.False(t, ok)
}
