package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/codenotes/pkg/core"
)

func TestSnapshot_Clone(t *testing.T) {
	orig := core.Snapshot{
		"/a.ts":     {{Line: 1, Text: "one"}},
		"/empty.ts": {},
	}
	clone := orig.Clone()
	clone["/a.ts"][0].Text = "changed"

	assert.Equal(t, "one", orig["/a.ts"][0].Text)
	_, ok := clone["/empty.ts"]
	assert.False(t, ok, "empty lists are dropped")
	assert.True(t, orig.Equal(core.Snapshot{"/a.ts": {{Line: 1, Text: "one"}}}))
}

func TestSnapshot_Match(t *testing.T) {
	snap := core.Snapshot{
		"/repo/src/main.go":      {{Line: 1, Text: "a"}},
		"/repo/src/util/util.go": {{Line: 2, Text: "b"}},
		"/repo/web/app.ts":       {{Line: 3, Text: "c"}},
	}

	got, err := snap.Match("/repo/**/*.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"/repo/src/main.go", "/repo/src/util/util.go"}, got.Files())

	got, err = snap.Match("")
	require.NoError(t, err)
	assert.Len(t, got.Files(), 3)

	_, err = snap.Match("/repo/[")
	assert.Error(t, err)
}

func TestEvent_String(t *testing.T) {
	tests := []struct {
		event core.Event
		want  string
	}{
		{core.Event{Type: core.EventAdd, File: "/a.ts", Line: 4}, "ADD /a.ts:5"},
		{core.Event{Type: core.EventFocus, File: "/b.ts"}, "FOCUS /b.ts"},
		{core.Event{Type: core.EventFocus}, "FOCUS <none>"},
		{core.Event{Type: core.EventReload}, "RELOAD"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.event.String())
	}
}
