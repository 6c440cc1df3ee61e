package panel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/codenotes/pkg/core"
	"github.com/aretw0/codenotes/pkg/panel"
)

func TestMatches(t *testing.T) {
	assert.True(t, panel.Matches("Fix Bug", ""))
	assert.True(t, panel.Matches("Fix Bug", "bug"))
	assert.True(t, panel.Matches("Fix Bug", "  FIX "))
	assert.False(t, panel.Matches("Fix Bug", "feature"))
}

func TestBuildView(t *testing.T) {
	snap := core.Snapshot{
		"/b.ts": {{Line: 9, Text: "late"}, {Line: 1, Text: "early"}},
		"/a.ts": {{Line: 0, Text: "top"}},
	}

	t.Run("all files when nothing is focused", func(t *testing.T) {
		v := panel.BuildView(core.Frame{Notes: snap}, "")
		require.Len(t, v.Groups, 2)
		assert.Equal(t, "/a.ts", v.Groups[0].File)
		assert.Equal(t, []core.Note{{Line: 9, Text: "late"}, {Line: 1, Text: "early"}}, v.Groups[1].Notes,
			"insertion order is kept")
		assert.Equal(t, 3, v.Total)
		assert.Equal(t, 3, v.Shown)
	})

	t.Run("active file only", func(t *testing.T) {
		v := panel.BuildView(core.Frame{Notes: snap, ActiveFile: "/b.ts"}, "EAR")
		require.Len(t, v.Groups, 1)
		assert.Equal(t, []core.Note{{Line: 1, Text: "early"}}, v.Groups[0].Notes)
		assert.Equal(t, 2, v.Total)
		assert.Equal(t, 1, v.Shown)
	})

	t.Run("active file without notes", func(t *testing.T) {
		v := panel.BuildView(core.Frame{Notes: snap, ActiveFile: "/new.ts"}, "")
		require.Len(t, v.Groups, 1)
		assert.Empty(t, v.Groups[0].Notes)
	})

	t.Run("filter hides empty groups", func(t *testing.T) {
		v := panel.BuildView(core.Frame{Notes: snap}, "top")
		require.Len(t, v.Groups, 1)
		assert.Equal(t, "/a.ts", v.Groups[0].File)
	})
}

func TestRenderHTML(t *testing.T) {
	v := panel.BuildView(core.Frame{Notes: core.Snapshot{"/a.ts": {{Line: 4, Text: "fix bug"}}}}, "")
	doc, err := panel.RenderHTML("p1", v)
	require.NoError(t, err)

	assert.Contains(t, doc, "All notes")
	assert.Contains(t, doc, `data-panel="p1"`)
	assert.Contains(t, doc, `<span class="line">5</span>`, "lines display 1-based")
	assert.Contains(t, doc, `data-command="delete"`)

	empty, err := panel.RenderHTML("p1", panel.BuildView(core.Frame{Notes: core.Snapshot{}}, ""))
	require.NoError(t, err)
	assert.Contains(t, empty, "No notes yet")
}
