package panel

import (
	"strings"

	"github.com/aretw0/codenotes/pkg/core"
)

// Group is one file section of the panel.
type Group struct {
	File  string
	Notes []core.Note
}

// View is what the panel shows after client-side filtering.
type View struct {
	ActiveFile string
	Query      string
	Groups     []Group
	Total      int // notes in scope before filtering
	Shown      int
}

// Matches reports whether text contains query, ignoring case.
// An empty query matches everything.
func Matches(text, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(query))
}

// BuildView scopes the frame to the active file (or every file when none is
// focused) and applies the query. Notes keep their insertion order.
func BuildView(frame core.Frame, query string) View {
	v := View{ActiveFile: frame.ActiveFile, Query: strings.TrimSpace(query)}

	files := frame.Notes.Files()
	if frame.ActiveFile != "" {
		files = []string{frame.ActiveFile}
	}

	for _, file := range files {
		notes := frame.Notes[file]
		g := Group{File: file, Notes: make([]core.Note, 0, len(notes))}
		for _, n := range notes {
			v.Total++
			if Matches(n.Text, v.Query) {
				g.Notes = append(g.Notes, n)
			}
		}
		v.Shown += len(g.Notes)
		if len(g.Notes) > 0 || frame.ActiveFile != "" {
			v.Groups = append(v.Groups, g)
		}
	}
	return v
}
