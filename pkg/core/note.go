package core

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Note is a line-anchored annotation.
// Line is 0-based; Text is always trimmed and non-empty once stored.
type Note struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// FileNotes holds the notes of a single file in insertion order.
type FileNotes []Note

// Clone returns an independent copy. It never returns nil.
func (fn FileNotes) Clone() FileNotes {
	out := make(FileNotes, len(fn))
	copy(out, fn)
	return out
}

// At returns the first note anchored at line.
func (fn FileNotes) At(line int) (Note, bool) {
	for _, n := range fn {
		if n.Line == line {
			return n, true
		}
	}
	return Note{}, false
}

// Snapshot maps an absolute file path to that file's notes.
// An absent key and an empty list mean the same thing.
type Snapshot map[string]FileNotes

// Clone returns a deep copy, dropping empty entries.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for file, notes := range s {
		if len(notes) == 0 {
			continue
		}
		out[file] = notes.Clone()
	}
	return out
}

// Files returns the paths that hold at least one note, sorted.
func (s Snapshot) Files() []string {
	files := make([]string, 0, len(s))
	for file, notes := range s {
		if len(notes) > 0 {
			files = append(files, file)
		}
	}
	sort.Strings(files)
	return files
}

// Count returns the total number of notes.
func (s Snapshot) Count() int {
	total := 0
	for _, notes := range s {
		total += len(notes)
	}
	return total
}

// Match returns the subset of files whose path matches the doublestar pattern.
// An empty pattern matches everything.
func (s Snapshot) Match(pattern string) (Snapshot, error) {
	if pattern == "" {
		return s.Clone(), nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	out := make(Snapshot)
	for file, notes := range s {
		if len(notes) == 0 {
			continue
		}
		ok, err := doublestar.Match(pattern, file)
		if err != nil {
			return nil, err
		}
		if ok {
			out[file] = notes.Clone()
		}
	}
	return out, nil
}

// Equal reports whether both snapshots hold the same notes in the same order.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.Files()) != len(other.Files()) {
		return false
	}
	for file, notes := range s {
		theirs := other[file]
		if len(notes) != len(theirs) {
			return false
		}
		for i := range notes {
			if notes[i] != theirs[i] {
				return false
			}
		}
	}
	return true
}

// Frame is what observers receive on every broadcast.
type Frame struct {
	Notes      Snapshot
	ActiveFile string
}
