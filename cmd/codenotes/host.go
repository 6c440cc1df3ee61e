package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/codenotes/pkg/core"
)

// terminalHost plays the editor for one command invocation: the "editor"
// shows file at cursor line, prompts read stdin, and messages go to out.
type terminalHost struct {
	in  *bufio.Reader
	out io.Writer

	mu     sync.Mutex
	file   string
	line   int
	preset *string
}

func newTerminalHost(in io.Reader, out io.Writer) *terminalHost {
	return &terminalHost{in: bufio.NewReader(in), out: out}
}

// focus positions the cursor. An empty file means no editor is open.
func (h *terminalHost) focus(file string, line int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.file = absPath(file)
	h.line = line
}

// answer makes the next prompt return text without reading input.
func (h *terminalHost) answer(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.preset = &text
}

func (h *terminalHost) ActiveFile() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.file, h.file != ""
}

func (h *terminalHost) CursorLine() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.line
}

// PromptText reads one line. End of input counts as a dismissed prompt.
func (h *terminalHost) PromptText(ctx context.Context, prompt string) (string, bool, error) {
	h.mu.Lock()
	preset := h.preset
	h.preset = nil
	h.mu.Unlock()
	if preset != nil {
		return *preset, true, nil
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	fmt.Fprint(h.out, helpStyle.Render(prompt+": "))
	text, err := h.in.ReadString('\n')
	if err == io.EOF && text == "" {
		return "", false, nil
	}
	if err != nil && err != io.EOF {
		return "", false, err
	}
	return strings.TrimRight(text, "\r\n"), true, nil
}

func (h *terminalHost) ShowMessage(text string, severity core.Severity) {
	fmt.Fprintln(h.out, severityStyle(severity).Render(text))
}

func (h *terminalHost) OpenAndHighlight(_ context.Context, file string, line int) error {
	h.focus(file, line)
	fmt.Fprintf(h.out, "→ %s\n", location(file, line))
	return nil
}

// absPath keys notes the way an editor does, by absolute path, so the same
// file reached from different directories shares its notes. Empty stays empty.
func absPath(file string) string {
	if file == "" {
		return ""
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return filepath.Clean(file)
	}
	return abs
}

// location formats a note position the way editors print it, with 1-based lines.
func location(file string, line int) string {
	return fmt.Sprintf("%s:%d", file, line+1)
}

var _ core.Host = (*terminalHost)(nil)
