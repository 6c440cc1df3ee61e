// Package markup turns user-controlled note text into markup that is safe to
// embed in the host's tooltip (markdown) and side panel (HTML).
package markup

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// NoteMarker prefixes every note surfaced to the user.
const NoteMarker = "📝"

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"[", `\[`,
	"]", `\]`,
	"(", `\(`,
	")", `\)`,
	"#", `\#`,
	"+", `\+`,
	"-", `\-`,
	"!", `\!`,
	"|", `\|`,
	"~", `\~`,
)

// EscapeMarkdown renders text literally inside markdown that may also honor
// inline HTML. Markdown control characters are backslash-escaped first, then
// HTML metacharacters are turned into entities.
func EscapeMarkdown(text string) string {
	return html.EscapeString(markdownEscaper.Replace(text))
}

// Hover returns the tooltip markdown for a note.
func Hover(text string) string {
	return NoteMarker + " " + EscapeMarkdown(text)
}

// Message returns the plain-text form used in transient notices.
func Message(text string) string {
	return NoteMarker + " " + text
}

var (
	panelPolicy     *bluemonday.Policy
	panelPolicyOnce sync.Once
)

// PanelPolicy allows only the structure the panel template emits.
func PanelPolicy() *bluemonday.Policy {
	panelPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("section", "header", "div", "h2", "h3", "ul", "li", "span", "p", "small", "button")
		p.AllowAttrs("class").Globally()
		p.AllowDataAttributes()
		panelPolicy = p
	})
	return panelPolicy
}

// SanitizePanel strips anything the panel policy does not allow.
func SanitizePanel(doc string) string {
	return PanelPolicy().Sanitize(doc)
}
