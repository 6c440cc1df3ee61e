package panel

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/aretw0/codenotes/pkg/markup"
)

var panelTemplate = template.Must(template.New("panel").Funcs(template.FuncMap{
	"display": func(line int) int { return line + 1 },
}).Parse(`<section class="codenotes-panel" data-panel="{{.ID}}">
<header><h2>{{if .View.ActiveFile}}{{.View.ActiveFile}}{{else}}All notes{{end}}</h2><small class="count">{{.View.Shown}} of {{.View.Total}}</small></header>
{{- range $g := .View.Groups}}
<div class="file" data-file="{{$g.File}}">
{{- if not $.View.ActiveFile}}<h3>{{$g.File}}</h3>{{end}}
{{- if $g.Notes}}
<ul>
{{- range $g.Notes}}
<li class="note" data-file="{{$g.File}}" data-line="{{.Line}}"><span class="line">{{display .Line}}</span> <span class="text">{{.Text}}</span> <button class="jump" data-command="jump">Go</button> <button class="delete" data-command="delete">Delete</button></li>
{{- end}}
</ul>
{{- else}}
<p class="empty">{{if $.View.Query}}No notes match the filter{{else}}No notes in this file{{end}}</p>
{{- end}}
</div>
{{- else}}
<p class="empty">No notes yet</p>
{{- end}}
</section>`))

// RenderHTML returns the panel document for v. Text is escaped by the template
// and the result is passed through the panel sanitizer policy.
func RenderHTML(id string, v View) (string, error) {
	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, struct {
		ID   string
		View View
	}{id, v}); err != nil {
		return "", fmt.Errorf("failed to render panel: %w", err)
	}
	return markup.SanitizePanel(buf.String()), nil
}
