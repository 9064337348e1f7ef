package view

import (
	"bytes"
	"html/template"
	"io"
)

var tableTemplate = template.Must(template.New("table").Parse(`<table class="records" id="{{.App}}-content">
<thead><tr>{{range .Columns}}<th>{{.Header}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr data-id="{{.ID}}"{{if .Highlight}} class="highlight"{{end}}>{{range .Cells}}<td{{if .Class}} class="{{.Class}}"{{end}}>{{if .HTML}}{{.HTML}}{{else}}{{.Text}}{{end}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>`))

var badgesTemplate = template.Must(template.New("badges").Parse(`<div class="badges">
{{- range .}}<span class="badge {{.Class}}">{{.Value}} {{.Label}}</span>{{end -}}
</div>`))

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{.Badges}}
{{.Table}}
</body>
</html>
`))

// RenderTable writes the table markup shared by list and print views.
func RenderTable(w io.Writer, t Table) error {
	return tableTemplate.Execute(w, t)
}

// TableHTML returns the table markup for embedding in another template.
func TableHTML(t Table) (template.HTML, error) {
	var buf bytes.Buffer
	if err := RenderTable(&buf, t); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

// BadgesHTML returns the badge strip markup.
func BadgesHTML(badges []Badge) (template.HTML, error) {
	var buf bytes.Buffer
	if err := badgesTemplate.Execute(&buf, badges); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

// RenderPage writes a minimal list view page: title, badges and table.
func RenderPage(w io.Writer, t Table) error {
	table, err := TableHTML(t)
	if err != nil {
		return err
	}
	badges, err := BadgesHTML(t.Badges)
	if err != nil {
		return err
	}
	return pageTemplate.Execute(w, struct {
		Title  string
		Badges template.HTML
		Table  template.HTML
	}{t.Title, badges, table})
}
