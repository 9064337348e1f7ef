package report

import (
	"html/template"
	"io"
	"time"

	"warburtonsos/internal/view"
)

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} Report</title>
<style>
body { font-family: Arial, sans-serif; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f5f5f5; }
tr.highlight { background-color: #fef2f2; }
.critical, .rejected, .off-track, .stopped, .expense, .inactive, .low-stock { background-color: #fee2e2; color: #991b1b; }
.high { background-color: #ffedd5; color: #9a3412; }
.medium, .pending, .at-risk, .maintenance { background-color: #fef9c3; color: #854d0e; }
.low, .completed, .approved, .on-track, .running, .revenue, .active { background-color: #dcfce7; color: #166534; }
.in-progress { background-color: #dbeafe; color: #1e40af; }
</style>
</head>
<body onload="window.print()">
<h1>{{.Title}} Report</h1>
<p>Generated: {{.Generated}}</p>
{{- if .Badges}}
<div class="summary">
<h2>Summary</h2>
{{- range .Badges}}
<p>{{.PrintLabel}}: {{.Value}}</p>
{{- end}}
</div>
{{- end}}
{{.Table}}
</body>
</html>
`))

// RenderHTML writes a standalone print document for t. The page opens the
// browser print dialog on load.
func RenderHTML(w io.Writer, t view.Table, generatedAt time.Time) error {
	table, err := view.TableHTML(t)
	if err != nil {
		return err
	}
	return printTemplate.Execute(w, struct {
		Title     string
		Generated string
		Badges    []view.Badge
		Table     template.HTML
	}{t.Title, GeneratedStamp(generatedAt), t.Badges, table})
}
