package view

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// notesRenderer turns free-text notes into HTML. Raw HTML in the source is
// dropped because WithUnsafe is not set.
var notesRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderNotes converts Markdown notes to HTML, escaping the text on failure.
func RenderNotes(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := notesRenderer.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec // escaped above
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark output with raw HTML omitted
}

func notesCell(src string) Cell {
	return Cell{Text: src, HTML: RenderNotes(src)}
}
