// Package report turns projected tables into printable documents (HTML, CSV,
// XLSX) and archives printed copies in the blob store.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"warburtonsos/internal/view"
)

// Format is an output document type.
type Format string

const (
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query value to a Format; empty selects HTML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatHTML, nil
	case FormatHTML, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/html; charset=utf-8"
	}
}

// Extension returns the file extension without a dot.
func (f Format) Extension() string {
	if f == "" {
		return string(FormatHTML)
	}
	return string(f)
}

// Filename builds the download name for a report generated at.
func Filename(t view.Table, f Format, at time.Time) string {
	return fmt.Sprintf("%s-%s.%s", t.App, at.UTC().Format("20060102T150405Z"), f.Extension())
}

// Render writes t in format f.
func Render(w io.Writer, t view.Table, f Format, generatedAt time.Time) error {
	switch f {
	case FormatCSV:
		return RenderCSV(w, t)
	case FormatXLSX:
		return RenderXLSX(w, t, generatedAt)
	case FormatHTML, "":
		return RenderHTML(w, t, generatedAt)
	default:
		return fmt.Errorf("unsupported report format %q", f)
	}
}

// GeneratedStamp renders the "Generated:" timestamp.
func GeneratedStamp(at time.Time) string {
	return at.Format("02/01/2006, 15:04:05")
}
