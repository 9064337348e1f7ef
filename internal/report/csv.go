package report

import (
	"encoding/csv"
	"io"

	"warburtonsos/internal/view"
)

// RenderCSV writes the header row followed by one line per record. Cells
// carry their plain text; notes are written as their Markdown source.
func RenderCSV(w io.Writer, t view.Table) error {
	writer := csv.NewWriter(w)
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
	}
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		record := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			record[i] = cell.Text
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
