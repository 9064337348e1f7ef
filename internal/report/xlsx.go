package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"warburtonsos/internal/view"
)

const maxSheetName = 31

// RenderXLSX writes a single-sheet workbook: title, generated stamp, badge
// summary, then the table. Highlighted rows get a red fill.
func RenderXLSX(w io.Writer, t view.Table, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := t.Title
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}
	if sheet == "" {
		sheet = "Report"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	highlight, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FEE2E2"}},
	})
	if err != nil {
		return err
	}

	row := 1
	put := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
		return nil
	}
	styleRow := func(r, cols, style int) error {
		if cols == 0 {
			return nil
		}
		first, _ := excelize.CoordinatesToCellName(1, r)
		last, _ := excelize.CoordinatesToCellName(cols, r)
		return f.SetCellStyle(sheet, first, last, style)
	}

	if err := put([]any{t.Title + " Report"}); err != nil {
		return err
	}
	if err := styleRow(1, 1, bold); err != nil {
		return err
	}
	if err := put([]any{"Generated: " + GeneratedStamp(generatedAt)}); err != nil {
		return err
	}
	for _, b := range t.Badges {
		if err := put([]any{b.PrintLabel(), b.Value}); err != nil {
			return err
		}
	}
	row++

	headers := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
	}
	headerRow := row
	if err := put(headers); err != nil {
		return err
	}
	if err := styleRow(headerRow, len(headers), bold); err != nil {
		return err
	}
	for _, r := range t.Rows {
		values := make([]any, len(r.Cells))
		for i, c := range r.Cells {
			values[i] = c.Text
		}
		current := row
		if err := put(values); err != nil {
			return err
		}
		if r.Highlight {
			if err := styleRow(current, len(values), highlight); err != nil {
				return err
			}
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
