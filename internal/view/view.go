// Package view projects record lists into display tables with summary badges.
// Projections are pure: they read a slice of records and never touch a store.
package view

import (
	"html/template"

	"warburtonsos/pkg/domain"
)

// Badge is one derived summary figure shown above a table.
type Badge struct {
	Label string `json:"label"`
	Value string `json:"value"`
	// Summary is the longer label used on printed reports.
	Summary string `json:"summary,omitempty"`
	Class   string `json:"class,omitempty"`
}

// PrintLabel returns Summary, falling back to Label.
func (b Badge) PrintLabel() string {
	if b.Summary != "" {
		return b.Summary
	}
	return b.Label
}

// Column is a table header.
type Column struct {
	Key    string `json:"key"`
	Header string `json:"header"`
}

// Cell is one rendered value. HTML is set only for cells that carry rendered
// markup (notes); Text always holds the plain value.
type Cell struct {
	Text  string        `json:"text"`
	Class string        `json:"class,omitempty"`
	HTML  template.HTML `json:"-"`
}

// Row is one record's cells.
type Row struct {
	ID        string `json:"id"`
	Cells     []Cell `json:"cells"`
	Highlight bool   `json:"highlight,omitempty"`
}

// Table is the projection of a full record list.
type Table struct {
	App     domain.AppID `json:"app"`
	Title   string       `json:"title"`
	Columns []Column     `json:"columns"`
	Rows    []Row        `json:"rows"`
	Badges  []Badge      `json:"badges"`
}

// Badge looks up a badge by label.
func (t Table) Badge(label string) (Badge, bool) {
	for _, b := range t.Badges {
		if b.Label == label {
			return b, true
		}
	}
	return Badge{}, false
}

// Projection describes how one record type is displayed.
type Projection[T any] struct {
	Kind      domain.Kind[T]
	Columns   []Column
	Cells     func(T) []Cell
	Highlight func(T) bool
	Badges    func([]T) []Badge
}

// Project renders every record in order. No filtering, sorting or paging.
func (p Projection[T]) Project(items []T) Table {
	t := Table{
		App:     p.Kind.App,
		Title:   p.Kind.Title,
		Columns: append([]Column(nil), p.Columns...),
		Rows:    make([]Row, 0, len(items)),
		Badges:  []Badge{},
	}
	for _, rec := range items {
		row := Row{ID: p.Kind.ID(rec), Cells: p.Cells(rec)}
		if p.Highlight != nil {
			row.Highlight = p.Highlight(rec)
		}
		t.Rows = append(t.Rows, row)
	}
	if p.Badges != nil {
		t.Badges = p.Badges(items)
	}
	return t
}

func countWhere[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}
