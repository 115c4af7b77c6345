package model

import (
	"strings"
	"time"
)

// CellKind is the resolved type of a spreadsheet cell. Every cell is
// resolved to exactly one kind at load time so the rules never have to
// re-guess what a raw string means.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is one cell of the record table. Text always carries the display
// string (the value that ends up in the exported sheet); Number and Date
// are only meaningful for their respective kinds.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

// IsEmpty reports whether the cell counts as absent. Whitespace-only text
// and the literal token "nan" are absent, not format errors.
func (c *Cell) IsEmpty() bool {
	if c.Kind == CellEmpty {
		return true
	}
	return IsEmptyText(c.Text)
}

// String returns the trimmed display value, or "" for an absent cell.
func (c *Cell) String() string {
	if c.IsEmpty() {
		return ""
	}
	return strings.TrimSpace(c.Text)
}

// SetText rewrites the cell to a plain text value. Normalization (canonical
// dates, digit-stripped IDs) goes through here so the exported sheet sees
// the rewritten form.
func (c *Cell) SetText(s string) {
	c.Text = s
	if IsEmptyText(s) {
		c.Kind = CellEmpty
		return
	}
	c.Kind = CellText
}

// IsEmptyText reports whether a raw string counts as an absent value.
func IsEmptyText(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "nan")
}
