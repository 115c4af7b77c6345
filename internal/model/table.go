package model

// RecordTable is the employee dataset under validation: a header row plus
// data rows of resolved cells. Columns keeps the raw header text; the rules
// match against normalized forms derived from it.
type RecordTable struct {
	Sheet   string
	Columns []string
	Rows    [][]Cell
}

// Cell returns the cell at (row, col), or nil when the row is ragged and
// does not reach that column.
func (t *RecordTable) Cell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return nil
	}
	return &r[col]
}

// ColumnName returns the raw header for a column index, "" when out of range.
func (t *RecordTable) ColumnName(col int) string {
	if col < 0 || col >= len(t.Columns) {
		return ""
	}
	return t.Columns[col]
}

// VocabularySet maps a normalized column name to the set of allowed values
// for that column, sourced from the reference sheet. Immutable for the
// duration of one validation run.
type VocabularySet map[string]map[string]struct{}

// Has reports whether the column carries a controlled vocabulary.
func (v VocabularySet) Has(column string) bool {
	_, ok := v[column]
	return ok
}

// Allowed reports whether value is a member of the column's vocabulary.
// Matching is exact string equality on the trimmed value.
func (v VocabularySet) Allowed(column, value string) bool {
	set, ok := v[column]
	if !ok {
		return false
	}
	_, ok = set[value]
	return ok
}
