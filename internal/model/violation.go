package model

// Severity classifies a violation. RequiredEmpty cells are marked orange in
// the exported sheet, Invalid cells red.
type Severity string

const (
	SeverityRequiredEmpty Severity = "required_empty"
	SeverityInvalid       Severity = "invalid"
)

// Violation is one recorded rule failure for one cell. Produced once,
// never mutated; collected in discovery order (row-major, then column).
type Violation struct {
	Row        int      `json:"row"`    // 0-based data row index
	Col        int      `json:"col"`    // 0-based column index
	ColumnName string   `json:"columnName"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
}

// SheetRow is the 1-based worksheet row the violation refers to
// (data row 0 sits below the header on worksheet row 2).
func (v Violation) SheetRow() int {
	return v.Row + 2
}
