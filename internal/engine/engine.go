package engine

import (
	"fmt"
	"strings"

	"github.com/radathip2391/Recheck-Excel/internal/model"
	"github.com/radathip2391/Recheck-Excel/internal/reference"
)

// Messages for the cell-level rules.
const (
	msgRequiredEmpty = "must not be empty: please fill in this field"
	msgInvalidDate   = "invalid date format: use day/month/year (e.g. 25/12/2023)"
	msgNotInVocab    = "value not recognized: choose from the 'details (read-only)' sheet"
)

// Engine evaluates the column rules over a record table. The boundary
// table is injected; a nil boundary means the run is degraded and address
// checks are skipped entirely.
type Engine struct {
	schema   *Schema
	boundary *reference.BoundaryTable
}

// New creates an engine for one schema. boundary may be nil.
func New(schema *Schema, boundary *reference.BoundaryTable) *Engine {
	return &Engine{schema: schema, boundary: boundary}
}

// Degraded reports whether address checks are disabled for this engine.
func (e *Engine) Degraded() bool {
	return e.boundary == nil
}

// Validate runs every rule over the table in row-major order and returns
// the violations in discovery order. Date and digit cells are normalized
// in place as a side effect, so the table afterwards holds exactly what
// the annotated export will carry.
func (e *Engine) Validate(table *model.RecordTable, vocab model.VocabularySet) []model.Violation {
	rules := e.schema.Resolve(table.Columns)

	var violations []model.Violation
	for row := range table.Rows {
		pending := e.pendingAddressViolations(table, row, rules.Groups)

		for col := range table.Columns {
			cell := table.Cell(row, col)
			if cell == nil {
				continue
			}

			if v, ok := e.checkCell(table, rules, vocab, pending, row, col, cell); ok {
				violations = append(violations, v)
			}
		}
	}

	return violations
}

// checkCell evaluates one cell. The required check short-circuits on empty;
// otherwise exactly one rule category applies, in fixed precedence:
// date, digit length, vocabulary, address.
func (e *Engine) checkCell(
	table *model.RecordTable,
	rules *ResolvedRules,
	vocab model.VocabularySet,
	pending map[int]model.Violation,
	row, col int,
	cell *model.Cell,
) (model.Violation, bool) {
	value := cell.String()

	if value == "" {
		if _, required := rules.Required[col]; required {
			return model.Violation{
				Row:        row,
				Col:        col,
				ColumnName: table.ColumnName(col),
				Severity:   model.SeverityRequiredEmpty,
				Message:    msgRequiredEmpty,
			}, true
		}
		return model.Violation{}, false
	}

	if _, isDate := rules.Dates[col]; isDate {
		t, ok := NormalizeDate(cell)
		if !ok {
			// original raw value stays in the output table
			return e.invalid(table, row, col, msgInvalidDate), true
		}
		cell.SetText(CanonicalDate(t))
		return model.Violation{}, false
	}

	if rule, isDigit := rules.Digits[col]; isDigit {
		digits := stripNonDigits(value)
		cell.SetText(digits)
		if len(digits) != rule.Length {
			msg := fmt.Sprintf("%s must have exactly %d digits (got %d)", rule.Name, rule.Length, len(digits))
			return e.invalid(table, row, col, msg), true
		}
		return model.Violation{}, false
	}

	if key := strings.ToLower(rules.Normalized[col]); vocab.Has(key) {
		if !vocab.Allowed(key, value) {
			return e.invalid(table, row, col, msgNotInVocab), true
		}
		return model.Violation{}, false
	}

	if v, ok := pending[col]; ok {
		return v, true
	}

	return model.Violation{}, false
}

// pendingAddressViolations runs the hierarchy check for every resolved
// address group of one row before the column sweep, so address violations
// surface in column order like every other rule.
func (e *Engine) pendingAddressViolations(table *model.RecordTable, row int, groups []model.AddressFieldGroup) map[int]model.Violation {
	if e.boundary == nil {
		return nil
	}

	var pending map[int]model.Violation
	for _, group := range groups {
		if !group.Resolved() {
			continue
		}
		v, ok := checkAddressGroup(table, row, group, e.boundary)
		if !ok {
			continue
		}
		if pending == nil {
			pending = make(map[int]model.Violation, 2)
		}
		pending[v.Col] = v
	}
	return pending
}

func (e *Engine) invalid(table *model.RecordTable, row, col int, message string) model.Violation {
	return model.Violation{
		Row:        row,
		Col:        col,
		ColumnName: table.ColumnName(col),
		Severity:   model.SeverityInvalid,
		Message:    message,
	}
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
