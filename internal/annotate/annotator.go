package annotate

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/radathip2391/Recheck-Excel/internal/model"
)

// Fill colors for the two severities, from the import template the HR
// side already knows: orange for blanks, red for wrong data.
const (
	colorRequiredEmpty = "FFCC99"
	colorInvalid       = "FFC7CE"
)

const commentAuthor = "recheck"

// numFmtText is the built-in "@" number format; it keeps leading zeros and
// long digit strings from being reinterpreted as numbers on reopen.
const numFmtText = 49

// Apply turns the uploaded workbook into the annotated artifact, in place:
// the record sheet moves first and is rewritten from the (normalized)
// table, every column of every sheet is forced to text representation, and
// each violating cell gets its severity fill plus a comment carrying the
// reason. Rows, columns and the other sheets' contents are untouched.
func Apply(f *excelize.File, table *model.RecordTable, violations []model.Violation) error {
	if err := moveRecordSheetFirst(f, table.Sheet); err != nil {
		return err
	}

	for _, sheet := range f.GetSheetList() {
		if err := forceTextColumns(f, sheet); err != nil {
			return fmt.Errorf("retype sheet %q: %w", sheet, err)
		}
	}

	if err := rewriteRecordCells(f, table); err != nil {
		return err
	}

	if err := markViolations(f, table, violations); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return nil
}

func moveRecordSheetFirst(f *excelize.File, sheet string) error {
	list := f.GetSheetList()
	if len(list) == 0 || list[0] == sheet {
		return nil
	}
	if err := f.MoveSheet(sheet, list[0]); err != nil {
		return fmt.Errorf("reorder sheets: %w", err)
	}
	return nil
}

// forceTextColumns applies the text number format to every used column of
// a sheet without touching values.
func forceTextColumns(f *excelize.File, sheet string) error {
	maxCol, _, err := sheetMaxColRow(f, sheet)
	if err != nil {
		return err
	}
	if maxCol < 1 {
		return nil
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: numFmtText})
	if err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(maxCol)
	if err != nil {
		return err
	}
	return f.SetColStyle(sheet, "A:"+lastCol, style)
}

// rewriteRecordCells writes the validated table back over the record
// sheet as explicit strings. The table already holds the normalized
// values (canonical dates, digit-stripped IDs), so this is where they
// land in the artifact.
func rewriteRecordCells(f *excelize.File, table *model.RecordTable) error {
	for row, cells := range table.Rows {
		for col := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(table.Sheet, cell, cells[col].Text); err != nil {
				return fmt.Errorf("rewrite cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

func markViolations(f *excelize.File, table *model.RecordTable, violations []model.Violation) error {
	styles := map[model.Severity]int{}
	for _, severity := range []model.Severity{model.SeverityRequiredEmpty, model.SeverityInvalid} {
		id, err := f.NewStyle(violationStyle(severity))
		if err != nil {
			return err
		}
		styles[severity] = id
	}

	for _, v := range violations {
		cell, err := excelize.CoordinatesToCellName(v.Col+1, v.SheetRow())
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(table.Sheet, cell, cell, styles[v.Severity]); err != nil {
			return fmt.Errorf("style cell %s: %w", cell, err)
		}
		if err := f.AddComment(table.Sheet, excelize.Comment{
			Cell:   cell,
			Author: commentAuthor,
			Paragraph: []excelize.RichTextRun{
				{Text: v.Message},
			},
		}); err != nil {
			return fmt.Errorf("comment cell %s: %w", cell, err)
		}
	}
	return nil
}

func violationStyle(severity model.Severity) *excelize.Style {
	color := colorInvalid
	if severity == model.SeverityRequiredEmpty {
		color = colorRequiredEmpty
	}
	return &excelize.Style{
		NumFmt: numFmtText,
		Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	}
}

func sheetMaxColRow(f *excelize.File, sheet string) (int, int, error) {
	dim, err := f.GetSheetDimension(sheet)
	if err != nil {
		return 0, 0, err
	}
	parts := strings.Split(dim, ":")
	maxCell := parts[len(parts)-1]
	maxCol, maxRow, err := excelize.CellNameToCoordinates(maxCell)
	if err != nil {
		return 0, 0, err
	}
	return maxCol, maxRow, nil
}
