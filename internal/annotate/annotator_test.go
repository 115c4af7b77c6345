package annotate

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/radathip2391/Recheck-Excel/internal/model"
)

func buildFixture(t *testing.T) (*excelize.File, *model.RecordTable) {
	t.Helper()

	f := excelize.NewFile()
	// details first, so Apply has to reorder
	if err := f.SetSheetName("Sheet1", "details (read-only)"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	if _, err := f.NewSheet("employees"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}

	rows := [][]any{
		{"Prefix", "Start Date"},
		{"", "25.12.2566"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("employees", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	// the table a validation run leaves behind: the date already normalized
	table := &model.RecordTable{
		Sheet:   "employees",
		Columns: []string{"Prefix", "Start Date"},
		Rows: [][]model.Cell{
			{
				{Kind: model.CellEmpty, Text: ""},
				{Kind: model.CellText, Text: "25/12/2023"},
			},
		},
	}

	return f, table
}

func TestApply(t *testing.T) {
	t.Parallel()

	f, table := buildFixture(t)
	defer f.Close()

	violations := []model.Violation{
		{Row: 0, Col: 0, ColumnName: "Prefix", Severity: model.SeverityRequiredEmpty, Message: "must not be empty"},
	}

	if err := Apply(f, table, violations); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// record sheet moved first
	if list := f.GetSheetList(); list[0] != "employees" {
		t.Fatalf("record sheet not first: %v", list)
	}

	// normalized values written back as strings
	got, err := f.GetCellValue("employees", "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "25/12/2023" {
		t.Fatalf("normalized value not written: %q", got)
	}

	// the flagged cell carries a comment with the reason
	comments, err := f.GetComments("employees")
	if err != nil {
		t.Fatalf("read comments: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("want 1 comment, got %d", len(comments))
	}
	if comments[0].Cell != "A2" {
		t.Fatalf("comment on wrong cell: %s", comments[0].Cell)
	}
	if comments[0].Author != commentAuthor {
		t.Fatalf("wrong comment author: %q", comments[0].Author)
	}
	if len(comments[0].Paragraph) == 0 || comments[0].Paragraph[0].Text != "must not be empty" {
		t.Fatalf("comment text missing: %+v", comments[0])
	}

	// the flagged cell got a fill style
	styleID, err := f.GetCellStyle("employees", "A2")
	if err != nil {
		t.Fatalf("read style: %v", err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("load style: %v", err)
	}
	// stored colors come back in ARGB form
	if len(style.Fill.Color) == 0 || !strings.HasSuffix(style.Fill.Color[0], "FFCC99") {
		t.Fatalf("required-empty fill missing: %+v", style.Fill)
	}
	if style.NumFmt != numFmtText {
		t.Fatalf("flagged cell must stay text formatted, got numfmt %d", style.NumFmt)
	}
}

func TestApply_NoViolations(t *testing.T) {
	t.Parallel()

	f, table := buildFixture(t)
	defer f.Close()

	if err := Apply(f, table, nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	comments, err := f.GetComments("employees")
	if err != nil {
		t.Fatalf("read comments: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("clean run must not add comments: %+v", comments)
	}
}
