package engine

import (
	"strings"
	"testing"

	"github.com/radathip2391/Recheck-Excel/internal/config"
	"github.com/radathip2391/Recheck-Excel/internal/model"
	"github.com/radathip2391/Recheck-Excel/internal/reference"
)

// makeTable builds a record table from raw strings the way the loader
// would resolve plain text cells.
func makeTable(columns []string, rows [][]string) *model.RecordTable {
	table := &model.RecordTable{Sheet: "employees", Columns: columns}
	for _, raw := range rows {
		cells := make([]model.Cell, len(columns))
		for i := range cells {
			var v string
			if i < len(raw) {
				v = raw[i]
			}
			if model.IsEmptyText(v) {
				cells[i] = model.Cell{Kind: model.CellEmpty, Text: v}
			} else {
				cells[i] = model.Cell{Kind: model.CellText, Text: v}
			}
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func testBoundary(t *testing.T) *reference.BoundaryTable {
	t.Helper()

	data := "10110\tKhlong Toei\tKhlong Toei\tBangkok\n" +
		"10250\tNong Bon\tPrawet\tBangkok\n" +
		"50200\tSi Phum\tMueang Chiang Mai\tChiang Mai\n"

	table, err := reference.ParseBoundary([]byte(data), config.BoundaryConfig{
		Delimiter:      "\t",
		PostalCol:      0,
		SubdivisionCol: 1,
		DistrictCol:    2,
		ProvinceCol:    3,
	})
	if err != nil {
		t.Fatalf("ParseBoundary: %v", err)
	}
	return table
}

func TestValidate_RequiredEmpty(t *testing.T) {
	t.Parallel()

	schema := &Schema{
		RequiredColumns: []int{0},
		DateColumns:     []int{0}, // must not fire on an empty cell
	}
	table := makeTable([]string{"Start Date", "Note"}, [][]string{
		{"nan", "whatever"},
		{"   ", ""},
	})

	got := New(schema, nil).Validate(table, nil)
	if len(got) != 2 {
		t.Fatalf("want 2 violations, got %d: %+v", len(got), got)
	}
	for _, v := range got {
		if v.Severity != model.SeverityRequiredEmpty {
			t.Fatalf("want required_empty, got %q", v.Severity)
		}
		if v.Col != 0 {
			t.Fatalf("violation on wrong column: %d", v.Col)
		}
	}
	if got[0].Row != 0 || got[1].Row != 1 {
		t.Fatalf("violations out of row order: %+v", got)
	}
}

func TestValidate_DateNormalization(t *testing.T) {
	t.Parallel()

	schema := &Schema{DateColumns: []int{0}}
	table := makeTable([]string{"Start Date"}, [][]string{
		{"25.12.2566"},
		{"not a date"},
	})

	got := New(schema, nil).Validate(table, nil)
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %d: %+v", len(got), got)
	}
	if got[0].Row != 1 || got[0].Severity != model.SeverityInvalid {
		t.Fatalf("unexpected violation: %+v", got[0])
	}

	// valid cell rewritten to canonical day/month/year, era corrected
	if v := table.Cell(0, 0).String(); v != "25/12/2023" {
		t.Fatalf("valid date not normalized: %q", v)
	}
	// invalid cell keeps the raw value for the export
	if v := table.Cell(1, 0).String(); v != "not a date" {
		t.Fatalf("invalid date was rewritten: %q", v)
	}
}

func TestValidate_DigitLength(t *testing.T) {
	t.Parallel()

	schema := &Schema{DigitRules: []DigitRule{
		{Keyword: "nationalid", Length: 13, Name: "national ID"},
	}}
	table := makeTable([]string{"National ID"}, [][]string{
		{"1-2345-67890-12"},  // 12 digits after stripping
		{"1 2345 67890 12 3"}, // 13 digits
	})

	got := New(schema, nil).Validate(table, nil)
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %d: %+v", len(got), got)
	}
	if got[0].Row != 0 || !strings.Contains(got[0].Message, "13 digits") {
		t.Fatalf("unexpected violation: %+v", got[0])
	}

	// both cells rewritten to bare digits, valid or not
	if v := table.Cell(0, 0).String(); v != "123456789012" {
		t.Fatalf("digits not stripped: %q", v)
	}
	if v := table.Cell(1, 0).String(); v != "1234567890123" {
		t.Fatalf("digits not stripped: %q", v)
	}
}

func TestValidate_DigitLengthValid(t *testing.T) {
	t.Parallel()

	schema := &Schema{DigitRules: []DigitRule{
		{Keyword: "bankaccount", Length: 10, Name: "bank account"},
	}}
	table := makeTable([]string{"Bank Account No."}, [][]string{
		{"123-4-56789-0"},
	})

	got := New(schema, nil).Validate(table, nil)
	if len(got) != 0 {
		t.Fatalf("want no violations, got %+v", got)
	}
	if v := table.Cell(0, 0).String(); v != "1234567890" {
		t.Fatalf("digits not stripped: %q", v)
	}
}

func TestValidate_Vocabulary(t *testing.T) {
	t.Parallel()

	vocab := model.VocabularySet{
		"prefix": {"Mr.": {}, "Mrs.": {}, "Ms.": {}},
	}
	table := makeTable([]string{"Prefix"}, [][]string{
		{"Mr."},
		{"Dr."},
	})

	got := New(&Schema{}, nil).Validate(table, vocab)
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %d: %+v", len(got), got)
	}
	if got[0].Row != 1 || got[0].Severity != model.SeverityInvalid {
		t.Fatalf("unexpected violation: %+v", got[0])
	}
}

func TestValidate_DiscoveryOrder(t *testing.T) {
	t.Parallel()

	schema := &Schema{RequiredColumns: []int{0, 1}}
	table := makeTable([]string{"A", "B"}, [][]string{
		{"x", ""},
		{"", "y"},
	})

	got := New(schema, nil).Validate(table, nil)
	if len(got) != 2 {
		t.Fatalf("want 2 violations, got %d", len(got))
	}
	if got[0].Row != 0 || got[0].Col != 1 {
		t.Fatalf("first violation out of order: %+v", got[0])
	}
	if got[1].Row != 1 || got[1].Col != 0 {
		t.Fatalf("second violation out of order: %+v", got[1])
	}
}

// A fully valid dataset must produce zero violations, and a second run
// over the normalized table must still produce zero.
func TestValidate_ValidDatasetStable(t *testing.T) {
	t.Parallel()

	schema := &Schema{
		RequiredColumns: []int{0, 1, 2},
		DateColumns:     []int{1},
		DigitRules: []DigitRule{
			{Keyword: "nationalid", Length: 13, Name: "national ID"},
		},
		AddressGroups: []addressGroupSpec{
			{Role: model.AddressRegistered, RoleWord: "registered"},
		},
	}
	columns := []string{
		"Prefix", "Start Date", "National ID",
		"Registered Address Province", "Registered Address District",
		"Registered Address Subdivision", "Registered Address Postal Code",
	}
	table := makeTable(columns, [][]string{
		{"Mr.", "25/12/2566", "1-2345-67890-12-3", "Bangkok", "Prawet", "Nong Bon", "10250"},
	})
	vocab := model.VocabularySet{"prefix": {"Mr.": {}}}

	eng := New(schema, testBoundary(t))

	if got := eng.Validate(table, vocab); len(got) != 0 {
		t.Fatalf("first run: want no violations, got %+v", got)
	}
	if got := eng.Validate(table, vocab); len(got) != 0 {
		t.Fatalf("second run over normalized table: want no violations, got %+v", got)
	}
}

func TestValidate_DegradedSkipsAddress(t *testing.T) {
	t.Parallel()

	schema := &Schema{AddressGroups: []addressGroupSpec{
		{Role: model.AddressRegistered, RoleWord: "registered"},
	}}
	columns := []string{
		"Registered Address Province", "Registered Address District",
		"Registered Address Subdivision", "Registered Address Postal Code",
	}
	table := makeTable(columns, [][]string{
		{"Atlantis", "Nowhere", "Nohood", "00000"},
	})

	eng := New(schema, nil)
	if !eng.Degraded() {
		t.Fatalf("engine with nil boundary must report degraded")
	}
	if got := eng.Validate(table, nil); len(got) != 0 {
		t.Fatalf("degraded run must skip address checks, got %+v", got)
	}
}
