package workbook

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/radathip2391/Recheck-Excel/internal/engine"
	"github.com/radathip2391/Recheck-Excel/internal/model"
)

// Expected sheet names of the input workbook.
const (
	SheetEmployees = "employees"
	SheetDetails   = "details (read-only)"
)

// ErrSheetNotFound marks an upload that is missing one of the required
// sheets. It is surfaced to the caller as a single user-facing message.
var ErrSheetNotFound = errors.New("required sheet not found")

// Dataset is one loaded upload: the open workbook, the employee record
// table with every cell resolved to its variant, and the reference
// vocabulary extracted from the details sheet.
type Dataset struct {
	File  *excelize.File
	Table *model.RecordTable
	Vocab model.VocabularySet
}

// Close releases the underlying workbook.
func (d *Dataset) Close() error {
	if d.File != nil {
		return d.File.Close()
	}
	return nil
}

// Load opens an uploaded workbook and extracts the employee table and the
// vocabulary sheet. dateColumns names the column indices whose raw Excel
// serial values should be resolved as typed dates.
func Load(r io.Reader, dateColumns []int) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}

	table, err := loadRecordTable(f, dateColumns)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	vocab, err := loadVocabulary(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Dataset{File: f, Table: table, Vocab: vocab}, nil
}

func loadRecordTable(f *excelize.File, dateColumns []int) (*model.RecordTable, error) {
	if idx, err := f.GetSheetIndex(SheetEmployees); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, SheetEmployees)
	}

	rows, err := f.GetRows(SheetEmployees)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", SheetEmployees, err)
	}
	if len(rows) == 0 {
		return &model.RecordTable{Sheet: SheetEmployees}, nil
	}

	header := rows[0]
	dateCols := make(map[int]struct{}, len(dateColumns))
	for _, c := range dateColumns {
		dateCols[c] = struct{}{}
	}

	table := &model.RecordTable{
		Sheet:   SheetEmployees,
		Columns: header,
		Rows:    make([][]model.Cell, 0, len(rows)-1),
	}

	for rowIdx, row := range rows[1:] {
		cells := make([]model.Cell, len(header))
		for col := range header {
			var text string
			if col < len(row) {
				text = row[col]
			}
			cells[col] = resolveCell(f, rowIdx, col, text, dateCols)
		}
		table.Rows = append(table.Rows, cells)
	}

	return table, nil
}

// resolveCell tags a cell with its variant once, so the rules never infer
// types from strings again. In date columns a numeric raw value that the
// sheet formats differently is an Excel date serial; it becomes a typed
// date here.
func resolveCell(f *excelize.File, rowIdx, col int, formatted string, dateCols map[int]struct{}) model.Cell {
	if model.IsEmptyText(formatted) {
		return model.Cell{Kind: model.CellEmpty}
	}

	if _, isDate := dateCols[col]; isDate {
		if t, ok := dateSerial(f, rowIdx, col, formatted); ok {
			return model.Cell{Kind: model.CellDate, Text: formatted, Date: t}
		}
	}

	if n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(formatted), ",", ""), 64); err == nil {
		return model.Cell{Kind: model.CellNumber, Text: formatted, Number: n}
	}

	return model.Cell{Kind: model.CellText, Text: formatted}
}

// dateSerial reads the raw cell value and converts it when it is an Excel
// date serial. A date-formatted cell shows a rendered date while its raw
// value is the bare serial number, so raw != formatted is the tell.
func dateSerial(f *excelize.File, rowIdx, col int, formatted string) (time.Time, bool) {
	cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
	if err != nil {
		return time.Time{}, false
	}
	raw, err := f.GetCellValue(SheetEmployees, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return time.Time{}, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == strings.TrimSpace(formatted) {
		return time.Time{}, false
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func loadVocabulary(f *excelize.File) (model.VocabularySet, error) {
	if idx, err := f.GetSheetIndex(SheetDetails); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, SheetDetails)
	}

	rows, err := f.GetRows(SheetDetails)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", SheetDetails, err)
	}

	vocab := make(model.VocabularySet)
	if len(rows) == 0 {
		return vocab, nil
	}

	header := rows[0]
	for col, name := range header {
		key := strings.ToLower(engine.NormalizeColumnName(name))
		if key == "" {
			continue
		}
		set := make(map[string]struct{})
		for _, row := range rows[1:] {
			if col >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[col])
			if model.IsEmptyText(v) {
				continue
			}
			set[v] = struct{}{}
		}
		vocab[key] = set
	}

	return vocab, nil
}
