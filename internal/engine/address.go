package engine

import (
	"github.com/radathip2391/Recheck-Excel/internal/model"
	"github.com/radathip2391/Recheck-Excel/internal/reference"
)

// Messages for the address hierarchy checks.
const (
	msgProvinceUnknown    = "province not found in the address database"
	msgDistrictMismatch   = "district not within the given province"
	msgSubdivisionOutside = "subdivision not within the given district"
	msgPostalMismatch     = "postal code does not match the given subdivision"
)

// checkAddressGroup validates one row's address block against the boundary
// table, walking the hierarchy top-down: province, district, subdivision,
// postal code. A level is only checked when every ancestor is present and
// valid; the first failing ancestor blocks all checks below it, so one
// group yields at most one violation per row.
func checkAddressGroup(table *model.RecordTable, row int, group model.AddressFieldGroup, boundary *reference.BoundaryTable) (model.Violation, bool) {
	province := cellValue(table, row, group.Province)
	district := cellValue(table, row, group.District)
	subdivision := cellValue(table, row, group.Subdivision)
	postalCode := cellValue(table, row, group.PostalCode)

	if province == "" {
		return model.Violation{}, false
	}
	if !boundary.HasProvince(province) {
		return addressViolation(table, row, group.Province, msgProvinceUnknown), true
	}

	if district == "" {
		return model.Violation{}, false
	}
	if !boundary.HasDistrict(province, district) {
		return addressViolation(table, row, group.District, msgDistrictMismatch), true
	}

	if subdivision == "" {
		return model.Violation{}, false
	}
	if !boundary.HasSubdivision(province, district, subdivision) {
		return addressViolation(table, row, group.Subdivision, msgSubdivisionOutside), true
	}

	if postalCode == "" {
		return model.Violation{}, false
	}
	if !boundary.HasPostalCode(province, district, subdivision, postalCode) {
		return addressViolation(table, row, group.PostalCode, msgPostalMismatch), true
	}

	return model.Violation{}, false
}

func addressViolation(table *model.RecordTable, row, col int, message string) model.Violation {
	return model.Violation{
		Row:        row,
		Col:        col,
		ColumnName: table.ColumnName(col),
		Severity:   model.SeverityInvalid,
		Message:    message,
	}
}

func cellValue(table *model.RecordTable, row, col int) string {
	c := table.Cell(row, col)
	if c == nil {
		return ""
	}
	return c.String()
}
