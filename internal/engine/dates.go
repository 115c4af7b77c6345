package engine

import (
	"strings"
	"time"

	"github.com/radathip2391/Recheck-Excel/internal/model"
)

// dateLayouts is ordered: day-first layouts win on ambiguous input like
// 03/04/2024, which must read as 3 April. Do not reorder.
var dateLayouts = []string{
	"2/1/2006",
	"1/2/2006",
	"2006/1/2",
	"2/1/06",
	"06/1/2",
}

// Years above this threshold are taken as Buddhist-era and shifted back
// 543 years. A best-effort repair for the common regional offset, not a
// universal validator.
const buddhistYearThreshold = 2500

const canonicalDateLayout = "02/01/2006"

// NormalizeDate converts a cell to a calendar date. Typed dates pass
// through; free text is canonicalized (./-/space separators become /) and
// parsed against the ordered layout list. ok is false when no layout
// matches; absent cells never reach here.
func NormalizeDate(c *model.Cell) (time.Time, bool) {
	if c.Kind == model.CellDate {
		return fixBuddhistEra(c.Date), true
	}

	s := strings.TrimSpace(c.Text)
	s = strings.NewReplacer(".", "/", "-", "/", " ", "/").Replace(s)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return fixBuddhistEra(t), true
	}

	return time.Time{}, false
}

// CanonicalDate renders a normalized date in the day/month/year form the
// exported sheet carries.
func CanonicalDate(t time.Time) string {
	return t.Format(canonicalDateLayout)
}

func fixBuddhistEra(t time.Time) time.Time {
	if t.Year() <= buddhistYearThreshold {
		return t
	}
	return time.Date(t.Year()-543, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
