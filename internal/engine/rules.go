package engine

import (
	"regexp"
	"strings"

	"github.com/radathip2391/Recheck-Excel/internal/model"
)

// DigitRule is a fixed-length digit check bound to a column by header
// keyword. The cell's non-digit characters are stripped before counting,
// and the stripped digits replace the cell value in the output.
type DigitRule struct {
	Keyword string // matched against the lowercased normalized header
	Length  int
	Name    string // human-readable field name used in messages
}

// addressGroupSpec locates one address block by keyword pairs: a column
// belongs to the group when its header carries both the role keyword and
// the level keyword.
type addressGroupSpec struct {
	Role     model.AddressRole
	RoleWord string
}

// Schema is the declarative rule layout of the employee sheet: which
// columns are required, which hold dates, which carry digit-length checks,
// and how the two address blocks are discovered. The column layout is
// fixed; only header text varies (line breaks, spacing).
type Schema struct {
	RequiredColumns []int
	DateColumns     []int
	DigitRules      []DigitRule
	AddressGroups   []addressGroupSpec
}

// DefaultSchema returns the rule layout of the standard employee import
// template.
func DefaultSchema() *Schema {
	return &Schema{
		RequiredColumns: []int{
			0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10,
			12, 13, 14, 15, 16, 17,
			20, 21, 23, 24, 25,
			39, 40, 64, 65,
		},
		DateColumns: []int{1, 25}, // start date, birth date
		DigitRules: []DigitRule{
			{Keyword: "nationalid", Length: 13, Name: "national ID"},
			{Keyword: "bankaccount", Length: 10, Name: "bank account"},
			{Keyword: "socialinsurance", Length: 13, Name: "social insurance number"},
		},
		AddressGroups: []addressGroupSpec{
			{Role: model.AddressRegistered, RoleWord: "registered"},
			{Role: model.AddressContact, RoleWord: "contact"},
		},
	}
}

// ResolvedRules is the schema bound to one concrete header row. Resolution
// happens once per run; per-cell evaluation is lookup only.
type ResolvedRules struct {
	Required   map[int]struct{}
	Dates      map[int]struct{}
	Digits     map[int]DigitRule
	Groups     []model.AddressFieldGroup
	Normalized []string
}

// Resolve binds the schema to a header row: positional rules are clipped to
// the columns actually present, keyword rules are located by matching the
// normalized header text.
func (s *Schema) Resolve(headers []string) *ResolvedRules {
	normalized := make([]string, len(headers))
	lowered := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeColumnName(h)
		lowered[i] = strings.ToLower(normalized[i])
	}

	r := &ResolvedRules{
		Required:   make(map[int]struct{}),
		Dates:      make(map[int]struct{}),
		Digits:     make(map[int]DigitRule),
		Normalized: normalized,
	}

	for _, col := range s.RequiredColumns {
		if col >= 0 && col < len(headers) {
			r.Required[col] = struct{}{}
		}
	}
	for _, col := range s.DateColumns {
		if col >= 0 && col < len(headers) {
			r.Dates[col] = struct{}{}
		}
	}

	for col, h := range lowered {
		if h == "" {
			continue
		}
		for _, rule := range s.DigitRules {
			if strings.Contains(h, rule.Keyword) {
				r.Digits[col] = rule
				break
			}
		}
	}

	for _, spec := range s.AddressGroups {
		r.Groups = append(r.Groups, resolveAddressGroup(spec, lowered))
	}

	return r
}

var addressLevelWords = []struct {
	word string
	set  func(*model.AddressFieldGroup, int)
}{
	{"province", func(g *model.AddressFieldGroup, c int) { g.Province = c }},
	{"district", func(g *model.AddressFieldGroup, c int) { g.District = c }},
	{"subdivision", func(g *model.AddressFieldGroup, c int) { g.Subdivision = c }},
	{"postal", func(g *model.AddressFieldGroup, c int) { g.PostalCode = c }},
}

// resolveAddressGroup scans the headers once for each hierarchy level; a
// column matches when it carries both the role word and the level word.
func resolveAddressGroup(spec addressGroupSpec, lowered []string) model.AddressFieldGroup {
	group := model.AddressFieldGroup{
		Role:        spec.Role,
		Province:    -1,
		District:    -1,
		Subdivision: -1,
		PostalCode:  -1,
	}

	for _, level := range addressLevelWords {
		for col, h := range lowered {
			if strings.Contains(h, spec.RoleWord) && strings.Contains(h, level.word) {
				level.set(&group, col)
				break
			}
		}
	}

	return group
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeColumnName strips the formatting noise headers pick up in the
// template (line breaks, tabs, stray spacing) so rule matching sees one
// stable form.
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\t", "")
	name = whitespaceRe.ReplaceAllString(name, "")
	return name
}
