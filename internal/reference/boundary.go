package reference

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/radathip2391/Recheck-Excel/internal/config"
)

// ErrReferenceUnavailable marks a boundary source that could not be loaded
// or decoded. Callers degrade by skipping address checks; they never abort
// the run on this error.
var ErrReferenceUnavailable = errors.New("address boundary source unavailable")

// BoundaryEntry is one postal area: the authoritative mapping of postal
// code, subdivision, district and province.
type BoundaryEntry struct {
	PostalCode  string
	Subdivision string
	District    string
	Province    string
}

// BoundaryTable is the loaded boundary data plus a nested exact-match index
// (province -> district -> subdivision -> postal codes). Read-only after
// load; safe for concurrent runs.
type BoundaryTable struct {
	entries []BoundaryEntry
	index   map[string]map[string]map[string]map[string]struct{}
}

// Len returns the number of loaded postal areas.
func (t *BoundaryTable) Len() int {
	return len(t.entries)
}

// HasProvince reports whether any entry carries this exact province name.
func (t *BoundaryTable) HasProvince(province string) bool {
	_, ok := t.index[province]
	return ok
}

// HasDistrict reports whether the district exists within the province.
func (t *BoundaryTable) HasDistrict(province, district string) bool {
	districts, ok := t.index[province]
	if !ok {
		return false
	}
	_, ok = districts[district]
	return ok
}

// HasSubdivision reports whether the subdivision exists within the
// province and district.
func (t *BoundaryTable) HasSubdivision(province, district, subdivision string) bool {
	districts, ok := t.index[province]
	if !ok {
		return false
	}
	subdivisions, ok := districts[district]
	if !ok {
		return false
	}
	_, ok = subdivisions[subdivision]
	return ok
}

// HasPostalCode reports whether the postal code belongs to the exact
// province, district and subdivision.
func (t *BoundaryTable) HasPostalCode(province, district, subdivision, postalCode string) bool {
	districts, ok := t.index[province]
	if !ok {
		return false
	}
	subdivisions, ok := districts[district]
	if !ok {
		return false
	}
	codes, ok := subdivisions[subdivision]
	if !ok {
		return false
	}
	_, ok = codes[postalCode]
	return ok
}

// ParseBoundary decodes and parses the raw boundary file. The bytes are
// taken as UTF-8 when valid, otherwise decoded as Windows-874 (the legacy
// regional encoding the source has shipped in). Column semantics come from
// cfg; when cfg names a sample row, the parsed table must contain it, which
// catches a stale offset mapping before it poisons a whole run.
func ParseBoundary(data []byte, cfg config.BoundaryConfig) (*BoundaryTable, error) {
	text, err := decodeBoundary(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReferenceUnavailable, err)
	}

	delimiter := cfg.Delimiter
	if delimiter == "" {
		delimiter = "\t"
	}

	maxCol := cfg.PostalCol
	for _, c := range []int{cfg.SubdivisionCol, cfg.DistrictCol, cfg.ProvinceCol} {
		if c > maxCol {
			maxCol = c
		}
	}

	table := &BoundaryTable{
		index: make(map[string]map[string]map[string]map[string]struct{}),
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, delimiter)
		if len(fields) <= maxCol {
			continue
		}
		entry := BoundaryEntry{
			PostalCode:  strings.TrimSpace(fields[cfg.PostalCol]),
			Subdivision: strings.TrimSpace(fields[cfg.SubdivisionCol]),
			District:    strings.TrimSpace(fields[cfg.DistrictCol]),
			Province:    strings.TrimSpace(fields[cfg.ProvinceCol]),
		}
		if entry.Province == "" {
			continue
		}
		table.add(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReferenceUnavailable, err)
	}

	if table.Len() == 0 {
		return nil, fmt.Errorf("%w: no usable rows", ErrReferenceUnavailable)
	}

	if cfg.SampleProvince != "" {
		if !table.HasProvince(cfg.SampleProvince) {
			return nil, fmt.Errorf("%w: sample province %q not found, column mapping looks wrong", ErrReferenceUnavailable, cfg.SampleProvince)
		}
	}
	if cfg.SamplePostal != "" {
		if !table.hasAnyPostal(cfg.SamplePostal) {
			return nil, fmt.Errorf("%w: sample postal code %q not found, column mapping looks wrong", ErrReferenceUnavailable, cfg.SamplePostal)
		}
	}

	return table, nil
}

func (t *BoundaryTable) add(entry BoundaryEntry) {
	t.entries = append(t.entries, entry)

	districts, ok := t.index[entry.Province]
	if !ok {
		districts = make(map[string]map[string]map[string]struct{})
		t.index[entry.Province] = districts
	}
	subdivisions, ok := districts[entry.District]
	if !ok {
		subdivisions = make(map[string]map[string]struct{})
		districts[entry.District] = subdivisions
	}
	codes, ok := subdivisions[entry.Subdivision]
	if !ok {
		codes = make(map[string]struct{})
		subdivisions[entry.Subdivision] = codes
	}
	codes[entry.PostalCode] = struct{}{}
}

func (t *BoundaryTable) hasAnyPostal(postalCode string) bool {
	for _, e := range t.entries {
		if e.PostalCode == postalCode {
			return true
		}
	}
	return false
}

func decodeBoundary(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.Windows874.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("not UTF-8 and Windows-874 decode failed: %v", err)
	}
	return string(decoded), nil
}
