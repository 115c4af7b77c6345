package reference

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/radathip2391/Recheck-Excel/internal/config"
)

// Source owns the boundary table for the process. It loads the file at
// most once and hands the same read-only table to every run; the cache is
// dropped only when the source file's modtime changes. There is no
// package-level state; the server holds one Source and injects it.
type Source struct {
	path string
	cfg  config.BoundaryConfig

	mu      sync.Mutex
	table   *BoundaryTable
	modTime time.Time
}

// NewSource creates a boundary source for the configured file. Nothing is
// loaded until the first Table call.
func NewSource(path string, cfg config.BoundaryConfig) *Source {
	return &Source{path: path, cfg: cfg}
}

// Path returns the configured source file path.
func (s *Source) Path() string {
	return s.path
}

// Table returns the cached boundary table, reloading when the source file
// changed on disk. Errors wrap ErrReferenceUnavailable; the caller is
// expected to degrade, not abort.
func (s *Source) Table() (*BoundaryTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		s.table = nil
		return nil, fmt.Errorf("%w: %v", ErrReferenceUnavailable, err)
	}

	if s.table != nil && info.ModTime().Equal(s.modTime) {
		return s.table, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.table = nil
		return nil, fmt.Errorf("%w: %v", ErrReferenceUnavailable, err)
	}

	table, err := ParseBoundary(data, s.cfg)
	if err != nil {
		s.table = nil
		return nil, err
	}

	s.table = table
	s.modTime = info.ModTime()
	return table, nil
}

// Reload drops the cache and loads the source file again.
func (s *Source) Reload() (*BoundaryTable, error) {
	s.mu.Lock()
	s.table = nil
	s.mu.Unlock()
	return s.Table()
}
