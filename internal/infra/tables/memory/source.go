// Package memory provides an in-memory table source for tests.
package memory

import (
	"context"
	"fmt"
)

// Source serves tables from a map of pre-parsed rows.
type Source struct {
	tables map[string][][]string
}

// New constructs a memory source. A nil map is treated as empty.
func New(tables map[string][][]string) *Source {
	if tables == nil {
		tables = make(map[string][][]string)
	}
	return &Source{tables: tables}
}

// Set installs or replaces a table.
func (s *Source) Set(name string, rows [][]string) {
	s.tables[name] = rows
}

// Table returns the rows registered under name.
func (s *Source) Table(_ context.Context, name string) ([][]string, error) {
	rows, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("memory tables: unknown table %s", name)
	}
	return rows, nil
}

// Driver returns the backend identifier.
func (s *Source) Driver() string { return "memory" }
