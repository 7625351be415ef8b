// Package static provides a name resolver backed by a local two-column
// CSV dump of HGNC id→symbol pairs (e.g. extracted from hgnc_complete_set).
package static

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"fplximport/internal/names/core"
)

// Resolver serves symbols from a fully loaded id→symbol table.
type Resolver struct {
	symbols map[string]string
}

// Load reads a CSV file of (gene id, symbol) rows into a resolver. A header
// row is tolerated: a first row whose second column is "symbol" is skipped.
func Load(path string) (*Resolver, error) {
	if path == "" {
		return nil, fmt.Errorf("static resolver: FPLXIMPORT_RESOLVER_PATH required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("static resolver: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("static resolver: parse %s: %w", path, err)
	}
	symbols := make(map[string]string, len(rows))
	for i, row := range rows {
		if i == 0 && row[1] == "symbol" {
			continue
		}
		symbols[row[0]] = row[1]
	}
	return &Resolver{symbols: symbols}, nil
}

// FromMap constructs a resolver directly from a map (tests).
func FromMap(symbols map[string]string) *Resolver {
	return &Resolver{symbols: symbols}
}

// Symbol implements the resolver contract.
func (r *Resolver) Symbol(_ context.Context, geneID string) (string, error) {
	symbol, ok := r.symbols[geneID]
	if !ok || symbol == "" {
		return "", fmt.Errorf("%w: %s", core.ErrNotFound, geneID)
	}
	return symbol, nil
}

// Len reports the number of loaded symbols.
func (r *Resolver) Len() int { return len(r.symbols) }
