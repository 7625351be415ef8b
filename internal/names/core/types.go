// Package core holds the name-resolution abstractions shared between the
// facade package and the infra-backed resolver drivers.
package core

import (
	"context"
	"errors"
)

// ErrNotFound indicates that a gene id has no resolvable display symbol.
var ErrNotFound = errors.New("names: gene not found")

// Resolver maps a gene identifier to its canonical display symbol.
type Resolver interface {
	// Symbol returns the display symbol for a gene id. A gene without a
	// symbol yields an error wrapping ErrNotFound; any other error is a
	// transport failure.
	Symbol(ctx context.Context, geneID string) (string, error)
}
