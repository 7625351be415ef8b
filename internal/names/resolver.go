// Package names resolves HGNC gene identifiers to their display symbols.
// It re-exports the core abstractions and selects a concrete driver from
// the environment so callers depend on the Resolver interface only.
package names

import (
	"context"
	"fmt"
	"os"

	"fplximport/internal/names/core"

	resolverhttp "fplximport/internal/infra/resolver/http"
	"fplximport/internal/infra/resolver/static"
)

// Resolver is the interface implemented by all resolver drivers.
type Resolver = core.Resolver

// ErrNotFound indicates that a gene id has no resolvable display symbol.
var ErrNotFound = core.ErrNotFound

// ResolverDriver identifies a concrete resolver implementation.
type ResolverDriver string

const (
	ResolverStatic ResolverDriver = "static" // local id→symbol CSV dump (default)
	ResolverHTTP   ResolverDriver = "http"   // genenames.org REST fetch
	ResolverMemory ResolverDriver = "memory" // map-backed (tests)
)

// OpenResolver selects a resolver backend using environment variables.
// Defaults to static when unset.
//
//	FPLXIMPORT_RESOLVER_DRIVER: static|http|memory (default static)
//	FPLXIMPORT_RESOLVER_PATH: id→symbol CSV path when driver=static
//	FPLXIMPORT_RESOLVER_URL: REST base URL when driver=http (optional)
func OpenResolver(_ context.Context) (Resolver, error) {
	driver := os.Getenv("FPLXIMPORT_RESOLVER_DRIVER")
	if driver == "" {
		driver = string(ResolverStatic)
	}
	switch ResolverDriver(driver) {
	case ResolverStatic:
		return static.Load(os.Getenv("FPLXIMPORT_RESOLVER_PATH"))
	case ResolverHTTP:
		return resolverhttp.New(os.Getenv("FPLXIMPORT_RESOLVER_URL")), nil
	case ResolverMemory:
		return Map(nil), nil
	default:
		return nil, fmt.Errorf("names: unknown resolver driver %s", driver)
	}
}

// Map is a map-backed resolver for tests and synthetic catalogs.
type Map map[string]string

// Symbol implements Resolver.
func (m Map) Symbol(_ context.Context, geneID string) (string, error) {
	symbol, ok := m[geneID]
	if !ok || symbol == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, geneID)
	}
	return symbol, nil
}
