// Package resource persists accepted FamPlex relations, entities and
// equivalences. The store is append-only: existing rows are read in bulk and
// never rewritten, and all appends happen after computation succeeds so a
// failed run leaves the store untouched.
package resource

import (
	"context"
	"fmt"
	"os"
)

// Driver identifies a concrete resource store implementation.
type Driver string

const (
	DriverFS       Driver = "fs"       // CSV resource files (default)
	DriverMemory   Driver = "memory"   // in-memory (tests / dry runs)
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server
)

// Resource file names used by the fs driver; the other drivers use matching
// table names.
const (
	RelationsFile    = "relations.csv"
	EntitiesFile     = "entities.csv"
	EquivalencesFile = "equivalences.csv"
)

// Store is the append-only resource store contract.
type Store interface {
	// ReadRelations returns every persisted relation as a 5-field row
	// (source ns, source id, kind, target ns, target id), in append order.
	ReadRelations(ctx context.Context) ([][]string, error)
	// AppendRelations appends 5-field relation rows.
	AppendRelations(ctx context.Context, rows [][]string) error
	// AppendEntities appends entity ids, one per row.
	AppendEntities(ctx context.Context, ids []string) error
	// AppendEquivalences appends 3-field equivalence rows.
	AppendEquivalences(ctx context.Context, rows [][]string) error
	// Driver returns the configured backend driver.
	Driver() Driver
}

// OpenStore selects a resource store backend using environment variables.
// Defaults to fs in the current directory when unset.
//
//	FPLXIMPORT_RESOURCE_DRIVER: fs|memory|sqlite|postgres (default fs)
//	FPLXIMPORT_RESOURCE_DIR: directory of resource CSVs when driver=fs
//	FPLXIMPORT_SQLITE_PATH: path to sqlite file (default ./fplximport.db)
//	FPLXIMPORT_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenStore(_ context.Context) (Store, error) {
	driver := os.Getenv("FPLXIMPORT_RESOURCE_DRIVER")
	if driver == "" {
		driver = string(DriverFS)
	}
	switch Driver(driver) {
	case DriverFS:
		dir := os.Getenv("FPLXIMPORT_RESOURCE_DIR")
		if dir == "" {
			dir = "."
		}
		return NewFSStore(dir)
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return NewSQLiteStore(os.Getenv("FPLXIMPORT_SQLITE_PATH"))
	case DriverPostgres:
		return NewPostgresStore(os.Getenv("FPLXIMPORT_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("resource: unknown store driver %s", driver)
	}
}
