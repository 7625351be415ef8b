package hgnc

import (
	"context"
	"fmt"
	"os"

	tablesfs "fplximport/internal/infra/tables/fs"
	tableshttp "fplximport/internal/infra/tables/http"
	"fplximport/internal/infra/tables/memory"
	tabless3 "fplximport/internal/infra/tables/s3"
)

// SourceDriver identifies a concrete table source implementation.
type SourceDriver string

const (
	SourceHTTP   SourceDriver = "http"   // HGNC genefamily archive over HTTP (default)
	SourceFS     SourceDriver = "fs"     // local directory of CSV snapshots
	SourceS3     SourceDriver = "s3"     // S3 / MinIO mirror of the archive
	SourceMemory SourceDriver = "memory" // in-memory rows (tests / ephemeral)
)

// TableSource retrieves one named table as raw rows. Retrieval is bulk: the
// whole table is materialized before any computation starts.
type TableSource interface {
	Table(ctx context.Context, name string) ([][]string, error)
	Driver() string
}

// OpenTableSource selects a table source backend using environment variables.
// Defaults to http when unset.
//
//	FPLXIMPORT_TABLES_DRIVER: http|fs|s3|memory (default http)
//	FPLXIMPORT_TABLES_URL: archive base URL when driver=http
//	FPLXIMPORT_TABLES_DIR: snapshot directory when driver=fs
//	FPLXIMPORT_TABLES_S3_BUCKET etc.: bucket settings when driver=s3
func OpenTableSource(ctx context.Context) (TableSource, error) {
	driver := os.Getenv("FPLXIMPORT_TABLES_DRIVER")
	if driver == "" {
		driver = string(SourceHTTP)
	}
	switch SourceDriver(driver) {
	case SourceHTTP:
		return tableshttp.New(os.Getenv("FPLXIMPORT_TABLES_URL")), nil
	case SourceFS:
		return tablesfs.New(os.Getenv("FPLXIMPORT_TABLES_DIR"))
	case SourceS3:
		return tabless3.OpenFromEnv(ctx)
	case SourceMemory:
		return memory.New(nil), nil
	default:
		return nil, fmt.Errorf("hgnc: unknown tables driver %s", driver)
	}
}

// LoadCatalog retrieves the three gene-family tables from the source and
// builds the catalog. Any retrieval or parse failure aborts the run before
// computation begins.
func LoadCatalog(ctx context.Context, src TableSource) (*Catalog, error) {
	geneFamily, err := src.Table(ctx, TableGeneFamily)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", TableGeneFamily, err)
	}
	families, err := src.Table(ctx, TableFamily)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", TableFamily, err)
	}
	hierarchy, err := src.Table(ctx, TableHierarchy)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", TableHierarchy, err)
	}
	return BuildCatalog(geneFamily, families, hierarchy)
}
