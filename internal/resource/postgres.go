package resource

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion.
var _ Store = (*PostgresStore)(nil)

const (
	pgDriver = "pgx"
	// Default DSN allows local development without configuration.
	defaultPostgresDSN = "postgres://localhost/fplximport?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

var postgresDDL = []string{
	`CREATE TABLE IF NOT EXISTS relations (
		seq BIGSERIAL PRIMARY KEY,
		source_ns TEXT NOT NULL,
		source_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		target_ns TEXT NOT NULL,
		target_id TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS entities (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS equivalences (
		seq BIGSERIAL PRIMARY KEY,
		namespace TEXT NOT NULL,
		group_id TEXT NOT NULL,
		famplex_id TEXT NOT NULL
	)`,
}

// PostgresStore keeps the resource rows in PostgreSQL, mirroring the sqlite
// schema, for deployments where several consumers read the accepted
// relations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a Postgres-backed store using the provided DSN
// (falls back to a local default) and ensures the resource tables exist.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	openMu.Lock()
	db, err := sqlOpen(pgDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("resource: open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("resource: ping postgres: %w", err)
	}
	for _, ddl := range postgresDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("resource: create tables: %w", err)
		}
	}
	return &PostgresStore{db: db}, nil
}

// Driver returns the backend identifier.
func (s *PostgresStore) Driver() Driver { return DriverPostgres }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *PostgresStore) DB() *sql.DB { return s.db }

// Close releases the underlying database handle.
func (s *PostgresStore) Close() error { return s.db.Close() }

// ReadRelations returns every relation row in append order.
func (s *PostgresStore) ReadRelations(ctx context.Context) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source_ns, source_id, kind, target_ns, target_id FROM relations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("resource: select relations: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out [][]string
	for rows.Next() {
		row := make([]string, 5)
		if err := rows.Scan(&row[0], &row[1], &row[2], &row[3], &row[4]); err != nil {
			return nil, fmt.Errorf("resource: scan relation: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resource: iterate relations: %w", err)
	}
	return out, nil
}

// AppendRelations inserts 5-field rows within one transaction.
func (s *PostgresStore) AppendRelations(ctx context.Context, rowsIn [][]string) error {
	return s.insertRows(ctx, `INSERT INTO relations (source_ns, source_id, kind, target_ns, target_id) VALUES ($1, $2, $3, $4, $5)`, 5, rowsIn)
}

// AppendEntities inserts entity ids within one transaction.
func (s *PostgresStore) AppendEntities(ctx context.Context, ids []string) error {
	rows := make([][]string, len(ids))
	for i, id := range ids {
		rows[i] = []string{id}
	}
	return s.insertRows(ctx, `INSERT INTO entities (id) VALUES ($1)`, 1, rows)
}

// AppendEquivalences inserts 3-field rows within one transaction.
func (s *PostgresStore) AppendEquivalences(ctx context.Context, rowsIn [][]string) error {
	return s.insertRows(ctx, `INSERT INTO equivalences (namespace, group_id, famplex_id) VALUES ($1, $2, $3)`, 3, rowsIn)
}

func (s *PostgresStore) insertRows(ctx context.Context, stmt string, fields int, rowsIn [][]string) error {
	if len(rowsIn) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("resource: begin: %w", err)
	}
	for i, row := range rowsIn {
		if len(row) != fields {
			_ = tx.Rollback()
			return fmt.Errorf("resource: row %d: expected %d fields, got %d", i, fields, len(row))
		}
		args := make([]any, len(row))
		for j, v := range row {
			args[j] = v
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("resource: insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("resource: commit: %w", err)
	}
	return nil
}
