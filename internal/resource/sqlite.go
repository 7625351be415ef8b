package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps the resource rows in an embedded sqlite file, one table
// per resource, with a sequence column preserving append order.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var sqliteDDL = []string{
	`CREATE TABLE IF NOT EXISTS relations (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		source_ns TEXT NOT NULL,
		source_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		target_ns TEXT NOT NULL,
		target_id TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS entities (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS equivalences (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		namespace TEXT NOT NULL,
		group_id TEXT NOT NULL,
		famplex_id TEXT NOT NULL
	)`,
}

// NewSQLiteStore opens (or creates) a sqlite-backed resource store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "fplximport.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("resource: create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("resource: open sqlite: %w", err)
	}
	for _, ddl := range sqliteDDL {
		if _, err := db.Exec(ddl); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("resource: create tables: %w", err)
		}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Driver returns the backend identifier.
func (s *SQLiteStore) Driver() Driver { return DriverSQLite }

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// ReadRelations returns every relation row in append order.
func (s *SQLiteStore) ReadRelations(ctx context.Context) ([][]string, error) {
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
func (s *SQLiteStore) AppendRelations(ctx context.Context, rowsIn [][]string) error {
	return s.insertRows(ctx, `INSERT INTO relations (source_ns, source_id, kind, target_ns, target_id) VALUES (?, ?, ?, ?, ?)`, 5, rowsIn)
}

// AppendEntities inserts entity ids within one transaction.
func (s *SQLiteStore) AppendEntities(ctx context.Context, ids []string) error {
	rows := make([][]string, len(ids))
	for i, id := range ids {
		rows[i] = []string{id}
	}
	return s.insertRows(ctx, `INSERT INTO entities (id) VALUES (?)`, 1, rows)
}

// AppendEquivalences inserts 3-field rows within one transaction.
func (s *SQLiteStore) AppendEquivalences(ctx context.Context, rowsIn [][]string) error {
	return s.insertRows(ctx, `INSERT INTO equivalences (namespace, group_id, famplex_id) VALUES (?, ?, ?)`, 3, rowsIn)
}

func (s *SQLiteStore) insertRows(ctx context.Context, stmt string, fields int, rowsIn [][]string) error {
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
