package resource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps the three resource files as CSVs in one directory, matching
// the upstream FamPlex layout: comma-joined fields with no quoting and CRLF
// line endings, appended in place.
type FSStore struct {
	dir string
}

// NewFSStore constructs a filesystem store rooted at dir, creating the
// directory if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("resource: fs store directory required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("resource: create %s: %w", dir, err)
	}
	return &FSStore{dir: dir}, nil
}

// Driver returns the backend identifier.
func (s *FSStore) Driver() Driver { return DriverFS }

// ReadRelations parses relations.csv. A missing file is an empty store, not
// an error; a row with the wrong field count aborts the run.
func (s *FSStore) ReadRelations(_ context.Context) ([][]string, error) {
	path := filepath.Join(s.dir, RelationsFile)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("resource: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 5
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("resource: parse %s: %w", path, err)
	}
	return rows, nil
}

// AppendRelations appends 5-field rows to relations.csv.
func (s *FSStore) AppendRelations(_ context.Context, rows [][]string) error {
	return s.appendRows(RelationsFile, rows)
}

// AppendEntities appends entity ids to entities.csv.
func (s *FSStore) AppendEntities(_ context.Context, ids []string) error {
	rows := make([][]string, len(ids))
	for i, id := range ids {
		rows[i] = []string{id}
	}
	return s.appendRows(EntitiesFile, rows)
}

// AppendEquivalences appends 3-field rows to equivalences.csv.
func (s *FSStore) AppendEquivalences(_ context.Context, rows [][]string) error {
	return s.appendRows(EquivalencesFile, rows)
}

func (s *FSStore) appendRows(name string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("resource: open %s for append: %w", path, err)
	}
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, ","))
		sb.WriteString("\r\n")
	}
	if _, err := f.WriteString(sb.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("resource: append to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("resource: close %s: %w", path, err)
	}
	return nil
}
