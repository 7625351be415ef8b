// Package http provides a table source that fetches CSV tables from the
// HGNC genefamily archive over HTTP.
package http

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the EBI mirror of the HGNC genefamily database tables.
const DefaultBaseURL = "http://ftp.ebi.ac.uk/pub/databases/genenames/new/csv/genefamily_db_tables/"

// Source fetches tables from baseURL + table name.
type Source struct {
	baseURL string
	client  *http.Client
}

// New constructs an HTTP source. An empty baseURL selects the EBI mirror.
func New(baseURL string) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Source{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

// Table fetches and parses one CSV table. The whole body is consumed before
// returning so callers never hold a network stream during computation.
func (s *Source) Table(ctx context.Context, name string) ([][]string, error) {
	url := s.baseURL + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("http tables: build request %s: %w", url, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http tables: fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http tables: fetch %s: unexpected status %s", url, resp.Status)
	}
	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // column counts are validated by the catalog loader
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("http tables: parse %s: %w", url, err)
	}
	return rows, nil
}

// Driver returns the backend identifier.
func (s *Source) Driver() string { return "http" }
