// Package http provides a name resolver backed by the genenames.org REST
// service.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fplximport/internal/names/core"
)

// DefaultBaseURL is the public genenames.org REST endpoint.
const DefaultBaseURL = "https://rest.genenames.org/"

// Resolver fetches symbols one gene at a time from the REST service.
type Resolver struct {
	baseURL string
	client  *http.Client
}

// New constructs a REST resolver. An empty baseURL selects genenames.org.
func New(baseURL string) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Resolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type fetchResponse struct {
	Response struct {
		NumFound int `json:"numFound"`
		Docs     []struct {
			Symbol string `json:"symbol"`
		} `json:"docs"`
	} `json:"response"`
}

// Symbol queries fetch/hgnc_id/<id> and returns the first document's symbol.
func (r *Resolver) Symbol(ctx context.Context, geneID string) (string, error) {
	url := r.baseURL + "fetch/hgnc_id/" + geneID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("http resolver: build request %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http resolver: fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", core.ErrNotFound, geneID)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http resolver: fetch %s: unexpected status %s", url, resp.Status)
	}
	var payload fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("http resolver: decode %s: %w", url, err)
	}
	if payload.Response.NumFound == 0 || len(payload.Response.Docs) == 0 || payload.Response.Docs[0].Symbol == "" {
		return "", fmt.Errorf("%w: %s", core.ErrNotFound, geneID)
	}
	return payload.Response.Docs[0].Symbol, nil
}
