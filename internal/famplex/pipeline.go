package famplex

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fplximport/internal/hgnc"
	"fplximport/internal/names"
	"fplximport/internal/resource"

	log "github.com/sirupsen/logrus"
)

// Pipeline runs the full import: flatten every requested root, deduplicate
// and sort across roots, drop families redundant with already accepted
// relations, and append the survivors to the resource store. All reads
// happen before any computation and all writes happen only after every
// in-memory step succeeds, so a failure leaves the store untouched.
type Pipeline struct {
	Catalog  *hgnc.Catalog
	Resolver names.Resolver
	Store    resource.Store
	Log      log.FieldLogger
	Metrics  MetricsRecorder

	// DryRun computes and reports without appending anything.
	DryRun bool
}

// Report summarizes one pipeline run.
type Report struct {
	Roots              []string
	Relations          int
	Entities           int
	Equivalences       int
	SkippedPseudogenes int
	UnresolvedGenes    int
	RedundantFamilies  []string
}

// Run executes the pipeline for the given root family ids.
func (p *Pipeline) Run(ctx context.Context, rootIDs []string) (Report, error) {
	if len(rootIDs) == 0 {
		return Report{}, fmt.Errorf("famplex: at least one root family id required")
	}
	logger := p.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	metrics := p.Metrics
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}

	existing, err := p.Store.ReadRelations(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("famplex: read existing relations: %w", err)
	}

	flattener := NewFlattener(p.Catalog, p.Resolver, logger)
	var all []Relation
	for _, rootID := range rootIDs {
		logger.WithField("root", rootID).Info("loading relations for HGNC group")
		start := time.Now()
		rels, err := flattener.FromRoot(ctx, rootID)
		metrics.Observe(ctx, "flatten", err == nil, time.Since(start))
		if err != nil {
			return Report{}, fmt.Errorf("famplex: flatten root %s: %w", rootID, err)
		}
		all = append(all, rels...)
	}
	all = DedupeSort(all)

	start := time.Now()
	redundant, err := FindRedundant(all, existing, logger)
	metrics.Observe(ctx, "detect_redundant", err == nil, time.Since(start))
	if err != nil {
		return Report{}, err
	}
	surviving := Filter(all, redundant)
	entities := Entities(surviving)
	equivalences, err := Equivalences(surviving, p.Catalog, logger)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Roots:              append([]string(nil), rootIDs...),
		Relations:          len(surviving),
		Entities:           len(entities),
		Equivalences:       len(equivalences),
		SkippedPseudogenes: flattener.SkippedPseudogenes,
		UnresolvedGenes:    flattener.UnresolvedGenes,
		RedundantFamilies:  sortedKeys(redundant),
	}
	if p.DryRun {
		logger.WithField("relations", len(surviving)).Info("dry run, nothing appended")
		return report, nil
	}

	start = time.Now()
	err = p.append(ctx, surviving, entities, equivalences)
	metrics.Observe(ctx, "append", err == nil, time.Since(start))
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

func (p *Pipeline) append(ctx context.Context, relations []Relation, entities []string, equivalences []Equivalence) error {
	relationRows := make([][]string, len(relations))
	for i, r := range relations {
		relationRows[i] = r.Row()
	}
	if err := p.Store.AppendRelations(ctx, relationRows); err != nil {
		return fmt.Errorf("famplex: append relations: %w", err)
	}
	if err := p.Store.AppendEntities(ctx, entities); err != nil {
		return fmt.Errorf("famplex: append entities: %w", err)
	}
	equivalenceRows := make([][]string, len(equivalences))
	for i, eq := range equivalences {
		equivalenceRows[i] = eq.Row()
	}
	if err := p.Store.AppendEquivalences(ctx, equivalenceRows); err != nil {
		return fmt.Errorf("famplex: append equivalences: %w", err)
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
