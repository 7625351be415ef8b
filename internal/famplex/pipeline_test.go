package famplex

import (
	"context"
	"reflect"
	"testing"

	"fplximport/internal/hgnc"
	"fplximport/internal/names"
	"fplximport/internal/resource"
)

// pipelineFixture builds a small two-level hierarchy:
//
//	1 (TOP) ── 2 (MID, genes g1 g2) ── 3 (single gene g3, collapsed into MID)
func pipelineFixture(t *testing.T) (*hgnc.Catalog, names.Map) {
	t.Helper()
	catalog := buildCatalog(t,
		[][]string{{"g1", "2"}, {"g2", "2"}, {"g3", "3"}},
		[][]string{familyHeader, {"1", "TOP", ""}, {"2", "MID", ""}, {"3", "", "Leaf family"}},
		[][]string{hierarchyHeader, {"1", "2"}, {"2", "3"}},
	)
	resolver := names.Map{"g1": "G1", "g2": "G2", "g3": "G3"}
	return catalog, resolver
}

func TestPipelineRunAppendsEverything(t *testing.T) {
	ctx := context.Background()
	catalog, resolver := pipelineFixture(t)
	store := resource.NewMemoryStore()

	p := &Pipeline{Catalog: catalog, Resolver: resolver, Store: store}
	report, err := p.Run(ctx, []string{"1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	rels, err := store.ReadRelations(ctx)
	if err != nil {
		t.Fatalf("ReadRelations: %v", err)
	}
	want := [][]string{
		{"HGNC", "G1", "isa", "FPLX", "MID"},
		{"HGNC", "G2", "isa", "FPLX", "MID"},
		{"HGNC", "G3", "isa", "FPLX", "MID"},
		{"FPLX", "MID", "isa", "FPLX", "TOP"},
	}
	if !reflect.DeepEqual(rels, want) {
		t.Fatalf("relations = %v, want %v", rels, want)
	}
	if got := store.Entities(); !reflect.DeepEqual(got, []string{"MID", "TOP"}) {
		t.Fatalf("entities = %v", got)
	}
	if got := store.Equivalences(); !reflect.DeepEqual(got, [][]string{{"HGNC_GROUP", "1", "TOP"}}) {
		t.Fatalf("equivalences = %v", got)
	}
	if report.Relations != 4 || report.Entities != 2 || report.Equivalences != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestPipelineIdempotentOutput(t *testing.T) {
	ctx := context.Background()
	catalog, resolver := pipelineFixture(t)

	run := func() ([][]string, []string, [][]string) {
		store := resource.NewMemoryStore()
		p := &Pipeline{Catalog: catalog, Resolver: resolver, Store: store}
		if _, err := p.Run(ctx, []string{"1"}); err != nil {
			t.Fatalf("Run: %v", err)
		}
		rels, err := store.ReadRelations(ctx)
		if err != nil {
			t.Fatalf("ReadRelations: %v", err)
		}
		return rels, store.Entities(), store.Equivalences()
	}

	rels1, ents1, eqs1 := run()
	rels2, ents2, eqs2 := run()
	if !reflect.DeepEqual(rels1, rels2) || !reflect.DeepEqual(ents1, ents2) || !reflect.DeepEqual(eqs1, eqs2) {
		t.Fatalf("two runs over identical input diverged")
	}
}

func TestPipelineExcludesRedundantFamily(t *testing.T) {
	ctx := context.Background()
	catalog, resolver := pipelineFixture(t)
	store := resource.NewMemoryStore()
	// An accepted family with exactly MID's derived member set.
	store.SeedRelations([][]string{
		{"HGNC", "G1", "isa", "FPLX", "OLDMID"},
		{"HGNC", "G2", "isa", "FPLX", "OLDMID"},
		{"HGNC", "G3", "isa", "FPLX", "OLDMID"},
	})

	p := &Pipeline{Catalog: catalog, Resolver: resolver, Store: store}
	report, err := p.Run(ctx, []string{"1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(report.RedundantFamilies, []string{"MID"}) {
		t.Fatalf("redundant families = %v, want [MID]", report.RedundantFamilies)
	}

	rels, err := store.ReadRelations(ctx)
	if err != nil {
		t.Fatalf("ReadRelations: %v", err)
	}
	appended := rels[3:] // first three rows are the seed
	want := [][]string{{"FPLX", "MID", "isa", "FPLX", "TOP"}}
	if !reflect.DeepEqual(appended, want) {
		t.Fatalf("appended relations = %v, want %v", appended, want)
	}
	if got := store.Entities(); !reflect.DeepEqual(got, []string{"TOP"}) {
		t.Fatalf("entities = %v, want [TOP]", got)
	}
}

func TestPipelineDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	catalog, resolver := pipelineFixture(t)
	store := resource.NewMemoryStore()

	p := &Pipeline{Catalog: catalog, Resolver: resolver, Store: store, DryRun: true}
	report, err := p.Run(ctx, []string{"1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Relations != 4 {
		t.Fatalf("report.Relations = %d, want 4", report.Relations)
	}
	rels, err := store.ReadRelations(ctx)
	if err != nil {
		t.Fatalf("ReadRelations: %v", err)
	}
	if len(rels) != 0 || len(store.Entities()) != 0 || len(store.Equivalences()) != 0 {
		t.Fatalf("dry run wrote to the store")
	}
}

func TestPipelineMergesMultipleRoots(t *testing.T) {
	ctx := context.Background()
	// Two independent roots; g2 belongs to a family under each, so both
	// traversals emit a relation for it and the merged output stays sorted
	// across roots.
	catalog := buildCatalog(t,
		[][]string{{"g1", "2"}, {"g2", "2"}, {"g2", "20"}, {"g3", "20"}},
		[][]string{familyHeader,
			{"1", "ALPHA", ""}, {"2", "AMID", ""},
			{"10", "BETA", ""}, {"20", "BMID", ""},
		},
		[][]string{hierarchyHeader, {"1", "2"}, {"10", "20"}},
	)
	resolver := names.Map{"g1": "G1", "g2": "G2", "g3": "G3"}
	store := resource.NewMemoryStore()

	p := &Pipeline{Catalog: catalog, Resolver: resolver, Store: store}
	report, err := p.Run(ctx, []string{"1", "10"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	rels, err := store.ReadRelations(ctx)
	if err != nil {
		t.Fatalf("ReadRelations: %v", err)
	}
	want := [][]string{
		{"FPLX", "AMID", "isa", "FPLX", "ALPHA"},
		{"HGNC", "G1", "isa", "FPLX", "AMID"},
		{"HGNC", "G2", "isa", "FPLX", "AMID"},
		{"FPLX", "BMID", "isa", "FPLX", "BETA"},
		{"HGNC", "G2", "isa", "FPLX", "BMID"},
		{"HGNC", "G3", "isa", "FPLX", "BMID"},
	}
	if !reflect.DeepEqual(rels, want) {
		t.Fatalf("relations = %v, want %v", rels, want)
	}
	if got := store.Entities(); !reflect.DeepEqual(got, []string{"ALPHA", "AMID", "BETA", "BMID"}) {
		t.Fatalf("entities = %v", got)
	}
	if got := store.Equivalences(); !reflect.DeepEqual(got, [][]string{
		{"HGNC_GROUP", "1", "ALPHA"},
		{"HGNC_GROUP", "10", "BETA"},
	}) {
		t.Fatalf("equivalences = %v", got)
	}
	if !reflect.DeepEqual(report.Roots, []string{"1", "10"}) || report.Relations != 6 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestPipelineCrossRootDuplicateRowsKept(t *testing.T) {
	ctx := context.Background()
	// Both roots are parents of the same family, so the same gene edge is
	// derived under two provenance roots. Provenance is part of relation
	// identity, so both survive dedupe and both rows are written even though
	// they coincide once provenance is stripped.
	catalog := buildCatalog(t,
		[][]string{{"g1", "3"}, {"g2", "3"}},
		[][]string{familyHeader, {"1", "ALPHA", ""}, {"2", "BETA", ""}, {"3", "SHARED", ""}},
		[][]string{hierarchyHeader, {"1", "3"}, {"2", "3"}},
	)
	resolver := names.Map{"g1": "G1", "g2": "G2"}
	store := resource.NewMemoryStore()

	p := &Pipeline{Catalog: catalog, Resolver: resolver, Store: store}
	report, err := p.Run(ctx, []string{"1", "2"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Relations != 6 {
		t.Fatalf("report.Relations = %d, want 6", report.Relations)
	}

	rels, err := store.ReadRelations(ctx)
	if err != nil {
		t.Fatalf("ReadRelations: %v", err)
	}
	want := [][]string{
		{"FPLX", "SHARED", "isa", "FPLX", "ALPHA"},
		{"FPLX", "SHARED", "isa", "FPLX", "BETA"},
		{"HGNC", "G1", "isa", "FPLX", "SHARED"},
		{"HGNC", "G1", "isa", "FPLX", "SHARED"},
		{"HGNC", "G2", "isa", "FPLX", "SHARED"},
		{"HGNC", "G2", "isa", "FPLX", "SHARED"},
	}
	if !reflect.DeepEqual(rels, want) {
		t.Fatalf("relations = %v, want %v", rels, want)
	}
}

func TestPipelineRequiresRoots(t *testing.T) {
	catalog, resolver := pipelineFixture(t)
	p := &Pipeline{Catalog: catalog, Resolver: resolver, Store: resource.NewMemoryStore()}
	if _, err := p.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty root list")
	}
}

func TestPipelineMetricsObserved(t *testing.T) {
	ctx := context.Background()
	catalog, resolver := pipelineFixture(t)
	rec := NewExpvarMetricsRecorder("")

	p := &Pipeline{Catalog: catalog, Resolver: resolver, Store: resource.NewMemoryStore(), Metrics: rec}
	if _, err := p.Run(ctx, []string{"1"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	snap := rec.Snapshot()
	for _, op := range []string{"flatten", "detect_redundant", "append"} {
		if snap.Results[op]["success"] != 1 {
			t.Fatalf("operation %s not observed: %+v", op, snap.Results)
		}
	}
}
