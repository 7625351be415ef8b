package famplex

import (
	"context"
	"errors"
	"testing"

	"fplximport/internal/hgnc"
	"fplximport/internal/names"
)

var (
	familyHeader    = []string{"id", "abbreviation", "name"}
	hierarchyHeader = []string{"parent_fam_id", "child_fam_id"}
)

func buildCatalog(t *testing.T, geneFamily, families, hierarchy [][]string) *hgnc.Catalog {
	t.Helper()
	catalog, err := hgnc.BuildCatalog(geneFamily, families, hierarchy)
	if err != nil {
		t.Fatalf("BuildCatalog: %v", err)
	}
	return catalog
}

func TestFromRootSkipsPseudogenes(t *testing.T) {
	catalog := buildCatalog(t,
		[][]string{{"g1", "R"}, {"g2", "R"}},
		[][]string{familyHeader, {"R", "ROOT", "Root family"}},
		[][]string{hierarchyHeader},
	)
	resolver := names.Map{"g1": "G1", "g2": "G2P"}
	flattener := NewFlattener(catalog, resolver, nil)

	rels, err := flattener.FromRoot(context.Background(), "R")
	if err != nil {
		t.Fatalf("FromRoot: %v", err)
	}
	want := Relation{SourceNS: "HGNC", SourceID: "G1", Kind: "isa", TargetNS: "FPLX", TargetID: "ROOT", RootID: "R"}
	if len(rels) != 1 || rels[0] != want {
		t.Fatalf("unexpected relations %+v", rels)
	}
	if flattener.SkippedPseudogenes != 1 {
		t.Fatalf("SkippedPseudogenes = %d, want 1", flattener.SkippedPseudogenes)
	}
}

func TestFromRootCollapsesSingleGeneChild(t *testing.T) {
	catalog := buildCatalog(t,
		[][]string{{"g3", "C"}},
		[][]string{familyHeader, {"R", "ROOT", ""}, {"C", "CHILD", ""}},
		[][]string{hierarchyHeader, {"R", "C"}},
	)
	resolver := names.Map{"g3": "G3"}
	flattener := NewFlattener(catalog, resolver, nil)

	rels, err := flattener.FromRoot(context.Background(), "R")
	if err != nil {
		t.Fatalf("FromRoot: %v", err)
	}
	want := Relation{SourceNS: "HGNC", SourceID: "G3", Kind: "isa", TargetNS: "FPLX", TargetID: "ROOT", RootID: "R"}
	if len(rels) != 1 || rels[0] != want {
		t.Fatalf("unexpected relations %+v", rels)
	}
	// The collapsed family must not appear anywhere.
	for _, r := range rels {
		if r.SourceID == "CHILD" || r.TargetID == "CHILD" {
			t.Fatalf("collapsed family leaked into output: %+v", r)
		}
	}
}

func TestFromRootRecursesMultiGeneChild(t *testing.T) {
	catalog := buildCatalog(t,
		[][]string{{"g1", "C"}, {"g2", "C"}},
		[][]string{familyHeader, {"R", "ROOT", ""}, {"C", "CHILD", ""}},
		[][]string{hierarchyHeader, {"R", "C"}},
	)
	resolver := names.Map{"g1": "G1", "g2": "G2"}
	flattener := NewFlattener(catalog, resolver, nil)

	rels, err := flattener.FromRoot(context.Background(), "R")
	if err != nil {
		t.Fatalf("FromRoot: %v", err)
	}
	want := []Relation{
		{SourceNS: "FPLX", SourceID: "CHILD", Kind: "isa", TargetNS: "FPLX", TargetID: "ROOT", RootID: "R"},
		{SourceNS: "HGNC", SourceID: "G1", Kind: "isa", TargetNS: "FPLX", TargetID: "CHILD", RootID: "R"},
		{SourceNS: "HGNC", SourceID: "G2", Kind: "isa", TargetNS: "FPLX", TargetID: "CHILD", RootID: "R"},
	}
	if len(rels) != len(want) {
		t.Fatalf("got %d relations, want %d: %+v", len(rels), len(want), rels)
	}
	for i := range want {
		if rels[i] != want[i] {
			t.Fatalf("relation %d = %+v, want %+v", i, rels[i], want[i])
		}
	}
}

func TestFromRootCollapsedPseudogeneElidesChild(t *testing.T) {
	catalog := buildCatalog(t,
		[][]string{{"g1", "C"}},
		[][]string{familyHeader, {"R", "ROOT", ""}, {"C", "CHILD", ""}},
		[][]string{hierarchyHeader, {"R", "C"}},
	)
	resolver := names.Map{"g1": "XYZ9P"}
	flattener := NewFlattener(catalog, resolver, nil)

	rels, err := flattener.FromRoot(context.Background(), "R")
	if err != nil {
		t.Fatalf("FromRoot: %v", err)
	}
	if len(rels) != 0 {
		t.Fatalf("expected no relations, got %+v", rels)
	}
}

func TestFromRootSkipsUnresolvedGenes(t *testing.T) {
	catalog := buildCatalog(t,
		[][]string{{"g1", "R"}, {"g2", "R"}},
		[][]string{familyHeader, {"R", "ROOT", ""}},
		[][]string{hierarchyHeader},
	)
	resolver := names.Map{"g2": "G2"} // g1 has no symbol
	flattener := NewFlattener(catalog, resolver, nil)

	rels, err := flattener.FromRoot(context.Background(), "R")
	if err != nil {
		t.Fatalf("FromRoot: %v", err)
	}
	if len(rels) != 1 || rels[0].SourceID != "G2" {
		t.Fatalf("unexpected relations %+v", rels)
	}
	if flattener.UnresolvedGenes != 1 {
		t.Fatalf("UnresolvedGenes = %d, want 1", flattener.UnresolvedGenes)
	}
}

func TestFromRootEmptyFamilyIsNoOp(t *testing.T) {
	catalog := buildCatalog(t,
		[][]string{},
		[][]string{familyHeader, {"R", "ROOT", ""}, {"C", "CHILD", ""}},
		[][]string{hierarchyHeader, {"R", "C"}},
	)
	flattener := NewFlattener(catalog, names.Map{}, nil)

	rels, err := flattener.FromRoot(context.Background(), "R")
	if err != nil {
		t.Fatalf("FromRoot: %v", err)
	}
	// C has no children and no genes: only the edge from its parent remains.
	want := Relation{SourceNS: "FPLX", SourceID: "CHILD", Kind: "isa", TargetNS: "FPLX", TargetID: "ROOT", RootID: "R"}
	if len(rels) != 1 || rels[0] != want {
		t.Fatalf("unexpected relations %+v", rels)
	}
}

func TestFromRootMultiParentChildKeepsBothEdges(t *testing.T) {
	catalog := buildCatalog(t,
		[][]string{{"g1", "S"}, {"g2", "S"}},
		[][]string{familyHeader, {"R", "ROOT", ""}, {"A", "LEFT", ""}, {"B", "RIGHT", ""}, {"S", "SHARED", ""}},
		[][]string{hierarchyHeader, {"R", "A"}, {"R", "B"}, {"A", "S"}, {"B", "S"}},
	)
	resolver := names.Map{"g1": "G1", "g2": "G2"}
	flattener := NewFlattener(catalog, resolver, nil)

	rels, err := flattener.FromRoot(context.Background(), "R")
	if err != nil {
		t.Fatalf("FromRoot: %v", err)
	}
	edges := 0
	for _, r := range rels {
		if r.SourceID == "SHARED" && r.SourceNS == "FPLX" {
			edges++
		}
	}
	if edges != 2 {
		t.Fatalf("expected 2 edges into SHARED, got %d: %+v", edges, rels)
	}
}

func TestFromRootDetectsCycle(t *testing.T) {
	catalog := buildCatalog(t,
		[][]string{{"g1", "A"}, {"g2", "B"}},
		[][]string{familyHeader, {"A", "AF", ""}, {"B", "BF", ""}},
		[][]string{hierarchyHeader, {"A", "B"}, {"B", "A"}},
	)
	resolver := names.Map{"g1": "G1", "g2": "G2"}
	flattener := NewFlattener(catalog, resolver, nil)

	_, err := flattener.FromRoot(context.Background(), "A")
	var cycleErr CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if cycleErr.FamilyID != "A" {
		t.Fatalf("cycle reported through %s, want A", cycleErr.FamilyID)
	}
}

func TestFromRootUnknownFamily(t *testing.T) {
	catalog := buildCatalog(t,
		[][]string{},
		[][]string{familyHeader, {"R", "ROOT", ""}},
		[][]string{hierarchyHeader},
	)
	flattener := NewFlattener(catalog, names.Map{}, nil)
	if _, err := flattener.FromRoot(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for unknown root family")
	}
}
