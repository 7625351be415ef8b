package famplex

import (
	"context"
	"errors"
	"fmt"

	"fplximport/internal/hgnc"
	"fplximport/internal/names"

	log "github.com/sirupsen/logrus"
)

// CycleError reports a parent→child chain that reaches back into itself.
// The hierarchy is externally supplied, so a cycle is a configuration error
// of the source data rather than a programming bug.
type CycleError struct {
	FamilyID string
}

func (e CycleError) Error() string {
	return fmt.Sprintf("famplex: hierarchy cycle through family %s", e.FamilyID)
}

// Flattener walks the family hierarchy from a root and accumulates flat
// "isa" relations. It is not safe for concurrent use; the pipeline runs one
// traversal at a time.
type Flattener struct {
	catalog  *hgnc.Catalog
	resolver names.Resolver
	log      log.FieldLogger

	// Counters accumulate across roots for the run report.
	SkippedPseudogenes int
	UnresolvedGenes    int
}

// NewFlattener constructs a flattener over a catalog and resolver. A nil
// logger falls back to the standard logger.
func NewFlattener(catalog *hgnc.Catalog, resolver names.Resolver, logger log.FieldLogger) *Flattener {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Flattener{catalog: catalog, resolver: resolver, log: logger}
}

// FromRoot returns the relations derived from one root family's traversal,
// in traversal order. The caller is expected to sort and deduplicate across
// roots before persistence.
func (f *Flattener) FromRoot(ctx context.Context, rootID string) ([]Relation, error) {
	var acc []Relation
	err := f.walk(ctx, rootID, rootID, &acc, make(map[string]bool), make(map[string]bool))
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// walk applies the flattening rules to one family node. onPath tracks the
// active parent chain so a cycle surfaces as CycleError instead of unbounded
// recursion; visited prevents re-walking a subtree reached through a second
// parent (the extra edge is still emitted, the subtree's relations are
// already in the accumulator and would be deduplicated anyway).
func (f *Flattener) walk(ctx context.Context, familyID, rootID string, acc *[]Relation, onPath, visited map[string]bool) error {
	if onPath[familyID] {
		return CycleError{FamilyID: familyID}
	}
	if visited[familyID] {
		return nil
	}
	onPath[familyID] = true
	defer delete(onPath, familyID)
	visited[familyID] = true

	fam, ok := f.catalog.Family(familyID)
	if !ok {
		return fmt.Errorf("famplex: unknown family %s", familyID)
	}
	famplexID := FamplexID(fam)

	// Genes listed directly on this family.
	for _, geneID := range f.catalog.Genes(familyID) {
		symbol, kept, err := f.resolveGene(ctx, geneID)
		if err != nil {
			return err
		}
		if !kept {
			continue
		}
		*acc = append(*acc, Relation{
			SourceNS: NamespaceHGNC, SourceID: symbol, Kind: KindIsa,
			TargetNS: NamespaceFPLX, TargetID: famplexID, RootID: rootID,
		})
	}

	for _, childID := range f.catalog.Children(familyID) {
		grandchildren := f.catalog.Children(childID)
		childGenes := f.catalog.Genes(childID)
		if len(grandchildren) == 0 && len(childGenes) == 1 {
			// Collapse rule: a childless single-gene family is elided and
			// its gene linked directly to the grandparent.
			symbol, kept, err := f.resolveGene(ctx, childGenes[0])
			if err != nil {
				return err
			}
			if !kept {
				continue
			}
			f.log.WithFields(log.Fields{
				"family": childID,
				"gene":   symbol,
				"target": famplexID,
			}).Info("single-gene family linked directly to grandparent")
			*acc = append(*acc, Relation{
				SourceNS: NamespaceHGNC, SourceID: symbol, Kind: KindIsa,
				TargetNS: NamespaceFPLX, TargetID: famplexID, RootID: rootID,
			})
			continue
		}
		childFam, ok := f.catalog.Family(childID)
		if !ok {
			return fmt.Errorf("famplex: unknown family %s (child of %s)", childID, familyID)
		}
		*acc = append(*acc, Relation{
			SourceNS: NamespaceFPLX, SourceID: FamplexID(childFam), Kind: KindIsa,
			TargetNS: NamespaceFPLX, TargetID: famplexID, RootID: rootID,
		})
		if err := f.walk(ctx, childID, rootID, acc, onPath, visited); err != nil {
			return err
		}
	}
	return nil
}

// resolveGene resolves a gene's display symbol and applies the skip rules.
// A missing symbol or a pseudogene symbol is logged and skipped (kept=false);
// any other resolver failure aborts the traversal.
func (f *Flattener) resolveGene(ctx context.Context, geneID string) (symbol string, kept bool, err error) {
	symbol, err = f.resolver.Symbol(ctx, geneID)
	if err != nil {
		if errors.Is(err, names.ErrNotFound) {
			f.log.WithField("gene", geneID).Warn("gene has no resolvable symbol, skipping")
			f.UnresolvedGenes++
			return "", false, nil
		}
		return "", false, fmt.Errorf("famplex: resolve %s: %w", geneID, err)
	}
	if IsPseudogene(symbol) {
		f.log.WithField("gene", symbol).Warn("assuming pseudogene, skipping")
		f.SkippedPseudogenes++
		return "", false, nil
	}
	return symbol, true, nil
}
