package famplex

import (
	"fmt"
	"sort"
	"strconv"

	"fplximport/internal/hgnc"

	log "github.com/sirupsen/logrus"
)

// DedupeSort collapses duplicate relations and orders the result by
// (target id, source id). Deduplication treats the full tuple including the
// provenance root id as significant, so identical edges declared under two
// different roots both survive; in practice roots are disjoint by
// construction. The remaining fields break sort ties to keep output
// byte-identical across runs.
func DedupeSort(relations []Relation) []Relation {
	seen := make(map[Relation]struct{}, len(relations))
	out := make([]Relation, 0, len(relations))
	for _, r := range relations {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TargetID != b.TargetID {
			return a.TargetID < b.TargetID
		}
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		if a.SourceNS != b.SourceNS {
			return a.SourceNS < b.SourceNS
		}
		return a.RootID < b.RootID
	})
	return out
}

// Filter drops every relation whose target family was found redundant.
func Filter(relations []Relation, redundant map[string]struct{}) []Relation {
	out := make([]Relation, 0, len(relations))
	for _, r := range relations {
		if _, drop := redundant[r.TargetID]; drop {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Entities returns the sorted unique target ids of the surviving relations.
func Entities(relations []Relation) []string {
	seen := make(map[string]struct{}, len(relations))
	for _, r := range relations {
		seen[r.TargetID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Equivalences derives one HGNC_GROUP equivalence per numeric root family id
// referenced by a surviving relation, ordered by numeric id ascending. A
// non-numeric root id cannot be an HGNC group and is logged and skipped.
func Equivalences(relations []Relation, catalog *hgnc.Catalog, logger log.FieldLogger) ([]Equivalence, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	ids := make(map[int]struct{})
	for _, r := range relations {
		n, err := strconv.Atoi(r.RootID)
		if err != nil {
			logger.WithField("root", r.RootID).Warn("non-numeric root family id, no equivalence emitted")
			continue
		}
		ids[n] = struct{}{}
	}
	ordered := make([]int, 0, len(ids))
	for n := range ids {
		ordered = append(ordered, n)
	}
	sort.Ints(ordered)
	out := make([]Equivalence, 0, len(ordered))
	for _, n := range ordered {
		id := strconv.Itoa(n)
		fam, ok := catalog.Family(id)
		if !ok {
			return nil, fmt.Errorf("famplex: unknown root family %s while deriving equivalences", id)
		}
		out = append(out, Equivalence{GroupID: id, FamplexID: FamplexID(fam)})
	}
	return out, nil
}
