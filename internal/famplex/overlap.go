package famplex

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// familySet is one family's member gene set with its identifier.
type familySet struct {
	id      string
	members map[string]struct{}
}

// representative returns the lexicographically first member, used only to
// align existing and derived families for comparison.
func (s familySet) representative() string {
	first := ""
	for m := range s.members {
		if first == "" || m < first {
			first = m
		}
	}
	return first
}

func (s familySet) sortedMembers() []string {
	out := make([]string, 0, len(s.members))
	for m := range s.members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// FindRedundant compares freshly derived family groupings against the
// persisted relation rows and returns the derived family ids whose full
// member set exactly equals an existing family's member set.
//
// Pairing of existing against derived families is positional: both lists are
// sorted by a representative member and zipped. This is a best-effort
// alignment — when several families share the same representative ordering
// the pairing can be wrong, so every comparison outcome is logged for human
// review rather than trusted blindly.
func FindRedundant(relations []Relation, existing [][]string, logger log.FieldLogger) (map[string]struct{}, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}

	// Gene symbol → the derived family it was assigned to in this run.
	geneToNewFamily := make(map[string]string)
	for _, r := range relations {
		if r.SourceNS == NamespaceHGNC {
			geneToNewFamily[r.SourceID] = r.TargetID
		}
	}

	existingMembers := make(map[string][]string)
	coveredExisting := make(map[string]struct{})
	touchedDerived := make(map[string]struct{})
	for i, row := range existing {
		if len(row) != 5 {
			return nil, fmt.Errorf("famplex: existing relation row %d: expected 5 fields, got %d", i, len(row))
		}
		sourceNS, sourceID, targetNS, targetID := row[0], row[1], row[3], row[4]
		if sourceNS == NamespaceHGNC && targetNS == NamespaceFPLX {
			existingMembers[targetID] = append(existingMembers[targetID], sourceID)
		}
		if sourceNS == NamespaceHGNC {
			if derived, ok := geneToNewFamily[sourceID]; ok {
				logger.WithFields(log.Fields{"gene": sourceID, "family": targetID}).Info("gene already covered by existing relations")
				coveredExisting[targetID] = struct{}{}
				touchedDerived[derived] = struct{}{}
			}
		}
	}

	existingSets := make([]familySet, 0, len(coveredExisting))
	for id := range coveredExisting {
		set := familySet{id: id, members: make(map[string]struct{}, len(existingMembers[id]))}
		for _, gene := range existingMembers[id] {
			set.members[gene] = struct{}{}
		}
		existingSets = append(existingSets, set)
	}

	derivedSets := make([]familySet, 0, len(touchedDerived))
	for id := range touchedDerived {
		set := familySet{id: id, members: make(map[string]struct{})}
		for gene, fam := range geneToNewFamily {
			if fam == id {
				set.members[gene] = struct{}{}
			}
		}
		derivedSets = append(derivedSets, set)
	}

	sortByRepresentative(existingSets)
	sortByRepresentative(derivedSets)

	redundant := make(map[string]struct{})
	n := len(existingSets)
	if len(derivedSets) < n {
		n = len(derivedSets)
	}
	for i := 0; i < n; i++ {
		ex, dv := existingSets[i], derivedSets[i]
		if sameMembers(ex.members, dv.members) {
			redundant[dv.id] = struct{}{}
			logger.WithFields(log.Fields{"existing": ex.id, "derived": dv.id}).Info("existing and derived families are exactly the same")
		} else {
			logger.WithFields(log.Fields{"existing": ex.id, "derived": dv.id}).Info("existing and derived families are overlapping")
		}
		logger.WithFields(log.Fields{"family": ex.id, "members": strings.Join(ex.sortedMembers(), ",")}).Info("family members")
		logger.WithFields(log.Fields{"family": dv.id, "members": strings.Join(dv.sortedMembers(), ",")}).Info("family members")
	}
	return redundant, nil
}

func sortByRepresentative(sets []familySet) {
	sort.Slice(sets, func(i, j int) bool {
		ri, rj := sets[i].representative(), sets[j].representative()
		if ri != rj {
			return ri < rj
		}
		return sets[i].id < sets[j].id
	})
}

func sameMembers(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for m := range a {
		if _, ok := b[m]; !ok {
			return false
		}
	}
	return true
}
