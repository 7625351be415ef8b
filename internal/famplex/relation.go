package famplex

// Relation is one derived "isa" edge. RootID records which root family's
// traversal produced the edge; it participates in deduplication but is
// stripped before persistence.
type Relation struct {
	SourceNS string
	SourceID string
	Kind     string
	TargetNS string
	TargetID string
	RootID   string
}

// Row returns the five persisted fields, provenance stripped.
func (r Relation) Row() []string {
	return []string{r.SourceNS, r.SourceID, r.Kind, r.TargetNS, r.TargetID}
}

// Equivalence links a numeric HGNC group id to its derived FamPlex id.
type Equivalence struct {
	GroupID   string
	FamplexID string
}

// Row returns the three persisted fields.
func (e Equivalence) Row() []string {
	return []string{NamespaceHGNCGroup, e.GroupID, e.FamplexID}
}
