// Package famplex derives flat FamPlex "isa" relations from the HGNC
// gene-family hierarchy and reconciles them with previously accepted
// relations.
package famplex

import (
	"regexp"
	"strings"

	"fplximport/internal/hgnc"
)

// Namespaces and relation kinds appearing in derived rows.
const (
	NamespaceHGNC      = "HGNC"
	NamespaceFPLX      = "FPLX"
	NamespaceHGNCGroup = "HGNC_GROUP"
	KindIsa            = "isa"
)

// pseudogeneRe matches display symbols of the form <text><digits>P,
// anchored end to end and case sensitive.
var pseudogeneRe = regexp.MustCompile(`^.*\d+P$`)

// FamplexID derives the canonical FamPlex identifier for an HGNC family.
// The abbreviation wins when present: trimmed, with every ", " collapsed to
// "_". Otherwise the trimmed name is used with spaces and hyphens mapped to
// "_" and commas removed. The function is pure and deterministic.
func FamplexID(fam hgnc.Family) string {
	if fam.Abbreviation != "" {
		return strings.ReplaceAll(strings.TrimSpace(fam.Abbreviation), ", ", "_")
	}
	name := strings.TrimSpace(fam.Name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, ",", "")
	return name
}

// IsPseudogene reports whether a resolved display symbol names a pseudogene.
func IsPseudogene(symbol string) bool {
	return pseudogeneRe.MatchString(symbol)
}
