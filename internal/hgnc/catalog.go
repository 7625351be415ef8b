// Package hgnc loads the HGNC gene-family tables into an in-memory catalog.
//
// Three tables feed the catalog: gene↔family membership pairs, family
// metadata (header row first), and the parent→child hierarchy (header row
// first). The catalog is built once per run and passed by value reference
// into the flattening pipeline; it is never mutated after construction.
package hgnc

import (
	"fmt"
)

// Table names as published in the HGNC genefamily archive.
const (
	TableGeneFamily = "gene_has_family.csv"
	TableFamily     = "family.csv"
	TableHierarchy  = "hierarchy.csv"
)

// Family is the typed view of one family.csv row. Only the abbreviation and
// name fields drive identifier derivation; every other column is retained in
// Extra so callers can report on fields the core never interprets.
type Family struct {
	ID           string
	Abbreviation string
	Name         string
	Extra        map[string]string
}

// ParseError reports a malformed source row. Loading stops at the first
// malformed row; there is no partial-row recovery.
type ParseError struct {
	Table string
	Row   int
	Want  int
	Got   int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("hgnc: table %s row %d: expected %d columns, got %d", e.Table, e.Row, e.Want, e.Got)
}

// Catalog indexes the three HGNC tables for one import run.
type Catalog struct {
	familyToGenes  map[string][]string
	geneToFamilies map[string][]string
	families       map[string]Family
	children       map[string][]string
}

// BuildCatalog constructs a catalog from raw table rows. The family and
// hierarchy tables carry a header row which is consumed here; the membership
// table does not. Row order is preserved in every index.
func BuildCatalog(geneFamilyRows, familyRows, hierarchyRows [][]string) (*Catalog, error) {
	c := &Catalog{
		familyToGenes:  make(map[string][]string),
		geneToFamilies: make(map[string][]string),
		families:       make(map[string]Family),
		children:       make(map[string][]string),
	}
	for i, row := range geneFamilyRows {
		if len(row) != 2 {
			return nil, ParseError{Table: TableGeneFamily, Row: i, Want: 2, Got: len(row)}
		}
		geneID, familyID := row[0], row[1]
		c.familyToGenes[familyID] = append(c.familyToGenes[familyID], geneID)
		c.geneToFamilies[geneID] = append(c.geneToFamilies[geneID], familyID)
	}
	if err := c.loadFamilies(familyRows); err != nil {
		return nil, err
	}
	if err := c.loadHierarchy(hierarchyRows); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadFamilies(rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("hgnc: table %s: missing header row", TableFamily)
	}
	header := rows[0]
	if len(header) == 0 {
		return fmt.Errorf("hgnc: table %s: empty header row", TableFamily)
	}
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return ParseError{Table: TableFamily, Row: i + 1, Want: len(header), Got: len(row)}
		}
		fam := Family{ID: row[0], Extra: make(map[string]string, len(header))}
		for col, field := range header {
			switch field {
			case "abbreviation":
				fam.Abbreviation = row[col]
			case "name":
				fam.Name = row[col]
			default:
				fam.Extra[field] = row[col]
			}
		}
		c.families[fam.ID] = fam
	}
	return nil
}

func (c *Catalog) loadHierarchy(rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("hgnc: table %s: missing header row", TableHierarchy)
	}
	for i, row := range rows[1:] {
		if len(row) != 2 {
			return ParseError{Table: TableHierarchy, Row: i + 1, Want: 2, Got: len(row)}
		}
		parent, child := row[0], row[1]
		c.children[parent] = append(c.children[parent], child)
	}
	return nil
}

// Family returns the metadata record for a family id.
func (c *Catalog) Family(id string) (Family, bool) {
	fam, ok := c.families[id]
	return fam, ok
}

// Genes returns the member gene ids of a family in source order. Families
// without members yield nil; duplicates in the source are preserved.
func (c *Catalog) Genes(familyID string) []string {
	return c.familyToGenes[familyID]
}

// Families returns the family ids a gene belongs to, in source order.
func (c *Catalog) Families(geneID string) []string {
	return c.geneToFamilies[geneID]
}

// Children returns the direct child family ids of a parent in source order.
func (c *Catalog) Children(parentID string) []string {
	return c.children[parentID]
}

// Len reports the number of family metadata records loaded.
func (c *Catalog) Len() int {
	return len(c.families)
}
