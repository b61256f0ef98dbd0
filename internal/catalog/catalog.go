// Package catalog provides the antimicrobial resistance knowledge base used
// to classify protein changes: known resistance markers per gene, acquired
// resistance genes, and the gene to drug mapping.
package catalog

import (
	"slices"
	"strings"
)

// UnknownDrug is reported for genes without a drug mapping.
const UnknownDrug = "Unknown"

// Gene describes one catalog gene.
type Gene struct {
	Name     string   `yaml:"name" json:"name"`
	Drug     string   `yaml:"drug,omitempty" json:"drug,omitempty"`
	Acquired bool     `yaml:"acquired,omitempty" json:"acquired,omitempty"`
	Markers  []string `yaml:"markers,omitempty" json:"markers,omitempty"`
}

// Catalog is an immutable resistance knowledge base. It is safe for
// concurrent use by any number of readers.
type Catalog struct {
	name     string
	watched  []string
	markers  map[string][]string
	acquired map[string]bool
	drugs    map[string]string
}

// Entry is the result of looking up a reported gene symbol.
type Entry struct {
	Gene      string
	Watched   bool
	WatchedAs string // first watched gene contained in Gene
	Acquired  bool
	Markers   []string
	Drug      string
}

// New builds a catalog from the given genes. Genes are watched in the order
// given.
func New(name string, genes []Gene) *Catalog {
	c := &Catalog{
		name:     name,
		markers:  make(map[string][]string),
		acquired: make(map[string]bool),
		drugs:    make(map[string]string),
	}
	for _, g := range genes {
		c.watched = append(c.watched, g.Name)
		if len(g.Markers) > 0 {
			c.markers[g.Name] = slices.Clone(g.Markers)
		}
		if g.Acquired {
			c.acquired[g.Name] = true
		}
		if g.Drug != "" {
			c.drugs[g.Name] = g.Drug
		}
	}
	return c
}

// Default returns the built-in catalog of enterococcal resistance markers.
func Default() *Catalog {
	return New("builtin", []Gene{
		{
			Name: "gyrA",
			Drug: "Fluoroquinolones (Cipro/Levo)",
			Markers: []string{
				"p.Ser83Ile", "p.Ser83Tyr", "p.Asp87Gln",
				"p.Ser84Cys", "p.Ser84Asn",
				"p.Asn709Asp",
			},
		},
		{
			Name:    "parC",
			Drug:    "Fluoroquinolones",
			Markers: []string{"p.Ser80Ile", "p.Glu84Lys", "p.Glu486Gln"},
		},
		{Name: "pbp5", Drug: "Ampicillin", Markers: []string{"p.Met485Ala", "p.Ser466Lue"}},
		{Name: "rpoB", Drug: "Rifampicin", Markers: []string{"p.His489Asp"}},
		{Name: "vanA", Drug: "Vancomycin", Acquired: true},
		{Name: "vanB", Drug: "Vancomycin", Acquired: true},
		{Name: "ermB", Drug: "Erythromycin", Acquired: true},
		{Name: "tetM", Drug: "Tetracycline", Acquired: true},
	})
}

// Name returns the catalog name ("builtin" or the file it was loaded from).
func (c *Catalog) Name() string {
	return c.name
}

// Genes returns the catalog genes in watch order.
func (c *Catalog) Genes() []Gene {
	genes := make([]Gene, 0, len(c.watched))
	for _, name := range c.watched {
		genes = append(genes, Gene{
			Name:     name,
			Drug:     c.drugs[name],
			Acquired: c.acquired[name],
			Markers:  slices.Clone(c.markers[name]),
		})
	}
	return genes
}

// WatchedMatch returns the first watched gene that is a substring of gene.
// Containment rather than equality tolerates compound identifiers such as
// fused locus tags.
func (c *Catalog) WatchedMatch(gene string) (string, bool) {
	for _, w := range c.watched {
		if strings.Contains(gene, w) {
			return w, true
		}
	}
	return "", false
}

// Drug returns the drug label for gene, or UnknownDrug.
func (c *Catalog) Drug(gene string) string {
	if d, ok := c.drugs[gene]; ok {
		return d
	}
	return UnknownDrug
}

// Lookup returns everything the catalog knows about gene. Unknown genes are
// reported as not watched. The entry owns its Markers slice.
func (c *Catalog) Lookup(gene string) Entry {
	e := Entry{
		Gene:     gene,
		Acquired: c.acquired[gene],
		Markers:  slices.Clone(c.markers[gene]),
		Drug:     c.Drug(gene),
	}
	e.WatchedAs, e.Watched = c.WatchedMatch(gene)
	return e
}

// HasMarkers reports whether the entry has any registered markers.
func (e Entry) HasMarkers() bool {
	return len(e.Markers) > 0
}

// MatchesExact reports whether change contains any registered marker.
// Substring containment tolerates transcript and isoform suffixes.
func (e Entry) MatchesExact(change string) bool {
	for _, m := range e.Markers {
		if strings.Contains(change, m) {
			return true
		}
	}
	return false
}
