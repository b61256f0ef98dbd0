// Package classify assigns resistance tiers to reported protein changes.
package classify

import (
	"github.com/inodb/vibe-mdr/internal/catalog"
)

// Tier is the confidence bucket of a classified mutation.
type Tier string

// Classification tiers.
const (
	TierResistantAcquired Tier = "RESISTANT_ACQUIRED"
	TierResistantExact    Tier = "RESISTANT_EXACT"
	TierVariantUncertain  Tier = "VARIANT_UNCERTAIN"
)

// Label returns the display label of the tier.
func (t Tier) Label() string {
	switch t {
	case TierResistantAcquired:
		return "RESISTANT (Acquired)"
	case TierResistantExact:
		return "RESISTANT"
	case TierVariantUncertain:
		return "Variant (VUS)"
	}
	return string(t)
}

// Resistant reports whether the tier confirms resistance.
func (t Tier) Resistant() bool {
	return t == TierResistantAcquired || t == TierResistantExact
}

// Mutation is a reported change in a watched gene.
type Mutation struct {
	Gene   string `json:"gene"`
	Change string `json:"change"`
	Drug   string `json:"drug"`
	Tier   Tier   `json:"tier"`
}

// Classify decides whether a (gene, change) pair is of interest and, if so,
// which tier it belongs to. It returns false for unwatched genes and for
// changes without a protein-level annotation.
func Classify(c *catalog.Catalog, gene, change string) (Mutation, bool) {
	e := c.Lookup(gene)
	if !e.Watched {
		return Mutation{}, false
	}
	if isEmptyChange(change) {
		return Mutation{}, false
	}

	tier := TierVariantUncertain
	switch {
	case e.Acquired:
		tier = TierResistantAcquired
	case e.HasMarkers() && e.MatchesExact(change):
		tier = TierResistantExact
	}

	return Mutation{
		Gene:   gene,
		Change: change,
		Drug:   e.Drug,
		Tier:   tier,
	}, true
}

func isEmptyChange(change string) bool {
	switch change {
	case "", "nan", ".":
		return true
	}
	return false
}
