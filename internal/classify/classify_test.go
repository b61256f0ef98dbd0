package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-mdr/internal/catalog"
)

func TestClassify_AcquiredGenes(t *testing.T) {
	c := catalog.Default()

	for _, gene := range []string{"vanA", "vanB", "ermB", "tetM"} {
		for _, change := range []string{"p.Xxx1Yyy", "p.Met1?", "anything"} {
			m, ok := Classify(c, gene, change)
			require.True(t, ok, "%s %s", gene, change)
			assert.Equal(t, TierResistantAcquired, m.Tier, "%s %s", gene, change)
			assert.Equal(t, change, m.Change)
		}
	}
}

func TestClassify_ExactMarkers(t *testing.T) {
	c := catalog.Default()

	for _, g := range c.Genes() {
		for _, marker := range g.Markers {
			m, ok := Classify(c, g.Name, marker)
			require.True(t, ok)
			assert.Equal(t, TierResistantExact, m.Tier, "%s %s", g.Name, marker)

			m, ok = Classify(c, g.Name, marker+"/ENST0001")
			require.True(t, ok)
			assert.Equal(t, TierResistantExact, m.Tier, "substring match for %s", marker)
		}
	}
}

func TestClassify_UncertainVariants(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		gene   string
		change string
	}{
		{"gyrA", "p.Ser83Phe"},
		{"parC", "p.Ala2Val"},
		{"pbp5", "p.Thr3Ile"},
		{"rpoB", "p.His489Tyr"},
	}
	for _, tt := range tests {
		t.Run(tt.gene, func(t *testing.T) {
			m, ok := Classify(c, tt.gene, tt.change)
			require.True(t, ok)
			assert.Equal(t, TierVariantUncertain, m.Tier)
		})
	}
}

func TestClassify_WatchedWithoutCatalogEntries(t *testing.T) {
	c := catalog.Default()

	m, ok := Classify(c, "gyrA_2", "p.Ser83Ile")
	require.True(t, ok, "compound identifiers pass the watch filter")
	assert.Equal(t, TierVariantUncertain, m.Tier)
	assert.Equal(t, catalog.UnknownDrug, m.Drug)
}

func TestClassify_Unwatched(t *testing.T) {
	c := catalog.Default()

	for _, change := range []string{"p.Ser83Ile", "p.Xxx1Yyy", "", "nan"} {
		_, ok := Classify(c, "foo", change)
		assert.False(t, ok, change)
	}
}

func TestClassify_EmptyChanges(t *testing.T) {
	c := catalog.Default()

	for _, g := range c.Genes() {
		for _, change := range []string{"", "nan", "."} {
			_, ok := Classify(c, g.Name, change)
			assert.False(t, ok, "%s %q", g.Name, change)
		}
	}
}

func TestClassify_Drug(t *testing.T) {
	c := catalog.Default()

	m, ok := Classify(c, "gyrA", "p.Ser83Ile")
	require.True(t, ok)
	assert.Equal(t, Mutation{
		Gene:   "gyrA",
		Change: "p.Ser83Ile",
		Drug:   "Fluoroquinolones (Cipro/Levo)",
		Tier:   TierResistantExact,
	}, m)
}

func TestTier_Label(t *testing.T) {
	assert.Equal(t, "RESISTANT (Acquired)", TierResistantAcquired.Label())
	assert.Equal(t, "RESISTANT", TierResistantExact.Label())
	assert.Equal(t, "Variant (VUS)", TierVariantUncertain.Label())
	assert.True(t, TierResistantExact.Resistant())
	assert.False(t, TierVariantUncertain.Resistant())
}
