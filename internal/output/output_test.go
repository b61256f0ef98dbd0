package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-mdr/internal/classify"
	"github.com/inodb/vibe-mdr/internal/sample"
)

func testReport() *Report {
	return &Report{
		RunID:     "run-1",
		Generated: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Catalog:   "builtin",
		Samples: []*sample.Result{
			{
				Sample:      "S1",
				HasFindings: true,
				Mutations: []classify.Mutation{
					{Gene: "gyrA", Change: "p.Ser83Ile", Drug: "Fluoroquinolones (Cipro/Levo)", Tier: classify.TierResistantExact},
					{Gene: "parC", Change: "p.Ala2Val", Drug: "Fluoroquinolones", Tier: classify.TierVariantUncertain},
				},
			},
			{
				Sample:      "S2",
				HasFindings: true,
				Mutations: []classify.Mutation{
					{Gene: "vanA", Change: "p.Xxx1Yyy", Drug: "Vancomycin", Tier: classify.TierResistantAcquired},
				},
				SkippedRows: 2,
			},
			{Sample: "S3", Mutations: []classify.Mutation{}},
		},
	}
}

func TestNewReport(t *testing.T) {
	r := NewReport("builtin", nil)
	assert.Len(t, r.RunID, 36)
	assert.WithinDuration(t, time.Now(), r.Generated, time.Minute)
	assert.Equal(t, "builtin", r.Catalog)
	assert.Equal(t, "2026-03-14", testReport().Date())
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{FormatHTML, FormatTab, FormatJSON, FormatTerminal} {
		f, err := NewFormatter(name, true)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	_, err := NewFormatter("pdf", false)
	assert.Error(t, err)
}

func TestTabFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TabFormatter{}).Format(&buf, testReport()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Sample\tGene\tAA_Change\tDrug\tStatus\tTier", lines[0])
	assert.Equal(t, "S1\tgyrA\tp.Ser83Ile\tFluoroquinolones (Cipro/Levo)\tRESISTANT\tRESISTANT_EXACT", lines[1])
	assert.Equal(t, "S1\tparC\tp.Ala2Val\tFluoroquinolones\tVariant (VUS)\tVARIANT_UNCERTAIN", lines[2])
	assert.Equal(t, "S2\tvanA\tp.Xxx1Yyy\tVancomycin\tRESISTANT (Acquired)\tRESISTANT_ACQUIRED", lines[3])
	assert.Equal(t, "S3\t-\t-\t-\tSENSITIVE\t-", lines[4])
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, testReport()))

	var got struct {
		RunID   string `json:"run_id"`
		Samples []struct {
			Sample      string `json:"sample"`
			HasFindings bool   `json:"has_findings"`
			SkippedRows int    `json:"skipped_rows"`
			Mutations   []struct {
				Gene string `json:"gene"`
				Tier string `json:"tier"`
			} `json:"mutations"`
		} `json:"samples"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "run-1", got.RunID)
	require.Len(t, got.Samples, 3)
	assert.Equal(t, "RESISTANT_EXACT", got.Samples[0].Mutations[0].Tier)
	assert.Equal(t, 2, got.Samples[1].SkippedRows)
	assert.False(t, got.Samples[2].HasFindings)
	assert.Contains(t, buf.String(), `"mutations": []`, "no-findings samples serialise an empty list")
}

func TestHTMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&HTMLFormatter{}).Format(&buf, testReport()))
	html := buf.String()

	assert.Contains(t, html, "MDR Genomic Analysis Report")
	assert.Contains(t, html, "<b>Date:</b> 2026-03-14")
	assert.Contains(t, html, "SAMPLE: S1")
	assert.Contains(t, html, `<span class="badge-red">RESISTANT</span>`)
	assert.Contains(t, html, `<span class="badge-orange">Variant (VUS)</span>`)
	assert.Contains(t, html, `<span class="badge-red">RESISTANT (Acquired)</span>`)
	assert.Equal(t, 1, strings.Count(html, "No relevant resistance mutations found (Sensitive)"))

	// Samples appear in order
	assert.Less(t, strings.Index(html, "SAMPLE: S1"), strings.Index(html, "SAMPLE: S2"))
	assert.Less(t, strings.Index(html, "SAMPLE: S2"), strings.Index(html, "SAMPLE: S3"))
}

func TestHTMLFormatter_Escapes(t *testing.T) {
	r := testReport()
	r.Samples = []*sample.Result{{
		Sample:      "<script>",
		HasFindings: true,
		Mutations:   []classify.Mutation{{Gene: "gyrA", Change: "p.A<B", Tier: classify.TierVariantUncertain}},
	}}

	var buf bytes.Buffer
	require.NoError(t, (&HTMLFormatter{}).Format(&buf, r))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "p.A&lt;B")
}

func TestSampleRows_Component(t *testing.T) {
	var buf bytes.Buffer
	res := testReport().Samples[1]
	require.NoError(t, sampleRows(res).Render(context.Background(), &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `            <tr class="sample-header"><td colspan="4">SAMPLE: S2</td></tr>`))
	assert.Contains(t, out, `<span class="badge-red">RESISTANT (Acquired)</span>`)
	assert.NotContains(t, out, "Sensitive")
}

func TestTerminalFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TerminalFormatter{NoColor: true}).Format(&buf, testReport()))
	out := buf.String()

	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "SAMPLE: S1")
	assert.Contains(t, out, "p.Ser83Ile")
	assert.Contains(t, out, "(2 malformed rows skipped)")
	assert.Contains(t, out, "No relevant resistance mutations found (Sensitive)")
	assert.Contains(t, out, "3 samples, 2 with resistance")
}
