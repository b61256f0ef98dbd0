package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-mdr/internal/catalog"
	"github.com/inodb/vibe-mdr/internal/classify"
	"github.com/inodb/vibe-mdr/internal/sample"
	"github.com/inodb/vibe-mdr/internal/table"
)

func newTestServer() *Server {
	return New(sample.NewAggregator(catalog.Default()), table.DefaultColumns(), nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCatalog(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "builtin", got.Name)
	require.Len(t, got.Genes, 8)
	assert.Equal(t, "gyrA", got.Genes[0].Name)
	assert.True(t, got.Genes[4].Acquired)
}

func TestClassify(t *testing.T) {
	body := "ANN[*].GENE\tANN[*].HGVS_P\n" +
		"gyrA\tp.Ser83Ile\n" +
		"vanA,foo\tp.Xxx1Yyy,p.Ala1Val\n" +
		"bad\trow\textra\n"

	rec := do(t, newTestServer(), http.MethodPost, "/api/classify/S1", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got sample.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "S1", got.Sample)
	assert.True(t, got.HasFindings)
	assert.Equal(t, 1, got.SkippedRows)
	require.Len(t, got.Mutations, 2)
	assert.Equal(t, classify.TierResistantExact, got.Mutations[0].Tier)
	assert.Equal(t, classify.TierResistantAcquired, got.Mutations[1].Tier)
}

func TestClassify_NoFindings(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/api/classify/S3", "ANN[*].GENE\tANN[*].HGVS_P\nfoo\tp.Ala1Val\n")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mutations":[]`)
	assert.Contains(t, rec.Body.String(), `"has_findings":false`)
}

func TestClassify_BadTable(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/api/classify/S1", "CHROM\tPOS\n1\t2\n")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var got ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "invalid_table", got.Error)
	assert.Contains(t, got.Message, "ANN[*].GENE")
}

func TestClassify_MethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/api/classify/S1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
