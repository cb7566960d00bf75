package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/ensgraph/ens"
	"github.com/tranvictor/ensgraph/graph"
	"github.com/tranvictor/ensgraph/metrics"
	"github.com/tranvictor/ensgraph/store"
)

type stubResolver map[string]ens.Profile

func (s stubResolver) Resolve(ctx context.Context, name string) ens.Profile {
	if p, ok := s[name]; ok {
		return p
	}
	return ens.Profile{Name: name, NotFound: true}
}

func newTestServer(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()
	addr := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	resolver := stubResolver{
		"vitalik.eth": {Name: "vitalik.eth", ResolvedAddress: &addr, TextRecords: map[string]string{"url": "https://vitalik.ca"}},
		"broken.eth":  {Name: "broken.eth", FatalError: "couldn't dial any nodes"},
	}
	local := store.NewLocal(store.NewFileKV(filepath.Join(t.TempDir(), "edges.json")), nil)
	m := metrics.New()
	s := New(resolver, store.Mirrored{Local: local}, WithMetrics(m), WithCORSOrigins([]string{"http://localhost:3000"}))
	return s.Router(), m
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetProfileOutcomes(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/profiles/vitalik.eth", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p ens.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "https://vitalik.ca", p.TextRecords["url"])
	assert.False(t, p.NotFound)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/profiles/nobody.eth", nil).Code)
	assert.Equal(t, http.StatusBadGateway, do(t, h, http.MethodGet, "/profiles/broken.eth", nil).Code)
}

func TestValidatePairs(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/pairs/validate", map[string]string{"text": "a.eth, b.eth\na.eth, a.eth"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Pairs  [][2]string `json:"pairs"`
		Errors []string    `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, [][2]string{{"a.eth", "b.eth"}}, resp.Pairs)
	assert.Equal(t, []string{`Line 2: Cannot connect "a.eth" to itself`}, resp.Errors)

	bad := httptest.NewRequest(http.MethodPost, "/pairs/validate", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, bad)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEdgesLifecycleAndGraph(t *testing.T) {
	h, _ := newTestServer(t)

	assert.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/edges", map[string]string{"a": "nick.eth", "b": "santi.eth"}).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/edges", map[string]string{"a": "santi.eth", "b": "nick.eth"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/edges", map[string]string{"a": "x.eth", "b": "X.eth"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/edges", map[string]string{"a": "x.eth"}).Code)

	rec := do(t, h, http.MethodGet, "/edges", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var edges []graph.Edge
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&edges))
	assert.Equal(t, []graph.Edge{{A: "nick.eth", B: "santi.eth"}}, edges)

	rec = do(t, h, http.MethodPost, "/graph", map[string]string{"text": graph.DefaultExample})
	require.Equal(t, http.StatusOK, rec.Code)
	var g struct {
		Nodes   []graph.Node `json:"nodes"`
		Links   []graph.Link `json:"links"`
		Summary string       `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&g))
	assert.Len(t, g.Links, 6)
	assert.True(t, g.Links[5].Custom)
	assert.Equal(t, "6 connections (5 from input, 1 custom), 6 unique ENS names", g.Summary)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/edges", map[string]string{"a": "santi.eth", "b": "nick.eth"}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/edges", map[string]string{"a": "santi.eth", "b": "nick.eth"}).Code)

	do(t, h, http.MethodPost, "/edges", map[string]string{"a": "a.eth", "b": "b.eth"})
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/edges/all", nil).Code)
	rec = do(t, h, http.MethodGet, "/edges", nil)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestServer(t)
	do(t, h, http.MethodGet, "/health", nil)

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ensgraph_http_requests_total{code="200",route="/health"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/edges", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
