package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/corey/ruinadex/dex"
	"github.com/corey/ruinadex/internal/app"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	root, err := filepath.Abs("../../../testdata/gamedata")
	require.NoError(t, err)
	a, _, err := app.Build(context.Background(), &app.Paths{
		RuinaData:    filepath.Join(root, "ruina"),
		Curated:      filepath.Join(root, "curated"),
		LoboCorpData: filepath.Join(root, "lobocorp"),
	}, zap.NewNop())
	require.NoError(t, err)

	srv := NewServer(dex.FromArtifact(a), zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	var result map[string]string
	resp := getJSON(t, ts.URL+"/api/health", &result)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "ok", result["status"])
	assert.Equal(t, "0", result["queries"])

	for range 6 {
		getJSON(t, ts.URL+"/api/query?q=pillar", nil)
	}
	getJSON(t, ts.URL+"/api/health", &result)
	assert.Equal(t, "6", result["queries"])
	assert.NotEmpty(t, result["query_p50"])
}

func TestStatsEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	var result dex.Stats
	getJSON(t, ts.URL+"/api/stats", &result)
	assert.Equal(t, 11, result.Records["combat_page"])
	assert.Equal(t, 9, result.Abnormalities)
}

func TestQueryEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	var result QueryResult
	resp := getJSON(t, ts.URL+"/api/query?q=degraded+pillar&limit=3", &result)
	assert.Equal(t, 200, resp.StatusCode)
	require.Len(t, result.Hits, 3)
	assert.Equal(t, 3, result.Count)
	assert.Equal(t, "c#607204", result.Hits[0].ID.String())
	assert.Equal(t, "Degraded Pillar", result.Hits[0].Label)
	assert.Positive(t, result.Hits[0].Score)
}

func TestQueryEndpoint_Locale(t *testing.T) {
	ts := setupTestServer(t)

	var result QueryResult
	getJSON(t, ts.URL+"/api/query?q=k%23150036&locale=kr", &result)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "샤오의 책장 (류 협회 1과)", result.Hits[0].Label)
}

func TestQueryEndpoint_BadParams(t *testing.T) {
	ts := setupTestServer(t)

	var result map[string]string
	resp := getJSON(t, ts.URL+"/api/query?q=x&limit=abc", &result)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, result["error"], "limit")

	resp = getJSON(t, ts.URL+"/api/query?q=x&locale=ru", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "ru is a LoboCorp-only locale")
}

func TestAutocompleteEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	var result struct {
		Choices []dex.Choice `json:"choices"`
	}
	getJSON(t, ts.URL+"/api/autocomplete?q=the+weight+of+sin", &result)
	var labels []string
	for _, c := range result.Choices {
		labels = append(labels, c.Label)
	}
	assert.Contains(t, labels, "The Weight of Sin (abno page)")
	assert.Contains(t, labels, "The Weight of Sin (passive)")
}

func TestRecordEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	// Record is an interface in RecordResult; keep it raw on the way back.
	var result struct {
		RecordResult
		Record json.RawMessage `json:"record"`
	}
	resp := getJSON(t, ts.URL+"/api/records/c%23202005", &result)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, dex.TypedID{Kind: dex.CombatPage, ID: "202005"}, result.ID)
	assert.Equal(t, "combat_page", result.Kind)
	assert.Equal(t, "enemy_only", result.Collectability)
	assert.Equal(t, "urban_myth", result.Chapter)
	assert.Equal(t, "Gather Intel (enemy)", result.Labels["en"])
	assert.Equal(t, "적 전용", result.Disambiguations["ko"])

	var rec map[string]any
	require.NoError(t, json.Unmarshal(result.Record, &rec))
	assert.NotEmpty(t, rec)
}

func TestRecordEndpoint_Errors(t *testing.T) {
	ts := setupTestServer(t)

	resp := getJSON(t, ts.URL+"/api/records/x%231", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = getJSON(t, ts.URL+"/api/records/c%23999999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEncyclopediaEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	var result struct {
		Entries []EncyclopediaEntry `json:"entries"`
	}
	getJSON(t, ts.URL+"/api/encyclopedia?q=whitenight", &result)
	require.NotEmpty(t, result.Entries)
	assert.Equal(t, uint32(100015), result.Entries[0].ID)
	assert.Equal(t, "P", result.Entries[0].Damage)
}

func TestSearchPage(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestStartStop(t *testing.T) {
	srv := NewServer(nil, zap.NewNop())
	require.NoError(t, srv.Start("127.0.0.1:0"))
	assert.Contains(t, srv.URL(), "http://127.0.0.1:")
	srv.Stop()
	srv.Stop()
}
