package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v6census/ipv6-stats-server/internal/api"
	"github.com/v6census/ipv6-stats-server/internal/cache"
	"github.com/v6census/ipv6-stats-server/internal/collector"
	"github.com/v6census/ipv6-stats-server/internal/manager"
	"github.com/v6census/ipv6-stats-server/internal/sources"
)

// offlineClient refuses every request, so handlers serve fallback data
// deterministically.
type offlineClient struct{}

func (offlineClient) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, context.DeadlineExceeded
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	col := collector.New(offlineClient{}, cache.New())
	mgr := manager.New(col)
	srv := httptest.NewServer(api.NewServer(mgr, col, api.WithMiddlewares(api.LoggingMiddleware)))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, srv.URL+"/health", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestListSources(t *testing.T) {
	srv := newTestServer(t)

	var body api.ListSourcesResponse
	resp := getJSON(t, srv.URL+"/api/v0/sources", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, len(sources.Names), body.Total)
	assert.Contains(t, body.Sources, sources.NameBGP)
}

func TestGetSource(t *testing.T) {
	srv := newTestServer(t)

	var rec map[string]any
	resp := getJSON(t, srv.URL+"/api/v0/sources/bgp_stats", &rec)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(228748), rec["total_prefixes"])
	assert.Contains(t, rec["source"], "(fallback)")
}

func TestGetSourceUnknown(t *testing.T) {
	srv := newTestServer(t)

	var body api.ErrorResponse
	resp := getJSON(t, srv.URL+"/api/v0/sources/nope", &body)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Unknown source", body.Error)
}

func TestGetPageData(t *testing.T) {
	srv := newTestServer(t)

	var data map[string]map[string]any
	resp := getJSON(t, srv.URL+"/api/v0/pages/Extended%20Data", &data)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, data, 5)
	assert.Contains(t, data, sources.NameRIPE)
}

func TestGetPageDataUnknown(t *testing.T) {
	srv := newTestServer(t)
	resp := getJSON(t, srv.URL+"/api/v0/pages/NoSuchPage", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListPages(t *testing.T) {
	srv := newTestServer(t)

	var body api.ListPagesResponse
	resp := getJSON(t, srv.URL+"/api/v0/pages", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, body.Total)
	assert.Contains(t, body.Pages, "Overview")
}

func TestQueryASN(t *testing.T) {
	srv := newTestServer(t)

	var rec map[string]any
	resp := getJSON(t, srv.URL+"/api/v0/asn/AS15169", &rec)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Google LLC", rec["organization_name"])
	assert.Equal(t, "Full Support", rec["ipv6_status"])
}

func TestCountryAnalysisEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var rec map[string]any
	resp := getJSON(t, srv.URL+"/api/v0/countries/Germany", &rec)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 75.3, rec["adoption_rate"])
	history, ok := rec["history"].([]any)
	require.True(t, ok)
	assert.Len(t, history, 12)
}

func TestTrendsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var points []map[string]any
	resp := getJSON(t, srv.URL+"/api/v0/trends/global?range=Last+6+Months", &points)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, points, 6)

	resp = getJSON(t, srv.URL+"/api/v0/trends/unknown", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRefreshAll(t *testing.T) {
	srv := newTestServer(t)

	// Load something first so the refresh has data to drop.
	getJSON(t, srv.URL+"/api/v0/sources/bgp_stats", nil)

	resp, err := http.Post(srv.URL+"/api/v0/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body api.RefreshResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "all", body.Invalidated)

	var stats manager.Stats
	getJSON(t, srv.URL+"/api/v0/stats", &stats)
	assert.Zero(t, stats.CachedItems)
}

func TestRefreshSingleSource(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v0/refresh?source=bgp_stats", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/v0/refresh?source=bogus", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
