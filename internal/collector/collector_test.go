package collector

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v6census/ipv6-stats-server/internal/cache"
	"github.com/v6census/ipv6-stats-server/internal/sources"
)

// stubClient serves canned bodies per URL and counts requests.
type stubClient struct {
	mu        sync.Mutex
	bodies    map[string]string
	err       error
	callCount map[string]int
}

func newStubClient() *stubClient {
	return &stubClient{
		bodies:    make(map[string]string),
		callCount: make(map[string]int),
	}
}

func (s *stubClient) Get(_ context.Context, url string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callCount[url]++
	if body, ok := s.bodies[url]; ok {
		return []byte(body), nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, errors.New("connection refused")
}

func (s *stubClient) calls(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount[url]
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newCollector(client *stubClient) (*Collector, *testClock) {
	clock := &testClock{now: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)}
	store := cache.New(cache.WithClock(clock.Now))
	c := New(client, store,
		WithClock(clock.Now),
		WithTTLs(30*24*time.Hour, time.Hour),
	)
	return c, clock
}

func TestGoogleStatsLive(t *testing.T) {
	client := newStubClient()
	client.bodies[googleStatsURL] = `<html><body>
	<p>Around 47.3% of users that access Google over IPv6.</p></body></html>`

	c, _ := newCollector(client)
	rec := c.GoogleStats(context.Background())

	assert.Equal(t, 47.3, rec["global_percentage"])
	assert.Equal(t, "Google IPv6 Statistics", rec[sources.KeySource])
	assert.NotContains(t, rec, sources.KeyError)
	assert.Equal(t, "2025-08-01T00:00:00Z", rec[sources.KeyLastUpdated])
}

func TestGoogleStatsFallbackOnFetchError(t *testing.T) {
	c, _ := newCollector(newStubClient())
	rec := c.GoogleStats(context.Background())

	assert.Equal(t, 47.0, rec["global_percentage"])
	assert.Contains(t, rec[sources.KeySource], "(fallback)")
	assert.Contains(t, rec[sources.KeyError], "connection refused")
}

func TestGoogleStatsFallbackOnParseFailure(t *testing.T) {
	client := newStubClient()
	client.bodies[googleStatsURL] = "<html><body>nothing useful here</body></html>"

	c, _ := newCollector(client)
	rec := c.GoogleStats(context.Background())

	assert.Equal(t, 47.0, rec["global_percentage"])
	assert.Contains(t, rec[sources.KeySource], "(fallback)")
}

func TestResolveCachesLiveRecords(t *testing.T) {
	client := newStubClient()
	client.bodies[googleStatsURL] = "<p>47% of users reach Google over IPv6</p>"

	c, _ := newCollector(client)
	first := c.GoogleStats(context.Background())
	second := c.GoogleStats(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.calls(googleStatsURL), "second call must hit the cache")
}

func TestErrorRecordsExpireSooner(t *testing.T) {
	client := newStubClient()
	c, clock := newCollector(client)

	rec := c.GoogleStats(context.Background())
	assert.Contains(t, rec, sources.KeyError)
	assert.Equal(t, 1, client.calls(googleStatsURL))

	// Within the error TTL the fallback is served from cache.
	clock.Advance(30 * time.Minute)
	_ = c.GoogleStats(context.Background())
	assert.Equal(t, 1, client.calls(googleStatsURL))

	// Past the error TTL the source is retried and can recover.
	clock.Advance(time.Hour)
	client.mu.Lock()
	client.bodies[googleStatsURL] = "<p>48.1% of users reach Google over IPv6</p>"
	client.mu.Unlock()

	rec = c.GoogleStats(context.Background())
	assert.Equal(t, 2, client.calls(googleStatsURL))
	assert.Equal(t, 48.1, rec["global_percentage"])
	assert.NotContains(t, rec, sources.KeyError)
}

func TestBGPStatsParsesBGPStuff(t *testing.T) {
	client := newStubClient()
	client.bodies[bgpStuffURL] = "<p>There are currently 1,014,404 IPv4 prefixes and 228,748 IPv6 prefixes</p>"

	c, _ := newCollector(client)
	rec := c.BGPStats(context.Background())

	assert.Equal(t, 228748, rec["total_prefixes"])
	assert.Equal(t, 1014404, rec["total_ipv4_prefixes"])
	assert.Equal(t, "BGP Stuff", rec[sources.KeySource])
}

func TestBGPStatsFallsBackToPotaroo(t *testing.T) {
	client := newStubClient()
	client.bodies[bgpPotarooURL] = "<p>table holds 210,532 routes total</p>"

	c, _ := newCollector(client)
	rec := c.BGPStats(context.Background())

	assert.Equal(t, 210532, rec["total_prefixes"])
	assert.Equal(t, "BGP Potaroo", rec[sources.KeySource])
}

func TestBGPStatsFallbackWhenBothSourcesFail(t *testing.T) {
	c, _ := newCollector(newStubClient())
	rec := c.BGPStats(context.Background())

	assert.Equal(t, 228748, rec["total_prefixes"])
	assert.Equal(t, 1014404, rec["total_ipv4_prefixes"])
	assert.Contains(t, rec[sources.KeySource], "(fallback)")
}

func TestCurrentBGPStatsDerivesRatios(t *testing.T) {
	client := newStubClient()
	client.bodies[bgpStuffURL] = "<p>There are currently 1,000,000 IPv4 prefixes and 200,000 IPv6 prefixes</p>"

	c, _ := newCollector(client)
	rec := c.CurrentBGPStats(context.Background())

	assert.Equal(t, 200000, rec["total_prefixes"])
	assert.Equal(t, 20.0, rec["ipv6_vs_ipv4_ratio"])
	assert.InDelta(t, float64(200000)/65000, rec["avg_prefixes_per_as"], 1e-9)
}

func TestRIPEStatsParsesDelegations(t *testing.T) {
	client := newStubClient()
	client.bodies[ripeDelegationsURL] = strings.Join([]string{
		"ripencc|US|ipv6|2001:400::|32|20040503|allocated",
		"ripencc|DE|ipv6|2001:db8::|48|20100101|assigned",
		"",
	}, "\n")

	c, _ := newCollector(client)
	rec := c.RIPEStats(context.Background())

	top, ok := rec["top_countries"].(map[string]sources.CountryAllocation)
	require.True(t, ok)

	// The US /32 is one block, the DE /48 a 1/65536 sliver, so the US
	// holds essentially the whole total (100.00 after 2-decimal rounding).
	assert.Equal(t, 1.0, top["US"].Allocations)
	assert.Equal(t, 100.0, top["US"].Percentage)
	assert.Equal(t, 0.0, top["DE"].Percentage)
	assert.InDelta(t, 1.0/65536, top["DE"].Allocations, 1e-12)
	assert.Equal(t, 2, rec["total_countries"])
	assert.Equal(t, 1, rec["total_addresses"])
}

func TestLACNICStatsCountsSlash48Blocks(t *testing.T) {
	client := newStubClient()
	client.bodies[lacnicDelegationsURL] = "lacnic|BR|ipv6|2801::|32|20100101|allocated\n" +
		"lacnic|AR|ipv6|2803::|48|20150101|assigned\n"

	c, _ := newCollector(client)
	rec := c.LACNICStats(context.Background())

	assert.Equal(t, 65537, rec["total_addresses"])
	assert.Equal(t, "/48 equivalent blocks", rec["measurement_unit"])
}

func TestARINStatsFallbackKeepsMembership(t *testing.T) {
	c, _ := newCollector(newStubClient())
	rec := c.ARINStats(context.Background())

	membership, ok := rec["membership_stats"].(sources.Record)
	require.True(t, ok)
	assert.Equal(t, 26292, membership["total_members"])
	assert.Contains(t, rec[sources.KeySource], "(fallback)")
}

func TestQueryASNKnownOrganization(t *testing.T) {
	client := newStubClient()
	c, _ := newCollector(client)

	rec := c.QueryASN(context.Background(), "AS15169")

	assert.Equal(t, "Google LLC", rec["organization_name"])
	assert.Equal(t, "Full Support", rec["ipv6_status"])
	assert.Equal(t, []string{"2001:4860::/32", "2404:6800::/32"}, rec["ipv6_allocations"])
	assert.Empty(t, client.callCount, "curated entries must not trigger lookups")
}

func TestQueryASNBGPView(t *testing.T) {
	client := newStubClient()
	client.bodies["https://bgpview.io/api/asn/64500"] = `{
		"status": "ok",
		"data": {
			"asn": 64500,
			"name": "EXAMPLE-NET",
			"country_code": "NL",
			"ipv6_prefixes": [{"prefix": "2001:db8::/32"}]
		}
	}`

	c, _ := newCollector(client)
	rec := c.QueryASN(context.Background(), "AS64500")

	assert.Equal(t, "EXAMPLE-NET", rec["organization_name"])
	assert.Equal(t, "NL", rec["country"])
	assert.Equal(t, "Full Support", rec["ipv6_status"])
	assert.Equal(t, []string{"2001:db8::/32"}, rec["ipv6_allocations"])
}

func TestQueryASNUnknownNeverErrors(t *testing.T) {
	c, _ := newCollector(newStubClient())
	rec := c.QueryASN(context.Background(), "AS64511")

	assert.Equal(t, "Unknown Organization", rec["organization_name"])
	assert.NotEmpty(t, rec["recommendation"])
}

func TestFetchDispatchesEverySource(t *testing.T) {
	c, _ := newCollector(newStubClient())
	for _, name := range sources.Names {
		rec, ok := c.Fetch(context.Background(), name)
		require.True(t, ok, "source %s must be dispatchable", name)
		require.NotNil(t, rec)
		assert.Contains(t, rec, sources.KeyLastUpdated, "source %s", name)
	}
}

func TestFetchUnknownSource(t *testing.T) {
	c, _ := newCollector(newStubClient())
	_, ok := c.Fetch(context.Background(), "nonsense")
	assert.False(t, ok)
}

func TestGlobalHistoricalDataShape(t *testing.T) {
	c, _ := newCollector(newStubClient())
	points := c.GlobalHistoricalData("Last 6 Months")

	require.Len(t, points, 6)
	for _, p := range points {
		global := p["global_adoption"].(float64)
		mobile := p["mobile_adoption"].(float64)
		desktop := p["desktop_adoption"].(float64)
		assert.GreaterOrEqual(t, mobile, global)
		assert.LessOrEqual(t, desktop, global)
	}
}

func TestCountryAnalysisKnownAndUnknown(t *testing.T) {
	c, _ := newCollector(newStubClient())

	us := c.CountryAnalysis("United States")
	assert.Equal(t, 48.5, us["adoption_rate"])
	assert.Equal(t, "ARIN", us["registry"])

	other := c.CountryAnalysis("Atlantis")
	assert.Equal(t, 25.0, other["adoption_rate"])
	assert.Contains(t, other, "note")
}
