package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v6census/ipv6-stats-server/internal/cache"
	"github.com/v6census/ipv6-stats-server/internal/collector"
	"github.com/v6census/ipv6-stats-server/internal/sources"
)

// offlineClient refuses every request, so every source resolves to its
// fallback and nothing touches the network.
type offlineClient struct {
	mu    sync.Mutex
	calls int
}

func (o *offlineClient) Get(_ context.Context, _ string) ([]byte, error) {
	o.mu.Lock()
	o.calls++
	o.mu.Unlock()
	return nil, context.DeadlineExceeded
}

func newTestManager(opts ...Option) *Manager {
	c := collector.New(&offlineClient{}, cache.New())
	return New(c, opts...)
}

func TestLoadAllLoadsEverySource(t *testing.T) {
	m := newTestManager(WithConcurrency(3), WithSourceTimeout(time.Second))

	data := m.LoadAll(context.Background())

	require.Len(t, data, len(sources.Names))
	for _, name := range sources.Names {
		require.Contains(t, data, name)
		require.NotNil(t, data[name])
	}

	// Upstream being down must not leave holes; the fetch-heavy
	// sources carry their fallback payloads.
	bgp := data[sources.NameBGP]
	assert.Equal(t, 228748, bgp["total_prefixes"])
	assert.Contains(t, bgp[sources.KeySource], "(fallback)")
}

func TestLoadPageDataKnownPage(t *testing.T) {
	m := newTestManager()

	data := m.LoadPageData(context.Background(), "Extended Data")

	assert.Len(t, data, 5)
	assert.Contains(t, data, sources.NameRIPE)
	assert.Contains(t, data, sources.NameARIN)
	assert.Contains(t, data, sources.NameLACNIC)
	assert.Contains(t, data, sources.NameAFRINIC)
	assert.Contains(t, data, sources.NameNISTUSGv6)
}

func TestLoadPageDataUnknownPage(t *testing.T) {
	m := newTestManager()
	data := m.LoadPageData(context.Background(), "Not A Page")
	assert.Empty(t, data)
}

func TestLoadPageDataReusesLoadedRecords(t *testing.T) {
	m := newTestManager()

	first := m.LoadPageData(context.Background(), "BGP Statistics")
	second := m.LoadPageData(context.Background(), "BGP Statistics")

	assert.Equal(t, first, second)
}

func TestInvalidateSingleKey(t *testing.T) {
	m := newTestManager()
	m.LoadAll(context.Background())

	m.Invalidate(sources.NameBGP)

	_, ok := m.Get(sources.NameBGP)
	assert.False(t, ok)
	_, ok = m.Get(sources.NameGoogle)
	assert.True(t, ok, "other keys must survive a single-key invalidation")
}

func TestInvalidateAll(t *testing.T) {
	m := newTestManager()
	m.LoadAll(context.Background())

	m.Invalidate("")

	assert.Zero(t, m.Stats().CachedItems)
}

func TestStats(t *testing.T) {
	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	m := newTestManager(WithClock(func() time.Time { return base }))

	assert.Zero(t, m.Stats().CachedItems)

	m.LoadAll(context.Background())
	st := m.Stats()

	assert.Equal(t, len(sources.Names), st.CachedItems)
	assert.Len(t, st.Keys, len(sources.Names))
	assert.Equal(t, base, st.OldestLoad)
	assert.Equal(t, base, st.NewestLoad)
}

func TestPageNames(t *testing.T) {
	names := PageNames()
	assert.Equal(t, []string{
		"BGP Statistics",
		"Cloud Services",
		"Extended Data",
		"Global Adoption",
		"Overview",
	}, names)
}
