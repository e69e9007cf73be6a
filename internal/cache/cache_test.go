package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestPutAndGet(t *testing.T) {
	s := New()
	s.Put("google_stats", map[string]any{"ipv6_adoption": 47.0}, time.Hour)

	v, ok := s.Get("google_stats")
	require.True(t, ok)
	rec, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 47.0, rec["ipv6_adoption"])
}

func TestGetMissingKey(t *testing.T) {
	s := New()
	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestPutReplacesEntry(t *testing.T) {
	s := New()
	s.Put("k", "old", time.Hour)
	s.Put("k", "new", time.Hour)

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, s.Stats().Entries)
}

func TestExpiry(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Put("k", "v", time.Hour)

	_, ok := s.Get("k")
	assert.True(t, ok)

	clock.Advance(59 * time.Minute)
	_, ok = s.Get("k")
	assert.True(t, ok, "entry within TTL must survive")

	clock.Advance(2 * time.Minute)
	_, ok = s.Get("k")
	assert.False(t, ok, "entry past TTL must expire")

	// The stale entry is removed on access, so a re-Put starts fresh.
	s.Put("k", "v2", time.Hour)
	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestPerEntryTTL(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Put("live", "x", 30*24*time.Hour)
	s.Put("error", "y", time.Hour)

	clock.Advance(2 * time.Hour)

	_, ok := s.Get("error")
	assert.False(t, ok, "short-lived entry must expire independently")
	_, ok = s.Get("live")
	assert.True(t, ok)
}

func TestZeroTTLUsesDefault(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Put("k", "v", 0)
	clock.Advance(29 * 24 * time.Hour)
	_, ok := s.Get("k")
	assert.True(t, ok)

	clock.Advance(2 * 24 * time.Hour)
	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	s := New()
	s.Put("a", 1, time.Hour)
	s.Put("b", 2, time.Hour)

	s.Invalidate("a")

	_, ok := s.Get("a")
	assert.False(t, ok)
	_, ok = s.Get("b")
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	s := New()
	s.Put("a", 1, time.Hour)
	s.Put("b", 2, time.Hour)

	s.Clear()

	assert.Empty(t, s.Keys())
	assert.Equal(t, 0, s.Stats().Entries)
}

func TestKeysSkipsExpired(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Put("fresh", 1, time.Hour)
	s.Put("stale", 2, time.Minute)
	clock.Advance(30 * time.Minute)

	keys := s.Keys()
	assert.Equal(t, []string{"fresh"}, keys)
}

func TestStats(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.Put("a", 1, time.Hour)
	first := clock.Now()
	clock.Advance(10 * time.Minute)
	s.Put("b", 2, time.Hour)
	second := clock.Now()

	st := s.Stats()
	assert.Equal(t, 2, st.Entries)
	assert.Equal(t, first, st.Oldest)
	assert.Equal(t, second, st.Newest)
}
