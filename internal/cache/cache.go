// Package cache provides an in-memory TTL store for source records.
//
// Each key holds a single entry: storing a value replaces whatever was
// there before. The clock is injectable so tests can drive expiry
// without sleeping.
package cache

import (
	"sync"
	"time"

	"github.com/v6census/ipv6-stats-server/internal/telemetry"
)

// DefaultTTL is the retention window for live records.
const DefaultTTL = 30 * 24 * time.Hour

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// Store is a TTL key-value store, safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects the time source used for storing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value for key if present and not expired.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || s.expired(e) {
		telemetry.CacheRequests.WithLabelValues(telemetry.ResultMiss).Inc()
		if ok {
			// Lazy removal of the stale entry.
			s.Invalidate(key)
		}
		return nil, false
	}

	telemetry.CacheRequests.WithLabelValues(telemetry.ResultHit).Inc()
	return e.value, true
}

// Put stores value under key with the given TTL, replacing any prior entry.
// A non-positive ttl falls back to DefaultTTL.
func (s *Store) Put(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	s.entries[key] = entry{value: value, storedAt: s.now(), ttl: ttl}
	s.mu.Unlock()
}

// Invalidate removes a single key.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// Keys returns the keys of all non-expired entries.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k, e := range s.entries {
		if !s.expired(e) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Stats describes the current contents of the store.
type Stats struct {
	Entries int       `json:"entries"`
	Oldest  time.Time `json:"oldest,omitzero"`
	Newest  time.Time `json:"newest,omitzero"`
}

// Stats returns entry count and the age range of stored values.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	for _, e := range s.entries {
		if s.expired(e) {
			continue
		}
		st.Entries++
		if st.Oldest.IsZero() || e.storedAt.Before(st.Oldest) {
			st.Oldest = e.storedAt
		}
		if e.storedAt.After(st.Newest) {
			st.Newest = e.storedAt
		}
	}
	return st
}

func (s *Store) expired(e entry) bool {
	return s.now().Sub(e.storedAt) > e.ttl
}
