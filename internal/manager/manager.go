// Package manager coordinates loading of source records: parallel
// warm-up of every source with bounded concurrency, page-scoped loads
// for the API, and invalidation.
package manager

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/v6census/ipv6-stats-server/internal/collector"
	"github.com/v6census/ipv6-stats-server/internal/config"
	"github.com/v6census/ipv6-stats-server/internal/logger"
	"github.com/v6census/ipv6-stats-server/internal/sources"
)

// Pages known to the dashboard, each mapping to the sources it needs.
var pageRequirements = map[string][]string{
	"Overview": {
		sources.NameGoogle,
		sources.NameCloudflareRadar,
		sources.NameCloudflareDNS,
		sources.NameBGP,
	},
	"Global Adoption": {
		sources.NameGoogleCountry,
		sources.NameAPNIC,
		sources.NameCisco6Lab,
	},
	"Cloud Services": {
		sources.NameCloudflareRadar,
		sources.NameCloudflareDNS,
		sources.NameAkamai,
	},
	"BGP Statistics": {
		sources.NameBGP,
		sources.NameCurrentBGP,
		sources.NameBGPHistorical,
	},
	"Extended Data": {
		sources.NameARIN,
		sources.NameRIPE,
		sources.NameLACNIC,
		sources.NameAFRINIC,
		sources.NameNISTUSGv6,
	},
}

// PageNames returns the pages with a source mapping.
func PageNames() []string {
	names := make([]string, 0, len(pageRequirements))
	for name := range pageRequirements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Manager holds the loaded records and drives the collector.
type Manager struct {
	collector *collector.Collector

	mu     sync.RWMutex
	data   map[string]sources.Record
	loaded map[string]time.Time

	maxConcurrency int
	sourceTimeout  time.Duration
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithConcurrency bounds the warm-up fan-out.
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxConcurrency = n
		}
	}
}

// WithSourceTimeout bounds each individual source load.
func WithSourceTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.sourceTimeout = d
		}
	}
}

// WithClock injects the time source used for load timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// New creates a Manager on top of a collector.
func New(c *collector.Collector, opts ...Option) *Manager {
	m := &Manager{
		collector:      c,
		data:           make(map[string]sources.Record),
		loaded:         make(map[string]time.Time),
		maxConcurrency: config.DefaultMaxConcurrency,
		sourceTimeout:  config.DefaultSourceTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadAll fans out over every source with bounded concurrency and waits
// for all of them. Individual failures surface as fallback records, so
// the only way a key stays absent is a collector dispatch bug; those
// are logged and skipped.
func (m *Manager) LoadAll(ctx context.Context) map[string]sources.Record {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.maxConcurrency)

	for _, name := range sources.Names {
		g.Go(func() error {
			loadCtx, cancel := context.WithTimeout(ctx, m.sourceTimeout)
			defer cancel()

			rec, ok := m.collector.Fetch(loadCtx, name)
			if !ok {
				logger.Errorf("unknown source in load list: %s", name)
				return nil
			}
			m.put(name, rec)
			return nil
		})
	}
	// Workers never return errors; Wait is for completion only.
	_ = g.Wait()

	return m.Snapshot()
}

// LoadPageData loads only the sources a page needs and returns that
// subset. Unknown pages return an empty map.
func (m *Manager) LoadPageData(ctx context.Context, page string) map[string]sources.Record {
	needed, ok := pageRequirements[page]
	if !ok {
		logger.Warnf("no source mapping for page %q", page)
		return map[string]sources.Record{}
	}

	result := make(map[string]sources.Record, len(needed))
	for _, name := range needed {
		if rec, ok := m.Load(ctx, name); ok {
			result[name] = rec
		}
	}
	return result
}

// Load returns the record for a single source, fetching it if it is not
// loaded yet. Unknown names return false.
func (m *Manager) Load(ctx context.Context, name string) (sources.Record, bool) {
	if rec, ok := m.get(name); ok {
		return rec, true
	}
	loadCtx, cancel := context.WithTimeout(ctx, m.sourceTimeout)
	defer cancel()

	rec, ok := m.collector.Fetch(loadCtx, name)
	if !ok {
		return nil, false
	}
	m.put(name, rec)
	return rec, true
}

// Get returns a single loaded record.
func (m *Manager) Get(name string) (sources.Record, bool) {
	return m.get(name)
}

// Snapshot returns a copy of the loaded record map.
func (m *Manager) Snapshot() map[string]sources.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]sources.Record, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

// Invalidate drops a single source, or everything when key is empty.
// The collector cache is invalidated too so the next load refetches.
func (m *Manager) Invalidate(key string) {
	m.mu.Lock()
	if key == "" {
		m.data = make(map[string]sources.Record)
		m.loaded = make(map[string]time.Time)
	} else {
		delete(m.data, key)
		delete(m.loaded, key)
	}
	m.mu.Unlock()

	if key == "" {
		m.collector.InvalidateAll()
	} else {
		m.collector.Invalidate(key)
	}
}

// Stats describes the loaded data set.
type Stats struct {
	CachedItems int       `json:"cached_items"`
	Keys        []string  `json:"keys"`
	OldestLoad  time.Time `json:"oldest_load,omitzero"`
	NewestLoad  time.Time `json:"newest_load,omitzero"`
}

// Stats reports how much data is loaded and how fresh it is.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := Stats{CachedItems: len(m.data), Keys: make([]string, 0, len(m.data))}
	for k := range m.data {
		st.Keys = append(st.Keys, k)
	}
	sort.Strings(st.Keys)
	for _, ts := range m.loaded {
		if st.OldestLoad.IsZero() || ts.Before(st.OldestLoad) {
			st.OldestLoad = ts
		}
		if ts.After(st.NewestLoad) {
			st.NewestLoad = ts
		}
	}
	return st
}

func (m *Manager) put(name string, rec sources.Record) {
	m.mu.Lock()
	m.data[name] = rec
	m.loaded[name] = m.now()
	m.mu.Unlock()
}

func (m *Manager) get(name string) (sources.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.data[name]
	return rec, ok
}
