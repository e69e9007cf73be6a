// Package collector fetches, parses and caches every upstream IPv6
// statistics source. Collector methods never return errors: when a live
// fetch or parse fails the caller receives the source's fallback record,
// annotated with the failure, and the dashboard keeps rendering.
package collector

import (
	"context"
	"time"

	"github.com/v6census/ipv6-stats-server/internal/cache"
	"github.com/v6census/ipv6-stats-server/internal/config"
	"github.com/v6census/ipv6-stats-server/internal/httpclient"
	"github.com/v6census/ipv6-stats-server/internal/logger"
	"github.com/v6census/ipv6-stats-server/internal/sources"
	"github.com/v6census/ipv6-stats-server/internal/telemetry"
)

// Collector resolves source records through a cache-then-fetch-then-
// fallback chain.
type Collector struct {
	client   httpclient.Client
	store    *cache.Store
	now      func() time.Time
	ttl      time.Duration
	errorTTL time.Duration

	byName map[string]func(context.Context) sources.Record
}

// Option configures a Collector.
type Option func(*Collector)

// WithClock injects the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// WithTTLs overrides the retention of live and fallback records.
func WithTTLs(live, errTTL time.Duration) Option {
	return func(c *Collector) {
		if live > 0 {
			c.ttl = live
		}
		if errTTL > 0 {
			c.errorTTL = errTTL
		}
	}
}

// New creates a Collector backed by the given HTTP client and cache.
func New(client httpclient.Client, store *cache.Store, opts ...Option) *Collector {
	c := &Collector{
		client:   client,
		store:    store,
		now:      time.Now,
		ttl:      config.DefaultCacheTTL,
		errorTTL: config.DefaultErrorCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.byName = map[string]func(context.Context) sources.Record{
		sources.NameGoogle:             c.GoogleStats,
		sources.NameGoogleCountry:      c.GoogleCountryStats,
		sources.NameAPNIC:              c.APNICStats,
		sources.NameCisco6Lab:          c.Cisco6LabStats,
		sources.NameBGP:                c.BGPStats,
		sources.NameCurrentBGP:         c.CurrentBGPStats,
		sources.NameBGPHistorical:      c.BGPHistoricalData,
		sources.NamePulse:              c.PulseStats,
		sources.NamePulseTechnology:    c.PulseTechnologyStats,
		sources.NameAkamai:             c.AkamaiStats,
		sources.NameVyncke:             c.VynckeStats,
		sources.NameCloudflareRadar:    c.CloudflareRadarStats,
		sources.NameCloudflareDNS:      c.CloudflareDNSStats,
		sources.NameNISTUSGv6:          c.NISTUSGv6Stats,
		sources.NameRIRHistorical:      c.RIRHistoricalStats,
		sources.NameRIPE:               c.RIPEStats,
		sources.NameARIN:               c.ARINStats,
		sources.NameLACNIC:             c.LACNICStats,
		sources.NameAFRINIC:            c.AFRINICStats,
		sources.NameIPv6Matrix:         c.IPv6MatrixStats,
		sources.NameIPv6Test:           c.IPv6TestStats,
		sources.NameDeploymentStats:    c.DeploymentStats,
		sources.NamePrefixDistribution: c.PrefixSizeDistribution,
		sources.NameTopASNs:            c.TopASNsByPrefixes,
		sources.NameRegionalComparison: c.RegionalComparison,
	}
	return c
}

// Fetch resolves a source by name. The second return is false for
// unknown names.
func (c *Collector) Fetch(ctx context.Context, name string) (sources.Record, bool) {
	fn, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return fn(ctx), true
}

// InvalidateAll drops every cached record.
func (c *Collector) InvalidateAll() {
	c.store.Clear()
}

// Invalidate drops a single source's cached record.
func (c *Collector) Invalidate(name string) {
	c.store.Invalidate(name)
}

type fetchFunc func(ctx context.Context) (sources.Record, error)

// resolve is the cache-or-fetch-or-fallback chain shared by every
// source method. Live records are cached for the full TTL; fallback
// records only for the error TTL so the next window retries upstream.
func (c *Collector) resolve(ctx context.Context, name string, fetch fetchFunc) sources.Record {
	if v, ok := c.store.Get(name); ok {
		if rec, ok := v.(sources.Record); ok {
			return rec
		}
	}

	rec, err := fetch(ctx)
	if err != nil {
		logger.Warnf("failed to fetch %s, serving fallback: %v", name, err)
		rec = c.fallbackRecord(name, err)
		telemetry.FetchTotal.WithLabelValues(name, telemetry.OutcomeFallback).Inc()
		c.store.Put(name, rec, c.errorTTL)
		return rec
	}

	c.stamp(rec)
	telemetry.FetchTotal.WithLabelValues(name, telemetry.OutcomeLive).Inc()
	c.store.Put(name, rec, c.ttl)
	return rec
}

// fallbackRecord copies the source's static fallback and annotates the
// failure so consumers can tell live data from last-known-good data.
func (c *Collector) fallbackRecord(name string, err error) sources.Record {
	rec := sources.Fallback(name)
	if rec == nil {
		rec = sources.Record{}
	}
	if src, ok := rec[sources.KeySource].(string); ok && src != "" {
		rec[sources.KeySource] = src + " (fallback)"
	} else {
		rec[sources.KeySource] = name + " (fallback)"
	}
	rec[sources.KeyError] = err.Error()
	c.stamp(rec)
	return rec
}

func (c *Collector) stamp(rec sources.Record) {
	rec[sources.KeyLastUpdated] = c.now().UTC().Format(time.RFC3339)
}
