// Package telemetry exposes Prometheus metrics for the data collection layer.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for FetchTotal.
const (
	OutcomeLive     = "live"
	OutcomeFallback = "fallback"
)

// Result labels for CacheRequests.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

var (
	// Registry holds all collectors for this process.
	Registry = prometheus.NewRegistry()

	// FetchTotal counts source resolutions by outcome.
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipv6stats_fetch_total",
			Help: "Number of source record resolutions, labeled by source name and outcome (live or fallback).",
		},
		[]string{"source", "outcome"},
	)

	// CacheRequests counts cache lookups by result.
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipv6stats_cache_requests_total",
			Help: "Number of record cache lookups, labeled by result (hit or miss).",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		FetchTotal,
		CacheRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
