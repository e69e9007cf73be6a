package collector

import (
	"context"
	"fmt"

	"github.com/v6census/ipv6-stats-server/internal/extract"
	"github.com/v6census/ipv6-stats-server/internal/logger"
	"github.com/v6census/ipv6-stats-server/internal/sources"
)

const (
	bgpStuffURL   = "https://bgpstuff.net/totals"
	bgpPotarooURL = "https://bgp.potaroo.net/v6/as2.0/index.html"

	// Routing table growth model, roughly 26k new IPv6 prefixes a year.
	bgpYearlyGrowth   = 26000
	bgpModelBaseline  = 185000
	bgpEstimatedASNs  = 65000
	bgpNewASNsMonthly = 150
)

// BGPStats returns IPv6 routing table totals, preferring bgpstuff.net
// and falling back to Potaroo when its counters are absent.
func (c *Collector) BGPStats(ctx context.Context) sources.Record {
	return c.resolve(ctx, sources.NameBGP, c.fetchBGPStats)
}

func (c *Collector) fetchBGPStats(ctx context.Context) (sources.Record, error) {
	if body, err := c.client.Get(ctx, bgpStuffURL); err == nil {
		text := extract.Text(body)
		if ipv6, ok := extract.CountBefore(text, "IPv6 prefixes"); ok {
			ipv4, _ := extract.CountBefore(text, "IPv4 prefixes")
			return sources.Record{
				"total_prefixes":          ipv6,
				"total_ipv4_prefixes":     ipv4,
				"estimated_growth_yearly": bgpYearlyGrowth,
				sources.KeySource:         "BGP Stuff",
				sources.KeyURL:            bgpStuffURL,
			}, nil
		}
	} else {
		logger.Debugf("bgpstuff.net unavailable, trying Potaroo: %v", err)
	}

	body, err := c.client.Get(ctx, bgpPotarooURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch BGP table statistics: %w", err)
	}
	text := extract.Text(body)
	prefixes, ok := extract.CountNear(text, "prefixes", "routes")
	if err := extract.RequireMatch(ok, "IPv6 prefix count"); err != nil {
		return nil, err
	}
	return sources.Record{
		"total_prefixes":          prefixes,
		"estimated_growth_yearly": bgpYearlyGrowth,
		sources.KeySource:         "BGP Potaroo",
		sources.KeyURL:            bgpPotarooURL,
	}, nil
}

// CurrentBGPStats derives per-AS averages and the v6/v4 ratio from the
// routing table totals.
func (c *Collector) CurrentBGPStats(ctx context.Context) sources.Record {
	return c.resolve(ctx, sources.NameCurrentBGP, func(ctx context.Context) (sources.Record, error) {
		base := c.BGPStats(ctx)

		ipv6 := intValue(base, "total_prefixes", 228748)
		ipv4 := intValue(base, "total_ipv4_prefixes", 1014404)
		if ipv4 < 1 {
			ipv4 = 1
		}

		return sources.Record{
			"total_prefixes":      ipv6,
			"total_ipv4_prefixes": ipv4,
			"total_asns":          bgpEstimatedASNs,
			"monthly_growth":      bgpYearlyGrowth / 12,
			"new_asns":            bgpNewASNsMonthly,
			"avg_prefixes_per_as": float64(ipv6) / float64(bgpEstimatedASNs),
			"ipv6_vs_ipv4_ratio":  sources.Round2(float64(ipv6) / float64(ipv4) * 100),
			sources.KeySource:     base[sources.KeySource],
		}, nil
	})
}

// BGPHistoricalData synthesizes two years of monthly table sizes from
// the linear growth model.
func (c *Collector) BGPHistoricalData(ctx context.Context) sources.Record {
	return c.resolve(ctx, sources.NameBGPHistorical, func(context.Context) (sources.Record, error) {
		now := c.now()
		points := make([]sources.Record, 0, 24)
		for monthsBack := 24; monthsBack > 0; monthsBack-- {
			date := now.AddDate(0, 0, -monthsBack*30)
			prefixes := float64(bgpModelBaseline) - float64(monthsBack)/12*bgpYearlyGrowth
			points = append(points, sources.Record{
				"date":           date.Format("2006-01-02"),
				"total_prefixes": int(prefixes),
				"monthly_growth": float64(bgpYearlyGrowth) / 12,
			})
		}
		return sources.Record{
			"history":         points,
			sources.KeySource: "BGP growth model",
		}, nil
	})
}

// BGPTimeline synthesizes table growth over a named time range for the
// trends views.
func (c *Collector) BGPTimeline(timeRange string) []sources.Record {
	months := monthsForRange(timeRange)
	now := c.now()

	timeline := make([]sources.Record, 0, months)
	for i := months; i > 0; i-- {
		date := now.AddDate(0, 0, -i*30)
		prefixes := float64(bgpModelBaseline) - float64(i)/12*bgpYearlyGrowth
		if prefixes < 50000 {
			prefixes = 50000
		}
		timeline = append(timeline, sources.Record{
			"date":           date.Format("2006-01-02"),
			"total_prefixes": int(prefixes),
			"growth_rate":    float64(bgpYearlyGrowth) / 12,
		})
	}
	return timeline
}

func monthsForRange(timeRange string) int {
	switch timeRange {
	case "Last 6 Months":
		return 6
	case "Last 2 Years":
		return 24
	case "Last 5 Years":
		return 60
	case "All Time":
		return 120
	default:
		return 12
	}
}

func intValue(rec sources.Record, key string, def int) int {
	switch v := rec[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}
