package collector

import (
	"context"
	"fmt"

	"github.com/v6census/ipv6-stats-server/internal/extract"
	"github.com/v6census/ipv6-stats-server/internal/sources"
)

const googleStatsURL = "https://www.google.com/intl/en/ipv6/statistics.html"

// GoogleStats returns the share of Google users reaching it over IPv6.
func (c *Collector) GoogleStats(ctx context.Context) sources.Record {
	return c.resolve(ctx, sources.NameGoogle, c.fetchGoogleStats)
}

func (c *Collector) fetchGoogleStats(ctx context.Context) (sources.Record, error) {
	body, err := c.client.Get(ctx, googleStatsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google IPv6 statistics: %w", err)
	}

	text := extract.Text(body)
	pct, ok := extract.PercentBefore(text, "IPv6")
	if err := extract.RequireMatch(ok, "global IPv6 percentage"); err != nil {
		return nil, err
	}

	return sources.Record{
		"global_percentage": pct,
		sources.KeySource:   "Google IPv6 Statistics",
		sources.KeyURL:      googleStatsURL,
	}, nil
}

// GoogleCountryStats returns per-country adoption rankings. Google does
// not expose this as a scrapeable dataset, so the record is curated.
func (c *Collector) GoogleCountryStats(ctx context.Context) sources.Record {
	return c.resolve(ctx, sources.NameGoogleCountry, func(context.Context) (sources.Record, error) {
		return sources.Fallback(sources.NameGoogleCountry), nil
	})
}
