package sources

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// DefaultPrefixLen is assumed when a delegation line carries a
// non-numeric value in its prefix-length field.
const DefaultPrefixLen = 48

// Normalization fixes the block size delegations are counted in.
// RIPE, ARIN and AFRINIC statistics are expressed in /32 equivalents,
// LACNIC in /48 equivalents.
type Normalization struct {
	PrefixLen int
	// FloorAtOne counts prefixes longer than PrefixLen as a single
	// block instead of a fraction of one.
	FloorAtOne bool
}

var (
	// Slash32 counts /32 equivalent blocks with fractional credit for
	// longer prefixes.
	Slash32 = Normalization{PrefixLen: 32}
	// Slash48 counts /48 equivalent blocks, one block minimum.
	Slash48 = Normalization{PrefixLen: 48, FloorAtOne: true}
)

// Blocks converts a single delegation of the given prefix length into
// normalized blocks.
func (n Normalization) Blocks(prefixLen int) float64 {
	switch {
	case prefixLen < n.PrefixLen:
		return math.Pow(2, float64(n.PrefixLen-prefixLen))
	case prefixLen == n.PrefixLen || n.FloorAtOne:
		return 1
	default:
		return 1 / math.Pow(2, float64(prefixLen-n.PrefixLen))
	}
}

// CountryStat accumulates a country's delegations.
type CountryStat struct {
	Allocations float64
	Entries     int
}

// ParseDelegations reads an RIR delegation file and aggregates the IPv6
// lines per country. The file format is pipe-separated:
//
//	registry|cc|type|start|value|date|status[|extensions...]
//
// Only lines beginning with the given registry and carrying type ipv6
// are counted. Malformed lines are skipped; a non-numeric prefix length
// falls back to DefaultPrefixLen. The returned total equals the sum of
// the per-country allocations.
func ParseDelegations(body []byte, registry string, norm Normalization) (map[string]CountryStat, float64) {
	stats := make(map[string]CountryStat)
	var total float64

	prefix := registry + "|"
	for _, line := range strings.Split(string(body), "\n") {
		if !strings.HasPrefix(line, prefix) || !strings.Contains(line, "|ipv6|") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 7 {
			continue
		}
		country := parts[1]

		prefixLen := DefaultPrefixLen
		if v, err := strconv.Atoi(strings.TrimSpace(parts[4])); err == nil {
			prefixLen = v
		}

		blocks := norm.Blocks(prefixLen)
		total += blocks

		st := stats[country]
		st.Allocations += blocks
		st.Entries++
		stats[country] = st
	}

	return stats, total
}

// TopCountries returns the n countries with the largest allocations,
// each with its share of total as a percentage rounded to two decimals.
func TopCountries(stats map[string]CountryStat, total float64, n int) map[string]CountryAllocation {
	type pair struct {
		country string
		stat    CountryStat
	}
	ranked := make([]pair, 0, len(stats))
	for c, s := range stats {
		ranked = append(ranked, pair{c, s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].stat.Allocations != ranked[j].stat.Allocations {
			return ranked[i].stat.Allocations > ranked[j].stat.Allocations
		}
		return ranked[i].country < ranked[j].country
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	top := make(map[string]CountryAllocation, n)
	for _, p := range ranked[:n] {
		var pct float64
		if total > 0 {
			pct = Round2(p.stat.Allocations / total * 100)
		}
		top[p.country] = CountryAllocation{
			Allocations: p.stat.Allocations,
			Percentage:  pct,
			Entries:     p.stat.Entries,
		}
	}
	return top
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
