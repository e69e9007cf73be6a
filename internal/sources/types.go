// Package sources defines the source record data model, the RIR
// delegation file parser, and the static fallback table used when a
// live fetch fails.
package sources

// Record is a single source's payload. Records are schemaless JSON-like
// maps; a handful of keys are conventional across all sources.
type Record = map[string]any

// Conventional record keys.
const (
	KeySource      = "source"
	KeyURL         = "url"
	KeyError       = "error"
	KeyLastUpdated = "last_updated"
)

// Source names. These are the cache keys, the manager map keys, and the
// names accepted by the fetch CLI and the REST API.
const (
	NameGoogle             = "google_stats"
	NameGoogleCountry      = "google_country"
	NameAPNIC              = "apnic_stats"
	NameCisco6Lab          = "cisco_6lab"
	NameBGP                = "bgp_stats"
	NameCurrentBGP         = "current_bgp"
	NameBGPHistorical      = "bgp_historical"
	NamePulse              = "internet_society_pulse"
	NamePulseTechnology    = "pulse_technology"
	NameAkamai             = "akamai_stats"
	NameVyncke             = "vyncke_stats"
	NameCloudflareRadar    = "cloudflare_radar"
	NameCloudflareDNS      = "cloudflare_dns"
	NameNISTUSGv6          = "nist_usgv6"
	NameRIRHistorical      = "rir_historical"
	NameRIPE               = "ripe_stats"
	NameARIN               = "arin_stats"
	NameLACNIC             = "lacnic_stats"
	NameAFRINIC            = "afrinic_stats"
	NameIPv6Matrix         = "ipv6_matrix"
	NameIPv6Test           = "ipv6_test"
	NameDeploymentStats    = "deployment_stats"
	NamePrefixDistribution = "prefix_distribution"
	NameTopASNs            = "top_asns"
	NameRegionalComparison = "regional_comparison"
)

// Names lists every source in a stable order. The manager fans out over
// this list and the API advertises it.
var Names = []string{
	NameGoogle,
	NameGoogleCountry,
	NameAPNIC,
	NameCisco6Lab,
	NameBGP,
	NameCurrentBGP,
	NameBGPHistorical,
	NamePulse,
	NamePulseTechnology,
	NameAkamai,
	NameVyncke,
	NameCloudflareRadar,
	NameCloudflareDNS,
	NameNISTUSGv6,
	NameRIRHistorical,
	NameRIPE,
	NameARIN,
	NameLACNIC,
	NameAFRINIC,
	NameIPv6Matrix,
	NameIPv6Test,
	NameDeploymentStats,
	NamePrefixDistribution,
	NameTopASNs,
	NameRegionalComparison,
}

// CountryAllocation is the per-country slice of a registry's IPv6
// delegation statistics.
type CountryAllocation struct {
	Allocations float64 `json:"allocations"`
	Percentage  float64 `json:"percentage"`
	Entries     int     `json:"entries"`
}
