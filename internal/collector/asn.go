package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/v6census/ipv6-stats-server/internal/logger"
	"github.com/v6census/ipv6-stats-server/internal/sources"
)

const (
	ripeStatWhoisURL = "https://stat.ripe.net/data/whois/data.json?resource=%s"
	bgpViewASNURL    = "https://bgpview.io/api/asn/%s"
)

// knownOrg is curated IPv6 status for major operators. WHOIS output is
// often incomplete for these, so the curated entry wins when present.
type knownOrg struct {
	name         string
	ipv6Status   string
	country      string
	registry     string
	ipv6Prefixes []string
}

var knownOrgs = map[string]knownOrg{
	"AS15169": {"Google LLC", "Full Support", "United States", "ARIN", []string{"2001:4860::/32", "2404:6800::/32"}},
	"AS13335": {"Cloudflare Inc.", "Full Support", "United States", "ARIN", []string{"2606:4700::/32", "2803:f800::/32"}},
	"AS32934": {"Meta Platforms Inc.", "Full Support", "United States", "ARIN", []string{"2620:0:1c00::/40", "2a03:2880::/32"}},
	"AS8075":  {"Microsoft Corporation", "Full Support", "United States", "ARIN", []string{"2620:1ec::/32", "2001:4898::/32"}},
	"AS16509": {"Amazon.com Inc.", "Full Support", "United States", "ARIN", []string{"2600:1f00::/24", "2406:da00::/32"}},
	"AS7922":  {"Comcast Cable Communications LLC", "Partial Support", "United States", "ARIN", []string{"2001:558::/32"}},
	"AS701":   {"Verizon Business", "Partial Support", "United States", "ARIN", []string{"2600:803::/32"}},
	"AS7018":  {"AT&T Services Inc.", "Partial Support", "United States", "ARIN", []string{"2600:1400::/24"}},
}

// QueryASN resolves IPv6 availability for an AS number ("AS15169") or
// an ISP name. Like every source method it never returns an error: the
// worst case is a generic "unknown" record describing the query.
func (c *Collector) QueryASN(ctx context.Context, query string) sources.Record {
	query = strings.TrimSpace(query)
	key := "asn_query:" + strings.ToUpper(query)

	return c.resolve(ctx, key, func(ctx context.Context) (sources.Record, error) {
		asnNumber, queryType := classifyASNQuery(query)

		if org, ok := knownOrgs["AS"+asnNumber]; ok {
			return knownOrgRecord(query, queryType, asnNumber, org), nil
		}

		if rec, ok := c.queryRIPEStat(ctx, query, queryType, asnNumber); ok {
			return rec, nil
		}
		if asnNumber != "" {
			if rec, ok := c.queryBGPView(ctx, query, asnNumber); ok {
				return rec, nil
			}
		}

		return genericASNRecord(query, queryType, asnNumber), nil
	})
}

func classifyASNQuery(query string) (asnNumber, queryType string) {
	upper := strings.ToUpper(query)
	if strings.HasPrefix(upper, "AS") && isDigits(upper[2:]) {
		return upper[2:], "ASN"
	}
	return "", "ISP Name"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// queryRIPEStat probes the RIPEstat whois endpoint and assembles a
// record from its key/value pairs.
func (c *Collector) queryRIPEStat(ctx context.Context, query, queryType, asnNumber string) (sources.Record, bool) {
	body, err := c.client.Get(ctx, fmt.Sprintf(ripeStatWhoisURL, query))
	if err != nil {
		logger.Debugf("RIPEstat whois query failed for %q: %v", query, err)
		return nil, false
	}

	doc := gjson.ParseBytes(body)
	if doc.Get("status").String() != "ok" {
		return nil, false
	}

	var orgName, country string
	var ipv6Allocs, ipv4Allocs []string
	doc.Get("data.records").ForEach(func(_, recordList gjson.Result) bool {
		recordList.ForEach(func(_, field gjson.Result) bool {
			key := strings.ToLower(field.Get("key").String())
			value := field.Get("value").String()
			switch key {
			case "orgname", "org-name", "descr":
				if orgName == "" {
					orgName = value
				}
			case "country":
				if country == "" {
					country = value
				}
			case "inet6num", "route6":
				ipv6Allocs = append(ipv6Allocs, value)
			case "origin":
				if asnNumber == "" {
					asnNumber = strings.TrimPrefix(strings.ToUpper(value), "AS")
				}
			case "inetnum", "route":
				ipv4Allocs = append(ipv4Allocs, value)
			}
			return true
		})
		return true
	})

	if orgName == "" {
		return nil, false
	}

	status := ipv6StatusFor(len(ipv6Allocs), asnNumber)
	return sources.Record{
		"query":             query,
		"query_type":        queryType,
		"asn_number":        asnNumber,
		"organization_name": orgName,
		"ipv6_status":       status,
		"ipv6_allocations":  ipv6Allocs,
		"ipv4_allocations":  ipv4Allocs,
		"country":           orDefault(country, "Unknown"),
		"registry":          "RIPE NCC API",
		"recommendation":    recommendationFor(status),
		sources.KeySource:   "RIR WHOIS Query (RIPE NCC API)",
	}, true
}

// queryBGPView probes the BGPView ASN endpoint.
func (c *Collector) queryBGPView(ctx context.Context, query, asnNumber string) (sources.Record, bool) {
	body, err := c.client.Get(ctx, fmt.Sprintf(bgpViewASNURL, asnNumber))
	if err != nil {
		logger.Debugf("BGPView query failed for AS%s: %v", asnNumber, err)
		return nil, false
	}

	doc := gjson.ParseBytes(body)
	if doc.Get("status").String() != "ok" || !doc.Get("data").Exists() {
		return nil, false
	}
	data := doc.Get("data")

	var ipv6Allocs []string
	for i, prefix := range data.Get("ipv6_prefixes.#.prefix").Array() {
		if i == 5 {
			break
		}
		ipv6Allocs = append(ipv6Allocs, prefix.String())
	}

	name := data.Get("name").String()
	if name == "" {
		name = fmt.Sprintf("AS%s Organization", asnNumber)
	}
	status := ipv6StatusFor(len(ipv6Allocs), asnNumber)

	return sources.Record{
		"query":             query,
		"query_type":        "ASN",
		"asn_number":        asnNumber,
		"organization_name": name,
		"ipv6_status":       status,
		"ipv6_allocations":  ipv6Allocs,
		"country":           orDefault(data.Get("country_code").String(), "Unknown"),
		"registry":          "BGPView API",
		"recommendation":    recommendationFor(status),
		sources.KeySource:   "BGPView API",
	}, true
}

func knownOrgRecord(query, queryType, asnNumber string, org knownOrg) sources.Record {
	full := org.ipv6Status == "Full Support"
	service := func(ifFull string) string {
		if full {
			return ifFull
		}
		return "IPv4 Only"
	}
	return sources.Record{
		"query":             query,
		"query_type":        queryType,
		"asn_number":        asnNumber,
		"organization_name": org.name,
		"ipv6_status":       org.ipv6Status,
		"ipv6_allocations":  org.ipv6Prefixes,
		"country":           org.country,
		"registry":          org.registry,
		"services": sources.Record{
			"web_hosting":      service("IPv6 Supported"),
			"email":            service("Dual Stack"),
			"dns":              "Dual Stack",
			"content_delivery": service("IPv6 Supported"),
		},
		"recommendation":  recommendationFor(org.ipv6Status),
		sources.KeySource: "IPv6 Organization Database",
	}
}

func genericASNRecord(query, queryType, asnNumber string) sources.Record {
	return sources.Record{
		"query":             query,
		"query_type":        queryType,
		"asn_number":        asnNumber,
		"organization_name": "Unknown Organization",
		"ipv6_status":       "Unknown",
		"ipv6_allocations":  []string{},
		"ipv4_allocations":  []string{},
		"country":           "Unknown",
		"registry":          "Unknown",
		"recommendation":    recommendationFor("Unknown"),
		"note":              "Organization not found in RIR databases",
		sources.KeySource:   "ASN Lookup",
	}
}

func ipv6StatusFor(allocations int, asnNumber string) string {
	switch {
	case allocations > 0:
		return "Full Support"
	case asnNumber != "":
		return "Partial Support"
	default:
		return "Unknown"
	}
}

func recommendationFor(status string) string {
	switch status {
	case "Full Support":
		return "Consider expanding IPv6 deployment to all services"
	case "Partial Support":
		return "IPv6 implementation needed for complete dual-stack support"
	case "No Support":
		return "IPv6 deployment required for modern internet standards"
	default:
		return "Contact organization to verify IPv6 support status"
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
