// Package extract turns upstream HTML pages into plain text and locates
// statistics in it. It is the scraping half of the per-source parsers:
// a readability-style text pass followed by regex searches for numbers
// near keywords.
package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// elements whose text content is never page content
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"nav":      true,
	"footer":   true,
	"iframe":   true,
	"svg":      true,
}

// Text extracts readable text from an HTML document. Markup that fails to
// parse as HTML is returned as-is, which makes the function safe for the
// plain-text registry files that share the fetch path.
func Text(data []byte) string {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return normalizeWhitespace(string(data))
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return normalizeWhitespace(sb.String())
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// PercentBefore finds the first "NUMBER(.DECIMAL)?%" that precedes keyword,
// e.g. "47% of users that access Google over IPv6".
func PercentBefore(text, keyword string) (float64, bool) {
	re := regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)%.*?` + regexp.QuoteMeta(keyword))
	return matchPercent(re, text)
}

// PercentAfter finds the first "NUMBER(.DECIMAL)?%" that follows keyword,
// e.g. "IPv6 ... 49%".
func PercentAfter(text, keyword string) (float64, bool) {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword) + `.*?(\d+(?:\.\d+)?)%`)
	return matchPercent(re, text)
}

func matchPercent(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Percents returns every percentage value present in the text, in order.
func Percents(text string) []float64 {
	re := regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
	var out []float64
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// CountBefore finds a comma-grouped integer immediately preceding keyword,
// e.g. "228,748 IPv6 prefixes" with keyword "IPv6 prefixes".
func CountBefore(text, keyword string) (int, bool) {
	re := regexp.MustCompile(`(?i)(\d+(?:,\d+)*)\s*` + regexp.QuoteMeta(keyword))
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// CountNear behaves like CountBefore but accepts a set of alternative
// keywords and returns the first match.
func CountNear(text string, keywords ...string) (int, bool) {
	for _, kw := range keywords {
		if n, ok := CountBefore(text, kw); ok {
			return n, true
		}
	}
	return 0, false
}

// Contains reports whether text mentions the keyword, case-insensitively.
func Contains(text, keyword string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}

// RequireMatch is a convenience for parsers that treat a missing pattern as
// a parse failure rather than a default.
func RequireMatch(ok bool, what string) error {
	if !ok {
		return fmt.Errorf("expected pattern not found: %s", what)
	}
	return nil
}
