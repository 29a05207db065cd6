// Package extract turns parsed target-site documents into ephemeral scrape
// records. Every extractor is a pure function with the same design rule: a
// missing field yields an absent value in the result, never an error. Each
// extractor applies a primary strategy against the page's well-known region
// and falls back to a looser whole-document scan when that yields nothing.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// SiteBase is prefixed to site-relative URLs found in markup.
const SiteBase = "https://www.hltv.org"

var (
	personHrefPattern = regexp.MustCompile(`/(?:player|coach)/(\d+)/([^/?#]+)`)
	teamHrefPattern   = regexp.MustCompile(`/team/(\d+)/`)
	yearPattern       = regexp.MustCompile(`\b(20\d{2})\b`)
)

// absoluteURL resolves site-relative hrefs against the site base.
func absoluteURL(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		return href
	}
	return SiteBase + href
}

// yearFromTitle pulls a four-digit year out of free text.
func yearFromTitle(title string) *int {
	m := yearPattern.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &y
}

// firstToken returns the first whitespace-delimited token of s.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
