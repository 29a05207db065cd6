package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/csradar/csradar/internal/scrape"
)

// Rankings extracts the team leaderboard from a ranking listing page. At most
// thirty entries are returned and duplicate ranks are dropped, first seen
// wins. When the well-known ranking region is missing the whole document is
// scanned for team profile links instead.
func Rankings(doc *goquery.Document) []scrape.RankingEntry {
	block := doc.Find("div.ranking")
	if block.Length() == 0 {
		return rankingsFromLinks(doc)
	}

	entries := make([]scrape.RankingEntry, 0, scrape.MaxRankingEntries)
	seenRanks := make(map[int]struct{})

	block.Find("div.ranked-team").EachWithBreak(func(_ int, team *goquery.Selection) bool {
		if len(entries) >= scrape.MaxRankingEntries {
			return false
		}
		entry, ok := rankedTeamEntry(team)
		if !ok {
			return true
		}
		if _, dup := seenRanks[entry.Rank]; dup {
			return true
		}
		seenRanks[entry.Rank] = struct{}{}
		entries = append(entries, entry)
		return true
	})
	return entries
}

func rankedTeamEntry(team *goquery.Selection) (scrape.RankingEntry, bool) {
	var entry scrape.RankingEntry

	entry.Name = strings.TrimSpace(team.Find(".ranking-header .name").First().Text())

	rankText := strings.TrimSpace(team.Find(".position").First().Text())
	if rank, ok := scrape.ParseNumber(rankText).AsInt(); ok {
		entry.Rank = int(rank)
	}

	pointsText := strings.TrimSpace(team.Find("span.points").First().Text())
	pointsText = strings.Trim(pointsText, "()")
	if points, ok := scrape.ParseNumber(firstToken(pointsText)).AsInt(); ok {
		entry.Points = int(points)
	}

	team.Find("div.more a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if teamHrefPattern.MatchString(href) {
			entry.URL = absoluteURL(href)
			return false
		}
		return true
	})

	if logo, ok := team.Find("span.team-logo img").First().Attr("src"); ok {
		entry.LogoURL = absoluteURL(logo)
	}

	if entry.Name == "" || entry.Rank <= 0 || entry.URL == "" {
		return scrape.RankingEntry{}, false
	}
	return entry, true
}

// rankingsFromLinks is the fallback strategy: scan every team profile link in
// the document, de-duplicate by the embedded numeric id preserving first-seen
// order, and assign ranks from listing order.
func rankingsFromLinks(doc *goquery.Document) []scrape.RankingEntry {
	var entries []scrape.RankingEntry
	seen := make(map[string]struct{})

	doc.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if len(entries) >= scrape.MaxRankingEntries {
			return false
		}
		href, _ := link.Attr("href")
		m := teamHrefPattern.FindStringSubmatch(href)
		if m == nil {
			return true
		}
		if _, dup := seen[m[1]]; dup {
			return true
		}
		name := strings.TrimSpace(link.Text())
		if name == "" {
			return true
		}
		seen[m[1]] = struct{}{}
		entries = append(entries, scrape.RankingEntry{
			Name: name,
			Rank: len(entries) + 1,
			URL:  absoluteURL(href),
		})
		return true
	})
	return entries
}
