package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/csradar/csradar/internal/scrape"
)

// Per-map derivation constants. The site does not expose round-level data on
// the team page, so round counts and side splits are approximated from the
// win/draw/loss record and flagged as estimates on the resulting records.
const (
	approxRoundsPerMatch = 30
	approxRoundsToWin    = 16
	approxCTShare        = 0.6
)

// TeamMapStats extracts the per-map breakdown of a team profile page. A map
// whose name or win/draw/loss record is missing is skipped; the remaining
// maps are still returned.
func TeamMapStats(doc *goquery.Document) []scrape.TeamMapStats {
	var maps []scrape.TeamMapStats

	doc.Find("div.map-statistics div.map-statistics-container").Each(func(_ int, container *goquery.Selection) {
		stats, ok := mapStatsFromContainer(container)
		if !ok {
			return
		}
		maps = append(maps, stats)
	})
	return maps
}

func mapStatsFromContainer(container *goquery.Selection) (scrape.TeamMapStats, bool) {
	row := container.Find("div.map-statistics-row").First()
	name := strings.TrimSpace(row.Find("div.map-statistics-row-map-mapname").First().Text())
	if name == "" {
		return scrape.TeamMapStats{}, false
	}

	stats := scrape.TeamMapStats{
		MapName:        name,
		SidesEstimated: true,
	}

	winPctText := strings.TrimSpace(row.Find("div.map-statistics-row-win-percentage").First().Text())
	if f, ok := scrape.ParseNumber(winPctText).AsFloat(); ok {
		stats.WinRate = f
	}

	wdl := container.Find("div.map-statistics-extended-wdl").First().Find("div.stat")
	if wdl.Length() < 3 {
		return scrape.TeamMapStats{}, false
	}
	wins, okW := scrape.ParseNumber(wdl.Eq(0).Text()).AsInt()
	draws, okD := scrape.ParseNumber(wdl.Eq(1).Text()).AsInt()
	losses, okL := scrape.ParseNumber(wdl.Eq(2).Text()).AsInt()
	if !okW || !okD || !okL {
		return scrape.TeamMapStats{}, false
	}

	total := int(wins + draws + losses)
	stats.MatchesPlayed = total
	stats.MatchesWon = int(wins)
	if total > 0 {
		stats.RoundWinRate = float64(wins) / float64(total) * 100
	}

	// Approximations: no per-round source exists on this page.
	stats.RoundsPlayed = total * approxRoundsPerMatch
	stats.RoundsWon = int(wins) * approxRoundsToWin
	stats.CTRoundsWon = int(float64(wins) * approxCTShare)
	stats.TRoundsWon = int(wins) - stats.CTRoundsWon
	if wins > 0 {
		stats.CTWinRate = float64(stats.CTRoundsWon) / float64(wins) * 100
		stats.TWinRate = float64(stats.TRoundsWon) / float64(wins) * 100
	}

	return stats, true
}
