package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/csradar/csradar/internal/scrape"
)

// PlayerStats extracts the performance metrics block from a player stats
// sub-page. Each metric is located by a case-insensitive label keyword match
// over the stats rows; a metric whose label or value is missing stays nil.
func PlayerStats(doc *goquery.Document) scrape.StatsBlock {
	rows := statRows(doc)

	var block scrape.StatsBlock
	block.TotalKills = rows.intStat("total kills")
	block.HeadshotPct = rows.floatStat("headshot %")
	block.TotalDeaths = rows.intStat("total deaths")
	block.KDRatio = rows.floatStat("k/d ratio")
	block.DamagePerRound = rows.floatStat("damage / round")
	block.GrenadeDamagePerRound = rows.floatStat("grenade dmg / round")
	block.MapsPlayed = rows.intStat("maps played")
	block.RoundsPlayed = rows.intStat("rounds played")
	block.KillsPerRound = rows.floatStat("kills / round")
	block.AssistsPerRound = rows.floatStat("assists / round")
	block.DeathsPerRound = rows.floatStat("deaths / round")
	block.SavedByTeammatePerRound = rows.floatStat("saved by teammate / round")
	block.SavedTeammatesPerRound = rows.floatStat("saved teammates / round")

	// Label varies between rating generations.
	block.Rating = rows.floatStat("rating")
	if block.Rating == nil {
		block.Rating = rows.floatStat("rating 2.1")
	}

	return block
}

// labeledValues keeps stats rows in document order so that the first label
// match wins.
type labeledValues []labeledValue

type labeledValue struct {
	label string
	value string
}

func statRows(doc *goquery.Document) labeledValues {
	var rows labeledValues
	doc.Find(".standard-box .stats-row").Each(func(_ int, row *goquery.Selection) {
		spans := row.Find("span")
		if spans.Length() < 2 {
			return
		}
		rows = append(rows, labeledValue{
			label: strings.ToLower(strings.TrimSpace(spans.Eq(0).Text())),
			value: strings.TrimSpace(spans.Eq(1).Text()),
		})
	})
	return rows
}

func (rows labeledValues) lookup(keyword string) (scrape.Number, bool) {
	for _, row := range rows {
		if strings.Contains(row.label, keyword) {
			return scrape.ParseNumber(row.value), true
		}
	}
	return scrape.Number{}, false
}

func (rows labeledValues) floatStat(keyword string) *float64 {
	n, ok := rows.lookup(keyword)
	if !ok {
		return nil
	}
	return n.FloatPtr()
}

func (rows labeledValues) intStat(keyword string) *int64 {
	n, ok := rows.lookup(keyword)
	if !ok {
		return nil
	}
	return n.IntPtr()
}
