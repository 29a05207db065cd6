package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/csradar/csradar/internal/scrape"
)

// TeamAchievements extracts the trophy row of a team profile page.
func TeamAchievements(doc *goquery.Document) []scrape.Achievement {
	var achievements []scrape.Achievement
	eachTrophy(doc, func(trophy *goquery.Selection, base scrape.Achievement) {
		base.Placement = "1st"
		base.PrizeMoney = strings.TrimSpace(trophy.Find("span.prize").First().Text())
		achievements = append(achievements, base)
	})
	return achievements
}

// PlayerAchievements extracts the trophy row of a player profile page,
// additionally classifying each entry as a tournament trophy, an individual
// award, or a panel award. Tier and placement only apply to tournaments.
func PlayerAchievements(doc *goquery.Document) []scrape.Achievement {
	var achievements []scrape.Achievement
	eachTrophy(doc, func(trophy *goquery.Selection, base scrape.Achievement) {
		kind := scrape.AchievementKind(classifyKind(base.Title))
		base.Kind = kind
		if kind != scrape.KindTournament {
			base.Tier = ""
		} else {
			base.Placement = "1st"
		}

		// Annual awards carry a dedicated year marker like '23.
		if award := trophy.Find("span.award-year").First(); award.Length() > 0 {
			if y, ok := parseAwardYear(award.Text()); ok {
				base.Year = &y
			}
		}
		achievements = append(achievements, base)
	})
	return achievements
}

// eachTrophy walks the trophy row and hands each trophy to fn along with the
// fields common to team and player variants. Trophies without an icon are
// skipped; every other field is optional.
func eachTrophy(doc *goquery.Document, fn func(*goquery.Selection, scrape.Achievement)) {
	doc.Find("div.trophyRow").Find("a.trophy, div.trophy").Each(func(_ int, trophy *goquery.Selection) {
		icon := trophy.Find("img.trophyIcon").First()
		if icon.Length() == 0 {
			return
		}

		var base scrape.Achievement

		description := trophy.Find("span.trophyDescription").First()
		isMajor := description.HasClass("majorTrophy")
		if title, ok := description.Attr("title"); ok {
			base.Title = title
		}
		base.EventName = firstToken(base.Title)
		base.Year = yearFromTitle(base.Title)
		base.Tier = classifyTier(base.Title, isMajor)

		if src, ok := icon.Attr("src"); ok {
			base.TrophyURL = absoluteURL(src)
		}
		if trophy.Is("a") {
			if href, ok := trophy.Attr("href"); ok {
				base.EventURL = absoluteURL(href)
			}
		}

		fn(trophy, base)
	})
}

// parseAwardYear converts a short year marker ('23) into a full year.
func parseAwardYear(text string) (int, bool) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "'", "20")
	y, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	return y, true
}
