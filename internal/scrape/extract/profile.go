package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/csradar/csradar/internal/scrape"
)

// PlayerProfile extracts bio fields from a player or coach profile page.
// Every field is independently guarded; missing markup leaves the field
// absent in the result.
func PlayerProfile(doc *goquery.Document) scrape.PlayerProfile {
	var profile scrape.PlayerProfile

	photo := doc.Find("img.bodyshot-img").First()
	if photo.Length() == 0 {
		doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
			src, _ := img.Attr("src")
			if strings.Contains(src, "playerbodyshot") {
				photo = img
				return false
			}
			return true
		})
	}
	if src, ok := photo.Attr("src"); ok {
		profile.PhotoURL = absoluteURL(src)
	}

	profile.RealName = strings.TrimSpace(doc.Find("div.playerRealname").First().Text())

	if country, ok := doc.Find("img.flag").First().Attr("title"); ok {
		profile.Country = country
	}

	ageText := doc.Find("div.playerAge").First().Text()
	if digits := scrape.ParseNumber(firstNumberIn(ageText)); digits.Kind == scrape.NumberInt {
		age := int(digits.Int)
		profile.Age = &age
	}

	return profile
}

// firstNumberIn returns the first run of digits in s, or the empty string.
func firstNumberIn(s string) string {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			return s[start:i]
		}
	}
	if start == -1 {
		return ""
	}
	return s[start:]
}
