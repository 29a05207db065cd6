package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/csradar/csradar/internal/scrape"
)

// Roster extracts roster member candidates from a team profile page, capped
// at six entries (five players plus a coach). The primary strategy reads the
// lineup region; when it yields nothing the whole document is scanned for
// person profile links, de-duplicated by embedded id in document order.
func Roster(doc *goquery.Document) []scrape.RosterMember {
	var members []scrape.RosterMember
	for _, selector := range []string{"div.lineup", "div.team-lineup", "div.current-lineup"} {
		region := doc.Find(selector)
		if region.Length() == 0 {
			continue
		}
		members = membersFromLinks(region.Find("a"))
		if len(members) > 0 {
			break
		}
	}
	if len(members) == 0 {
		members = membersFromLinks(doc.Find("a"))
	}
	if len(members) > scrape.MaxRosterSize {
		members = members[:scrape.MaxRosterSize]
	}
	return members
}

func membersFromLinks(links *goquery.Selection) []scrape.RosterMember {
	members := make([]scrape.RosterMember, 0, scrape.MaxRosterSize)
	seen := make(map[int64]struct{})

	links.EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if len(members) >= scrape.MaxRosterSize {
			return false
		}
		href, _ := link.Attr("href")
		m := personHrefPattern.FindStringSubmatch(href)
		if m == nil {
			return true
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return true
		}
		if _, dup := seen[id]; dup {
			return true
		}
		nickname := strings.TrimSpace(link.Text())
		if len(nickname) <= 1 {
			return true
		}
		seen[id] = struct{}{}
		members = append(members, scrape.RosterMember{
			ExternalID: id,
			Nickname:   nickname,
			Slug:       m[2],
			URL:        absoluteURL(href),
			Role:       scrape.RolePlayer,
		})
		return true
	})
	return members
}
