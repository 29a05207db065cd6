// Package roles classifies roster members as players or coaches from nickname
// heuristics. The rule set is an explicit ordered table so it can be tested
// independently of page parsing.
package roles

import (
	"strings"

	"github.com/csradar/csradar/internal/scrape"
)

// rule maps a lower-cased nickname substring to a role outcome. Rules are
// evaluated in order, first match wins.
type rule struct {
	pattern string
	role    scrape.Role
}

// Role words first, then a curated list of known coach nicknames.
var coachRules = []rule{
	{"coach", scrape.RoleCoach},
	{"manager", scrape.RoleCoach},
	{"head", scrape.RoleCoach},
	{"assistant", scrape.RoleCoach},
	{"staff", scrape.RoleCoach},
	{"zonic", scrape.RoleCoach},
	{"threat", scrape.RoleCoach},
	{"xizt", scrape.RoleCoach},
	{"natu", scrape.RoleCoach},
	{"kassad", scrape.RoleCoach},
	{"blade", scrape.RoleCoach},
	{"starix", scrape.RoleCoach},
	{"zeus", scrape.RoleCoach},
	{"ex6tenz", scrape.RoleCoach},
}

// Classify labels a nickname as player or coach.
func Classify(nickname string) scrape.Role {
	lower := strings.ToLower(nickname)
	for _, r := range coachRules {
		if strings.Contains(lower, r.pattern) {
			return r.role
		}
	}
	return scrape.RolePlayer
}

// Annotate applies Classify to every member in place.
func Annotate(members []scrape.RosterMember) {
	for i := range members {
		members[i].Role = Classify(members[i].Nickname)
	}
}

// CapRoster enforces the roster composition invariant: at most five players
// and one coach, keeping the first candidates in document order.
func CapRoster(members []scrape.RosterMember) []scrape.RosterMember {
	players := make([]scrape.RosterMember, 0, scrape.MaxPlayersPerTeam)
	coaches := make([]scrape.RosterMember, 0, scrape.MaxCoachesPerTeam)
	for _, m := range members {
		switch m.Role {
		case scrape.RoleCoach:
			if len(coaches) < scrape.MaxCoachesPerTeam {
				coaches = append(coaches, m)
			}
		default:
			if len(players) < scrape.MaxPlayersPerTeam {
				players = append(players, m)
			}
		}
	}
	return append(players, coaches...)
}
