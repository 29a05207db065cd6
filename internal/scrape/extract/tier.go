package extract

import "strings"

// Event tiers in decreasing prestige.
const (
	TierMajor = "Major"
	TierS     = "S-Tier"
	TierA     = "A-Tier"
)

// tierRule maps a lower-cased title keyword to a tier. Order is significant:
// several keywords may co-occur in one title and the first match wins.
type tierRule struct {
	keyword string
	tier    string
}

var tierRules = []tierRule{
	{"major", TierMajor},
	{"blast", TierS},
	{"iem", TierS},
	{"esl", TierA},
	{"dreamhack", TierA},
}

// classifyTier derives an event tier from a trophy title. The major flag from
// the markup takes precedence over every keyword match; with no match the
// event defaults to S-Tier.
func classifyTier(title string, isMajor bool) string {
	if isMajor {
		return TierMajor
	}
	lower := strings.ToLower(title)
	for _, r := range tierRules {
		if strings.Contains(lower, r.keyword) {
			return r.tier
		}
	}
	return TierS
}

// kindRule maps a title keyword to a player achievement kind, first match
// wins; anything else is a tournament trophy.
type kindRule struct {
	keyword string
	kind    string
}

var kindRules = []kindRule{
	{"best player", "individual_award"},
	{"award", "individual_award"},
	{"igl of the year", "panel_award"},
}

func classifyKind(title string) string {
	lower := strings.ToLower(title)
	for _, r := range kindRules {
		if strings.Contains(lower, r.keyword) {
			return r.kind
		}
	}
	return "tournament"
}
