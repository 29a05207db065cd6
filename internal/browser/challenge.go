package browser

import "strings"

// Interstitial markers served by the target site's anti-automation defenses
// in place of real content.
var challengeMarkers = []string{
	"just a moment",
	"cloudflare",
	"attention required",
	"verify you are human",
	"checking your browser",
}

// IsChallenge reports whether a loaded page is a bot-challenge interstitial
// rather than real content. The title is the primary signal; the body is
// only consulted when the title is empty, since challenge phrases can appear
// in legitimate article text.
func IsChallenge(title, body string) bool {
	if containsMarker(title) {
		return true
	}
	if strings.TrimSpace(title) == "" {
		return containsMarker(body)
	}
	return false
}

func containsMarker(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
