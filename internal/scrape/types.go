// Package scrape defines the ephemeral records produced by the markup
// extractors. These types live for one collection run; the reconciliation
// engine merges them into the persisted store and discards them.
package scrape

// Role labels a roster member as a player or a coach.
type Role string

// Roster roles recognised by the classifier.
const (
	RolePlayer Role = "player"
	RoleCoach  Role = "coach"
)

// Roster composition caps enforced on every team.
const (
	MaxPlayersPerTeam = 5
	MaxCoachesPerTeam = 1
	MaxRosterSize     = MaxPlayersPerTeam + MaxCoachesPerTeam
)

// MaxRankingEntries bounds a single ranking collection run.
const MaxRankingEntries = 30

// RankingEntry is one row of the site's team leaderboard.
type RankingEntry struct {
	Name    string
	Rank    int
	Points  int
	URL     string
	LogoURL string
}

// RosterMember is a person associated with a team at scrape time.
// ExternalID is the target site's own numeric identifier and serves as the
// cross-run identity key.
type RosterMember struct {
	ExternalID int64
	Nickname   string
	Slug       string
	URL        string
	Role       Role
}

// PlayerProfile holds the bio fields scraped from a player or coach page.
// Age may legitimately be absent from the markup.
type PlayerProfile struct {
	PhotoURL string
	RealName string
	Country  string
	Age      *int
}

// StatsBlock is the flat set of performance metrics from the stats sub-page.
// Every field is optional: nil means the value was unavailable in the markup,
// which is distinct from an observed zero.
type StatsBlock struct {
	TotalKills              *int64
	TotalDeaths             *int64
	HeadshotPct             *float64
	KDRatio                 *float64
	DamagePerRound          *float64
	GrenadeDamagePerRound   *float64
	MapsPlayed              *int64
	RoundsPlayed            *int64
	KillsPerRound           *float64
	AssistsPerRound         *float64
	DeathsPerRound          *float64
	SavedByTeammatePerRound *float64
	SavedTeammatesPerRound  *float64
	Rating                  *float64
}

// Empty reports whether no metric was extracted at all.
func (s StatsBlock) Empty() bool {
	return s == StatsBlock{}
}

// AchievementKind distinguishes player achievement variants.
type AchievementKind string

// Player achievement kinds.
const (
	KindTournament      AchievementKind = "tournament"
	KindIndividualAward AchievementKind = "individual_award"
	KindPanelAward      AchievementKind = "panel_award"
)

// Achievement is a trophy scraped from a team or player page.
// PrizeMoney is only populated for team achievements; Kind only for player
// achievements.
type Achievement struct {
	Title      string
	EventName  string
	Year       *int
	Placement  string
	PrizeMoney string
	TrophyURL  string
	EventURL   string
	Tier       string
	Kind       AchievementKind
}

// TeamMapStats is a per-map performance breakdown for a team. The round counts
// and CT/T side splits are derived approximations, not scraped values, and
// SidesEstimated is set accordingly.
type TeamMapStats struct {
	MapName        string
	MatchesPlayed  int
	MatchesWon     int
	WinRate        float64
	RoundsPlayed   int
	RoundsWon      int
	RoundWinRate   float64
	CTRoundsWon    int
	TRoundsWon     int
	CTWinRate      float64
	TWinRate       float64
	SidesEstimated bool
}
