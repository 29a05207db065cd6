package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound signals that the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Team models the teams table. Identity is the team name; rank, points and
// URLs are refreshed on every collection run.
type Team struct {
	ID        int64
	Name      string
	Rank      int
	Points    int
	URL       string
	LogoURL   string
	UpdatedAt time.Time
}

// Player models the players table. ID is the site's numeric person id, which
// is stable across nickname changes and team moves.
type Player struct {
	ID       int64
	Nickname string
	Slug     string
	URL      string
	// Role is "player" or "coach".
	Role   string
	TeamID *int64
	// Bio fields are nil until the player's profile page has been visited.
	RealName  *string
	Country   *string
	Age       *int
	PhotoURL  *string
	UpdatedAt time.Time
}

// PlayerStats models the player_stats table, one row per player. Every metric
// is nullable: the site omits rows for players without enough recorded play.
type PlayerStats struct {
	PlayerID              int64
	TotalKills            *int64
	TotalDeaths           *int64
	HeadshotPct           *float64
	KDRatio               *float64
	DamagePerRound        *float64
	GrenadeDamagePerRound *float64
	MapsPlayed            *int64
	RoundsPlayed          *int64
	KillsPerRound         *float64
	AssistsPerRound       *float64
	DeathsPerRound        *float64
	SavedByTeammatePerRd  *float64
	SavedTeammatesPerRd   *float64
	Rating                *float64
	LastUpdated           time.Time
}

// TeamAchievement models the team_achievements table.
type TeamAchievement struct {
	ID        int64
	TeamID    int64
	Title     string
	EventName string
	Year      *int
	Placement string
	Prize     string
	Tier      string
	TrophyURL string
	EventURL  string
}

// PlayerAchievement models the player_achievements table. Kind distinguishes
// tournament trophies from individual and panel awards.
type PlayerAchievement struct {
	ID        int64
	PlayerID  int64
	Title     string
	EventName string
	Year      *int
	Placement string
	Tier      string
	Kind      string
	TrophyURL string
	EventURL  string
}

// TeamMapStat models the team_map_stats table. Round and side numbers are
// derived approximations when SidesEstimated is true.
type TeamMapStat struct {
	ID             int64
	TeamID         int64
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

// RunStatus mirrors the collection_runs status column.
type RunStatus string

// Run statuses persisted in collection_runs.status.
const (
	RunRunning RunStatus = "running"
	RunSuccess RunStatus = "success"
	RunError   RunStatus = "error"
)

// Run models the collection_runs table: one row per pipeline invocation.
type Run struct {
	ID           uuid.UUID
	StartedAt    time.Time
	FinishedAt   *time.Time
	Status       RunStatus
	TeamsSeen    int
	PlayersSeen  int
	Created      int
	Updated      int
	Skipped      int
	Failed       int
	ErrorMessage *string
}

// PlayerName is the nickname projection used by fuzzy search.
type PlayerName struct {
	ID       int64
	Nickname string
}

// PlayerDetail aggregates everything the API returns for one player.
type PlayerDetail struct {
	Player       Player
	Stats        *PlayerStats
	Achievements []PlayerAchievement
}

// TeamDetail aggregates everything the API returns for one team.
type TeamDetail struct {
	Team         Team
	Achievements []TeamAchievement
	MapStats     []TeamMapStat
}
