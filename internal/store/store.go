package store

import (
	"context"
	"time"
)

// Store is the persistence surface shared by reconciliation and the read API.
type Store interface {
	// UpsertTeam inserts or refreshes a team keyed by name. It commits
	// immediately and reports whether the row was created.
	UpsertTeam(ctx context.Context, team Team) (int64, bool, error)

	// TeamScope opens a transaction covering one team's roster, trophies and
	// map statistics. The caller must Commit or Rollback.
	TeamScope(ctx context.Context) (TeamTx, error)

	// UpdatePlayerBio fills in profile fields for an existing player.
	UpdatePlayerBio(ctx context.Context, id int64, realName, country *string, age *int, photoURL *string) error

	// UpsertPlayerStats replaces a player's statistics row.
	UpsertPlayerStats(ctx context.Context, stats PlayerStats) error

	// ReplacePlayerAchievements swaps a player's achievement set.
	ReplacePlayerAchievements(ctx context.Context, playerID int64, achievements []PlayerAchievement) error

	// HasStats reports whether a statistics row exists for the player.
	HasStats(ctx context.Context, playerID int64) (bool, error)

	// StatsAge returns how old the player's statistics row is, or ErrNotFound.
	StatsAge(ctx context.Context, playerID int64, now time.Time) (time.Duration, error)

	// InsertRunStart records a new collection run.
	InsertRunStart(ctx context.Context, run Run) error

	// CompleteRun finalizes a collection run with its counters.
	CompleteRun(ctx context.Context, run Run) error

	Reader

	// Close releases the underlying connections.
	Close()
}

// Reader is the query surface the read API depends on.
type Reader interface {
	ListTeams(ctx context.Context) ([]Team, error)
	GetTeam(ctx context.Context, id int64) (TeamDetail, error)
	ListTeamPlayers(ctx context.Context, teamID int64) ([]Player, error)
	ListPlayers(ctx context.Context, limit, offset int) ([]Player, error)
	GetPlayerDetail(ctx context.Context, id int64) (PlayerDetail, error)
	ListPlayerNames(ctx context.Context) ([]PlayerName, error)
}

// TeamTx is a transaction scoped to one team. Roster members are written
// under per-member savepoints so one malformed member never poisons the
// surrounding team transaction.
type TeamTx interface {
	// MemberScope opens a savepoint for one roster member.
	MemberScope(ctx context.Context) (MemberTx, error)

	// ReplaceTeamAchievements swaps the team's trophy set.
	ReplaceTeamAchievements(ctx context.Context, teamID int64, achievements []TeamAchievement) error

	// ReplaceTeamMapStats swaps the team's per-map statistics.
	ReplaceTeamMapStats(ctx context.Context, teamID int64, maps []TeamMapStat) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// MemberTx is the savepoint covering a single roster member's writes.
type MemberTx interface {
	// UpsertPlayer inserts or refreshes a player keyed by site id, reporting
	// whether the row was created.
	UpsertPlayer(ctx context.Context, player Player) (bool, error)

	// Release keeps the member's writes in the enclosing transaction.
	Release(ctx context.Context) error

	// Rollback undoes the member's writes, leaving the enclosing transaction
	// usable.
	Rollback(ctx context.Context) error
}
