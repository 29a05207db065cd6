// Package postgres provides the Postgres-backed store implementation.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csradar/csradar/internal/store"
)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// DB is the slice of pgxpool.Pool the store needs. pgxmock satisfies it in
// tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Store implements store.Store on Postgres.
type Store struct {
	db DB
}

var _ store.Store = (*Store)(nil)

// New connects a pool and wraps it in a Store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{db: pool}, nil
}

// NewWithDB constructs a Store from an existing pool (primarily for testing).
func NewWithDB(db DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.db == nil {
		return
	}
	s.db.Close()
}

// UpsertTeam inserts or refreshes a team keyed by name, committing
// immediately.
func (s *Store) UpsertTeam(ctx context.Context, team store.Team) (int64, bool, error) {
	query := `
INSERT INTO teams (name, rank, points, url, logo_url, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (name) DO UPDATE SET
	rank = EXCLUDED.rank,
	points = EXCLUDED.points,
	url = EXCLUDED.url,
	logo_url = EXCLUDED.logo_url,
	updated_at = EXCLUDED.updated_at
RETURNING id, (xmax = 0) AS created;`

	var (
		id      int64
		created bool
	)
	err := s.db.QueryRow(ctx, query,
		team.Name, team.Rank, team.Points, team.URL, team.LogoURL, team.UpdatedAt,
	).Scan(&id, &created)
	if err != nil {
		return 0, false, fmt.Errorf("upsert team %q: %w", team.Name, err)
	}
	return id, created, nil
}

// TeamScope opens the transaction covering one team's dependent rows.
func (s *Store) TeamScope(ctx context.Context) (store.TeamTx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin team scope: %w", err)
	}
	return &teamTx{tx: tx}, nil
}

// UpdatePlayerBio fills in profile fields for an existing player.
func (s *Store) UpdatePlayerBio(
	ctx context.Context,
	id int64,
	realName, country *string,
	age *int,
	photoURL *string,
) error {
	query := `
UPDATE players SET
	real_name = $2,
	country = $3,
	age = $4,
	photo_url = $5,
	updated_at = NOW()
WHERE id = $1;`

	tag, err := s.db.Exec(ctx, query, id, realName, country, age, photoURL)
	if err != nil {
		return fmt.Errorf("update player bio %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UpsertPlayerStats replaces a player's statistics row.
func (s *Store) UpsertPlayerStats(ctx context.Context, stats store.PlayerStats) error {
	query := `
INSERT INTO player_stats (
	player_id, total_kills, total_deaths, headshot_pct, kd_ratio,
	damage_per_round, grenade_damage_per_round, maps_played, rounds_played,
	kills_per_round, assists_per_round, deaths_per_round,
	saved_by_teammate_per_round, saved_teammates_per_round, rating, last_updated
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (player_id) DO UPDATE SET
	total_kills = EXCLUDED.total_kills,
	total_deaths = EXCLUDED.total_deaths,
	headshot_pct = EXCLUDED.headshot_pct,
	kd_ratio = EXCLUDED.kd_ratio,
	damage_per_round = EXCLUDED.damage_per_round,
	grenade_damage_per_round = EXCLUDED.grenade_damage_per_round,
	maps_played = EXCLUDED.maps_played,
	rounds_played = EXCLUDED.rounds_played,
	kills_per_round = EXCLUDED.kills_per_round,
	assists_per_round = EXCLUDED.assists_per_round,
	deaths_per_round = EXCLUDED.deaths_per_round,
	saved_by_teammate_per_round = EXCLUDED.saved_by_teammate_per_round,
	saved_teammates_per_round = EXCLUDED.saved_teammates_per_round,
	rating = EXCLUDED.rating,
	last_updated = EXCLUDED.last_updated;`

	_, err := s.db.Exec(ctx, query,
		stats.PlayerID,
		stats.TotalKills,
		stats.TotalDeaths,
		stats.HeadshotPct,
		stats.KDRatio,
		stats.DamagePerRound,
		stats.GrenadeDamagePerRound,
		stats.MapsPlayed,
		stats.RoundsPlayed,
		stats.KillsPerRound,
		stats.AssistsPerRound,
		stats.DeathsPerRound,
		stats.SavedByTeammatePerRd,
		stats.SavedTeammatesPerRd,
		stats.Rating,
		stats.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert player stats %d: %w", stats.PlayerID, err)
	}
	return nil
}

// ReplacePlayerAchievements swaps a player's achievement set.
func (s *Store) ReplacePlayerAchievements(
	ctx context.Context,
	playerID int64,
	achievements []store.PlayerAchievement,
) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM player_achievements WHERE player_id = $1;`, playerID); err != nil {
		return fmt.Errorf("clear player achievements %d: %w", playerID, err)
	}
	query := `
INSERT INTO player_achievements (
	player_id, title, event_name, year, placement, tier, kind, trophy_url, event_url
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	for _, a := range achievements {
		_, err := s.db.Exec(ctx, query,
			playerID, a.Title, a.EventName, a.Year, a.Placement, a.Tier, a.Kind, a.TrophyURL, a.EventURL,
		)
		if err != nil {
			return fmt.Errorf("insert player achievement %q: %w", a.Title, err)
		}
	}
	return nil
}

// HasStats reports whether a statistics row exists for the player.
func (s *Store) HasStats(ctx context.Context, playerID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM player_stats WHERE player_id = $1);`, playerID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check player stats %d: %w", playerID, err)
	}
	return exists, nil
}

// StatsAge returns how stale the player's statistics row is.
func (s *Store) StatsAge(ctx context.Context, playerID int64, now time.Time) (time.Duration, error) {
	var lastUpdated time.Time
	err := s.db.QueryRow(ctx,
		`SELECT last_updated FROM player_stats WHERE player_id = $1;`, playerID,
	).Scan(&lastUpdated)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, store.ErrNotFound
		}
		return 0, fmt.Errorf("read stats age %d: %w", playerID, err)
	}
	return now.Sub(lastUpdated), nil
}

// InsertRunStart records a new collection run as running.
func (s *Store) InsertRunStart(ctx context.Context, run store.Run) error {
	query := `
INSERT INTO collection_runs (id, started_at, status)
VALUES ($1, $2, $3);`
	if _, err := s.db.Exec(ctx, query, run.ID, run.StartedAt, store.RunRunning); err != nil {
		return fmt.Errorf("insert run start: %w", err)
	}
	return nil
}

// CompleteRun finalizes a collection run with its counters.
func (s *Store) CompleteRun(ctx context.Context, run store.Run) error {
	query := `
UPDATE collection_runs SET
	finished_at = $2,
	status = $3,
	teams_seen = $4,
	players_seen = $5,
	created = $6,
	updated = $7,
	skipped = $8,
	failed = $9,
	error_message = $10
WHERE id = $1;`
	_, err := s.db.Exec(ctx, query,
		run.ID, run.FinishedAt, run.Status,
		run.TeamsSeen, run.PlayersSeen,
		run.Created, run.Updated, run.Skipped, run.Failed,
		run.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}
