// Package recon merges scraped records into the persisted store. It owns the
// transaction boundaries: teams commit as soon as they are seen, a team's
// dependent rows share one transaction with per-member savepoints, and player
// detail pages commit per player.
package recon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/csradar/csradar/internal/metrics"
	"github.com/csradar/csradar/internal/scrape"
	"github.com/csradar/csradar/internal/store"
)

// Clock supplies the current time so freshness checks are testable.
type Clock interface {
	Now() time.Time
}

// DefaultStatsTTL is how long a statistics row stays fresh before an untargeted
// run will refetch it.
const DefaultStatsTTL = 7 * 24 * time.Hour

// Engine reconciles one collection run's scraped records into the store.
type Engine struct {
	store    store.Store
	clock    Clock
	logger   *zap.Logger
	statsTTL time.Duration
}

// New creates an Engine. A zero statsTTL selects DefaultStatsTTL.
func New(st store.Store, clock Clock, logger *zap.Logger, statsTTL time.Duration) *Engine {
	if statsTTL <= 0 {
		statsTTL = DefaultStatsTTL
	}
	return &Engine{store: st, clock: clock, logger: logger, statsTTL: statsTTL}
}

// ReconcileTeam persists one leaderboard row, committing immediately so a
// later roster failure cannot lose the ranking observation. It returns the
// team's row id and whether it was newly created.
func (e *Engine) ReconcileTeam(ctx context.Context, entry scrape.RankingEntry) (int64, bool, error) {
	id, created, err := e.store.UpsertTeam(ctx, store.Team{
		Name:      entry.Name,
		Rank:      entry.Rank,
		Points:    entry.Points,
		URL:       entry.URL,
		LogoURL:   entry.LogoURL,
		UpdatedAt: e.clock.Now(),
	})
	if err != nil {
		metrics.ObserveEntity("team", "failed")
		return 0, false, err
	}
	if created {
		metrics.ObserveEntity("team", "created")
	} else {
		metrics.ObserveEntity("team", "updated")
	}
	return id, created, nil
}

// RosterResult counts per-member outcomes of one roster reconciliation.
type RosterResult struct {
	Created int
	Updated int
	Failed  int
}

// ReconcileRoster writes a team's roster, trophies and per-map statistics in
// one transaction. Each member is wrapped in a savepoint: a malformed member
// is rolled back and counted as failed while the rest of the team proceeds.
func (e *Engine) ReconcileRoster(
	ctx context.Context,
	teamID int64,
	members []scrape.RosterMember,
	achievements []scrape.Achievement,
	maps []scrape.TeamMapStats,
) (RosterResult, error) {
	var result RosterResult

	tx, err := e.store.TeamScope(ctx)
	if err != nil {
		return result, fmt.Errorf("open team scope %d: %w", teamID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	now := e.clock.Now()
	for _, member := range members {
		created, memberErr := e.reconcileMember(ctx, tx, teamID, member, now)
		switch {
		case memberErr != nil:
			result.Failed++
			metrics.ObserveEntity("player", "failed")
			e.logger.Warn("roster member failed",
				zap.Int64("team_id", teamID),
				zap.Int64("player_id", member.ExternalID),
				zap.String("nickname", member.Nickname),
				zap.Error(memberErr))
		case created:
			result.Created++
			metrics.ObserveEntity("player", "created")
		default:
			result.Updated++
			metrics.ObserveEntity("player", "updated")
		}
	}

	if err := tx.ReplaceTeamAchievements(ctx, teamID, teamAchievements(teamID, achievements)); err != nil {
		return result, fmt.Errorf("replace team achievements %d: %w", teamID, err)
	}
	if err := tx.ReplaceTeamMapStats(ctx, teamID, teamMapStats(teamID, maps)); err != nil {
		return result, fmt.Errorf("replace team map stats %d: %w", teamID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit team scope %d: %w", teamID, err)
	}
	return result, nil
}

// reconcileMember writes one roster member under its own savepoint.
func (e *Engine) reconcileMember(
	ctx context.Context,
	tx store.TeamTx,
	teamID int64,
	member scrape.RosterMember,
	now time.Time,
) (bool, error) {
	scope, err := tx.MemberScope(ctx)
	if err != nil {
		return false, err
	}

	created, err := scope.UpsertPlayer(ctx, store.Player{
		ID:        member.ExternalID,
		Nickname:  member.Nickname,
		Slug:      member.Slug,
		URL:       member.URL,
		Role:      string(member.Role),
		TeamID:    &teamID,
		UpdatedAt: now,
	})
	if err != nil {
		if rbErr := scope.Rollback(ctx); rbErr != nil {
			// The savepoint rollback itself failed; the team transaction is
			// no longer usable.
			return false, fmt.Errorf("member rollback after %v: %w", err, rbErr)
		}
		return false, err
	}
	if err := scope.Release(ctx); err != nil {
		return false, err
	}
	return created, nil
}

// ShouldRefreshStats applies the freshness policy for a player's detail
// pages. Targeted and forced runs always refresh; otherwise an existing row
// younger than the TTL is skipped.
func (e *Engine) ShouldRefreshStats(ctx context.Context, playerID int64, force, targeted bool) (bool, error) {
	if force || targeted {
		return true, nil
	}
	age, err := e.store.StatsAge(ctx, playerID, e.clock.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return age >= e.statsTTL, nil
}

// ReconcilePlayerDetails persists a player's bio, statistics and achievements.
// Each piece is written independently so a missing stats table does not
// discard an extracted profile.
func (e *Engine) ReconcilePlayerDetails(
	ctx context.Context,
	playerID int64,
	profile scrape.PlayerProfile,
	stats scrape.StatsBlock,
	achievements []scrape.Achievement,
) error {
	if err := e.store.UpdatePlayerBio(ctx, playerID,
		optional(profile.RealName), optional(profile.Country), profile.Age, optional(profile.PhotoURL),
	); err != nil {
		metrics.ObserveEntity("bio", "failed")
		return fmt.Errorf("update player bio %d: %w", playerID, err)
	}
	metrics.ObserveEntity("bio", "updated")

	if !stats.Empty() {
		err := e.store.UpsertPlayerStats(ctx, store.PlayerStats{
			PlayerID:              playerID,
			TotalKills:            stats.TotalKills,
			TotalDeaths:           stats.TotalDeaths,
			HeadshotPct:           stats.HeadshotPct,
			KDRatio:               stats.KDRatio,
			DamagePerRound:        stats.DamagePerRound,
			GrenadeDamagePerRound: stats.GrenadeDamagePerRound,
			MapsPlayed:            stats.MapsPlayed,
			RoundsPlayed:          stats.RoundsPlayed,
			KillsPerRound:         stats.KillsPerRound,
			AssistsPerRound:       stats.AssistsPerRound,
			DeathsPerRound:        stats.DeathsPerRound,
			SavedByTeammatePerRd:  stats.SavedByTeammatePerRound,
			SavedTeammatesPerRd:   stats.SavedTeammatesPerRound,
			Rating:                stats.Rating,
			LastUpdated:           e.clock.Now(),
		})
		if err != nil {
			metrics.ObserveEntity("stats", "failed")
			return fmt.Errorf("upsert player stats %d: %w", playerID, err)
		}
		metrics.ObserveEntity("stats", "updated")
	} else {
		metrics.ObserveEntity("stats", "skipped")
	}

	if err := e.store.ReplacePlayerAchievements(ctx, playerID, playerAchievements(playerID, achievements)); err != nil {
		metrics.ObserveEntity("achievement", "failed")
		return fmt.Errorf("replace player achievements %d: %w", playerID, err)
	}
	metrics.ObserveEntity("achievement", "updated")
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func teamAchievements(teamID int64, in []scrape.Achievement) []store.TeamAchievement {
	out := make([]store.TeamAchievement, 0, len(in))
	for _, a := range in {
		out = append(out, store.TeamAchievement{
			TeamID:    teamID,
			Title:     a.Title,
			EventName: a.EventName,
			Year:      a.Year,
			Placement: a.Placement,
			Prize:     a.PrizeMoney,
			Tier:      a.Tier,
			TrophyURL: a.TrophyURL,
			EventURL:  a.EventURL,
		})
	}
	return out
}

func playerAchievements(playerID int64, in []scrape.Achievement) []store.PlayerAchievement {
	out := make([]store.PlayerAchievement, 0, len(in))
	for _, a := range in {
		out = append(out, store.PlayerAchievement{
			PlayerID:  playerID,
			Title:     a.Title,
			EventName: a.EventName,
			Year:      a.Year,
			Placement: a.Placement,
			Tier:      a.Tier,
			Kind:      string(a.Kind),
			TrophyURL: a.TrophyURL,
			EventURL:  a.EventURL,
		})
	}
	return out
}

func teamMapStats(teamID int64, in []scrape.TeamMapStats) []store.TeamMapStat {
	out := make([]store.TeamMapStat, 0, len(in))
	for _, m := range in {
		out = append(out, store.TeamMapStat{
			TeamID:         teamID,
			MapName:        m.MapName,
			MatchesPlayed:  m.MatchesPlayed,
			MatchesWon:     m.MatchesWon,
			WinRate:        m.WinRate,
			RoundsPlayed:   m.RoundsPlayed,
			RoundsWon:      m.RoundsWon,
			RoundWinRate:   m.RoundWinRate,
			CTRoundsWon:    m.CTRoundsWon,
			TRoundsWon:     m.TRoundsWon,
			CTWinRate:      m.CTWinRate,
			TWinRate:       m.TWinRate,
			SidesEstimated: m.SidesEstimated,
		})
	}
	return out
}
