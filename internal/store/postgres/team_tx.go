package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/csradar/csradar/internal/store"
)

// Roster members share one savepoint name: only one member scope is open at a
// time within a team transaction.
const memberSavepoint = "roster_member"

type teamTx struct {
	tx pgx.Tx
}

var _ store.TeamTx = (*teamTx)(nil)

func (t *teamTx) MemberScope(ctx context.Context) (store.MemberTx, error) {
	if _, err := t.tx.Exec(ctx, "SAVEPOINT "+memberSavepoint+";"); err != nil {
		return nil, fmt.Errorf("open member savepoint: %w", err)
	}
	return &memberTx{tx: t.tx}, nil
}

func (t *teamTx) ReplaceTeamAchievements(
	ctx context.Context,
	teamID int64,
	achievements []store.TeamAchievement,
) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM team_achievements WHERE team_id = $1;`, teamID); err != nil {
		return fmt.Errorf("clear team achievements %d: %w", teamID, err)
	}
	query := `
INSERT INTO team_achievements (
	team_id, title, event_name, year, placement, prize, tier, trophy_url, event_url
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	for _, a := range achievements {
		_, err := t.tx.Exec(ctx, query,
			teamID, a.Title, a.EventName, a.Year, a.Placement, a.Prize, a.Tier, a.TrophyURL, a.EventURL,
		)
		if err != nil {
			return fmt.Errorf("insert team achievement %q: %w", a.Title, err)
		}
	}
	return nil
}

func (t *teamTx) ReplaceTeamMapStats(ctx context.Context, teamID int64, maps []store.TeamMapStat) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM team_map_stats WHERE team_id = $1;`, teamID); err != nil {
		return fmt.Errorf("clear team map stats %d: %w", teamID, err)
	}
	query := `
INSERT INTO team_map_stats (
	team_id, map_name, matches_played, matches_won, win_rate,
	rounds_played, rounds_won, round_win_rate,
	ct_rounds_won, t_rounds_won, ct_win_rate, t_win_rate, sides_estimated
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	for _, m := range maps {
		_, err := t.tx.Exec(ctx, query,
			teamID, m.MapName, m.MatchesPlayed, m.MatchesWon, m.WinRate,
			m.RoundsPlayed, m.RoundsWon, m.RoundWinRate,
			m.CTRoundsWon, m.TRoundsWon, m.CTWinRate, m.TWinRate, m.SidesEstimated,
		)
		if err != nil {
			return fmt.Errorf("insert team map stats %q: %w", m.MapName, err)
		}
	}
	return nil
}

func (t *teamTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit team scope: %w", err)
	}
	return nil
}

func (t *teamTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("rollback team scope: %w", err)
	}
	return nil
}

type memberTx struct {
	tx pgx.Tx
}

var _ store.MemberTx = (*memberTx)(nil)

func (m *memberTx) UpsertPlayer(ctx context.Context, player store.Player) (bool, error) {
	query := `
INSERT INTO players (id, nickname, slug, url, role, team_id, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
	nickname = EXCLUDED.nickname,
	slug = EXCLUDED.slug,
	url = EXCLUDED.url,
	role = EXCLUDED.role,
	team_id = EXCLUDED.team_id,
	updated_at = EXCLUDED.updated_at
RETURNING (xmax = 0) AS created;`

	var created bool
	err := m.tx.QueryRow(ctx, query,
		player.ID, player.Nickname, player.Slug, player.URL, player.Role, player.TeamID, player.UpdatedAt,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert player %d: %w", player.ID, err)
	}
	return created, nil
}

func (m *memberTx) Release(ctx context.Context) error {
	if _, err := m.tx.Exec(ctx, "RELEASE SAVEPOINT "+memberSavepoint+";"); err != nil {
		return fmt.Errorf("release member savepoint: %w", err)
	}
	return nil
}

func (m *memberTx) Rollback(ctx context.Context) error {
	if _, err := m.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+memberSavepoint+";"); err != nil {
		return fmt.Errorf("rollback member savepoint: %w", err)
	}
	return nil
}
