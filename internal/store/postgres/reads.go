package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/csradar/csradar/internal/store"
)

const teamColumns = `id, name, rank, points, url, logo_url, updated_at`

const playerColumns = `id, nickname, slug, url, role, team_id,
	real_name, country, age, photo_url, updated_at`

// ListTeams returns every ranked team ordered by rank.
func (s *Store) ListTeams(ctx context.Context) ([]store.Team, error) {
	rows, err := s.db.Query(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY rank;`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []store.Team
	for rows.Next() {
		var t store.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Rank, &t.Points, &t.URL, &t.LogoURL, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}
	return teams, nil
}

// GetTeam loads one team with its trophies and per-map statistics.
func (s *Store) GetTeam(ctx context.Context, id int64) (store.TeamDetail, error) {
	var detail store.TeamDetail
	err := s.db.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1;`, id).Scan(
		&detail.Team.ID, &detail.Team.Name, &detail.Team.Rank, &detail.Team.Points,
		&detail.Team.URL, &detail.Team.LogoURL, &detail.Team.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return store.TeamDetail{}, store.ErrNotFound
		}
		return store.TeamDetail{}, fmt.Errorf("get team %d: %w", id, err)
	}

	detail.Achievements, err = s.listTeamAchievements(ctx, id)
	if err != nil {
		return store.TeamDetail{}, err
	}
	detail.MapStats, err = s.listTeamMapStats(ctx, id)
	if err != nil {
		return store.TeamDetail{}, err
	}
	return detail, nil
}

func (s *Store) listTeamAchievements(ctx context.Context, teamID int64) ([]store.TeamAchievement, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, team_id, title, event_name, year, placement, prize, tier, trophy_url, event_url
FROM team_achievements
WHERE team_id = $1
ORDER BY year DESC NULLS LAST, id;`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team achievements %d: %w", teamID, err)
	}
	defer rows.Close()

	var achievements []store.TeamAchievement
	for rows.Next() {
		var a store.TeamAchievement
		err := rows.Scan(
			&a.ID, &a.TeamID, &a.Title, &a.EventName, &a.Year,
			&a.Placement, &a.Prize, &a.Tier, &a.TrophyURL, &a.EventURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan team achievement row: %w", err)
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team achievements: %w", err)
	}
	return achievements, nil
}

func (s *Store) listTeamMapStats(ctx context.Context, teamID int64) ([]store.TeamMapStat, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, team_id, map_name, matches_played, matches_won, win_rate,
	rounds_played, rounds_won, round_win_rate,
	ct_rounds_won, t_rounds_won, ct_win_rate, t_win_rate, sides_estimated
FROM team_map_stats
WHERE team_id = $1
ORDER BY matches_played DESC, map_name;`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team map stats %d: %w", teamID, err)
	}
	defer rows.Close()

	var maps []store.TeamMapStat
	for rows.Next() {
		var m store.TeamMapStat
		err := rows.Scan(
			&m.ID, &m.TeamID, &m.MapName, &m.MatchesPlayed, &m.MatchesWon, &m.WinRate,
			&m.RoundsPlayed, &m.RoundsWon, &m.RoundWinRate,
			&m.CTRoundsWon, &m.TRoundsWon, &m.CTWinRate, &m.TWinRate, &m.SidesEstimated,
		)
		if err != nil {
			return nil, fmt.Errorf("scan team map stats row: %w", err)
		}
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team map stats: %w", err)
	}
	return maps, nil
}

// ListTeamPlayers returns a team's roster, players before coaches.
func (s *Store) ListTeamPlayers(ctx context.Context, teamID int64) ([]store.Player, error) {
	rows, err := s.db.Query(ctx, `
SELECT `+playerColumns+`
FROM players
WHERE team_id = $1
ORDER BY role DESC, nickname;`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team players %d: %w", teamID, err)
	}
	defer rows.Close()
	return scanPlayers(rows)
}

// ListPlayers pages through every known player.
func (s *Store) ListPlayers(ctx context.Context, limit, offset int) ([]store.Player, error) {
	rows, err := s.db.Query(ctx, `
SELECT `+playerColumns+`
FROM players
ORDER BY nickname
LIMIT $1 OFFSET $2;`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()
	return scanPlayers(rows)
}

func scanPlayers(rows pgx.Rows) ([]store.Player, error) {
	var players []store.Player
	for rows.Next() {
		var p store.Player
		err := rows.Scan(
			&p.ID, &p.Nickname, &p.Slug, &p.URL, &p.Role, &p.TeamID,
			&p.RealName, &p.Country, &p.Age, &p.PhotoURL, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan player row: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return players, nil
}

// GetPlayerDetail loads one player with statistics and achievements.
func (s *Store) GetPlayerDetail(ctx context.Context, id int64) (store.PlayerDetail, error) {
	var detail store.PlayerDetail
	p := &detail.Player
	err := s.db.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1;`, id).Scan(
		&p.ID, &p.Nickname, &p.Slug, &p.URL, &p.Role, &p.TeamID,
		&p.RealName, &p.Country, &p.Age, &p.PhotoURL, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return store.PlayerDetail{}, store.ErrNotFound
		}
		return store.PlayerDetail{}, fmt.Errorf("get player %d: %w", id, err)
	}

	stats, err := s.getPlayerStats(ctx, id)
	if err != nil {
		return store.PlayerDetail{}, err
	}
	detail.Stats = stats

	detail.Achievements, err = s.listPlayerAchievements(ctx, id)
	if err != nil {
		return store.PlayerDetail{}, err
	}
	return detail, nil
}

func (s *Store) getPlayerStats(ctx context.Context, playerID int64) (*store.PlayerStats, error) {
	var st store.PlayerStats
	err := s.db.QueryRow(ctx, `
SELECT player_id, total_kills, total_deaths, headshot_pct, kd_ratio,
	damage_per_round, grenade_damage_per_round, maps_played, rounds_played,
	kills_per_round, assists_per_round, deaths_per_round,
	saved_by_teammate_per_round, saved_teammates_per_round, rating, last_updated
FROM player_stats
WHERE player_id = $1;`, playerID).Scan(
		&st.PlayerID, &st.TotalKills, &st.TotalDeaths, &st.HeadshotPct, &st.KDRatio,
		&st.DamagePerRound, &st.GrenadeDamagePerRound, &st.MapsPlayed, &st.RoundsPlayed,
		&st.KillsPerRound, &st.AssistsPerRound, &st.DeathsPerRound,
		&st.SavedByTeammatePerRd, &st.SavedTeammatesPerRd, &st.Rating, &st.LastUpdated,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get player stats %d: %w", playerID, err)
	}
	return &st, nil
}

func (s *Store) listPlayerAchievements(ctx context.Context, playerID int64) ([]store.PlayerAchievement, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, player_id, title, event_name, year, placement, tier, kind, trophy_url, event_url
FROM player_achievements
WHERE player_id = $1
ORDER BY year DESC NULLS LAST, id;`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list player achievements %d: %w", playerID, err)
	}
	defer rows.Close()

	var achievements []store.PlayerAchievement
	for rows.Next() {
		var a store.PlayerAchievement
		err := rows.Scan(
			&a.ID, &a.PlayerID, &a.Title, &a.EventName, &a.Year,
			&a.Placement, &a.Tier, &a.Kind, &a.TrophyURL, &a.EventURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan player achievement row: %w", err)
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player achievements: %w", err)
	}
	return achievements, nil
}

// ListPlayerNames returns the nickname projection used by fuzzy search.
func (s *Store) ListPlayerNames(ctx context.Context) ([]store.PlayerName, error) {
	rows, err := s.db.Query(ctx, `SELECT id, nickname FROM players ORDER BY nickname;`)
	if err != nil {
		return nil, fmt.Errorf("list player names: %w", err)
	}
	defer rows.Close()

	var names []store.PlayerName
	for rows.Next() {
		var n store.PlayerName
		if err := rows.Scan(&n.ID, &n.Nickname); err != nil {
			return nil, fmt.Errorf("scan player name row: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player names: %w", err)
	}
	return names, nil
}
