package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"github.com/csradar/csradar/internal/store"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	maxSearchHits   = 10
)

type teamResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Rank      int       `json:"rank"`
	Points    int       `json:"points"`
	URL       string    `json:"url,omitempty"`
	LogoURL   string    `json:"logo_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type teamDetailResponse struct {
	teamResponse
	Achievements []teamAchievementResponse `json:"achievements"`
	MapStats     []teamMapStatResponse     `json:"map_stats"`
}

type teamAchievementResponse struct {
	Title     string `json:"title"`
	EventName string `json:"event_name,omitempty"`
	Year      *int   `json:"year,omitempty"`
	Placement string `json:"placement,omitempty"`
	Prize     string `json:"prize,omitempty"`
	Tier      string `json:"tier,omitempty"`
	TrophyURL string `json:"trophy_url,omitempty"`
	EventURL  string `json:"event_url,omitempty"`
}

type teamMapStatResponse struct {
	MapName        string  `json:"map_name"`
	MatchesPlayed  int     `json:"matches_played"`
	MatchesWon     int     `json:"matches_won"`
	WinRate        float64 `json:"win_rate"`
	RoundsPlayed   int     `json:"rounds_played"`
	RoundsWon      int     `json:"rounds_won"`
	RoundWinRate   float64 `json:"round_win_rate"`
	CTRoundsWon    int     `json:"ct_rounds_won"`
	TRoundsWon     int     `json:"t_rounds_won"`
	CTWinRate      float64 `json:"ct_win_rate"`
	TWinRate       float64 `json:"t_win_rate"`
	SidesEstimated bool    `json:"sides_estimated"`
}

type playerResponse struct {
	ID        int64     `json:"id"`
	Nickname  string    `json:"nickname"`
	Role      string    `json:"role"`
	URL       string    `json:"url,omitempty"`
	TeamID    *int64    `json:"team_id,omitempty"`
	RealName  *string   `json:"real_name,omitempty"`
	Country   *string   `json:"country,omitempty"`
	Age       *int      `json:"age,omitempty"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type playerStatsResponse struct {
	TotalKills            *int64    `json:"total_kills,omitempty"`
	TotalDeaths           *int64    `json:"total_deaths,omitempty"`
	HeadshotPct           *float64  `json:"headshot_pct,omitempty"`
	KDRatio               *float64  `json:"kd_ratio,omitempty"`
	DamagePerRound        *float64  `json:"damage_per_round,omitempty"`
	GrenadeDamagePerRound *float64  `json:"grenade_damage_per_round,omitempty"`
	MapsPlayed            *int64    `json:"maps_played,omitempty"`
	RoundsPlayed          *int64    `json:"rounds_played,omitempty"`
	KillsPerRound         *float64  `json:"kills_per_round,omitempty"`
	AssistsPerRound       *float64  `json:"assists_per_round,omitempty"`
	DeathsPerRound        *float64  `json:"deaths_per_round,omitempty"`
	SavedByTeammatePerRd  *float64  `json:"saved_by_teammate_per_round,omitempty"`
	SavedTeammatesPerRd   *float64  `json:"saved_teammates_per_round,omitempty"`
	Rating                *float64  `json:"rating,omitempty"`
	LastUpdated           time.Time `json:"last_updated"`
}

type playerAchievementResponse struct {
	Title     string `json:"title"`
	EventName string `json:"event_name,omitempty"`
	Year      *int   `json:"year,omitempty"`
	Placement string `json:"placement,omitempty"`
	Tier      string `json:"tier,omitempty"`
	Kind      string `json:"kind"`
	TrophyURL string `json:"trophy_url,omitempty"`
	EventURL  string `json:"event_url,omitempty"`
}

type playerDetailResponse struct {
	playerResponse
	Stats        *playerStatsResponse        `json:"stats,omitempty"`
	Achievements []playerAchievementResponse `json:"achievements"`
}

type searchHit struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.reader.ListTeams(r.Context())
	if err != nil {
		s.logger.Error("list teams failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list teams")
		return
	}
	out := make([]teamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, toTeamResponse(t))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"teams": out})
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "team_id")
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	detail, err := s.reader.GetTeam(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "team not found")
			return
		}
		s.logger.Error("get team failed", zap.Int64("team_id", id), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load team")
		return
	}

	out := teamDetailResponse{
		teamResponse: toTeamResponse(detail.Team),
		Achievements: make([]teamAchievementResponse, 0, len(detail.Achievements)),
		MapStats:     make([]teamMapStatResponse, 0, len(detail.MapStats)),
	}
	for _, a := range detail.Achievements {
		out.Achievements = append(out.Achievements, teamAchievementResponse{
			Title:     a.Title,
			EventName: a.EventName,
			Year:      a.Year,
			Placement: a.Placement,
			Prize:     a.Prize,
			Tier:      a.Tier,
			TrophyURL: a.TrophyURL,
			EventURL:  a.EventURL,
		})
	}
	for _, m := range detail.MapStats {
		out.MapStats = append(out.MapStats, teamMapStatResponse{
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
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) listTeamPlayers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "team_id")
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	players, err := s.reader.ListTeamPlayers(r.Context(), id)
	if err != nil {
		s.logger.Error("list team players failed", zap.Int64("team_id", id), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list team players")
		return
	}
	out := make([]playerResponse, 0, len(players))
	for _, p := range players {
		out = append(out, toPlayerResponse(p))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"players": out})
}

func (s *Server) listPlayers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	players, err := s.reader.ListPlayers(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("list players failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list players")
		return
	}
	out := make([]playerResponse, 0, len(players))
	for _, p := range players {
		out = append(out, toPlayerResponse(p))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"players": out, "limit": limit, "offset": offset})
}

func (s *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "player_id")
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}
	detail, err := s.reader.GetPlayerDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "player not found")
			return
		}
		s.logger.Error("get player failed", zap.Int64("player_id", id), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load player")
		return
	}

	out := playerDetailResponse{
		playerResponse: toPlayerResponse(detail.Player),
		Achievements:   make([]playerAchievementResponse, 0, len(detail.Achievements)),
	}
	if st := detail.Stats; st != nil {
		out.Stats = &playerStatsResponse{
			TotalKills:            st.TotalKills,
			TotalDeaths:           st.TotalDeaths,
			HeadshotPct:           st.HeadshotPct,
			KDRatio:               st.KDRatio,
			DamagePerRound:        st.DamagePerRound,
			GrenadeDamagePerRound: st.GrenadeDamagePerRound,
			MapsPlayed:            st.MapsPlayed,
			RoundsPlayed:          st.RoundsPlayed,
			KillsPerRound:         st.KillsPerRound,
			AssistsPerRound:       st.AssistsPerRound,
			DeathsPerRound:        st.DeathsPerRound,
			SavedByTeammatePerRd:  st.SavedByTeammatePerRd,
			SavedTeammatesPerRd:   st.SavedTeammatesPerRd,
			Rating:                st.Rating,
			LastUpdated:           st.LastUpdated,
		}
	}
	for _, a := range detail.Achievements {
		out.Achievements = append(out.Achievements, playerAchievementResponse{
			Title:     a.Title,
			EventName: a.EventName,
			Year:      a.Year,
			Placement: a.Placement,
			Tier:      a.Tier,
			Kind:      a.Kind,
			TrophyURL: a.TrophyURL,
			EventURL:  a.EventURL,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// searchPlayers fuzzy-matches nicknames, best matches first.
func (s *Server) searchPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	names, err := s.reader.ListPlayerNames(r.Context())
	if err != nil {
		s.logger.Error("search players failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to search players")
		return
	}

	targets := make([]string, len(names))
	for i, n := range names {
		targets[i] = n.Nickname
	}
	ranks := fuzzy.RankFindFold(q, targets)
	sort.Sort(ranks)

	hits := make([]searchHit, 0, maxSearchHits)
	for _, rank := range ranks {
		if len(hits) >= maxSearchHits {
			break
		}
		n := names[rank.OriginalIndex]
		hits = append(hits, searchHit{ID: n.ID, Nickname: n.Nickname})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"query": q, "players": hits})
}

func toTeamResponse(t store.Team) teamResponse {
	return teamResponse{
		ID:        t.ID,
		Name:      t.Name,
		Rank:      t.Rank,
		Points:    t.Points,
		URL:       t.URL,
		LogoURL:   t.LogoURL,
		UpdatedAt: t.UpdatedAt,
	}
}

func toPlayerResponse(p store.Player) playerResponse {
	return playerResponse{
		ID:        p.ID,
		Nickname:  p.Nickname,
		Role:      p.Role,
		URL:       p.URL,
		TeamID:    p.TeamID,
		RealName:  p.RealName,
		Country:   p.Country,
		Age:       p.Age,
		PhotoURL:  p.PhotoURL,
		UpdatedAt: p.UpdatedAt,
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
