// Package pipeline drives a full collection run: leaderboard, team pages,
// then player detail pages, reconciling each page's records as it goes. The
// pipeline never retries a failed page within a run; the next scheduled run
// picks up whatever was missed.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csradar/csradar/internal/metrics"
	"github.com/csradar/csradar/internal/recon"
	"github.com/csradar/csradar/internal/scrape"
	"github.com/csradar/csradar/internal/scrape/extract"
	"github.com/csradar/csradar/internal/scrape/roles"
	"github.com/csradar/csradar/internal/store"
)

// rankingsPath is the leaderboard page relative to the site base.
const rankingsPath = "/ranking/teams/"

// statsURLTemplate builds a player's statistics sub-page from their site id.
const statsURLTemplate = "%s/stats/players/%d/-"

// Navigator loads pages through the shared browser session.
type Navigator interface {
	Navigate(ctx context.Context, url string) (string, bool)
}

// Reconciler is the slice of the reconciliation engine the pipeline drives.
// *recon.Engine satisfies it.
type Reconciler interface {
	ReconcileTeam(ctx context.Context, entry scrape.RankingEntry) (int64, bool, error)
	ReconcileRoster(ctx context.Context, teamID int64, members []scrape.RosterMember,
		achievements []scrape.Achievement, maps []scrape.TeamMapStats) (recon.RosterResult, error)
	ShouldRefreshStats(ctx context.Context, playerID int64, force, targeted bool) (bool, error)
	ReconcilePlayerDetails(ctx context.Context, playerID int64, profile scrape.PlayerProfile,
		stats scrape.StatsBlock, achievements []scrape.Achievement) error
}

// RunRecorder persists run lifecycle rows. store.Store satisfies it.
type RunRecorder interface {
	InsertRunStart(ctx context.Context, run store.Run) error
	CompleteRun(ctx context.Context, run store.Run) error
}

// Clock supplies run timestamps.
type Clock interface {
	Now() time.Time
}

// Params selects what one run collects.
type Params struct {
	// TargetPlayerID restricts the detail phase to one player and forces
	// their refresh. Zero means all players.
	TargetPlayerID int64
	// Force refreshes detail pages regardless of freshness.
	Force bool
	// MaxPlayers caps the detail phase. Zero means no cap.
	MaxPlayers int
}

// Summary reports what one run accomplished.
type Summary struct {
	RunID       uuid.UUID
	TeamsSeen   int
	PlayersSeen int
	Created     int
	Updated     int
	Skipped     int
	Failed      int
}

// Orchestrator owns the run state machine.
type Orchestrator struct {
	nav    Navigator
	engine Reconciler
	runs   RunRecorder
	clock  Clock
	logger *zap.Logger

	baseURL string
	pacer   *pacer
}

// New assembles an Orchestrator. PaceUnit scales every inter-page pause.
func New(
	nav Navigator,
	engine Reconciler,
	runs RunRecorder,
	clock Clock,
	logger *zap.Logger,
	baseURL string,
	paceUnit time.Duration,
) *Orchestrator {
	return &Orchestrator{
		nav:     nav,
		engine:  engine,
		runs:    runs,
		clock:   clock,
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		pacer:   newPacer(paceUnit),
	}
}

// Run executes one full collection pass.
func (o *Orchestrator) Run(ctx context.Context, params Params) (Summary, error) {
	started := o.clock.Now()
	summary := Summary{RunID: uuid.New()}

	if err := o.runs.InsertRunStart(ctx, store.Run{ID: summary.RunID, StartedAt: started}); err != nil {
		return summary, fmt.Errorf("record run start: %w", err)
	}

	runErr := o.collect(ctx, params, &summary)

	finished := o.clock.Now()
	status := store.RunSuccess
	var errMsg *string
	if runErr != nil {
		status = store.RunError
		msg := runErr.Error()
		errMsg = &msg
	}
	run := store.Run{
		ID:           summary.RunID,
		StartedAt:    started,
		FinishedAt:   &finished,
		Status:       status,
		TeamsSeen:    summary.TeamsSeen,
		PlayersSeen:  summary.PlayersSeen,
		Created:      summary.Created,
		Updated:      summary.Updated,
		Skipped:      summary.Skipped,
		Failed:       summary.Failed,
		ErrorMessage: errMsg,
	}
	if err := o.runs.CompleteRun(ctx, run); err != nil {
		o.logger.Error("record run completion failed", zap.Error(err))
	}
	metrics.ObserveRun(string(status), finished.Sub(started))

	return summary, runErr
}

// rosterEntry carries a roster member into the detail phase.
type rosterEntry struct {
	member scrape.RosterMember
}

func (o *Orchestrator) collect(ctx context.Context, params Params, summary *Summary) error {
	entries, err := o.collectRankings(ctx)
	if err != nil {
		return err
	}

	var detailQueue []rosterEntry
	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		members := o.collectTeam(ctx, entry, summary)
		detailQueue = append(detailQueue, members...)
		o.pacer.pause(ctx, "team", teamPauseMin, teamPauseMax)
	}

	o.collectDetails(ctx, params, detailQueue, summary)
	return ctx.Err()
}

// collectRankings loads and parses the leaderboard. A failed or unparseable
// leaderboard aborts the run; nothing downstream can proceed without it.
func (o *Orchestrator) collectRankings(ctx context.Context) ([]scrape.RankingEntry, error) {
	url := o.baseURL + rankingsPath
	html, ok := o.nav.Navigate(ctx, url)
	o.pacer.recordAttempt(ok)
	if !ok {
		return nil, fmt.Errorf("leaderboard page failed to load")
	}

	doc, err := parseDocument(html)
	if err != nil {
		return nil, fmt.Errorf("parse leaderboard: %w", err)
	}

	entries := extract.Rankings(doc)
	if len(entries) == 0 {
		return nil, fmt.Errorf("leaderboard page yielded no teams")
	}
	if len(entries) < scrape.MaxRankingEntries {
		o.logger.Warn("leaderboard partially extracted, proceeding degraded",
			zap.Int("teams", len(entries)),
			zap.Int("expected", scrape.MaxRankingEntries))
	} else {
		o.logger.Info("leaderboard collected", zap.Int("teams", len(entries)))
	}
	return entries, nil
}

// collectTeam reconciles one leaderboard row and, when its page loads, the
// team's roster, trophies and map statistics. Page failures are logged and
// skipped; the ranking row itself was already committed.
func (o *Orchestrator) collectTeam(ctx context.Context, entry scrape.RankingEntry, summary *Summary) []rosterEntry {
	teamID, _, err := o.engine.ReconcileTeam(ctx, entry)
	if err != nil {
		summary.Failed++
		o.logger.Error("team reconciliation failed", zap.String("team", entry.Name), zap.Error(err))
		return nil
	}
	summary.TeamsSeen++

	if entry.URL == "" {
		summary.Skipped++
		o.logger.Warn("team has no page link", zap.String("team", entry.Name))
		return nil
	}

	html, ok := o.nav.Navigate(ctx, entry.URL)
	o.pacer.recordAttempt(ok)
	if !ok {
		summary.Failed++
		o.pacer.pause(ctx, "error", errorPauseMin, errorPauseMax)
		return nil
	}

	doc, err := parseDocument(html)
	if err != nil {
		summary.Failed++
		o.logger.Warn("team page unparseable", zap.String("team", entry.Name), zap.Error(err))
		return nil
	}

	members := extract.Roster(doc)
	roles.Annotate(members)
	members = roles.CapRoster(members)

	result, err := o.engine.ReconcileRoster(ctx, teamID,
		members, extract.TeamAchievements(doc), extract.TeamMapStats(doc))
	if err != nil {
		summary.Failed++
		o.logger.Error("roster reconciliation failed", zap.String("team", entry.Name), zap.Error(err))
		return nil
	}
	summary.Created += result.Created
	summary.Updated += result.Updated
	summary.Failed += result.Failed

	queue := make([]rosterEntry, 0, len(members))
	for _, m := range members {
		queue = append(queue, rosterEntry{member: m})
	}
	return queue
}

// collectDetails visits player profile and statistics pages for the queued
// roster members, honoring the freshness policy and run caps.
func (o *Orchestrator) collectDetails(ctx context.Context, params Params, queue []rosterEntry, summary *Summary) {
	visited := 0
	for _, item := range queue {
		if ctx.Err() != nil {
			return
		}
		member := item.member
		targeted := params.TargetPlayerID != 0 && member.ExternalID == params.TargetPlayerID
		if params.TargetPlayerID != 0 && !targeted {
			continue
		}
		if params.MaxPlayers > 0 && visited >= params.MaxPlayers {
			summary.Skipped++
			continue
		}

		refresh, err := o.engine.ShouldRefreshStats(ctx, member.ExternalID, params.Force, targeted)
		if err != nil {
			summary.Failed++
			o.logger.Warn("freshness check failed", zap.Int64("player_id", member.ExternalID), zap.Error(err))
			continue
		}
		if !refresh {
			summary.Skipped++
			metrics.ObserveEntity("stats", "skipped")
			continue
		}

		visited++
		if o.collectPlayer(ctx, member, summary) {
			summary.PlayersSeen++
		}
		o.pacer.pause(ctx, "player", playerPauseMin, playerPauseMax)
	}
}

// collectPlayer loads a member's profile page and stats sub-page and
// reconciles whatever both yielded. Coaches have no stats sub-page worth
// visiting, so only the profile is loaded for them.
func (o *Orchestrator) collectPlayer(ctx context.Context, member scrape.RosterMember, summary *Summary) bool {
	html, ok := o.nav.Navigate(ctx, member.URL)
	o.pacer.recordAttempt(ok)
	if !ok {
		summary.Failed++
		o.pacer.pause(ctx, "error", errorPauseMin, errorPauseMax)
		return false
	}
	doc, err := parseDocument(html)
	if err != nil {
		summary.Failed++
		o.logger.Warn("player page unparseable", zap.Int64("player_id", member.ExternalID), zap.Error(err))
		return false
	}

	profile := extract.PlayerProfile(doc)
	achievements := extract.PlayerAchievements(doc)

	var stats scrape.StatsBlock
	if member.Role == scrape.RolePlayer {
		statsURL := fmt.Sprintf(statsURLTemplate, o.baseURL, member.ExternalID)
		statsHTML, ok := o.nav.Navigate(ctx, statsURL)
		o.pacer.recordAttempt(ok)
		if ok {
			if statsDoc, err := parseDocument(statsHTML); err == nil {
				stats = extract.PlayerStats(statsDoc)
			}
		} else {
			o.pacer.pause(ctx, "error", errorPauseMin, errorPauseMax)
		}
	}

	if err := o.engine.ReconcilePlayerDetails(ctx, member.ExternalID, profile, stats, achievements); err != nil {
		summary.Failed++
		o.logger.Error("player reconciliation failed", zap.Int64("player_id", member.ExternalID), zap.Error(err))
		return false
	}
	summary.Updated++
	return true
}

func parseDocument(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
