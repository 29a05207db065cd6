package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csradar/csradar/internal/browser"
	"github.com/csradar/csradar/internal/clock/system"
	"github.com/csradar/csradar/internal/pipeline"
	"github.com/csradar/csradar/internal/recon"
	"github.com/csradar/csradar/internal/store/postgres"
)

// newCollectCmd creates the 'collect' subcommand. It drives one full
// collection pass, or runs one on a cron schedule when --every is set.
func newCollectCmd() *cobra.Command {
	var (
		playerID   int64
		force      bool
		maxPlayers int
		every      string
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Runs a collection pass over the ranking, team and player pages",
		Long: `Walks the world ranking through a shared headless browser session,
reconciles teams, rosters, player details and statistics into the database,
and records the run outcome. With --every, keeps the process alive and
repeats the pass on the given cron schedule.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, ok := runtimeFrom(cmd.Context())
			if !ok {
				return errors.New("runtime not initialized")
			}

			params := pipeline.Params{
				TargetPlayerID: playerID,
				Force:          force || rt.cfg.Collect.ForceStats,
				MaxPlayers:     maxPlayers,
			}
			if params.MaxPlayers == 0 {
				params.MaxPlayers = rt.cfg.Collect.MaxPlayers
			}
			schedule := every
			if schedule == "" {
				schedule = rt.cfg.Collect.EverySchedule
			}

			return runCollect(cmd.Context(), rt, params, schedule)
		},
	}

	cmd.Flags().Int64Var(&playerID, "player-id", 0, "collect a single player's details and force their refresh")
	cmd.Flags().BoolVar(&force, "force", false, "refresh player details regardless of freshness")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "cap the number of player detail pages per pass (0 = no cap)")
	cmd.Flags().StringVar(&every, "every", "", "cron expression; repeat the pass on this schedule instead of running once")

	return cmd
}

func runCollect(ctx context.Context, rt *runtime, params pipeline.Params, schedule string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := postgres.New(ctx, postgres.Config{
		DSN:      rt.cfg.DB.DSN,
		MaxConns: int32(rt.cfg.DB.MaxConns),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer st.Close()

	session := browser.New(browser.Config{
		UserAgent:         rt.cfg.Browser.UserAgent,
		ViewportWidth:     rt.cfg.Browser.ViewportW,
		ViewportHeight:    rt.cfg.Browser.ViewportH,
		NavigationTimeout: rt.cfg.NavTimeout(),
		PaceUnit:          rt.cfg.PaceUnit(),
	}, rt.logger.Named("browser"))
	defer session.Close()

	clk := system.New()
	engine := recon.New(st, clk, rt.logger.Named("recon"), 0)
	orch := pipeline.New(session, engine, st, clk, rt.logger.Named("pipeline"),
		rt.cfg.Collect.BaseURL, rt.cfg.PaceUnit())

	if schedule == "" {
		return collectOnce(ctx, rt.logger, orch, params)
	}
	return collectOnSchedule(ctx, rt.logger, orch, params, schedule)
}

func collectOnce(ctx context.Context, logger *zap.Logger, orch *pipeline.Orchestrator, params pipeline.Params) error {
	summary, err := orch.Run(ctx, params)
	if err != nil {
		return fmt.Errorf("collection run: %w", err)
	}
	logger.Info("collection run finished",
		zap.String("run_id", summary.RunID.String()),
		zap.Int("teams_seen", summary.TeamsSeen),
		zap.Int("players_seen", summary.PlayersSeen),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return nil
}

func collectOnSchedule(ctx context.Context, logger *zap.Logger, orch *pipeline.Orchestrator,
	params pipeline.Params, schedule string) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.CronJob(schedule, false),
		gocron.NewTask(func() {
			if err := collectOnce(ctx, logger, orch, params); err != nil {
				logger.Error("scheduled collection run failed", zap.Error(err))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule collection job: %w", err)
	}

	sched.Start()
	logger.Info("collection scheduler started", zap.String("schedule", schedule))

	<-ctx.Done()
	logger.Info("shutting down collection scheduler")
	return sched.Shutdown()
}
