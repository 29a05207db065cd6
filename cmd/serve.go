package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csradar/csradar/internal/api"
	"github.com/csradar/csradar/internal/store/postgres"
)

// newServeCmd creates the 'serve' subcommand hosting the read API.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the collected data over HTTP",
		Long: `Starts the REST API over the collected teams, players, statistics and
achievements, together with health probes and Prometheus metrics.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, ok := runtimeFrom(cmd.Context())
			if !ok {
				return errors.New("runtime not initialized")
			}
			return runServe(cmd.Context(), rt)
		},
	}
	return cmd
}

func runServe(ctx context.Context, rt *runtime) error {
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

	server := api.NewServer(st, rt.logger.Named("api"))
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", rt.cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("http server listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	rt.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.ShutdownGrace())
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
