package cmd

import (
	"context"

	"go.uber.org/zap"

	"github.com/csradar/csradar/internal/config"
)

// runtimeKeyType is the key for storing the shared runtime in the context.
type runtimeKeyType string

const runtimeKey runtimeKeyType = "runtime"

// runtime bundles what every subcommand needs after PersistentPreRunE.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
}

func withRuntime(ctx context.Context, cfg config.Config, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, runtimeKey, &runtime{cfg: cfg, logger: logger})
}

func runtimeFrom(ctx context.Context) (*runtime, bool) {
	rt, ok := ctx.Value(runtimeKey).(*runtime)
	return rt, ok && rt != nil
}
