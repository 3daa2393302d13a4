package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/ludo-technologies/schemascan/app"
	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/config"
	"github.com/ludo-technologies/schemascan/internal/history"
	"github.com/ludo-technologies/schemascan/internal/telemetry"
	"github.com/ludo-technologies/schemascan/service"
)

// schemaArg returns the schema path argument, defaulting to the current directory
func schemaArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// loadCommandConfig loads the explicit or discovered config file, applies
// flag overrides and validates the result
func loadCommandConfig(configPath, schemaPath string, overrides *service.ConfigOverrides) (*config.Config, error) {
	loader := service.NewConfigurationLoader()
	base, err := loader.LoadConfigForSchema(configPath, schemaPath)
	if err != nil {
		return nil, err
	}
	cfg := loader.MergeConfig(base, overrides)
	if err := loader.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newAuditUseCase wires the audit use case from configuration. The
// returned cleanup flushes traces and closes the history store when one was
// opened.
func newAuditUseCase(cfg *config.Config, logger *slog.Logger, pm domain.ProgressManager) (*app.AuditUseCase, func(), error) {
	shutdownTracing, err := telemetry.Setup(context.Background(), &cfg.Tracing, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	stopTracing := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}

	executor := service.NewCheckpointExecutor(&cfg.Performance, pm)
	builder := app.NewAuditUseCaseBuilder().
		WithService(service.NewAuditService(cfg, executor, logger)).
		WithReportWriter(service.NewOutputFormatter().WithDetails(cfg.Output.ShowDetails, cfg.Output.MaxExamples)).
		WithLogger(logger)

	if cfg.Source.CountsEndpoint != "" {
		fetcher := service.NewHTTPContentCountFetcher(&cfg.Source)
		builder.WithCountSampler(service.NewContentCountSampler(fetcher, &cfg.Source, logger))
	}

	cleanup := stopTracing
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path, logger)
		if err != nil {
			stopTracing()
			return nil, nil, err
		}
		builder.WithHistory(store)
		cleanup = func() {
			_ = store.Close()
			stopTracing()
		}
	}

	uc, err := builder.Build()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return uc, cleanup, nil
}

// interruptContext is cancelled on Ctrl-C
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// toDimensions converts dimension flag values
func toDimensions(names []string) []domain.Dimension {
	dims := make([]domain.Dimension, 0, len(names))
	for _, n := range names {
		dims = append(dims, domain.Dimension(n))
	}
	return dims
}
