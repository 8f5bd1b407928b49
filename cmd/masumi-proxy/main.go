package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/config"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	logger := bootstrap.InitLogger(cfg.IsDev)
	if err := run(ctx, &cfg, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	logStartupInfo(ctx, logger, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunServicesWithShutdown(&bootstrap.ServiceOrchestrationConfig{
		Config:   cfg,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting masumi proxy",
		"addr", cfg.HTTP.Addr,
		"agent_identifier", cfg.Payment.AgentIdentifier,
		"payment_amount", cfg.Payment.Amount,
		"payment_unit", cfg.Payment.Unit,
		"store_backend", cfg.Store.Backend,
		"poll_interval", cfg.Monitor.PollInterval,
		"poll_timeout", cfg.Monitor.PollTimeout)
}
