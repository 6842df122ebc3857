package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/harshraj001/AquaVision/services/api/config"
	"github.com/harshraj001/AquaVision/services/api/db"
	"github.com/harshraj001/AquaVision/services/api/export"
	httpserver "github.com/harshraj001/AquaVision/services/api/http"
	"github.com/harshraj001/AquaVision/services/api/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger("aquavision-api", cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()
	exports := export.NewTokenStore(cfg.ExportTTL, clock)

	sweeper := export.NewSweeper(exports, cfg.ExportSweepSchedule, logger, func(remaining int) {
		metrics.ExportTokensActive.Set(float64(remaining))
	})
	if err := sweeper.Start(ctx); err != nil {
		return err
	}

	var mailer export.Mailer = export.LogMailer{Logger: logger}
	if cfg.SMTP.Enabled() {
		mailer = export.NewSMTPMailer(cfg.SMTP)
		logger.Info("export mail enabled", "relay", cfg.SMTP.Addr(), "from", cfg.SMTP.From)
	} else {
		logger.Warn("SMTP not configured, export links will be logged")
	}

	srv := httpserver.New(cfg, httpserver.Dependencies{
		Store:   store,
		Exports: exports,
		Mailer:  mailer,
		Metrics: metrics,
		Logger:  logger,
		Clock:   clock,
	})
	logger.Info("REST API listening", "addr", cfg.ListenAddr(), "base_url", cfg.BaseURL)

	return srv.Run(ctx)
}
