package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"recruit-backend/internal/bootstrap"
	"recruit-backend/internal/recovery"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/telemetry"
)

// sweeper is the part of recovery.Sweeper the worker drives.
type sweeper interface {
	SweepOnce(ctx context.Context) (recovery.Report, error)
	Run(ctx context.Context) error
}

func main() {
	cfg := config.Load()

	logger, err := telemetry.New(cfg.LogJSON, cfg.LogLevel)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("bootstrap build", zap.Error(err))
	}
	defer func() { _ = app.Close() }()

	if !cfg.Recovery.Enabled {
		logger.Info("recovery disabled; worker exiting")
		return
	}
	logger.Info("worker started", zap.Duration("interval", cfg.Recovery.Interval))
	if err := runWorker(ctx, app.Sweeper, logger); err != nil {
		logger.Fatal("worker stopped", zap.Error(err))
	}
	logger.Info("worker stopped")
}

// runWorker sweeps once at startup so a restart does not wait a full
// interval, then sweeps on the ticker until ctx is done.
func runWorker(ctx context.Context, s sweeper, logger *zap.Logger) error {
	report, err := s.SweepOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		logger.Error("initial sweep failed", zap.Error(err))
	} else {
		logger.Info("initial sweep done",
			zap.Int("pending", report.Pending),
			zap.Int("failed", report.Failed),
			zap.Int64("postings_closed", report.PostingsClosed),
		)
	}
	return s.Run(ctx)
}
