package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recruit-backend/internal/analyses"
	"recruit-backend/internal/bootstrap"
	"recruit-backend/internal/recovery"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/telemetry"
)

const app = "analysisctl"

// deps is what the subcommands need from a built application.
type deps struct {
	Analyses *analyses.Service
	Sweeper  *recovery.Sweeper
	Logger   *zap.Logger
	close    func() error
}

// buildDeps is swapped in tests.
var buildDeps = func(ctx context.Context, debug, jsonLogs bool) (*deps, error) {
	cfg := config.Load()
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger, err := telemetry.New(jsonLogs, level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	built, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &deps{
		Analyses: built.AnalysesService,
		Sweeper:  built.Sweeper,
		Logger:   logger,
		close:    built.Close,
	}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           app,
		Short:         "analysisctl runs application analyses outside the API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	root.AddCommand(newRunCmd(), newSweepCmd())
	return root
}

func loadDeps(cmd *cobra.Command) (*deps, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	return buildDeps(cmd.Context(), debug, jsonLogs)
}

func (d *deps) Close() {
	if d.close != nil {
		_ = d.close()
	}
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}
}
