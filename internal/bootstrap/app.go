package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recruit-backend/internal/analyses"
	"recruit-backend/internal/applications"
	"recruit-backend/internal/inference"
	"recruit-backend/internal/recovery"
	"recruit-backend/internal/services/health"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/server"
	"recruit-backend/internal/shared/storage/db"
)

// App holds shared dependencies for every binary.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Router *gin.Engine
	DB     *sql.DB

	ApplicationsRepo applications.Repo
	AnalysesRepo     analyses.Repo
	Inference        inference.Client

	ApplicationsService *applications.Service
	AnalysesService     *analyses.Service
	Sweeper             *recovery.Sweeper
	Health              *health.Service

	ApplicationHandler *applications.Handler
	AnalysisHandler    *analyses.Handler
}

// Build connects storage, wires services and handlers, and mounts the router.
// It installs logger as the zap global so package-level helpers log through it.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	zap.ReplaceGlobals(logger)

	sqlDB, err := buildDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     sqlDB,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		Logger:             logger,
		Health:             app.Health,
		AnalysisHandler:    app.AnalysisHandler,
		ApplicationHandler: app.ApplicationHandler,
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config, logger *zap.Logger) (*sql.DB, error) {
	log := logger.Named("bootstrap")
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			log.Warn("DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required in %s", cfg.Env)
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions(), logger)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts, logger)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Warn("database connect failed; using in-memory repositories", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildServices(app *App) {
	cfg := app.Config
	logger := app.Logger

	var (
		appsRepo     applications.Repo
		analysisRepo analyses.Repo
	)
	if app.DB != nil {
		appsRepo = &applications.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
	} else {
		outcomes := analyses.NewMemoryRepo()
		memApps := applications.NewMemoryRepo()
		memApps.Outcomes = outcomes
		appsRepo = memApps
		analysisRepo = outcomes
	}

	client := inference.NewGeminiClient(inference.GeminiConfig{
		Credentials: inference.NewCredentials(cfg.Gemini.ModelKeys),
		BaseURL:     cfg.Gemini.BaseURL,
		Timeout:     cfg.Gemini.Timeout,
		Logger:      logger,
	})
	models := analyses.Models{
		EvaluationA: cfg.Gemini.EvaluationModelA,
		EvaluationB: cfg.Gemini.EvaluationModelB,
		Summary:     cfg.Gemini.SummaryModel,
		Synthesis:   cfg.Gemini.SynthesisModel,
	}
	warnMissingCredentials(logger, inference.NewCredentials(cfg.Gemini.ModelKeys), models)

	analysisSvc := &analyses.Service{
		Repo:         analysisRepo,
		Applications: appsRepo,
		Inference:    client,
		Models:       models,
		Logger:       logger.Named("analyses"),
	}
	appSvc := &applications.Service{
		Repo:     appsRepo,
		Analyzer: analysisSvc,
		Logger:   logger.Named("applications"),
	}

	app.ApplicationsRepo = appsRepo
	app.AnalysesRepo = analysisRepo
	app.Inference = client
	app.AnalysesService = analysisSvc
	app.ApplicationsService = appSvc
	app.Sweeper = &recovery.Sweeper{
		Lister:   appsRepo,
		Runner:   analysisSvc,
		Postings: appsRepo,
		Logger:   logger.Named("recovery"),
		Interval: cfg.Recovery.Interval,
	}
	if app.DB != nil {
		app.Health = health.NewService(app.DB)
	} else {
		app.Health = health.NewService(nil)
	}
	app.AnalysisHandler = analyses.NewHandler(analysisSvc)
	app.ApplicationHandler = applications.NewHandler(appSvc)
}

// warnMissingCredentials logs which models have keys and flags pipeline
// models without one. Runs still proceed; those calls degrade.
func warnMissingCredentials(logger *zap.Logger, creds inference.Credentials, models analyses.Models) {
	logger.Info("inference credentials loaded", zap.Strings("models", creds.Models()))
	for _, model := range []string{models.EvaluationA, models.EvaluationB, models.Summary, models.Synthesis} {
		if _, err := creds.Lookup(model); err != nil {
			logger.Warn("no credential configured for model", zap.String("model", model))
		}
	}
}
