package main

// Run database migrations:
//   go run ./cmd/migrate            # apply pending migrations
//   go run ./cmd/migrate down       # roll back the latest migration
//   go run ./cmd/migrate version    # print the applied version

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/storage/db"
	"recruit-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	logger, err := telemetry.New(cfg.LogJSON, cfg.LogLevel)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	opts := db.OptionsFromEnv(db.DefaultCLIOptions(), logger)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts, logger)
	if err != nil {
		logger.Error("failed to connect database", zap.Error(err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	if err := run(ctx, command, sqlDB, os.Stdout); err != nil {
		logger.Error("migration failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, sqlDB *sql.DB, out io.Writer) error {
	switch command {
	case "up":
		return db.RunMigrations(ctx, sqlDB)
	case "down":
		return db.RollbackMigration(ctx, sqlDB)
	case "version":
		version, err := db.MigrationVersion(ctx, sqlDB)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, version)
		return err
	default:
		return fmt.Errorf("unknown command %q (want up, down or version)", command)
	}
}
