package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// Options controls database pool and connectivity behavior.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

const defaultPingTimeout = 5 * time.Second

var openDB = sql.Open

// DefaultServerOptions returns defaults for the api and worker processes.
// Each analysis run holds at most one connection at a time, so the pool
// mostly bounds how many runs can persist concurrently.
func DefaultServerOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     defaultPingTimeout,
	}
}

// DefaultCLIOptions returns defaults for short-lived commands (migrate, analysisctl).
func DefaultCLIOptions() Options {
	return Options{
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     defaultPingTimeout,
	}
}

// poolEnv holds optional DB_* overrides. Unset fields stay nil.
type poolEnv struct {
	MaxOpenConns    *int           `envconfig:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    *int           `envconfig:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime *time.Duration `envconfig:"DB_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime *time.Duration `envconfig:"DB_CONN_MAX_IDLE_TIME"`
	PingTimeout     *time.Duration `envconfig:"DB_PING_TIMEOUT"`
}

// OptionsFromEnv applies DB_* overrides to defaults. Malformed values are
// logged and the defaults kept.
func OptionsFromEnv(defaults Options, logger *zap.Logger) Options {
	if logger == nil {
		logger = zap.NewNop()
	}
	var env poolEnv
	if err := envconfig.Process("", &env); err != nil {
		logger.Warn("ignoring invalid DB_* overrides", zap.Error(err))
		return defaults
	}
	opts := defaults
	setIf(&opts.MaxOpenConns, env.MaxOpenConns)
	setIf(&opts.MaxIdleConns, env.MaxIdleConns)
	setIf(&opts.ConnMaxLifetime, env.ConnMaxLifetime)
	setIf(&opts.ConnMaxIdleTime, env.ConnMaxIdleTime)
	setIf(&opts.PingTimeout, env.PingTimeout)
	return opts
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Connect opens a *sql.DB using the provided DATABASE_URL and verifies connectivity.
// The returned *sql.DB should be shared and re-used by callers.
func Connect(ctx context.Context, databaseURL string, opts Options, logger *zap.Logger) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	applyOptions(db, opts)

	if err := ping(ctx, db, opts.PingTimeout); err != nil {
		_ = db.Close()
		return nil, err
	}

	stats := db.Stats()
	logger.Named("db").Info("database connected",
		zap.Int("max_open", stats.MaxOpenConnections),
		zap.Int("open", stats.OpenConnections),
		zap.Duration("ping_timeout", opts.PingTimeout),
	)
	return db, nil
}

// applyOptions sets the pool limits, using server defaults for zero values.
func applyOptions(db *sql.DB, opts Options) {
	def := DefaultServerOptions()
	db.SetMaxOpenConns(positiveOr(opts.MaxOpenConns, def.MaxOpenConns))
	db.SetMaxIdleConns(positiveOr(opts.MaxIdleConns, def.MaxIdleConns))
	db.SetConnMaxLifetime(positiveOr(opts.ConnMaxLifetime, def.ConnMaxLifetime))
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func positiveOr[T int | time.Duration](v, fallback T) T {
	if v > 0 {
		return v
	}
	return fallback
}

func ping(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
