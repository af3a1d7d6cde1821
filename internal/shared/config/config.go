package config

import (
	"log"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration.
type Config struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	CORSAllowOrigin []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:5173"`
	DatabaseURL     string   `envconfig:"DATABASE_URL"`
	Env             string   `envconfig:"ENV" default:"dev"`
	LogJSON         bool     `envconfig:"LOG_JSON" default:"true"`
	LogLevel        string   `envconfig:"LOG_LEVEL" default:"info"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`

	Gemini    GeminiConfig
	Recovery  RecoveryConfig
	RateLimit RateLimitConfig
}

// GeminiConfig configures the inference service and the four pipeline models.
type GeminiConfig struct {
	BaseURL string `envconfig:"GEMINI_BASE_URL"`
	// ModelKeys maps a model identifier to its API key, e.g. "gemini-2.0-flash:abc,gemini-1.5-flash-8b:def".
	ModelKeys map[string]string `envconfig:"GEMINI_MODEL_KEYS"`
	Timeout   time.Duration     `envconfig:"GEMINI_TIMEOUT" default:"60s"`

	EvaluationModelA string `envconfig:"EVALUATION_MODEL_A" default:"gemini-2.0-flash-lite"`
	EvaluationModelB string `envconfig:"EVALUATION_MODEL_B" default:"gemini-1.5-flash-8b"`
	SummaryModel     string `envconfig:"SUMMARY_MODEL" default:"gemini-2.0-flash"`
	SynthesisModel   string `envconfig:"SYNTHESIS_MODEL" default:"gemini-2.0-flash"`
}

// RecoveryConfig controls the periodic sweep for applications without an outcome.
type RecoveryConfig struct {
	Interval time.Duration `envconfig:"RECOVERY_INTERVAL" default:"30m"`
	Enabled  bool          `envconfig:"RECOVERY_ENABLED" default:"true"`
}

// RateLimitConfig throttles synchronous analysis runs per client.
type RateLimitConfig struct {
	AnalysisPerSecond float64 `envconfig:"RATE_LIMIT_ANALYSIS_RPS" default:"0.2"`
	AnalysisBurst     int     `envconfig:"RATE_LIMIT_ANALYSIS_BURST" default:"3"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Printf("config: %v", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	return cfg
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

// IsDevLike reports whether env permits in-memory fallbacks.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
