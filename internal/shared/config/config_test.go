package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("GEMINI_MODEL_KEYS", "")
	t.Chdir(t.TempDir())

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 30*time.Minute, cfg.Recovery.Interval)
	assert.Equal(t, "gemini-2.0-flash-lite", cfg.Gemini.EvaluationModelA)
	assert.Equal(t, "gemini-1.5-flash-8b", cfg.Gemini.EvaluationModelB)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.SummaryModel)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.SynthesisModel)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.InDelta(t, 0.2, cfg.RateLimit.AnalysisPerSecond, 1e-9)
	assert.Equal(t, 3, cfg.RateLimit.AnalysisBurst)
}

func TestLoadModelKeys(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_MODEL_KEYS", "gemini-2.0-flash:key-a,gemini-1.5-flash-8b:key-b")
	t.Setenv("ENV", "prod")

	cfg := Load()

	require.Len(t, cfg.Gemini.ModelKeys, 2)
	assert.Equal(t, "key-a", cfg.Gemini.ModelKeys["gemini-2.0-flash"])
	assert.Equal(t, "key-b", cfg.Gemini.ModelKeys["gemini-1.5-flash-8b"])
	assert.Equal(t, "production", cfg.Env)
}

func TestNormalizeEnv(t *testing.T) {
	tests := map[string]string{
		"prod":       "production",
		" Staging ":  "staging",
		"local":      "local",
		"whatever":   "dev",
		"":           "dev",
		"production": "production",
	}
	for in, want := range tests {
		if got := normalizeEnv(in); got != want {
			t.Fatalf("normalizeEnv(%q) = %q, want %q", in, got, want)
		}
	}
}
