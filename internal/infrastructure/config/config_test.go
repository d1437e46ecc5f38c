package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Engine thresholds
	assert.Equal(t, 60, cfg.Engine.MinSessionSeconds)
	assert.Equal(t, 10, cfg.Engine.MinDistractionSeconds)
	assert.Equal(t, 30, cfg.Engine.InactivitySeconds)
	assert.Equal(t, 5, cfg.Engine.SampleSeconds)
	assert.Equal(t, 25, cfg.Engine.StudyDurationMinutes)
	assert.Equal(t, 5, cfg.Engine.ShortBreakMinutes)
	assert.Equal(t, 15, cfg.Engine.LongBreakMinutes)
	assert.Equal(t, 4, cfg.Engine.SessionsBeforeLongBreak)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, 60, cfg.Engine.MinSessionSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                   "9000",
		"MIN_SESSION_SECONDS":    "30",
		"STUDY_DURATION_MINUTES": "50",
		"LOG_LEVEL":              "debug",
	}
	for k, v := range envVars {
		require.NoError(t, os.Setenv(k, v))
	}
	defer func() {
		for k := range envVars {
			os.Unsetenv(k)
		}
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Engine.MinSessionSeconds)
	assert.Equal(t, 50, cfg.Engine.StudyDurationMinutes)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"min_session_seconds: 45\nshort_break_minutes: 3\n",
	), 0o644))

	cfg := Default()
	require.NoError(t, cfg.ApplyOverrides(path))

	assert.Equal(t, 45, cfg.Engine.MinSessionSeconds)
	assert.Equal(t, 3, cfg.Engine.ShortBreakMinutes)
	// Untouched fields keep their defaults
	assert.Equal(t, 25, cfg.Engine.StudyDurationMinutes)
}

func TestApplyOverridesMissingFile(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.ApplyOverrides(filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Equal(t, 60, cfg.Engine.MinSessionSeconds)
}

func TestApplyOverridesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	cfg := Default()
	assert.Error(t, cfg.ApplyOverrides(path))
}
