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
	assert.Equal(t, 4.0, cfg.Routing.MaxTravelTimeHours)
	assert.Equal(t, 50.0, cfg.Routing.DefaultSpeedKmh)
	assert.Equal(t, 10, cfg.Routing.DefaultServiceTimeMinutes)
	assert.Equal(t, 30.0, cfg.Routing.SearchBudgetSeconds)
	assert.Equal(t, 240.0, cfg.Routing.MaxTravelTimeMinutes())
	assert.Equal(t, 10000.0, cfg.Priority.HighPenalty)
	assert.Equal(t, 1.0, cfg.Priority.LowWeight)
	require.NoError(t, cfg.validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
routing:
  max_travel_time_hours: 8
  default_speed_kmh: 35
priority:
  high_penalty: 50000
`), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8.0, cfg.Routing.MaxTravelTimeHours)
	assert.Equal(t, 35.0, cfg.Routing.DefaultSpeedKmh)
	assert.Equal(t, 50000.0, cfg.Priority.HighPenalty)
	// Untouched keys keep their defaults.
	assert.Equal(t, 10, cfg.Routing.DefaultServiceTimeMinutes)
	assert.Equal(t, 1000.0, cfg.Priority.MediumPenalty)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("routing:\n  default_speed_kmh: 35\n"), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DEFAULT_SPEED_KMH", "42.5")
	t.Setenv("PENALTY_MISSING_LOW_PRIORITY", "99")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 42.5, cfg.Routing.DefaultSpeedKmh)
	assert.Equal(t, 99.0, cfg.Priority.LowPenalty)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("MAX_TRAVEL_TIME_HOURS", "0")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("MAX_TRAVEL_TIME_HOURS", "4")
	t.Setenv("SEARCH_BUDGET_SECONDS", "-1")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.Error(t, err)
}
