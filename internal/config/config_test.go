package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapboxToken = "pk.test-token"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/112_calls.csv", cfg.DataFile)
	assert.True(t, cfg.WatchEnabled)
	assert.Equal(t, 500*time.Millisecond, cfg.ReloadDebounce)
	assert.Empty(t, cfg.AllocationsFile)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
	assert.Equal(t, "112 Helpline Analytics", cfg.Dashboard.Title)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATA_FILE", "/srv/calls/march.xlsx")
	t.Setenv("WATCH_ENABLED", "false")
	t.Setenv("RELOAD_DEBOUNCE", "2s")
	t.Setenv("ALLOCATIONS_FILE", "/srv/calls/allocations.xlsx")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/srv/calls/march.xlsx", cfg.DataFile)
	assert.False(t, cfg.WatchEnabled)
	assert.Equal(t, 2*time.Second, cfg.ReloadDebounce)
	assert.Equal(t, "/srv/calls/allocations.xlsx", cfg.AllocationsFile)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	body := `
dashboard:
  title: Goa Police Control Room
  palette:
    crime: "#EF4444"
    medical: "#4F46E5"
  hexbin:
    radius_meters: 750
    elevation_scale: 12
    coverage: 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Goa Police Control Room", cfg.Dashboard.Title)
	assert.Equal(t, "#EF4444", cfg.Dashboard.Palette["crime"])
	assert.Equal(t, 750.0, cfg.Dashboard.Hexbin.RadiusMeters)
	assert.Equal(t, 12.0, cfg.Dashboard.Hexbin.ElevationScale)
	assert.Equal(t, 0.9, cfg.Dashboard.Hexbin.Coverage)
}

func TestLoad_BadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dashboard: ["), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}
