package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service settings, populated from environment variables
// plus an optional YAML presentation overlay (CONFIG_FILE).
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Data source.
	DataFile       string // CSV or XLSX call log, required
	WatchEnabled   bool   // reload the snapshot when DataFile changes
	ReloadDebounce time.Duration

	// Allocations log workbook. Empty disables the allocations endpoints.
	AllocationsFile string

	// Mapbox reverse geocoding for jurisdiction backfill.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	Dashboard Dashboard
}

// Dashboard carries presentation settings that operators tune per deployment.
// All fields are optional; zero values fall back to package defaults.
type Dashboard struct {
	Title   string            `yaml:"title"`
	Palette map[string]string `yaml:"palette"` // category → hex color

	Hexbin HexbinDefaults `yaml:"hexbin"`
}

// HexbinDefaults override the auto-tuned hexbin layer parameters.
type HexbinDefaults struct {
	RadiusMeters   float64 `yaml:"radius_meters"`
	ElevationScale float64 `yaml:"elevation_scale"`
	Coverage       float64 `yaml:"coverage"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, then merges the YAML overlay if CONFIG_FILE is set.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	reloadDebounce, err := parseDuration("RELOAD_DEBOUNCE", "500ms")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataFile:       envOrDefault("DATA_FILE", "data/112_calls.csv"),
		WatchEnabled:   envOrDefault("WATCH_ENABLED", "true") == "true",
		ReloadDebounce: reloadDebounce,

		AllocationsFile: os.Getenv("ALLOCATIONS_FILE"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: envOrDefaultInt("MAPBOX_CACHE_SIZE", 1000),

		Dashboard: Dashboard{Title: "112 Helpline Analytics"},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadOverlay(path, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.DataFile == "" {
		return nil, errors.New("DATA_FILE is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.Dashboard.Hexbin.Coverage < 0 || cfg.Dashboard.Hexbin.Coverage > 1 {
		return nil, errors.New("dashboard.hexbin.coverage must be within [0, 1]")
	}

	return cfg, nil
}

// overlay is the YAML file shape. Only presentation settings live here;
// operational settings stay in the environment.
type overlay struct {
	Dashboard Dashboard `yaml:"dashboard"`
}

func loadOverlay(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var o overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if o.Dashboard.Title != "" {
		cfg.Dashboard.Title = o.Dashboard.Title
	}
	if len(o.Dashboard.Palette) > 0 {
		cfg.Dashboard.Palette = o.Dashboard.Palette
	}
	if o.Dashboard.Hexbin.RadiusMeters > 0 {
		cfg.Dashboard.Hexbin.RadiusMeters = o.Dashboard.Hexbin.RadiusMeters
	}
	if o.Dashboard.Hexbin.ElevationScale > 0 {
		cfg.Dashboard.Hexbin.ElevationScale = o.Dashboard.Hexbin.ElevationScale
	}
	if o.Dashboard.Hexbin.Coverage > 0 {
		cfg.Dashboard.Hexbin.Coverage = o.Dashboard.Hexbin.Coverage
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}
