// Package config loads the immutable process configuration: routing limits
// and the priority objective weights. It is read once at startup and passed
// into every optimization call; nothing mutates it afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Routing holds global routing limits and defaults.
type Routing struct {
	MaxTravelTimeHours        float64 `yaml:"max_travel_time_hours"`
	DefaultSpeedKmh           float64 `yaml:"default_speed_kmh"`
	DefaultServiceTimeMinutes int     `yaml:"default_service_time_minutes"`
	SearchBudgetSeconds       float64 `yaml:"search_budget_seconds"`
}

// Priority maps each tier to an inclusion weight and an omission penalty.
// The penalties are tunable rather than hard-coded so the penalty curve can
// be reshaped per deployment.
type Priority struct {
	HighWeight    float64 `yaml:"high_weight"`
	MediumWeight  float64 `yaml:"medium_weight"`
	LowWeight     float64 `yaml:"low_weight"`
	HighPenalty   float64 `yaml:"high_penalty"`
	MediumPenalty float64 `yaml:"medium_penalty"`
	LowPenalty    float64 `yaml:"low_penalty"`
}

// Config is the root configuration value.
type Config struct {
	Routing  Routing  `yaml:"routing"`
	Priority Priority `yaml:"priority"`
}

// Default returns the built-in configuration, matching the documented
// defaults of the service.
func Default() Config {
	return Config{
		Routing: Routing{
			MaxTravelTimeHours:        4.0,
			DefaultSpeedKmh:           50.0,
			DefaultServiceTimeMinutes: 10,
			SearchBudgetSeconds:       30.0,
		},
		Priority: Priority{
			HighWeight:    1000,
			MediumWeight:  100,
			LowWeight:     1,
			HighPenalty:   10000,
			MediumPenalty: 1000,
			LowPenalty:    10,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named
// by CONFIG_PATH, and finally environment variable overrides.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envFloat("MAX_TRAVEL_TIME_HOURS", &cfg.Routing.MaxTravelTimeHours)
	envFloat("DEFAULT_SPEED_KMH", &cfg.Routing.DefaultSpeedKmh)
	envInt("DEFAULT_SERVICE_TIME_MINUTES", &cfg.Routing.DefaultServiceTimeMinutes)
	envFloat("SEARCH_BUDGET_SECONDS", &cfg.Routing.SearchBudgetSeconds)
	envFloat("HIGH_PRIORITY_WEIGHT", &cfg.Priority.HighWeight)
	envFloat("MEDIUM_PRIORITY_WEIGHT", &cfg.Priority.MediumWeight)
	envFloat("LOW_PRIORITY_WEIGHT", &cfg.Priority.LowWeight)
	envFloat("PENALTY_MISSING_HIGH_PRIORITY", &cfg.Priority.HighPenalty)
	envFloat("PENALTY_MISSING_MEDIUM_PRIORITY", &cfg.Priority.MediumPenalty)
	envFloat("PENALTY_MISSING_LOW_PRIORITY", &cfg.Priority.LowPenalty)
}

func (c Config) validate() error {
	if c.Routing.MaxTravelTimeHours <= 0 {
		return fmt.Errorf("config: max_travel_time_hours must be > 0")
	}
	if c.Routing.SearchBudgetSeconds <= 0 {
		return fmt.Errorf("config: search_budget_seconds must be > 0")
	}
	if c.Routing.DefaultServiceTimeMinutes < 0 {
		return fmt.Errorf("config: default_service_time_minutes must be >= 0")
	}
	return nil
}

// MaxTravelTimeMinutes is the travel-time ceiling in solver units.
func (r Routing) MaxTravelTimeMinutes() float64 {
	return r.MaxTravelTimeHours * 60
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
