// Package config provides runtime configuration values for the simulator.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds configuration knobs for the HTTP server and the pipeline.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`

	OverstockFactor float64 `envconfig:"OVERSTOCK_FACTOR" default:"1.5"`
	DiscountRate    float64 `envconfig:"DISCOUNT_RATE" default:"0.2"`

	ForecastWindow int     `envconfig:"FORECAST_WINDOW" default:"3"`
	ForecastJitter float64 `envconfig:"FORECAST_JITTER" default:"0"`
	ForecastSeed   uint64  `envconfig:"FORECAST_SEED" default:"1"`
	ForecastStrict bool    `envconfig:"FORECAST_STRICT" default:"false"`

	// SeedFile points at a YAML seed; empty selects the built-in one.
	SeedFile string `envconfig:"SEED_FILE"`
}

// Load collects configuration from environment with defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration Load yields with an empty environment.
func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		ShutdownTimeout: 15 * time.Second,
		LogLevel:        "info",
		OverstockFactor: 1.5,
		DiscountRate:    0.2,
		ForecastWindow:  3,
		ForecastSeed:    1,
	}
}

func (c Config) Validate() error {
	if c.OverstockFactor <= 0 {
		return fmt.Errorf("OVERSTOCK_FACTOR must be > 0, got %v", c.OverstockFactor)
	}
	if c.DiscountRate < 0 || c.DiscountRate >= 1 {
		return fmt.Errorf("DISCOUNT_RATE must be in [0,1), got %v", c.DiscountRate)
	}
	if c.ForecastWindow < 0 {
		return fmt.Errorf("FORECAST_WINDOW must be >= 0, got %d", c.ForecastWindow)
	}
	if c.ForecastJitter < 0 {
		return fmt.Errorf("FORECAST_JITTER must be >= 0, got %v", c.ForecastJitter)
	}
	return nil
}
