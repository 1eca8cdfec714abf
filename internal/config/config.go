package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"reappt/pkg/schema"
)

// Config is the full runtime configuration. Defaults cover the standard
// 2013-2024 archive; a YAML file and then environment variables override
// them in that order.
type Config struct {
	Years             schema.YearRange `yaml:"years"`
	MinAppointments   int              `yaml:"minAppointments"`
	SignificanceLevel float64          `yaml:"significanceLevel"`
	OutlierThreshold  float64          `yaml:"outlierThreshold"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Years:             schema.YearRange{Min: 2013, Max: 2024},
		MinAppointments:   5,
		SignificanceLevel: 0.05,
		OutlierThreshold:  2.0,
	}
	cfg.Log.Level = "info"
	return cfg
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v, ok := envInt("REAPPT_YEAR_MIN"); ok {
		c.Years.Min = v
	}
	if v, ok := envInt("REAPPT_YEAR_MAX"); ok {
		c.Years.Max = v
	}
	if v, ok := envInt("REAPPT_MIN_APPOINTMENTS"); ok {
		c.MinAppointments = v
	}
	if v := os.Getenv("REAPPT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) validate() error {
	if c.Years.Max < c.Years.Min {
		return fmt.Errorf("invalid year range: %d-%d", c.Years.Min, c.Years.Max)
	}
	if c.SignificanceLevel <= 0 || c.SignificanceLevel >= 1 {
		return fmt.Errorf("significance level out of (0,1): %v", c.SignificanceLevel)
	}
	if c.MinAppointments < 0 {
		return fmt.Errorf("negative minAppointments: %d", c.MinAppointments)
	}
	return nil
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
