package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pario-ai/costscope/pkg/models"
	"github.com/pario-ai/costscope/pkg/shadow"
)

// Config holds all costscope configuration.
type Config struct {
	DBPath          string             `yaml:"db_path" toml:"db_path"`
	AlertThreshold  float64            `yaml:"alert_threshold" toml:"alert_threshold"`
	DefaultScenario string             `yaml:"default_scenario" toml:"default_scenario"`
	LogLevel        string             `yaml:"log_level" toml:"log_level"`
	Models          []models.ModelInfo `yaml:"models" toml:"models"`
	Budgets         BudgetsConfig      `yaml:"budgets" toml:"budgets"`
}

// BudgetsConfig describes how a monthly total is split across teams.
type BudgetsConfig struct {
	TotalMonthly float64            `yaml:"total_monthly" toml:"total_monthly"`
	Teams        map[string]float64 `yaml:"teams" toml:"teams"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DBPath:          "costscope.db",
		AlertThreshold:  80,
		DefaultScenario: shadow.DefaultScenario,
		LogLevel:        "info",
	}
}

// Load reads a YAML config file, or TOML when the path ends in .toml, and
// expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Validate reports every problem found in the config.
func (c *Config) Validate() error {
	var errs []error
	if c.AlertThreshold < 0 {
		errs = append(errs, fmt.Errorf("alert_threshold must not be negative, got %v", c.AlertThreshold))
	}
	if _, ok := shadow.Lookup(c.DefaultScenario); !ok {
		errs = append(errs, fmt.Errorf("unknown default_scenario %q", c.DefaultScenario))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	for i, m := range c.Models {
		if m.ID == "" {
			errs = append(errs, fmt.Errorf("models[%d]: id is required", i))
		}
		if err := m.Pricing.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("models[%d] %q: %w", i, m.ID, err))
		}
	}
	if c.Budgets.TotalMonthly < 0 {
		errs = append(errs, errors.New("budgets.total_monthly must not be negative"))
	}
	for team, w := range c.Budgets.Teams {
		if w < 0 {
			errs = append(errs, fmt.Errorf("budgets.teams.%s: weight must not be negative", team))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
