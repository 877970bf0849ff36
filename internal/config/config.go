// Package config loads application configuration from the environment and
// from optional YAML run files.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds application-wide configuration. All fields have defaults;
// positivity is validated where it matters.
type Config struct {
	// InitialCapital is the simulation starting capital. Must be > 0.
	InitialCapital decimal.Decimal
	// Commission and Slippage are proportional cost rates. Must be >= 0.
	Commission decimal.Decimal
	Slippage   decimal.Decimal
	// RiskFreeRate is the annual risk-free rate for the Sharpe ratio.
	RiskFreeRate float64
	// PeriodsPerYear is the annualization factor. Must be > 0.
	PeriodsPerYear int
	// LogFormat is "text" or "json".
	LogFormat string
}

// Default returns the default configuration: $10,000 capital, cost-free,
// zero risk-free rate, daily (365) annualization.
func Default() *Config {
	return &Config{
		InitialCapital: decimal.NewFromInt(10000),
		Commission:     decimal.Zero,
		Slippage:       decimal.Zero,
		RiskFreeRate:   0,
		PeriodsPerYear: 365,
		LogFormat:      "text",
	}
}

// Load builds configuration from defaults overridden by environment
// variables, then validates it.
func Load() (*Config, error) {
	cfg := Default()

	if value := os.Getenv("QUANT_INITIAL_CAPITAL"); value != "" {
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("QUANT_INITIAL_CAPITAL: %w", err)
		}
		cfg.InitialCapital = parsed
	}
	if value := os.Getenv("QUANT_COMMISSION"); value != "" {
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("QUANT_COMMISSION: %w", err)
		}
		cfg.Commission = parsed
	}
	if value := os.Getenv("QUANT_SLIPPAGE"); value != "" {
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("QUANT_SLIPPAGE: %w", err)
		}
		cfg.Slippage = parsed
	}
	if value := os.Getenv("QUANT_RISK_FREE_RATE"); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("QUANT_RISK_FREE_RATE: %w", err)
		}
		cfg.RiskFreeRate = parsed
	}
	if value := os.Getenv("QUANT_PERIODS_PER_YEAR"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("QUANT_PERIODS_PER_YEAR: %w", err)
		}
		cfg.PeriodsPerYear = parsed
	}
	if value := os.Getenv("QUANT_LOG_FORMAT"); value != "" {
		cfg.LogFormat = value
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if !c.InitialCapital.GreaterThan(decimal.Zero) {
		return fmt.Errorf("initial capital must be positive, got %s", c.InitialCapital)
	}
	if c.Commission.IsNegative() {
		return fmt.Errorf("commission rate must be non-negative, got %s", c.Commission)
	}
	if c.Slippage.IsNegative() {
		return fmt.Errorf("slippage rate must be non-negative, got %s", c.Slippage)
	}
	if c.PeriodsPerYear <= 0 {
		return fmt.Errorf("periods per year must be positive, got %d", c.PeriodsPerYear)
	}
	return nil
}

// RunFile describes one backtest run, loadable from YAML.
type RunFile struct {
	Coin           string  `yaml:"coin"`
	Days           int     `yaml:"days"`
	InitialCapital float64 `yaml:"initial_capital"`
	Commission     float64 `yaml:"commission"`
	Slippage       float64 `yaml:"slippage"`
	FastWindow     int     `yaml:"fast_window"`
	SlowWindow     int     `yaml:"slow_window"`
}

// LoadRunFile parses a YAML run description.
func LoadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run file: %w", err)
	}
	var run RunFile
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parse run file: %w", err)
	}
	return &run, nil
}
