// Package config loads and saves the pvmdash TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all pvmdash configuration.
type Config struct {
	Input      InputConfig      `toml:"input"`
	Scenario   ScenarioConfig   `toml:"scenario"`
	Forecast   ForecastConfig   `toml:"forecast"`
	Export     ExportConfig     `toml:"export"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// InputConfig locates the input table.
type InputConfig struct {
	Path  string `toml:"path,omitempty"`
	Sheet string `toml:"sheet,omitempty"` // xlsx only; first sheet when empty
	Table string `toml:"table,omitempty"` // sqlite only; "records" when empty
}

// ScenarioConfig holds the default what-if ratios (fractions, 0.05 = 5%)
// and the accepted range of each ratio.
type ScenarioConfig struct {
	RevenueGrowth       float64           `toml:"revenue_growth"`
	CostInflation       float64           `toml:"cost_inflation"`
	FXAdjustment        float64           `toml:"fx_adjustment"`
	HeadcountAdjustment float64           `toml:"headcount_adjustment"`
	Bounds              map[string]Bounds `toml:"bounds,omitempty"`
}

// ForecastConfig controls the trend forecaster.
type ForecastConfig struct {
	Periods  int    `toml:"periods"`
	TimeAxis string `toml:"time_axis"` // "month" or "day"
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	KPIs []string `toml:"kpis,omitempty"`
	Path string   `toml:"path,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Scenario: ScenarioConfig{
			RevenueGrowth: 0.05,
			CostInflation: 0.03,
		},
		Forecast: ForecastConfig{
			Periods:  3,
			TimeAxis: "month",
		},
		Export: ExportConfig{
			Path: "kpi_export.csv",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pvmdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pvmdash")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-controlled config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Forecast.Periods < 1 {
		cfg.Forecast.Periods = 3
	}

	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-controlled config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// DataPath returns the input path from the PVMDASH_DATA env var or config, in that order.
func DataPath(cfg Config) string {
	if p := os.Getenv("PVMDASH_DATA"); p != "" {
		return p
	}
	return cfg.Input.Path
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
