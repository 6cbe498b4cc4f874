// Package config provides configuration management for the analysis application.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"

	apperrors "github.com/olibyte/binance-analysis/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Patterns PatternConfig  `mapstructure:"patterns"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
}

// AnalysisConfig holds detector configuration.
type AnalysisConfig struct {
	LeftBars         int     `mapstructure:"left_bars"`
	RightBars        int     `mapstructure:"right_bars"`
	VolumeThreshold  float64 `mapstructure:"volume_threshold"`
	VolFastPeriod    int     `mapstructure:"vol_fast_period"`
	VolSlowPeriod    int     `mapstructure:"vol_slow_period"`
	RoundPrecision   int     `mapstructure:"round_precision"`
	EnvelopeLookback int     `mapstructure:"envelope_lookback"`
	ATRPeriod        int     `mapstructure:"atr_period"`
	VolMAFastPeriod  int     `mapstructure:"vol_ma_fast_period"`
	VolMASlowPeriod  int     `mapstructure:"vol_ma_slow_period"`
	VolSpikeRatio    float64 `mapstructure:"vol_spike_ratio"`
	Workers          int     `mapstructure:"workers"`
}

// PatternConfig holds per-pattern numeric tolerances.
type PatternConfig struct {
	ThreeCandlesBody float64 `mapstructure:"three_candles_body"`
	QuintupletsBody  float64 `mapstructure:"quintuplets_body"`
	TweezersBody     float64 `mapstructure:"tweezers_body"`
	HammerBody       float64 `mapstructure:"hammer_body"`
	HammerWick       float64 `mapstructure:"hammer_wick"`
	SpinningTopBody  float64 `mapstructure:"spinning_top_body"`
	SpinningTopWick  float64 `mapstructure:"spinning_top_wick"`
	InsideBody       float64 `mapstructure:"inside_body"`
	TowerBody        float64 `mapstructure:"tower_body"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DatabaseConfig holds persistence configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/binance-analysis"
	}
	return filepath.Join(home, ".config", "binance-analysis")
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			LeftBars:         15,
			RightBars:        15,
			VolumeThreshold:  20,
			VolFastPeriod:    5,
			VolSlowPeriod:    10,
			RoundPrecision:   4,
			EnvelopeLookback: 800,
			ATRPeriod:        14,
			VolMAFastPeriod:  20,
			VolMASlowPeriod:  50,
			VolSpikeRatio:    1.5,
			Workers:          4,
		},
		Patterns: PatternConfig{
			ThreeCandlesBody: 0.0005,
			QuintupletsBody:  0.0003,
			TweezersBody:     0.0003,
			HammerBody:       0.0003,
			HammerWick:       0.0005,
			SpinningTopBody:  0.0003,
			SpinningTopWick:  0.0003,
			InsideBody:       0.0003,
			TowerBody:        0.0003,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Console:    true,
			File:       false,
			FilePath:   filepath.Join(DefaultConfigDir(), "logs", "analysis.log"),
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(DefaultConfigDir(), "analysis.db"),
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing config
// file yields the defaults; a present but unreadable file is an error.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperrors.Wrap(err, "loading config.toml")
		}
	} else if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrap(err, "parsing config.toml")
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BINANCE_ANALYSIS_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("BINANCE_ANALYSIS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BINANCE_ANALYSIS_LEFT_BARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.LeftBars = n
		}
	}
	if v := os.Getenv("BINANCE_ANALYSIS_RIGHT_BARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.RightBars = n
		}
	}
}

// Validate validates the configuration. Invalid values are rejected here,
// before any detector is constructed.
func (c *Config) Validate() error {
	a := c.Analysis
	if a.LeftBars <= 0 {
		return apperrors.NewConfigError("analysis.left_bars", a.LeftBars, "must be positive")
	}
	if a.RightBars <= 0 {
		return apperrors.NewConfigError("analysis.right_bars", a.RightBars, "must be positive")
	}
	if a.VolFastPeriod <= 0 {
		return apperrors.NewConfigError("analysis.vol_fast_period", a.VolFastPeriod, "must be positive")
	}
	if a.VolSlowPeriod <= 0 {
		return apperrors.NewConfigError("analysis.vol_slow_period", a.VolSlowPeriod, "must be positive")
	}
	if a.VolFastPeriod >= a.VolSlowPeriod {
		return apperrors.NewConfigError("analysis.vol_fast_period", a.VolFastPeriod, "must be less than vol_slow_period")
	}
	if a.RoundPrecision < 0 {
		return apperrors.NewConfigError("analysis.round_precision", a.RoundPrecision, "must be non-negative")
	}
	if a.EnvelopeLookback <= 0 {
		return apperrors.NewConfigError("analysis.envelope_lookback", a.EnvelopeLookback, "must be positive")
	}
	if a.ATRPeriod <= 0 {
		return apperrors.NewConfigError("analysis.atr_period", a.ATRPeriod, "must be positive")
	}
	if a.VolMAFastPeriod <= 0 || a.VolMASlowPeriod <= 0 {
		return apperrors.NewConfigError("analysis.vol_ma_period", a.VolMAFastPeriod, "must be positive")
	}
	if a.VolSpikeRatio <= 0 {
		return apperrors.NewConfigError("analysis.vol_spike_ratio", a.VolSpikeRatio, "must be positive")
	}

	p := c.Patterns
	tolerances := map[string]float64{
		"patterns.three_candles_body": p.ThreeCandlesBody,
		"patterns.quintuplets_body":   p.QuintupletsBody,
		"patterns.tweezers_body":      p.TweezersBody,
		"patterns.hammer_body":        p.HammerBody,
		"patterns.hammer_wick":        p.HammerWick,
		"patterns.spinning_top_body":  p.SpinningTopBody,
		"patterns.spinning_top_wick":  p.SpinningTopWick,
		"patterns.inside_body":        p.InsideBody,
		"patterns.tower_body":         p.TowerBody,
	}
	for field, val := range tolerances {
		if val <= 0 {
			return apperrors.NewConfigError(field, val, "must be positive")
		}
	}

	return nil
}
