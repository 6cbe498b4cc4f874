// Package cli provides the command-line interface for the analysis application.
package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/olibyte/binance-analysis/internal/config"
	"github.com/olibyte/binance-analysis/internal/logging"
	"github.com/olibyte/binance-analysis/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-06-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	return newRootCmd(newApp(cfg, logger))
}

// newApp wires the application dependencies.
func newApp(cfg *config.Config, logger zerolog.Logger) *App {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize SQLite store
	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = filepath.Join(config.DefaultConfigDir(), "analysis.db")
	}
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, persistence unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", dbPath).Msg("SQLite store initialized")
	}

	return app
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "binalyze",
		Short: "Binance candle analysis - pattern and level detection CLI",
		Long: `Binalyze detects support/resistance levels, volume-confirmed level breaks
and candlestick patterns over OHLCV candle series.

Candles come from CSV files or the local database. Every detector emits
its output both as series columns and as row-level signals.

Use 'binalyze help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.Store != nil {
				return app.Store.Close()
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/binance-analysis)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newDataCmd(app))
	rootCmd.AddCommand(newSignalsCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Binalyze v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Analysis Configuration")
	output.Printf("  Pivot Bars:        %d left / %d right\n", cfg.Analysis.LeftBars, cfg.Analysis.RightBars)
	output.Printf("  Volume Threshold:  %.1f\n", cfg.Analysis.VolumeThreshold)
	output.Printf("  Volume Osc:        EMA %d / EMA %d\n", cfg.Analysis.VolFastPeriod, cfg.Analysis.VolSlowPeriod)
	output.Printf("  Round Precision:   %d\n", cfg.Analysis.RoundPrecision)
	output.Printf("  ATR Period:        %d\n", cfg.Analysis.ATRPeriod)
	output.Printf("  Envelope Lookback: %d\n", cfg.Analysis.EnvelopeLookback)
	output.Printf("  Volume MAs:        %d / %d (spike %.1fx)\n", cfg.Analysis.VolMAFastPeriod, cfg.Analysis.VolMASlowPeriod, cfg.Analysis.VolSpikeRatio)
	output.Printf("  Workers:           %d\n", cfg.Analysis.Workers)
	output.Println()

	output.Bold("Pattern Tolerances")
	output.Printf("  Three Candles Body: %.4f\n", cfg.Patterns.ThreeCandlesBody)
	output.Printf("  Quintuplets Body:   %.4f\n", cfg.Patterns.QuintupletsBody)
	output.Printf("  Tweezers Body:      %.4f\n", cfg.Patterns.TweezersBody)
	output.Printf("  Hammer Body/Wick:   %.4f / %.4f\n", cfg.Patterns.HammerBody, cfg.Patterns.HammerWick)
	output.Printf("  Spin Top Body/Wick: %.4f / %.4f\n", cfg.Patterns.SpinningTopBody, cfg.Patterns.SpinningTopWick)
	output.Printf("  Inside Body:        %.4f\n", cfg.Patterns.InsideBody)
	output.Printf("  Tower Body:         %.4f\n", cfg.Patterns.TowerBody)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:   %s\n", cfg.Logging.Level)
	output.Printf("  Console: %v\n", cfg.Logging.Console)
	output.Printf("  File:    %v\n", cfg.Logging.File)

	return nil
}
