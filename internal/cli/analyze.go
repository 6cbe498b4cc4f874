package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/olibyte/binance-analysis/internal/analysis"
	"github.com/olibyte/binance-analysis/internal/data"
	apperrors "github.com/olibyte/binance-analysis/internal/errors"
	"github.com/olibyte/binance-analysis/internal/logging"
	"github.com/olibyte/binance-analysis/internal/models"
	"github.com/olibyte/binance-analysis/internal/pipeline"
	"github.com/olibyte/binance-analysis/pkg/utils"
)

// newAnalyzeCmd creates the analyze command.
func newAnalyzeCmd(app *App) *cobra.Command {
	var (
		csvPath   string
		symbol    string
		timeframe string
		fromStr   string
		toStr     string
		save      bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run level and pattern analysis over a candle series",
		Long: `Run the full analysis pipeline over candles from a CSV file or the
local database: pivot detection, level tracking, volume oscillator,
break detection, auxiliary indicators and the pattern catalog.`,
		Example: `  binalyze analyze --csv btcusdt-4h.csv
  binalyze analyze --symbol BTCUSDT --timeframe 4h --save
  binalyze analyze --csv data.csv --limit 50 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			candles, err := loadInput(cmd.Context(), app, csvPath, symbol, timeframe, fromStr, toStr)
			if err != nil {
				return err
			}

			logger := logging.FromContext(cmd.Context())
			if symbol != "" {
				logger = logging.WithSymbol(logger, symbol)
			}
			pipe, err := pipeline.New(*app.Config, logger)
			if err != nil {
				return err
			}

			startedAt := time.Now()
			result, err := pipe.Run(cmd.Context(), candles)
			if err != nil {
				return err
			}
			logging.LogRun(logger, symbol, result.Series.Len(), result.Elapsed)

			if save {
				if app.Store == nil {
					return fmt.Errorf("store unavailable, cannot save run")
				}
				if symbol == "" {
					symbol = "CSV"
				}
				run := &models.AnalysisRun{
					ID:        fmt.Sprintf("%s-%d", symbol, startedAt.UnixNano()),
					Symbol:    symbol,
					Timeframe: timeframe,
					Bars:      result.Series.Len(),
					StartedAt: startedAt,
					Duration:  result.Elapsed,
				}
				ctx := cmd.Context()
				if err := app.Store.SaveRun(ctx, run); err != nil {
					return err
				}
				if err := app.Store.SaveBreakSignals(ctx, run.ID, result.BreakSignals); err != nil {
					return err
				}
				if err := app.Store.SavePatternSignals(ctx, run.ID, result.PatternSignals); err != nil {
					return err
				}
				output.Dim("Run saved: %s", run.ID)
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"bars":             result.Series.Len(),
					"elapsed":          result.Elapsed.String(),
					"break_signals":    result.BreakSignals,
					"pattern_signals":  result.PatternSignals,
					"final_resistance": result.FinalResistance,
					"final_support":    result.FinalSupport,
				})
			}

			printSummary(output, result)
			printBreakSignals(output, result.BreakSignals, limit)
			printPatternSignals(output, result.PatternSignals, limit)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file with OHLCV candles")
	cmd.Flags().StringVar(&symbol, "symbol", "", "symbol to load from the database")
	cmd.Flags().StringVar(&timeframe, "timeframe", "4h", "timeframe of the candles")
	cmd.Flags().StringVar(&fromStr, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&save, "save", false, "persist the run and its signals")
	cmd.Flags().IntVar(&limit, "limit", 20, "max signals to display per table (0 = all)")

	return cmd
}

// loadInput loads candles from a CSV file or the store, favoring the file.
func loadInput(ctx context.Context, app *App, csvPath, symbol, timeframe, fromStr, toStr string) ([]models.Candle, error) {
	if csvPath != "" {
		return data.LoadCandles(csvPath)
	}
	if symbol == "" {
		return nil, fmt.Errorf("either --csv or --symbol is required")
	}
	if app.Store == nil {
		return nil, fmt.Errorf("store unavailable, cannot load %s", symbol)
	}

	from := time.Time{}
	to := time.Now()
	var err error
	if fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return nil, fmt.Errorf("invalid --from date: %w", err)
		}
	}
	if toStr != "" {
		if to, err = time.Parse("2006-01-02", toStr); err != nil {
			return nil, fmt.Errorf("invalid --to date: %w", err)
		}
	}
	candles, err := app.Store.GetCandles(ctx, symbol, timeframe, from, to)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, apperrors.NewDataError("candles", symbol, "nothing stored for timeframe "+timeframe, apperrors.ErrDataNotFound)
	}
	return candles, nil
}

func printSummary(output *Output, result *pipeline.Result) {
	s := result.Series

	output.Bold("Analysis Summary")
	output.Printf("  Bars:            %d\n", s.Len())
	output.Printf("  Elapsed:         %s\n", utils.FormatDuration(result.Elapsed))
	if volumes := s.Volume(); len(volumes) > 0 {
		var total float64
		for _, v := range volumes {
			total += v
		}
		output.Printf("  Avg Volume:      %s\n", utils.FormatVolume(total/float64(len(volumes))))
	}
	if pivotHighs, ok := s.Column(analysis.ColPivotHigh); ok {
		output.Printf("  Pivot Highs:     %d\n", pipeline.CountDefined(pivotHighs))
	}
	if pivotLows, ok := s.Column(analysis.ColPivotLow); ok {
		output.Printf("  Pivot Lows:      %d\n", pipeline.CountDefined(pivotLows))
	}
	if result.FinalResistance != nil {
		output.Printf("  Resistance:      %s (bar %d)\n", utils.FormatPrice(result.FinalResistance.Price, 4), result.FinalResistance.OriginIndex)
	}
	if result.FinalSupport != nil {
		output.Printf("  Support:         %s (bar %d)\n", utils.FormatPrice(result.FinalSupport.Price, 4), result.FinalSupport.OriginIndex)
	}
	output.Printf("  Break Signals:   %d\n", len(result.BreakSignals))
	output.Printf("  Pattern Signals: %d\n", len(result.PatternSignals))
	output.Println()
}

func printBreakSignals(output *Output, signals []models.BreakSignal, limit int) {
	if len(signals) == 0 {
		return
	}
	output.Bold("Level Breaks")
	table := NewTable(output, "TIME", "BAR", "KIND", "LEVEL", "CLOSE", "VOL OSC", "WICK")
	for i, sig := range signals {
		if limit > 0 && i >= limit {
			output.Dim("  ... %d more", len(signals)-limit)
			break
		}
		wick := ""
		if sig.Wick != models.WickNone {
			wick = string(sig.Wick)
		}
		table.AddRow(
			utils.FormatTimestamp(sig.Timestamp),
			fmt.Sprintf("%d", sig.Index),
			output.BreakTag(string(sig.Kind)),
			utils.FormatPrice(sig.Level, 4),
			utils.FormatPrice(sig.Close, 4),
			utils.FormatPercent(sig.VolumeOsc),
			wick,
		)
	}
	table.Render()
	output.Println()
}

func printPatternSignals(output *Output, signals []models.PatternSignal, limit int) {
	if len(signals) == 0 {
		return
	}
	output.Bold("Pattern Signals")
	table := NewTable(output, "TIME", "BAR", "PATTERN", "DIRECTION")
	for i, sig := range signals {
		if limit > 0 && i >= limit {
			output.Dim("  ... %d more", len(signals)-limit)
			break
		}
		table.AddRow(
			utils.FormatTimestamp(sig.Timestamp),
			fmt.Sprintf("%d", sig.Index),
			sig.Pattern,
			output.Direction(string(sig.Direction)),
		)
	}
	table.Render()
	output.Println()
}
