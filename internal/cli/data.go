package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/olibyte/binance-analysis/internal/data"
	apperrors "github.com/olibyte/binance-analysis/internal/errors"
	"github.com/olibyte/binance-analysis/internal/series"
	"github.com/olibyte/binance-analysis/pkg/utils"
)

// newDataCmd creates the data command group.
func newDataCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Candle data management",
		Long:  "Import, export and inspect candle data in the local database.",
	}

	cmd.AddCommand(newDataImportCmd(app))
	cmd.AddCommand(newDataExportCmd(app))
	cmd.AddCommand(newDataStatusCmd(app))

	return cmd
}

func newDataImportCmd(app *App) *cobra.Command {
	var (
		symbol    string
		timeframe string
	)

	cmd := &cobra.Command{
		Use:   "import <csv-file>",
		Short: "Import candles from a CSV file",
		Long: `Import candles from a CSV file into the local database. The file is
validated as a series first, so malformed bars are rejected before
anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			candles, err := data.LoadCandles(args[0])
			if err != nil {
				return err
			}
			if _, err := series.New(candles); err != nil {
				return err
			}

			if err := app.Store.SaveCandles(cmd.Context(), symbol, timeframe, candles); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":    symbol,
					"timeframe": timeframe,
					"imported":  len(candles),
				})
			}
			output.Success("✓ Imported %d candles for %s %s", len(candles), symbol, timeframe)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "symbol to store the candles under")
	cmd.Flags().StringVar(&timeframe, "timeframe", "4h", "timeframe of the candles")
	cmd.MarkFlagRequired("symbol")

	return cmd
}

func newDataExportCmd(app *App) *cobra.Command {
	var (
		symbol    string
		timeframe string
		out       string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export candles to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			candles, err := app.Store.GetCandles(cmd.Context(), symbol, timeframe, time.Time{}, time.Now())
			if err != nil {
				return err
			}
			if len(candles) == 0 {
				return apperrors.NewDataError("candles", symbol, "nothing stored for timeframe "+timeframe, apperrors.ErrDataNotFound)
			}

			if err := data.SaveCandles(out, candles); err != nil {
				return err
			}

			output.Success("✓ Exported %d candles to %s", len(candles), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "symbol to export")
	cmd.Flags().StringVar(&timeframe, "timeframe", "4h", "timeframe of the candles")
	cmd.Flags().StringVar(&out, "out", "candles.csv", "output CSV file")
	cmd.MarkFlagRequired("symbol")

	return cmd
}

func newDataStatusCmd(app *App) *cobra.Command {
	var (
		symbol    string
		timeframe string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show data freshness for a symbol",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			latest, err := app.Store.GetCandlesFreshness(cmd.Context(), symbol, timeframe)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":    symbol,
					"timeframe": timeframe,
					"latest":    latest,
				})
			}
			if latest.IsZero() {
				output.Warning("No candles stored for %s %s", symbol, timeframe)
				return nil
			}
			output.Printf("%s %s latest candle: %s\n", symbol, timeframe, utils.FormatTimestamp(latest))
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "symbol to inspect")
	cmd.Flags().StringVar(&timeframe, "timeframe", "4h", "timeframe of the candles")
	cmd.MarkFlagRequired("symbol")

	return cmd
}
