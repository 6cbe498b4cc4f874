package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olibyte/binance-analysis/internal/store"
	"github.com/olibyte/binance-analysis/pkg/utils"
)

// newSignalsCmd creates the signals command group.
func newSignalsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signals",
		Short: "Query persisted analysis signals",
		Long:  "Query break and pattern signals from saved analysis runs.",
	}

	cmd.AddCommand(newSignalsRunsCmd(app))
	cmd.AddCommand(newSignalsBreaksCmd(app))
	cmd.AddCommand(newSignalsPatternsCmd(app))

	return cmd
}

func newSignalsRunsCmd(app *App) *cobra.Command {
	var (
		symbol string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List saved analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			runs, err := app.Store.GetRuns(cmd.Context(), store.RunFilter{
				Symbol: symbol,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(runs)
			}
			if len(runs) == 0 {
				output.Warning("No runs found")
				return nil
			}

			table := NewTable(output, "ID", "SYMBOL", "TIMEFRAME", "BARS", "STARTED", "DURATION")
			for _, r := range runs {
				table.AddRow(
					r.ID,
					r.Symbol,
					r.Timeframe,
					fmt.Sprintf("%d", r.Bars),
					utils.FormatTimestamp(r.StartedAt),
					utils.FormatDuration(r.Duration),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	cmd.Flags().IntVar(&limit, "limit", 20, "max runs to list")

	return cmd
}

func newSignalsBreaksCmd(app *App) *cobra.Command {
	var (
		runID  string
		symbol string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "breaks",
		Short: "List persisted level break signals",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			signals, err := app.Store.GetBreakSignals(cmd.Context(), store.SignalFilter{
				RunID:  runID,
				Symbol: symbol,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(signals)
			}
			if len(signals) == 0 {
				output.Warning("No break signals found")
				return nil
			}
			printBreakSignals(output, signals, 0)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "filter by run ID")
	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	cmd.Flags().IntVar(&limit, "limit", 50, "max signals to list")

	return cmd
}

func newSignalsPatternsCmd(app *App) *cobra.Command {
	var (
		runID     string
		symbol    string
		pattern   string
		direction string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List persisted pattern signals",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			signals, err := app.Store.GetPatternSignals(cmd.Context(), store.SignalFilter{
				RunID:     runID,
				Symbol:    symbol,
				Pattern:   pattern,
				Direction: direction,
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(signals)
			}
			if len(signals) == 0 {
				output.Warning("No pattern signals found")
				return nil
			}
			printPatternSignals(output, signals, 0)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "filter by run ID")
	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	cmd.Flags().StringVar(&pattern, "pattern", "", "filter by pattern name")
	cmd.Flags().StringVar(&direction, "direction", "", "filter by direction (BUY or SELL)")
	cmd.Flags().IntVar(&limit, "limit", 50, "max signals to list")

	return cmd
}
