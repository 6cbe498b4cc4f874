// Package store provides data persistence for candles and analysis output.
package store

import (
	"context"
	"time"

	"github.com/olibyte/binance-analysis/internal/models"
)

// DataStore is the persistence interface used by the CLI and pipeline.
type DataStore interface {
	// Candles
	SaveCandles(ctx context.Context, symbol, timeframe string, candles []models.Candle) error
	GetCandles(ctx context.Context, symbol, timeframe string, from, to time.Time) ([]models.Candle, error)
	GetCandlesFreshness(ctx context.Context, symbol, timeframe string) (time.Time, error)

	// Analysis runs
	SaveRun(ctx context.Context, run *models.AnalysisRun) error
	GetRuns(ctx context.Context, filter RunFilter) ([]models.AnalysisRun, error)

	// Signals
	SaveBreakSignals(ctx context.Context, runID string, signals []models.BreakSignal) error
	GetBreakSignals(ctx context.Context, filter SignalFilter) ([]models.BreakSignal, error)
	SavePatternSignals(ctx context.Context, runID string, signals []models.PatternSignal) error
	GetPatternSignals(ctx context.Context, filter SignalFilter) ([]models.PatternSignal, error)

	Close() error
}

// RunFilter filters analysis run queries.
type RunFilter struct {
	Symbol    string
	Timeframe string
	Limit     int
}

// SignalFilter filters signal queries. RunID narrows to one run; Pattern and
// Direction apply to pattern signals only.
type SignalFilter struct {
	RunID     string
	Symbol    string
	Pattern   string
	Direction string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
