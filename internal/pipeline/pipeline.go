// Package pipeline runs the full analysis sequence over a candle series:
// pivots, levels, volume oscillator, break detection, auxiliary indicators
// and the pattern catalog. The pipeline is deterministic; running it twice
// over the same candles yields identical output.
package pipeline

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/olibyte/binance-analysis/internal/analysis"
	"github.com/olibyte/binance-analysis/internal/analysis/indicators"
	"github.com/olibyte/binance-analysis/internal/analysis/levels"
	"github.com/olibyte/binance-analysis/internal/analysis/patterns"
	"github.com/olibyte/binance-analysis/internal/config"
	"github.com/olibyte/binance-analysis/internal/logging"
	"github.com/olibyte/binance-analysis/internal/models"
	"github.com/olibyte/binance-analysis/internal/series"
)

// Pipeline wires the analysis stages together under one configuration.
type Pipeline struct {
	cfg     config.AnalysisConfig
	tol     patterns.Tolerances
	scanner *indicators.PivotScanner
	osc     *indicators.VolumeOscillator
	breaks  *levels.BreakDetector
	engine  *patterns.Engine
	logger  zerolog.Logger
}

// Result is the output of one pipeline run. Series carries every derived
// column; the signal slices are the row-level view of the same columns.
type Result struct {
	Series          *series.Series
	PatternSignals  []models.PatternSignal
	BreakSignals    []models.BreakSignal
	FinalResistance *analysis.Level
	FinalSupport    *analysis.Level
	Elapsed         time.Duration
}

// New builds a pipeline from configuration. Every stage validates its own
// parameters, so a bad config surfaces here rather than mid-run.
func New(cfg config.Config, logger zerolog.Logger) (*Pipeline, error) {
	scanner, err := indicators.NewPivotScanner(cfg.Analysis.LeftBars, cfg.Analysis.RightBars)
	if err != nil {
		return nil, err
	}
	osc, err := indicators.NewVolumeOscillator(cfg.Analysis.VolFastPeriod, cfg.Analysis.VolSlowPeriod)
	if err != nil {
		return nil, err
	}
	breaks, err := levels.NewBreakDetector(cfg.Analysis.VolumeThreshold)
	if err != nil {
		return nil, err
	}
	tol := patterns.Tolerances{
		ThreeCandlesBody: cfg.Patterns.ThreeCandlesBody,
		QuintupletsBody:  cfg.Patterns.QuintupletsBody,
		TweezersBody:     cfg.Patterns.TweezersBody,
		HammerBody:       cfg.Patterns.HammerBody,
		HammerWick:       cfg.Patterns.HammerWick,
		SpinningTopBody:  cfg.Patterns.SpinningTopBody,
		SpinningTopWick:  cfg.Patterns.SpinningTopWick,
		InsideBody:       cfg.Patterns.InsideBody,
		TowerBody:        cfg.Patterns.TowerBody,
	}
	engine, err := patterns.NewEngine(tol, cfg.Analysis.Workers)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:     cfg.Analysis,
		tol:     tol,
		scanner: scanner,
		osc:     osc,
		breaks:  breaks,
		engine:  engine,
		logger:  logging.WithComponent(logger, "pipeline"),
	}, nil
}

// Run executes every stage over the given candles. Malformed input fails
// fast in series.New; short series run cleanly and simply carry NaN columns.
func (p *Pipeline) Run(ctx context.Context, candles []models.Candle) (*Result, error) {
	start := time.Now()

	s, err := series.New(candles)
	if err != nil {
		return nil, err
	}
	rounded := s.Round(p.cfg.RoundPrecision)

	pivotHighs, pivotLows := p.scanner.Scan(s.High(), s.Low())
	if err := s.AddColumn(analysis.ColPivotHigh, pivotHighs); err != nil {
		return nil, err
	}
	if err := s.AddColumn(analysis.ColPivotLow, pivotLows); err != nil {
		return nil, err
	}

	tracked := levels.NewTracker().Track(pivotHighs, pivotLows)
	if err := s.AddColumn(analysis.ColResistanceLevel, tracked.Resistance); err != nil {
		return nil, err
	}
	if err := s.AddColumn(analysis.ColSupportLevel, tracked.Support); err != nil {
		return nil, err
	}

	volumeOsc := p.osc.Calculate(s.Volume())
	if err := s.AddColumn(analysis.ColVolumeOsc, volumeOsc); err != nil {
		return nil, err
	}

	breakSet := p.breaks.Detect(
		s.Open(), s.High(), s.Low(), s.Close(),
		tracked.Resistance, tracked.Support, volumeOsc,
	)
	breakCols := map[string][]float64{
		analysis.ColResistanceBreak: breakSet.ResistanceBreak,
		analysis.ColSupportBreak:    breakSet.SupportBreak,
		analysis.ColBullWickBreak:   breakSet.BullWickBreak,
		analysis.ColBearWickBreak:   breakSet.BearWickBreak,
	}
	for name, col := range breakCols {
		if err := s.AddColumn(name, col); err != nil {
			return nil, err
		}
	}

	atr := indicators.CalculateATR(s.High(), s.Low(), s.Close(), p.cfg.ATRPeriod)
	if err := s.AddColumn(analysis.ColATR, atr); err != nil {
		return nil, err
	}
	upper, lower := indicators.CalculateEnvelopes(s.High(), s.Low(), p.cfg.EnvelopeLookback)
	if err := s.AddColumn(analysis.ColUpperEnvelope, upper); err != nil {
		return nil, err
	}
	if err := s.AddColumn(analysis.ColLowerEnvelope, lower); err != nil {
		return nil, err
	}
	maFast, maSlow, spike := indicators.VolumeMAs(
		s.Volume(), p.cfg.VolMAFastPeriod, p.cfg.VolMASlowPeriod, p.cfg.VolSpikeRatio,
	)
	if err := s.AddColumn(analysis.ColVolMAFast, maFast); err != nil {
		return nil, err
	}
	if err := s.AddColumn(analysis.ColVolMASlow, maSlow); err != nil {
		return nil, err
	}
	if err := s.AddColumn(analysis.ColVolSpike, spike); err != nil {
		return nil, err
	}
	haOpen, haHigh, haLow, haClose := indicators.HeikinAshi(s.Bars())
	haCols := map[string][]float64{
		analysis.ColHAOpen:  haOpen,
		analysis.ColHAHigh:  haHigh,
		analysis.ColHALow:   haLow,
		analysis.ColHAClose: haClose,
	}
	for name, col := range haCols {
		if err := s.AddColumn(name, col); err != nil {
			return nil, err
		}
	}

	patternCols, err := p.engine.Run(ctx, patterns.Inputs{
		Raw: patterns.Columns{
			Open:  s.Open(),
			High:  s.High(),
			Low:   s.Low(),
			Close: s.Close(),
		},
		Rounded: patterns.Columns{
			Open:  rounded.Open(),
			High:  rounded.High(),
			Low:   rounded.Low(),
			Close: rounded.Close(),
		},
		ATR: atr,
	})
	if err != nil {
		return nil, err
	}
	for name, col := range patternCols {
		if err := s.AddColumn(name, col); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Series:          s,
		PatternSignals:  collectPatternSignals(s, p.engine.Rules(), patternCols),
		BreakSignals:    collectBreakSignals(s, tracked, breakSet, volumeOsc),
		FinalResistance: tracked.FinalResistance,
		FinalSupport:    tracked.FinalSupport,
		Elapsed:         time.Since(start),
	}

	for _, sig := range result.BreakSignals {
		logging.LogBreak(p.logger, sig.Index, string(sig.Kind), sig.Level, sig.Close, sig.VolumeOsc)
	}
	for _, sig := range result.PatternSignals {
		logging.LogPattern(p.logger, sig.Index, sig.Pattern, string(sig.Direction))
	}
	p.logger.Info().
		Int("bars", s.Len()).
		Int("pattern_signals", len(result.PatternSignals)).
		Int("break_signals", len(result.BreakSignals)).
		Dur("elapsed", result.Elapsed).
		Msg("analysis complete")
	return result, nil
}

// collectPatternSignals flattens the pattern columns into per-row signals,
// ordered by bar index and then pattern name.
func collectPatternSignals(s *series.Series, rules []patterns.Rule, cols map[string][]float64) []models.PatternSignal {
	var out []models.PatternSignal
	for _, rule := range rules {
		for i, v := range cols[rule.BuyColumn()] {
			if v == 1 {
				out = append(out, models.PatternSignal{
					Index:     i,
					Timestamp: s.Bar(i).Timestamp,
					Pattern:   rule.Name,
					Direction: models.SignalBuy,
				})
			}
		}
		for i, v := range cols[rule.SellColumn()] {
			if v == 1 {
				out = append(out, models.PatternSignal{
					Index:     i,
					Timestamp: s.Bar(i).Timestamp,
					Pattern:   rule.Name,
					Direction: models.SignalSell,
				})
			}
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Index != out[b].Index {
			return out[a].Index < out[b].Index
		}
		if out[a].Pattern != out[b].Pattern {
			return out[a].Pattern < out[b].Pattern
		}
		return out[a].Direction < out[b].Direction
	})
	return out
}

// collectBreakSignals turns the break flag columns into signals. The level
// reported is the one the bar actually crossed, taken from the previous row.
func collectBreakSignals(s *series.Series, tracked *levels.TrackResult, set *levels.BreakSet, volumeOsc []float64) []models.BreakSignal {
	var out []models.BreakSignal
	for i := range set.ResistanceBreak {
		switch {
		case set.ResistanceBreak[i] == 1:
			wick := models.WickNone
			if set.BullWickBreak[i] == 1 {
				wick = models.WickBull
			}
			out = append(out, models.BreakSignal{
				Index:     i,
				Timestamp: s.Bar(i).Timestamp,
				Kind:      models.BreakResistance,
				Level:     tracked.Resistance[i-1],
				Close:     s.Close()[i],
				VolumeOsc: volumeOsc[i],
				Wick:      wick,
			})
		case set.SupportBreak[i] == 1:
			wick := models.WickNone
			if set.BearWickBreak[i] == 1 {
				wick = models.WickBear
			}
			out = append(out, models.BreakSignal{
				Index:     i,
				Timestamp: s.Bar(i).Timestamp,
				Kind:      models.BreakSupport,
				Level:     tracked.Support[i-1],
				Close:     s.Close()[i],
				VolumeOsc: volumeOsc[i],
				Wick:      wick,
			})
		}
	}
	return out
}

// CountDefined reports how many values in a column are not NaN. Handy for
// summarizing warm-up behaviour in run output.
func CountDefined(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}
