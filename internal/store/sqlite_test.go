package store

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/olibyte/binance-analysis/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testCandles(n int, base time.Time) []models.Candle {
	candles := make([]models.Candle, n)
	for i := range candles {
		price := 100 + float64(i)
		candles[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * 4 * time.Hour),
			Open:      price,
			High:      price + 2,
			Low:       price - 2,
			Close:     price + 1,
			Volume:    1000 + float64(i),
		}
	}
	return candles
}

func TestSQLiteStore_CandleRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := testCandles(10, base)

	if err := store.SaveCandles(ctx, "BTCUSDT", "4h", candles); err != nil {
		t.Fatalf("failed to save candles: %v", err)
	}

	retrieved, err := store.GetCandles(ctx, "BTCUSDT", "4h",
		base.Add(-time.Second), base.Add(100*time.Hour))
	if err != nil {
		t.Fatalf("failed to get candles: %v", err)
	}
	if len(retrieved) != len(candles) {
		t.Fatalf("retrieved %d candles, want %d", len(retrieved), len(candles))
	}
	for i := range candles {
		if !retrieved[i].Timestamp.Equal(candles[i].Timestamp) {
			t.Errorf("candle %d timestamp = %v, want %v", i, retrieved[i].Timestamp, candles[i].Timestamp)
		}
		if retrieved[i].Open != candles[i].Open || retrieved[i].Close != candles[i].Close ||
			retrieved[i].High != candles[i].High || retrieved[i].Low != candles[i].Low ||
			retrieved[i].Volume != candles[i].Volume {
			t.Errorf("candle %d = %+v, want %+v", i, retrieved[i], candles[i])
		}
	}
}

func TestSQLiteStore_CandleUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := testCandles(5, base)
	if err := store.SaveCandles(ctx, "BTCUSDT", "4h", candles); err != nil {
		t.Fatal(err)
	}

	// Re-saving the same bars with a revised close replaces rows.
	candles[2].Close = 999
	if err := store.SaveCandles(ctx, "BTCUSDT", "4h", candles); err != nil {
		t.Fatal(err)
	}

	retrieved, err := store.GetCandles(ctx, "BTCUSDT", "4h",
		base.Add(-time.Second), base.Add(100*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(retrieved) != 5 {
		t.Fatalf("retrieved %d candles after upsert, want 5", len(retrieved))
	}
	if retrieved[2].Close != 999 {
		t.Errorf("candle 2 close = %v, want 999", retrieved[2].Close)
	}
}

func TestSQLiteStore_CandlesFreshness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fresh, err := store.GetCandlesFreshness(ctx, "BTCUSDT", "4h")
	if err != nil {
		t.Fatal(err)
	}
	if !fresh.IsZero() {
		t.Errorf("freshness of empty table = %v, want zero time", fresh)
	}

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := testCandles(3, base)
	if err := store.SaveCandles(ctx, "BTCUSDT", "4h", candles); err != nil {
		t.Fatal(err)
	}

	fresh, err = store.GetCandlesFreshness(ctx, "BTCUSDT", "4h")
	if err != nil {
		t.Fatal(err)
	}
	if !fresh.Equal(candles[2].Timestamp) {
		t.Errorf("freshness = %v, want %v", fresh, candles[2].Timestamp)
	}
}

func TestSQLiteStore_RunsFilterAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	runs := []models.AnalysisRun{
		{ID: "BTCUSDT-1", Symbol: "BTCUSDT", Timeframe: "4h", Bars: 100, StartedAt: base, Duration: 120 * time.Millisecond},
		{ID: "ETHUSDT-1", Symbol: "ETHUSDT", Timeframe: "1h", Bars: 200, StartedAt: base.Add(time.Hour), Duration: 80 * time.Millisecond},
		{ID: "BTCUSDT-2", Symbol: "BTCUSDT", Timeframe: "4h", Bars: 150, StartedAt: base.Add(2 * time.Hour), Duration: 95 * time.Millisecond},
	}
	for i := range runs {
		if err := store.SaveRun(ctx, &runs[i]); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.GetRuns(ctx, RunFilter{Symbol: "BTCUSDT"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d runs, want 2", len(got))
	}
	if got[0].ID != "BTCUSDT-2" || got[1].ID != "BTCUSDT-1" {
		t.Errorf("runs not ordered most recent first: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Duration != 95*time.Millisecond {
		t.Errorf("duration = %v, want 95ms", got[0].Duration)
	}

	limited, err := store.GetRuns(ctx, RunFilter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != "BTCUSDT-2" {
		t.Errorf("limited runs = %+v, want only BTCUSDT-2", limited)
	}
}

func TestSQLiteStore_BreakSignalRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	run := models.AnalysisRun{ID: "BTCUSDT-1", Symbol: "BTCUSDT", Timeframe: "4h", Bars: 50, StartedAt: base}
	if err := store.SaveRun(ctx, &run); err != nil {
		t.Fatal(err)
	}

	signals := []models.BreakSignal{
		{Index: 20, Timestamp: base.Add(80 * time.Hour), Kind: models.BreakResistance, Level: 110, Close: 111, VolumeOsc: 51.7, Wick: models.WickNone},
		{Index: 33, Timestamp: base.Add(132 * time.Hour), Kind: models.BreakSupport, Level: 90, Close: 88, VolumeOsc: 25.3, Wick: models.WickBear},
	}
	if err := store.SaveBreakSignals(ctx, run.ID, signals); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetBreakSignals(ctx, SignalFilter{RunID: run.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d break signals, want 2", len(got))
	}
	if got[0].Index != 20 || got[0].Kind != models.BreakResistance || got[0].Level != 110 {
		t.Errorf("first signal = %+v", got[0])
	}
	if got[1].Wick != models.WickBear {
		t.Errorf("second signal wick = %v, want BEAR", got[1].Wick)
	}

	bySymbol, err := store.GetBreakSignals(ctx, SignalFilter{Symbol: "BTCUSDT"})
	if err != nil {
		t.Fatal(err)
	}
	if len(bySymbol) != 2 {
		t.Errorf("symbol filter returned %d signals, want 2", len(bySymbol))
	}

	none, err := store.GetBreakSignals(ctx, SignalFilter{Symbol: "ETHUSDT"})
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("unexpected signals for other symbol: %+v", none)
	}
}

func TestSQLiteStore_PatternSignalFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	run := models.AnalysisRun{ID: "BTCUSDT-1", Symbol: "BTCUSDT", Timeframe: "4h", Bars: 50, StartedAt: base}
	if err := store.SaveRun(ctx, &run); err != nil {
		t.Fatal(err)
	}

	signals := []models.PatternSignal{
		{Index: 5, Timestamp: base.Add(20 * time.Hour), Pattern: "engulfing", Direction: models.SignalBuy},
		{Index: 12, Timestamp: base.Add(48 * time.Hour), Pattern: "marubozu", Direction: models.SignalSell},
		{Index: 30, Timestamp: base.Add(120 * time.Hour), Pattern: "engulfing", Direction: models.SignalSell},
	}
	if err := store.SavePatternSignals(ctx, run.ID, signals); err != nil {
		t.Fatal(err)
	}

	engulfing, err := store.GetPatternSignals(ctx, SignalFilter{Pattern: "engulfing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(engulfing) != 2 {
		t.Fatalf("pattern filter returned %d signals, want 2", len(engulfing))
	}
	if engulfing[0].Index != 5 || engulfing[1].Index != 30 {
		t.Errorf("pattern signals not ordered by timestamp: %+v", engulfing)
	}

	sells, err := store.GetPatternSignals(ctx, SignalFilter{Direction: string(models.SignalSell)})
	if err != nil {
		t.Fatal(err)
	}
	if len(sells) != 2 {
		t.Errorf("direction filter returned %d signals, want 2", len(sells))
	}

	windowed, err := store.GetPatternSignals(ctx, SignalFilter{
		StartDate: base.Add(24 * time.Hour),
		EndDate:   base.Add(72 * time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(windowed) != 1 || windowed[0].Pattern != "marubozu" {
		t.Errorf("date window returned %+v, want only marubozu", windowed)
	}
}

// Property: for any valid candle batch, save then retrieve returns the same
// bars in timestamp order.
func TestProperty_CandleStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	var batch int

	properties.Property("candle batches round-trip through the store", prop.ForAll(
		func(count int, basePrice float64) bool {
			batch++
			symbol := "PROP-" + strconv.Itoa(batch)
			base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

			candles := make([]models.Candle, count)
			for i := range candles {
				price := basePrice + float64(i)
				candles[i] = models.Candle{
					Timestamp: base.Add(time.Duration(i) * time.Hour),
					Open:      price,
					High:      price + 1,
					Low:       price - 1,
					Close:     price + 0.5,
					Volume:    float64(100 + i),
				}
			}

			if err := store.SaveCandles(ctx, symbol, "1h", candles); err != nil {
				t.Logf("failed to save candles: %v", err)
				return false
			}
			retrieved, err := store.GetCandles(ctx, symbol, "1h",
				base.Add(-time.Second), base.Add(time.Duration(count+1)*time.Hour))
			if err != nil {
				t.Logf("failed to get candles: %v", err)
				return false
			}
			if len(retrieved) != count {
				return false
			}
			for i := range candles {
				if !retrieved[i].Timestamp.Equal(candles[i].Timestamp) ||
					retrieved[i].Close != candles[i].Close {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.Float64Range(100, 5000),
	))

	properties.TestingRun(t)
}
