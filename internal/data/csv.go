// Package data loads and saves candle series as CSV files.
package data

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "github.com/olibyte/binance-analysis/internal/errors"
	"github.com/olibyte/binance-analysis/internal/models"
)

// csvTime accepts unix seconds, unix milliseconds or RFC3339 timestamps.
// Exchange exports disagree on this, so we take all three.
type csvTime struct {
	time.Time
}

func (t *csvTime) UnmarshalCSV(field string) error {
	if n, err := strconv.ParseInt(field, 10, 64); err == nil {
		// Millisecond epochs passed 1e12 back in 2001; second epochs
		// will not reach it for centuries.
		if n >= 1e12 {
			t.Time = time.UnixMilli(n).UTC()
		} else {
			t.Time = time.Unix(n, 0).UTC()
		}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, field)
	if err != nil {
		return err
	}
	t.Time = parsed.UTC()
	return nil
}

func (t csvTime) MarshalCSV() (string, error) {
	return t.UTC().Format(time.RFC3339), nil
}

type csvCandle struct {
	Timestamp csvTime `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
}

// ReadCandles decodes candles from CSV. Only structural problems are
// reported here; value-level validation happens when a series is built.
func ReadCandles(r io.Reader) ([]models.Candle, error) {
	var rows []*csvCandle
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, apperrors.NewDataError("candles", "", "failed to parse CSV", err)
	}
	candles := make([]models.Candle, len(rows))
	for i, row := range rows {
		candles[i] = models.Candle{
			Timestamp: row.Timestamp.Time,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Volume:    row.Volume,
		}
	}
	return candles, nil
}

// LoadCandles reads candles from a CSV file on disk.
func LoadCandles(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataError("candles", "", "failed to open CSV file", err)
	}
	defer f.Close()
	return ReadCandles(f)
}

// WriteCandles encodes candles as CSV with a header row.
func WriteCandles(w io.Writer, candles []models.Candle) error {
	rows := make([]*csvCandle, len(candles))
	for i, c := range candles {
		rows[i] = &csvCandle{
			Timestamp: csvTime{c.Timestamp},
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return apperrors.NewDataError("candles", "", "failed to write CSV", err)
	}
	return nil
}

// SaveCandles writes candles to a CSV file, replacing any existing file.
func SaveCandles(path string, candles []models.Candle) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewDataError("candles", "", "failed to create CSV file", err)
	}
	defer f.Close()
	return WriteCandles(f, candles)
}
