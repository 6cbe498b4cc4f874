package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/olibyte/binance-analysis/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Candles table for historical OHLCV data
	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, timeframe, timestamp)
	);

	-- Analysis runs table
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		bars INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ns INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Level break signals table
	CREATE TABLE IF NOT EXISTS break_signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		bar_index INTEGER NOT NULL,
		timestamp DATETIME NOT NULL,
		kind TEXT NOT NULL,
		level REAL NOT NULL,
		close REAL NOT NULL,
		volume_osc REAL NOT NULL,
		wick TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	-- Pattern signals table
	CREATE TABLE IF NOT EXISTS pattern_signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		bar_index INTEGER NOT NULL,
		timestamp DATETIME NOT NULL,
		pattern TEXT NOT NULL,
		direction TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_candles_symbol_timeframe ON candles(symbol, timeframe);
	CREATE INDEX IF NOT EXISTS idx_candles_timestamp ON candles(timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_symbol ON runs(symbol);
	CREATE INDEX IF NOT EXISTS idx_break_signals_run ON break_signals(run_id);
	CREATE INDEX IF NOT EXISTS idx_break_signals_timestamp ON break_signals(timestamp);
	CREATE INDEX IF NOT EXISTS idx_pattern_signals_run ON pattern_signals(run_id);
	CREATE INDEX IF NOT EXISTS idx_pattern_signals_pattern ON pattern_signals(pattern);
	CREATE INDEX IF NOT EXISTS idx_pattern_signals_timestamp ON pattern_signals(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Candles Methods
// ============================================================================

// SaveCandles saves candles to the database.
func (s *SQLiteStore) SaveCandles(ctx context.Context, symbol, timeframe string, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO candles (symbol, timeframe, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		_, err := stmt.ExecContext(ctx, symbol, timeframe, c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume)
		if err != nil {
			return fmt.Errorf("failed to insert candle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCandles retrieves candles from the database ordered by timestamp.
func (s *SQLiteStore) GetCandles(ctx context.Context, symbol, timeframe string, from, to time.Time) ([]models.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND timeframe = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, symbol, timeframe, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candles: %w", err)
	}

	return candles, nil
}

// GetCandlesFreshness returns the timestamp of the most recent candle.
func (s *SQLiteStore) GetCandlesFreshness(ctx context.Context, symbol, timeframe string) (time.Time, error) {
	var timestamp sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(timestamp) FROM candles WHERE symbol = ? AND timeframe = ?
	`, symbol, timeframe).Scan(&timestamp)
	if err != nil && err != sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("failed to get candles freshness: %w", err)
	}
	if !timestamp.Valid {
		return time.Time{}, nil
	}
	return timestamp.Time, nil
}

// ============================================================================
// Runs Methods
// ============================================================================

// SaveRun records an analysis run.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *models.AnalysisRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, symbol, timeframe, bars, started_at, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Symbol, run.Timeframe, run.Bars, run.StartedAt, run.Duration.Nanoseconds())
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRuns retrieves analysis runs, most recent first.
func (s *SQLiteStore) GetRuns(ctx context.Context, filter RunFilter) ([]models.AnalysisRun, error) {
	query := "SELECT id, symbol, timeframe, bars, started_at, duration_ns FROM runs WHERE 1=1"
	args := []interface{}{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Timeframe != "" {
		query += " AND timeframe = ?"
		args = append(args, filter.Timeframe)
	}

	query += " ORDER BY started_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.AnalysisRun
	for rows.Next() {
		var r models.AnalysisRun
		var durationNs int64
		if err := rows.Scan(&r.ID, &r.Symbol, &r.Timeframe, &r.Bars, &r.StartedAt, &durationNs); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Duration = time.Duration(durationNs)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// ============================================================================
// Signals Methods
// ============================================================================

// SaveBreakSignals saves the break signals of one run.
func (s *SQLiteStore) SaveBreakSignals(ctx context.Context, runID string, signals []models.BreakSignal) error {
	if len(signals) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO break_signals (run_id, bar_index, timestamp, kind, level, close, volume_osc, wick)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, sig := range signals {
		_, err := stmt.ExecContext(ctx, runID, sig.Index, sig.Timestamp, string(sig.Kind), sig.Level, sig.Close, sig.VolumeOsc, string(sig.Wick))
		if err != nil {
			return fmt.Errorf("failed to insert break signal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBreakSignals retrieves break signals matching the filter.
func (s *SQLiteStore) GetBreakSignals(ctx context.Context, filter SignalFilter) ([]models.BreakSignal, error) {
	query := `
		SELECT b.bar_index, b.timestamp, b.kind, b.level, b.close, b.volume_osc, b.wick
		FROM break_signals b
		JOIN runs r ON r.id = b.run_id
		WHERE 1=1`
	args := []interface{}{}

	if filter.RunID != "" {
		query += " AND b.run_id = ?"
		args = append(args, filter.RunID)
	}
	if filter.Symbol != "" {
		query += " AND r.symbol = ?"
		args = append(args, filter.Symbol)
	}
	if !filter.StartDate.IsZero() {
		query += " AND b.timestamp >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND b.timestamp <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY b.timestamp ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query break signals: %w", err)
	}
	defer rows.Close()

	var signals []models.BreakSignal
	for rows.Next() {
		var sig models.BreakSignal
		var kind, wick string
		if err := rows.Scan(&sig.Index, &sig.Timestamp, &kind, &sig.Level, &sig.Close, &sig.VolumeOsc, &wick); err != nil {
			return nil, fmt.Errorf("failed to scan break signal: %w", err)
		}
		sig.Kind = models.BreakKind(kind)
		sig.Wick = models.WickKind(wick)
		signals = append(signals, sig)
	}

	return signals, rows.Err()
}

// SavePatternSignals saves the pattern signals of one run.
func (s *SQLiteStore) SavePatternSignals(ctx context.Context, runID string, signals []models.PatternSignal) error {
	if len(signals) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pattern_signals (run_id, bar_index, timestamp, pattern, direction)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, sig := range signals {
		_, err := stmt.ExecContext(ctx, runID, sig.Index, sig.Timestamp, sig.Pattern, string(sig.Direction))
		if err != nil {
			return fmt.Errorf("failed to insert pattern signal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetPatternSignals retrieves pattern signals matching the filter.
func (s *SQLiteStore) GetPatternSignals(ctx context.Context, filter SignalFilter) ([]models.PatternSignal, error) {
	query := `
		SELECT p.bar_index, p.timestamp, p.pattern, p.direction
		FROM pattern_signals p
		JOIN runs r ON r.id = p.run_id
		WHERE 1=1`
	args := []interface{}{}

	if filter.RunID != "" {
		query += " AND p.run_id = ?"
		args = append(args, filter.RunID)
	}
	if filter.Symbol != "" {
		query += " AND r.symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Pattern != "" {
		query += " AND p.pattern = ?"
		args = append(args, filter.Pattern)
	}
	if filter.Direction != "" {
		query += " AND p.direction = ?"
		args = append(args, filter.Direction)
	}
	if !filter.StartDate.IsZero() {
		query += " AND p.timestamp >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND p.timestamp <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY p.timestamp ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern signals: %w", err)
	}
	defer rows.Close()

	var signals []models.PatternSignal
	for rows.Next() {
		var sig models.PatternSignal
		var direction string
		if err := rows.Scan(&sig.Index, &sig.Timestamp, &sig.Pattern, &direction); err != nil {
			return nil, fmt.Errorf("failed to scan pattern signal: %w", err)
		}
		sig.Direction = models.SignalDirection(direction)
		signals = append(signals, sig)
	}

	return signals, rows.Err()
}
