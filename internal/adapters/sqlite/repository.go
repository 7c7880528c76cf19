package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"zoneFlipBot/internal/domain"
	"zoneFlipBot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.KlineRepository and ports.BacktestRepository
// interfaces using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/zone_flip.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally, but the Go driver benefits from limiting connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS klines (
		symbol TEXT NOT NULL,
		interval TEXT NOT NULL,
		open_time TIMESTAMP NOT NULL,
		close_time TIMESTAMP NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume REAL NOT NULL,
		PRIMARY KEY (symbol, interval, open_time)
	);

	CREATE TABLE IF NOT EXISTS backtest_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		interval TEXT NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NOT NULL,
		label TEXT NOT NULL,
		trade_count INTEGER NOT NULL,
		net_pnl_pct REAL NOT NULL,
		win_rate_pct REAL NOT NULL,
		max_drawdown_pct REAL NOT NULL,
		sharpe_ratio REAL NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS backtest_trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL NOT NULL,
		entry_time TIMESTAMP NOT NULL,
		exit_time TIMESTAMP NOT NULL,
		duration_hours REAL NOT NULL,
		leverage REAL NOT NULL,
		gross_pnl_pct REAL NOT NULL,
		net_pnl_pct REAL NOT NULL,
		fee_pct REAL NOT NULL,
		slippage_pct REAL NOT NULL,
		funding_pct REAL NOT NULL,
		close_reason TEXT NOT NULL
	);
	-- Add indexes for common lookups
	CREATE INDEX IF NOT EXISTS idx_klines_symbol_interval_time ON klines (symbol, interval, open_time);
	CREATE INDEX IF NOT EXISTS idx_backtest_trades_run ON backtest_trades (run_id, entry_time);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// --- KlineRepository Implementation ---

// SaveKlines upserts a batch of klines into the cache inside one transaction.
func (r *Repository) SaveKlines(ctx context.Context, klines []*domain.Kline) error {
	if len(klines) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin kline insert transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
	INSERT OR REPLACE INTO klines (symbol, interval, open_time, close_time, open, high, low, close, volume)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare kline insert: %w", err)
	}
	defer stmt.Close()

	for _, k := range klines {
		if _, err := stmt.ExecContext(ctx,
			k.Symbol, k.Interval, k.OpenTime, k.CloseTime, k.Open, k.High, k.Low, k.Close, k.Volume); err != nil {
			return fmt.Errorf("failed to insert kline for %s at %s: %w", k.Symbol, k.OpenTime, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit kline insert transaction: %w", err)
	}
	r.logger.Debug(ctx, "Klines cached", map[string]interface{}{"count": len(klines)})
	return nil
}

// FindRange retrieves cached klines ordered ascending by open time.
func (r *Repository) FindRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]*domain.Kline, error) {
	const query = `
	SELECT symbol, interval, open_time, close_time, open, high, low, close, volume
	FROM klines
	WHERE symbol = ? AND interval = ? AND open_time >= ? AND open_time <= ?
	ORDER BY open_time ASC`

	rows, err := r.db.QueryContext(ctx, query, symbol, interval, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query klines for %s %s: %w", symbol, interval, err)
	}
	defer rows.Close()

	klines := make([]*domain.Kline, 0)
	for rows.Next() {
		k := &domain.Kline{IsFinal: true}
		if err := rows.Scan(&k.Symbol, &k.Interval, &k.OpenTime, &k.CloseTime,
			&k.Open, &k.High, &k.Low, &k.Close, &k.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan kline during FindRange: %w", err)
		}
		klines = append(klines, k)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kline rows: %w", err)
	}
	return klines, nil
}

// Count returns the number of cached klines for a symbol/interval.
func (r *Repository) Count(ctx context.Context, symbol, interval string) (int, error) {
	const query = `SELECT COUNT(*) FROM klines WHERE symbol = ? AND interval = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, symbol, interval).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count klines for %s %s: %w", symbol, interval, err)
	}
	return count, nil
}

// --- BacktestRepository Implementation ---

// CreateRun saves a run record and returns its assigned ID.
func (r *Repository) CreateRun(ctx context.Context, run *ports.BacktestRun) (int64, error) {
	const query = `
	INSERT INTO backtest_runs (symbol, interval, start_time, end_time, label, trade_count,
	                           net_pnl_pct, win_rate_pct, max_drawdown_pct, sharpe_ratio, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query,
		run.Symbol, run.Interval, run.StartTime, run.EndTime, run.Label, run.TradeCount,
		run.NetPnlPct, run.WinRatePct, run.MaxDrawdownPct, run.SharpeRatio, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert backtest run for %s: %w", run.Symbol, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for backtest run %s: %w", run.Symbol, err)
	}
	run.ID = id
	run.CreatedAt = createdAt
	r.logger.Debug(ctx, "Backtest run created", map[string]interface{}{"runID": id, "symbol": run.Symbol})
	return id, nil
}

// CreateTrades saves the trade log of a run inside one transaction.
func (r *Repository) CreateTrades(ctx context.Context, runID int64, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin trade insert transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
	INSERT INTO backtest_trades (run_id, symbol, side, entry_price, exit_price, entry_time, exit_time,
	                             duration_hours, leverage, gross_pnl_pct, net_pnl_pct,
	                             fee_pct, slippage_pct, funding_pct, close_reason)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare trade insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			runID, t.Symbol, t.Side, t.EntryPrice, t.ExitPrice, t.EntryTime, t.ExitTime,
			t.DurationHours, t.Leverage, t.GrossPnlPct, t.NetPnlPct,
			t.Costs.FeePct, t.Costs.SlippagePct, t.Costs.FundingPct, t.CloseReason); err != nil {
			return fmt.Errorf("failed to insert trade for run %d: %w", runID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trade insert transaction: %w", err)
	}
	r.logger.Debug(ctx, "Backtest trades persisted", map[string]interface{}{"runID": runID, "count": len(trades)})
	return nil
}

// FindRuns retrieves the most recent runs, up to a limit.
func (r *Repository) FindRuns(ctx context.Context, limit int) ([]*ports.BacktestRun, error) {
	const query = `
	SELECT id, symbol, interval, start_time, end_time, label, trade_count,
	       net_pnl_pct, win_rate_pct, max_drawdown_pct, sharpe_ratio, created_at
	FROM backtest_runs
	ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*ports.BacktestRun, 0)
	for rows.Next() {
		run := &ports.BacktestRun{}
		if err := rows.Scan(&run.ID, &run.Symbol, &run.Interval, &run.StartTime, &run.EndTime,
			&run.Label, &run.TradeCount, &run.NetPnlPct, &run.WinRatePct,
			&run.MaxDrawdownPct, &run.SharpeRatio, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan backtest run: %w", err)
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backtest run rows: %w", err)
	}
	return runs, nil
}

// FindTradesByRun retrieves the trade log of a run, ordered by entry time.
func (r *Repository) FindTradesByRun(ctx context.Context, runID int64) ([]*domain.Trade, error) {
	const query = `
	SELECT id, run_id, symbol, side, entry_price, exit_price, entry_time, exit_time,
	       duration_hours, leverage, gross_pnl_pct, net_pnl_pct,
	       fee_pct, slippage_pct, funding_pct, close_reason
	FROM backtest_trades
	WHERE run_id = ? ORDER BY entry_time ASC`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades for run %d: %w", runID, err)
	}
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		t := &domain.Trade{}
		var side, reason string
		if err := rows.Scan(&t.ID, &t.RunID, &t.Symbol, &side, &t.EntryPrice, &t.ExitPrice,
			&t.EntryTime, &t.ExitTime, &t.DurationHours, &t.Leverage,
			&t.GrossPnlPct, &t.NetPnlPct,
			&t.Costs.FeePct, &t.Costs.SlippagePct, &t.Costs.FundingPct, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan trade during FindTradesByRun: %w", err)
		}
		t.Side = domain.Side(side)
		t.CloseReason = domain.CloseReason(reason)
		t.Costs.TotalPct = t.Costs.FeePct + t.Costs.SlippagePct + t.Costs.FundingPct
		trades = append(trades, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return trades, nil
}
