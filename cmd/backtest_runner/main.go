package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"zoneFlipBot/config"
	"zoneFlipBot/internal/adapters/logger"
	"zoneFlipBot/internal/adapters/sqlite"
	"zoneFlipBot/internal/domain"
	"zoneFlipBot/internal/ports"
	"zoneFlipBot/internal/risk"
	"zoneFlipBot/internal/strategy/analytics"
	"zoneFlipBot/internal/strategy/backtesting"
	"zoneFlipBot/internal/utils"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)

	zoneCfg, costCfg, err := config.LoadStrategyFile(cfg.StrategyFile)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to load strategy parameters")
		log.Fatalf("FATAL: Failed to load strategy parameters: %v", err)
	}

	// 2. Load candles: CSV path argument wins, otherwise the SQLite cache.
	var klines []*domain.Kline
	if len(os.Args) > 1 {
		klines, err = utils.ReadKlinesFromCSV(os.Args[1])
		if err != nil {
			appLogger.Error(context.Background(), err, "Error loading klines from CSV", map[string]interface{}{"file": os.Args[1]})
			log.Fatalf("Error loading klines from CSV: %v", err)
		}
	} else {
		repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to initialize SQLite repository")
			log.Fatalf("FATAL: Failed to initialize SQLite repository: %v", err)
		}
		defer repo.Close()

		klines, err = repo.FindRange(context.Background(), cfg.Symbol, cfg.Interval,
			time.Time{}, time.Now().AddDate(1, 0, 0))
		if err != nil {
			appLogger.Error(context.Background(), err, "Error loading klines from cache")
			log.Fatalf("Error loading klines from cache: %v", err)
		}
	}
	if len(klines) == 0 {
		log.Fatalf("No candles available: fetch data first or pass a CSV path")
	}
	appLogger.Info(context.Background(), "Loaded klines", map[string]interface{}{"count": len(klines)})

	// 3. Run the backtest
	result := backtesting.Backtest(klines, backtesting.BacktestConfig{
		Symbol: cfg.Symbol,
		Zone:   zoneCfg,
		Costs:  costCfg,
	})
	metrics := analytics.AnalyzePerformance(result.Trades)
	sizing := risk.SizingFromMetrics(metrics)

	printReport(result, metrics, sizing, zoneCfg.Leverage)

	// 4. Persist the run and export the trade log
	persistRun(cfg, appLogger, klines, result, metrics)

	tradesFile := fmt.Sprintf("%s/backtest_trades_%s_%s.csv", cfg.DataDir, cfg.Symbol, time.Now().Format("20060102_150405"))
	if err := utils.WriteTradesToCSV(result.Trades, tradesFile); err != nil {
		appLogger.Error(context.Background(), err, "Error writing trades CSV")
	} else {
		appLogger.Info(context.Background(), "Trades saved to", map[string]interface{}{"filename": tradesFile})
	}
}

// printReport renders the aggregate statistics as a text report.
func printReport(result *backtesting.BacktestResult, metrics *analytics.PerformanceMetrics, sizing risk.KellySizing, maxLeverage float64) {
	fmt.Println("## Backtest Summary")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "Trades\tWinRate%\tGrossPnL%\tNetPnL%\tMaxDD%\tSharpe\tAvgWin%\tAvgLoss%\tAvgHours\t")
	fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f\t\n",
		metrics.TotalTrades, metrics.WinRate, metrics.GrossPnlPct, metrics.NetPnlPct,
		metrics.MaxDrawdownPct, metrics.SharpeRatio, metrics.AvgWinPct, metrics.AvgLossPct,
		metrics.AvgDurationHours)
	w.Flush()

	fmt.Println("\n## Cost Impact (leveraged)")
	fmt.Printf("Fees: %.2f%%  Slippage: %.2f%%  Funding: %.2f%%\n",
		result.FeeCostPct, result.SlippageCostPct, result.FundingCostPct)

	fmt.Println("\n## By Side")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "Side\tTrades\tWinRate%\tNetPnL%\tAvgHours\t")
	for _, row := range []struct {
		name  string
		stats analytics.SideStats
	}{{"long", metrics.Long}, {"short", metrics.Short}} {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.1f\t\n",
			row.name, row.stats.Trades, row.stats.WinRate, row.stats.NetPnlPct, row.stats.AvgDurationHours)
	}
	w.Flush()

	fmt.Println("\n## By Exit Reason")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "Reason\tCount\tNetPnL%\t")
	for _, rs := range metrics.ByReason {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t\n", rs.Reason, rs.Count, rs.NetPnlPct)
	}
	w.Flush()

	fmt.Println("\n## Kelly Sizing")
	fmt.Printf("W=%.3f R=%.3f  full=%.3f half=%.3f  suggested leverage=%.1f (cap %.0f)\n",
		sizing.WinProbability, sizing.WinLossRatio, sizing.Fraction, sizing.HalfFraction,
		sizing.SuggestedLeverage(maxLeverage), maxLeverage)
}

// persistRun stores the run's headline numbers and trade log in SQLite.
func persistRun(cfg *config.Config, appLogger ports.Logger, klines []*domain.Kline,
	result *backtesting.BacktestResult, metrics *analytics.PerformanceMetrics) {

	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		appLogger.Error(context.Background(), err, "Skipping run persistence: repository unavailable")
		return
	}
	defer repo.Close()

	run := &ports.BacktestRun{
		Symbol:         cfg.Symbol,
		Interval:       cfg.Interval,
		StartTime:      klines[0].OpenTime,
		EndTime:        klines[len(klines)-1].OpenTime,
		Label:          cfg.StrategyFile,
		TradeCount:     metrics.TotalTrades,
		NetPnlPct:      metrics.NetPnlPct,
		WinRatePct:     metrics.WinRate,
		MaxDrawdownPct: metrics.MaxDrawdownPct,
		SharpeRatio:    metrics.SharpeRatio,
	}
	runID, err := repo.CreateRun(context.Background(), run)
	if err != nil {
		appLogger.Error(context.Background(), err, "Failed to persist backtest run")
		return
	}
	if err := repo.CreateTrades(context.Background(), runID, result.Trades); err != nil {
		appLogger.Error(context.Background(), err, "Failed to persist backtest trades")
		return
	}
	appLogger.Info(context.Background(), "Backtest run persisted", map[string]interface{}{"runID": runID})
}
