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
	"zoneFlipBot/internal/strategy/optimization"
	"zoneFlipBot/internal/utils"
)

func main() {
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

	score := optimization.ScoreByNetPnl
	scoreName := os.Getenv("OPTIMIZE_METRIC")
	switch scoreName {
	case "sharpe":
		score = optimization.ScoreBySharpe
	case "win_rate":
		score = optimization.ScoreByWinRate
	case "", "net_pnl":
		scoreName = "net_pnl"
	default:
		log.Fatalf("Unknown OPTIMIZE_METRIC '%s' (want net_pnl, sharpe, or win_rate)", scoreName)
	}

	optimizer := optimization.NewOptimizer(optimization.OptimizerConfig{
		ParameterRanges: []optimization.ParameterRange{
			{Name: optimization.ParamProfitTarget, Min: 0.5, Max: 2.0, Step: 0.25},
			{Name: optimization.ParamTrailingStop, Min: 0.25, Max: 1.0, Step: 0.25},
			{Name: optimization.ParamHoursThreshold, Min: 2, Max: 10, Step: 2},
			{Name: optimization.ParamLeverage, Min: 2, Max: 20, Step: 2, IsInt: true},
		},
		Symbol:        cfg.Symbol,
		BaseZone:      zoneCfg,
		Costs:         costCfg,
		ScoreFunction: score,
	})

	appLogger.Info(context.Background(), "Starting grid search", map[string]interface{}{"metric": scoreName})
	started := time.Now()
	results := optimizer.Optimize(context.Background(), klines)
	appLogger.Info(context.Background(), "Grid search finished", map[string]interface{}{
		"combinations": len(results),
		"elapsed":      time.Since(started).String(),
	})

	const topN = 20
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "Rank\tTarget%\tTrail%\tHours\tLev\tTrades\tWinRate%\tNetPnL%\tMaxDD%\tSharpe\tScore\t")
	for i, r := range results {
		if i >= topN {
			break
		}
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.0f\t%.0f\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.3f\t\n",
			i+1,
			r.Parameters[optimization.ParamProfitTarget],
			r.Parameters[optimization.ParamTrailingStop],
			r.Parameters[optimization.ParamHoursThreshold],
			r.Parameters[optimization.ParamLeverage],
			r.Metrics.TotalTrades, r.Metrics.WinRate, r.Metrics.NetPnlPct,
			r.Metrics.MaxDrawdownPct, r.Metrics.SharpeRatio, r.Score)
	}
	w.Flush()
}
