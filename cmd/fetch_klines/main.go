package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"zoneFlipBot/config"
	"zoneFlipBot/internal/adapters/binanceclient"
	"zoneFlipBot/internal/adapters/logger"
	"zoneFlipBot/internal/adapters/sqlite"
	"zoneFlipBot/internal/utils"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	// 4. Initialize candle cache
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize SQLite repository")
		log.Fatalf("FATAL: Failed to initialize SQLite repository: %v", err)
	}
	defer repo.Close()

	months := 3
	if v := os.Getenv("FETCH_MONTHS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			months = parsed
		}
	}

	end := time.Now()
	start := end.AddDate(0, -months, 0)

	fmt.Printf("Fetching klines for %s %s from %s to %s...\n", cfg.Symbol, cfg.Interval, start, end)
	klines, err := binanceClient.GetKlinesRange(context.Background(), cfg.Symbol, cfg.Interval, start, end)
	if err != nil {
		appLogger.Error(context.Background(), err, "Error fetching klines")
		log.Fatalf("Error fetching klines: %v", err)
	}
	appLogger.Info(context.Background(), "Fetched klines", map[string]interface{}{"count": len(klines)})

	if err := repo.SaveKlines(context.Background(), klines); err != nil {
		appLogger.Error(context.Background(), err, "Error caching klines")
		log.Fatalf("Error caching klines: %v", err)
	}

	filename := fmt.Sprintf("%s/%s_%s_%s_to_%s.csv", cfg.DataDir, cfg.Symbol, cfg.Interval, start.Format("20060102"), end.Format("20060102"))
	if err := utils.WriteKlinesToCSV(klines, filename); err != nil {
		appLogger.Error(context.Background(), err, "Error writing CSV")
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(context.Background(), "Saved to", map[string]interface{}{"filename": filename})
}
