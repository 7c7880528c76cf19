package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"zoneFlipBot/internal/adapters/logger"
)

// Config holds all application configuration.
type Config struct {
	// Binance API (public market-data endpoints work without keys)
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Data Parameters
	Symbol   string
	Interval string
	DataDir  string

	// Database
	DBPath string

	// Strategy parameter file (YAML); empty means built-in defaults
	StrategyFile string

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string

	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)

	cfg.Symbol = getEnv("SYMBOL", "BTCUSDT")
	if cfg.Symbol == "" {
		errs = append(errs, "SYMBOL must be set")
	}

	cfg.Interval = getEnv("INTERVAL", "5m")
	if cfg.Interval == "" {
		errs = append(errs, "INTERVAL must be set")
	}

	cfg.DataDir = getEnv("DATA_DIR", "./data")
	if cfg.DataDir == "" {
		errs = append(errs, "DATA_DIR must be set")
	}

	cfg.DBPath = getEnv("DB_PATH", "./data/zone_flip.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	cfg.StrategyFile = getEnv("STRATEGY_FILE", "")

	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr)

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
