package config

import (
	"testing"

	"zoneFlipBot/internal/adapters/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("SYMBOL", "")
	t.Setenv("INTERVAL", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("STRATEGY_FILE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("IS_TESTNET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", cfg.Symbol)
	assert.Equal(t, "5m", cfg.Interval)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "./data/zone_flip.db", cfg.DBPath)
	assert.Equal(t, "", cfg.StrategyFile)
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.IsTestnet)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SYMBOL", "ETHUSDT")
	t.Setenv("INTERVAL", "1h")
	t.Setenv("DATA_DIR", "/tmp/zone-flip")
	t.Setenv("DB_PATH", "/tmp/zone-flip/cache.db")
	t.Setenv("STRATEGY_FILE", "/tmp/strategy.yaml")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("IS_TESTNET", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ETHUSDT", cfg.Symbol)
	assert.Equal(t, "1h", cfg.Interval)
	assert.Equal(t, "/tmp/zone-flip", cfg.DataDir)
	assert.Equal(t, "/tmp/zone-flip/cache.db", cfg.DBPath)
	assert.Equal(t, "/tmp/strategy.yaml", cfg.StrategyFile)
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.IsTestnet)
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("SOME_FLAG", "not-a-bool")
	assert.True(t, getEnvAsBool("SOME_FLAG", true))

	t.Setenv("SOME_FLAG", "1")
	assert.True(t, getEnvAsBool("SOME_FLAG", false))

	t.Setenv("SOME_FLAG", "")
	assert.False(t, getEnvAsBool("SOME_FLAG", false))
}
