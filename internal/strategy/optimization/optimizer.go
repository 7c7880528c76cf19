package optimization

import (
	"context"
	"math"
	"sort"
	"sync"

	"zoneFlipBot/internal/domain"
	"zoneFlipBot/internal/strategy"
	"zoneFlipBot/internal/strategy/analytics"
	"zoneFlipBot/internal/strategy/backtesting"
)

// Tunable parameter names accepted by the optimizer.
const (
	ParamProfitTarget   = "profit_target_pct"
	ParamTrailingStop   = "tp_zone_trailing_stop_pct"
	ParamHoursThreshold = "tp_zone_hours_threshold"
	ParamLeverage       = "leverage"
)

// ParameterRange defines a range for a parameter to optimize.
type ParameterRange struct {
	Name  string
	Min   float64
	Max   float64
	Step  float64
	IsInt bool
}

// OptimizationResult holds the outcome of one parameter combination.
type OptimizationResult struct {
	Parameters map[string]float64
	Metrics    *analytics.PerformanceMetrics
	Score      float64
}

// ScoreFunction ranks a run by a single metric.
type ScoreFunction func(*analytics.PerformanceMetrics) float64

// Built-in score functions matching the metrics a run can be ranked by.
var (
	ScoreByNetPnl  ScoreFunction = func(m *analytics.PerformanceMetrics) float64 { return m.NetPnlPct }
	ScoreBySharpe  ScoreFunction = func(m *analytics.PerformanceMetrics) float64 { return m.SharpeRatio }
	ScoreByWinRate ScoreFunction = func(m *analytics.PerformanceMetrics) float64 { return m.WinRate }
)

// OptimizerConfig holds configuration for the optimizer.
type OptimizerConfig struct {
	ParameterRanges []ParameterRange
	Symbol          string
	BaseZone        strategy.ZoneConfig
	Costs           strategy.CostConfig
	ScoreFunction   ScoreFunction
}

// Optimizer evaluates the backtest once per parameter combination and ranks
// the results. Each evaluation is an independent pure invocation, so
// combinations run concurrently without locking.
type Optimizer struct {
	config OptimizerConfig
}

// NewOptimizer creates a new optimizer instance.
func NewOptimizer(config OptimizerConfig) *Optimizer {
	if config.ScoreFunction == nil {
		config.ScoreFunction = ScoreByNetPnl
	}
	return &Optimizer{config: config}
}

// Optimize runs the full parameter grid over the given candles and returns
// the results sorted by score, best first.
func (o *Optimizer) Optimize(ctx context.Context, klines []*domain.Kline) []OptimizationResult {
	combinations := o.generateParameterCombinations()
	results := make([]OptimizationResult, 0, len(combinations))

	resultChan := make(chan OptimizationResult, len(combinations))
	var wg sync.WaitGroup

	for _, params := range combinations {
		wg.Add(1)
		go func(params map[string]float64) {
			defer wg.Done()

			zoneCfg := applyParams(o.config.BaseZone, params)
			result := backtesting.Backtest(klines, backtesting.BacktestConfig{
				Symbol: o.config.Symbol,
				Zone:   zoneCfg,
				Costs:  o.config.Costs,
			})
			metrics := analytics.AnalyzePerformance(result.Trades)

			resultChan <- OptimizationResult{
				Parameters: params,
				Metrics:    metrics,
				Score:      o.config.ScoreFunction(metrics),
			}
		}(params)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for result := range resultChan {
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// generateParameterCombinations generates all possible parameter combinations.
func (o *Optimizer) generateParameterCombinations() []map[string]float64 {
	var combinations []map[string]float64
	currentCombination := make(map[string]float64)

	var generate func(int)
	generate = func(paramIndex int) {
		if paramIndex == len(o.config.ParameterRanges) {
			combination := make(map[string]float64, len(currentCombination))
			for k, v := range currentCombination {
				combination[k] = v
			}
			combinations = append(combinations, combination)
			return
		}

		param := o.config.ParameterRanges[paramIndex]
		value := param.Min
		for value <= param.Max+param.Step/2 { // Add small epsilon to handle floating point comparison
			if param.IsInt {
				value = math.Round(value)
			}
			currentCombination[param.Name] = value
			generate(paramIndex + 1)
			value += param.Step
		}
	}

	generate(0)
	return combinations
}

// applyParams overlays a parameter combination onto the base zone config.
func applyParams(base strategy.ZoneConfig, params map[string]float64) strategy.ZoneConfig {
	cfg := base
	if v, ok := params[ParamProfitTarget]; ok {
		cfg.ProfitTargetPct = v
	}
	if v, ok := params[ParamTrailingStop]; ok {
		cfg.TPZoneTrailingStopPct = v
	}
	if v, ok := params[ParamHoursThreshold]; ok {
		cfg.TPZoneHoursThreshold = v
	}
	if v, ok := params[ParamLeverage]; ok {
		cfg.Leverage = v
	}
	return cfg
}
