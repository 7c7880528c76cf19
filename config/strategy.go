package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"zoneFlipBot/internal/domain"
	"zoneFlipBot/internal/strategy"
)

// StrategyFile mirrors the YAML strategy parameter file. Every field is a
// pointer so that absent keys fall through to the documented defaults; the
// merge happens exactly once, in LoadStrategyFile.
type StrategyFile struct {
	Zone struct {
		ProfitTargetPct       *float64 `yaml:"profit_target_pct"`
		TPZoneTrailingStopPct *float64 `yaml:"tp_zone_trailing_stop_pct"`
		TPZoneHoursThreshold  *float64 `yaml:"tp_zone_hours_threshold"`
		Leverage              *float64 `yaml:"leverage"`
		ShortZoneStart        *string  `yaml:"short_zone_start"` // "HH:MM"
		ShortZoneEnd          *string  `yaml:"short_zone_end"`   // "HH:MM"
	} `yaml:"zone"`
	Costs struct {
		TakerFeeBps          *float64 `yaml:"taker_fee_bps"`
		MakerRebateBps       *float64 `yaml:"maker_rebate_bps"`
		SlippageBps          *float64 `yaml:"slippage_bps"`
		AvgFundingRateBps    *float64 `yaml:"avg_funding_rate_bps"`
		FundingIntervalHours *float64 `yaml:"funding_interval_hours"`
	} `yaml:"costs"`
	Holidays []string `yaml:"holidays"` // "YYYY-MM-DD"
}

// LoadStrategyFile reads the YAML parameter file at path and merges it over
// the built-in defaults. An empty path returns the defaults unchanged.
func LoadStrategyFile(path string) (strategy.ZoneConfig, strategy.CostConfig, error) {
	zoneCfg := strategy.DefaultZoneConfig()
	costCfg := strategy.DefaultCostConfig()
	if path == "" {
		return zoneCfg, costCfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return zoneCfg, costCfg, fmt.Errorf("failed to read strategy file '%s': %w", path, err)
	}

	var file StrategyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return zoneCfg, costCfg, fmt.Errorf("failed to parse strategy file '%s': %w", path, err)
	}

	if v := file.Zone.ProfitTargetPct; v != nil {
		zoneCfg.ProfitTargetPct = *v
	}
	if v := file.Zone.TPZoneTrailingStopPct; v != nil {
		zoneCfg.TPZoneTrailingStopPct = *v
	}
	if v := file.Zone.TPZoneHoursThreshold; v != nil {
		zoneCfg.TPZoneHoursThreshold = *v
	}
	if v := file.Zone.Leverage; v != nil {
		zoneCfg.Leverage = *v
	}
	if v := file.Zone.ShortZoneStart; v != nil {
		ct, err := parseClockTime(*v)
		if err != nil {
			return zoneCfg, costCfg, fmt.Errorf("invalid short_zone_start: %w", err)
		}
		zoneCfg.ShortZoneStart = ct
	}
	if v := file.Zone.ShortZoneEnd; v != nil {
		ct, err := parseClockTime(*v)
		if err != nil {
			return zoneCfg, costCfg, fmt.Errorf("invalid short_zone_end: %w", err)
		}
		zoneCfg.ShortZoneEnd = ct
	}

	if v := file.Costs.TakerFeeBps; v != nil {
		costCfg.TakerFeeBps = *v
	}
	if v := file.Costs.MakerRebateBps; v != nil {
		costCfg.MakerRebateBps = *v
	}
	if v := file.Costs.SlippageBps; v != nil {
		costCfg.SlippageBps = *v
	}
	if v := file.Costs.AvgFundingRateBps; v != nil {
		costCfg.AvgFundingRateBps = *v
	}
	if v := file.Costs.FundingIntervalHours; v != nil {
		costCfg.FundingIntervalHours = *v
	}

	if len(file.Holidays) > 0 {
		holidays, err := domain.ParseHolidaySet(file.Holidays)
		if err != nil {
			return zoneCfg, costCfg, fmt.Errorf("invalid holidays in '%s': %w", path, err)
		}
		zoneCfg.Holidays = holidays
	}

	if err := validateStrategy(zoneCfg, costCfg); err != nil {
		return zoneCfg, costCfg, err
	}
	return zoneCfg, costCfg, nil
}

func parseClockTime(s string) (strategy.ClockTime, error) {
	var ct strategy.ClockTime
	if _, err := fmt.Sscanf(s, "%d:%d", &ct.Hour, &ct.Minute); err != nil {
		return ct, fmt.Errorf("expected HH:MM, got '%s'", s)
	}
	if ct.Hour < 0 || ct.Hour > 23 || ct.Minute < 0 || ct.Minute > 59 {
		return ct, fmt.Errorf("out-of-range clock time '%s'", s)
	}
	return ct, nil
}

func validateStrategy(zoneCfg strategy.ZoneConfig, costCfg strategy.CostConfig) error {
	if zoneCfg.ProfitTargetPct <= 0 {
		return fmt.Errorf("profit_target_pct must be positive")
	}
	if zoneCfg.TPZoneTrailingStopPct <= 0 {
		return fmt.Errorf("tp_zone_trailing_stop_pct must be positive")
	}
	if zoneCfg.TPZoneHoursThreshold < 0 {
		return fmt.Errorf("tp_zone_hours_threshold cannot be negative")
	}
	if zoneCfg.Leverage <= 0 {
		return fmt.Errorf("leverage must be positive")
	}
	if costCfg.FundingIntervalHours <= 0 {
		return fmt.Errorf("funding_interval_hours must be positive")
	}
	return nil
}
