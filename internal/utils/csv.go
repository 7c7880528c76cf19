package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"zoneFlipBot/internal/domain"
)

// WriteKlinesToCSV saves a candle sequence to a CSV file.
func WriteKlinesToCSV(klines []*domain.Kline, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"open_time", "close_time", "symbol", "interval", "open", "high", "low", "close", "volume"})

	for _, k := range klines {
		writer.Write([]string{
			k.OpenTime.Format(time.RFC3339),
			k.CloseTime.Format(time.RFC3339),
			k.Symbol,
			k.Interval,
			strconv.FormatFloat(k.Open, 'f', -1, 64),
			strconv.FormatFloat(k.High, 'f', -1, 64),
			strconv.FormatFloat(k.Low, 'f', -1, 64),
			strconv.FormatFloat(k.Close, 'f', -1, 64),
			strconv.FormatFloat(k.Volume, 'f', -1, 64),
		})
	}
	return writer.Error()
}

// ReadKlinesFromCSV loads a candle sequence written by WriteKlinesToCSV.
func ReadKlinesFromCSV(filename string) ([]*domain.Kline, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return []*domain.Kline{}, nil
		}
		return nil, err
	}

	var klines []*domain.Kline
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 9 {
			return nil, fmt.Errorf("malformed kline row in %s: %v", filename, record)
		}

		k := &domain.Kline{Symbol: record[2], Interval: record[3], IsFinal: true}
		if k.OpenTime, err = time.Parse(time.RFC3339, record[0]); err != nil {
			return nil, fmt.Errorf("parsing open_time '%s': %w", record[0], err)
		}
		if k.CloseTime, err = time.Parse(time.RFC3339, record[1]); err != nil {
			return nil, fmt.Errorf("parsing close_time '%s': %w", record[1], err)
		}
		if k.Open, err = strconv.ParseFloat(record[4], 64); err != nil {
			return nil, fmt.Errorf("parsing open '%s': %w", record[4], err)
		}
		if k.High, err = strconv.ParseFloat(record[5], 64); err != nil {
			return nil, fmt.Errorf("parsing high '%s': %w", record[5], err)
		}
		if k.Low, err = strconv.ParseFloat(record[6], 64); err != nil {
			return nil, fmt.Errorf("parsing low '%s': %w", record[6], err)
		}
		if k.Close, err = strconv.ParseFloat(record[7], 64); err != nil {
			return nil, fmt.Errorf("parsing close '%s': %w", record[7], err)
		}
		if k.Volume, err = strconv.ParseFloat(record[8], 64); err != nil {
			return nil, fmt.Errorf("parsing volume '%s': %w", record[8], err)
		}
		klines = append(klines, k)
	}
	return klines, nil
}

// WriteTradesToCSV saves a trade log to a CSV file.
func WriteTradesToCSV(trades []*domain.Trade, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"entry_time", "exit_time", "symbol", "side", "entry_price", "exit_price",
		"duration_hours", "leverage", "gross_pnl_pct", "net_pnl_pct",
		"fee_pct", "slippage_pct", "funding_pct", "close_reason"})

	for _, t := range trades {
		writer.Write([]string{
			t.EntryTime.Format(time.RFC3339),
			t.ExitTime.Format(time.RFC3339),
			t.Symbol,
			string(t.Side),
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			strconv.FormatFloat(t.ExitPrice, 'f', -1, 64),
			strconv.FormatFloat(t.DurationHours, 'f', -1, 64),
			strconv.FormatFloat(t.Leverage, 'f', -1, 64),
			strconv.FormatFloat(t.GrossPnlPct, 'f', -1, 64),
			strconv.FormatFloat(t.NetPnlPct, 'f', -1, 64),
			strconv.FormatFloat(t.Costs.FeePct, 'f', -1, 64),
			strconv.FormatFloat(t.Costs.SlippagePct, 'f', -1, 64),
			strconv.FormatFloat(t.Costs.FundingPct, 'f', -1, 64),
			string(t.CloseReason),
		})
	}
	return writer.Error()
}

// ReadTradesFromCSV loads a trade log written by WriteTradesToCSV.
func ReadTradesFromCSV(filename string) ([]*domain.Trade, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return []*domain.Trade{}, nil
		}
		return nil, err
	}

	var trades []*domain.Trade
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 14 {
			return nil, fmt.Errorf("malformed trade row in %s: %v", filename, record)
		}

		t := &domain.Trade{
			Symbol:      record[2],
			Side:        domain.Side(record[3]),
			CloseReason: domain.CloseReason(record[13]),
		}
		if t.EntryTime, err = time.Parse(time.RFC3339, record[0]); err != nil {
			return nil, fmt.Errorf("parsing entry_time '%s': %w", record[0], err)
		}
		if t.ExitTime, err = time.Parse(time.RFC3339, record[1]); err != nil {
			return nil, fmt.Errorf("parsing exit_time '%s': %w", record[1], err)
		}

		floats := []struct {
			dst  *float64
			idx  int
			name string
		}{
			{&t.EntryPrice, 4, "entry_price"},
			{&t.ExitPrice, 5, "exit_price"},
			{&t.DurationHours, 6, "duration_hours"},
			{&t.Leverage, 7, "leverage"},
			{&t.GrossPnlPct, 8, "gross_pnl_pct"},
			{&t.NetPnlPct, 9, "net_pnl_pct"},
			{&t.Costs.FeePct, 10, "fee_pct"},
			{&t.Costs.SlippagePct, 11, "slippage_pct"},
			{&t.Costs.FundingPct, 12, "funding_pct"},
		}
		for _, f := range floats {
			if *f.dst, err = strconv.ParseFloat(record[f.idx], 64); err != nil {
				return nil, fmt.Errorf("parsing %s '%s': %w", f.name, record[f.idx], err)
			}
		}
		t.Costs.TotalPct = t.Costs.FeePct + t.Costs.SlippagePct + t.Costs.FundingPct
		trades = append(trades, t)
	}
	return trades, nil
}
