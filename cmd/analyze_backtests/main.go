package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"zoneFlipBot/internal/strategy/analytics"
	"zoneFlipBot/internal/utils"
)

func main() {
	dir := "data"
	if v := os.Getenv("DATA_DIR"); v != "" {
		dir = v
	}

	files, err := findTradeFiles(dir, "backtest_trades")
	if err != nil {
		log.Fatalf("Error finding backtest files: %v", err)
	}

	if len(files) == 0 {
		log.Println("No backtest trade files found. Run the backtest runner first.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "File\tTrades\tWinRate%\tAvgWin%\tAvgLoss%\tNetPnL%\tMaxDD%\tSharpe\t")

	for _, file := range files {
		trades, err := utils.ReadTradesFromCSV(file)
		if err != nil {
			log.Printf("Error reading trades from %s: %v", file, err)
			continue
		}

		metrics := analytics.AnalyzePerformance(trades)
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			filepath.Base(file),
			metrics.TotalTrades, metrics.WinRate, metrics.AvgWinPct, metrics.AvgLossPct,
			metrics.NetPnlPct, metrics.MaxDrawdownPct, metrics.SharpeRatio)
	}
	w.Flush()

	fmt.Println("\n## Exit Reason Analysis")
	analyzeExitReasons(files)
}

// findTradeFiles finds all trade-log CSVs in the specified directory.
func findTradeFiles(dir, prefix string) ([]string, error) {
	var files []string

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) && strings.HasSuffix(entry.Name(), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// analyzeExitReasons prints the per-reason breakdown of each trade log, in
// the order reasons first appear.
func analyzeExitReasons(files []string) {
	for _, file := range files {
		trades, err := utils.ReadTradesFromCSV(file)
		if err != nil {
			log.Printf("Error reading trades from %s: %v", file, err)
			continue
		}

		metrics := analytics.AnalyzePerformance(trades)

		fmt.Printf("\nFile: %s\n", filepath.Base(file))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
		fmt.Fprintln(w, "Reason\tCount\tNetPnL%\tAvgPnL%\t")
		for _, rs := range metrics.ByReason {
			avg := 0.0
			if rs.Count > 0 {
				avg = rs.NetPnlPct / float64(rs.Count)
			}
			fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t\n", rs.Reason, rs.Count, rs.NetPnlPct, avg)
		}
		w.Flush()
	}
}
