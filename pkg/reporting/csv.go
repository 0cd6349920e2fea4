package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tradeops/riskgate/internal/journal"
)

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

// WriteHistoryCSV writes recorded decisions to a CSV file.
func (r *DefaultCSVReporter) WriteHistoryCSV(entries []journal.Entry, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	// If the user requests an Excel file, delegate to the Excel writer
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return WriteHistoryXLSX(entries, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"Time",
		"Symbol",
		"Side",
		"Amount",
		"Price",
		"Approved",
		"Risk_Score",
		"Recommendation",
		"Reasoning",
		"Suggested_Amount",
		"Stop_Loss",
		"Take_Profit",
	}); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Symbol,
			string(e.Side),
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
			fmt.Sprintf("%.8f", e.Price),
			strconv.FormatBool(e.Approved),
			strconv.Itoa(e.RiskScore),
			string(e.Recommendation),
			e.Reasoning,
			strconv.FormatFloat(e.Adjustments.SuggestedAmount, 'f', -1, 64),
			strconv.FormatFloat(e.Adjustments.StopLoss, 'f', -1, 64),
			strconv.FormatFloat(e.Adjustments.TakeProfit, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	s := summarizeHistory(entries)
	summary := fmt.Sprintf("SUMMARY: total=%d; approved=%d; cautioned=%d; aborted=%d; avg_score=%.1f",
		s.total, s.approved, s.caution, s.aborted, s.avgScore)

	// Summary row with empty fields except the last column
	summaryRow := make([]string, 12)
	summaryRow[11] = summary
	if err := w.Write(summaryRow); err != nil {
		return err
	}

	return nil
}

// Package-level convenience function
func WriteHistoryCSV(entries []journal.Entry, path string) error {
	reporter := NewDefaultCSVReporter()
	return reporter.WriteHistoryCSV(entries, path)
}
