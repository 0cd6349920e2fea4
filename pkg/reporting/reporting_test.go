package reporting

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tradeops/riskgate/internal/journal"
	"github.com/tradeops/riskgate/pkg/types"
)

func sampleEntries() []journal.Entry {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []journal.Entry{
		{
			ID:             "01HZXA0001",
			CreatedAt:      ts,
			Symbol:         "BTCUSDT",
			Side:           types.SideBuy,
			Amount:         0.1,
			Price:          50000,
			Approved:       true,
			RiskScore:      2,
			Recommendation: types.RecommendationProceed,
			Reasoning:      "no risk flags raised",
			Adjustments:    types.RiskAdjustments{SuggestedAmount: 0.1, StopLoss: 49000, TakeProfit: 52000},
		},
		{
			ID:             "01HZXA0002",
			CreatedAt:      ts.Add(time.Hour),
			Symbol:         "ETHUSDT",
			Side:           types.SideSell,
			Amount:         1.5,
			Price:          3000,
			Approved:       false,
			RiskScore:      8,
			Recommendation: types.RecommendationAbort,
			Reasoning:      "2 checks failed",
		},
		{
			ID:             "01HZXA0003",
			CreatedAt:      ts.Add(2 * time.Hour),
			Symbol:         "BTCUSDT",
			Side:           types.SideBuy,
			Amount:         0.2,
			Price:          51000,
			Approved:       true,
			RiskScore:      5,
			Recommendation: types.RecommendationCaution,
			Reasoning:      "volatile market",
		},
	}
}

func TestPrintDecision(t *testing.T) {
	var buf bytes.Buffer
	reporter := &DefaultConsoleReporter{out: &buf}

	input := types.RiskCheckInput{Symbol: "BTCUSDT", Side: types.SideBuy, Amount: 0.1, Price: 50000}
	result := &types.RiskCheckResult{
		Approved:       false,
		RiskScore:      3,
		Recommendation: types.RecommendationCaution,
		Reasoning:      "1 checks failed",
		Adjustments:    &types.RiskAdjustments{SuggestedAmount: 0.05, StopLoss: 49000, TakeProfit: 52000},
		Checks: []types.CheckEntry{
			{Name: "position", Check: types.IndividualRiskCheck{Approved: true, RiskLevel: types.RiskLevelLow, Reasoning: "size within limits"}},
			{Name: "technical", Check: types.IndividualRiskCheck{Approved: false, RiskLevel: types.RiskLevelHigh, Reasoning: "price below key support"}},
		},
	}

	reporter.PrintDecision(input, result)
	out := buf.String()

	assert.Contains(t, out, "RISK DECISION")
	assert.Contains(t, out, "BUY 0.1 BTCUSDT")
	assert.Contains(t, out, "CAUTION")
	assert.Contains(t, out, "3/10")
	assert.Contains(t, out, "1/2 passed")
	assert.Contains(t, out, "0.05")

	assert.Contains(t, out, "INDIVIDUAL CHECKS")
	assert.Contains(t, out, "technical")
	assert.Contains(t, out, "❌ fail")
	assert.Contains(t, out, "price below key support")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	reporter := &DefaultConsoleReporter{out: &buf}

	reporter.PrintHistory(sampleEntries())
	out := buf.String()

	assert.Contains(t, out, "DECISION HISTORY")
	assert.Contains(t, out, "BTCUSDT")
	assert.Contains(t, out, "ETHUSDT")
	assert.Contains(t, out, "ABORT")
	assert.Contains(t, out, "8/10")
	assert.Contains(t, out, "2025-06-01 12:00")
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	reporter := &DefaultConsoleReporter{out: &buf}

	reporter.PrintHistory(nil)

	assert.Contains(t, buf.String(), "No recorded decisions yet.")
}

func TestSummarizeHistory(t *testing.T) {
	s := summarizeHistory(sampleEntries())

	assert.Equal(t, 3, s.total)
	assert.Equal(t, 2, s.approved)
	assert.Equal(t, 1, s.caution)
	assert.Equal(t, 1, s.aborted)
	assert.InDelta(t, 5.0, s.avgScore, 1e-9) // (2+8+5)/3
	assert.Equal(t, 2, s.bySymbol["BTCUSDT"])
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, s.symbols())
}

func TestSummarizeHistory_Empty(t *testing.T) {
	s := summarizeHistory(nil)

	assert.Equal(t, 0, s.total)
	assert.Zero(t, s.avgScore)
}

func TestWriteHistoryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.csv")
	require.NoError(t, WriteHistoryCSV(sampleEntries(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Time,Symbol,Side,Amount,Price")
	assert.Contains(t, text, "BTCUSDT,BUY,0.1")
	assert.Contains(t, text, "PROCEED")
	assert.Contains(t, text, "SUMMARY: total=3; approved=2; cautioned=1; aborted=1; avg_score=5.0")

	// header + 3 entries + summary row
	assert.Equal(t, 5, strings.Count(text, "\n"))
}

func TestWriteHistoryCSV_DelegatesExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.xlsx")
	require.NoError(t, WriteHistoryCSV(sampleEntries(), path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	assert.Contains(t, fx.GetSheetList(), "Decisions")
}

func TestWriteHistoryXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.xlsx")
	require.NoError(t, WriteHistoryXLSX(sampleEntries(), path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	assert.ElementsMatch(t, []string{"Decisions", "Summary"}, fx.GetSheetList())

	header, err := fx.GetCellValue("Decisions", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Time", header)

	symbol, err := fx.GetCellValue("Decisions", "B2")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", symbol)

	verdict, err := fx.GetCellValue("Decisions", "G3")
	require.NoError(t, err)
	assert.Equal(t, "ABORT", verdict)

	title, err := fx.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "DECISION SUMMARY", title)

	total, err := fx.GetCellValue("Summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "3", total)

	avg, err := fx.GetCellValue("Summary", "B8")
	require.NoError(t, err)
	assert.Equal(t, "5.0", avg)
}

func TestDefaultOutputDir(t *testing.T) {
	assert.Equal(t, filepath.Join("reports", "BTCUSDT"), DefaultOutputDir("btcusdt"))
	assert.Equal(t, filepath.Join("reports", "PORTFOLIO"), DefaultOutputDir("  "))
}
