package reporting

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tradeops/riskgate/internal/journal"
	"github.com/tradeops/riskgate/pkg/types"
)

// DefaultConsoleReporter renders decisions as rounded tables.
type DefaultConsoleReporter struct {
	out io.Writer
}

// NewDefaultConsoleReporter creates a console reporter writing to stdout.
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: os.Stdout}
}

// PrintDecision prints the verdict for one vetted trade, followed by the
// individual checks that produced it.
func (r *DefaultConsoleReporter) PrintDecision(input types.RiskCheckInput, result *types.RiskCheckResult) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("RISK DECISION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"📊 Trade", fmt.Sprintf("%s %v %s", input.Side, input.Amount, input.Symbol)},
		{"💵 Price", fmt.Sprintf("%v", input.Price)},
		{"🎯 Verdict", fmt.Sprintf("%s %s", recommendationEmoji(result.Recommendation), result.Recommendation)},
		{"📈 Risk Score", fmt.Sprintf("%d/10", result.RiskScore)},
		{"🔄 Checks", fmt.Sprintf("%d/%d passed", result.ApprovedCount(), len(result.Checks))},
		{"📝 Reasoning", result.Reasoning},
	})

	if adj := result.Adjustments; adj != nil {
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"💰 Suggested Size", fmt.Sprintf("%v", adj.SuggestedAmount)},
			{"🚨 Stop Loss", fmt.Sprintf("%v", adj.StopLoss)},
			{"🎯 Take Profit", fmt.Sprintf("%v", adj.TakeProfit)},
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 45, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)

	r.printChecks(result.Checks)
}

// printChecks prints one row per risk dimension in pipeline order.
func (r *DefaultConsoleReporter) printChecks(checks []types.CheckEntry) {
	if len(checks) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("INDIVIDUAL CHECKS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Check", "Status", "Level", "Reasoning"})

	for _, entry := range checks {
		status := "✅ pass"
		if !entry.Check.Approved {
			status = "❌ fail"
		}
		t.AppendRow(table.Row{entry.Name, status, entry.Check.RiskLevel, entry.Check.Reasoning})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMin: 30, WidthMax: 50, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

// PrintHistory prints recorded decisions, newest first as the journal
// returns them.
func (r *DefaultConsoleReporter) PrintHistory(entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "No recorded decisions yet.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("DECISION HISTORY")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Time", "Symbol", "Side", "Amount", "Score", "Verdict"})

	for _, e := range entries {
		t.AppendRow(table.Row{
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.Symbol,
			e.Side,
			fmt.Sprintf("%v", e.Amount),
			fmt.Sprintf("%d/10", e.RiskScore),
			fmt.Sprintf("%s %s", recommendationEmoji(e.Recommendation), e.Recommendation),
		})
	}

	t.Render()
	fmt.Fprintln(r.out)
}

func recommendationEmoji(rec types.Recommendation) string {
	switch rec {
	case types.RecommendationProceed:
		return "✅"
	case types.RecommendationCaution:
		return "⚠️"
	default:
		return "🚨"
	}
}

// historySummary aggregates recorded decisions for the export writers.
type historySummary struct {
	total    int
	approved int
	caution  int
	aborted  int
	avgScore float64
	bySymbol map[string]int
}

func summarizeHistory(entries []journal.Entry) historySummary {
	s := historySummary{bySymbol: make(map[string]int)}
	scoreSum := 0
	for _, e := range entries {
		s.total++
		s.bySymbol[e.Symbol]++
		scoreSum += e.RiskScore
		if e.Approved {
			s.approved++
		}
		switch e.Recommendation {
		case types.RecommendationCaution:
			s.caution++
		case types.RecommendationAbort:
			s.aborted++
		}
	}
	if s.total > 0 {
		s.avgScore = float64(scoreSum) / float64(s.total)
	}
	return s
}

func (s historySummary) symbols() []string {
	keys := make([]string, 0, len(s.bySymbol))
	for k := range s.bySymbol {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package-level convenience functions
func PrintDecision(input types.RiskCheckInput, result *types.RiskCheckResult) {
	NewDefaultConsoleReporter().PrintDecision(input, result)
}

func PrintHistory(entries []journal.Entry) {
	NewDefaultConsoleReporter().PrintHistory(entries)
}
