package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/tradeops/riskgate/internal/journal"
	"github.com/tradeops/riskgate/pkg/types"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteHistoryXLSX writes recorded decisions to an Excel workbook with one
// sheet for the decisions and one for aggregate statistics.
func (r *DefaultExcelReporter) WriteHistoryXLSX(entries []journal.Entry, path string) error {
	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const decisionsSheet = "Decisions"
	const summarySheet = "Summary"

	fx.SetSheetName(fx.GetSheetName(0), decisionsSheet)
	if _, err := fx.NewSheet(summarySheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeDecisionsSheet(fx, decisionsSheet, entries, styles); err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, summarySheet, entries, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

// createExcelStyles creates all Excel styles
func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	// Header style - Dark slate gray background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Base style (light borders)
	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Approved style (green text on light green)
	styles.ApprovedStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Color: "008000",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"E6FFE6"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Rejected style (red text on light red)
	styles.RejectedStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Color: "FF0000",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFE6E6"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Summary style (blue background)
	styles.SummaryStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 2},
			{Type: "right", Color: "000000", Style: 2},
			{Type: "top", Color: "000000", Style: 2},
			{Type: "bottom", Color: "000000", Style: 2},
		},
	})
	if err != nil {
		return styles, err
	}

	// Title style (dark gray background, larger font)
	styles.TitleStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   12,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 3},
			{Type: "right", Color: "000000", Style: 3},
			{Type: "top", Color: "000000", Style: 3},
			{Type: "bottom", Color: "000000", Style: 3},
		},
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

// writeDecisionsSheet writes one row per recorded decision.
func (r *DefaultExcelReporter) writeDecisionsSheet(fx *excelize.File, sheet string, entries []journal.Entry, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 19) // Time
	fx.SetColWidth(sheet, "B", "B", 12) // Symbol
	fx.SetColWidth(sheet, "C", "C", 8)  // Side
	fx.SetColWidth(sheet, "D", "D", 12) // Amount
	fx.SetColWidth(sheet, "E", "E", 14) // Price
	fx.SetColWidth(sheet, "F", "F", 8)  // Score
	fx.SetColWidth(sheet, "G", "G", 16) // Recommendation
	fx.SetColWidth(sheet, "H", "H", 10) // Approved
	fx.SetColWidth(sheet, "I", "I", 45) // Reasoning
	fx.SetColWidth(sheet, "J", "J", 16) // Suggested Amount
	fx.SetColWidth(sheet, "K", "K", 12) // Stop Loss
	fx.SetColWidth(sheet, "L", "L", 12) // Take Profit

	headers := []string{
		"Time", "Symbol", "Side", "Amount", "Price", "Score",
		"Recommendation", "Approved", "Reasoning", "Suggested Amount", "Stop Loss", "Take Profit",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}

	for rowIdx, e := range entries {
		row := rowIdx + 2
		approved := "NO"
		if e.Approved {
			approved = "YES"
		}

		values := []interface{}{
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Symbol,
			string(e.Side),
			e.Amount,
			e.Price,
			e.RiskScore,
			string(e.Recommendation),
			approved,
			e.Reasoning,
			e.Adjustments.SuggestedAmount,
			e.Adjustments.StopLoss,
			e.Adjustments.TakeProfit,
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			fx.SetCellValue(sheet, cell, v)
			fx.SetCellStyle(sheet, cell, cell, styles.BaseStyle)
		}

		// Color the verdict cell by recommendation
		verdictCell, _ := excelize.CoordinatesToCellName(7, row)
		fx.SetCellStyle(sheet, verdictCell, verdictCell, verdictStyle(e.Recommendation, styles))
	}

	if len(entries) > 0 {
		fx.AutoFilter(sheet, fmt.Sprintf("A1:L%d", len(entries)+1), []excelize.AutoFilterOptions{})
	}

	return nil
}

// writeSummarySheet writes aggregate statistics over the recorded decisions.
func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, entries []journal.Entry, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 24)
	fx.SetColWidth(sheet, "B", "B", 18)

	fx.MergeCell(sheet, "A1", "B1")
	fx.SetCellValue(sheet, "A1", "DECISION SUMMARY")
	fx.SetCellStyle(sheet, "A1", "B1", styles.TitleStyle)

	s := summarizeHistory(entries)
	approvalRate := 0.0
	if s.total > 0 {
		approvalRate = float64(s.approved) / float64(s.total) * 100
	}

	rows := []struct {
		label string
		value interface{}
	}{
		{"Total Decisions", s.total},
		{"Approved", s.approved},
		{"Cautioned", s.caution},
		{"Aborted", s.aborted},
		{"Approval Rate", fmt.Sprintf("%.1f%%", approvalRate)},
		{"Average Risk Score", fmt.Sprintf("%.1f", s.avgScore)},
	}

	row := 3
	for _, item := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		fx.SetCellValue(sheet, labelCell, item.label)
		fx.SetCellValue(sheet, valueCell, item.value)
		fx.SetCellStyle(sheet, labelCell, valueCell, styles.BaseStyle)
		row++
	}

	if len(s.bySymbol) > 0 {
		row++
		headerCell, _ := excelize.CoordinatesToCellName(1, row)
		countCell, _ := excelize.CoordinatesToCellName(2, row)
		fx.SetCellValue(sheet, headerCell, "BY SYMBOL")
		fx.SetCellStyle(sheet, headerCell, countCell, styles.SummaryStyle)
		row++

		for _, symbol := range s.symbols() {
			labelCell, _ := excelize.CoordinatesToCellName(1, row)
			valueCell, _ := excelize.CoordinatesToCellName(2, row)
			fx.SetCellValue(sheet, labelCell, symbol)
			fx.SetCellValue(sheet, valueCell, s.bySymbol[symbol])
			fx.SetCellStyle(sheet, labelCell, valueCell, styles.BaseStyle)
			row++
		}
	}

	return nil
}

func verdictStyle(rec types.Recommendation, styles ExcelStyles) int {
	switch rec {
	case types.RecommendationProceed:
		return styles.ApprovedStyle
	case types.RecommendationAbort:
		return styles.RejectedStyle
	default:
		return styles.BaseStyle
	}
}

// Package-level convenience function
func WriteHistoryXLSX(entries []journal.Entry, path string) error {
	reporter := NewDefaultExcelReporter()
	return reporter.WriteHistoryXLSX(entries, path)
}
