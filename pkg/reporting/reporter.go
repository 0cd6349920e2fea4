package reporting

import (
	"path/filepath"

	"github.com/tradeops/riskgate/internal/journal"
	"github.com/tradeops/riskgate/pkg/types"
)

// DefaultReporter implements the complete Reporter interface
type DefaultReporter struct {
	console *DefaultConsoleReporter
	csv     *DefaultCSVReporter
	excel   *DefaultExcelReporter
	json    *DefaultJSONFormatter
	paths   *DefaultPathManager
}

// NewDefaultReporter creates a new default reporter with all functionality
func NewDefaultReporter() *DefaultReporter {
	return &DefaultReporter{
		console: NewDefaultConsoleReporter(),
		csv:     NewDefaultCSVReporter(),
		excel:   NewDefaultExcelReporter(),
		json:    NewDefaultJSONFormatter(),
		paths:   NewDefaultPathManager(),
	}
}

// Console output methods
func (r *DefaultReporter) PrintDecision(input types.RiskCheckInput, result *types.RiskCheckResult) {
	r.console.PrintDecision(input, result)
}

func (r *DefaultReporter) PrintHistory(entries []journal.Entry) {
	r.console.PrintHistory(entries)
}

// File output methods
func (r *DefaultReporter) WriteHistoryCSV(entries []journal.Entry, path string) error {
	return r.csv.WriteHistoryCSV(entries, path)
}

func (r *DefaultReporter) WriteHistoryXLSX(entries []journal.Entry, path string) error {
	return r.excel.WriteHistoryXLSX(entries, path)
}

func (r *DefaultReporter) WriteHistoryJSON(entries []journal.Entry, path string) error {
	return r.json.WriteHistoryJSON(entries, path)
}

// Path management methods
func (r *DefaultReporter) GetDefaultOutputDir(symbol string) string {
	return r.paths.GetDefaultOutputDir(symbol)
}

func (r *DefaultReporter) EnsureDirectoryExists(path string) error {
	return r.paths.EnsureDirectoryExists(path)
}

// ReportingManager provides a high-level interface for all reporting needs
type ReportingManager struct {
	reporter *DefaultReporter
	config   ReportingConfig
}

// NewReportingManager creates a new reporting manager with configuration
func NewReportingManager(config ReportingConfig) *ReportingManager {
	return &ReportingManager{
		reporter: NewDefaultReporter(),
		config:   config,
	}
}

// ReportHistory outputs recorded decisions according to configuration
func (m *ReportingManager) ReportHistory(entries []journal.Entry, symbol string) error {
	if m.config.EnableConsole {
		m.reporter.PrintHistory(entries)
	}

	if m.config.EnableFiles {
		outputDir := m.config.OutputDirectory
		if outputDir == "" {
			outputDir = m.reporter.GetDefaultOutputDir(symbol)
		}

		if m.config.CSVEnabled {
			if err := m.reporter.WriteHistoryCSV(entries, filepath.Join(outputDir, "decisions.csv")); err != nil {
				return err
			}
		}

		if m.config.ExcelEnabled {
			if err := m.reporter.WriteHistoryXLSX(entries, filepath.Join(outputDir, "decisions.xlsx")); err != nil {
				return err
			}
		}

		if m.config.JSONEnabled {
			if err := m.reporter.WriteHistoryJSON(entries, filepath.Join(outputDir, "decisions.json")); err != nil {
				return err
			}
		}
	}

	return nil
}
