// Package reporting renders risk decisions for terminals and exports the
// decision history to CSV, JSON, and Excel workbooks.
package reporting

import (
	"github.com/tradeops/riskgate/internal/journal"
	"github.com/tradeops/riskgate/pkg/types"
)

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	PrintDecision(input types.RiskCheckInput, result *types.RiskCheckResult)
	PrintHistory(entries []journal.Entry)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteHistoryCSV(entries []journal.Entry, path string) error
	WriteHistoryXLSX(entries []journal.Entry, path string) error
	WriteHistoryJSON(entries []journal.Entry, path string) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(symbol string) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
	PathManager
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle   int
	BaseStyle     int
	ApprovedStyle int
	RejectedStyle int
	SummaryStyle  int
	TitleStyle    int
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	EnableConsole   bool
	EnableFiles     bool
	OutputDirectory string
	ExcelEnabled    bool
	CSVEnabled      bool
	JSONEnabled     bool
}
