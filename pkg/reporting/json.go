package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tradeops/riskgate/internal/journal"
)

// DefaultJSONFormatter implements JSON output functionality
type DefaultJSONFormatter struct{}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{}
}

// FormatHistory formats recorded decisions as indented JSON bytes
func (f *DefaultJSONFormatter) FormatHistory(entries []journal.Entry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}

// WriteHistoryJSON writes recorded decisions to a JSON file.
func (f *DefaultJSONFormatter) WriteHistoryJSON(entries []journal.Entry, path string) error {
	data, err := f.FormatHistory(entries)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

// Package-level convenience function
func WriteHistoryJSON(entries []journal.Entry, path string) error {
	formatter := NewDefaultJSONFormatter()
	return formatter.WriteHistoryJSON(entries, path)
}
