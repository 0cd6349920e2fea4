package main

import (
	"flag"
	"fmt"
	"strings"
)

// RiskFlags holds all command line flags for the risk check command
type RiskFlags struct {
	// Configuration
	ConfigFile *string

	// Trade under review
	Symbol    *string
	Side      *string
	Amount    *float64
	Price     *float64
	Timeframe *string
	BotID     *string
	Strategy  *string

	// Quick screen mode
	Quick   *bool
	Balance *float64

	// Journal options
	History *bool
	Limit   *int
	Export  *string

	// Output options
	EnvFile *string

	// Help and version
	ShowVersion *bool
	ShowHelp    *bool
}

// NewRiskFlags creates and registers all command line flags
func NewRiskFlags() *RiskFlags {
	return &RiskFlags{
		// Configuration
		ConfigFile: flag.String("config", "", "Path to configuration file (JSON or YAML)"),

		// Trade under review
		Symbol:    flag.String("symbol", "", "Trading symbol (e.g. BTCUSDT)"),
		Side:      flag.String("side", "BUY", "Trade side (BUY, SELL, LONG, SHORT)"),
		Amount:    flag.Float64("amount", 0, "Proposed position size in base units"),
		Price:     flag.Float64("price", 0, "Proposed entry price (0 = resolve from market)"),
		Timeframe: flag.String("timeframe", "1h", "Decision timeframe (1m, 5m, 15m, 30m, 1h, 4h, 1d, 1w)"),
		BotID:     flag.String("bot-id", "", "Bot identifier for portfolio scoping"),
		Strategy:  flag.String("strategy", "", "Strategy name, recorded with the decision"),

		// Quick screen mode
		Quick:   flag.Bool("quick", false, "Run the offline quick screen instead of the full pipeline"),
		Balance: flag.Float64("balance", 10000, "Account balance for the quick screen"),

		// Journal options
		History: flag.Bool("history", false, "Print recorded decisions instead of running a check"),
		Limit:   flag.Int("limit", 20, "Number of journal entries to show or export"),
		Export:  flag.String("export", "", "Export journal entries to file (.csv, .xlsx or .json)"),

		// Output options
		EnvFile: flag.String("env", ".env", "Environment file path"),

		// Help and version
		ShowVersion: flag.Bool("version", false, "Show version information"),
		ShowHelp:    flag.Bool("help", false, "Show detailed help"),
	}
}

// ValidateRiskFlags performs validation on flag combinations
func ValidateRiskFlags(flags *RiskFlags) error {
	// History mode needs no trade; everything else does
	if *flags.History {
		if *flags.Limit <= 0 {
			return fmt.Errorf("limit must be positive, got: %d", *flags.Limit)
		}
		return nil
	}

	if *flags.Symbol == "" {
		return fmt.Errorf("symbol is required (use -symbol BTCUSDT)")
	}
	if len(*flags.Symbol) < 3 {
		return fmt.Errorf("symbol must be at least 3 characters, got: %s", *flags.Symbol)
	}
	if *flags.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got: %v", *flags.Amount)
	}
	if *flags.Price < 0 {
		return fmt.Errorf("price must not be negative, got: %v", *flags.Price)
	}
	if *flags.Quick && *flags.Balance <= 0 {
		return fmt.Errorf("balance must be positive for the quick screen, got: %v", *flags.Balance)
	}

	if *flags.Export != "" {
		lower := strings.ToLower(*flags.Export)
		if !strings.HasSuffix(lower, ".csv") && !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".json") {
			return fmt.Errorf("export path must end in .csv, .xlsx or .json, got: %s", *flags.Export)
		}
	}

	return nil
}

// PrintUsageExamples prints usage examples
func PrintUsageExamples() {
	examples := []struct {
		command     string
		description string
	}{
		{
			"riskcheck -symbol BTCUSDT -side BUY -amount 0.1",
			"Vet a BTC long through the full pipeline",
		},
		{
			"riskcheck -symbol ETHUSDT -side SELL -amount 1.5 -price 3000 -timeframe 4h",
			"Vet an ETH short at a specific price on the 4-hour timeframe",
		},
		{
			"riskcheck -config configs/production.yaml -symbol BTCUSDT -side BUY -amount 0.1",
			"Load configuration from file",
		},
		{
			"riskcheck -quick -symbol BTCUSDT -side BUY -amount 0.05 -balance 25000",
			"Offline quick screen, no network calls",
		},
		{
			"riskcheck -history -limit 50",
			"Show the last 50 recorded decisions",
		},
		{
			"riskcheck -history -symbol BTCUSDT -export reports/btc.xlsx",
			"Export the BTC decision history to an Excel workbook",
		},
	}

	fmt.Printf("\n📚 USAGE EXAMPLES:\n")
	fmt.Printf("%s\n", strings.Repeat("-", 60))

	for _, example := range examples {
		fmt.Printf("\n• %s\n", example.description)
		fmt.Printf("  %s\n", example.command)
	}
}

// PrintFlagGroups prints flags organized by category for better readability
func PrintFlagGroups() {
	fmt.Printf(`
📊 TRADE FLAGS:
  -symbol SYMBOL        Trading symbol (required outside -history mode)
  -side SIDE            Trade side: BUY, SELL, LONG, SHORT (default: BUY)
  -amount SIZE          Proposed position size in base units
  -price PRICE          Proposed entry price, 0 resolves from market (default: 0)
  -timeframe TF         Decision timeframe: 1m, 5m, 15m, 30m, 1h, 4h, 1d, 1w (default: 1h)
  -bot-id ID            Bot identifier for portfolio scoping
  -strategy NAME        Strategy name, recorded with the decision

⚡ QUICK SCREEN FLAGS:
  -quick                Offline screen using approximate prices, no network
  -balance AMOUNT       Account balance for the quick screen (default: 10000)

📜 JOURNAL FLAGS:
  -history              Print recorded decisions instead of running a check
  -limit N              Number of entries to show or export (default: 20)
  -export FILE          Export entries to .csv, .xlsx or .json

🔧 CONFIGURATION FLAGS:
  -config FILE          Configuration file (JSON or YAML)
  -env FILE             Environment file path (default: .env)

❓ HELP FLAGS:
  -version              Show version information
  -help                 Show this help message

EXIT CODES:
  0  trade approved (or informational mode completed)
  1  trade not approved (CAUTION or ABORT)
  2  operational error
`)
}
