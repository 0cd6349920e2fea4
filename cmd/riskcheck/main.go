package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tradeops/riskgate/cmd/common"
	"github.com/tradeops/riskgate/internal/config"
	"github.com/tradeops/riskgate/internal/journal"
	"github.com/tradeops/riskgate/internal/logger"
	"github.com/tradeops/riskgate/internal/riskcheck"
	"github.com/tradeops/riskgate/pkg/reporting"
	"github.com/tradeops/riskgate/pkg/types"
)

const appName = "riskcheck"

func main() {
	flags := NewRiskFlags()
	flag.Parse()

	if *flags.ShowVersion {
		common.PrintVersion(appName)
		return
	}
	if *flags.ShowHelp {
		common.PrintVersion(appName)
		PrintFlagGroups()
		PrintUsageExamples()
		return
	}

	if err := ValidateRiskFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flags: %v\n", err)
		os.Exit(2)
	}

	if *flags.EnvFile != "" {
		_ = godotenv.Load(*flags.EnvFile)
	}

	cfg, err := config.Load(*flags.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	logger.Setup(cfg.LogLevel, true)
	log := logger.Component("riskcheck_cli")

	symbol := strings.ToUpper(strings.TrimSpace(*flags.Symbol))

	if *flags.Quick {
		runQuick(symbol, flags)
		return
	}
	if *flags.History {
		runHistory(cfg, symbol, flags)
		return
	}

	side, err := types.ParseSide(*flags.Side)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	timeframe, err := types.ParseTimeframe(*flags.Timeframe)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	input := types.RiskCheckInput{
		Symbol:    symbol,
		Side:      side,
		Amount:    *flags.Amount,
		Price:     *flags.Price,
		BotID:     *flags.BotID,
		Strategy:  *flags.Strategy,
		Timeframe: timeframe,
	}

	pipeCfg, err := cfg.PipelineConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid risk configuration: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline := riskcheck.NewPipeline(common.BuildDeps(cfg, log), pipeCfg)
	result := pipeline.ExecuteRiskCheck(ctx, input)

	reporting.PrintDecision(input, result)

	// Journal and notification failures never change the verdict.
	j, err := common.OpenJournal(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("journal unavailable, decision not recorded")
	}
	if j != nil {
		if id, err := j.Record(input, result); err != nil {
			log.Warn().Err(err).Msg("failed to record decision")
		} else {
			log.Debug().Str("id", id).Msg("decision recorded")
		}
		if *flags.Export != "" {
			exportRecent(j, flags, log)
		}
		j.Close()
	}

	if err := common.BuildNotifier(cfg, log).NotifyDecision(ctx, input, result); err != nil {
		log.Warn().Err(err).Msg("decision notification failed")
	}

	if !result.Approved {
		os.Exit(1)
	}
}

// runQuick screens the trade offline with approximate prices.
func runQuick(symbol string, flags *RiskFlags) {
	side, err := types.ParseSide(*flags.Side)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if riskcheck.QuickRiskCheck(symbol, *flags.Amount, side, *flags.Balance) {
		fmt.Printf("✅ %s %v %s passes the quick screen\n", side, *flags.Amount, symbol)
		return
	}
	fmt.Printf("🚨 %s %v %s fails the quick screen\n", side, *flags.Amount, symbol)
	os.Exit(1)
}

// runHistory prints and optionally exports recorded decisions.
func runHistory(cfg *config.Config, symbol string, flags *RiskFlags) {
	if !cfg.Journal.Enabled {
		fmt.Fprintln(os.Stderr, "Journal is disabled in configuration")
		os.Exit(2)
	}

	j, err := journal.NewSQLite(cfg.Journal.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open journal: %v\n", err)
		os.Exit(2)
	}
	defer j.Close()

	var entries []journal.Entry
	if symbol != "" {
		entries, err = j.BySymbol(symbol, *flags.Limit)
	} else {
		entries, err = j.Recent(*flags.Limit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read journal: %v\n", err)
		os.Exit(2)
	}

	reporting.PrintHistory(entries)

	if *flags.Export != "" {
		if err := exportHistory(entries, *flags.Export); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(2)
		}
		fmt.Printf("Exported %d decisions to %s\n", len(entries), *flags.Export)
	}
}

func exportRecent(j *journal.SQLite, flags *RiskFlags, log zerolog.Logger) {
	entries, err := j.Recent(*flags.Limit)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load journal entries for export")
		return
	}
	if err := exportHistory(entries, *flags.Export); err != nil {
		log.Warn().Err(err).Msg("export failed")
		return
	}
	fmt.Printf("Exported %d decisions to %s\n", len(entries), *flags.Export)
}

// exportHistory picks the writer from the file extension.
func exportHistory(entries []journal.Entry, path string) error {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".xlsx"):
		return reporting.WriteHistoryXLSX(entries, path)
	case strings.HasSuffix(strings.ToLower(path), ".json"):
		return reporting.WriteHistoryJSON(entries, path)
	default:
		return reporting.WriteHistoryCSV(entries, path)
	}
}
