package common

import (
	"github.com/rs/zerolog"

	"github.com/tradeops/riskgate/internal/config"
	"github.com/tradeops/riskgate/internal/journal"
	"github.com/tradeops/riskgate/internal/notifications"
	"github.com/tradeops/riskgate/internal/providers/bybit"
	"github.com/tradeops/riskgate/internal/providers/local"
	"github.com/tradeops/riskgate/internal/providers/openai"
	"github.com/tradeops/riskgate/internal/riskcheck"
)

// BuildDeps assembles the pipeline collaborators from configuration. Exchange
// providers are nil without API credentials; the pipeline degrades instead of
// failing, so callers only need to warn.
func BuildDeps(cfg *config.Config, log zerolog.Logger) riskcheck.Deps {
	deps := riskcheck.Deps{
		Technical: local.NewAnalysisProvider(),
		Sizing:    local.NewSizingProvider(),
	}

	if cfg.Exchange.APIKey != "" && cfg.Exchange.APISecret != "" {
		client := bybit.NewClient(bybit.Config{
			APIKey:    cfg.Exchange.APIKey,
			APISecret: cfg.Exchange.APISecret,
			Testnet:   cfg.Exchange.Testnet,
			Demo:      cfg.Exchange.Demo,
			Category:  cfg.Exchange.Category,
		})
		deps.Account = client
		deps.Portfolio = client
		deps.RiskMetrics = client
		deps.MarketData = client
		log.Info().Str("environment", client.Environment()).Msg("bybit providers configured")
	} else {
		log.Warn().Msg("no exchange credentials, account/portfolio/market checks will degrade")
	}

	switch cfg.Consolidation.Provider {
	case "openai":
		deps.Consolidation = openai.NewConsolidator(cfg.Consolidation.OpenAIKey, cfg.Consolidation.OpenAIModel)
		log.Info().Str("model", cfg.Consolidation.OpenAIModel).Msg("openai consolidation configured")
	default:
		deps.Consolidation = local.NewConsolidator()
	}

	return deps
}

// OpenJournal opens the decision journal when enabled. A nil journal with a
// nil error means journaling is off.
func OpenJournal(cfg *config.Config) (*journal.SQLite, error) {
	if !cfg.Journal.Enabled {
		return nil, nil
	}
	return journal.NewSQLite(cfg.Journal.Path)
}

// BuildNotifier returns the configured notifier, or the no-op one.
func BuildNotifier(cfg *config.Config, log zerolog.Logger) notifications.Notifier {
	if !cfg.Telegram.Enabled {
		return notifications.NopNotifier{}
	}
	notifier, err := notifications.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		log.Warn().Err(err).Msg("telegram notifier unavailable, alerts disabled")
		return notifications.NopNotifier{}
	}
	return notifier
}
