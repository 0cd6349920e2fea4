package notifications

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/tradeops/riskgate/internal/logger"
	"github.com/tradeops/riskgate/internal/rerr"
	"github.com/tradeops/riskgate/pkg/types"
)

// TelegramNotifier sends decision summaries to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    zerolog.Logger
}

// NewTelegramNotifier connects the bot and binds it to a chat.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CategoryProvider, "telegram", "connect bot")
	}
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		log:    logger.Component("telegram"),
	}, nil
}

// NotifyDecision formats the verdict and sends it. The context only guards
// the call site; the bot API library manages its own HTTP timeouts.
func (t *TelegramNotifier) NotifyDecision(ctx context.Context, input types.RiskCheckInput, result *types.RiskCheckResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, formatDecision(input, result))
	msg.ParseMode = "Markdown"

	if _, err := t.bot.Send(msg); err != nil {
		t.log.Warn().Err(err).Str("symbol", input.Symbol).Msg("telegram send failed")
		return rerr.Provider("telegram", err)
	}
	return nil
}

func formatDecision(input types.RiskCheckInput, result *types.RiskCheckResult) string {
	emoji := "✅"
	switch result.Recommendation {
	case types.RecommendationCaution:
		emoji = "⚠️"
	case types.RecommendationAbort:
		emoji = "🚨"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *Risk Check: %s*\n\n", emoji, result.Recommendation)
	fmt.Fprintf(&sb, "Trade: %s %v %s\n", input.Side, input.Amount, input.Symbol)
	fmt.Fprintf(&sb, "Risk score: %d/10, %d/%d checks passed\n",
		result.RiskScore, result.ApprovedCount(), len(result.Checks))
	if result.Reasoning != "" {
		fmt.Fprintf(&sb, "Reasoning: %s\n", result.Reasoning)
	}

	if adj := result.Adjustments; adj != nil {
		fmt.Fprintf(&sb, "\nSuggested size: %v", adj.SuggestedAmount)
		if adj.StopLoss > 0 && adj.TakeProfit > 0 {
			fmt.Fprintf(&sb, "\nSL %v / TP %v", adj.StopLoss, adj.TakeProfit)
		}
	}
	return sb.String()
}
