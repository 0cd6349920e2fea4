// Package notifications pushes risk decisions to external alert channels.
package notifications

import (
	"context"

	"github.com/tradeops/riskgate/pkg/types"
)

// Notifier delivers the outcome of a risk check to an alert channel.
type Notifier interface {
	NotifyDecision(ctx context.Context, input types.RiskCheckInput, result *types.RiskCheckResult) error
}

// NopNotifier drops every notification. Used when no channel is configured.
type NopNotifier struct{}

func (NopNotifier) NotifyDecision(context.Context, types.RiskCheckInput, *types.RiskCheckResult) error {
	return nil
}
