package local

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tradeops/riskgate/internal/logger"
	"github.com/tradeops/riskgate/internal/rerr"
	"github.com/tradeops/riskgate/internal/sizing"
	"github.com/tradeops/riskgate/pkg/types"
)

// SizingProvider recommends position sizes from the built-in timeframe and
// asset class tables.
type SizingProvider struct {
	log zerolog.Logger
}

// NewSizingProvider returns a ready sizing provider.
func NewSizingProvider() *SizingProvider {
	return &SizingProvider{log: logger.Component("local_sizing")}
}

// CalculatePositionSize scales the base size for the timeframe and caps it by
// the account's risk budget.
func (p *SizingProvider) CalculatePositionSize(ctx context.Context, params types.SizingParams, account types.AccountBalance) (*types.SizingRecommendation, error) {
	if params.Symbol == "" {
		return nil, rerr.Validation("local_sizing", "symbol is required")
	}
	if params.Price <= 0 {
		return nil, rerr.Validation("local_sizing", "price must be positive, got %v", params.Price)
	}

	base := params.BaseSize
	if base <= 0 {
		base = sizing.DefaultPositionSize(params.Symbol, params.Price)
	}
	size := sizing.TimeframePositionSize(params.Timeframe, base, account.Equity(), params.RiskPerTrade)

	p.log.Debug().
		Str("symbol", params.Symbol).
		Str("timeframe", string(params.Timeframe)).
		Float64("base", base).
		Float64("size", size).
		Msg("position size recommended")

	return &types.SizingRecommendation{
		RecommendedSize: size,
		Reasoning: fmt.Sprintf("base %.4f on %s with %.1f%% risk per trade",
			base, params.Timeframe, params.RiskPerTrade*100),
	}, nil
}
