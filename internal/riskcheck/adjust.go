package riskcheck

import (
	"context"
	"fmt"
	"math"

	"github.com/tradeops/riskgate/internal/sizing"
	"github.com/tradeops/riskgate/pkg/types"
)

const (
	// baseRiskPerTrade and riskScoreSlope map the 1..10 risk score onto a
	// per-trade risk fraction: 5% at score 0 shrinking toward the 1% floor.
	baseRiskPerTrade = 0.05
	riskScoreSlope   = 200.0
	minRiskPerTrade  = 0.01
)

// riskPerTradeFor converts a consolidated risk score into the fraction of
// equity a single trade may put at risk.
func riskPerTradeFor(riskScore int) float64 {
	return math.Max(minRiskPerTrade, baseRiskPerTrade-float64(riskScore)/riskScoreSlope)
}

// adjust computes the advisory trade parameters attached to every result.
// It never fails: when sizing cannot be computed the requested amount is
// halved as a conservative stand-in.
func (p *Pipeline) adjust(ctx context.Context, input types.RiskCheckInput, g *gathered, riskScore int) *types.RiskAdjustments {
	adj := &types.RiskAdjustments{RiskPerTrade: riskPerTradeFor(riskScore)}

	price := g.price
	if price <= 0 {
		adj.SuggestedAmount = input.Amount / 2
		adj.Reasoning = "no reliable price, suggested amount halved"
		return adj
	}

	equity := 0.0
	if g.account.ok() && g.account.value != nil {
		equity = g.account.value.Equity()
	}

	base := sizing.DefaultPositionSize(input.Symbol, price)
	size := sizing.TimeframePositionSize(input.Timeframe, base, equity, adj.RiskPerTrade)
	reasoning := fmt.Sprintf("risk score %d allows %.1f%% risk per trade", riskScore, adj.RiskPerTrade*100)

	if p.deps.Sizing != nil {
		res := call(ctx, p.cfg.CallTimeout, "position_sizing", func(ctx context.Context) (*types.SizingRecommendation, error) {
			params := types.SizingParams{
				Symbol:       input.Symbol,
				Side:         input.Side,
				Timeframe:    input.Timeframe,
				Price:        price,
				RiskPerTrade: adj.RiskPerTrade,
				BaseSize:     base,
			}
			var account types.AccountBalance
			if g.account.ok() && g.account.value != nil {
				account = *g.account.value
			}
			return p.deps.Sizing.CalculatePositionSize(ctx, params, account)
		})
		switch {
		case res.ok() && res.value != nil && res.value.RecommendedSize > 0:
			size = res.value.RecommendedSize
			if res.value.Reasoning != "" {
				reasoning = res.value.Reasoning
			}
		case !res.ok():
			p.log.Warn().Err(res.err).Msg("position sizing unavailable, halving requested amount")
			size = input.Amount / 2
			reasoning = "position sizing unavailable, requested amount halved"
		}
	}

	// Never suggest more than the caller asked for.
	if size > input.Amount {
		size = input.Amount
	}
	adj.SuggestedAmount = size
	adj.Reasoning = reasoning

	sltp := p.orderParams.CalculateTechnicalStopLossTakeProfit(g.candles.value, input.Side, price, input.Timeframe, input.Symbol)
	if sltp != nil && sltp.StopLoss > 0 && sltp.TakeProfit > 0 {
		stop, take := p.orderParams.ValidateTimeframeStopLossTakeProfit(input.Side, price, sltp.StopLoss, sltp.TakeProfit, input.Timeframe, input.Symbol)
		adj.StopLoss = stop
		adj.TakeProfit = take
	}
	return adj
}
