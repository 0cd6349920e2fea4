package riskcheck

import (
	"context"

	"github.com/tradeops/riskgate/internal/monitoring"
	"github.com/tradeops/riskgate/internal/rerr"
	"github.com/tradeops/riskgate/pkg/types"
)

// conservativeScore is the verdict substituted when consolidation is
// unavailable. High enough to block, below the hard pipeline-failure score.
const conservativeScore = 8

// buildConsolidationPayload assembles everything the consolidation provider
// sees. Slices that failed to gather stay nil rather than zero-valued so the
// provider can tell "missing" from "empty".
func buildConsolidationPayload(input types.RiskCheckInput, g *gathered, checks []types.CheckEntry) types.ConsolidationPayload {
	payload := types.ConsolidationPayload{
		Symbol: input.Symbol,
		PositionDetails: types.PositionDetails{
			Side:          input.Side,
			Amount:        input.Amount,
			Price:         g.price,
			PositionValue: input.Amount * g.price,
			TradeType:     input.TradeType,
			Timeframe:     input.Timeframe,
		},
		Checks: checks,
	}

	if g.account.ok() && g.account.value != nil {
		bal := *g.account.value
		payload.AccountBalance = &bal
	}
	if g.positions.ok() {
		info := types.PortfolioInfo{OpenPositions: len(g.positions.value)}
		for _, pos := range g.positions.value {
			info.TotalExposure += pos.Value()
		}
		if g.performance.ok() && g.performance.value != nil {
			perf := *g.performance.value
			info.Performance = &perf
		}
		payload.PortfolioInfo = &info
	}
	if g.riskMetrics.ok() && g.riskMetrics.value != nil {
		metrics := *g.riskMetrics.value
		payload.RiskMetrics = &metrics
	}
	if g.analysis.ok() && g.analysis.value != nil {
		a := g.analysis.value
		payload.TechnicalAnalysis = a
		payload.MarketConditions = &types.MarketConditions{
			Condition:      a.MarketCondition,
			LiquidityRisk:  a.LiquidityRisk,
			VolatilityRisk: a.VolatilityRisk,
			Volatility:     a.Volatility,
		}
	}
	return payload
}

// consolidate hands the full payload to the consolidation provider and
// sanitizes its verdict. Any failure, a panic included, yields the
// conservative blocking verdict instead of an error.
func (p *Pipeline) consolidate(ctx context.Context, input types.RiskCheckInput, g *gathered, checks []types.CheckEntry) types.ConsolidationVerdict {
	payload := buildConsolidationPayload(input, g, checks)

	res := call(ctx, p.cfg.CallTimeout, "consolidation", func(ctx context.Context) (*types.ConsolidationVerdict, error) {
		if p.deps.Consolidation == nil {
			return nil, rerr.ErrNotConfigured
		}
		return p.deps.Consolidation.AnalyzeRisk(ctx, payload)
	})
	if !res.ok() || res.value == nil {
		monitoring.RecordProviderFailure("consolidation")
		p.log.Warn().Err(res.err).Msg("consolidation unavailable, forcing conservative verdict")
		return conservativeVerdict()
	}

	v := *res.value
	switch v.Recommendation {
	case types.RecommendationProceed, types.RecommendationCaution, types.RecommendationAbort:
	default:
		p.log.Warn().Str("recommendation", string(v.Recommendation)).Msg("unusable consolidation verdict, forcing conservative verdict")
		return conservativeVerdict()
	}
	v.RiskScore = clampScore(v.RiskScore)
	return v
}

func conservativeVerdict() types.ConsolidationVerdict {
	return types.ConsolidationVerdict{
		RiskScore:      conservativeScore,
		Recommendation: types.RecommendationAbort,
		Reasoning:      "consolidated risk analysis unavailable",
	}
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
