package local

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tradeops/riskgate/internal/logger"
	"github.com/tradeops/riskgate/pkg/types"
)

const (
	proceedBelow = 3
	cautionBelow = 7
)

// Consolidator derives a verdict from the check outcomes and context with a
// fixed additive rubric. It is the no-dependency alternative to an LLM
// consolidation provider and deliberately errs on the strict side.
type Consolidator struct {
	log zerolog.Logger
}

// NewConsolidator returns a ready heuristic consolidator.
func NewConsolidator() *Consolidator {
	return &Consolidator{log: logger.Component("local_consolidation")}
}

// AnalyzeRisk scores the payload: two points per failed check plus context
// penalties, clamped to 1..10.
func (c *Consolidator) AnalyzeRisk(ctx context.Context, payload types.ConsolidationPayload) (*types.ConsolidationVerdict, error) {
	score := 1
	var notes []string

	failed := 0
	for _, entry := range payload.Checks {
		if !entry.Check.Approved {
			failed++
		}
	}
	if failed > 0 {
		score += 2 * failed
		notes = append(notes, fmt.Sprintf("%d checks failed", failed))
	}

	if payload.MarketConditions != nil {
		switch payload.MarketConditions.Condition {
		case types.MarketConditionExtremeVolatility:
			score += 2
			notes = append(notes, "extreme volatility")
		case types.MarketConditionVolatile:
			score++
			notes = append(notes, "volatile market")
		}
	}

	if payload.RiskMetrics != nil {
		if payload.RiskMetrics.ExposurePct > 50 {
			score++
			notes = append(notes, fmt.Sprintf("exposure %.0f%%", payload.RiskMetrics.ExposurePct))
		}
		if payload.RiskMetrics.MaxDrawdownPct > 15 {
			score++
			notes = append(notes, fmt.Sprintf("drawdown %.0f%%", payload.RiskMetrics.MaxDrawdownPct))
		}
	}

	// Missing context is itself a risk; each absent slice costs a point.
	missing := 0
	if payload.AccountBalance == nil {
		missing++
	}
	if payload.PortfolioInfo == nil {
		missing++
	}
	if payload.MarketConditions == nil {
		missing++
	}
	if payload.RiskMetrics == nil {
		missing++
	}
	if missing > 0 {
		score += missing
		notes = append(notes, fmt.Sprintf("%d context slices missing", missing))
	}

	if score > 10 {
		score = 10
	}

	verdict := &types.ConsolidationVerdict{
		RiskScore:      score,
		Recommendation: recommendationFor(score),
	}
	if len(notes) == 0 {
		verdict.Reasoning = "no risk flags raised"
	} else {
		verdict.Reasoning = strings.Join(notes, ", ")
	}

	c.log.Debug().
		Str("symbol", payload.Symbol).
		Int("score", score).
		Str("recommendation", string(verdict.Recommendation)).
		Msg("heuristic verdict")

	return verdict, nil
}

func recommendationFor(score int) types.Recommendation {
	switch {
	case score < proceedBelow:
		return types.RecommendationProceed
	case score < cautionBelow:
		return types.RecommendationCaution
	default:
		return types.RecommendationAbort
	}
}
