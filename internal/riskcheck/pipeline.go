// Package riskcheck implements the pre-trade risk assessment pipeline. A
// check moves through gather, assess, consolidate, decide and adjust stages;
// any unexpected failure collapses into a blocking ABORT verdict rather than
// an error to the caller.
package riskcheck

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradeops/riskgate/internal/logger"
	"github.com/tradeops/riskgate/internal/monitoring"
	"github.com/tradeops/riskgate/internal/orderparams"
	"github.com/tradeops/riskgate/internal/providers"
	"github.com/tradeops/riskgate/pkg/types"
)

// failClosedScore is the risk score attached when the pipeline itself fails.
const failClosedScore = 10

// Deps wires the pipeline to its collaborators. Account, Portfolio,
// MarketData, Technical and Consolidation are required for a fully evaluated
// check; a nil entry degrades the dependent checks instead of crashing.
// Sizing is optional.
type Deps struct {
	Account       providers.AccountBalanceProvider
	Portfolio     providers.PortfolioDataProvider
	RiskMetrics   providers.RiskMetricsProvider
	MarketData    providers.MarketDataProvider
	Technical     providers.TechnicalAnalysisProvider
	Consolidation providers.ConsolidationProvider
	Sizing        providers.PositionSizingProvider
}

// Config tunes the pipeline thresholds.
type Config struct {
	CallTimeout        time.Duration `json:"call_timeout"`
	MaxOpenPositions   int           `json:"max_open_positions"`
	MaxPositionRiskPct float64       `json:"max_position_risk_pct"`
	CandleLimit        int           `json:"candle_limit"`
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		CallTimeout:        10 * time.Second,
		MaxOpenPositions:   5,
		MaxPositionRiskPct: 10,
		CandleLimit:        100,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.CallTimeout <= 0 {
		c.CallTimeout = def.CallTimeout
	}
	if c.MaxOpenPositions <= 0 {
		c.MaxOpenPositions = def.MaxOpenPositions
	}
	if c.MaxPositionRiskPct <= 0 {
		c.MaxPositionRiskPct = def.MaxPositionRiskPct
	}
	if c.CandleLimit <= 0 {
		c.CandleLimit = def.CandleLimit
	}
	return c
}

// Pipeline runs risk checks against a fixed set of collaborators. Safe for
// concurrent use; each check builds its own state.
type Pipeline struct {
	deps        Deps
	cfg         Config
	orderParams *orderparams.Service
	log         zerolog.Logger
}

// NewPipeline builds a pipeline around the given collaborators.
func NewPipeline(deps Deps, cfg Config) *Pipeline {
	return &Pipeline{
		deps:        deps,
		cfg:         cfg.normalized(),
		orderParams: orderparams.NewService(),
		log:         logger.Component("risk_pipeline"),
	}
}

// ExecuteRiskCheck vets one proposed trade. It always returns a usable
// result: invalid input, provider panics and internal bugs all surface as a
// blocking ABORT, never as an error or a panic to the caller.
func (p *Pipeline) ExecuteRiskCheck(ctx context.Context, input types.RiskCheckInput) (out *types.RiskCheckResult) {
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("risk pipeline crashed, failing closed")
			out = p.failClosed(input, fmt.Sprintf("pipeline failure: %v", r))
		}
		if out != nil {
			monitoring.RecordRiskCheck(input.Symbol, string(out.Recommendation), out.RiskScore, time.Since(started))
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		p.log.Warn().Err(err).Msg("risk check input rejected")
		return p.failClosed(input, fmt.Sprintf("invalid input: %v", err))
	}

	p.log.Debug().
		Str("symbol", input.Symbol).
		Str("side", string(input.Side)).
		Float64("amount", input.Amount).
		Str("timeframe", string(input.Timeframe)).
		Msg("risk check started")

	g := p.gather(ctx, input)
	if pf := g.firstPanic(); pf != nil {
		return p.failClosed(input, pf.Error())
	}

	cc := &checkContext{input: input, price: g.price, g: g, cfg: p.cfg}
	checks := p.assess(cc)

	verdict := p.consolidate(ctx, input, g, checks)

	approved, recommendation, reasoning := decide(checks, verdict)
	if verdict.Reasoning != "" {
		reasoning += "; " + verdict.Reasoning
	}

	out = &types.RiskCheckResult{
		Approved:       approved,
		RiskScore:      verdict.RiskScore,
		Recommendation: recommendation,
		Reasoning:      reasoning,
		Checks:         checks,
		Timestamp:      time.Now().UTC(),
	}
	out.Adjustments = p.adjust(ctx, input, g, out.RiskScore)

	p.log.Info().
		Str("symbol", input.Symbol).
		Bool("approved", out.Approved).
		Int("risk_score", out.RiskScore).
		Str("recommendation", string(out.Recommendation)).
		Int("checks_passed", out.ApprovedCount()).
		Dur("elapsed", time.Since(started)).
		Msg("risk check complete")
	return out
}

// decide combines the individual checks with the consolidated verdict.
// Unanimous approval plus a PROCEED verdict approves; with at most one
// dissenter and no ABORT the trade may proceed with caution; anything worse
// blocks.
func decide(checks []types.CheckEntry, verdict types.ConsolidationVerdict) (bool, types.Recommendation, string) {
	approvals := 0
	for _, entry := range checks {
		if entry.Check.Approved {
			approvals++
		}
	}
	total := len(checks)

	switch {
	case approvals == total && verdict.Recommendation == types.RecommendationProceed:
		return true, types.RecommendationProceed,
			fmt.Sprintf("all %d checks passed, consolidated analysis recommends proceeding", total)
	case float64(approvals) >= 0.8*float64(total) && verdict.Recommendation != types.RecommendationAbort:
		return false, types.RecommendationCaution,
			fmt.Sprintf("%d/%d checks passed, proceed only with reduced size and caution", approvals, total)
	default:
		return false, types.RecommendationAbort,
			fmt.Sprintf("%d/%d checks passed, trade blocked", approvals, total)
	}
}

// failClosed builds the blocking result used whenever the pipeline cannot
// complete an assessment. Every check slot is annotated so callers still see
// the full shape of a result.
func (p *Pipeline) failClosed(input types.RiskCheckInput, reason string) *types.RiskCheckResult {
	checks := make([]types.CheckEntry, len(checkTable))
	for i, spec := range checkTable {
		checks[i] = types.CheckEntry{
			Name:  spec.name,
			Check: criticalCheck("not evaluated: " + reason),
		}
	}
	return &types.RiskCheckResult{
		Approved:       false,
		RiskScore:      failClosedScore,
		Recommendation: types.RecommendationAbort,
		Reasoning:      reason,
		Adjustments: &types.RiskAdjustments{
			SuggestedAmount: input.Amount / 2,
			RiskPerTrade:    minRiskPerTrade,
			Reasoning:       "conservative fallback after pipeline failure",
		},
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	}
}
