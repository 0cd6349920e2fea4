package riskcheck

import (
	"fmt"
	"sync"

	"github.com/tradeops/riskgate/pkg/types"
)

// checkContext is the read-only view every assessor consumes. Assessors never
// touch the providers directly; everything they need was gathered up front.
type checkContext struct {
	input types.RiskCheckInput
	price float64
	g     *gathered
	cfg   Config
}

type checkFunc func(cc *checkContext) types.IndividualRiskCheck

type checkSpec struct {
	name string
	run  checkFunc
}

// checkTable fixes both the set of assessors and their reporting order. The
// assessors run concurrently but results always land in table order.
var checkTable = []checkSpec{
	{"position", checkPositionRisk},
	{"portfolio", checkPortfolioRisk},
	{"technical", checkTechnicalRisk},
	{"account", checkAccountRisk},
	{"market", checkMarketRisk},
}

func criticalCheck(reason string) types.IndividualRiskCheck {
	return types.IndividualRiskCheck{
		Approved:  false,
		RiskLevel: types.RiskLevelCritical,
		Reasoning: reason,
	}
}

// assess runs every assessor in parallel against the same gathered context.
// A crashing assessor is converted into a critical rejection for its own slot
// without disturbing the others.
func (p *Pipeline) assess(cc *checkContext) []types.CheckEntry {
	entries := make([]types.CheckEntry, len(checkTable))

	var wg sync.WaitGroup
	wg.Add(len(checkTable))
	for i, spec := range checkTable {
		go func(i int, spec checkSpec) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.log.Error().Str("check", spec.name).Interface("panic", r).Msg("risk check crashed")
					entries[i] = types.CheckEntry{
						Name:  spec.name,
						Check: criticalCheck(fmt.Sprintf("check crashed: %v", r)),
					}
				}
			}()
			entries[i] = types.CheckEntry{Name: spec.name, Check: spec.run(cc)}
		}(i, spec)
	}
	wg.Wait()

	return entries
}

// checkPositionRisk rejects trades whose notional value claims too large a
// share of account equity.
func checkPositionRisk(cc *checkContext) types.IndividualRiskCheck {
	if !cc.g.account.ok() {
		return criticalCheck(fmt.Sprintf("account balance unavailable: %v", cc.g.account.err))
	}
	bal := cc.g.account.value
	if bal == nil || bal.Equity() <= 0 {
		return criticalCheck("account equity is zero or unknown")
	}
	if cc.price <= 0 {
		return criticalCheck("no reference price available to value the position")
	}

	positionValue := cc.input.Amount * cc.price
	riskPct := positionValue / bal.Equity() * 100
	maxPct := cc.cfg.MaxPositionRiskPct

	check := types.IndividualRiskCheck{
		Approved: riskPct <= maxPct,
		Metrics: map[string]float64{
			"position_value": positionValue,
			"risk_pct":       riskPct,
			"account_equity": bal.Equity(),
		},
	}
	switch {
	case riskPct < maxPct*0.5:
		check.RiskLevel = types.RiskLevelLow
	case riskPct < maxPct*0.8:
		check.RiskLevel = types.RiskLevelMedium
	case riskPct <= maxPct:
		check.RiskLevel = types.RiskLevelHigh
	default:
		check.RiskLevel = types.RiskLevelCritical
	}
	if check.Approved {
		check.Reasoning = fmt.Sprintf("position uses %.2f%% of equity, within the %.0f%% cap", riskPct, maxPct)
	} else {
		check.Reasoning = fmt.Sprintf("position would use %.2f%% of equity, above the %.0f%% cap", riskPct, maxPct)
	}
	return check
}

// checkPortfolioRisk bounds the number of concurrently open positions and
// reports existing exposure on the requested symbol.
func checkPortfolioRisk(cc *checkContext) types.IndividualRiskCheck {
	if !cc.g.positions.ok() {
		return criticalCheck(fmt.Sprintf("portfolio positions unavailable: %v", cc.g.positions.err))
	}

	positions := cc.g.positions.value
	open := len(positions)
	maxOpen := cc.cfg.MaxOpenPositions

	sameSymbol := 0
	totalExposure := 0.0
	for _, pos := range positions {
		totalExposure += pos.Value()
		if types.SameSymbol(pos.Symbol, cc.input.Symbol) {
			sameSymbol++
		}
	}

	check := types.IndividualRiskCheck{
		Approved: open < maxOpen,
		Metrics: map[string]float64{
			"open_positions":    float64(open),
			"max_open":          float64(maxOpen),
			"same_symbol_count": float64(sameSymbol),
			"total_exposure":    totalExposure,
		},
	}
	switch {
	case open < maxOpen-2:
		check.RiskLevel = types.RiskLevelLow
	case open < maxOpen:
		check.RiskLevel = types.RiskLevelMedium
	default:
		check.RiskLevel = types.RiskLevelHigh
	}
	if check.Approved {
		check.Reasoning = fmt.Sprintf("%d of %d position slots used", open, maxOpen)
		if sameSymbol > 0 {
			check.Reasoning += fmt.Sprintf(", %d already on %s", sameSymbol, cc.input.Symbol)
		}
	} else {
		check.Reasoning = fmt.Sprintf("position limit reached: %d open, maximum %d", open, maxOpen)
	}
	return check
}

// checkTechnicalRisk requires the trade direction to agree with the signal
// majority and the volatility regime to stay out of the danger zone.
func checkTechnicalRisk(cc *checkContext) types.IndividualRiskCheck {
	if !cc.g.analysis.ok() {
		return criticalCheck(fmt.Sprintf("market analysis unavailable: %v", cc.g.analysis.err))
	}
	a := cc.g.analysis.value
	if a == nil {
		return criticalCheck("market analysis returned no snapshot")
	}

	bullish, bearish := a.SignalBias()
	aligned := false
	switch cc.input.Side {
	case types.SideBuy:
		aligned = bullish > bearish
	case types.SideSell:
		aligned = bearish > bullish
	}
	volOK := a.VolatilityRisk != types.RiskLevelHigh

	check := types.IndividualRiskCheck{
		Approved: aligned && volOK,
		Metrics: map[string]float64{
			"bullish_signals": float64(bullish),
			"bearish_signals": float64(bearish),
			"volatility":      a.Volatility,
			"overall_score":   a.OverallScore,
		},
	}
	switch {
	case check.Approved && a.VolatilityRisk == types.RiskLevelLow:
		check.RiskLevel = types.RiskLevelLow
	case check.Approved:
		check.RiskLevel = types.RiskLevelMedium
	default:
		check.RiskLevel = types.RiskLevelHigh
	}
	switch {
	case !aligned:
		check.Reasoning = fmt.Sprintf("%s goes against the signal majority (%d bullish / %d bearish)", cc.input.Side, bullish, bearish)
	case !volOK:
		check.Reasoning = fmt.Sprintf("volatility regime is %s, holding off", a.VolatilityRisk)
	default:
		check.Reasoning = fmt.Sprintf("%s aligned with signals (%d bullish / %d bearish), volatility %s", cc.input.Side, bullish, bearish, a.VolatilityRisk)
	}
	return check
}

// checkAccountRisk verifies the account can fund the trade and still keep a
// margin buffer twice the trade cost.
func checkAccountRisk(cc *checkContext) types.IndividualRiskCheck {
	if !cc.g.account.ok() {
		return criticalCheck(fmt.Sprintf("account balance unavailable: %v", cc.g.account.err))
	}
	bal := cc.g.account.value
	if bal == nil {
		return criticalCheck("account balance returned no data")
	}
	if cc.price <= 0 {
		return criticalCheck("no reference price available to cost the trade")
	}

	cost := cc.input.Amount * cc.price
	funded := bal.AvailableBalance >= cost
	buffered := bal.FreeMargin > 2*cost

	check := types.IndividualRiskCheck{
		Approved: funded && buffered,
		Metrics: map[string]float64{
			"trade_cost":        cost,
			"available_balance": bal.AvailableBalance,
			"free_margin":       bal.FreeMargin,
		},
	}
	switch {
	case check.Approved && bal.FreeMargin > 3*cost:
		check.RiskLevel = types.RiskLevelLow
	case check.Approved:
		check.RiskLevel = types.RiskLevelMedium
	default:
		check.RiskLevel = types.RiskLevelHigh
	}
	switch {
	case !funded:
		check.Reasoning = fmt.Sprintf("available balance %.2f cannot cover trade cost %.2f", bal.AvailableBalance, cost)
	case !buffered:
		check.Reasoning = fmt.Sprintf("free margin %.2f leaves no buffer over trade cost %.2f", bal.FreeMargin, cost)
	default:
		check.Reasoning = fmt.Sprintf("trade cost %.2f covered with %.2f free margin", cost, bal.FreeMargin)
	}
	return check
}

// checkMarketRisk rejects entries into thin or dislocated markets.
func checkMarketRisk(cc *checkContext) types.IndividualRiskCheck {
	if !cc.g.analysis.ok() {
		return criticalCheck(fmt.Sprintf("market analysis unavailable: %v", cc.g.analysis.err))
	}
	a := cc.g.analysis.value
	if a == nil {
		return criticalCheck("market analysis returned no snapshot")
	}

	liquid := a.LiquidityRisk != types.RiskLevelHigh
	calm := a.MarketCondition != types.MarketConditionExtremeVolatility

	check := types.IndividualRiskCheck{
		Approved: liquid && calm,
		Metrics: map[string]float64{
			"volatility":    a.Volatility,
			"overall_score": a.OverallScore,
		},
	}
	switch {
	case !check.Approved:
		check.RiskLevel = types.RiskLevelHigh
	case a.MarketCondition == types.MarketConditionVolatile || a.LiquidityRisk == types.RiskLevelMedium:
		check.RiskLevel = types.RiskLevelMedium
	default:
		check.RiskLevel = types.RiskLevelLow
	}
	switch {
	case !liquid:
		check.Reasoning = "liquidity too thin to enter safely"
	case !calm:
		check.Reasoning = fmt.Sprintf("market condition %s, entries suspended", a.MarketCondition)
	default:
		check.Reasoning = fmt.Sprintf("market %s with %s liquidity risk", a.MarketCondition, a.LiquidityRisk)
	}
	return check
}
