// Package local holds the in-process provider implementations: a technical
// analysis engine, a table-driven position sizer and a heuristic risk
// consolidator. They need no network and no credentials, which makes them the
// default wiring and the fallback when external services are not configured.
package local

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tradeops/riskgate/internal/logger"
	"github.com/tradeops/riskgate/internal/rerr"
	"github.com/tradeops/riskgate/internal/technical"
	"github.com/tradeops/riskgate/pkg/types"
)

const (
	// minAnalysisCandles is the shortest history the snapshot rules work on.
	minAnalysisCandles = 30

	fastSMAPeriod = 10
	slowSMAPeriod = 30
	rsiPeriod     = 14
	momentumBars  = 10

	// trendBand is the fast/slow SMA separation needed to call a trend.
	trendBand = 0.005

	// ATR regime ratio thresholds (short-term vs long-term ATR).
	volRatioHigh = 1.5
	volRatioLow  = 0.7

	// Return stdev levels that escalate the market condition.
	volatileStdev = 0.025
	extremeStdev  = 0.04
)

// AnalysisProvider computes market snapshots from raw candles without any
// external service.
type AnalysisProvider struct {
	log zerolog.Logger
}

// NewAnalysisProvider returns a ready analysis provider.
func NewAnalysisProvider() *AnalysisProvider {
	return &AnalysisProvider{log: logger.Component("local_analysis")}
}

// AnalyzeMarket builds the full technical snapshot for a candle history.
// History shorter than 30 candles is an error; every rule here needs a slow
// moving average to compare against.
func (p *AnalysisProvider) AnalyzeMarket(ctx context.Context, req types.MarketAnalysisRequest) (*types.MarketAnalysis, error) {
	if len(req.Candles) < minAnalysisCandles {
		return nil, rerr.Wrap(rerr.ErrInsufficientData, rerr.CategoryAnalysis, "local_analysis",
			fmt.Sprintf("%d candles, need %d", len(req.Candles), minAnalysisCandles))
	}

	closes := make([]float64, len(req.Candles))
	for i, c := range req.Candles {
		closes[i] = c.Close
	}
	currentPrice := closes[len(closes)-1]
	if currentPrice <= 0 {
		return nil, rerr.Analysis("local_analysis", "last close is %v", currentPrice)
	}

	fast := technical.SMA(closes, fastSMAPeriod)
	slow := technical.SMA(closes, slowSMAPeriod)
	rsi := technical.RSI(closes, rsiPeriod)
	momentum := technical.Momentum(closes, momentumBars)
	volatility := technical.CalculateVolatility(req.Candles)

	analysis := &types.MarketAnalysis{
		Symbol:         req.Symbol,
		CurrentPrice:   currentPrice,
		Volatility:     volatility,
		Trend:          trendFor(fast, slow),
		Signals:        buildSignals(currentPrice, fast, slow, rsi, momentum),
		VolatilityRisk: volatilityRegime(req.Candles),
		LiquidityRisk:  liquidityRisk(req.Candles),
	}
	analysis.MarketCondition = marketCondition(analysis.VolatilityRisk, volatility)
	analysis.OverallScore = overallScore(analysis.Signals)

	levels := technical.CalculateLevels(req.Candles, currentPrice)
	analysis.Levels = &levels

	p.log.Debug().
		Str("symbol", req.Symbol).
		Str("trend", string(analysis.Trend)).
		Float64("volatility", volatility).
		Str("condition", string(analysis.MarketCondition)).
		Msg("market snapshot built")

	return analysis, nil
}

// trendFor labels the fast/slow SMA relation; the averages must separate by
// more than the band before a trend is called.
func trendFor(fast, slow float64) types.Trend {
	if slow <= 0 {
		return types.TrendSideways
	}
	switch {
	case fast > slow*(1+trendBand):
		return types.TrendUp
	case fast < slow*(1-trendBand):
		return types.TrendDown
	default:
		return types.TrendSideways
	}
}

// buildSignals votes each indicator independently. The pipeline later
// compares the trade direction against the strict majority of these votes.
func buildSignals(price, fast, slow, rsi, momentum float64) []types.TechnicalSignal {
	signals := make([]types.TechnicalSignal, 0, 4)

	smaSignal := types.TechnicalSignal{Name: "sma_cross", Direction: types.SignalNeutral}
	switch trendFor(fast, slow) {
	case types.TrendUp:
		smaSignal.Direction = types.SignalBullish
	case types.TrendDown:
		smaSignal.Direction = types.SignalBearish
	}
	signals = append(signals, smaSignal)

	rsiSignal := types.TechnicalSignal{Name: "rsi", Direction: types.SignalNeutral, Strength: rsi / 100}
	switch {
	case rsi < 30:
		rsiSignal.Direction = types.SignalBullish // oversold
	case rsi > 70:
		rsiSignal.Direction = types.SignalBearish // overbought
	}
	signals = append(signals, rsiSignal)

	momentumSignal := types.TechnicalSignal{Name: "momentum", Direction: types.SignalNeutral}
	switch {
	case momentum > 0.01:
		momentumSignal.Direction = types.SignalBullish
	case momentum < -0.01:
		momentumSignal.Direction = types.SignalBearish
	}
	signals = append(signals, momentumSignal)

	priceSignal := types.TechnicalSignal{Name: "price_vs_sma", Direction: types.SignalNeutral}
	if slow > 0 {
		if price > slow {
			priceSignal.Direction = types.SignalBullish
		} else if price < slow {
			priceSignal.Direction = types.SignalBearish
		}
	}
	signals = append(signals, priceSignal)

	return signals
}

// volatilityRegime compares short-term ATR against long-term ATR. A spike in
// the ratio marks a high-risk regime regardless of the absolute level.
func volatilityRegime(candles []types.PriceCandle) types.RiskLevel {
	shortATR := technical.CalculateATR(candles, 5)
	longATR := technical.CalculateATR(candles, 20)
	if longATR <= 0 {
		return types.RiskLevelMedium
	}
	ratio := shortATR / longATR
	switch {
	case ratio > volRatioHigh:
		return types.RiskLevelHigh
	case ratio < volRatioLow:
		return types.RiskLevelLow
	default:
		return types.RiskLevelMedium
	}
}

// liquidityRisk compares recent volume against the whole window. Markets that
// dried up recently are risky to enter regardless of their usual depth.
func liquidityRisk(candles []types.PriceCandle) types.RiskLevel {
	if len(candles) < 10 {
		return types.RiskLevelHigh
	}

	total := 0.0
	for _, c := range candles {
		total += c.Volume
	}
	overall := total / float64(len(candles))
	if overall <= 0 {
		return types.RiskLevelHigh
	}

	recent := 0.0
	for _, c := range candles[len(candles)-10:] {
		recent += c.Volume
	}
	recent /= 10

	ratio := recent / overall
	switch {
	case ratio < 0.5:
		return types.RiskLevelHigh
	case ratio < 0.8:
		return types.RiskLevelMedium
	default:
		return types.RiskLevelLow
	}
}

// marketCondition escalates with the volatility picture: a high regime plus
// extreme return stdev is a dislocated market.
func marketCondition(regime types.RiskLevel, volatility float64) types.MarketCondition {
	if regime == types.RiskLevelHigh && volatility > extremeStdev {
		return types.MarketConditionExtremeVolatility
	}
	if regime == types.RiskLevelHigh || volatility > volatileStdev {
		return types.MarketConditionVolatile
	}
	return types.MarketConditionNormal
}

// overallScore maps the signal votes onto 0..100, 50 meaning no edge.
func overallScore(signals []types.TechnicalSignal) float64 {
	score := 50.0
	for _, sig := range signals {
		switch sig.Direction {
		case types.SignalBullish:
			score += 10
		case types.SignalBearish:
			score -= 10
		}
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
