package bybit

import (
	"context"
	"math"

	"github.com/tradeops/riskgate/internal/rerr"
	"github.com/tradeops/riskgate/pkg/types"
)

const (
	riskWindowDays = 90
	minReturnDays  = 10

	// var95Sigma scales daily volatility to the 95% one-tailed quantile.
	var95Sigma = 1.65
)

// GetRiskMetrics derives the quantitative risk profile from the daily series
// of the account's dominant symbol plus the live book. A flat book falls
// back to BTCUSDT as the market proxy.
func (c *Client) GetRiskMetrics(ctx context.Context, botID string) (*types.RiskMetrics, error) {
	positions, err := c.GetPositions(ctx, botID)
	if err != nil {
		return nil, err
	}

	symbol := dominantSymbol(positions)

	candles, err := c.GetCandles(ctx, symbol, types.TimeframeD1, riskWindowDays)
	if err != nil {
		return nil, err
	}

	returns := dailyReturns(candles)
	if len(returns) < minReturnDays {
		return nil, rerr.Wrap(rerr.ErrInsufficientData, rerr.CategoryExchange, "bybit",
			"daily history too short for risk metrics")
	}

	vol := stdev(returns)
	winRate, profitFactor := winStats(returns)

	metrics := &types.RiskMetrics{
		Volatility:     vol,
		VaR95:          var95Sigma * vol,
		MaxDrawdownPct: maxDrawdownPct(candles),
		WinRate:        winRate,
		ProfitFactor:   profitFactor,
		KellyFraction:  kellyFraction(returns, winRate),
		ExposurePct:    c.exposurePct(ctx, positions),
	}

	c.log.Debug().
		Str("symbol", symbol).
		Float64("volatility", metrics.Volatility).
		Float64("exposure_pct", metrics.ExposurePct).
		Msg("risk metrics derived")

	return metrics, nil
}

// dominantSymbol picks the largest position by notional value.
func dominantSymbol(positions []types.PortfolioPosition) string {
	symbol := "BTCUSDT"
	best := 0.0
	for _, pos := range positions {
		if v := pos.Value(); v > best {
			best = v
			symbol = pos.Symbol
		}
	}
	return symbol
}

func (c *Client) exposurePct(ctx context.Context, positions []types.PortfolioPosition) float64 {
	if len(positions) == 0 {
		return 0
	}
	balance, err := c.GetCurrentBalance(ctx)
	if err != nil || balance.Equity() <= 0 {
		return 0
	}
	total := 0.0
	for _, pos := range positions {
		total += pos.Value()
	}
	return total / balance.Equity() * 100
}

func dailyReturns(candles []types.PriceCandle) []float64 {
	var returns []float64
	for i := 1; i < len(candles); i++ {
		prev := candles[i-1].Close
		if prev <= 0 {
			continue
		}
		returns = append(returns, (candles[i].Close-prev)/prev)
	}
	return returns
}

func stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values) - 1)
	return math.Sqrt(variance)
}

// maxDrawdownPct is the deepest peak-to-trough drop of the close series.
func maxDrawdownPct(candles []types.PriceCandle) float64 {
	peak, worst := 0.0, 0.0
	for _, cndl := range candles {
		if cndl.Close > peak {
			peak = cndl.Close
		}
		if peak > 0 {
			dd := (peak - cndl.Close) / peak * 100
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// winStats treats each up day as a win and reports the win rate plus the
// profit factor of the return series.
func winStats(returns []float64) (winRate, profitFactor float64) {
	gains, losses := 0.0, 0.0
	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
			gains += r
		} else {
			losses += -r
		}
	}
	winRate = float64(wins) / float64(len(returns))
	if losses > 0 {
		profitFactor = gains / losses
	} else if gains > 0 {
		profitFactor = math.Inf(1)
	}
	return winRate, profitFactor
}

// kellyFraction applies the Kelly criterion to the average win and loss of
// the series. Degenerate series clamp to zero.
func kellyFraction(returns []float64, winRate float64) float64 {
	avgWin, avgLoss := 0.0, 0.0
	wins, losses := 0, 0
	for _, r := range returns {
		if r > 0 {
			avgWin += r
			wins++
		} else if r < 0 {
			avgLoss += -r
			losses++
		}
	}
	if wins == 0 || losses == 0 {
		return 0
	}
	avgWin /= float64(wins)
	avgLoss /= float64(losses)
	if avgLoss == 0 {
		return 0
	}

	ratio := avgWin / avgLoss
	kelly := winRate - (1-winRate)/ratio
	if kelly < 0 {
		return 0
	}
	return kelly
}
