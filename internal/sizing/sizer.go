// Package sizing holds the timeframe-aware position size and drawdown
// tables. Everything here is a pure lookup with clamping; unknown inputs get
// the documented defaults rather than errors.
package sizing

import "github.com/tradeops/riskgate/pkg/types"

const (
	// AssumedStopPct is the stop distance assumed when capping a size by
	// risk budget (2% of entry).
	AssumedStopPct = 0.02

	// MinPositionSize is the floor below which a size suggestion is
	// meaningless for any supported venue.
	MinPositionSize = 0.001
)

var timeframeSizeMultipliers = map[types.Timeframe]float64{
	types.TimeframeM1:  0.3,
	types.TimeframeM5:  0.5,
	types.TimeframeM15: 0.7,
	types.TimeframeM30: 0.8,
	types.TimeframeH1:  1.0,
	types.TimeframeH4:  1.2,
	types.TimeframeD1:  1.5,
	types.TimeframeW1:  2.0,
}

var timeframeMaxDrawdownPct = map[types.Timeframe]float64{
	types.TimeframeM1:  0.5,
	types.TimeframeM5:  1.0,
	types.TimeframeM15: 2.0,
	types.TimeframeM30: 3.0,
	types.TimeframeH1:  5.0,
	types.TimeframeH4:  8.0,
	types.TimeframeD1:  10.0,
	types.TimeframeW1:  12.0,
}

// DefaultPositionSize returns the conventional starting size for a symbol's
// asset class. The generic fallback targets roughly 100 quote units of
// exposure.
func DefaultPositionSize(symbol string, price float64) float64 {
	switch types.ClassifySymbol(symbol) {
	case types.AssetCrypto:
		switch types.BaseAsset(symbol) {
		case "BTC":
			return 0.01
		case "ETH":
			return 0.1
		default:
			return 1.0
		}
	case types.AssetForex:
		return 10000 // mini lot
	case types.AssetIndex:
		return 1.0
	case types.AssetCommodity:
		return 10.0
	default:
		if price <= 0 {
			return 1.0
		}
		return 100 / price
	}
}

// TimeframePositionSize scales a base size by the timeframe multiplier, then
// caps it by the risk budget: riskAmount / (baseSize * AssumedStopPct).
// riskPct is a fraction of balance (0.02 = 2%).
func TimeframePositionSize(timeframe types.Timeframe, baseSize, balance, riskPct float64) float64 {
	if baseSize <= 0 {
		return MinPositionSize
	}

	mult, ok := timeframeSizeMultipliers[timeframe]
	if !ok {
		mult = 1.0
	}
	size := baseSize * mult

	if balance > 0 && riskPct > 0 {
		riskAmount := balance * riskPct
		maxSize := riskAmount / (baseSize * AssumedStopPct)
		if size > maxSize {
			size = maxSize
		}
	}

	if size < MinPositionSize {
		size = MinPositionSize
	}
	return size
}

// MaxDrawdownForTimeframe returns the tolerated drawdown ceiling in percent
// for a trade held on the given timeframe.
func MaxDrawdownForTimeframe(timeframe types.Timeframe) float64 {
	if dd, ok := timeframeMaxDrawdownPct[timeframe]; ok {
		return dd
	}
	return 5.0
}
