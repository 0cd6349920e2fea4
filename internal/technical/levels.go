// Package technical computes price-structure levels from candle history:
// average true range, return volatility, swing points and clustered
// support/resistance. All functions are pure and never fail; insufficient
// input yields the documented fallback constants.
package technical

import (
	"math"

	"github.com/tradeops/riskgate/pkg/types"
)

const (
	// DefaultATRPeriod is the classic 14-bar ATR window.
	DefaultATRPeriod = 14

	// DefaultATR is returned when history is too short for a real ATR.
	// Scaled for BTC-class symbols; downstream fallbacks catch the cases
	// where this is out of proportion for the instrument.
	DefaultATR = 100.0

	// DefaultVolatility (2%) is returned when fewer than two closes exist.
	DefaultVolatility = 0.02

	// DefaultSwingLookback is the window used by the coarse swing scan.
	DefaultSwingLookback = 5

	preciseWindow        = 50
	preciseSwingLookback = 3
	clusterTolerance     = 0.001 // 0.1% relative difference
	fallbackLevelPct     = 0.01  // S/R fallback at ±1% of price
)

// CalculateATR returns the mean true range over the last period candles.
// True range needs the previous close, so period+1 candles are required;
// anything less returns DefaultATR.
func CalculateATR(candles []types.PriceCandle, period int) float64 {
	if period <= 0 {
		period = DefaultATRPeriod
	}
	if len(candles) < period+1 {
		return DefaultATR
	}

	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += trueRange(candles[i], candles[i-1].Close)
	}
	atr := sum / float64(period)
	if !isFinite(atr) || atr <= 0 {
		return DefaultATR
	}
	return atr
}

func trueRange(c types.PriceCandle, prevClose float64) float64 {
	hl := c.High - c.Low
	hc := math.Abs(c.High - prevClose)
	lc := math.Abs(c.Low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}

// CalculateVolatility returns the standard deviation of close-to-close
// returns, or DefaultVolatility when fewer than two closes exist.
func CalculateVolatility(candles []types.PriceCandle) float64 {
	if len(candles) < 2 {
		return DefaultVolatility
	}

	returns := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		prev := candles[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, candles[i].Close/prev-1)
	}
	if len(returns) == 0 {
		return DefaultVolatility
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	vol := math.Sqrt(variance)
	if !isFinite(vol) {
		return DefaultVolatility
	}
	return vol
}

// FindSwingHighsLows scans for local extrema. Candle i is a swing high when
// its high strictly exceeds every other high in [i-lookback, i+lookback];
// swing lows mirror on lows. Candles without a full window on both sides are
// not eligible. Both slices are ordered oldest to newest.
func FindSwingHighsLows(candles []types.PriceCandle, lookback int) (highs, lows []float64) {
	if lookback <= 0 {
		lookback = DefaultSwingLookback
	}
	if len(candles) < 2*lookback+1 {
		return nil, nil
	}

	for i := lookback; i < len(candles)-lookback; i++ {
		if isSwingHigh(candles, i, lookback) {
			highs = append(highs, candles[i].High)
		}
		if isSwingLow(candles, i, lookback) {
			lows = append(lows, candles[i].Low)
		}
	}
	return highs, lows
}

func isSwingHigh(candles []types.PriceCandle, i, lookback int) bool {
	for j := i - lookback; j <= i+lookback; j++ {
		if j == i {
			continue
		}
		if candles[j].High >= candles[i].High {
			return false
		}
	}
	return true
}

func isSwingLow(candles []types.PriceCandle, i, lookback int) bool {
	for j := i - lookback; j <= i+lookback; j++ {
		if j == i {
			continue
		}
		if candles[j].Low <= candles[i].Low {
			return false
		}
	}
	return true
}

// CalculateSupportResistance is the coarse variant: swing scan over the full
// history with the default lookback, no clustering.
func CalculateSupportResistance(candles []types.PriceCandle, currentPrice float64) (support, resistance float64) {
	highs, lows := FindSwingHighsLows(candles, DefaultSwingLookback)
	return nearestLevels(lows, highs, currentPrice)
}

// CalculatePreciseSupportResistance restricts the scan to the most recent 50
// candles with a tighter lookback, clusters levels within 0.1% of each other
// (first representative wins) and picks the nearest cluster on each side of
// the current price. Missing data falls back to ±1% of price.
func CalculatePreciseSupportResistance(candles []types.PriceCandle, currentPrice float64) (support, resistance float64) {
	recent := candles
	if len(recent) > preciseWindow {
		recent = recent[len(recent)-preciseWindow:]
	}

	highs, lows := FindSwingHighsLows(recent, preciseSwingLookback)
	supports := clusterLevels(lows, clusterTolerance)
	resistances := clusterLevels(highs, clusterTolerance)
	return nearestLevels(supports, resistances, currentPrice)
}

// clusterLevels collapses levels whose relative difference is below the
// tolerance, keeping the first representative of each cluster.
func clusterLevels(levels []float64, tolerance float64) []float64 {
	var reps []float64
	for _, level := range levels {
		matched := false
		for _, rep := range reps {
			if rep != 0 && math.Abs(level-rep)/math.Abs(rep) < tolerance {
				matched = true
				break
			}
		}
		if !matched {
			reps = append(reps, level)
		}
	}
	return reps
}

// nearestLevels picks the closest support below and resistance above the
// current price, falling back to ±1% for any missing side.
func nearestLevels(supports, resistances []float64, currentPrice float64) (support, resistance float64) {
	support = currentPrice * (1 - fallbackLevelPct)
	resistance = currentPrice * (1 + fallbackLevelPct)
	if currentPrice <= 0 {
		return support, resistance
	}

	bestSup := math.Inf(-1)
	for _, level := range supports {
		if level < currentPrice && level > bestSup {
			bestSup = level
		}
	}
	if !math.IsInf(bestSup, -1) {
		support = bestSup
	}

	bestRes := math.Inf(1)
	for _, level := range resistances {
		if level > currentPrice && level < bestRes {
			bestRes = level
		}
	}
	if !math.IsInf(bestRes, 1) {
		resistance = bestRes
	}
	return support, resistance
}

// CalculateLevels bundles the full level snapshot for a candle history.
func CalculateLevels(candles []types.PriceCandle, currentPrice float64) types.TechnicalLevels {
	highs, lows := FindSwingHighsLows(candles, DefaultSwingLookback)
	support, resistance := CalculatePreciseSupportResistance(candles, currentPrice)
	return types.TechnicalLevels{
		Support:    support,
		Resistance: resistance,
		ATR:        CalculateATR(candles, DefaultATRPeriod),
		SwingHighs: highs,
		SwingLows:  lows,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
