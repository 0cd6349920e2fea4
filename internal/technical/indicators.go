package technical

import "math"

// SMA returns the simple moving average of the last period values, or 0 when
// there is not enough history.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// RSI returns the relative strength index over the last period changes.
// Returns 50 (neutral) when history is too short or the series never moved.
func RSI(values []float64, period int) float64 {
	if period <= 0 || len(values) < period+1 {
		return 50
	}

	gains, losses := 0.0, 0.0
	for i := len(values) - period; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgGain == 0 && avgLoss == 0 {
		return 50
	}
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Momentum returns the fractional price change over the last period bars, or
// 0 when history is too short.
func Momentum(values []float64, period int) float64 {
	if period <= 0 || len(values) < period+1 {
		return 0
	}
	base := values[len(values)-1-period]
	if base == 0 {
		return 0
	}
	m := values[len(values)-1]/base - 1
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0
	}
	return m
}

// MaxDrawdown returns the worst peak-to-trough decline of the series as a
// positive fraction (0.25 = -25%).
func MaxDrawdown(values []float64) float64 {
	peak := math.Inf(-1)
	worst := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}
