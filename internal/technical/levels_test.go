package technical

import (
	"math"
	"testing"
	"time"

	"github.com/tradeops/riskgate/pkg/types"
)

func candlesFrom(highs, lows, closes []float64) []types.PriceCandle {
	candles := make([]types.PriceCandle, len(closes))
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range closes {
		high, low := closes[i], closes[i]
		if highs != nil {
			high = highs[i]
		}
		if lows != nil {
			low = lows[i]
		}
		candles[i] = types.PriceCandle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      closes[i],
			High:      high,
			Low:       low,
			Close:     closes[i],
			Volume:    1000,
		}
	}
	return candles
}

func flatCandles(n int, price float64) []types.PriceCandle {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return candlesFrom(nil, nil, closes)
}

func TestCalculateATRInsufficientData(t *testing.T) {
	// 14 candles cannot produce a 14-period ATR (true range needs a
	// previous close), so the default must come back.
	candles := flatCandles(14, 50000)
	if got := CalculateATR(candles, DefaultATRPeriod); got != DefaultATR {
		t.Errorf("ATR with 14 candles = %v, want default %v", got, DefaultATR)
	}

	if got := CalculateATR(nil, DefaultATRPeriod); got != DefaultATR {
		t.Errorf("ATR with no candles = %v, want default %v", got, DefaultATR)
	}
}

func TestCalculateATRConstantRange(t *testing.T) {
	// Every candle spans close±5 with a flat close, so each true range
	// is exactly 10 and so is their mean.
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		closes[i] = 100
		highs[i] = 105
		lows[i] = 95
	}

	got := CalculateATR(candlesFrom(highs, lows, closes), DefaultATRPeriod)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("ATR = %v, want 10", got)
	}
}

func TestCalculateATRVaryingSeries(t *testing.T) {
	n := 30
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + 3*math.Sin(float64(i)/2)
		closes[i] = base
		highs[i] = base + 1 + 0.1*float64(i%5)
		lows[i] = base - 1 - 0.1*float64(i%3)
	}

	got := CalculateATR(candlesFrom(highs, lows, closes), DefaultATRPeriod)
	if got <= 0 {
		t.Fatalf("ATR = %v, want > 0", got)
	}
	if got == DefaultATR {
		t.Errorf("ATR fell back to default with %d candles", n)
	}
}

func TestCalculateVolatility(t *testing.T) {
	if got := CalculateVolatility(nil); got != DefaultVolatility {
		t.Errorf("volatility with no candles = %v, want %v", got, DefaultVolatility)
	}
	if got := CalculateVolatility(flatCandles(1, 100)); got != DefaultVolatility {
		t.Errorf("volatility with one candle = %v, want %v", got, DefaultVolatility)
	}

	// Constant closes have zero return variance.
	if got := CalculateVolatility(flatCandles(10, 100)); got != 0 {
		t.Errorf("volatility of flat series = %v, want 0", got)
	}

	// Alternating ±10% moves have a stdev of roughly 10%.
	closes := []float64{100, 110, 99, 108.9, 98.01}
	got := CalculateVolatility(candlesFrom(nil, nil, closes))
	if got < 0.05 || got > 0.15 {
		t.Errorf("volatility of alternating series = %v, want around 0.1", got)
	}
}

func TestFindSwingHighsLows(t *testing.T) {
	highs := []float64{10, 11, 12, 11, 10}
	lows := []float64{5, 4, 3, 4, 5}
	closes := []float64{7, 7, 7, 7, 7}

	gotHighs, gotLows := FindSwingHighsLows(candlesFrom(highs, lows, closes), 2)
	if len(gotHighs) != 1 || gotHighs[0] != 12 {
		t.Errorf("swing highs = %v, want [12]", gotHighs)
	}
	if len(gotLows) != 1 || gotLows[0] != 3 {
		t.Errorf("swing lows = %v, want [3]", gotLows)
	}
}

func TestSwingRequiresStrictExtremum(t *testing.T) {
	// The plateau at 12 ties with its neighbor, so neither bar counts.
	highs := []float64{10, 11, 12, 12, 11, 10, 9}
	lows := []float64{1, 2, 3, 4, 5, 6, 7}
	closes := []float64{8, 8, 8, 8, 8, 8, 8}

	gotHighs, _ := FindSwingHighsLows(candlesFrom(highs, lows, closes), 2)
	if len(gotHighs) != 0 {
		t.Errorf("swing highs = %v, want none for plateau", gotHighs)
	}
}

func TestFindSwingTooShort(t *testing.T) {
	gotHighs, gotLows := FindSwingHighsLows(flatCandles(4, 100), 2)
	if gotHighs != nil || gotLows != nil {
		t.Errorf("swings on short series = %v / %v, want none", gotHighs, gotLows)
	}
}

func TestClusterLevels(t *testing.T) {
	// 100.05 is within 0.1% of 100 and folds into its cluster; 105 stands
	// alone. The first representative wins.
	got := clusterLevels([]float64{100, 100.05, 105}, clusterTolerance)
	if len(got) != 2 || got[0] != 100 || got[1] != 105 {
		t.Errorf("clusterLevels = %v, want [100 105]", got)
	}

	if got := clusterLevels(nil, clusterTolerance); got != nil {
		t.Errorf("clusterLevels(nil) = %v, want nil", got)
	}
}

// swingSeries builds 20 candles with exactly one swing low at 95 and one
// swing high at 108 for a lookback of 3.
func swingSeries() []types.PriceCandle {
	lows := []float64{99, 98, 97, 95, 97.2, 98.2, 99.2, 99.5, 100.1, 100.6, 101, 100.7, 100.2, 99.8, 99.6, 99.4, 99.3, 99.1, 98.9, 98.8}
	highs := []float64{100.5, 100.6, 100.7, 100.8, 101, 101.2, 101.5, 102, 104, 106, 108, 106.5, 104.5, 102.5, 101.8, 101.4, 101.1, 100.9, 100.8, 100.6}
	closes := make([]float64, len(lows))
	for i := range closes {
		closes[i] = (highs[i] + lows[i]) / 2
	}
	return candlesFrom(highs, lows, closes)
}

func TestCalculatePreciseSupportResistance(t *testing.T) {
	support, resistance := CalculatePreciseSupportResistance(swingSeries(), 100)
	if support != 95 {
		t.Errorf("support = %v, want 95", support)
	}
	if resistance != 108 {
		t.Errorf("resistance = %v, want 108", resistance)
	}
}

func TestPreciseSupportResistanceWindowLimit(t *testing.T) {
	// A deeper low at 90 sits outside the 50-candle window and must be
	// ignored in favor of the recent 95.
	old := flatCandles(40, 99.5)
	old[3].Low = 97
	old[4].Low = 90
	old[5].Low = 97

	candles := append(old, swingSeries()...)
	support, _ := CalculatePreciseSupportResistance(candles, 100)
	if support != 95 {
		t.Errorf("support = %v, want 95 (90 is outside the window)", support)
	}
}

func TestSupportResistanceFallback(t *testing.T) {
	support, resistance := CalculatePreciseSupportResistance(flatCandles(5, 200), 200)
	if math.Abs(support-198) > 1e-9 {
		t.Errorf("fallback support = %v, want 198", support)
	}
	if math.Abs(resistance-202) > 1e-9 {
		t.Errorf("fallback resistance = %v, want 202", resistance)
	}
}

func TestCalculateLevels(t *testing.T) {
	levels := CalculateLevels(swingSeries(), 100)
	if levels.Support != 95 || levels.Resistance != 108 {
		t.Errorf("levels = %+v, want support 95 / resistance 108", levels)
	}
	if levels.ATR <= 0 {
		t.Errorf("levels ATR = %v, want > 0", levels.ATR)
	}
	if len(levels.SwingHighs) == 0 && len(levels.SwingLows) == 0 {
		t.Error("levels should report swing points for the series")
	}
}
