package orderparams

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeops/riskgate/internal/technical"
	"github.com/tradeops/riskgate/pkg/types"
)

func trendingCandles(n int, start, step float64) []types.PriceCandle {
	candles := make([]types.PriceCandle, n)
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := start + step*float64(i)
		candles[i] = types.PriceCandle{
			Timestamp: ts.Add(time.Duration(i) * time.Hour),
			Open:      c - step/2,
			High:      c + math.Abs(step),
			Low:       c - math.Abs(step),
			Close:     c,
			Volume:    500,
		}
	}
	return candles
}

func TestDecideOrderTypeHighConfidenceIsAlwaysMarket(t *testing.T) {
	svc := NewService()

	for _, confidence := range []float64{85, 90, 99.9, 100} {
		for _, volatility := range []float64{0.0001, 0.01, 0.05, 0.5} {
			decision, err := svc.DecideOrderType(types.SideBuy, confidence, volatility, 50000)
			require.NoError(t, err)
			assert.Equal(t, types.OrderTypeMarket, decision.OrderType,
				"confidence %.1f volatility %.4f", confidence, volatility)
			assert.Zero(t, decision.LimitPrice)
		}
	}
}

func TestDecideOrderTypeLimitBand(t *testing.T) {
	svc := NewService()

	// Calm volatility in [80,85) produces a limit order on the correct
	// side of price.
	buy, err := svc.DecideOrderType(types.SideBuy, 82, 0.005, 60000)
	require.NoError(t, err)
	require.Equal(t, types.OrderTypeLimit, buy.OrderType)
	assert.Less(t, buy.LimitPrice, 60000.0)
	assert.Greater(t, buy.LimitPrice, 59500.0, "offset must stay within the 100-500 band")

	sell, err := svc.DecideOrderType(types.SideSell, 82, 0.005, 60000)
	require.NoError(t, err)
	require.Equal(t, types.OrderTypeLimit, sell.OrderType)
	assert.Greater(t, sell.LimitPrice, 60000.0)
	assert.Less(t, sell.LimitPrice, 60500.0)

	// High volatility in the same band falls back to market.
	hot, err := svc.DecideOrderType(types.SideBuy, 82, 0.03, 60000)
	require.NoError(t, err)
	assert.Equal(t, types.OrderTypeMarket, hot.OrderType)
}

func TestDecideOrderTypeOffsetScalesWithPrice(t *testing.T) {
	svc := NewService()

	cases := []struct {
		price  float64
		lo, hi float64
	}{
		{60000, 100, 500},
		{2000, 10, 50},
		{120, 1, 5},
	}

	for _, tc := range cases {
		decision, err := svc.DecideOrderType(types.SideBuy, 80, 0.001, tc.price)
		require.NoError(t, err)
		require.Equal(t, types.OrderTypeLimit, decision.OrderType, "price %v", tc.price)
		offset := tc.price - decision.LimitPrice
		assert.GreaterOrEqual(t, offset, tc.lo, "price %v", tc.price)
		assert.LessOrEqual(t, offset, tc.hi, "price %v", tc.price)
	}
}

func TestDecideOrderTypeModerateConfidence(t *testing.T) {
	svc := NewService()

	for _, confidence := range []float64{60, 70, 79.9} {
		decision, err := svc.DecideOrderType(types.SideSell, confidence, 0.5, 50000)
		require.NoError(t, err)
		assert.Equal(t, types.OrderTypeMarket, decision.OrderType)
	}
}

func TestDecideOrderTypeRejectsLowConfidence(t *testing.T) {
	svc := NewService()

	_, err := svc.DecideOrderType(types.SideBuy, 59.9, 0.001, 50000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfidenceTooLow))
}

func TestDecideOrderTypeLimitFallbackAtTinyPrice(t *testing.T) {
	svc := NewService()

	// Offset band 1-5 exceeds the price itself, so a BUY limit would go
	// negative and the decision must fall back to market.
	decision, err := svc.DecideOrderType(types.SideBuy, 80, 0.001, 0.5)
	require.NoError(t, err)
	assert.Equal(t, types.OrderTypeMarket, decision.OrderType)
}

func TestStopLossTakeProfitOrdering(t *testing.T) {
	svc := NewService()
	candles := trendingCandles(60, 49000, 20)
	entry := candles[len(candles)-1].Close

	buy := svc.CalculateTechnicalStopLossTakeProfit(candles, types.SideBuy, entry, types.TimeframeH1, "BTCUSDT")
	assert.Less(t, buy.StopLoss, entry, "BUY stop below entry")
	assert.Greater(t, buy.TakeProfit, entry, "BUY target above entry")
	assert.Greater(t, buy.ATR, 0.0)

	sell := svc.CalculateTechnicalStopLossTakeProfit(candles, types.SideSell, entry, types.TimeframeH1, "BTCUSDT")
	assert.Greater(t, sell.StopLoss, entry, "SELL stop above entry")
	assert.Less(t, sell.TakeProfit, entry, "SELL target below entry")
}

func TestStopLossTakeProfitRespectsMinDistance(t *testing.T) {
	svc := NewService()
	candles := trendingCandles(60, 49000, 20)
	entry := candles[len(candles)-1].Close
	minDist := MinDistanceFor("BTCUSDT")

	out := svc.CalculateTechnicalStopLossTakeProfit(candles, types.SideBuy, entry, types.TimeframeM1, "BTCUSDT")
	assert.GreaterOrEqual(t, entry-out.StopLoss, minDist)
	assert.GreaterOrEqual(t, out.TakeProfit-entry, minDist)
}

func TestStopLossTakeProfitFallbackOnShortHistory(t *testing.T) {
	svc := NewService()

	// Two candles cannot produce ATR or levels for a forex pair; the ATR
	// default is wildly out of scale there, so the 1% fallback must win.
	candles := trendingCandles(2, 1.09, 0.001)
	out := svc.CalculateTechnicalStopLossTakeProfit(candles, types.SideSell, 1.1, types.TimeframeH1, "EURUSD")

	assert.InDelta(t, 1.1*1.01, out.StopLoss, 1e-9)
	assert.InDelta(t, 1.1*0.99, out.TakeProfit, 1e-9)
}

func TestStopLossTakeProfitNeverPanicsOnEmptyInput(t *testing.T) {
	svc := NewService()

	out := svc.CalculateTechnicalStopLossTakeProfit(nil, types.SideBuy, 50000, types.TimeframeH4, "BTCUSDT")
	require.NotNil(t, out)
	assert.Less(t, out.StopLoss, 50000.0)
	assert.Greater(t, out.TakeProfit, 50000.0)

	out = svc.CalculateTechnicalStopLossTakeProfit(nil, types.SideBuy, 0, types.TimeframeH4, "BTCUSDT")
	require.NotNil(t, out)
}

func TestValidateClampsM1Distance(t *testing.T) {
	svc := NewService()

	// Requested stop 500 points away on M1: the 20-point timeframe cap
	// applies first, then the 50-point crypto minimum wins.
	entry := 50000.0
	stop, take := svc.ValidateTimeframeStopLossTakeProfit(types.SideBuy, entry, entry-500, entry+500, types.TimeframeM1, "BTCUSDT")

	minDist := MinDistanceFor("BTCUSDT")
	maxAllowed := math.Max(MaxDistanceForTimeframe(types.TimeframeM1), minDist)

	assert.Less(t, stop, entry)
	assert.LessOrEqual(t, entry-stop, maxAllowed)
	assert.GreaterOrEqual(t, entry-stop, minDist)

	assert.Greater(t, take, entry)
	assert.LessOrEqual(t, take-entry, maxAllowed)
}

func TestValidateCorrectsSideViolation(t *testing.T) {
	svc := NewService()

	// Stop accidentally above entry for a BUY: it must come back below.
	stop, take := svc.ValidateTimeframeStopLossTakeProfit(types.SideBuy, 2000, 2010, 1990, types.TimeframeH1, "ETHUSDT")
	assert.Less(t, stop, 2000.0)
	assert.Greater(t, take, 2000.0)

	// And the mirror case for SELL.
	stop, take = svc.ValidateTimeframeStopLossTakeProfit(types.SideSell, 2000, 1990, 2010, types.TimeframeH1, "ETHUSDT")
	assert.Greater(t, stop, 2000.0)
	assert.Less(t, take, 2000.0)
}

func TestValidateNeverReturnsSubMinimumDistance(t *testing.T) {
	svc := NewService()

	for _, side := range []types.Side{types.SideBuy, types.SideSell} {
		entry := 50000.0
		// Levels glued to entry must be pushed out to the minimum.
		stop, take := svc.ValidateTimeframeStopLossTakeProfit(side, entry, entry, entry, types.TimeframeH1, "BTCUSDT")
		assert.GreaterOrEqual(t, math.Abs(entry-stop), MinDistanceFor("BTCUSDT"), "side %s", side)
		assert.GreaterOrEqual(t, math.Abs(take-entry), MinDistanceFor("BTCUSDT"), "side %s", side)
	}
}

func TestDefaultATRReferenced(t *testing.T) {
	// The service leans on the calculator's documented defaults; make the
	// linkage explicit so a silent constant change shows up here.
	assert.Equal(t, 100.0, technical.DefaultATR)
	assert.Equal(t, 14, technical.DefaultATRPeriod)
}
