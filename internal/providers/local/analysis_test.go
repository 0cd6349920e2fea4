package local

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeops/riskgate/internal/rerr"
	"github.com/tradeops/riskgate/pkg/types"
)

// buildCandles makes one candle per close with a symmetric range and the
// given volume.
func buildCandles(closes []float64, halfRange, volume float64) []types.PriceCandle {
	candles := make([]types.PriceCandle, len(closes))
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		candles[i] = types.PriceCandle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      c,
			High:      c + halfRange,
			Low:       c - halfRange,
			Close:     c,
			Volume:    volume,
		}
	}
	return candles
}

func risingCloses(n int, start float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)
	}
	return closes
}

func fallingCloses(n int, start float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start - float64(i)
	}
	return closes
}

func flatCloses(n int, price float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return closes
}

// TestAnalyzeMarket_RisingSeries tests the snapshot on a steadily rising
// market.
func TestAnalyzeMarket_RisingSeries(t *testing.T) {
	p := NewAnalysisProvider()
	candles := buildCandles(risingCloses(40, 100), 1, 1000)

	analysis, err := p.AnalyzeMarket(context.Background(), types.MarketAnalysisRequest{
		Symbol:    "BTCUSDT",
		Timeframe: types.TimeframeH1,
		Candles:   candles,
	})

	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, "BTCUSDT", analysis.Symbol)
	assert.Equal(t, 139.0, analysis.CurrentPrice)
	assert.Equal(t, types.TrendUp, analysis.Trend)
	assert.Len(t, analysis.Signals, 4)

	// Steady gains: sma, momentum and price vote bullish, RSI flags
	// overbought.
	bullish, bearish := analysis.SignalBias()
	assert.Equal(t, 3, bullish)
	assert.Equal(t, 1, bearish)
	assert.InDelta(t, 70.0, analysis.OverallScore, 1e-9)

	assert.Equal(t, types.RiskLevelLow, analysis.LiquidityRisk)
	assert.Equal(t, types.MarketConditionNormal, analysis.MarketCondition)
	require.NotNil(t, analysis.Levels)
	assert.Greater(t, analysis.Levels.ATR, 0.0)
}

// TestAnalyzeMarket_FallingSeries tests trend and bias on a steady decline.
func TestAnalyzeMarket_FallingSeries(t *testing.T) {
	p := NewAnalysisProvider()
	candles := buildCandles(fallingCloses(40, 200), 1, 1000)

	analysis, err := p.AnalyzeMarket(context.Background(), types.MarketAnalysisRequest{
		Symbol:  "ETHUSDT",
		Candles: candles,
	})

	require.NoError(t, err)
	assert.Equal(t, types.TrendDown, analysis.Trend)
	bullish, bearish := analysis.SignalBias()
	assert.Greater(t, bearish, bullish)
}

// TestAnalyzeMarket_FlatSeries tests that a flat market stays sideways with
// no directional votes.
func TestAnalyzeMarket_FlatSeries(t *testing.T) {
	p := NewAnalysisProvider()
	candles := buildCandles(flatCloses(40, 100), 1, 1000)

	analysis, err := p.AnalyzeMarket(context.Background(), types.MarketAnalysisRequest{
		Symbol:  "SOLUSDT",
		Candles: candles,
	})

	require.NoError(t, err)
	assert.Equal(t, types.TrendSideways, analysis.Trend)
	bullish, bearish := analysis.SignalBias()
	assert.Equal(t, 0, bullish)
	assert.Equal(t, 0, bearish)
	assert.InDelta(t, 50.0, analysis.OverallScore, 1e-9)
}

// TestAnalyzeMarket_InsufficientHistory tests the hard floor on candle count.
func TestAnalyzeMarket_InsufficientHistory(t *testing.T) {
	p := NewAnalysisProvider()
	candles := buildCandles(flatCloses(10, 100), 1, 1000)

	_, err := p.AnalyzeMarket(context.Background(), types.MarketAnalysisRequest{
		Symbol:  "BTCUSDT",
		Candles: candles,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, rerr.ErrInsufficientData))
}

// TestVolatilityRegime tests the short/long ATR ratio bands.
func TestVolatilityRegime(t *testing.T) {
	// Constant closes, range controls the true range directly.
	spiking := buildCandles(flatCloses(35, 100), 1, 1000)
	for i := len(spiking) - 5; i < len(spiking); i++ {
		spiking[i].High = 105
		spiking[i].Low = 95
	}
	assert.Equal(t, types.RiskLevelHigh, volatilityRegime(spiking))

	calming := buildCandles(flatCloses(35, 100), 1, 1000)
	for i := len(calming) - 5; i < len(calming); i++ {
		calming[i].High = 100.1
		calming[i].Low = 99.9
	}
	assert.Equal(t, types.RiskLevelLow, volatilityRegime(calming))

	steady := buildCandles(flatCloses(35, 100), 1, 1000)
	assert.Equal(t, types.RiskLevelMedium, volatilityRegime(steady))
}

// TestLiquidityRisk tests the recent-vs-overall volume ratio bands.
func TestLiquidityRisk(t *testing.T) {
	driedUp := buildCandles(flatCloses(30, 100), 1, 1000)
	for i := len(driedUp) - 10; i < len(driedUp); i++ {
		driedUp[i].Volume = 100
	}
	assert.Equal(t, types.RiskLevelHigh, liquidityRisk(driedUp))

	softening := buildCandles(flatCloses(30, 100), 1, 1200)
	for i := len(softening) - 10; i < len(softening); i++ {
		softening[i].Volume = 800
	}
	assert.Equal(t, types.RiskLevelMedium, liquidityRisk(softening))

	steady := buildCandles(flatCloses(30, 100), 1, 1000)
	assert.Equal(t, types.RiskLevelLow, liquidityRisk(steady))

	assert.Equal(t, types.RiskLevelHigh, liquidityRisk(nil))
}

// TestMarketCondition tests the escalation rules.
func TestMarketCondition(t *testing.T) {
	assert.Equal(t, types.MarketConditionExtremeVolatility, marketCondition(types.RiskLevelHigh, 0.05))
	assert.Equal(t, types.MarketConditionVolatile, marketCondition(types.RiskLevelHigh, 0.01))
	assert.Equal(t, types.MarketConditionVolatile, marketCondition(types.RiskLevelLow, 0.03))
	assert.Equal(t, types.MarketConditionNormal, marketCondition(types.RiskLevelLow, 0.01))
	assert.Equal(t, types.MarketConditionNormal, marketCondition(types.RiskLevelMedium, 0.02))
}
