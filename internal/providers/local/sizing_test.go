package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeops/riskgate/internal/rerr"
	"github.com/tradeops/riskgate/pkg/types"
)

// TestCalculatePositionSize_Defaults tests the table-driven default for BTC
// on the hourly timeframe.
func TestCalculatePositionSize_Defaults(t *testing.T) {
	p := NewSizingProvider()
	params := types.SizingParams{
		Symbol:       "BTCUSDT",
		Side:         types.SideBuy,
		Timeframe:    types.TimeframeH1,
		Price:        50000,
		RiskPerTrade: 0.02,
	}
	account := types.AccountBalance{AvailableBalance: 100000}

	rec, err := p.CalculatePositionSize(context.Background(), params, account)

	require.NoError(t, err)
	assert.InDelta(t, 0.01, rec.RecommendedSize, 1e-9)
	assert.Contains(t, rec.Reasoning, "base 0.0100")
}

// TestCalculatePositionSize_BaseSizeOverride tests that an explicit base size
// wins over the symbol table.
func TestCalculatePositionSize_BaseSizeOverride(t *testing.T) {
	p := NewSizingProvider()
	params := types.SizingParams{
		Symbol:       "BTCUSDT",
		Side:         types.SideBuy,
		Timeframe:    types.TimeframeH1,
		Price:        50000,
		RiskPerTrade: 0.02,
		BaseSize:     0.5,
	}
	account := types.AccountBalance{AvailableBalance: 100000}

	rec, err := p.CalculatePositionSize(context.Background(), params, account)

	require.NoError(t, err)
	assert.InDelta(t, 0.5, rec.RecommendedSize, 1e-9)
}

// TestCalculatePositionSize_TimeframeScaling tests the minute-chart haircut.
func TestCalculatePositionSize_TimeframeScaling(t *testing.T) {
	p := NewSizingProvider()
	params := types.SizingParams{
		Symbol:       "BTCUSDT",
		Side:         types.SideBuy,
		Timeframe:    types.TimeframeM1,
		Price:        50000,
		RiskPerTrade: 0.02,
		BaseSize:     0.5,
	}
	account := types.AccountBalance{AvailableBalance: 100000}

	rec, err := p.CalculatePositionSize(context.Background(), params, account)

	require.NoError(t, err)
	assert.InDelta(t, 0.15, rec.RecommendedSize, 1e-9)
}

// TestCalculatePositionSize_RiskBudgetCap tests that a small account caps an
// oversized request.
func TestCalculatePositionSize_RiskBudgetCap(t *testing.T) {
	p := NewSizingProvider()
	params := types.SizingParams{
		Symbol:       "BTCUSDT",
		Side:         types.SideBuy,
		Timeframe:    types.TimeframeH1,
		Price:        50000,
		RiskPerTrade: 0.01,
		BaseSize:     100,
	}
	account := types.AccountBalance{AvailableBalance: 1000}

	rec, err := p.CalculatePositionSize(context.Background(), params, account)

	require.NoError(t, err)
	assert.InDelta(t, 5.0, rec.RecommendedSize, 1e-9)
}

// TestCalculatePositionSize_RejectsBadParams tests the validation guards.
func TestCalculatePositionSize_RejectsBadParams(t *testing.T) {
	p := NewSizingProvider()
	account := types.AccountBalance{AvailableBalance: 1000}

	_, err := p.CalculatePositionSize(context.Background(), types.SizingParams{
		Symbol: "BTCUSDT", Price: 0,
	}, account)
	require.Error(t, err)
	assert.Equal(t, rerr.CategoryValidation, rerr.CategoryOf(err))

	_, err = p.CalculatePositionSize(context.Background(), types.SizingParams{
		Symbol: "", Price: 50000,
	}, account)
	require.Error(t, err)
}
