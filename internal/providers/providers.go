// Package providers declares the collaborator interfaces the risk check
// pipeline depends on. The pipeline only ever sees these interfaces;
// concrete adapters live in the subpackages (bybit, openai, local).
package providers

import (
	"context"

	"github.com/tradeops/riskgate/pkg/types"
)

// AccountBalanceProvider reports the current margin snapshot.
type AccountBalanceProvider interface {
	GetCurrentBalance(ctx context.Context) (*types.AccountBalance, error)
}

// PortfolioDataProvider reports open positions and recent performance for a
// bot's portfolio.
type PortfolioDataProvider interface {
	GetPositions(ctx context.Context, botID string) ([]types.PortfolioPosition, error)
	GetPerformance(ctx context.Context, botID string) (*types.PortfolioPerformance, error)
}

// RiskMetricsProvider reports the quantitative risk profile of a bot.
type RiskMetricsProvider interface {
	GetRiskMetrics(ctx context.Context, botID string) (*types.RiskMetrics, error)
}

// TechnicalAnalysisProvider turns raw candles into a market snapshot.
type TechnicalAnalysisProvider interface {
	AnalyzeMarket(ctx context.Context, req types.MarketAnalysisRequest) (*types.MarketAnalysis, error)
}

// ConsolidationProvider synthesizes the individual assessments and context
// into a single verdict.
type ConsolidationProvider interface {
	AnalyzeRisk(ctx context.Context, payload types.ConsolidationPayload) (*types.ConsolidationVerdict, error)
}

// PositionSizingProvider refines the suggested position size.
type PositionSizingProvider interface {
	CalculatePositionSize(ctx context.Context, params types.SizingParams, account types.AccountBalance) (*types.SizingRecommendation, error)
}

// MarketDataProvider supplies the candle history and live price the
// technical slice feeds into AnalyzeMarket.
type MarketDataProvider interface {
	GetCandles(ctx context.Context, symbol string, timeframe types.Timeframe, limit int) ([]types.PriceCandle, error)
	GetCurrentPrice(ctx context.Context, symbol string) (float64, error)
}
