package types

import (
	"fmt"
	"strings"
)

// Side is the direction of a proposed trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide normalizes a side string.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "LONG":
		return SideBuy, nil
	case "SELL", "SHORT":
		return SideSell, nil
	default:
		return "", fmt.Errorf("invalid side %q", s)
	}
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderType describes how an order should be placed.
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeStop   OrderType = "STOP"
)

// Timeframe is the chart interval a trade decision is based on.
type Timeframe string

const (
	TimeframeM1  Timeframe = "M1"
	TimeframeM5  Timeframe = "M5"
	TimeframeM15 Timeframe = "M15"
	TimeframeM30 Timeframe = "M30"
	TimeframeH1  Timeframe = "H1"
	TimeframeH4  Timeframe = "H4"
	TimeframeD1  Timeframe = "D1"
	TimeframeW1  Timeframe = "W1"
)

// ParseTimeframe accepts the canonical form (e.g. "H1") as well as the
// common lowercase aliases ("1m", "4h", "1d").
func ParseTimeframe(s string) (Timeframe, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M1", "1M", "1MIN", "1":
		return TimeframeM1, nil
	case "M5", "5M", "5MIN", "5":
		return TimeframeM5, nil
	case "M15", "15M", "15MIN", "15":
		return TimeframeM15, nil
	case "M30", "30M", "30MIN", "30":
		return TimeframeM30, nil
	case "H1", "1H", "60":
		return TimeframeH1, nil
	case "H4", "4H", "240":
		return TimeframeH4, nil
	case "D1", "1D", "D":
		return TimeframeD1, nil
	case "W1", "1W", "W":
		return TimeframeW1, nil
	default:
		return "", fmt.Errorf("invalid timeframe %q", s)
	}
}

// RiskLevel grades the severity reported by an individual check.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// Recommendation is the final verdict of a risk check.
type Recommendation string

const (
	RecommendationProceed Recommendation = "PROCEED"
	RecommendationCaution Recommendation = "CAUTION"
	RecommendationAbort   Recommendation = "ABORT"
)

// ParseRecommendation normalizes a recommendation string.
func ParseRecommendation(s string) (Recommendation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PROCEED", "APPROVE", "GO":
		return RecommendationProceed, nil
	case "CAUTION", "WARN", "WARNING":
		return RecommendationCaution, nil
	case "ABORT", "REJECT", "STOP":
		return RecommendationAbort, nil
	default:
		return "", fmt.Errorf("invalid recommendation %q", s)
	}
}

// SignalDirection is the bias of a single technical signal.
type SignalDirection string

const (
	SignalBullish SignalDirection = "BULLISH"
	SignalBearish SignalDirection = "BEARISH"
	SignalNeutral SignalDirection = "NEUTRAL"
)

// Trend labels the prevailing price direction of a market snapshot.
type Trend string

const (
	TrendUp       Trend = "UPTREND"
	TrendDown     Trend = "DOWNTREND"
	TrendSideways Trend = "SIDEWAYS"
)

// MarketCondition labels the overall state of the market.
type MarketCondition string

const (
	MarketConditionNormal            MarketCondition = "NORMAL"
	MarketConditionVolatile          MarketCondition = "VOLATILE"
	MarketConditionExtremeVolatility MarketCondition = "EXTREME_VOLATILITY"
)
