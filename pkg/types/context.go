package types

import "time"

// AccountBalance is the margin snapshot used by the account and position
// checks. All values are quoted in the account currency.
type AccountBalance struct {
	AvailableBalance float64 `json:"available_balance"`
	UsedMargin       float64 `json:"used_margin"`
	FreeMargin       float64 `json:"free_margin"`
}

// Equity is the available balance plus margin already committed.
func (b AccountBalance) Equity() float64 {
	return b.AvailableBalance + b.UsedMargin
}

// PortfolioPosition is one open position reported by the portfolio provider.
type PortfolioPosition struct {
	Symbol        string    `json:"symbol"`
	Side          Side      `json:"side"`
	Size          float64   `json:"size"`
	EntryPrice    float64   `json:"entry_price"`
	MarkPrice     float64   `json:"mark_price"`
	UnrealizedPnL float64   `json:"unrealized_pnl"`
	Leverage      float64   `json:"leverage,omitempty"`
	OpenedAt      time.Time `json:"opened_at,omitempty"`
}

// Value returns the current notional value of the position.
func (p PortfolioPosition) Value() float64 {
	price := p.MarkPrice
	if price == 0 {
		price = p.EntryPrice
	}
	return p.Size * price
}

// PortfolioPerformance summarizes recent results of the bot's portfolio.
type PortfolioPerformance struct {
	TotalTrades    int     `json:"total_trades"`
	WinRate        float64 `json:"win_rate"` // 0..1
	TotalPnL       float64 `json:"total_pnl"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
}

// RiskMetrics is the quantitative risk profile supplied by the risk metrics
// provider. Volatility and VaR95 are fractions of price, drawdown and
// exposure are percentages.
type RiskMetrics struct {
	Volatility     float64 `json:"volatility"`
	VaR95          float64 `json:"var_95"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	WinRate        float64 `json:"win_rate"`
	ProfitFactor   float64 `json:"profit_factor"`
	KellyFraction  float64 `json:"kelly_fraction"`
	ExposurePct    float64 `json:"exposure_pct"`
}

// TechnicalSignal is one directional vote from the analysis provider.
type TechnicalSignal struct {
	Name      string          `json:"name"`
	Direction SignalDirection `json:"direction"`
	Strength  float64         `json:"strength,omitempty"` // 0..1
}

// MarketAnalysisRequest asks the analysis provider for a market snapshot.
// Candles are ordered oldest to newest.
type MarketAnalysisRequest struct {
	Symbol    string        `json:"symbol"`
	Timeframe Timeframe     `json:"timeframe"`
	Candles   []PriceCandle `json:"candles"`
}

// MarketAnalysis is the technical snapshot consumed by the technical and
// market checks.
type MarketAnalysis struct {
	Symbol          string            `json:"symbol"`
	CurrentPrice    float64           `json:"current_price"`
	Volatility      float64           `json:"volatility"` // stdev of returns
	VolatilityRisk  RiskLevel         `json:"volatility_risk"`
	Trend           Trend             `json:"trend"`
	Signals         []TechnicalSignal `json:"signals"`
	OverallScore    float64           `json:"overall_score"` // 0..100
	LiquidityRisk   RiskLevel         `json:"liquidity_risk"`
	MarketCondition MarketCondition   `json:"market_condition"`
	Levels          *TechnicalLevels  `json:"levels,omitempty"`
}

// SignalBias counts the directional votes in the snapshot.
func (a *MarketAnalysis) SignalBias() (bullish, bearish int) {
	for _, sig := range a.Signals {
		switch sig.Direction {
		case SignalBullish:
			bullish++
		case SignalBearish:
			bearish++
		}
	}
	return bullish, bearish
}

// PositionDetails describes the proposed trade within a consolidation
// payload.
type PositionDetails struct {
	Side          Side      `json:"side"`
	Amount        float64   `json:"amount"`
	Price         float64   `json:"price"`
	PositionValue float64   `json:"position_value"`
	TradeType     OrderType `json:"trade_type"`
	Timeframe     Timeframe `json:"timeframe"`
}

// PortfolioInfo condenses the portfolio slice for consolidation.
type PortfolioInfo struct {
	OpenPositions int                   `json:"open_positions"`
	TotalExposure float64               `json:"total_exposure"`
	Performance   *PortfolioPerformance `json:"performance,omitempty"`
}

// MarketConditions condenses the market slice for consolidation.
type MarketConditions struct {
	Condition      MarketCondition `json:"condition"`
	LiquidityRisk  RiskLevel       `json:"liquidity_risk"`
	VolatilityRisk RiskLevel       `json:"volatility_risk"`
	Volatility     float64         `json:"volatility"`
}

// ConsolidationPayload is everything the consolidation provider sees. Slices
// that failed to gather are nil.
type ConsolidationPayload struct {
	Symbol            string            `json:"symbol"`
	PositionDetails   PositionDetails   `json:"position_details"`
	AccountBalance    *AccountBalance   `json:"account_balance,omitempty"`
	PortfolioInfo     *PortfolioInfo    `json:"portfolio_info,omitempty"`
	MarketConditions  *MarketConditions `json:"market_conditions,omitempty"`
	RiskMetrics       *RiskMetrics      `json:"risk_metrics,omitempty"`
	TechnicalAnalysis *MarketAnalysis   `json:"technical_analysis,omitempty"`
	Checks            []CheckEntry      `json:"checks"`
}

// ConsolidationVerdict is the synthesized assessment returned by the
// consolidation provider.
type ConsolidationVerdict struct {
	RiskScore      int            `json:"risk_score"` // 1..10
	Recommendation Recommendation `json:"recommendation"`
	Reasoning      string         `json:"reasoning"`
}

// SizingParams asks a sizing provider for a recommended position size.
type SizingParams struct {
	Symbol       string    `json:"symbol"`
	Side         Side      `json:"side"`
	Timeframe    Timeframe `json:"timeframe"`
	Price        float64   `json:"price"`
	RiskPerTrade float64   `json:"risk_per_trade"` // fraction of equity
	BaseSize     float64   `json:"base_size,omitempty"`
}

// SizingRecommendation is the sizing provider's answer.
type SizingRecommendation struct {
	RecommendedSize float64 `json:"recommended_size"`
	Reasoning       string  `json:"reasoning,omitempty"`
}
