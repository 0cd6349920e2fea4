package types

import (
	"fmt"
	"time"
)

// RiskCheckInput describes the trade a caller wants vetted.
type RiskCheckInput struct {
	Symbol    string    `json:"symbol"`
	Side      Side      `json:"side"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price,omitempty"` // 0 = resolve from market snapshot
	TradeType OrderType `json:"trade_type,omitempty"`
	BotID     string    `json:"bot_id,omitempty"`
	Strategy  string    `json:"strategy,omitempty"`
	Timeframe Timeframe `json:"timeframe,omitempty"`
}

// Validate checks the input fields that no downstream stage can repair.
func (in *RiskCheckInput) Validate() error {
	if in.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if in.Side != SideBuy && in.Side != SideSell {
		return fmt.Errorf("invalid side %q", in.Side)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %v", in.Amount)
	}
	if in.Price < 0 {
		return fmt.Errorf("price must not be negative, got %v", in.Price)
	}
	return nil
}

// Normalize fills optional fields with their defaults.
func (in *RiskCheckInput) Normalize() {
	if in.TradeType == "" {
		in.TradeType = OrderTypeMarket
	}
	if in.Timeframe == "" {
		in.Timeframe = TimeframeH1
	}
}

// IndividualRiskCheck is the outcome of one risk dimension.
type IndividualRiskCheck struct {
	Approved  bool               `json:"approved"`
	RiskLevel RiskLevel          `json:"risk_level"`
	Reasoning string             `json:"reasoning"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// CheckEntry names an individual check inside a result. Results keep checks
// as an ordered slice so the reporting order stays stable across runs.
type CheckEntry struct {
	Name  string              `json:"name"`
	Check IndividualRiskCheck `json:"check"`
}

// RiskAdjustments carries the suggested trade parameters computed in the
// ADJUST phase. Suggested values are advisory and always present, even for
// rejected trades.
type RiskAdjustments struct {
	SuggestedAmount float64 `json:"suggested_amount"`
	StopLoss        float64 `json:"stop_loss,omitempty"`
	TakeProfit      float64 `json:"take_profit,omitempty"`
	RiskPerTrade    float64 `json:"risk_per_trade"`
	Reasoning       string  `json:"reasoning"`
}

// RiskCheckResult is the final verdict of the pipeline. Constructed fresh per
// invocation and never mutated after return.
type RiskCheckResult struct {
	Approved       bool             `json:"approved"`
	RiskScore      int              `json:"risk_score"` // 1 (benign) .. 10 (blocked)
	Recommendation Recommendation   `json:"recommendation"`
	Reasoning      string           `json:"reasoning"`
	Adjustments    *RiskAdjustments `json:"adjustments,omitempty"`
	Checks         []CheckEntry     `json:"checks"`
	Timestamp      time.Time        `json:"timestamp"`
}

// CheckByName returns the named check, if present.
func (r *RiskCheckResult) CheckByName(name string) (IndividualRiskCheck, bool) {
	for _, entry := range r.Checks {
		if entry.Name == name {
			return entry.Check, true
		}
	}
	return IndividualRiskCheck{}, false
}

// ApprovedCount returns how many checks passed.
func (r *RiskCheckResult) ApprovedCount() int {
	n := 0
	for _, entry := range r.Checks {
		if entry.Check.Approved {
			n++
		}
	}
	return n
}

// OrderDecision is the chosen execution style for an approved trade.
// LimitPrice is set only when OrderType is LIMIT; a LIMIT BUY price is below
// the current price and a LIMIT SELL price above it.
type OrderDecision struct {
	OrderType  OrderType `json:"order_type"`
	LimitPrice float64   `json:"limit_price,omitempty"`
	Reasoning  string    `json:"reasoning"`
}

// StopLossTakeProfit carries derived protective levels. For BUY,
// StopLoss < entry < TakeProfit; for SELL the reverse.
type StopLossTakeProfit struct {
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	Reasoning  string  `json:"reasoning"`
	ATR        float64 `json:"atr"`
}
