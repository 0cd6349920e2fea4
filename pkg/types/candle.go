package types

import "time"

// PriceCandle is a single OHLCV bar. Candles are produced by market data
// providers and treated as immutable, ordered oldest to newest.
type PriceCandle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// TechnicalLevels is the derived snapshot of price structure around the
// current price. Recomputed per call, never persisted.
type TechnicalLevels struct {
	Support    float64   `json:"support"`
	Resistance float64   `json:"resistance"`
	ATR        float64   `json:"atr"`
	SwingHighs []float64 `json:"swing_highs"`
	SwingLows  []float64 `json:"swing_lows"`
}
