// Package orderparams decides how an approved trade should be placed: order
// type from confidence and volatility, protective stop-loss/take-profit
// levels from price structure, and timeframe-aware validation of both.
package orderparams

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tradeops/riskgate/internal/technical"
	"github.com/tradeops/riskgate/pkg/types"
)

// ErrConfidenceTooLow marks a prediction below the actionable threshold.
// Callers must reject the trade instead of picking an order type.
var ErrConfidenceTooLow = errors.New("confidence below actionable threshold")

const (
	marketConfidence     = 85.0
	limitConfidenceFloor = 80.0
	minActionable        = 60.0
	limitVolatilityCap   = 0.015
)

// atrMultipliers pairs the stop and take-profit ATR multiples per timeframe.
type atrMultipliers struct {
	stop   float64
	profit float64
}

var timeframeATRMultipliers = map[types.Timeframe]atrMultipliers{
	types.TimeframeM1:  {1.5, 2.0},
	types.TimeframeM5:  {1.8, 2.5},
	types.TimeframeM15: {2.0, 3.0},
	types.TimeframeM30: {2.2, 3.5},
	types.TimeframeH1:  {2.5, 4.0},
	types.TimeframeH4:  {3.0, 5.0},
	types.TimeframeD1:  {5.0, 8.0},
}

var defaultATRMultipliers = atrMultipliers{2.0, 3.0}

// timeframeMaxDistance caps the stop/take distance in price units.
var timeframeMaxDistance = map[types.Timeframe]float64{
	types.TimeframeM1:  20,
	types.TimeframeM5:  50,
	types.TimeframeM15: 100,
	types.TimeframeM30: 150,
	types.TimeframeH1:  200,
	types.TimeframeH4:  500,
	types.TimeframeD1:  1000,
}

const defaultMaxDistance = 50.0

// minDistanceByClass keeps protective levels outside the broker's rejection
// band per asset class, in price units.
var minDistanceByClass = map[types.AssetClass]float64{
	types.AssetCrypto:    50.0,
	types.AssetForex:     0.0005,
	types.AssetIndex:     5.0,
	types.AssetCommodity: 1.0,
}

const defaultMinDistance = 1.0

// Service derives and validates order parameters.
type Service struct {
	log zerolog.Logger
}

// NewService returns a ready Service.
func NewService() *Service {
	return &Service{
		log: log.With().Str("component", "order_params").Logger(),
	}
}

// DecideOrderType picks MARKET or LIMIT for a prediction. Confidence is in
// [0,100], volatility is a stdev of returns. Confidence below 60 returns
// ErrConfidenceTooLow and the caller must reject the trade.
func (s *Service) DecideOrderType(side types.Side, confidence, volatility, currentPrice float64) (*types.OrderDecision, error) {
	switch {
	case confidence >= marketConfidence:
		return &types.OrderDecision{
			OrderType: types.OrderTypeMarket,
			Reasoning: fmt.Sprintf("confidence %.1f >= %.0f, immediate execution takes priority", confidence, marketConfidence),
		}, nil

	case confidence >= limitConfidenceFloor:
		if volatility >= limitVolatilityCap {
			return &types.OrderDecision{
				OrderType: types.OrderTypeMarket,
				Reasoning: fmt.Sprintf("volatility %.4f too high for a resting limit order", volatility),
			}, nil
		}
		return s.limitDecision(side, confidence, currentPrice), nil

	case confidence >= minActionable:
		return &types.OrderDecision{
			OrderType: types.OrderTypeMarket,
			Reasoning: fmt.Sprintf("moderate confidence %.1f, market order without entry optimization", confidence),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %.1f < %.0f", ErrConfidenceTooLow, confidence, minActionable)
	}
}

// limitDecision places the limit a few points inside the current price. The
// offset band scales with price magnitude and narrows as confidence
// approaches the market threshold.
func (s *Service) limitDecision(side types.Side, confidence, currentPrice float64) *types.OrderDecision {
	lo, hi := offsetBand(currentPrice)

	// t runs 0 -> 1 across the [80,85) band; higher confidence means a
	// tighter offset so the order actually fills.
	t := (confidence - limitConfidenceFloor) / (marketConfidence - limitConfidenceFloor)
	offset := hi - t*(hi-lo)

	var limitPrice float64
	if side == types.SideBuy {
		limitPrice = currentPrice - offset
		if limitPrice <= 0 || limitPrice >= currentPrice {
			return s.limitFallback(side, currentPrice)
		}
	} else {
		limitPrice = currentPrice + offset
		if limitPrice <= currentPrice {
			return s.limitFallback(side, currentPrice)
		}
	}

	s.log.Debug().
		Str("side", string(side)).
		Float64("offset", offset).
		Float64("limit_price", limitPrice).
		Msg("limit order selected")

	return &types.OrderDecision{
		OrderType:  types.OrderTypeLimit,
		LimitPrice: limitPrice,
		Reasoning:  fmt.Sprintf("confidence %.1f with calm volatility, limit %.1f points from price", confidence, offset),
	}
}

func (s *Service) limitFallback(side types.Side, currentPrice float64) *types.OrderDecision {
	s.log.Debug().
		Str("side", string(side)).
		Float64("price", currentPrice).
		Msg("limit offset unusable, falling back to market")
	return &types.OrderDecision{
		OrderType: types.OrderTypeMarket,
		Reasoning: "limit price offset unusable at this price level, market order instead",
	}
}

// offsetBand returns the limit offset range for the price magnitude.
func offsetBand(price float64) (lo, hi float64) {
	switch {
	case price > 50000:
		return 100, 500
	case price > 1000:
		return 10, 50
	default:
		return 1, 5
	}
}

// CalculateTechnicalStopLossTakeProfit derives protective levels from ATR
// multiples and the nearest support/resistance, taking the tighter stop and
// the more conservative target. It never fails: any degenerate intermediate
// value collapses to the 1%-of-price symmetric fallback.
func (s *Service) CalculateTechnicalStopLossTakeProfit(candles []types.PriceCandle, side types.Side, currentPrice float64, timeframe types.Timeframe, symbol string) *types.StopLossTakeProfit {
	if currentPrice <= 0 {
		return &types.StopLossTakeProfit{Reasoning: "no current price, levels unavailable"}
	}

	atr := technical.CalculateATR(candles, technical.DefaultATRPeriod)
	mults := multipliersFor(timeframe)
	support, resistance := technical.CalculatePreciseSupportResistance(candles, currentPrice)

	var stop, target float64
	if side == types.SideBuy {
		stop = math.Max(currentPrice-mults.stop*atr, support-0.5*atr)
		target = math.Min(currentPrice+mults.profit*atr, resistance-0.3*atr)
	} else {
		stop = math.Min(currentPrice+mults.stop*atr, resistance+0.5*atr)
		target = math.Max(currentPrice-mults.profit*atr, support+0.3*atr)
	}

	minDist := MinDistanceFor(symbol)
	stop, target = applyMinDistance(side, currentPrice, stop, target, minDist)

	if !levelsSane(side, currentPrice, stop, target) {
		return s.fallbackLevels(side, currentPrice, atr)
	}

	s.log.Debug().
		Str("symbol", symbol).
		Str("side", string(side)).
		Float64("atr", atr).
		Float64("stop", stop).
		Float64("target", target).
		Msg("technical stop/take-profit derived")

	return &types.StopLossTakeProfit{
		StopLoss:   stop,
		TakeProfit: target,
		ATR:        atr,
		Reasoning: fmt.Sprintf("%s %s: ATR %.4f x %.1f/%.1f, support %.4f / resistance %.4f",
			timeframe, side, atr, mults.stop, mults.profit, support, resistance),
	}
}

// fallbackLevels is the documented 1%-of-price symmetric answer used when
// the technical derivation produced something unusable.
func (s *Service) fallbackLevels(side types.Side, currentPrice, atr float64) *types.StopLossTakeProfit {
	out := &types.StopLossTakeProfit{
		ATR:       atr,
		Reasoning: "technical levels unusable, fallback to 1% symmetric distance",
	}
	if side == types.SideBuy {
		out.StopLoss = currentPrice * 0.99
		out.TakeProfit = currentPrice * 1.01
	} else {
		out.StopLoss = currentPrice * 1.01
		out.TakeProfit = currentPrice * 0.99
	}
	return out
}

// ValidateTimeframeStopLossTakeProfit clamps both distances to the
// timeframe maximum, re-applies the symbol minimum and forces the levels to
// the correct side of entry. Returns the corrected pair.
func (s *Service) ValidateTimeframeStopLossTakeProfit(side types.Side, entry, stopLoss, takeProfit float64, timeframe types.Timeframe, symbol string) (float64, float64) {
	if entry <= 0 {
		return stopLoss, takeProfit
	}

	maxDist := maxDistanceFor(timeframe)
	minDist := MinDistanceFor(symbol)

	stopDist := clampDistance(math.Abs(entry-stopLoss), minDist, maxDist)
	takeDist := clampDistance(math.Abs(takeProfit-entry), minDist, maxDist)

	if side == types.SideBuy {
		stop := entry - stopDist
		if stop <= 0 {
			stop = entry * 0.99
		}
		return stop, entry + takeDist
	}

	take := entry - takeDist
	if take <= 0 {
		take = entry * 0.99
	}
	return entry + stopDist, take
}

// clampDistance applies the timeframe ceiling first, then the symbol floor.
// When the floor exceeds the ceiling the floor wins; too-tight protective
// levels get rejected by brokers outright.
func clampDistance(dist, minDist, maxDist float64) float64 {
	if dist > maxDist {
		dist = maxDist
	}
	if dist < minDist {
		dist = minDist
	}
	return dist
}

// MinDistanceFor returns the minimum stop/take distance for a symbol's
// asset class, in price units.
func MinDistanceFor(symbol string) float64 {
	if d, ok := minDistanceByClass[types.ClassifySymbol(symbol)]; ok {
		return d
	}
	return defaultMinDistance
}

// MaxDistanceForTimeframe exposes the per-timeframe distance ceiling.
func MaxDistanceForTimeframe(timeframe types.Timeframe) float64 {
	return maxDistanceFor(timeframe)
}

func maxDistanceFor(timeframe types.Timeframe) float64 {
	if d, ok := timeframeMaxDistance[timeframe]; ok {
		return d
	}
	return defaultMaxDistance
}

func multipliersFor(timeframe types.Timeframe) atrMultipliers {
	if m, ok := timeframeATRMultipliers[timeframe]; ok {
		return m
	}
	return defaultATRMultipliers
}

// applyMinDistance pushes both levels out to the minimum distance when the
// derivation left them too close to entry.
func applyMinDistance(side types.Side, entry, stop, target, minDist float64) (float64, float64) {
	if side == types.SideBuy {
		if entry-stop < minDist {
			stop = entry - minDist
		}
		if target-entry < minDist {
			target = entry + minDist
		}
	} else {
		if stop-entry < minDist {
			stop = entry + minDist
		}
		if entry-target < minDist {
			target = entry - minDist
		}
	}
	return stop, target
}

// maxLevelFraction bounds how far a derived level may sit from entry. A
// protective level half the price away means the ATR scale did not match the
// instrument.
const maxLevelFraction = 0.5

// levelsSane verifies ordering, finiteness and proportion before levels
// leave the service: BUY needs stop < entry < target, SELL the reverse.
func levelsSane(side types.Side, entry, stop, target float64) bool {
	for _, v := range []float64{entry, stop, target} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	if math.Abs(entry-stop) > entry*maxLevelFraction || math.Abs(target-entry) > entry*maxLevelFraction {
		return false
	}
	if side == types.SideBuy {
		return stop < entry && entry < target
	}
	return stop > entry && entry > target
}
