package riskcheck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tradeops/riskgate/internal/monitoring"
	"github.com/tradeops/riskgate/internal/rerr"
	"github.com/tradeops/riskgate/pkg/types"
)

// result carries one collaborator call outcome through the pipeline. Failed
// calls are consumed by the assessors as values, never re-thrown.
type result[T any] struct {
	value T
	err   error
}

func (r result[T]) ok() bool { return r.err == nil }

func okResult[T any](v T) result[T] { return result[T]{value: v} }

func errResult[T any](err error) result[T] {
	var zero T
	return result[T]{value: zero, err: err}
}

// panicFault marks a provider that blew up instead of returning an error.
// Unlike plain errors, which degrade a single slice, a panic fails the whole
// check closed.
type panicFault struct {
	provider string
	value    any
}

func (p *panicFault) Error() string {
	return fmt.Sprintf("provider %s panicked: %v", p.provider, p.value)
}

// call runs one provider call with a bounded timeout and panic capture.
func call[T any](ctx context.Context, timeout time.Duration, provider string, fn func(context.Context) (T, error)) (out result[T]) {
	defer func() {
		if r := recover(); r != nil {
			out = errResult[T](&panicFault{provider: provider, value: r})
		}
	}()

	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	v, err := fn(callCtx)
	if err != nil {
		return errResult[T](rerr.Provider(provider, err))
	}
	return okResult(v)
}

// gathered holds the context slices collected by the fan-out. Any slice may
// carry an error instead of a value.
type gathered struct {
	account     result[*types.AccountBalance]
	riskMetrics result[*types.RiskMetrics]
	positions   result[[]types.PortfolioPosition]
	performance result[*types.PortfolioPerformance]
	candles     result[[]types.PriceCandle]
	analysis    result[*types.MarketAnalysis]

	// price is the resolved reference price: the caller's if given,
	// otherwise the market snapshot's.
	price float64
}

type sliceFailure struct {
	name string
	err  error
}

func (g *gathered) failures() []sliceFailure {
	var out []sliceFailure
	for _, f := range []sliceFailure{
		{"account_balance", g.account.err},
		{"risk_metrics", g.riskMetrics.err},
		{"portfolio_positions", g.positions.err},
		{"portfolio_performance", g.performance.err},
		{"market_candles", g.candles.err},
		{"market_analysis", g.analysis.err},
	} {
		if f.err != nil {
			out = append(out, f)
		}
	}
	return out
}

// firstPanic returns the first captured provider panic, if any.
func (g *gathered) firstPanic() *panicFault {
	for _, f := range g.failures() {
		var pf *panicFault
		if errors.As(f.err, &pf) {
			return pf
		}
	}
	return nil
}

// gather issues the three context fetches concurrently and waits for all of
// them. A failing slice records its error and leaves the siblings running;
// there is no partial short-circuit.
func (p *Pipeline) gather(ctx context.Context, input types.RiskCheckInput) *gathered {
	g := &gathered{}
	timeout := p.cfg.CallTimeout

	var wg sync.WaitGroup
	wg.Add(3)

	// Slice 1: account balance and risk metrics.
	go func() {
		defer wg.Done()

		if p.deps.Account == nil {
			g.account = errResult[*types.AccountBalance](rerr.ErrNotConfigured)
		} else {
			g.account = call(ctx, timeout, "account_balance", func(ctx context.Context) (*types.AccountBalance, error) {
				return p.deps.Account.GetCurrentBalance(ctx)
			})
		}

		if p.deps.RiskMetrics == nil {
			g.riskMetrics = errResult[*types.RiskMetrics](rerr.ErrNotConfigured)
		} else {
			g.riskMetrics = call(ctx, timeout, "risk_metrics", func(ctx context.Context) (*types.RiskMetrics, error) {
				return p.deps.RiskMetrics.GetRiskMetrics(ctx, input.BotID)
			})
		}
	}()

	// Slice 2: open positions and portfolio performance.
	go func() {
		defer wg.Done()

		if p.deps.Portfolio == nil {
			g.positions = errResult[[]types.PortfolioPosition](rerr.ErrNotConfigured)
			g.performance = errResult[*types.PortfolioPerformance](rerr.ErrNotConfigured)
			return
		}

		g.positions = call(ctx, timeout, "portfolio_positions", func(ctx context.Context) ([]types.PortfolioPosition, error) {
			return p.deps.Portfolio.GetPositions(ctx, input.BotID)
		})
		g.performance = call(ctx, timeout, "portfolio_performance", func(ctx context.Context) (*types.PortfolioPerformance, error) {
			return p.deps.Portfolio.GetPerformance(ctx, input.BotID)
		})
	}()

	// Slice 3: candle history feeding the market snapshot.
	go func() {
		defer wg.Done()

		if p.deps.MarketData == nil {
			g.candles = errResult[[]types.PriceCandle](rerr.ErrNotConfigured)
		} else {
			g.candles = call(ctx, timeout, "market_candles", func(ctx context.Context) ([]types.PriceCandle, error) {
				return p.deps.MarketData.GetCandles(ctx, input.Symbol, input.Timeframe, p.cfg.CandleLimit)
			})
		}

		if p.deps.Technical == nil {
			g.analysis = errResult[*types.MarketAnalysis](rerr.ErrNotConfigured)
			return
		}
		req := types.MarketAnalysisRequest{
			Symbol:    input.Symbol,
			Timeframe: input.Timeframe,
			Candles:   g.candles.value,
		}
		g.analysis = call(ctx, timeout, "market_analysis", func(ctx context.Context) (*types.MarketAnalysis, error) {
			return p.deps.Technical.AnalyzeMarket(ctx, req)
		})
	}()

	wg.Wait()

	g.price = input.Price
	if g.price <= 0 && g.analysis.ok() && g.analysis.value != nil {
		g.price = g.analysis.value.CurrentPrice
	}

	for _, f := range g.failures() {
		monitoring.RecordProviderFailure(f.name)
		p.log.Warn().Str("slice", f.name).Err(f.err).Msg("context slice unavailable")
	}
	return g
}
