package bybit

import (
	"context"

	"github.com/tradeops/riskgate/internal/monitoring"
	"github.com/tradeops/riskgate/internal/rerr"
	"github.com/tradeops/riskgate/pkg/types"
)

const maxKlineLimit = 1000

// klineIntervals maps timeframes onto the v5 interval tokens. Minutes are
// plain numbers, day and week are letters.
var klineIntervals = map[types.Timeframe]string{
	types.TimeframeM1:  "1",
	types.TimeframeM5:  "5",
	types.TimeframeM15: "15",
	types.TimeframeM30: "30",
	types.TimeframeH1:  "60",
	types.TimeframeH4:  "240",
	types.TimeframeD1:  "D",
	types.TimeframeW1:  "W",
}

// GetCandles fetches kline history for a symbol. The exchange returns rows
// newest first; callers get them back in chronological order.
func (c *Client) GetCandles(ctx context.Context, symbol string, timeframe types.Timeframe, limit int) ([]types.PriceCandle, error) {
	interval, ok := klineIntervals[timeframe]
	if !ok {
		return nil, rerr.Validation("bybit", "unsupported timeframe %q", timeframe)
	}
	if limit <= 0 {
		limit = 200
	}
	if limit > maxKlineLimit {
		limit = maxKlineLimit
	}

	params := map[string]interface{}{
		"category": c.cfg.Category,
		"symbol":   symbol,
		"interval": interval,
		"limit":    limit,
	}

	result, err := c.call(ctx, "market_kline", func() (interface{}, error) {
		return c.httpClient.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
	})
	if err != nil {
		return nil, err
	}

	var klineResult struct {
		Symbol string     `json:"symbol"`
		List   [][]string `json:"list"`
	}
	if err := decodeResult(result, &klineResult); err != nil {
		return nil, rerr.Wrap(err, rerr.CategoryExchange, "bybit", "decode klines")
	}

	candles := candlesFromRows(klineResult.List)

	c.log.Debug().
		Str("symbol", symbol).
		Str("interval", interval).
		Int("candles", len(candles)).
		Msg("kline history fetched")

	return candles, nil
}

// candlesFromRows converts the newest-first rows of a kline response into
// chronological candles. Row layout:
// [startTime, open, high, low, close, volume, turnover].
func candlesFromRows(rows [][]string) []types.PriceCandle {
	candles := make([]types.PriceCandle, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) < 6 {
			continue
		}
		candles = append(candles, types.PriceCandle{
			Timestamp: parseTimestamp(row[0]),
			Open:      parseFloat64(row[1]),
			High:      parseFloat64(row[2]),
			Low:       parseFloat64(row[3]),
			Close:     parseFloat64(row[4]),
			Volume:    parseFloat64(row[5]),
		})
	}
	return candles
}

// GetCurrentPrice returns the last traded price for a symbol.
func (c *Client) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	params := map[string]interface{}{
		"category": c.cfg.Category,
		"symbol":   symbol,
	}

	result, err := c.call(ctx, "market_tickers", func() (interface{}, error) {
		return c.httpClient.NewUtaBybitServiceWithParams(params).GetMarketTickers(ctx)
	})
	if err != nil {
		return 0, err
	}

	var tickerResult struct {
		List []struct {
			Symbol    string `json:"symbol"`
			LastPrice string `json:"lastPrice"`
		} `json:"list"`
	}
	if err := decodeResult(result, &tickerResult); err != nil {
		return 0, rerr.Wrap(err, rerr.CategoryExchange, "bybit", "decode tickers")
	}
	if len(tickerResult.List) == 0 {
		return 0, rerr.New(rerr.CategoryExchange, "bybit", "no ticker data for "+symbol)
	}

	price := parseFloat64(tickerResult.List[0].LastPrice)
	if price <= 0 {
		return 0, rerr.New(rerr.CategoryExchange, "bybit", "ticker carries no price for "+symbol)
	}

	monitoring.UpdatePrice(symbol, price)
	return price, nil
}
