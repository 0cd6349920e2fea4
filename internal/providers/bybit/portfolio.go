package bybit

import (
	"context"

	"github.com/tradeops/riskgate/internal/rerr"
	"github.com/tradeops/riskgate/pkg/types"
)

const orderHistoryLimit = 50

// positionRow is one entry of the v5 position list.
type positionRow struct {
	Symbol         string `json:"symbol"`
	Side           string `json:"side"`
	Size           string `json:"size"`
	EntryPrice     string `json:"entryPrice"`
	MarkPrice      string `json:"markPrice"`
	UnrealisedPnl  string `json:"unrealisedPnl"`
	CumRealisedPnl string `json:"cumRealisedPnl"`
	Leverage       string `json:"leverage"`
	CreatedTime    string `json:"createdTime"`
}

// GetPositions returns the open positions of the account. Bybit reports one
// row per position slot including empty ones, so zero-size rows are dropped.
func (c *Client) GetPositions(ctx context.Context, botID string) ([]types.PortfolioPosition, error) {
	rows, err := c.positionRows(ctx)
	if err != nil {
		return nil, err
	}

	positions := c.mapPositions(rows)
	c.log.Debug().Str("bot_id", botID).Int("open", len(positions)).Msg("position snapshot")
	return positions, nil
}

func (c *Client) mapPositions(rows []positionRow) []types.PortfolioPosition {
	var positions []types.PortfolioPosition
	for _, row := range rows {
		size := parseFloat64(row.Size)
		if size <= 0 {
			continue
		}
		side, err := types.ParseSide(row.Side)
		if err != nil {
			c.log.Warn().Str("symbol", row.Symbol).Str("side", row.Side).Msg("skipping position with unknown side")
			continue
		}
		positions = append(positions, types.PortfolioPosition{
			Symbol:        row.Symbol,
			Side:          side,
			Size:          size,
			EntryPrice:    parseFloat64(row.EntryPrice),
			MarkPrice:     parseFloat64(row.MarkPrice),
			UnrealizedPnL: parseFloat64(row.UnrealisedPnl),
			Leverage:      parseFloat64(row.Leverage),
			OpenedAt:      parseTimestamp(row.CreatedTime),
		})
	}
	return positions
}

// GetPerformance approximates recent performance from the live book and the
// recent order flow. The unified API has no cheap closed-trade aggregate, so
// trade count comes from filled order history and the PnL figures from the
// positions themselves.
func (c *Client) GetPerformance(ctx context.Context, botID string) (*types.PortfolioPerformance, error) {
	rows, err := c.positionRows(ctx)
	if err != nil {
		return nil, err
	}

	perf := &types.PortfolioPerformance{WinRate: 0.5} // coin flip until there is history

	var winners, scored int
	var worstOpenDrawdown float64
	for _, row := range rows {
		realized := parseFloat64(row.CumRealisedPnl)
		unrealized := parseFloat64(row.UnrealisedPnl)
		perf.TotalPnL += realized + unrealized

		if realized != 0 || unrealized != 0 {
			scored++
			if realized+unrealized >= 0 {
				winners++
			}
		}

		size := parseFloat64(row.Size)
		mark := parseFloat64(row.MarkPrice)
		if unrealized < 0 && size > 0 && mark > 0 {
			dd := -unrealized / (size * mark) * 100
			if dd > worstOpenDrawdown {
				worstOpenDrawdown = dd
			}
		}
	}
	if scored > 0 {
		perf.WinRate = float64(winners) / float64(scored)
	}
	// Open drawdown of the live book, not the historical equity curve.
	perf.MaxDrawdownPct = worstOpenDrawdown

	filled, err := c.filledOrderCount(ctx)
	if err != nil {
		return nil, err
	}
	perf.TotalTrades = filled

	return perf, nil
}

func (c *Client) positionRows(ctx context.Context) ([]positionRow, error) {
	params := map[string]interface{}{
		"category":   c.cfg.Category,
		"settleCoin": "USDT",
	}

	result, err := c.call(ctx, "position_list", func() (interface{}, error) {
		return c.httpClient.NewUtaBybitServiceWithParams(params).GetPositionList(ctx)
	})
	if err != nil {
		return nil, err
	}

	var positionResult struct {
		List []positionRow `json:"list"`
	}
	if err := decodeResult(result, &positionResult); err != nil {
		return nil, rerr.Wrap(err, rerr.CategoryExchange, "bybit", "decode positions")
	}
	return positionResult.List, nil
}

func (c *Client) filledOrderCount(ctx context.Context) (int, error) {
	params := map[string]interface{}{
		"category": c.cfg.Category,
		"limit":    orderHistoryLimit,
	}

	result, err := c.call(ctx, "order_history", func() (interface{}, error) {
		return c.httpClient.NewUtaBybitServiceWithParams(params).GetOrderHistory(ctx)
	})
	if err != nil {
		return 0, err
	}

	var orderResult struct {
		List []struct {
			OrderStatus string `json:"orderStatus"`
		} `json:"list"`
	}
	if err := decodeResult(result, &orderResult); err != nil {
		return 0, rerr.Wrap(err, rerr.CategoryExchange, "bybit", "decode order history")
	}

	filled := 0
	for _, order := range orderResult.List {
		if order.OrderStatus == "Filled" {
			filled++
		}
	}
	return filled, nil
}
