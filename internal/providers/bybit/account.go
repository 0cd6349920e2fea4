package bybit

import (
	"context"

	"github.com/tradeops/riskgate/internal/rerr"
	"github.com/tradeops/riskgate/pkg/types"
)

// GetCurrentBalance fetches the unified wallet and condenses it to the
// margin snapshot the pipeline needs. Free margin is what is left after the
// initial margin already committed to open positions.
func (c *Client) GetCurrentBalance(ctx context.Context) (*types.AccountBalance, error) {
	params := map[string]interface{}{
		"accountType": c.cfg.AccountType,
	}

	result, err := c.call(ctx, "account_wallet", func() (interface{}, error) {
		return c.httpClient.NewUtaBybitServiceWithParams(params).GetAccountWallet(ctx)
	})
	if err != nil {
		return nil, err
	}

	var wallet struct {
		List []struct {
			TotalEquity           string `json:"totalEquity"`
			TotalAvailableBalance string `json:"totalAvailableBalance"`
			TotalInitialMargin    string `json:"totalInitialMargin"`
			TotalMarginBalance    string `json:"totalMarginBalance"`
		} `json:"list"`
	}
	if err := decodeResult(result, &wallet); err != nil {
		return nil, rerr.Wrap(err, rerr.CategoryExchange, "bybit", "decode wallet")
	}
	if len(wallet.List) == 0 {
		return nil, rerr.New(rerr.CategoryExchange, "bybit", "wallet response has no accounts")
	}

	account := wallet.List[0]
	marginBalance := parseFloat64(account.TotalMarginBalance)
	initialMargin := parseFloat64(account.TotalInitialMargin)

	balance := &types.AccountBalance{
		AvailableBalance: parseFloat64(account.TotalAvailableBalance),
		UsedMargin:       initialMargin,
		FreeMargin:       marginBalance - initialMargin,
	}

	c.log.Debug().
		Float64("available", balance.AvailableBalance).
		Float64("used_margin", balance.UsedMargin).
		Msg("wallet snapshot")

	return balance, nil
}
