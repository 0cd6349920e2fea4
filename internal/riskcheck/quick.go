package riskcheck

import "github.com/tradeops/riskgate/pkg/types"

// approximatePrices are deliberately rough anchors for the quick screen. The
// screen only has to reject obviously oversized trades, not value them.
var approximatePrices = map[string]float64{
	"BTC": 100000,
	"ETH": 4000,
	"SOL": 200,
	"BNB": 600,
	"XRP": 2,
}

// maxExposurePctFor caps a single quick-screened trade as a percentage of
// the account balance. Large caps get tighter limits.
func maxExposurePctFor(symbol string) float64 {
	switch types.BaseAsset(symbol) {
	case "BTC":
		return 5
	case "ETH":
		return 7
	default:
		return 10
	}
}

func approximatePrice(symbol string) float64 {
	if p, ok := approximatePrices[types.BaseAsset(symbol)]; ok {
		return p
	}
	return 1.0
}

// QuickRiskCheck is a synchronous screen with no provider calls, meant for
// hot paths that cannot wait for a full pipeline run. It is strictly more
// conservative than ExecuteRiskCheck: passing here does not guarantee
// approval, but failing here guarantees a full check would not approve a
// larger exposure.
func QuickRiskCheck(symbol string, amount float64, side types.Side, accountBalance float64) bool {
	if symbol == "" || amount <= 0 || accountBalance <= 0 {
		return false
	}
	if side != types.SideBuy && side != types.SideSell {
		return false
	}

	estimatedValue := amount * approximatePrice(symbol)
	if estimatedValue > accountBalance {
		return false
	}

	maxValue := accountBalance * maxExposurePctFor(symbol) / 100
	return estimatedValue <= maxValue
}
