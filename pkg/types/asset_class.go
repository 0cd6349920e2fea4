package types

import "strings"

// AssetClass groups symbols that share tick sizes and risk characteristics.
type AssetClass string

const (
	AssetCrypto    AssetClass = "CRYPTO"
	AssetForex     AssetClass = "FOREX"
	AssetIndex     AssetClass = "INDEX"
	AssetCommodity AssetClass = "COMMODITY"
	AssetUnknown   AssetClass = "UNKNOWN"
)

var (
	cryptoBases = []string{"BTC", "ETH", "SOL", "BNB", "XRP", "ADA", "DOGE", "DOT", "LINK", "AVAX", "LTC"}
	indexNames  = []string{"US30", "US500", "NAS100", "SPX500", "GER40", "DAX", "UK100", "JPN225"}
	commodities = []string{"XAU", "XAG", "WTI", "BRENT", "OIL", "NATGAS"}
	fxCodes     = map[string]bool{
		"USD": true, "EUR": true, "GBP": true, "JPY": true,
		"CHF": true, "AUD": true, "CAD": true, "NZD": true,
	}
)

// ClassifySymbol maps a symbol like "BTCUSDT", "BTC/USD", "EURUSD" or "US30"
// to its asset class. Separators are ignored.
func ClassifySymbol(symbol string) AssetClass {
	s := normalizeSymbol(symbol)
	if s == "" {
		return AssetUnknown
	}

	for _, name := range indexNames {
		if strings.Contains(s, name) {
			return AssetIndex
		}
	}
	for _, name := range commodities {
		if strings.Contains(s, name) {
			return AssetCommodity
		}
	}
	for _, base := range cryptoBases {
		if strings.HasPrefix(s, base) {
			return AssetCrypto
		}
	}
	if strings.HasSuffix(s, "USDT") || strings.HasSuffix(s, "USDC") || strings.HasSuffix(s, "PERP") {
		return AssetCrypto
	}
	if len(s) == 6 && fxCodes[s[:3]] && fxCodes[s[3:]] {
		return AssetForex
	}
	return AssetUnknown
}

// SameSymbol reports whether two symbols name the same instrument once
// separators and case are stripped, so "BTC/USDT" matches "btcusdt".
func SameSymbol(a, b string) bool {
	return normalizeSymbol(a) == normalizeSymbol(b)
}

func normalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, sep := range []string{"/", "-", "_", ":"} {
		s = strings.ReplaceAll(s, sep, "")
	}
	return s
}

// BaseAsset returns the leading asset code of a symbol ("BTC" for
// "BTC/USDT"), best effort.
func BaseAsset(symbol string) string {
	s := normalizeSymbol(symbol)
	for _, base := range cryptoBases {
		if strings.HasPrefix(s, base) {
			return base
		}
	}
	if len(s) >= 3 {
		return s[:3]
	}
	return s
}
