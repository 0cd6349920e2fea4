package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseSide(t *testing.T) {
	cases := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"BUY", SideBuy, false},
		{"buy", SideBuy, false},
		{"long", SideBuy, false},
		{"SELL", SideSell, false},
		{" short ", SideSell, false},
		{"hold", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ParseSide(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseSide(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSide(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSide(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseTimeframe(t *testing.T) {
	for in, want := range map[string]Timeframe{
		"M1":  TimeframeM1,
		"1m":  TimeframeM1,
		"h4":  TimeframeH4,
		"240": TimeframeH4,
		"1d":  TimeframeD1,
		"W1":  TimeframeW1,
	} {
		got, err := ParseTimeframe(in)
		if err != nil {
			t.Fatalf("ParseTimeframe(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseTimeframe(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseTimeframe("fortnight"); err == nil {
		t.Error("expected error for unknown timeframe")
	}
}

func TestClassifySymbol(t *testing.T) {
	cases := map[string]AssetClass{
		"BTCUSDT":  AssetCrypto,
		"BTC/USD":  AssetCrypto,
		"eth-usdc": AssetCrypto,
		"SOLUSDT":  AssetCrypto,
		"EURUSD":   AssetForex,
		"GBP/JPY":  AssetForex,
		"US30":     AssetIndex,
		"NAS100":   AssetIndex,
		"XAUUSD":   AssetCommodity,
		"TSLA":     AssetUnknown,
		"":         AssetUnknown,
	}

	for symbol, want := range cases {
		if got := ClassifySymbol(symbol); got != want {
			t.Errorf("ClassifySymbol(%q) = %v, want %v", symbol, got, want)
		}
	}
}

func TestRiskCheckInputValidate(t *testing.T) {
	valid := RiskCheckInput{Symbol: "BTCUSDT", Side: SideBuy, Amount: 0.5}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	for name, in := range map[string]RiskCheckInput{
		"no symbol":      {Side: SideBuy, Amount: 1},
		"bad side":       {Symbol: "BTCUSDT", Side: "HOLD", Amount: 1},
		"zero amount":    {Symbol: "BTCUSDT", Side: SideBuy},
		"negative price": {Symbol: "BTCUSDT", Side: SideBuy, Amount: 1, Price: -5},
	} {
		if err := in.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestRiskCheckInputNormalize(t *testing.T) {
	in := RiskCheckInput{Symbol: "BTCUSDT", Side: SideBuy, Amount: 1}
	in.Normalize()
	if in.TradeType != OrderTypeMarket {
		t.Errorf("trade type default = %v, want MARKET", in.TradeType)
	}
	if in.Timeframe != TimeframeH1 {
		t.Errorf("timeframe default = %v, want H1", in.Timeframe)
	}
}

func TestRiskCheckResultJSONKeepsCheckOrder(t *testing.T) {
	res := RiskCheckResult{
		RiskScore:      3,
		Recommendation: RecommendationProceed,
		Checks: []CheckEntry{
			{Name: "position", Check: IndividualRiskCheck{Approved: true}},
			{Name: "portfolio", Check: IndividualRiskCheck{Approved: true}},
			{Name: "technical", Check: IndividualRiskCheck{Approved: false}},
		},
	}

	raw, err := json.Marshal(&res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(raw)
	iPos := strings.Index(s, `"position"`)
	iPort := strings.Index(s, `"portfolio"`)
	iTech := strings.Index(s, `"technical"`)
	if iPos < 0 || iPort < 0 || iTech < 0 {
		t.Fatalf("missing check names in %s", s)
	}
	if !(iPos < iPort && iPort < iTech) {
		t.Errorf("check order not preserved in JSON: %s", s)
	}
}

func TestResultHelpers(t *testing.T) {
	res := RiskCheckResult{Checks: []CheckEntry{
		{Name: "position", Check: IndividualRiskCheck{Approved: true}},
		{Name: "account", Check: IndividualRiskCheck{Approved: false}},
	}}

	if got := res.ApprovedCount(); got != 1 {
		t.Errorf("ApprovedCount = %d, want 1", got)
	}
	if _, ok := res.CheckByName("account"); !ok {
		t.Error("CheckByName(account) not found")
	}
	if _, ok := res.CheckByName("market"); ok {
		t.Error("CheckByName(market) should be missing")
	}
}
