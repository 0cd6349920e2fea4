package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tradeops/riskgate/pkg/types"
)

// TestFormatDecision tests the alert text for each recommendation.
func TestFormatDecision(t *testing.T) {
	input := types.RiskCheckInput{Symbol: "BTCUSDT", Side: types.SideBuy, Amount: 0.1}
	result := &types.RiskCheckResult{
		Approved:       true,
		RiskScore:      3,
		Recommendation: types.RecommendationProceed,
		Reasoning:      "all clear",
		Checks: []types.CheckEntry{
			{Name: "position", Check: types.IndividualRiskCheck{Approved: true}},
			{Name: "market", Check: types.IndividualRiskCheck{Approved: true}},
		},
		Adjustments: &types.RiskAdjustments{
			SuggestedAmount: 0.05,
			StopLoss:        49800,
			TakeProfit:      50200,
		},
		Timestamp: time.Now(),
	}

	text := formatDecision(input, result)

	assert.Contains(t, text, "✅")
	assert.Contains(t, text, "PROCEED")
	assert.Contains(t, text, "BUY 0.1 BTCUSDT")
	assert.Contains(t, text, "3/10")
	assert.Contains(t, text, "2/2 checks passed")
	assert.Contains(t, text, "SL 49800 / TP 50200")
}

// TestFormatDecision_Abort tests the alarm emoji and that missing
// adjustments do not break the message.
func TestFormatDecision_Abort(t *testing.T) {
	input := types.RiskCheckInput{Symbol: "ETHUSDT", Side: types.SideSell, Amount: 2}
	result := &types.RiskCheckResult{
		RiskScore:      10,
		Recommendation: types.RecommendationAbort,
		Reasoning:      "market data unavailable",
	}

	text := formatDecision(input, result)

	assert.Contains(t, text, "🚨")
	assert.Contains(t, text, "ABORT")
	assert.Contains(t, text, "market data unavailable")
	assert.NotContains(t, text, "Suggested size")
}
