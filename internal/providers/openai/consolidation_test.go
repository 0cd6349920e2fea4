package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeops/riskgate/pkg/types"
)

// TestParseVerdict tests plain and fenced JSON answers.
func TestParseVerdict(t *testing.T) {
	verdict, err := parseVerdict(`{"risk_score": 4, "recommendation": "CAUTION", "reasoning": "elevated volatility"}`)
	require.NoError(t, err)
	assert.Equal(t, 4, verdict.RiskScore)
	assert.Equal(t, types.RecommendationCaution, verdict.Recommendation)
	assert.Equal(t, "elevated volatility", verdict.Reasoning)

	fenced := "Here is my assessment:\n```json\n{\"risk_score\": 2, \"recommendation\": \"proceed\", \"reasoning\": \"all checks passed\"}\n```\n"
	verdict, err = parseVerdict(fenced)
	require.NoError(t, err)
	assert.Equal(t, 2, verdict.RiskScore)
	assert.Equal(t, types.RecommendationProceed, verdict.Recommendation)
}

// TestParseVerdict_ClampsScore tests that out-of-range scores clamp into
// 1..10 instead of failing the whole consolidation.
func TestParseVerdict_ClampsScore(t *testing.T) {
	verdict, err := parseVerdict(`{"risk_score": 15, "recommendation": "ABORT", "reasoning": "x"}`)
	require.NoError(t, err)
	assert.Equal(t, 10, verdict.RiskScore)

	verdict, err = parseVerdict(`{"risk_score": 0, "recommendation": "PROCEED", "reasoning": "x"}`)
	require.NoError(t, err)
	assert.Equal(t, 1, verdict.RiskScore)
}

// TestParseVerdict_Rejects tests the answers that must be treated as
// provider failures.
func TestParseVerdict_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no json", "I think this trade is fine."},
		{"broken json", `{"risk_score": 3, "recommendation":`},
		{"unknown recommendation", `{"risk_score": 3, "recommendation": "MAYBE", "reasoning": "x"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseVerdict(tc.content)
			assert.Error(t, err)
		})
	}
}

// TestBuildPrompt tests that the prompt names the trade and embeds the
// payload JSON.
func TestBuildPrompt(t *testing.T) {
	payload := types.ConsolidationPayload{
		Symbol: "BTCUSDT",
		PositionDetails: types.PositionDetails{
			Side: types.SideBuy, Amount: 0.1, Price: 50000,
		},
		Checks: []types.CheckEntry{
			{Name: "position", Check: types.IndividualRiskCheck{Approved: true}},
		},
	}

	prompt, err := buildPrompt(payload)

	require.NoError(t, err)
	assert.Contains(t, prompt, "BUY 0.1 BTCUSDT at 50000")
	assert.Contains(t, prompt, `"position"`)
}
