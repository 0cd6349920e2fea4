// Package openai implements the consolidation provider on the OpenAI chat
// completion API. The model sees the full risk payload as JSON and must
// answer with a strict JSON verdict; anything else is treated as a provider
// failure so the pipeline can fall back to its conservative default.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai_api "github.com/sashabaranov/go-openai"

	"github.com/tradeops/riskgate/internal/logger"
	"github.com/tradeops/riskgate/internal/rerr"
	"github.com/tradeops/riskgate/pkg/types"
)

const systemPrompt = `You are a risk officer for a crypto trading desk.
You receive the context of a proposed trade as JSON: the individual risk
checks already performed, account balance, portfolio, market conditions and
quantitative risk metrics. Weigh them and answer with a single JSON object,
nothing else:

{"risk_score": <integer 1-10>, "recommendation": "PROCEED"|"CAUTION"|"ABORT", "reasoning": "<one or two sentences>"}

A risk_score of 1 is negligible risk, 10 means the trade must not happen.
Missing context sections mean the data could not be gathered and should
raise the score. Be conservative.`

// Consolidator asks a chat model for the final verdict.
type Consolidator struct {
	client *openai_api.Client
	model  string
	log    zerolog.Logger
}

// NewConsolidator returns a consolidator talking to the given model,
// defaulting to gpt-4o-mini.
func NewConsolidator(apiKey, model string) *Consolidator {
	if model == "" {
		model = openai_api.GPT4oMini
	}
	return &Consolidator{
		client: openai_api.NewClient(apiKey),
		model:  model,
		log:    logger.Component("openai_consolidation"),
	}
}

// AnalyzeRisk sends the payload to the model and parses its verdict.
func (c *Consolidator) AnalyzeRisk(ctx context.Context, payload types.ConsolidationPayload) (*types.ConsolidationVerdict, error) {
	prompt, err := buildPrompt(payload)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.CategoryProvider, "openai_consolidation", "encode payload")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai_api.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		Messages: []openai_api.ChatCompletionMessage{
			{Role: openai_api.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai_api.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, rerr.Provider("openai_consolidation", err)
	}
	if len(resp.Choices) == 0 {
		return nil, rerr.New(rerr.CategoryProvider, "openai_consolidation", "completion has no choices")
	}

	verdict, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		c.log.Warn().Err(err).Msg("model answer did not parse")
		return nil, err
	}

	c.log.Debug().
		Str("symbol", payload.Symbol).
		Int("score", verdict.RiskScore).
		Str("recommendation", string(verdict.Recommendation)).
		Msg("model verdict")

	return verdict, nil
}

func buildPrompt(payload types.ConsolidationPayload) (string, error) {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Proposed trade: %s %v %s at %v.\n\n",
		payload.PositionDetails.Side, payload.PositionDetails.Amount,
		payload.Symbol, payload.PositionDetails.Price)
	sb.WriteString("Risk context:\n")
	sb.Write(encoded)
	return sb.String(), nil
}

// parseVerdict extracts the JSON verdict from the model answer. Models like
// to wrap JSON in code fences or prose, so parsing starts at the first brace
// and ends at the last.
func parseVerdict(content string) (*types.ConsolidationVerdict, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, rerr.New(rerr.CategoryProvider, "openai_consolidation", "answer contains no JSON object")
	}

	var raw struct {
		RiskScore      int    `json:"risk_score"`
		Recommendation string `json:"recommendation"`
		Reasoning      string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, rerr.Wrap(err, rerr.CategoryProvider, "openai_consolidation", "decode verdict")
	}

	recommendation := types.Recommendation(strings.ToUpper(strings.TrimSpace(raw.Recommendation)))
	switch recommendation {
	case types.RecommendationProceed, types.RecommendationCaution, types.RecommendationAbort:
	default:
		return nil, rerr.New(rerr.CategoryProvider, "openai_consolidation",
			fmt.Sprintf("unknown recommendation %q", raw.Recommendation))
	}

	score := raw.RiskScore
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	return &types.ConsolidationVerdict{
		RiskScore:      score,
		Recommendation: recommendation,
		Reasoning:      strings.TrimSpace(raw.Reasoning),
	}, nil
}
