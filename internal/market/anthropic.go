package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultResearchModel = string(anthropic.ModelClaudeSonnet4_20250514)

	researchSystemPrompt = "You are a market research analyst sizing early-stage business ideas. Use conservative public estimates, never invent company names you are unsure of, and return strict JSON only."
)

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

// AnthropicProvider researches an idea's market with a single model call.
// There are no retries; the gatherer's timeout bounds the whole call.
type AnthropicProvider struct {
	messages AnthropicMessager
	model    string
}

func NewAnthropicProvider(apiKey, model string) (*AnthropicProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultResearchModel
	}
	return &AnthropicProvider{messages: newAnthropicClient(apiKey), model: model}, nil
}

func NewAnthropicProviderFromEnv(model string) (*AnthropicProvider, error) {
	return NewAnthropicProvider(os.Getenv("ANTHROPIC_API_KEY"), model)
}

func (p *AnthropicProvider) Name() string { return "anthropic:" + p.model }

type researchPayload struct {
	TAMUSD                        float64  `json:"tam_usd"`
	GrowthRate                    float64  `json:"growth_rate"`
	CompetitionLevel              float64  `json:"competition_level"`
	KeyTrends                     []string `json:"key_trends"`
	RegulatoryBarriers            []string `json:"regulatory_barriers"`
	TypicalMargins                float64  `json:"typical_margins"`
	CustomerAcquisitionDifficulty float64  `json:"customer_acquisition_difficulty"`
	Confidence                    float64  `json:"confidence"`
	NotableCompetitors            []string `json:"notable_competitors"`
}

func (p *AnthropicProvider) Research(ctx context.Context, req Request) (Intelligence, error) {
	resp, err := p.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   1024,
		System:      []anthropic.TextBlockParam{{Text: researchSystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(researchPrompt(req)))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return Intelligence{}, &ProviderError{Provider: p.Name(), Err: err}
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	raw := stripCodeFences(sb.String())
	if raw == "" {
		return Intelligence{}, &ProviderError{Provider: p.Name(), Err: errors.New("empty response")}
	}
	var out researchPayload
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Intelligence{}, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("json parse: %w", err)}
	}
	return Intelligence{
		TAMUSD:                        out.TAMUSD,
		GrowthRate:                    out.GrowthRate,
		CompetitionLevel:              out.CompetitionLevel,
		KeyTrends:                     out.KeyTrends,
		RegulatoryBarriers:            out.RegulatoryBarriers,
		TypicalMargins:                out.TypicalMargins,
		CustomerAcquisitionDifficulty: out.CustomerAcquisitionDifficulty,
		Confidence:                    out.Confidence,
		NotableCompetitors:            out.NotableCompetitors,
		Source:                        SourceProvider,
	}, nil
}

func researchPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Estimate the market for this business idea.\n\n")
	fmt.Fprintf(&b, "Idea: %s\n", req.IdeaText)
	fmt.Fprintf(&b, "Industry: %s / %s\n", req.Industry, req.SubIndustry)
	fmt.Fprintf(&b, "Business model: %s, customer type: %s, scale: %s\n\n", req.BusinessModel, req.CustomerType, req.Scale)
	b.WriteString(`Respond with only valid JSON matching this schema:
{"tam_usd": number, "growth_rate": number (annual, 0.1 = 10%), "competition_level": number 0-10 (10 = little competition),
"key_trends": [string], "regulatory_barriers": [string], "typical_margins": number (0.4 = 40%),
"customer_acquisition_difficulty": number 0-10, "confidence": number 0-1, "notable_competitors": [string]}`)
	return b.String()
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
