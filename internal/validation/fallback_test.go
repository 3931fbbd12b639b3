package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/scoring"
)

func testFallback(tiers ...tier) *Fallback {
	return newFallback(zap.NewNop(), noop.NewTracerProvider().Tracer("test"), tiers)
}

func scored(overall int) Result {
	return Result{Scores: scoring.ComputedScores{
		Dimensions: map[scoring.Dimension]float64{scoring.ProblemSeverity: float64(overall) / 10},
		Overall:    overall,
	}}
}

func fixed(res Result, err error) tierFunc {
	return func(context.Context, idea.Input) (Result, error) { return res, err }
}

func TestRecoverWalksTiersInOrder(t *testing.T) {
	f := testFallback(
		tier{TierFeatureGroup, func(context.Context, idea.Input) (Result, error) { panic("tier one") }},
		tier{TierSimplifiedModel, fixed(scored(12), nil)},
		tier{TierRuleBased, fixed(scored(25), nil)},
	)
	res := f.Recover(context.Background(), idea.Input{IdeaText: "anything"}, errors.New("primary failed"))

	require.NotNil(t, res.Meta.Fallback)
	fb := res.Meta.Fallback
	assert.Equal(t, TierRuleBased, fb.Tier)
	assert.Equal(t, "primary failed", fb.Error)
	require.Len(t, fb.Attempts, 3)
	assert.Contains(t, fb.Attempts[0].Error, "tier one")
	assert.Equal(t, 12, fb.Attempts[1].Overall)
	assert.False(t, fb.Attempts[1].Accepted)
	assert.True(t, fb.Attempts[2].Accepted)
	assert.Equal(t, 25, res.Scores.Overall)
}

func TestRecoverAcceptsFirstAdequateTier(t *testing.T) {
	f := testFallback(
		tier{TierFeatureGroup, fixed(scored(MinAcceptableOverall), nil)},
		tier{TierSimplifiedModel, func(context.Context, idea.Input) (Result, error) {
			t.Fatal("second tier must not run")
			return Result{}, nil
		}},
	)
	res := f.Recover(context.Background(), idea.Input{}, nil)
	assert.Equal(t, TierFeatureGroup, res.Meta.Fallback.Tier)
	assert.Empty(t, res.Meta.Fallback.Error)
}

func TestRecoverAcceptsUnscoredResult(t *testing.T) {
	f := testFallback(
		tier{TierFeatureGroup, fixed(Result{Status: scoring.StatusReview}, nil)},
		tier{TierRuleBased, fixed(scored(25), nil)},
	)
	res := f.Recover(context.Background(), idea.Input{}, errors.New("x"))
	assert.Equal(t, TierFeatureGroup, res.Meta.Fallback.Tier)
}

func TestRecoverWithFailingLastTierStillReturns(t *testing.T) {
	f := testFallback(
		tier{TierRuleBased, func(context.Context, idea.Input) (Result, error) { panic("even rules failed") }},
	)
	res := f.Recover(context.Background(), idea.Input{}, errors.New("x"))
	assert.Equal(t, TierRuleBased, res.Meta.Fallback.Tier)
	assert.Equal(t, ruleNoGoScore, res.Scores.Overall)
}

func TestOrchestratorFallbackIsTotal(t *testing.T) {
	o := newTestOrchestrator(t, Config{})
	inputs := []string{
		"",
		" ",
		"\x00\xff\xfe",
		"🚀🚀🚀",
		"illegal",
		handmadeBags,
		subscriptionBox,
	}
	for _, text := range inputs {
		res := o.fallback.Recover(context.Background(), idea.Input{IdeaText: text}, errors.New("primary failed"))
		require.NotNil(t, res.Meta.Fallback, text)
		assert.NotEmpty(t, res.Meta.Fallback.Tier, text)
		assert.NotEmpty(t, res.Status, text)
		assertBounded(t, res.Scores)
	}
}

func TestRuleBased(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		status  scoring.Status
		overall int
	}{
		{"empty", "", scoring.StatusNoGo, ruleNoGoScore},
		{"commercial signal", "Customers will pay $20 to solve this scheduling problem", scoring.StatusReview, ruleReviewScore},
		{"negative signal", "Customers will pay into a pyramid of referrals", scoring.StatusNoGo, ruleNoGoScore},
		{"prohibited", "sell counterfeit watches to customers who pay cash", scoring.StatusNoGo, ruleNoGoScore},
		{"vague", "something with computers", scoring.StatusNoGo, ruleNoGoScore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ruleBased(idea.Input{IdeaText: tc.text})
			assert.Equal(t, tc.status, res.Status)
			assert.Equal(t, tc.overall, res.Scores.Overall)
			assert.Len(t, res.Scores.Dimensions, len(scoring.BaseDimensions))
			assert.NotEmpty(t, res.Risks)
		})
	}
}
