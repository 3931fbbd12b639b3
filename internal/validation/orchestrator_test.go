package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/ideavalidation/internal/archetype"
	"github.com/joelkehle/ideavalidation/internal/consensus"
	"github.com/joelkehle/ideavalidation/internal/dna"
	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/pivot"
	"github.com/joelkehle/ideavalidation/internal/scoring"
)

const (
	subscriptionBox = "Monthly subscription box delivering artisanal coffee beans from small roasters to your doorstep for $35/month"
	handmadeBags    = "I plan to sell handmade leather bags and wallets, crafted in my studio, priced at $200-800"
)

func newTestOrchestrator(t *testing.T, cfg Config) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(cfg)
	require.NoError(t, err)
	return o
}

func validate(t *testing.T, o *Orchestrator, in idea.Input) Result {
	t.Helper()
	res, err := o.Validate(context.Background(), in, Options{})
	require.NoError(t, err)
	return res
}

func assertBounded(t *testing.T, s scoring.ComputedScores) {
	t.Helper()
	assert.GreaterOrEqual(t, s.Overall, 0)
	assert.LessOrEqual(t, s.Overall, 100)
	for d, v := range s.Dimensions {
		assert.GreaterOrEqual(t, v, 0.0, string(d))
		assert.LessOrEqual(t, v, 10.0, string(d))
	}
}

func TestValidateSubscriptionBox(t *testing.T) {
	o := newTestOrchestrator(t, Config{})
	res := validate(t, o, idea.Input{IdeaText: subscriptionBox})

	assert.Equal(t, archetype.DTCSubscription, res.Meta.BusinessModel.PrimaryType)
	assert.GreaterOrEqual(t, res.Meta.BusinessModel.Confidence, 0.7)
	assert.Equal(t, dna.ModelPhysicalSubscription, res.Meta.DNA.BusinessModel)
	assert.Equal(t, StrategyPhysicalSubscription, res.Meta.Strategy)
	assert.Nil(t, res.Meta.EdgeCase)
	assert.Nil(t, res.Meta.Fallback)
	assert.NotEmpty(t, res.Meta.RunID)
	assert.Contains(t, []scoring.Status{scoring.StatusGo, scoring.StatusReview, scoring.StatusNoGo}, res.Status)
	assert.NotEmpty(t, res.TargetMarket)
	assert.Equal(t, "Monthly subscription box delivering artisanal coffee beans from small roasters to your doorstep for $35/month", res.ValueProp)
	assertBounded(t, res.Scores)
}

func TestValidateHandmadeGoods(t *testing.T) {
	o := newTestOrchestrator(t, Config{Pivots: pivot.NewEngine()})
	res := validate(t, o, idea.Input{IdeaText: handmadeBags, TargetCustomer: "professionals who want durable bags"})

	assert.Equal(t, archetype.PhysicalProduct, res.Meta.BusinessModel.PrimaryType)
	assert.GreaterOrEqual(t, res.Meta.BusinessModel.Confidence, 0.8)
	assert.Equal(t, StrategyEcommerce, res.Meta.Strategy)
	assert.Equal(t, "professionals who want durable bags", res.TargetMarket)
	assert.Contains(t, res.Risks, "Handmade production caps throughput; price for your hours, not materials")
	for _, p := range res.Pivots {
		assert.NotEqual(t, "fintech", p.Option.Category)
		assert.NotEqual(t, "healthcare", p.Option.Category)
	}
	assert.Empty(t, res.Meta.Issues)
	assertBounded(t, res.Scores)
}

func TestValidateScenariosWithShippedToggles(t *testing.T) {
	o := newTestOrchestrator(t, Config{CompositeDetector: true, Consensus: true, FalsePositive: true, Pivots: pivot.NewEngine()})
	tests := []struct {
		text string
		want archetype.Type
		min  float64
	}{
		{subscriptionBox, archetype.DTCSubscription, 0.7},
		{handmadeBags, archetype.PhysicalProduct, 0.8},
		{"I plan to sell handmade leather bags, $200-800", archetype.PhysicalProduct, 0.8},
	}
	for _, tt := range tests {
		res := validate(t, o, idea.Input{IdeaText: tt.text})
		assert.Equal(t, tt.want, res.Meta.BusinessModel.PrimaryType, tt.text)
		assert.GreaterOrEqual(t, res.Meta.BusinessModel.Confidence, tt.min, tt.text)
		assert.Nil(t, res.Meta.EdgeCase, tt.text)
		for _, p := range res.Pivots {
			assert.NotEqual(t, "fintech", p.Option.Category, tt.text)
			assert.NotEqual(t, "healthcare", p.Option.Category, tt.text)
		}
	}
}

func TestValidateEnforcesSaturationCapByDefault(t *testing.T) {
	in := idea.Input{IdeaText: "A project management tool for architecture firms with budget tracking and client approvals"}
	o := newTestOrchestrator(t, Config{})

	res := validate(t, o, in)
	require.Nil(t, res.Meta.EdgeCase)
	mq, ok := res.Scores.Get(scoring.MarketQuality)
	require.True(t, ok)
	assert.LessOrEqual(t, mq, 4.0)

	lifted, err := o.Validate(context.Background(), in, Options{DisableCaps: true})
	require.NoError(t, err)
	for _, c := range lifted.Scores.Caps {
		assert.NotEqual(t, scoring.MarketQuality, c.Dimension)
	}
}

func TestValidateShortInputRoutesInsufficientData(t *testing.T) {
	for _, text := range []string{"", "   ", "a cafe", "short idea"} {
		o := newTestOrchestrator(t, Config{})
		res := validate(t, o, idea.Input{IdeaText: text})
		require.NotNil(t, res.Meta.EdgeCase, text)
		assert.Equal(t, EdgeInsufficientData, res.Meta.EdgeCase.Kind, text)
		assert.NotEmpty(t, res.Meta.EdgeCase.Guidance)
		assert.Empty(t, res.Scores.Dimensions, "scoring must not run")
		assert.Equal(t, "edge_case", res.Meta.Strategy)
	}
}

func TestValidateIllegalRoutesBeforeScoring(t *testing.T) {
	o := newTestOrchestrator(t, Config{})
	cases := []idea.Input{
		{IdeaText: "An illegal gambling ring run out of a warehouse downtown"},
		{IdeaText: "illegal"},
		{IdeaText: "A lending service for people who cannot get bank loans", IsLegal: idea.Bool(false)},
	}
	for _, in := range cases {
		res := validate(t, o, in)
		require.NotNil(t, res.Meta.EdgeCase, in.IdeaText)
		assert.Equal(t, EdgeIllegalContent, res.Meta.EdgeCase.Kind, in.IdeaText)
		assert.Equal(t, scoring.StatusNoGo, res.Status)
		assert.Empty(t, res.Scores.Dimensions)
	}
}

func TestValidateAmbiguousModel(t *testing.T) {
	o := newTestOrchestrator(t, Config{})
	res := validate(t, o, idea.Input{IdeaText: "zzzz qqqq wwww eeee rrrr"})
	require.NotNil(t, res.Meta.EdgeCase)
	assert.Equal(t, EdgeAmbiguousModel, res.Meta.EdgeCase.Kind)
	assert.NotEqual(t, scoring.StatusGo, res.Status)
	assert.NotEmpty(t, res.Scores.Dimensions)
	assert.Equal(t, res.Meta.EdgeCase.Message, res.Risks[0])
}

func TestValidateIsDeterministic(t *testing.T) {
	o := newTestOrchestrator(t, Config{Consensus: true, FalsePositive: true, CompositeDetector: true, Pivots: pivot.NewEngine()})
	in := idea.Input{
		IdeaText:           "A B2B SaaS platform that automates invoice reconciliation for small accounting firms",
		ProblemSeverity:    idea.Float(8),
		PriceUSD:           idea.Float(99),
		CustomerInterviews: idea.Int(12),
	}
	first := validate(t, o, in)
	for i := 0; i < 5; i++ {
		next := validate(t, o, in)
		assert.NotEqual(t, first.Meta.RunID, next.Meta.RunID)
		next.Meta.RunID, next.Meta.StartedAt, next.Meta.Duration = first.Meta.RunID, first.Meta.StartedAt, first.Meta.Duration
		assert.Equal(t, first, next)
	}
}

type panicStrategy struct{}

func (panicStrategy) Name() string            { return "panicky" }
func (panicStrategy) Prepare(*Analysis) error { panic("strategy exploded") }
func (panicStrategy) Review(*Analysis)        {}

type refusingStrategy struct{}

func (refusingStrategy) Name() string { return "refusing" }
func (refusingStrategy) Prepare(a *Analysis) error {
	return &ClassificationError{Type: a.Class.PrimaryType, Confidence: a.Class.Confidence, Reason: "not supported"}
}
func (refusingStrategy) Review(*Analysis) {}

func TestValidateStrategyPanicFallsBack(t *testing.T) {
	o := newTestOrchestrator(t, Config{Strategies: map[archetype.Type]Strategy{archetype.DTCSubscription: panicStrategy{}}})
	res := validate(t, o, idea.Input{IdeaText: subscriptionBox})

	require.NotNil(t, res.Meta.Fallback)
	fb := res.Meta.Fallback
	assert.Contains(t, fb.Error, "strategy exploded")
	require.NotEmpty(t, fb.Attempts)
	assert.Equal(t, TierFeatureGroup, fb.Attempts[0].Tier)
	assert.False(t, fb.Attempts[0].Accepted)
	assert.Contains(t, []Tier{TierSimplifiedModel, TierRuleBased}, fb.Tier)
	assert.True(t, fb.Attempts[len(fb.Attempts)-1].Accepted)
	assertBounded(t, res.Scores)
}

func TestExecuteWrapsClassificationError(t *testing.T) {
	o := newTestOrchestrator(t, Config{})
	_, err := o.execute(context.Background(), idea.Input{IdeaText: subscriptionBox}, pass{strategy: refusingStrategy{}, caps: true})
	require.Error(t, err)

	var se *StrategyError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "refusing", se.Strategy)
	var ce *ClassificationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, archetype.DTCSubscription, ce.Type)
}

func TestValidateClassificationErrorFallsBack(t *testing.T) {
	o := newTestOrchestrator(t, Config{Strategies: map[archetype.Type]Strategy{archetype.PhysicalProduct: refusingStrategy{}}})
	res := validate(t, o, idea.Input{IdeaText: handmadeBags})
	require.NotNil(t, res.Meta.Fallback)
	assert.Contains(t, res.Meta.Fallback.Error, "not supported")
}

func TestValidateConsensusPass(t *testing.T) {
	o := newTestOrchestrator(t, Config{Consensus: true})
	res := validate(t, o, idea.Input{IdeaText: subscriptionBox})
	require.NotNil(t, res.Meta.Consensus)
	c := res.Meta.Consensus
	assert.GreaterOrEqual(t, c.FinalScore, 0.0)
	assert.LessOrEqual(t, c.FinalScore, 1.0)
	assert.Len(t, c.Normalized, 3)
	assert.LessOrEqual(t, c.ConfidenceBounds[0], c.ConfidenceBounds[1])
}

func TestValidateConsensusViolationPropagates(t *testing.T) {
	o := newTestOrchestrator(t, Config{
		Consensus:        true,
		ConsensusWeights: map[string]float64{ProviderScoring: 0.5, ProviderMarket: 0.2, ProviderClassification: 0.2},
	})
	_, err := o.Validate(context.Background(), idea.Input{IdeaText: subscriptionBox}, Options{})
	var cv *consensus.ConsistencyViolation
	require.ErrorAs(t, err, &cv)
	assert.InDelta(t, 0.9, cv.Sum, 1e-9)
}

func TestValidateConsensusOffIgnoresWeights(t *testing.T) {
	o := newTestOrchestrator(t, Config{ConsensusWeights: map[string]float64{ProviderScoring: 2}})
	res := validate(t, o, idea.Input{IdeaText: subscriptionBox})
	assert.Nil(t, res.Meta.Consensus)
}

func TestNewOrchestratorRejectsBadConfig(t *testing.T) {
	_, err := NewOrchestrator(Config{ConsensusWeights: map[string]float64{"oracle": 1}})
	assert.Error(t, err)
	_, err = NewOrchestrator(Config{Calibrations: map[string]consensus.Calibration{ProviderMarket: {Min: 5, Max: 5}}})
	assert.Error(t, err)
	_, err = NewOrchestrator(Config{Strategies: map[archetype.Type]Strategy{archetype.Services: nil}})
	assert.Error(t, err)
}

func TestValidateOptionalPasses(t *testing.T) {
	o := newTestOrchestrator(t, Config{FalsePositive: true, CompositeDetector: true})
	res := validate(t, o, idea.Input{IdeaText: handmadeBags})
	require.NotNil(t, res.Meta.FalsePositive)
	assert.GreaterOrEqual(t, res.Meta.FalsePositive.Explainability, 0.0)
	assert.LessOrEqual(t, res.Meta.FalsePositive.Explainability, 1.0)
	require.NotNil(t, res.Meta.Uncertainty)
	assert.Equal(t, archetype.PhysicalProduct, res.Meta.BusinessModel.PrimaryType)
}

type mockRecorder struct{ mock.Mock }

func (m *mockRecorder) Record(ctx context.Context, in idea.Input, res Result) error {
	return m.Called(ctx, in, res).Error(0)
}

func TestValidateSwallowsRecorderErrors(t *testing.T) {
	rec := &mockRecorder{}
	rec.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full")).Twice()
	o := newTestOrchestrator(t, Config{Recorder: rec})

	res := validate(t, o, idea.Input{IdeaText: subscriptionBox})
	assert.NotEmpty(t, res.Meta.RunID)
	res = validate(t, o, idea.Input{IdeaText: "tiny"})
	require.NotNil(t, res.Meta.EdgeCase)
	rec.AssertExpectations(t)
}

func TestValidateStampsRunMetadata(t *testing.T) {
	o := newTestOrchestrator(t, Config{})
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	o.newID = func() string { return "run-1" }
	o.now = func() time.Time {
		clock = clock.Add(250 * time.Millisecond)
		return clock
	}
	res := validate(t, o, idea.Input{IdeaText: subscriptionBox})
	assert.Equal(t, "run-1", res.Meta.RunID)
	assert.Equal(t, 250*time.Millisecond, res.Meta.Duration)
}

func TestValidateTruncatesLongInput(t *testing.T) {
	o := newTestOrchestrator(t, Config{})
	long := make([]byte, idea.MaxIdeaChars+500)
	for i := range long {
		long[i] = 'a' + byte(i%26)
	}
	res := validate(t, o, idea.Input{IdeaText: "A subscription box for pet owners. " + string(long)})
	assertBounded(t, res.Scores)
}
