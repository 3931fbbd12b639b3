package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/ideavalidation/internal/archetype"
	"github.com/joelkehle/ideavalidation/internal/composite"
	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/market"
	"github.com/joelkehle/ideavalidation/internal/scoring"
)

func analysis(text string, t archetype.Type, conf float64) *Analysis {
	return &Analysis{
		Input:   idea.Input{IdeaText: text},
		Text:    text,
		Class:   archetype.Classification{PrimaryType: t, Confidence: conf},
		Market:  market.ForIndustry("default"),
		Weights: scoring.BaseWeights(),
	}
}

func TestDefaultStrategyDispatch(t *testing.T) {
	o := newTestOrchestrator(t, Config{})
	cases := map[archetype.Type]string{
		archetype.SaaSB2B:         StrategySaaS,
		archetype.EnterpriseSaaS:  StrategySaaS,
		archetype.Marketplace:     StrategyMarketplace,
		archetype.DTCSubscription: StrategyPhysicalSubscription,
		archetype.PhysicalProduct: StrategyEcommerce,
		archetype.Ecommerce:       StrategyEcommerce,
		archetype.Services:        StrategyServices,
		archetype.Fintech:         StrategyGeneric,
		archetype.Healthcare:      StrategyGeneric,
		archetype.MobileApp:       StrategyGeneric,
		archetype.FoodService:     StrategyGeneric,
	}
	for typ, want := range cases {
		assert.Equal(t, want, o.strategyFor(typ).Name(), string(typ))
	}
}

func TestStrategiesRejectUnusableClassification(t *testing.T) {
	for _, s := range []Strategy{genericStrategy{}, saasStrategy{}, marketplaceStrategy{}, physicalSubscriptionStrategy{}, ecommerceStrategy{}, servicesStrategy{}} {
		err := s.Prepare(analysis("anything", archetype.Services, 0.1))
		var ce *ClassificationError
		require.ErrorAs(t, err, &ce, s.Name())
		assert.NoError(t, s.Prepare(analysis("anything", archetype.Services, 0.3)), s.Name())
	}
}

// The built-in detectors never report below the floor, so a
// ClassificationError only comes from an injected classifier or strategy.
func TestBuiltInDetectorsStayAboveFloor(t *testing.T) {
	cd := composite.New()
	for _, text := range []string{"", "zzzz qqqq", "An app and a marketplace and a subscription for teams", "A consulting agency with software and a clinic"} {
		assert.GreaterOrEqual(t, archetype.Detect(text).Confidence, classificationFloor, text)
		assert.GreaterOrEqual(t, cd.Detect(text).Confidence, classificationFloor, text)
	}
}

func TestPrepareRaisesWeights(t *testing.T) {
	a := analysis("a marketplace connecting dog walkers and owners", archetype.Marketplace, 0.8)
	require.NoError(t, marketplaceStrategy{}.Prepare(a))
	assert.GreaterOrEqual(t, a.Weights[scoring.SupplyDemandBalance], 1.4)
	assert.GreaterOrEqual(t, a.Weights[scoring.NetworkEffects], 1.3)

	a = analysis("enterprise compliance software", archetype.EnterpriseSaaS, 0.8)
	before := a.Weights[scoring.GoToMarket]
	require.NoError(t, saasStrategy{}.Prepare(a))
	assert.GreaterOrEqual(t, a.Weights[scoring.GoToMarket], before)
	assert.GreaterOrEqual(t, a.Weights[scoring.UnitEconomics], 1.3)
}

func TestDomainFor(t *testing.T) {
	assert.Equal(t, "artisan", DomainFor("handmade ceramic mugs"))
	assert.Equal(t, "commodity", DomainFor("discount phone chargers shipped from our warehouse"))
}

func TestEcommerceDomainReview(t *testing.T) {
	a := analysis("handmade leather wallets at premium prices", archetype.PhysicalProduct, 0.9)
	require.NoError(t, ecommerceStrategy{}.Prepare(a))
	assert.GreaterOrEqual(t, a.Weights[scoring.Differentiation], 1.3)
	ecommerceStrategy{}.Review(a)
	assert.Contains(t, a.Decision.Risks, "Handmade production caps throughput; price for your hours, not materials")
	assert.Contains(t, a.Decision.Highlights, "Premium price point suits handcrafted goods")

	a = analysis("phone chargers", archetype.Ecommerce, 0.9)
	ecommerceStrategy{}.Review(a)
	assert.Contains(t, a.Decision.Risks, "Commodity goods compete on price with Amazon and marketplace sellers")
}

func TestSaaSReview(t *testing.T) {
	a := analysis("workflow software for dentists", archetype.SaaSB2B, 0.8)
	a.Input.LTVUSD, a.Input.CACUSD = idea.Float(3000), idea.Float(500)
	saasStrategy{}.Review(a)
	assert.Contains(t, a.Decision.Risks, "No pricing model described for a software product")
	assert.Contains(t, a.Decision.Highlights, "LTV:CAC of 6.0 clears the 3x SaaS benchmark")

	a = analysis("workflow software for dentists at $49/month per seat", archetype.SaaSB2B, 0.8)
	saasStrategy{}.Review(a)
	assert.NotContains(t, a.Decision.Risks, "No pricing model described for a software product")
}

func TestReviewDoesNotDuplicate(t *testing.T) {
	a := analysis("consulting for restaurants", archetype.Services, 0.8)
	servicesStrategy{}.Review(a)
	servicesStrategy{}.Review(a)
	assert.Len(t, a.Decision.Risks, 1)
}

func TestRouteAmbiguousHoldsBackGo(t *testing.T) {
	res := Result{
		Status: scoring.StatusGo,
		Risks:  []string{"existing"},
		Meta:   Meta{BusinessModel: archetype.Classification{PrimaryType: archetype.Services, Confidence: 0.3}, Reasoning: "Overall score 80."},
	}
	routeAmbiguous(&res)
	assert.Equal(t, scoring.StatusReview, res.Status)
	require.NotNil(t, res.Meta.EdgeCase)
	assert.Equal(t, EdgeAmbiguousModel, res.Meta.EdgeCase.Kind)
	assert.Len(t, res.Risks, 2)
	assert.Contains(t, res.Meta.Reasoning, "ambiguous")
}
