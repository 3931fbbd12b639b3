package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/ideavalidation/internal/dna"
	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/market"
)

func b2bSaaS() dna.BusinessDNA {
	return dna.BusinessDNA{
		Industry: "technology", SubIndustry: "saas", BusinessModel: dna.ModelSaaS,
		CustomerType: dna.CustomerB2B, Stage: dna.StageIdea, Scale: dna.ScaleRegional,
		CapitalIntensity: dna.LevelMedium, RegulatoryComplexity: dna.LevelLow, NetworkEffects: dna.NetworkNone,
		Confidence: 0.7,
	}
}

func TestComputeSaturationCapsProjectManagement(t *testing.T) {
	in := idea.Input{IdeaText: "A project management tool for architecture firms with budget tracking"}
	d := dna.Classify(in.IdeaText)
	mi := market.ForIndustry(d.Industry)
	s := Compute(in, d, mi, Weights(d), Options{EnforceCaps: true})

	mq, ok := s.Get(MarketQuality)
	require.True(t, ok)
	assert.LessOrEqual(t, mq, 4.0)
	require.NotEmpty(t, s.Caps)
	assert.Equal(t, MarketQuality, s.Caps[0].Dimension)
}

func TestComputeWithoutCapsLeavesMarketQuality(t *testing.T) {
	in := idea.Input{IdeaText: "A project management tool for architecture firms", MarketDataWeight: idea.Float(1)}
	mi := market.Intelligence{TAMUSD: 1e12, GrowthRate: 0.2, CompetitionLevel: 5, TypicalMargins: 0.7, CustomerAcquisitionDifficulty: 5, Confidence: 0.8}
	s := Compute(in, b2bSaaS(), mi, Weights(b2bSaaS()), Options{})
	assert.Equal(t, 10.0, s.Dimensions[MarketQuality])
	assert.Empty(t, s.Caps)
}

func TestComputeDifferentiationRealityCheck(t *testing.T) {
	generic := idea.Input{IdeaText: "An intuitive, user-friendly expense app with a dashboard and real-time notifications"}
	s := Compute(generic, b2bSaaS(), market.ForIndustry("technology"), Weights(b2bSaaS()), Options{EnforceCaps: true})
	assert.LessOrEqual(t, s.Dimensions[Differentiation], 1.0)

	novel := idea.Input{IdeaText: "An intuitive expense app with a dashboard, built on our patented receipt parser"}
	s = Compute(novel, b2bSaaS(), market.ForIndustry("technology"), Weights(b2bSaaS()), Options{EnforceCaps: true})
	assert.Greater(t, s.Dimensions[Differentiation], 1.0)
}

func TestComputeMarketDataWeight(t *testing.T) {
	mi := market.Intelligence{TAMUSD: 1e12, GrowthRate: 0.2, CompetitionLevel: 5, TypicalMargins: 0.5, CustomerAcquisitionDifficulty: 5}
	userOnly := idea.Input{IdeaText: "invoice reminders for freelancers", MarketDataWeight: idea.Float(0)}
	s := Compute(userOnly, b2bSaaS(), mi, Weights(b2bSaaS()), Options{})
	assert.Equal(t, 5.0, s.Dimensions[MarketQuality])

	def := idea.Input{IdeaText: "invoice reminders for freelancers"}
	s = Compute(def, b2bSaaS(), mi, Weights(b2bSaaS()), Options{})
	assert.InDelta(t, 0.6*10+0.4*5, s.Dimensions[MarketQuality], 0.05)
}

func TestComputeConditionalDimensions(t *testing.T) {
	in := idea.Input{IdeaText: "invoice reminders for freelancers"}
	s := Compute(in, b2bSaaS(), market.ForIndustry("technology"), Weights(b2bSaaS()), Options{})
	assert.Len(t, s.Dimensions, len(BaseDimensions))

	mp := b2bSaaS()
	mp.CustomerType = dna.CustomerMarketplace
	mp.BusinessModel = dna.ModelMarketplace
	mp.NetworkEffects = dna.NetworkStrong
	mp.RegulatoryComplexity = dna.LevelHigh
	s = Compute(in, mp, market.ForIndustry("technology"), Weights(mp), Options{})
	for _, dim := range []Dimension{NetworkEffects, SupplyDemandBalance, RegulatoryCompliance} {
		_, ok := s.Get(dim)
		assert.True(t, ok, dim)
	}
	_, ok := s.Get(ViralPotential)
	assert.False(t, ok, "viral potential is b2c only")
}

func TestComputeBounds(t *testing.T) {
	extreme := idea.Input{
		IdeaText:            "x",
		ProblemSeverity:     idea.Float(1e9),
		Differentiation:     idea.Float(-50),
		GrossMarginPct:      idea.Float(400),
		LTVUSD:              idea.Float(1e9),
		CACUSD:              idea.Float(1),
		StartupCostUSD:      idea.Float(1e12),
		CustomerInterviews:  idea.Int(5000),
		WaitlistSize:        idea.Int(-3),
		TimeToMarketMonths:  idea.Float(-10),
		ExecutionComplexity: idea.Float(99),
		MarketDataWeight:    idea.Float(7),
	}
	s := Compute(extreme, b2bSaaS(), market.ForIndustry("technology"), Weights(b2bSaaS()), Options{EnforceCaps: true})
	for dim, v := range s.Dimensions {
		assert.GreaterOrEqual(t, v, 0.0, dim)
		assert.LessOrEqual(t, v, 10.0, dim)
	}
	assert.GreaterOrEqual(t, s.Overall, 0)
	assert.LessOrEqual(t, s.Overall, 100)
}

func TestOverallWeightedMean(t *testing.T) {
	dims := map[Dimension]float64{}
	for _, d := range BaseDimensions {
		dims[d] = 5
	}
	assert.Equal(t, 50, Overall(dims, Weights(b2bSaaS())))

	dims[ProblemSeverity] = 10
	w := IndustryWeights{ProblemSeverity: 1, MarketQuality: 1}
	assert.Equal(t, 75, Overall(dims, w), "only weighted dimensions count")
	assert.Equal(t, 0, Overall(map[Dimension]float64{}, w))
}

func TestComputeDeterministic(t *testing.T) {
	in := idea.Input{IdeaText: "Mobile app that lets friends split restaurant bills and share receipts"}
	d := dna.Classify(in.IdeaText)
	mi := market.ForIndustry(d.Industry)
	first := Compute(in, d, mi, Weights(d), Options{EnforceCaps: true})
	for i := 0; i < 5; i++ {
		again := Compute(in, d, mi, Weights(d), Options{EnforceCaps: true})
		assert.Equal(t, first, again)
	}
}

func TestTamScore(t *testing.T) {
	assert.Equal(t, 0.0, tamScore(0))
	assert.Equal(t, 0.0, tamScore(1e6))
	assert.InDelta(t, 5.0, tamScore(1e9), 1e-9)
	assert.Equal(t, 10.0, tamScore(1e13))
}
