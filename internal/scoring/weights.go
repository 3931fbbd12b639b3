package scoring

import (
	"sort"

	"github.com/joelkehle/ideavalidation/internal/dna"
)

// IndustryWeights are positive and unnormalised; the engine normalises over
// the dimensions actually scored.
type IndustryWeights map[Dimension]float64

const (
	StrategyMarketplace  = "marketplace"
	StrategyRegulated    = "regulated"
	StrategySaaS         = "saas"
	StrategySubscription = "subscription_commerce"
	StrategyNetwork      = "network"
	StrategyBalanced     = "balanced"
)

func baseWeights() IndustryWeights {
	return IndustryWeights{
		ProblemSeverity:      1.2,
		MarketQuality:        1.2,
		Competition:          1.0,
		Differentiation:      1.0,
		UnitEconomics:        1.0,
		ExecutionFeasibility: 1.0,
		GoToMarket:           0.9,
		Timing:               0.7,
		Defensibility:        0.8,
		FounderFit:           0.8,
		NetworkEffects:       0.8,
		RegulatoryCompliance: 0.8,
		SupplyDemandBalance:  0.9,
		ViralPotential:       0.6,
	}
}

// BaseWeights is the balanced default used when no branch applies.
func BaseWeights() IndustryWeights { return baseWeights() }

// Weights picks a weighting branch for the DNA. First match wins.
func Weights(d dna.BusinessDNA) IndustryWeights {
	_, w := selectWeights(d)
	return w
}

func selectWeights(d dna.BusinessDNA) (string, IndustryWeights) {
	w := baseWeights()
	switch {
	case d.CustomerType == dna.CustomerMarketplace:
		w[NetworkEffects] = 1.4
		w[SupplyDemandBalance] = 1.5
		w[GoToMarket] = 1.2
		w[UnitEconomics] = 0.9
		return StrategyMarketplace, w
	case d.RegulatoryComplexity == dna.LevelHigh:
		w[RegulatoryCompliance] = 1.5
		w[ExecutionFeasibility] = 1.3
		w[ProblemSeverity] = 1.4
		w[Timing] = 0.5
		return StrategyRegulated, w
	case d.IsSaaS():
		w[UnitEconomics] = 1.3
		w[Competition] = 1.2
		w[Defensibility] = 1.0
		w[GoToMarket] = 1.1
		return StrategySaaS, w
	case d.IsSubscriptionModel():
		w[UnitEconomics] = 1.5
		w[GoToMarket] = 1.2
		w[Differentiation] = 1.1
		w[ExecutionFeasibility] = 1.1
		return StrategySubscription, w
	case d.NetworkEffects == dna.NetworkStrong:
		w[NetworkEffects] = 1.3
		w[ViralPotential] = 1.0
		w[Defensibility] = 1.1
		return StrategyNetwork, w
	}
	return StrategyBalanced, w
}

type StrategyDescription struct {
	Name               string      `json:"name"`
	SelectedDimensions []Dimension `json:"selected_dimensions"`
	BenchmarksFocus    []string    `json:"benchmarks_focus"`
	DataQualityGuards  []string    `json:"data_quality_guards"`
}

var benchmarks = map[string][]string{
	StrategyMarketplace:  {"liquidity (match rate)", "take rate vs. disintermediation", "supply acquisition cost"},
	StrategyRegulated:    {"time to compliance", "licensing cost", "sales cycle length"},
	StrategySaaS:         {"net revenue retention", "CAC payback months", "gross margin"},
	StrategySubscription: {"monthly churn", "contribution margin per box", "LTV:CAC"},
	StrategyNetwork:      {"viral coefficient", "cohort retention", "time to critical mass"},
	StrategyBalanced:     {"customer interviews", "pricing validation", "early revenue"},
}

// DescribeStrategy explains the weighting in human terms. The top five
// dimensions by weight are selected, ties in canonical dimension order.
func DescribeStrategy(d dna.BusinessDNA, w IndustryWeights) StrategyDescription {
	name, _ := selectWeights(d)
	dims := make([]Dimension, 0, len(w))
	for _, dim := range AllDimensions {
		if _, ok := w[dim]; ok {
			dims = append(dims, dim)
		}
	}
	sort.SliceStable(dims, func(i, j int) bool { return w[dims[i]] > w[dims[j]] })
	if len(dims) > 5 {
		dims = dims[:5]
	}
	guards := []string{
		"every dimension clamped to [0,10]",
		"market data weight bounded to [0,1]",
	}
	if dna.IsLowConfidence(d.Confidence) {
		guards = append(guards, "low classification confidence: treat verdict as provisional")
	}
	if d.Industry == dna.IndustryGeneral {
		guards = append(guards, "industry unresolved: generic market dataset in use")
	}
	return StrategyDescription{
		Name:               name,
		SelectedDimensions: dims,
		BenchmarksFocus:    append([]string(nil), benchmarks[name]...),
		DataQualityGuards:  guards,
	}
}
