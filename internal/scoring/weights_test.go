package scoring

import (
	"testing"

	"github.com/joelkehle/ideavalidation/internal/dna"
)

func TestWeightsDispatchOrder(t *testing.T) {
	cases := []struct {
		name string
		d    dna.BusinessDNA
		want string
	}{
		{"marketplace beats regulation", dna.BusinessDNA{CustomerType: dna.CustomerMarketplace, RegulatoryComplexity: dna.LevelHigh}, StrategyMarketplace},
		{"regulation beats saas", dna.BusinessDNA{RegulatoryComplexity: dna.LevelHigh, BusinessModel: dna.ModelSaaS}, StrategyRegulated},
		{"saas by sub-industry", dna.BusinessDNA{SubIndustry: "saas", BusinessModel: dna.ModelSubscription}, StrategySaaS},
		{"physical subscription", dna.BusinessDNA{BusinessModel: dna.ModelPhysicalSubscription, NetworkEffects: dna.NetworkStrong}, StrategySubscription},
		{"network", dna.BusinessDNA{NetworkEffects: dna.NetworkStrong}, StrategyNetwork},
		{"base", dna.BusinessDNA{}, StrategyBalanced},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, w := selectWeights(tc.d)
			if got != tc.want {
				t.Fatalf("strategy = %s, want %s", got, tc.want)
			}
			for dim, v := range w {
				if v <= 0 {
					t.Fatalf("weight for %s must be positive, got %v", dim, v)
				}
			}
		})
	}
}

func TestDescribeStrategyTopFive(t *testing.T) {
	d := dna.BusinessDNA{CustomerType: dna.CustomerMarketplace, Confidence: 0.8, Industry: "transportation"}
	desc := DescribeStrategy(d, Weights(d))
	want := []Dimension{SupplyDemandBalance, NetworkEffects, ProblemSeverity, MarketQuality, GoToMarket}
	if len(desc.SelectedDimensions) != len(want) {
		t.Fatalf("selected %v, want %v", desc.SelectedDimensions, want)
	}
	for i := range want {
		if desc.SelectedDimensions[i] != want[i] {
			t.Fatalf("selected %v, want %v", desc.SelectedDimensions, want)
		}
	}
	if desc.Name != StrategyMarketplace || len(desc.BenchmarksFocus) == 0 || len(desc.DataQualityGuards) < 2 {
		t.Fatalf("unexpected description: %+v", desc)
	}
}

func TestDescribeStrategyGuardsGeneralIndustry(t *testing.T) {
	desc := DescribeStrategy(dna.BusinessDNA{Industry: dna.IndustryGeneral, Confidence: 0.3}, Weights(dna.BusinessDNA{}))
	if len(desc.DataQualityGuards) != 4 {
		t.Fatalf("guards = %v, want low-confidence and general-industry guards", desc.DataQualityGuards)
	}
}
