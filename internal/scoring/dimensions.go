// Package scoring turns raw idea signals, market data and business DNA into
// bounded dimension scores, an overall score and a GO / REVIEW / NO-GO
// decision.
package scoring

import "math"

type Dimension string

const (
	ProblemSeverity      Dimension = "problem_severity"
	MarketQuality        Dimension = "market_quality"
	Competition          Dimension = "competition"
	Differentiation      Dimension = "differentiation"
	UnitEconomics        Dimension = "unit_economics"
	ExecutionFeasibility Dimension = "execution_feasibility"
	GoToMarket           Dimension = "go_to_market"
	Timing               Dimension = "timing"
	Defensibility        Dimension = "defensibility"
	FounderFit           Dimension = "founder_fit"

	NetworkEffects       Dimension = "network_effects"
	RegulatoryCompliance Dimension = "regulatory_compliance"
	SupplyDemandBalance  Dimension = "supply_demand_balance"
	ViralPotential       Dimension = "viral_potential"
)

var BaseDimensions = []Dimension{
	ProblemSeverity, MarketQuality, Competition, Differentiation, UnitEconomics,
	ExecutionFeasibility, GoToMarket, Timing, Defensibility, FounderFit,
}

var ConditionalDimensions = []Dimension{NetworkEffects, RegulatoryCompliance, SupplyDemandBalance, ViralPotential}

// AllDimensions is the canonical order used for ties and reports.
var AllDimensions = append(append([]Dimension(nil), BaseDimensions...), ConditionalDimensions...)

func (d Dimension) Label() string {
	switch d {
	case ProblemSeverity:
		return "Problem severity"
	case MarketQuality:
		return "Market quality"
	case Competition:
		return "Competition"
	case Differentiation:
		return "Differentiation"
	case UnitEconomics:
		return "Unit economics"
	case ExecutionFeasibility:
		return "Execution feasibility"
	case GoToMarket:
		return "Go-to-market"
	case Timing:
		return "Timing"
	case Defensibility:
		return "Defensibility"
	case FounderFit:
		return "Founder fit"
	case NetworkEffects:
		return "Network effects"
	case RegulatoryCompliance:
		return "Regulatory compliance"
	case SupplyDemandBalance:
		return "Supply/demand balance"
	case ViralPotential:
		return "Viral potential"
	}
	return string(d)
}

// Cap records a ceiling an overlay imposed on a dimension.
type Cap struct {
	Dimension Dimension `json:"dimension"`
	Limit     float64   `json:"limit"`
	Before    float64   `json:"before"`
	Reason    string    `json:"reason"`
}

type ComputedScores struct {
	Dimensions map[Dimension]float64 `json:"dimensions"`
	Overall    int                   `json:"overall"`
	Advisories []string              `json:"advisories,omitempty"`
	Caps       []Cap                 `json:"caps,omitempty"`
}

func (s ComputedScores) Get(d Dimension) (float64, bool) {
	v, ok := s.Dimensions[d]
	return v, ok
}

// Present returns the dimensions that were scored, in canonical order.
func (s ComputedScores) Present() []Dimension {
	out := make([]Dimension, 0, len(s.Dimensions))
	for _, d := range AllDimensions {
		if _, ok := s.Dimensions[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Clone deep-copies the score maps and slices.
func (s ComputedScores) Clone() ComputedScores {
	out := s
	out.Dimensions = make(map[Dimension]float64, len(s.Dimensions))
	for k, v := range s.Dimensions {
		out.Dimensions[k] = v
	}
	out.Advisories = append([]string(nil), s.Advisories...)
	out.Caps = append([]Cap(nil), s.Caps...)
	return out
}

func clamp10(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 10:
		return 10
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
