package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joelkehle/ideavalidation/internal/dna"
	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/lexical"
	"github.com/joelkehle/ideavalidation/internal/market"
)

type Status string

const (
	StatusGo     Status = "GO"
	StatusReview Status = "REVIEW"
	StatusNoGo   Status = "NO-GO"
)

type Thresholds struct {
	Go     int `json:"go"`
	Review int `json:"review"`
}

var DefaultThresholds = Thresholds{Go: 70, Review: 55}

var industryThresholds = map[string]Thresholds{
	"healthcare":    {Go: 75, Review: 60},
	"fintech":       {Go: 75, Review: 60},
	"food_beverage": {Go: 65, Review: 50},
	"ecommerce":     {Go: 65, Review: 52},
	"technology":    {Go: 72, Review: 55},
}

func ThresholdsFor(industry string) Thresholds {
	if t, ok := industryThresholds[industry]; ok {
		return t
	}
	return DefaultThresholds
}

// Flag is a red flag raised during decision. Kill flags end evaluation.
type Flag struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Kill    bool   `json:"kill"`
}

type Decision struct {
	Status     Status     `json:"status"`
	Reasoning  string     `json:"reasoning"`
	Risks      []string   `json:"risks"`
	Highlights []string   `json:"highlights"`
	KillFlags  []string   `json:"kill_flags,omitempty"`
	Thresholds Thresholds `json:"thresholds"`
}

const projectManagementVerdict = "Project management software is one of the most saturated categories (Asana, Monday.com, Trello, Jira, ClickUp). Without a sharply differentiated wedge this idea is unlikely to win share."

// Decide evaluates flags, the category override and thresholds, in that
// order. It is a single pass with no retries.
func Decide(s ComputedScores, d dna.BusinessDNA, mi market.Intelligence, in idea.Input) Decision {
	text := in.Text()
	th := ThresholdsFor(d.Industry)
	flags := evaluateFlags(s, d, mi, in, text)

	var risks []string
	var kills []string
	for _, f := range flags {
		if f.Kill {
			kills = append(kills, f.Message)
		} else {
			risks = append(risks, f.Message)
		}
	}
	risks = append(risks, s.Advisories...)
	risks = append(risks, weakDimensionRisks(s)...)
	highlights := Highlights(s)

	dec := Decision{Risks: risks, Highlights: highlights, Thresholds: th}
	if len(kills) > 0 {
		dec.Status = StatusNoGo
		dec.KillFlags = kills
		dec.Reasoning = "Critical issue: " + strings.Join(kills, "; ")
		dec.Risks = append(append([]string(nil), kills...), risks...)
		return dec
	}

	mq, _ := s.Get(MarketQuality)
	diff, _ := s.Get(Differentiation)
	if strings.Contains(text, "project management") && mq <= 3 && diff <= 2 {
		dec.Status = StatusNoGo
		dec.Reasoning = projectManagementVerdict
		return dec
	}

	switch {
	case s.Overall >= th.Go:
		dec.Status = StatusGo
		dec.Reasoning = fmt.Sprintf("Overall score %d meets the %s GO threshold of %d.", s.Overall, industryName(d.Industry), th.Go)
	case s.Overall >= th.Review:
		dec.Status = StatusReview
		weak := Weakest(s, 2)
		parts := make([]string, len(weak))
		for i, w := range weak {
			parts[i] = fmt.Sprintf("%s (%.1f)", w.Label(), s.Dimensions[w])
		}
		dec.Reasoning = fmt.Sprintf("Overall score %d is promising but below the GO threshold of %d. Strengthen %s.", s.Overall, th.Go, strings.Join(parts, " and "))
	default:
		dec.Status = StatusNoGo
		dec.Reasoning = fmt.Sprintf("Overall score %d is below the REVIEW threshold of %d.", s.Overall, th.Review)
	}
	return dec
}

func evaluateFlags(s ComputedScores, d dna.BusinessDNA, mi market.Intelligence, in idea.Input, text string) []Flag {
	var flags []Flag
	if ev, ok := lexical.Prohibited().Matches(text); ok || idea.Is(in.IsLegal, false) {
		msg := "Idea involves illegal or prohibited activity"
		if ok && ev.Reason != "" {
			msg += " (" + ev.Reason + ")"
		}
		flags = append(flags, Flag{Name: "illegal_content", Message: msg, Kill: true})
	}
	if ps, _ := s.Get(ProblemSeverity); idea.Is(in.SolvesRealProblem, false) || ps < 2 {
		flags = append(flags, Flag{Name: "no_problem", Message: "No real customer problem identified", Kill: true})
	}
	if ef, _ := s.Get(ExecutionFeasibility); idea.Is(in.TechnicallyFeasible, false) || ef < 2 {
		flags = append(flags, Flag{Name: "infeasible", Message: "Idea is not technically feasible as described", Kill: true})
	}

	if d.RegulatoryComplexity == dna.LevelHigh {
		if rc, ok := s.Get(RegulatoryCompliance); ok && rc < 2 {
			flags = append(flags, Flag{Name: "regulatory_block", Message: "Regulatory burden is too high to clear at this stage", Kill: true})
		} else if in.RegulatoryRisk == nil {
			flags = append(flags, Flag{Name: "regulatory_unplanned", Message: "Heavily regulated space with no regulatory plan provided"})
		}
	}
	if d.CapitalIntensity == dna.LevelHigh && d.Stage == dna.StageIdea {
		flags = append(flags, Flag{Name: "capital_intensive", Message: "Capital-intensive idea with no prototype or traction yet"})
	}
	if d.CustomerType == dna.CustomerMarketplace {
		if sd, ok := s.Get(SupplyDemandBalance); ok && sd < 4 {
			flags = append(flags, Flag{Name: "liquidity", Message: "Marketplace liquidity risk: both sides must be acquired at once"})
		}
	}
	if d.IsSubscriptionModel() {
		if ue, _ := s.Get(UnitEconomics); ue < 4 {
			flags = append(flags, Flag{Name: "subscription_economics", Message: "Subscription economics are thin; churn will erase margin"})
		}
	}
	if mi.Saturation >= highSaturation {
		flags = append(flags, Flag{Name: "crowded_market", Message: fmt.Sprintf("Crowded market: %s (%s)", mi.SaturationCategory, strings.Join(mi.NotableCompetitors, ", "))})
	}
	if mi.CustomerAcquisitionDifficulty >= 8 {
		flags = append(flags, Flag{Name: "acquisition_cost", Message: "Customer acquisition is expensive in this industry"})
	}
	return flags
}

var highlightThresholds = []struct {
	dim     Dimension
	min     float64
	message string
}{
	{ProblemSeverity, 8, "Addresses a severe, frequent problem"},
	{MarketQuality, 8, "Large, growing market"},
	{Competition, 7, "Room to compete: incumbents are not entrenched"},
	{Differentiation, 7, "Clear differentiation from existing options"},
	{UnitEconomics, 7, "Healthy unit economics"},
	{ExecutionFeasibility, 7, "Feasible to build with available resources"},
	{GoToMarket, 7, "Credible path to customers"},
	{Timing, 7, "Good market timing"},
	{Defensibility, 7, "Defensible position once established"},
	{FounderFit, 8, "Strong founder-market fit"},
	{NetworkEffects, 7, "Benefits from network effects"},
	{ViralPotential, 7, "Built-in viral loops"},
}

// Highlights lists strengths from fixed per-dimension thresholds.
func Highlights(s ComputedScores) []string {
	var out []string
	for _, h := range highlightThresholds {
		if v, ok := s.Get(h.dim); ok && v >= h.min {
			out = append(out, h.message)
		}
	}
	return out
}

func weakDimensionRisks(s ComputedScores) []string {
	var out []string
	for _, d := range s.Present() {
		if v := s.Dimensions[d]; v < 3 {
			out = append(out, fmt.Sprintf("Weak %s (%.1f/10)", strings.ToLower(d.Label()), v))
		}
	}
	return out
}

// Weakest returns the n lowest-scoring base dimensions, ties in canonical
// order.
func Weakest(s ComputedScores, n int) []Dimension {
	var dims []Dimension
	for _, d := range BaseDimensions {
		if _, ok := s.Dimensions[d]; ok {
			dims = append(dims, d)
		}
	}
	sort.SliceStable(dims, func(i, j int) bool { return s.Dimensions[dims[i]] < s.Dimensions[dims[j]] })
	if len(dims) > n {
		dims = dims[:n]
	}
	return dims
}

func industryName(industry string) string {
	if industry == "" || industry == dna.IndustryGeneral {
		return "default"
	}
	return strings.ReplaceAll(industry, "_", " ")
}
