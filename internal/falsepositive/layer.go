// Package falsepositive re-examines a verdict under context-adjusted
// thresholds and scores how well the verdict is explained. It only produces
// metadata; the verdict itself is never changed.
package falsepositive

import (
	"fmt"
	"math"

	"github.com/joelkehle/ideavalidation/internal/dna"
	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/market"
	"github.com/joelkehle/ideavalidation/internal/scoring"
)

type Inputs struct {
	Input    idea.Input
	DNA      dna.BusinessDNA
	Market   market.Intelligence
	Scores   scoring.ComputedScores
	Decision scoring.Decision
}

type Report struct {
	AdjustedGo      int            `json:"adjusted_go"`
	AdjustedReview  int            `json:"adjusted_review"`
	SuggestedStatus scoring.Status `json:"suggested_status"`
	WouldChange     bool           `json:"would_change"`
	Explainability  float64        `json:"explainability"`
	Notes           []string       `json:"notes,omitempty"`
}

const reasoningTarget = 120.0

func Analyze(x Inputs) Report {
	th := x.Decision.Thresholds
	if th == (scoring.Thresholds{}) {
		th = scoring.ThresholdsFor(x.DNA.Industry)
	}
	r := Report{AdjustedGo: th.Go, AdjustedReview: th.Review}

	if x.DNA.Stage == dna.StageLaunched && idea.Is(x.Input.HasPayingCustomers, true) {
		r.AdjustedGo -= 5
		r.Notes = append(r.Notes, "launched with paying customers: GO threshold lowered by 5")
	}
	if x.Market.Confidence < 0.5 {
		r.AdjustedGo += 5
		r.AdjustedReview += 5
		r.Notes = append(r.Notes, fmt.Sprintf("market data confidence %.2f: thresholds raised by 5", x.Market.Confidence))
	}
	if dna.IsLowConfidence(x.DNA.Confidence) {
		r.AdjustedGo += 3
		r.AdjustedReview += 3
		r.Notes = append(r.Notes, "low classification confidence: thresholds raised by 3")
	}
	if x.DNA.Industry == "healthcare" || x.DNA.Industry == "fintech" {
		r.AdjustedGo += 5
		r.AdjustedReview += 5
		r.Notes = append(r.Notes, x.DNA.Industry+" is regulated: thresholds raised by 5")
	}
	if r.AdjustedReview > r.AdjustedGo {
		r.AdjustedReview = r.AdjustedGo
	}

	switch {
	case len(x.Decision.KillFlags) > 0 || x.Decision.Status == "":
		r.SuggestedStatus = x.Decision.Status
	case x.Scores.Overall >= r.AdjustedGo:
		r.SuggestedStatus = scoring.StatusGo
	case x.Scores.Overall >= r.AdjustedReview:
		r.SuggestedStatus = scoring.StatusReview
	default:
		r.SuggestedStatus = scoring.StatusNoGo
	}
	r.WouldChange = x.Decision.Status != "" && r.SuggestedStatus != x.Decision.Status
	if r.WouldChange {
		r.Notes = append(r.Notes, fmt.Sprintf("verdict would be %s under adjusted thresholds (%d/%d)", r.SuggestedStatus, r.AdjustedGo, r.AdjustedReview))
	}

	r.Explainability = explainability(x)
	if r.Explainability < 0.5 {
		r.Notes = append(r.Notes, "verdict rests mostly on defaults; supply structured signals to firm it up")
	}
	return r
}

func explainability(x Inputs) float64 {
	present := x.Scores.Present()
	share := 0.0
	if len(present) > 0 {
		n := 0
		for _, d := range present {
			if hasEvidence(d, x.Input, x.Market) {
				n++
			}
		}
		share = float64(n) / float64(len(present))
	}
	e := 0.5 * share
	if len(x.Decision.Risks) > 0 {
		e += 0.2
	}
	if len(x.Decision.Highlights) > 0 {
		e += 0.15
	}
	e += 0.15 * math.Min(1, float64(len(x.Decision.Reasoning))/reasoningTarget)
	return math.Round(math.Min(1, e)*100) / 100
}

// hasEvidence reports whether a dimension was fed by caller-supplied
// signals or external data rather than defaults.
func hasEvidence(d scoring.Dimension, in idea.Input, mi market.Intelligence) bool {
	switch d {
	case scoring.ProblemSeverity:
		return in.ProblemSeverity != nil || in.ProblemFrequency != nil || in.WillingnessToPay != nil || in.CustomerInterviews != nil
	case scoring.MarketQuality:
		return in.PerceivedTAM != nil || in.PerceivedGrowth != nil || mi.Source == market.SourceProvider
	case scoring.Competition:
		return in.CompetitorCount != nil || len(mi.NotableCompetitors) > 0
	case scoring.Differentiation:
		return in.Differentiation != nil
	case scoring.UnitEconomics:
		return in.GrossMarginPct != nil || in.PriceUSD != nil || in.LTVUSD != nil || in.CACUSD != nil
	case scoring.ExecutionFeasibility:
		return in.TechnicalFeasibility != nil || in.ExecutionComplexity != nil || in.StartupCostUSD != nil || in.HasPrototype != nil
	case scoring.GoToMarket:
		return in.DistributionAccess != nil || in.WaitlistSize != nil || in.CustomerInterviews != nil
	case scoring.Timing:
		return in.TimeToMarketMonths != nil
	case scoring.Defensibility:
		return in.Defensibility != nil
	case scoring.FounderFit:
		return in.TeamExperience != nil || in.HasPayingCustomers != nil
	case scoring.RegulatoryCompliance:
		return in.RegulatoryRisk != nil
	case scoring.NetworkEffects, scoring.SupplyDemandBalance, scoring.ViralPotential:
		return in.DistributionAccess != nil
	}
	return false
}
