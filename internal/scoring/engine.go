package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/joelkehle/ideavalidation/internal/dna"
	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/market"
)

type Options struct {
	EnforceCaps bool
}

// Compute scores the ten base dimensions, any conditional dimensions the
// DNA makes relevant, and the weighted overall score.
func Compute(in idea.Input, d dna.BusinessDNA, mi market.Intelligence, w IndustryWeights, opts Options) ComputedScores {
	text := in.Text()
	n := idea.Neutral()
	dims := make(map[Dimension]float64, len(AllDimensions))

	severity := idea.Or(in.ProblemSeverity, n+problemBoost(text))
	if idea.Is(in.SolvesRealProblem, false) {
		severity = 1
	}
	dims[ProblemSeverity] = blend(
		severity, 0.5,
		idea.Or(in.ProblemFrequency, n), 0.3,
		idea.Or(in.WillingnessToPay, n), 0.2,
	)

	dims[MarketQuality] = marketQuality(in, mi)

	dims[Competition] = blend(
		mi.CompetitionLevel, 0.6,
		competitorCountScore(in.CompetitorCount, mi.CompetitionLevel), 0.4,
	)

	dims[Differentiation] = blend(
		idea.Or(in.Differentiation, n), 0.6,
		clamp10(4+2*noveltyHits(text)), 0.4,
	)

	dims[UnitEconomics] = blend(
		marginScore(in.GrossMarginPct, mi.TypicalMargins), 0.4,
		ltvCACScore(in.LTVUSD, in.CACUSD), 0.4,
		priceScore(in.PriceUSD), 0.2,
	)

	feasibility := n
	if idea.Is(in.HasPrototype, true) {
		feasibility = 7
	}
	if idea.Is(in.TechnicallyFeasible, false) {
		feasibility = 1
	}
	dims[ExecutionFeasibility] = blend(
		idea.Or(in.TechnicalFeasibility, feasibility), 0.4,
		10-idea.Or(in.ExecutionComplexity, n), 0.3,
		capitalScore(in.StartupCostUSD, d.CapitalIntensity), 0.3,
	)

	dims[GoToMarket] = blend(
		idea.Or(in.DistributionAccess, n), 0.5,
		10-mi.CustomerAcquisitionDifficulty, 0.3,
		tractionScore(in.CustomerInterviews, in.WaitlistSize), 0.2,
	)

	dims[Timing] = blend(
		growthScore(mi.GrowthRate), 0.5,
		timeToMarketScore(in.TimeToMarketMonths), 0.3,
		trendScore(text, mi.KeyTrends), 0.2,
	)

	dims[Defensibility] = blend(
		idea.Or(in.Defensibility, n), 0.5,
		networkScore(d.NetworkEffects), 0.3,
		levelScore(d.RegulatoryComplexity, 3, 5, 7), 0.2,
	)

	dims[FounderFit] = blend(
		idea.Or(in.TeamExperience, n), 0.6,
		evidenceScore(in, d.Stage), 0.4,
	)

	addConditional(dims, in, d, mi, text)

	var advisories []string
	var caps []Cap
	if opts.EnforceCaps {
		caps, advisories = applyOverlays(dims, text, d)
	}
	advisories = append(advisories, qualityAdvisories(in, mi)...)

	for k, v := range dims {
		dims[k] = round1(clamp10(v))
	}
	return ComputedScores{
		Dimensions: dims,
		Overall:    Overall(dims, w),
		Advisories: advisories,
		Caps:       caps,
	}
}

// Overall is the weighted mean of the present dimensions scaled to 0-100.
func Overall(dims map[Dimension]float64, w IndustryWeights) int {
	var sum, total float64
	for _, d := range AllDimensions {
		v, ok := dims[d]
		if !ok {
			continue
		}
		wt := w[d]
		if wt <= 0 {
			continue
		}
		sum += wt * clamp10(v)
		total += wt
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(sum / total * 10))
}

func addConditional(dims map[Dimension]float64, in idea.Input, d dna.BusinessDNA, mi market.Intelligence, text string) {
	dist := idea.Or(in.DistributionAccess, idea.Neutral())
	marketplace := d.CustomerType == dna.CustomerMarketplace || d.BusinessModel == dna.ModelMarketplace

	if d.NetworkEffects != dna.NetworkNone || marketplace {
		dims[NetworkEffects] = blend(networkScore(d.NetworkEffects), 0.7, dist, 0.3)
	}
	if d.RegulatoryComplexity == dna.LevelHigh || d.RegulatoryComplexity == dna.LevelMedium {
		risk := idea.Or(in.RegulatoryRisk, levelScore(d.RegulatoryComplexity, 3, 5, 7))
		dims[RegulatoryCompliance] = blend(
			10-risk, 0.7,
			clamp10(10-2*float64(len(mi.RegulatoryBarriers))), 0.3,
		)
	}
	if marketplace {
		dims[SupplyDemandBalance] = blend(dist, 0.5, scaleScore(d.Scale), 0.5)
	}
	sharing, _ := sharingLanguage.Score(text)
	if d.CustomerType == dna.CustomerB2C && (d.NetworkEffects != dna.NetworkNone || sharing > 0) {
		dims[ViralPotential] = blend(networkScore(d.NetworkEffects), 0.6, clamp10(3+2*sharing), 0.4)
	}
}

func marketQuality(in idea.Input, mi market.Intelligence) float64 {
	w := in.MarketWeight()
	data := 0.5*tamScore(mi.TAMUSD) + 0.5*growthScore(mi.GrowthRate)
	user := 0.5*tamScoreOr(in.PerceivedTAM) + 0.5*growthScoreOr(in.PerceivedGrowth)
	return clamp10(w*data + (1-w)*user)
}

// blend takes value/weight pairs; each call site's weights sum to 1.
func blend(pairs ...float64) float64 {
	var s float64
	for i := 0; i+1 < len(pairs); i += 2 {
		s += clamp10(pairs[i]) * pairs[i+1]
	}
	return clamp10(s)
}

func tamScore(usd float64) float64 {
	if usd <= 0 {
		return 0
	}
	return clamp10((math.Log10(usd) - 7) * 2.5)
}

func tamScoreOr(p *float64) float64 {
	if p == nil {
		return idea.Neutral()
	}
	return tamScore(*p)
}

func growthScore(rate float64) float64 { return clamp10(rate * 50) }

func growthScoreOr(p *float64) float64 {
	if p == nil {
		return idea.Neutral()
	}
	return growthScore(*p)
}

func competitorCountScore(n *int, marketLevel float64) float64 {
	if n == nil {
		return marketLevel
	}
	return clamp10(10 - float64(*n))
}

func marginScore(pct *float64, typical float64) float64 {
	if pct != nil {
		return clamp10(*pct / 10)
	}
	return clamp10(typical * 10)
}

func ltvCACScore(ltv, cac *float64) float64 {
	if ltv == nil || cac == nil || *cac <= 0 {
		return idea.Neutral()
	}
	return clamp10(*ltv / *cac / 3 * 7)
}

func priceScore(p *float64) float64 {
	if p == nil || *p <= 0 {
		return idea.Neutral()
	}
	return clamp10(math.Log10(*p+1) * 3)
}

func capitalScore(cost *float64, intensity string) float64 {
	if cost == nil {
		return levelScore(intensity, 7, 5, 3)
	}
	if *cost <= 1 {
		return 10
	}
	return clamp10(12 - 1.5*math.Log10(*cost))
}

func tractionScore(interviews, waitlist *int) float64 {
	if interviews == nil && waitlist == nil {
		return idea.Neutral()
	}
	s := 0.0
	if interviews != nil {
		s += minf(float64(*interviews)/3, 5)
	}
	if waitlist != nil && *waitlist > 0 {
		s += minf(math.Log10(float64(*waitlist)+1)*2, 5)
	}
	return clamp10(s)
}

func timeToMarketScore(months *float64) float64 {
	if months == nil {
		return idea.Neutral()
	}
	return clamp10(10 - *months/2)
}

func trendScore(text string, trends []string) float64 {
	hits := 0
	for _, t := range trends {
		for _, word := range significantWords(t) {
			if strings.Contains(text, word) {
				hits++
				break
			}
		}
	}
	return clamp10(5 + 2.5*float64(hits))
}

func networkScore(level string) float64 {
	switch level {
	case dna.NetworkStrong:
		return 8
	case dna.NetworkModerate:
		return 6
	}
	return 3
}

// levelScore maps a low/medium/high DNA level to a score.
func levelScore(level string, low, medium, high float64) float64 {
	switch level {
	case dna.LevelHigh:
		return high
	case dna.LevelLow:
		return low
	}
	return medium
}

func scaleScore(scale string) float64 {
	switch scale {
	case dna.ScaleLocal:
		return 7
	case dna.ScaleRegional:
		return 6
	case dna.ScaleNational:
		return 5
	}
	return 4
}

func evidenceScore(in idea.Input, stage string) float64 {
	if idea.Is(in.HasPayingCustomers, true) {
		return 9
	}
	switch stage {
	case dna.StageLaunched:
		return 8
	case dna.StageMVP:
		return 7
	case dna.StagePrototype:
		return 6
	}
	if idea.Is(in.HasPrototype, true) {
		return 6
	}
	return 4
}

func qualityAdvisories(in idea.Input, mi market.Intelligence) []string {
	var out []string
	if mi.Confidence < 0.5 {
		out = append(out, fmt.Sprintf("Market data confidence is low (%.2f, source %s); verify TAM and growth independently", mi.Confidence, mi.Source))
	}
	if in.LTVUSD != nil && in.CACUSD != nil && *in.CACUSD > 0 && *in.LTVUSD / *in.CACUSD < 3 {
		out = append(out, fmt.Sprintf("LTV:CAC of %.1f is below the 3:1 benchmark", *in.LTVUSD / *in.CACUSD))
	}
	if in.CustomerInterviews == nil || *in.CustomerInterviews == 0 {
		out = append(out, "No customer interviews recorded; problem severity is inferred from the description")
	}
	return out
}
