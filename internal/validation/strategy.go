package validation

import (
	"fmt"

	"github.com/joelkehle/ideavalidation/internal/archetype"
	"github.com/joelkehle/ideavalidation/internal/dna"
	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/lexical"
	"github.com/joelkehle/ideavalidation/internal/market"
	"github.com/joelkehle/ideavalidation/internal/scoring"
)

// classificationFloor is the confidence below which no strategy will run.
// Ambiguous but usable detections (up to archetype.MinConfidence) still run
// and are routed afterwards. The built-in detectors bottom out at 0.3 and
// 0.2, so only an injected classifier or strategy reaches the floor.
const classificationFloor = 0.2

// Analysis is the state one strategy run works on.
type Analysis struct {
	Input    idea.Input
	Text     string
	DNA      dna.BusinessDNA
	Class    archetype.Classification
	Market   market.Intelligence
	Weights  scoring.IndustryWeights
	Scores   scoring.ComputedScores
	Decision scoring.Decision
}

// Strategy tailors weighting and review to one family of business models.
// Prepare runs before scoring; Review runs after the decision and may only
// add risks and highlights.
type Strategy interface {
	Name() string
	Prepare(a *Analysis) error
	Review(a *Analysis)
}

const (
	StrategySaaS                 = "saas"
	StrategyMarketplace          = "marketplace"
	StrategyPhysicalSubscription = "physical_subscription"
	StrategyEcommerce            = "ecommerce"
	StrategyServices             = "services"
	StrategyGeneric              = "generic"
)

func defaultStrategies() map[archetype.Type]Strategy {
	saas := saasStrategy{}
	return map[archetype.Type]Strategy{
		archetype.SaaSB2B:         saas,
		archetype.EnterpriseSaaS:  saas,
		archetype.Marketplace:     marketplaceStrategy{},
		archetype.DTCSubscription: physicalSubscriptionStrategy{},
		archetype.PhysicalProduct: ecommerceStrategy{},
		archetype.Ecommerce:       ecommerceStrategy{},
		archetype.Services:        servicesStrategy{},
	}
}

func checkClassification(a *Analysis) error {
	if a.Class.Confidence < classificationFloor {
		return &ClassificationError{Type: a.Class.PrimaryType, Confidence: a.Class.Confidence, Reason: "confidence below floor"}
	}
	return nil
}

// raise lifts a weight to at least v.
func raise(w scoring.IndustryWeights, d scoring.Dimension, v float64) {
	if w[d] < v {
		w[d] = v
	}
}

func addRisk(a *Analysis, msg string) {
	for _, r := range a.Decision.Risks {
		if r == msg {
			return
		}
	}
	a.Decision.Risks = append(a.Decision.Risks, msg)
}

func addHighlight(a *Analysis, msg string) {
	for _, h := range a.Decision.Highlights {
		if h == msg {
			return
		}
	}
	a.Decision.Highlights = append(a.Decision.Highlights, msg)
}

type genericStrategy struct{}

func (genericStrategy) Name() string              { return StrategyGeneric }
func (genericStrategy) Prepare(a *Analysis) error { return checkClassification(a) }
func (genericStrategy) Review(*Analysis)          {}

var pricingLanguage = lexical.MustCompile(
	lexical.Lit("per seat", 1, ""),
	lexical.Lit("per user", 1, ""),
	lexical.Lit("pricing", 1, ""),
	lexical.Lit("subscription", 1, ""),
	lexical.Lit("license", 1, ""),
	lexical.Re(`\$\d+\s*(/|per)\s*(mo|month|year|yr)`, 1, ""),
)

type saasStrategy struct{}

func (saasStrategy) Name() string { return StrategySaaS }

func (saasStrategy) Prepare(a *Analysis) error {
	if err := checkClassification(a); err != nil {
		return err
	}
	raise(a.Weights, scoring.UnitEconomics, 1.3)
	raise(a.Weights, scoring.Defensibility, 1.0)
	if a.Class.PrimaryType == archetype.EnterpriseSaaS {
		raise(a.Weights, scoring.GoToMarket, 1.3)
	}
	return nil
}

func (saasStrategy) Review(a *Analysis) {
	if _, ok := pricingLanguage.Matches(a.Text); !ok && a.Input.PriceUSD == nil {
		addRisk(a, "No pricing model described for a software product")
	}
	if ltv, cac := a.Input.LTVUSD, a.Input.CACUSD; ltv != nil && cac != nil && *cac > 0 && *ltv / *cac >= 3 {
		addHighlight(a, fmt.Sprintf("LTV:CAC of %.1f clears the 3x SaaS benchmark", *ltv / *cac))
	}
	if a.Class.PrimaryType == archetype.EnterpriseSaaS {
		addRisk(a, "Enterprise sales cycles run 6-12 months; plan runway accordingly")
	}
}

var supplySideLanguage = lexical.MustCompile(
	lexical.Lit("seller", 1, ""), lexical.Lit("vendor", 1, ""), lexical.Lit("provider", 1, ""),
	lexical.Lit("host", 1, ""), lexical.Lit("supplier", 1, ""), lexical.Lit("freelancer", 1, ""),
	lexical.Lit("driver", 1, ""), lexical.Lit("creator", 1, ""),
)

type marketplaceStrategy struct{}

func (marketplaceStrategy) Name() string { return StrategyMarketplace }

func (marketplaceStrategy) Prepare(a *Analysis) error {
	if err := checkClassification(a); err != nil {
		return err
	}
	raise(a.Weights, scoring.NetworkEffects, 1.3)
	raise(a.Weights, scoring.SupplyDemandBalance, 1.4)
	return nil
}

func (marketplaceStrategy) Review(a *Analysis) {
	if _, ok := supplySideLanguage.Matches(a.Text); !ok {
		addRisk(a, "Supply side is not described; decide which side of the marketplace to seed first")
	}
	if v, ok := a.Scores.Get(scoring.NetworkEffects); ok && v >= 7 {
		addHighlight(a, "Each new participant makes the marketplace more valuable")
	}
}

type physicalSubscriptionStrategy struct{}

func (physicalSubscriptionStrategy) Name() string { return StrategyPhysicalSubscription }

func (physicalSubscriptionStrategy) Prepare(a *Analysis) error {
	if err := checkClassification(a); err != nil {
		return err
	}
	raise(a.Weights, scoring.UnitEconomics, 1.5)
	raise(a.Weights, scoring.ExecutionFeasibility, 1.1)
	return nil
}

func (physicalSubscriptionStrategy) Review(a *Analysis) {
	margin := idea.Or(a.Input.GrossMarginPct, a.Market.TypicalMargins*100)
	if margin < 40 {
		addRisk(a, fmt.Sprintf("Gross margin around %.0f%% leaves little room for fulfilment and churn", margin))
	}
	addRisk(a, "Subscription boxes live or die on month-3 retention; measure churn early")
}

// DomainStrategy specialises the e-commerce strategy for the kind of goods
// being sold.
type DomainStrategy interface {
	Name() string
	Adjust(w scoring.IndustryWeights)
	Review(a *Analysis)
}

type ecommerceStrategy struct{}

func (ecommerceStrategy) Name() string { return StrategyEcommerce }

func (ecommerceStrategy) domain(a *Analysis) DomainStrategy {
	if archetype.HasArtisanSignals(a.Text) {
		return artisanDomain{}
	}
	return commodityDomain{}
}

func (s ecommerceStrategy) Prepare(a *Analysis) error {
	if err := checkClassification(a); err != nil {
		return err
	}
	raise(a.Weights, scoring.GoToMarket, 1.2)
	s.domain(a).Adjust(a.Weights)
	return nil
}

func (s ecommerceStrategy) Review(a *Analysis) {
	if a.Market.CustomerAcquisitionDifficulty >= 7 {
		addRisk(a, "Paid acquisition for consumer goods is expensive; build an owned channel")
	}
	s.domain(a).Review(a)
}

// DomainFor reports which e-commerce domain strategy applies to text.
func DomainFor(text string) string {
	return ecommerceStrategy{}.domain(&Analysis{Text: text}).Name()
}

type artisanDomain struct{}

func (artisanDomain) Name() string { return "artisan" }

func (artisanDomain) Adjust(w scoring.IndustryWeights) {
	raise(w, scoring.Differentiation, 1.3)
	raise(w, scoring.FounderFit, 1.1)
}

func (artisanDomain) Review(a *Analysis) {
	addRisk(a, "Handmade production caps throughput; price for your hours, not materials")
	if idea.Or(a.Input.PriceUSD, 0) >= 100 || lexical.ContainsAny(a.Text, "premium", "luxury", "bespoke") {
		addHighlight(a, "Premium price point suits handcrafted goods")
	}
}

type commodityDomain struct{}

func (commodityDomain) Name() string { return "commodity" }

func (commodityDomain) Adjust(w scoring.IndustryWeights) {
	raise(w, scoring.Competition, 1.3)
	raise(w, scoring.UnitEconomics, 1.2)
}

func (commodityDomain) Review(a *Analysis) {
	addRisk(a, "Commodity goods compete on price with Amazon and marketplace sellers")
}

type servicesStrategy struct{}

func (servicesStrategy) Name() string { return StrategyServices }

func (servicesStrategy) Prepare(a *Analysis) error {
	if err := checkClassification(a); err != nil {
		return err
	}
	raise(a.Weights, scoring.FounderFit, 1.3)
	raise(a.Weights, scoring.GoToMarket, 1.1)
	return nil
}

func (servicesStrategy) Review(a *Analysis) {
	addRisk(a, "Revenue scales with headcount unless delivery is productised")
}
