package composite

import (
	"math"
	"slices"

	"github.com/joelkehle/ideavalidation/internal/archetype"
	"github.com/joelkehle/ideavalidation/internal/lexical"
)

const (
	ManagedMarketplace      = "managed-marketplace"
	SubscriptionMarketplace = "subscription-marketplace"
	SaaSEnabledMarketplace  = "saas-enabled-marketplace"
	HardwareAsAService      = "hardware-as-a-service"
	TechEnabledServices     = "tech-enabled-services"

	hybridSaturation = 4.0
)

type Hybrid struct {
	Name     string             `json:"name"`
	Score    float64            `json:"score"`
	Evidence []lexical.Evidence `json:"evidence,omitempty"`
}

type hybridPattern struct {
	name        string
	left, right *lexical.Set
}

var (
	marketplaceTerms = lexical.MustCompile(
		lexical.Lit("marketplace", 3, "marketplace"), lexical.Lit("connect", 2, "connects parties"),
		lexical.Lit("buyers and sellers", 3, "two sides"), lexical.Lit("two-sided", 3, "two-sided"),
		lexical.Lit("vendors", 1, "vendor supply"), lexical.Lit("providers", 1, "provider supply"),
	)
	subscriptionTerms = lexical.MustCompile(
		lexical.Lit("subscription", 3, "subscription"), lexical.Lit("monthly", 1, "monthly"),
		lexical.Lit("membership", 2, "membership"), lexical.Lit("recurring", 2, "recurring"),
	)
)

var hybridPatterns = []hybridPattern{
	{
		name:  ManagedMarketplace,
		left:  marketplaceTerms,
		right: lexical.MustCompile(lexical.Lit("vetted", 2, "vetting"), lexical.Lit("managed", 3, "managed"), lexical.Lit("quality control", 2, "quality control"), lexical.Lit("we handle", 2, "operator handles fulfilment"), lexical.Lit("background check", 2, "vetting")),
	},
	{name: SubscriptionMarketplace, left: marketplaceTerms, right: subscriptionTerms},
	{
		name:  SaaSEnabledMarketplace,
		left:  marketplaceTerms,
		right: lexical.MustCompile(lexical.Lit("saas", 3, "saas"), lexical.Lit("software", 2, "software"), lexical.Lit("scheduling", 1, "workflow tooling"), lexical.Lit("booking system", 2, "booking tooling"), lexical.Lit("tools for", 1, "tools for supply")),
	},
	{
		name:  HardwareAsAService,
		left:  lexical.MustCompile(lexical.Lit("hardware", 3, "hardware"), lexical.Lit("device", 2, "device"), lexical.Lit("sensor", 2, "sensor"), lexical.Lit("robot", 2, "robot"), lexical.Lit("equipment", 2, "equipment")),
		right: lexical.MustCompile(lexical.Lit("as a service", 3, "as a service"), lexical.Lit("lease", 2, "leasing"), lexical.Lit("rent", 1, "rental"), lexical.Lit("subscription", 2, "subscription")),
	},
	{
		name:  TechEnabledServices,
		left:  lexical.MustCompile(lexical.Lit("service", 2, "service"), lexical.Lit("agency", 3, "agency"), lexical.Lit("consulting", 3, "consulting"), lexical.Lit("done-for-you", 3, "done-for-you"), lexical.Lit("concierge", 2, "concierge")),
		right: lexical.MustCompile(lexical.Lit("platform", 2, "platform"), lexical.Lit("software", 2, "software"), lexical.Re(`\bai\b`, 2, "ai"), lexical.Re(`\bapp\b`, 1, "app"), lexical.Lit("automat", 2, "automation")),
	},
}

// LexicalHybrids flags business-model combinations. A hybrid needs
// evidence on both sides; its score is the mean saturation of the two.
type LexicalHybrids struct{}

func (LexicalHybrids) DetectHybrids(text string, _ archetype.Classification) []Hybrid {
	var out []Hybrid
	for _, p := range hybridPatterns {
		ls, lev := p.left.Score(text)
		rs, rev := p.right.Score(text)
		if ls <= 0 || rs <= 0 {
			continue
		}
		score := 0.5*math.Min(1, ls/hybridSaturation) + 0.5*math.Min(1, rs/hybridSaturation)
		out = append(out, Hybrid{Name: p.name, Score: score, Evidence: slices.Concat(lev, rev)})
	}
	return out
}
