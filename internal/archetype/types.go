package archetype

import "github.com/joelkehle/ideavalidation/internal/lexical"

type Type string

const (
	SaaSB2B         Type = "saas_b2b"
	EnterpriseSaaS  Type = "enterprise_saas"
	Marketplace     Type = "marketplace"
	DTCSubscription Type = "dtc_subscription"
	PhysicalProduct Type = "physical_product"
	Ecommerce       Type = "ecommerce"
	FoodService     Type = "food_service"
	Healthcare      Type = "healthcare"
	MobileApp       Type = "mobile_app"
	Fintech         Type = "fintech"
	Services        Type = "services"
)

// All lists the archetypes in declaration order, which is also the
// tie-break order when two archetypes score equally.
var All = []Type{SaaSB2B, EnterpriseSaaS, Marketplace, DTCSubscription, PhysicalProduct, Ecommerce, FoodService, Healthcare, MobileApp, Fintech, Services}

const (
	DefaultConfidence = 0.3
	MinConfidence     = 0.4
	MaxConfidence     = 0.95
)

func Parse(s string) (Type, bool) {
	for _, t := range All {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Classification is the detector's verdict on which archetype an idea
// belongs to. It is always resolvable; unknown ideas default to Services.
type Classification struct {
	PrimaryType    Type               `json:"primary_type"`
	SubType        string             `json:"sub_type,omitempty"`
	Confidence     float64            `json:"confidence"`
	Indicators     []lexical.Evidence `json:"indicators,omitempty"`
	Constraints    []string           `json:"constraints,omitempty"`
	ReasoningChain []string           `json:"reasoning_chain,omitempty"`
	Scores         map[Type]float64   `json:"scores,omitempty"`
}

// Constraints returns the structural constraints that follow from an
// archetype. Pivot responses echo these back as the original constraints.
func ConstraintsFor(t Type) []string {
	switch t {
	case SaaSB2B:
		return []string{"recurring revenue depends on retention", "sales cycle lengthens with deal size"}
	case EnterpriseSaaS:
		return []string{"long procurement and security reviews", "high implementation cost per customer"}
	case Marketplace:
		return []string{"chicken-and-egg liquidity problem", "take rate limited by disintermediation"}
	case DTCSubscription:
		return []string{"churn erodes lifetime value", "fulfilment and logistics cost per box"}
	case PhysicalProduct:
		return []string{"inventory and working capital", "unit economics sensitive to COGS and shipping"}
	case Ecommerce:
		return []string{"paid acquisition cost", "thin margins on commodity goods"}
	case FoodService:
		return []string{"health permits and food safety", "high fixed costs and thin margins"}
	case Healthcare:
		return []string{"regulatory approval and privacy compliance", "reimbursement and long sales cycles"}
	case MobileApp:
		return []string{"app store discovery", "low willingness to pay on consumer apps"}
	case Fintech:
		return []string{"licensing and compliance", "trust and fraud risk"}
	default:
		return []string{"revenue scales with headcount", "founder time is the bottleneck"}
	}
}
