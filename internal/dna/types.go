package dna

import "github.com/joelkehle/ideavalidation/internal/lexical"

const (
	CustomerB2C         = "b2c"
	CustomerB2B         = "b2b"
	CustomerB2B2C       = "b2b2c"
	CustomerMarketplace = "marketplace"
)

const (
	StageIdea      = "idea"
	StagePrototype = "prototype"
	StageMVP       = "mvp"
	StageLaunched  = "launched"
)

const (
	ScaleLocal    = "local"
	ScaleRegional = "regional"
	ScaleNational = "national"
	ScaleGlobal   = "global"
)

const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

const (
	NetworkNone     = "none"
	NetworkModerate = "moderate"
	NetworkStrong   = "strong"
)

const (
	ModelPhysicalSubscription = "physical-subscription"
	ModelSaaS                 = "saas"
	ModelMarketplace          = "marketplace"
	ModelSubscription         = "subscription"
	ModelEcommerce            = "ecommerce"
	ModelAdvertising          = "advertising"
	ModelFreemium             = "freemium"
	ModelTransactional        = "transactional"
	ModelHardware             = "hardware"
	ModelServices             = "services"
)

const (
	IndustryGeneral = "general"
	SubGeneral      = "general"

	LowConfidence = 0.4
)

// BusinessDNA is the structural fingerprint of an idea, derived once per
// validation call.
type BusinessDNA struct {
	Industry             string             `json:"industry"`
	SubIndustry          string             `json:"sub_industry"`
	BusinessModel        string             `json:"business_model"`
	CustomerType         string             `json:"customer_type"`
	Stage                string             `json:"stage"`
	Scale                string             `json:"scale"`
	CapitalIntensity     string             `json:"capital_intensity"`
	RegulatoryComplexity string             `json:"regulatory_complexity"`
	NetworkEffects       string             `json:"network_effects"`
	Confidence           float64            `json:"confidence"`
	Signals              []lexical.Evidence `json:"signals,omitempty"`
}

func IsLowConfidence(c float64) bool { return c < LowConfidence }

func (d BusinessDNA) IsSubscriptionModel() bool {
	return d.BusinessModel == ModelPhysicalSubscription || d.BusinessModel == ModelSubscription
}

func (d BusinessDNA) IsSaaS() bool {
	return d.BusinessModel == ModelSaaS || d.SubIndustry == "saas"
}
