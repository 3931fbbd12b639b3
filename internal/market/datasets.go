package market

// FallbackConfidence is the confidence carried by the generic dataset when
// gathering failed outright.
const FallbackConfidence = 0.3

var Datasets = map[string]Intelligence{
	"technology": {
		TAMUSD:                        5.2e11,
		GrowthRate:                    0.12,
		CompetitionLevel:              4,
		KeyTrends:                     []string{"AI-assisted workflows", "vertical SaaS", "usage-based pricing"},
		RegulatoryBarriers:            []string{"data privacy (GDPR/CCPA)"},
		TypicalMargins:                0.75,
		CustomerAcquisitionDifficulty: 6,
		Confidence:                    0.6,
	},
	"healthcare": {
		TAMUSD:                        4.1e11,
		GrowthRate:                    0.09,
		CompetitionLevel:              5,
		KeyTrends:                     []string{"telehealth normalisation", "value-based care", "remote monitoring"},
		RegulatoryBarriers:            []string{"HIPAA", "FDA clearance for devices", "state licensure"},
		TypicalMargins:                0.45,
		CustomerAcquisitionDifficulty: 8,
		Confidence:                    0.6,
	},
	"fintech": {
		TAMUSD:                        3.1e11,
		GrowthRate:                    0.15,
		CompetitionLevel:              3.5,
		KeyTrends:                     []string{"embedded finance", "real-time payments", "open banking"},
		RegulatoryBarriers:            []string{"money transmitter licensing", "KYC/AML", "PCI DSS"},
		TypicalMargins:                0.55,
		CustomerAcquisitionDifficulty: 7,
		Confidence:                    0.6,
	},
	"ecommerce": {
		TAMUSD:                        6.3e12,
		GrowthRate:                    0.09,
		CompetitionLevel:              3,
		KeyTrends:                     []string{"social commerce", "marketplace consolidation", "rising paid acquisition costs"},
		RegulatoryBarriers:            []string{"consumer protection and returns law"},
		TypicalMargins:                0.35,
		CustomerAcquisitionDifficulty: 7,
		Confidence:                    0.6,
	},
	"food_beverage": {
		TAMUSD:                        8.9e11,
		GrowthRate:                    0.05,
		CompetitionLevel:              3,
		KeyTrends:                     []string{"specialty and craft products", "delivery-first brands", "subscription replenishment"},
		RegulatoryBarriers:            []string{"food safety permits", "labeling rules"},
		TypicalMargins:                0.3,
		CustomerAcquisitionDifficulty: 6,
		Confidence:                    0.55,
	},
	"education": {
		TAMUSD:                        4.0e11,
		GrowthRate:                    0.1,
		CompetitionLevel:              4.5,
		KeyTrends:                     []string{"cohort-based learning", "skills credentials", "AI tutoring"},
		RegulatoryBarriers:            []string{"FERPA/COPPA for minors", "accreditation"},
		TypicalMargins:                0.6,
		CustomerAcquisitionDifficulty: 6,
		Confidence:                    0.55,
	},
	"real_estate": {
		TAMUSD:                        3.7e12,
		GrowthRate:                    0.04,
		CompetitionLevel:              4,
		KeyTrends:                     []string{"proptech adoption", "short-term rentals", "fractional ownership"},
		RegulatoryBarriers:            []string{"brokerage licensing", "zoning"},
		TypicalMargins:                0.25,
		CustomerAcquisitionDifficulty: 7,
		Confidence:                    0.5,
	},
	"transportation": {
		TAMUSD:                        1.2e12,
		GrowthRate:                    0.06,
		CompetitionLevel:              3,
		KeyTrends:                     []string{"electrification", "last-mile logistics", "fleet software"},
		RegulatoryBarriers:            []string{"DOT/commercial licensing", "insurance requirements"},
		TypicalMargins:                0.15,
		CustomerAcquisitionDifficulty: 6,
		Confidence:                    0.5,
	},
	"entertainment": {
		TAMUSD:                        2.3e12,
		GrowthRate:                    0.07,
		CompetitionLevel:              3,
		KeyTrends:                     []string{"creator economy", "short-form video", "live events recovery"},
		RegulatoryBarriers:            []string{"content licensing"},
		TypicalMargins:                0.4,
		CustomerAcquisitionDifficulty: 7,
		Confidence:                    0.5,
	},
	"manufacturing": {
		TAMUSD:                        1.5e12,
		GrowthRate:                    0.04,
		CompetitionLevel:              5,
		KeyTrends:                     []string{"reshoring", "small-batch production", "automation"},
		RegulatoryBarriers:            []string{"product safety certification", "import tariffs"},
		TypicalMargins:                0.3,
		CustomerAcquisitionDifficulty: 5,
		Confidence:                    0.5,
	},
	"default": {
		TAMUSD:                        1.0e11,
		GrowthRate:                    0.06,
		CompetitionLevel:              5,
		KeyTrends:                     []string{"digital adoption"},
		RegulatoryBarriers:            []string{"general business licensing"},
		TypicalMargins:                0.4,
		CustomerAcquisitionDifficulty: 5,
		Confidence:                    0.4,
	},
}

// ForIndustry returns a copy of the dataset for industry, or the default
// dataset when the industry is not seeded.
func ForIndustry(industry string) Intelligence {
	d, ok := Datasets[industry]
	if !ok {
		d = Datasets["default"]
	}
	mi := d.clone()
	mi.Source = SourceInternal
	return mi
}

// Fallback is the generic dataset used when gathering failed.
func Fallback() Intelligence {
	mi := Datasets["default"].clone()
	mi.Confidence = FallbackConfidence
	mi.Source = SourceFallback
	return mi
}
