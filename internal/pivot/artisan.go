package pivot

// CategoryArtisan marks the hand-authored options merged in for confident
// craft and maker ideas. They live outside the catalog allow-lists.
const CategoryArtisan = "artisan"

var artisanOptions = []Option{
	{
		ID:             "artisan-workshops",
		Category:       CategoryArtisan,
		Title:          "Paid workshops and maker classes",
		Description:    "Teach the craft in small in-person or live online classes, with kits sold alongside.",
		MarketSize:     "$3.5B",
		GrowthRate:     "11% CAGR",
		Competitors:    []string{"Skillshare", "local studios", "Airbnb Experiences hosts"},
		Barriers:       []string{"venue costs", "instructor time"},
		Opportunities:  []string{"corporate team events", "kit subscriptions"},
		ScoringFactors: Factors{Problem: 66, Underserved: 76, Demand: 80, Differentiation: 84, Economics: 78, GTM: 74},
		RelevantSkills: []string{"craft", "teaching", "events", "community"},
	},
	{
		ID:             "artisan-corporate-gifting",
		Category:       CategoryArtisan,
		Title:          "Handmade corporate gifting",
		Description:    "Small-batch branded goods for client gifts and employee milestones, sold by quote.",
		MarketSize:     "$8B",
		GrowthRate:     "8% CAGR",
		Competitors:    []string{"Sendoso", "Knack", "custom merch shops"},
		Barriers:       []string{"batch production capacity", "B2B sales cycle"},
		Opportunities:  []string{"higher order values", "repeat annual programs"},
		ScoringFactors: Factors{Problem: 70, Underserved: 74, Demand: 78, Differentiation: 82, Economics: 84, GTM: 66},
		RelevantSkills: []string{"craft", "b2b sales", "production", "branding"},
	},
	{
		ID:             "artisan-bespoke-commissions",
		Category:       CategoryArtisan,
		Title:          "Bespoke commissions and made-to-measure",
		Description:    "Custom pieces built to order at premium prices, booked through a consultation.",
		MarketSize:     "$2.8B",
		GrowthRate:     "9% CAGR",
		Competitors:    []string{"independent makers", "luxury ateliers"},
		Barriers:       []string{"throughput per maker", "lead times"},
		Opportunities:  []string{"wedding and milestone gifts", "waitlist pricing"},
		ScoringFactors: Factors{Problem: 68, Underserved: 80, Demand: 72, Differentiation: 90, Economics: 82, GTM: 68},
		RelevantSkills: []string{"craft", "leather", "design", "customer service"},
	},
	{
		ID:             "artisan-wholesale-collab",
		Category:       CategoryArtisan,
		Title:          "Boutique and hotel collaborations",
		Description:    "Limited collections made for boutique hotels, galleries and concept stores.",
		MarketSize:     "$4.1B",
		GrowthRate:     "7% CAGR",
		Competitors:    []string{"Faire makers", "design studios"},
		Barriers:       []string{"wholesale margins", "relationship sales"},
		Opportunities:  []string{"co-branded editions", "hospitality retail"},
		ScoringFactors: Factors{Problem: 62, Underserved: 78, Demand: 70, Differentiation: 86, Economics: 74, GTM: 72},
		RelevantSkills: []string{"craft", "wholesale", "design", "sales"},
	},
}
