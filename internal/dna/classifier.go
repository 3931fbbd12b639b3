package dna

import (
	"strings"

	"github.com/joelkehle/ideavalidation/internal/lexical"
)

type category struct {
	name     string
	keywords []string
}

// Declaration order is the tie-break: the first category with the top hit
// count wins.
var industries = []category{
	{"technology", []string{"software", "saas", "app", "platform", "ai ", "artificial intelligence", "machine learning", "api", "cloud", "developer", "automation", "cybersecurity", "data analytics", "dashboard", "tool"}},
	{"healthcare", []string{"health", "medical", "patient", "doctor", "clinic", "hospital", "therapy", "telehealth", "wellness", "mental health", "pharma", "diagnos", "nurse", "caregiver"}},
	{"fintech", []string{"fintech", "payment", "banking", "lending", "loan", "invest", "credit", "insurance", "budget", "crypto", "wallet", "financial", "accounting", "tax"}},
	{"ecommerce", []string{"e-commerce", "ecommerce", "online store", "shop", "retail", "sell", "handmade", "products", "dropship", "etsy", "shopify", "bags", "jewelry", "apparel", "clothing"}},
	{"food_beverage", []string{"food", "restaurant", "coffee", "meal", "cafe", "bakery", "catering", "kitchen", "beverage", "snack", "recipe", "grocery", "food truck", "chef", "dining"}},
	{"education", []string{"education", "learning", "course", "student", "teacher", "tutor", "school", "training", "curriculum", "edtech", "university", "bootcamp"}},
	{"real_estate", []string{"real estate", "property", "rental", "landlord", "tenant", "housing", "apartment", "mortgage", "realtor", "home buyers"}},
	{"transportation", []string{"transport", "delivery", "logistics", "ride", "shipping", "fleet", "courier", "freight", "trucking", "mobility", "scooter"}},
	{"entertainment", []string{"game", "gaming", "music", "video", "streaming", "podcast", "content", "creator", "film", "event", "social media", "influencer"}},
	{"manufacturing", []string{"manufactur", "factory", "industrial", "3d print", "fabricat", "assembly", "supply chain", "production line", "hardware"}},
}

var subIndustries = map[string][]category{
	"technology": {
		{"saas", []string{"saas", "subscription software", "b2b software", "software as a service", "dashboard", "workflow"}},
		{"ai_ml", []string{"ai ", "artificial intelligence", "machine learning", "llm", "gpt", "neural"}},
		{"developer_tools", []string{"developer", "api", "sdk", "devops", "code"}},
		{"cybersecurity", []string{"security", "cybersecurity", "encryption", "threat", "compliance monitoring"}},
		{"mobile_apps", []string{"mobile app", "ios", "android", "app store"}},
	},
	"healthcare": {
		{"telehealth", []string{"telehealth", "telemedicine", "virtual visit", "remote consult"}},
		{"medical_devices", []string{"device", "wearable", "sensor", "implant"}},
		{"mental_health", []string{"mental health", "therapy", "anxiety", "depression", "counsel"}},
		{"wellness", []string{"wellness", "fitness", "nutrition", "sleep", "meditation"}},
		{"pharma", []string{"drug", "pharma", "clinical trial", "biotech"}},
	},
	"fintech": {
		{"payments", []string{"payment", "checkout", "wallet", "transfer", "remittance"}},
		{"lending", []string{"loan", "lending", "credit", "bnpl", "buy now pay later"}},
		{"personal_finance", []string{"budget", "saving", "personal finance", "expense"}},
		{"insurtech", []string{"insurance", "insurtech", "claims"}},
		{"investing", []string{"invest", "trading", "portfolio", "crypto", "stock"}},
	},
	"ecommerce": {
		{"artisan_goods", []string{"handmade", "artisan", "handcrafted", "craft", "leather", "pottery"}},
		{"dtc_brand", []string{"direct to consumer", "d2c", "dtc", "brand"}},
		{"fashion", []string{"apparel", "clothing", "fashion", "shoes", "bags"}},
		{"dropshipping", []string{"dropship", "drop-ship"}},
	},
	"food_beverage": {
		{"subscription_food", []string{"subscription box", "meal kit", "monthly box", "coffee subscription"}},
		{"restaurant", []string{"restaurant", "cafe", "dining", "bistro"}},
		{"food_truck", []string{"food truck", "street food"}},
		{"packaged_goods", []string{"snack", "packaged", "sauce", "beverage", "beans"}},
		{"catering", []string{"catering", "events", "ghost kitchen"}},
	},
	"education": {
		{"online_courses", []string{"course", "online learning", "mooc", "cohort"}},
		{"tutoring", []string{"tutor", "tutoring", "homework"}},
		{"corporate_training", []string{"corporate training", "upskill", "employee training"}},
	},
	"real_estate": {
		{"proptech", []string{"property management", "proptech", "tenant screening"}},
		{"short_term_rental", []string{"airbnb", "short-term rental", "vacation rental"}},
		{"brokerage", []string{"realtor", "brokerage", "home buyers"}},
	},
	"transportation": {
		{"last_mile", []string{"last mile", "last-mile", "courier", "delivery"}},
		{"ride_sharing", []string{"ride sharing", "rideshare", "ride-hailing", "carpool"}},
		{"freight", []string{"freight", "trucking", "logistics"}},
	},
	"entertainment": {
		{"gaming", []string{"game", "gaming", "esports"}},
		{"creator_economy", []string{"creator", "influencer", "newsletter", "podcast"}},
		{"events", []string{"event", "concert", "festival", "ticket"}},
		{"streaming", []string{"streaming", "video", "music"}},
	},
	"manufacturing": {
		{"hardware", []string{"hardware", "device", "electronics", "iot"}},
		{"additive", []string{"3d print", "additive"}},
		{"industrial", []string{"industrial", "factory", "machinery"}},
	},
}

var (
	subscriptionTerms = []string{"subscription", "subscribe", "monthly box", "per month", "/month", "/mo", "recurring", "monthly plan"}
	physicalTerms     = []string{"box", "deliver", "shipping", "ships", "shipped", "beans", "products", "package", "physical", "doorstep", "kit"}
)

var models = []category{
	{ModelSaaS, []string{"saas", "software as a service", "subscription software", "per seat", "b2b software", "cloud platform", "dashboard"}},
	{ModelMarketplace, []string{"marketplace", "two-sided", "connects buyers", "connect buyers", "commission", "platform connecting", "match"}},
	{ModelSubscription, []string{"subscription", "subscribe", "membership", "recurring", "monthly plan"}},
	{ModelEcommerce, []string{"online store", "e-commerce", "ecommerce", "sell online", "shopify", "etsy", "webshop"}},
	{ModelAdvertising, []string{"advertis", "ad-supported", "sponsorship", "ad revenue"}},
	{ModelFreemium, []string{"freemium", "free tier", "premium features", "upgrade to pro"}},
	{ModelTransactional, []string{"transaction fee", "per transaction", "pay per use", "pay-per-use", "booking fee"}},
	{ModelHardware, []string{"hardware", "device", "gadget", "wearable", "sensor"}},
	{ModelServices, []string{"consulting", "agency", "service", "done-for-you", "freelance", "coaching"}},
}

var (
	marketplaceTerms = []string{"marketplace", "two-sided", "connects buyers", "connect buyers", "buyers and sellers", "platform connecting", "peer-to-peer", "p2p"}
	b2b2cTerms       = []string{"b2b2c", "white-label", "white label", "through employers", "via employers", "partner brands", "businesses and their customers", "businesses to offer"}
	b2bTerms         = []string{"b2b", "businesses", "enterprise", "companies", "smb", "small business", "teams", "organizations", "clinics", "restaurants owners", "hr department"}

	stageTerms = []category{
		{StageLaunched, []string{"launched", "paying customers", "revenue of", "in production", "already selling", "customers using"}},
		{StageMVP, []string{"mvp", "beta", "pilot", "early users", "waitlist"}},
		{StagePrototype, []string{"prototype", "proof of concept", "poc", "demo"}},
	}
	scaleTerms = []category{
		{ScaleGlobal, []string{"global", "worldwide", "international", "across countries"}},
		{ScaleNational, []string{"national", "nationwide", "across the us", "across the country", "online"}},
		{ScaleLocal, []string{"local", "neighborhood", "my town", "my city", "community"}},
	}

	highCapitalTerms = []string{"factory", "manufactur", "hardware", "fleet", "warehouse", "inventory", "restaurant", "real estate", "clinic", "satellite", "vehicle"}
	lowCapitalTerms  = []string{"software", "app", "online", "digital", "consulting", "newsletter", "saas", "platform"}

	highRegulatoryTerms   = []string{"health", "medical", "patient", "fda", "hipaa", "bank", "lending", "loan", "insurance", "pharma", "cannabis", "alcohol", "securities", "child care", "childcare", "drug", "firearm"}
	mediumRegulatoryTerms = []string{"food", "financial", "payment", "privacy", "personal data", "education", "transport", "ride", "real estate", "employment"}

	strongNetworkTerms   = []string{"marketplace", "social network", "community", "peer-to-peer", "two-sided", "user-generated", "network of", "connects"}
	moderateNetworkTerms = []string{"referral", "sharing", "share with", "collaborat", "team", "invite", "viral"}
)

// Classify derives the BusinessDNA of an idea. It never panics; low-signal
// text yields default categories with a low confidence.
func Classify(text string) BusinessDNA {
	lower := " " + lexical.Normalize(text) + " "
	d := BusinessDNA{
		Industry:             IndustryGeneral,
		SubIndustry:          SubGeneral,
		BusinessModel:        ModelServices,
		CustomerType:         CustomerB2C,
		Stage:                StageIdea,
		Scale:                ScaleRegional,
		CapitalIntensity:     LevelMedium,
		RegulatoryComplexity: LevelLow,
		NetworkEffects:       NetworkNone,
	}
	resolved := 0

	if name, hits := argmax(lower, industries); hits > 0 {
		d.Industry = name
		resolved++
		d.Signals = append(d.Signals, lexical.Evidence{Label: "industry", Match: name, Weight: float64(hits)})
		if name, hits := argmax(lower, subIndustries[d.Industry]); hits > 0 {
			d.SubIndustry = name
			resolved++
		}
	}

	if model, ok := classifyModel(lower); ok {
		d.BusinessModel = model
		resolved++
		d.Signals = append(d.Signals, lexical.Evidence{Label: "business_model", Match: model, Weight: 1})
	}

	switch {
	case containsAny(lower, marketplaceTerms):
		d.CustomerType = CustomerMarketplace
		resolved++
	case containsAny(lower, b2b2cTerms):
		d.CustomerType = CustomerB2B2C
		resolved++
	case containsAny(lower, b2bTerms):
		d.CustomerType = CustomerB2B
		resolved++
	}

	if stage, ok := firstMatch(lower, stageTerms); ok {
		d.Stage = stage
		resolved++
	}
	if scale, ok := firstMatch(lower, scaleTerms); ok {
		d.Scale = scale
	}

	switch {
	case containsAny(lower, highCapitalTerms):
		d.CapitalIntensity = LevelHigh
	case containsAny(lower, lowCapitalTerms):
		d.CapitalIntensity = LevelLow
	}
	switch {
	case containsAny(lower, highRegulatoryTerms):
		d.RegulatoryComplexity = LevelHigh
	case containsAny(lower, mediumRegulatoryTerms):
		d.RegulatoryComplexity = LevelMedium
	}
	switch {
	case containsAny(lower, strongNetworkTerms):
		d.NetworkEffects = NetworkStrong
	case containsAny(lower, moderateNetworkTerms):
		d.NetworkEffects = NetworkModerate
	}

	d.Confidence = confidence(len(strings.TrimSpace(text)), resolved)
	return d
}

func classifyModel(lower string) (string, bool) {
	if containsAny(lower, subscriptionTerms) && containsAny(lower, physicalTerms) {
		return ModelPhysicalSubscription, true
	}
	name, hits := argmax(lower, models)
	return name, hits > 0
}

func confidence(length, resolved int) float64 {
	c := 0.5
	lengthBonus := float64(length) / 1000
	if lengthBonus > 0.15 {
		lengthBonus = 0.15
	}
	c += lengthBonus + 0.05*float64(resolved)
	if c > 0.95 {
		c = 0.95
	}
	return c
}

func argmax(lower string, cats []category) (string, int) {
	best, bestHits := "", 0
	for _, c := range cats {
		hits := 0
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = c.name, hits
		}
	}
	return best, bestHits
}

func firstMatch(lower string, cats []category) (string, bool) {
	for _, c := range cats {
		if containsAny(lower, c.keywords) {
			return c.name, true
		}
	}
	return "", false
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
