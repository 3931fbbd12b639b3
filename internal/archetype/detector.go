package archetype

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/joelkehle/ideavalidation/internal/lexical"
)

const (
	physicalIntentBonus       = 15.0
	foodServiceDominance      = 12.0
	subscriptionDiscount      = 0.1
	physicalSubscriptionScale = 0.5
	enterpriseOverrideScore   = 12.0
	enterpriseOverrideMargin  = 2.0
)

var lit = lexical.Lit
var rx = lexical.Re

var indicators = map[Type]*lexical.Set{
	SaaSB2B: lexical.MustCompile(
		lit("saas", 8, "software as a service"), lit("software", 4, "software product"), lit("b2b", 5, "sells to businesses"),
		lit("dashboard", 3, "dashboard product"), lit("per seat", 5, "seat pricing"), lit("businesses", 3, "business buyers"),
		rx(`\bteams?\b`, 3, "team buyers"), lit("workflow", 3, "workflow tooling"), lit("automat", 3, "automation"),
		lit("crm", 5, "crm category"), lit("project management", 5, "project management category"), lit("integrat", 2, "integrations"),
		lit("handmade", -4, "craft goods"), lit("restaurant", -3, "food venue"),
	),
	EnterpriseSaaS: lexical.MustCompile(
		lit("enterprise", 6, "enterprise buyers"), lit("fortune 500", 6, "large accounts"), lit("large organizations", 5, "large accounts"),
		lit("compliance", 3, "compliance driven"), rx(`\bsso\b`, 4, "single sign-on"), lit("on-premise", 4, "on-premise deployment"),
		lit("procurement", 3, "procurement process"), rx(`\berp\b`, 5, "erp category"), lit("it department", 4, "it buyer"),
		lit("security review", 3, "security review"), lit("annual contract", 4, "annual contracts"),
	),
	Marketplace: lexical.MustCompile(
		lit("marketplace", 10, "marketplace model"), lit("two-sided", 6, "two-sided network"), lit("connects", 4, "connects parties"),
		lit("connecting", 4, "connects parties"), lit("buyers and sellers", 6, "buyers and sellers"), lit("commission", 5, "take rate"),
		lit("peer-to-peer", 5, "peer-to-peer"), lit("take rate", 5, "take rate"), lit("vendors", 3, "vendor supply"),
		lit("book local", 3, "local booking"), lit("providers", 2, "provider supply"),
	),
	DTCSubscription: lexical.MustCompile(
		lit("subscription box", 10, "subscription box"), lit("monthly subscription", 8, "monthly subscription"), lit("subscription", 5, "subscription"),
		lit("monthly", 3, "monthly cadence"), rx(`/month|per month|/mo\b|a month`, 3, "monthly price"), lit("deliver", 3, "home delivery"),
		lit("curated", 3, "curation"), rx(`\bbox(es)?\b`, 2, "box format"), lit("subscribers", 4, "subscriber base"),
		lit("software", -4, "software product"), lit("saas", -6, "software subscription"),
	),
	PhysicalProduct: lexical.MustCompile(
		lit("handmade", 6, "handmade goods"), lit("handcrafted", 6, "handcrafted goods"), lit("leather", 3, "leather goods"),
		lit("manufactur", 4, "manufacturing"), lit("artisan", 3, "artisan maker"), rx(`\bcraft(s|ed|sman|smanship)?\b`, 3, "craft goods"),
		lit("inventory", 3, "inventory"), lit("wholesale", 3, "wholesale channel"), lit("packaging", 2, "packaging"),
		lit("physical product", 6, "physical product"), rx(`\$\d`, 2, "price point"),
		lit("software", -4, "software product"), rx(`\bapp\b`, -3, "app product"),
	),
	Ecommerce: lexical.MustCompile(
		lit("online store", 6, "online store"), lit("e-commerce", 8, "e-commerce"), lit("ecommerce", 8, "e-commerce"),
		lit("shopify", 5, "shopify storefront"), lit("etsy", 4, "etsy channel"), lit("sell online", 5, "online selling"),
		lit("dropship", 6, "dropshipping"), lit("amazon", 3, "amazon channel"), lit("storefront", 4, "storefront"),
	),
	FoodService: lexical.MustCompile(
		lit("restaurant", 8, "restaurant"), lit("food truck", 10, "food truck"), rx(`\bcaf(e|é)\b`, 6, "cafe"),
		lit("catering", 8, "catering"), lit("ghost kitchen", 8, "ghost kitchen"), lit("menu", 4, "menu"),
		lit("dine", 3, "dining"), lit("chef", 4, "chef-led"), lit("kitchen", 3, "kitchen"), lit("bakery", 6, "bakery"),
		rx(`\bmeals?\b`, 3, "meals"), lit("takeout", 4, "takeout"),
	),
	Healthcare: lexical.MustCompile(
		lit("patient", 6, "patients"), lit("telehealth", 8, "telehealth"), lit("medical", 6, "medical"), lit("clinic", 5, "clinics"),
		lit("doctor", 5, "doctors"), lit("health", 3, "health"), lit("therapy", 4, "therapy"), lit("hipaa", 6, "hipaa"),
		lit("diagnos", 5, "diagnostics"), lit("hospital", 5, "hospitals"), lit("wellness", 3, "wellness"), lit("mental health", 6, "mental health"),
	),
	MobileApp: lexical.MustCompile(
		rx(`\bapp\b`, 5, "app"), lit("mobile app", 8, "mobile app"), rx(`\bios\b`, 4, "ios"), lit("android", 4, "android"),
		lit("app store", 5, "app store"), lit("smartphone", 3, "smartphone"), lit("push notification", 3, "push notifications"),
		lit("download", 2, "downloads"),
	),
	Fintech: lexical.MustCompile(
		lit("fintech", 8, "fintech"), lit("payment", 5, "payments"), lit("banking", 6, "banking"), lit("lending", 6, "lending"),
		rx(`\bloans?\b`, 5, "loans"), lit("invest", 4, "investing"), lit("credit", 4, "credit"), lit("budget", 4, "budgeting"),
		lit("crypto", 5, "crypto"), lit("wallet", 4, "wallet"), lit("insurance", 5, "insurance"),
	),
	Services: lexical.MustCompile(
		lit("consulting", 6, "consulting"), lit("agency", 6, "agency"), lit("freelance", 4, "freelance"), lit("coaching", 5, "coaching"),
		lit("done-for-you", 5, "done-for-you"), lit("service", 3, "service business"), lit("cleaning", 4, "cleaning"),
		lit("repair", 4, "repair"), lit("tutoring", 4, "tutoring"), lit("per hour", 4, "hourly billing"), lit("hourly", 4, "hourly billing"),
	),
}

var (
	tangibleNouns = []string{"bags", "bag ", "jewelry", "furniture", "clothing", "apparel", "candles", "soap", "pottery", "ceramics",
		"shoes", "toys", "cosmetics", "gadget", "wallets", "hats", "mugs", "rugs", "knives", "leather goods", "t-shirts", "skincare", "planters"}
	makeVerbs     = []string{"sell", "make", "craft", "handmade", "manufactur", "produce", "design and sell", "hand-sewn", "build"}
	shippingTerms = []string{"ship", "shipping", "deliver", "fulfil"}
	priceRe       = regexp.MustCompile(`\$\s?\d`)

	subscriptionSignals = []string{"subscription", "subscribe", "monthly", "per month", "/month", "recurring", "box"}
)

var subTypes = map[Type][]struct {
	name  string
	words []string
}{
	Healthcare: {
		{"telehealth", []string{"telehealth", "telemedicine", "virtual visit", "remote consult", "video visit"}},
		{"medical_device", []string{"device", "wearable", "sensor", "implant"}},
		{"wellness", []string{"wellness", "fitness", "meditation", "nutrition", "sleep"}},
		{"clinical_software", []string{"ehr", "clinical", "records", "scheduling", "billing"}},
	},
	FoodService: {
		{"food_truck", []string{"food truck", "street food"}},
		{"catering", []string{"catering", "events"}},
		{"ghost_kitchen", []string{"ghost kitchen", "delivery-only", "virtual brand"}},
		{"restaurant", []string{"restaurant", "cafe", "bistro", "diner", "bakery"}},
	},
	MobileApp: {
		{"fitness", []string{"fitness", "workout", "gym", "running", "exercise"}},
		{"social", []string{"social", "friends", "chat", "dating", "community"}},
		{"productivity", []string{"productivity", "todo", "to-do", "notes", "calendar", "habit"}},
		{"gaming", []string{"game", "gaming", "puzzle"}},
		{"education", []string{"learn", "language", "study", "education", "quiz"}},
	},
}

// Detect classifies text into one of the archetypes.
func Detect(text string) Classification {
	lower := lexical.Normalize(text)
	scores := make(map[Type]float64, len(All))
	evidence := make(map[Type][]lexical.Evidence, len(All))
	var chain []string

	for _, t := range All {
		s, ev := indicators[t].Score(lower)
		scores[t] = s
		evidence[t] = ev
	}

	if physicalIntent(lower) {
		scores[PhysicalProduct] += physicalIntentBonus
		evidence[PhysicalProduct] = append(evidence[PhysicalProduct], lexical.Evidence{Label: "physical_intent", Match: "tangible goods with sell/ship/price signal", Weight: physicalIntentBonus})
		chain = append(chain, fmt.Sprintf("physical intent detected: +%.0f to %s", physicalIntentBonus, PhysicalProduct))
	}
	if scores[FoodService] > foodServiceDominance && scores[DTCSubscription] > 0 {
		scores[DTCSubscription] *= subscriptionDiscount
		chain = append(chain, fmt.Sprintf("food service dominant (%.1f): %s discounted to 10%%", scores[FoodService], DTCSubscription))
	}
	if lexical.CountAny(lower, subscriptionSignals...) >= 2 && scores[PhysicalProduct] > 0 {
		scores[PhysicalProduct] *= physicalSubscriptionScale
		chain = append(chain, fmt.Sprintf("subscription signals dominate: %s scaled by %.1f", PhysicalProduct, physicalSubscriptionScale))
	}

	ranked := rank(scores)
	winner := ranked[0]
	if scores[winner] <= 0 {
		return Classification{
			PrimaryType:    Services,
			Confidence:     DefaultConfidence,
			Constraints:    ConstraintsFor(Services),
			ReasoningChain: append(chain, "no positive archetype signal: defaulting to services"),
			Scores:         scores,
		}
	}
	runnerUp := ranked[1]

	if winner == SaaSB2B {
		ent := scores[EnterpriseSaaS]
		if ent >= enterpriseOverrideScore || (ent > 0 && scores[winner]-ent <= enterpriseOverrideMargin) {
			chain = append(chain, fmt.Sprintf("enterprise override: enterprise score %.1f vs saas %.1f", ent, scores[winner]))
			runnerUp = SaaSB2B
			winner = EnterpriseSaaS
		}
	}

	conf := confidence(scores[winner], scores[runnerUp])
	chain = append(chain, fmt.Sprintf("winner %s (%.1f), runner-up %s (%.1f), confidence %.2f", winner, scores[winner], runnerUp, scores[runnerUp], conf))

	c := Classification{
		PrimaryType:    winner,
		SubType:        subType(winner, lower),
		Confidence:     conf,
		Indicators:     evidence[winner],
		Constraints:    ConstraintsFor(winner),
		ReasoningChain: chain,
		Scores:         scores,
	}
	return c
}

// rank returns archetypes by descending score, ties in declaration order.
func rank(scores map[Type]float64) []Type {
	out := make([]Type, len(All))
	copy(out, All)
	sort.SliceStable(out, func(i, j int) bool { return scores[out[i]] > scores[out[j]] })
	return out
}

func confidence(winner, runnerUp float64) float64 {
	c := 0.4 + minf(winner/40, 0.3)
	switch {
	case runnerUp <= 0 || winner/runnerUp >= 3:
		c += 0.25
	case winner/runnerUp >= 2:
		c += 0.15
	case winner/runnerUp >= 1.5:
		c += 0.10
	default:
		c += 0.05
	}
	if c < MinConfidence {
		c = MinConfidence
	}
	if c > MaxConfidence {
		c = MaxConfidence
	}
	return c
}

func physicalIntent(lower string) bool {
	if !lexical.ContainsAny(lower+" ", tangibleNouns...) {
		return false
	}
	return lexical.ContainsAny(lower, makeVerbs...) || lexical.ContainsAny(lower, shippingTerms...) || priceRe.MatchString(lower)
}

func subType(t Type, lower string) string {
	cands, ok := subTypes[t]
	if !ok {
		return ""
	}
	for _, c := range cands {
		if lexical.ContainsAny(lower, c.words...) {
			return c.name
		}
	}
	return "general"
}

// HasArtisanSignals reports craft/artisan vocabulary in text. Craft words
// match whole words only, so "aircraft" or "Minecraft" do not count.
func HasArtisanSignals(text string) bool {
	_, ok := artisanSignals.Matches(text)
	return ok
}

var artisanSignals = lexical.MustCompile(
	lit("handmade", 1, "handmade"), lit("artisan", 1, "artisan"), rx(`\bhand-?crafted\b`, 1, "handcrafted"),
	rx(`\bcraft(s|ed|sman|smen|smanship|ing)?\b`, 1, "craft"), lit("pottery", 1, "pottery"), rx(`\bleather\b`, 1, "leather"),
	lit("woodwork", 1, "woodwork"), rx(`\bknit(s|ted|ting|wear)?\b`, 1, "knitting"), rx(`\bhand[- ]sewn\b`, 1, "hand-sewn"),
)

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
