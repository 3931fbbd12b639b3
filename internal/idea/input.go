package idea

import "strings"

const (
	MaxIdeaChars   = 20000
	MinIdeaChars   = 15
	DefaultWeight  = 0.6
	defaultNeutral = 5.0
)

// Input is one validation request. Signals are optional; nil means the
// caller did not supply it and the scoring engine falls back to a default.
type Input struct {
	IdeaText         string `json:"idea_text"`
	TargetCustomer   string `json:"target_customer,omitempty"`
	ValueProposition string `json:"value_proposition,omitempty"`

	ProblemSeverity      *float64 `json:"problem_severity,omitempty"`
	ProblemFrequency     *float64 `json:"problem_frequency,omitempty"`
	WillingnessToPay     *float64 `json:"willingness_to_pay,omitempty"`
	PerceivedTAM         *float64 `json:"perceived_tam,omitempty"`
	PerceivedGrowth      *float64 `json:"perceived_growth,omitempty"`
	CompetitorCount      *int     `json:"competitor_count,omitempty"`
	Differentiation      *float64 `json:"differentiation,omitempty"`
	Defensibility        *float64 `json:"defensibility,omitempty"`
	TeamExperience       *float64 `json:"team_experience,omitempty"`
	TechnicalFeasibility *float64 `json:"technical_feasibility,omitempty"`
	ExecutionComplexity  *float64 `json:"execution_complexity,omitempty"`
	DistributionAccess   *float64 `json:"distribution_access,omitempty"`
	RegulatoryRisk       *float64 `json:"regulatory_risk,omitempty"`
	TimeToMarketMonths   *float64 `json:"time_to_market_months,omitempty"`
	StartupCostUSD       *float64 `json:"startup_cost_usd,omitempty"`
	PriceUSD             *float64 `json:"price_usd,omitempty"`
	GrossMarginPct       *float64 `json:"gross_margin_pct,omitempty"`
	CACUSD               *float64 `json:"cac_usd,omitempty"`
	LTVUSD               *float64 `json:"ltv_usd,omitempty"`
	CustomerInterviews   *int     `json:"customer_interviews,omitempty"`
	WaitlistSize         *int     `json:"waitlist_size,omitempty"`
	MarketDataWeight     *float64 `json:"market_data_weight,omitempty"`

	HasPrototype        *bool `json:"has_prototype,omitempty"`
	HasPayingCustomers  *bool `json:"has_paying_customers,omitempty"`
	IsLegal             *bool `json:"is_legal,omitempty"`
	SolvesRealProblem   *bool `json:"solves_real_problem,omitempty"`
	TechnicallyFeasible *bool `json:"technically_feasible,omitempty"`
}

func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }
func Bool(v bool) *bool        { return &v }

// Text returns the lowercased idea text joined with the optional free-text
// fields, which is what the lexical detectors scan.
func (in Input) Text() string {
	parts := []string{in.IdeaText}
	if s := strings.TrimSpace(in.TargetCustomer); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(in.ValueProposition); s != "" {
		parts = append(parts, s)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func (in Input) Trimmed() string { return strings.TrimSpace(in.IdeaText) }

// Minimal returns the reduced input used by the first fallback tier: the
// idea text capped at 1000 chars and the target customer capped at 200.
func (in Input) Minimal() Input {
	return Input{
		IdeaText:       truncate(in.IdeaText, 1000),
		TargetCustomer: truncate(in.TargetCustomer, 200),
	}
}

func (in Input) MarketWeight() float64 {
	if in.MarketDataWeight == nil {
		return DefaultWeight
	}
	w := *in.MarketDataWeight
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// Or returns *p or def when p is nil.
func Or(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func OrInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// Is reports whether the optional flag is explicitly set to want.
func Is(p *bool, want bool) bool {
	return p != nil && *p == want
}

func Neutral() float64 { return defaultNeutral }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
