// Package pivot recommends alternative business concepts when an idea
// scores poorly, drawing on a read-only catalog of scored options.
package pivot

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/joelkehle/ideavalidation/internal/archetype"
	"github.com/joelkehle/ideavalidation/internal/lexical"
)

const (
	MaxPivots             = 4
	MinUplift             = 15.0
	HealthcareMinUplift   = 10.0
	DefaultSkillMatch     = 0.5
	artisanMergeThreshold = 0.7

	SourceCatalog = "catalog"
	SourceArtisan = "artisan"
)

// allowed lists the catalog categories compatible with each archetype.
var allowed = map[archetype.Type][]string{
	archetype.SaaSB2B:         {"b2b_saas", "enterprise_saas"},
	archetype.EnterpriseSaaS:  {"enterprise_saas", "b2b_saas"},
	archetype.Marketplace:     {"marketplace"},
	archetype.DTCSubscription: {"dtc_subscription", "ecommerce"},
	archetype.PhysicalProduct: {"physical_product", "ecommerce"},
	archetype.Ecommerce:       {"ecommerce", "physical_product"},
	archetype.FoodService:     {"food_service"},
	archetype.Healthcare:      {"healthcare"},
	archetype.MobileApp:       {"mobile_app"},
	archetype.Fintech:         {"fintech"},
	archetype.Services:        {"services"},
}

// mobileSubsets curates mobile options by detected app sub-type.
var mobileSubsets = map[string][]string{
	"fitness":      {"mobile-ai-workout-coach", "mobile-physio-rehab", "mobile-habit-coaching"},
	"social":       {"mobile-local-events", "mobile-creator-tools"},
	"productivity": {"mobile-field-service", "mobile-habit-coaching"},
	"gaming":       {"mobile-edu-games", "mobile-creator-tools"},
	"education":    {"mobile-language-tutor", "mobile-exam-prep", "mobile-edu-games"},
}

var enterpriseSignals = lexical.MustCompile(
	lexical.Lit("enterprise", 1, ""), lexical.Lit("fortune 500", 1, ""), lexical.Lit("large organizations", 1, ""),
	lexical.Re(`\bsso\b`, 1, ""), lexical.Lit("procurement", 1, ""), lexical.Lit("compliance", 1, ""),
)

type UserProfile struct {
	Skills    []string `json:"skills,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

type Score struct {
	Option     Option  `json:"option"`
	Overall    float64 `json:"overall"`
	Delta      float64 `json:"delta"`
	SkillMatch float64 `json:"skill_match"`
	Source     string  `json:"source"`
}

func (s Score) rank() float64 { return s.Overall + 10*s.SkillMatch }

type Engine struct {
	catalog  *Catalog
	classify func(text string) archetype.Classification
}

type EngineOption func(*Engine)

func WithCatalog(c *Catalog) EngineOption { return func(e *Engine) { e.catalog = c } }

// WithClassifier replaces archetype.Detect, e.g. with a composite detector.
func WithClassifier(fn func(text string) archetype.Classification) EngineOption {
	return func(e *Engine) { e.classify = fn }
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{catalog: Builtin(), classify: archetype.Detect}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Recommend returns up to four pivots that beat currentScore by the uplift
// threshold, ranked by overall plus skill fit.
func (e *Engine) Recommend(ideaText string, currentScore float64, c archetype.Classification, profile *UserProfile) []Score {
	candidates := e.candidates(ideaText, c)
	threshold := UpliftThreshold(c.PrimaryType)

	var skills []string
	if profile != nil {
		skills = profile.Skills
	}
	out := make([]Score, 0, len(candidates))
	for _, cand := range candidates {
		overall := math.Round(cand.option.ScoringFactors.Overall()*10) / 10
		delta := overall - currentScore
		if delta < threshold {
			continue
		}
		out = append(out, Score{
			Option:     cand.option,
			Overall:    overall,
			Delta:      delta,
			SkillMatch: SkillMatch(cand.option.RelevantSkills, skills),
			Source:     cand.source,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].rank() > out[j].rank() })
	if len(out) > MaxPivots {
		out = out[:MaxPivots]
	}
	return out
}

type candidate struct {
	option Option
	source string
}

func (e *Engine) candidates(ideaText string, c archetype.Classification) []candidate {
	var opts []Option
	switch c.PrimaryType {
	case archetype.SaaSB2B, archetype.EnterpriseSaaS:
		if _, ok := enterpriseSignals.Matches(ideaText); ok || c.PrimaryType == archetype.EnterpriseSaaS {
			opts = e.catalog.Category("enterprise_saas")
		} else {
			opts = e.catalog.Category("b2b_saas")
		}
	case archetype.MobileApp:
		opts = e.mobileOptions(c.SubType)
	default:
		for _, cat := range allowed[c.PrimaryType] {
			opts = append(opts, e.catalog.Category(cat)...)
		}
	}

	artisan := archetype.HasArtisanSignals(ideaText)
	seen := make(map[string]bool, len(opts)+len(artisanOptions))
	out := make([]candidate, 0, len(opts)+len(artisanOptions))
	for _, o := range opts {
		if artisan && (o.Category == "fintech" || o.Category == "healthcare") {
			continue
		}
		if seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		out = append(out, candidate{option: o, source: SourceCatalog})
	}
	if artisan && c.PrimaryType == archetype.PhysicalProduct && c.Confidence >= artisanMergeThreshold {
		for _, o := range artisanOptions {
			if seen[o.ID] {
				continue
			}
			seen[o.ID] = true
			out = append(out, candidate{option: o, source: SourceArtisan})
		}
	}
	return out
}

func (e *Engine) mobileOptions(subType string) []Option {
	ids, ok := mobileSubsets[subType]
	if !ok {
		return e.catalog.Category("mobile_app")
	}
	out := make([]Option, 0, len(ids))
	for _, id := range ids {
		if o, ok := e.catalog.Get(id); ok {
			out = append(out, o)
		}
	}
	return out
}

func UpliftThreshold(t archetype.Type) float64 {
	if t == archetype.Healthcare {
		return HealthcareMinUplift
	}
	return MinUplift
}

// SkillMatch is the share of relevant skills found in the user's skills.
func SkillMatch(relevant, userSkills []string) float64 {
	if len(userSkills) == 0 || len(relevant) == 0 {
		return DefaultSkillMatch
	}
	hits := 0
	for _, r := range relevant {
		r = strings.ToLower(r)
		for _, s := range userSkills {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" && (strings.Contains(s, r) || strings.Contains(r, s)) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(relevant))
}

// Request is the input of Suggest.
type Request struct {
	IdeaText              string       `json:"idea_text"`
	CurrentScore          float64      `json:"current_score"`
	BusinessModelOverride string       `json:"business_model_override,omitempty"`
	UserProfile           *UserProfile `json:"user_profile,omitempty"`
}

// Pivot is a recommendation with its market snapshot flattened for
// rendering.
type Pivot struct {
	Score
	TAM           string   `json:"tam"`
	Growth        string   `json:"growth"`
	Competitors   []string `json:"competitors"`
	Barriers      []string `json:"barriers"`
	Opportunities []string `json:"opportunities"`
}

type Response struct {
	BusinessModel       archetype.Classification `json:"business_model"`
	Pivots              []Pivot                  `json:"pivots"`
	OriginalConstraints []string                 `json:"original_constraints"`
}

func (e *Engine) Suggest(req Request) Response {
	c := e.classify(req.IdeaText)
	if t, ok := archetype.Parse(strings.TrimSpace(req.BusinessModelOverride)); ok {
		c = archetype.Classification{
			PrimaryType:    t,
			Confidence:     1,
			Constraints:    archetype.ConstraintsFor(t),
			ReasoningChain: []string{fmt.Sprintf("business model overridden to %s", t)},
		}
	}
	scores := e.Recommend(req.IdeaText, req.CurrentScore, c, req.UserProfile)
	return Response{BusinessModel: c, Pivots: Snapshots(scores), OriginalConstraints: c.Constraints}
}

// Snapshots attaches each option's market snapshot to its score.
func Snapshots(scores []Score) []Pivot {
	pivots := make([]Pivot, 0, len(scores))
	for _, s := range scores {
		pivots = append(pivots, Pivot{
			Score:         s,
			TAM:           s.Option.MarketSize,
			Growth:        s.Option.GrowthRate,
			Competitors:   s.Option.Competitors,
			Barriers:      s.Option.Barriers,
			Opportunities: s.Option.Opportunities,
		})
	}
	return pivots
}
