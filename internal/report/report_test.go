package report

import (
	"strings"
	"testing"

	"github.com/joelkehle/ideavalidation/internal/archetype"
	"github.com/joelkehle/ideavalidation/internal/market"
	"github.com/joelkehle/ideavalidation/internal/pivot"
	"github.com/joelkehle/ideavalidation/internal/scoring"
	"github.com/joelkehle/ideavalidation/internal/validation"
)

func sampleResult() validation.Result {
	return validation.Result{
		Status: scoring.StatusReview,
		Scores: scoring.ComputedScores{
			Dimensions: map[scoring.Dimension]float64{
				scoring.ProblemSeverity: 7.5,
				scoring.MarketQuality:   4,
			},
			Overall: 61,
			Caps:    []scoring.Cap{{Dimension: scoring.MarketQuality, Limit: 4, Before: 6.2, Reason: "crowded category"}},
		},
		Highlights: []string{"Addresses a severe, frequent problem"},
		Risks:      []string{"Crowded market: crm (Salesforce, HubSpot)"},
		Meta: validation.Meta{
			RunID:         "run-123",
			BusinessModel: archetype.Classification{PrimaryType: archetype.SaaSB2B, Confidence: 0.82},
			Strategy:      validation.StrategySaaS,
			Market:        market.ForIndustry("technology"),
			Reasoning:     "Overall score 61 is promising.\nStrengthen market quality.",
		},
	}
}

func TestMarkdownIncludesVerdictAndScores(t *testing.T) {
	md := Markdown(sampleResult())
	for _, want := range []string{
		"- Verdict: **REVIEW**",
		"- Overall score: 61 / 100",
		"- Business model: saas_b2b (confidence 82%)",
		"| Problem severity | 7.5 |",
		"capped at 4 (was 6.2): crowded category",
		"## Risks",
		"Overall score 61 is promising. Strengthen market quality.",
		"## Market",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "DEGRADED") {
		t.Fatal("unexpected degraded banner")
	}
}

func TestMarkdownFlagsFallbackAndEdgeCase(t *testing.T) {
	res := sampleResult()
	res.Meta.Fallback = &validation.FallbackMeta{Tier: validation.TierRuleBased, Error: "boom"}
	res.Meta.EdgeCase = &validation.EdgeCase{Kind: validation.EdgeAmbiguousModel, Message: "Business model is unclear.", Guidance: []string{"State who pays"}}
	md := Markdown(res)
	if !strings.Contains(md, "DEGRADED") || !strings.Contains(md, "`rule_based`") {
		t.Fatalf("expected degraded banner:\n%s", md)
	}
	if !strings.Contains(md, "> AMBIGUOUS MODEL: Business model is unclear.") {
		t.Fatalf("expected edge case banner:\n%s", md)
	}
}

func TestMarkdownSkipsScoresForPreRoutedIdeas(t *testing.T) {
	res := validation.Result{
		Status: scoring.StatusReview,
		Meta:   validation.Meta{EdgeCase: &validation.EdgeCase{Kind: validation.EdgeInsufficientData, Message: "too short"}},
	}
	md := Markdown(res)
	if strings.Contains(md, "## Scores") || strings.Contains(md, "Overall score") {
		t.Fatalf("pre-routed idea should not show scores:\n%s", md)
	}
}

func TestPivotsMarkdown(t *testing.T) {
	resp := pivot.NewEngine().Suggest(pivot.Request{IdeaText: "A meal kit subscription for busy parents", CurrentScore: 20, BusinessModelOverride: "dtc_subscription"})
	md := PivotsMarkdown(resp)
	if !strings.Contains(md, "# Pivot Suggestions") || !strings.Contains(md, "| 1 |") {
		t.Fatalf("unexpected pivots markdown:\n%s", md)
	}

	empty := PivotsMarkdown(pivot.Response{BusinessModel: archetype.Classification{PrimaryType: archetype.Services}})
	if !strings.Contains(empty, "No catalog option") {
		t.Fatalf("expected empty notice:\n%s", empty)
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML("Report <1>", Markdown(sampleResult()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<title>Report &lt;1&gt;</title>") {
		t.Fatal("title not escaped")
	}
	if !strings.Contains(out, "<table>") {
		t.Fatal("expected GFM table rendering")
	}
	if !strings.Contains(out, "<h1>Idea Validation Report</h1>") {
		t.Fatal("expected heading")
	}
}

func TestFmtUSD(t *testing.T) {
	cases := map[float64]string{0: "0", 999: "999", 1000: "1,000", 2.5e9: "2,500,000,000", -12345: "-12,345"}
	for in, want := range cases {
		if got := fmtUSD(in); got != want {
			t.Fatalf("fmtUSD(%v) = %q, want %q", in, got, want)
		}
	}
}
