// Package report renders validation results and pivot suggestions as
// markdown, and markdown as standalone HTML.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/joelkehle/ideavalidation/internal/pivot"
	"github.com/joelkehle/ideavalidation/internal/scoring"
	"github.com/joelkehle/ideavalidation/internal/validation"
)

const Disclaimer = "*Automated screening based on keyword heuristics and reference market data. Use it to decide what to investigate next, not as investment advice.*"

// Markdown renders one validation result.
func Markdown(res validation.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Idea Validation Report\n\n")
	fmt.Fprintf(&b, "- Run ID: %s\n", res.Meta.RunID)
	if !res.Meta.StartedAt.IsZero() {
		fmt.Fprintf(&b, "- Date: %s\n", res.Meta.StartedAt.Format("2006-01-02 15:04 MST"))
	}
	fmt.Fprintf(&b, "- Verdict: **%s**\n", res.Status)
	if len(res.Scores.Dimensions) > 0 {
		fmt.Fprintf(&b, "- Overall score: %d / 100\n", res.Scores.Overall)
	}
	if bm := res.Meta.BusinessModel; bm.PrimaryType != "" {
		model := string(bm.PrimaryType)
		if bm.SubType != "" {
			model += " / " + bm.SubType
		}
		fmt.Fprintf(&b, "- Business model: %s (confidence %.0f%%)\n", model, bm.Confidence*100)
	}
	if res.Meta.Strategy != "" {
		fmt.Fprintf(&b, "- Strategy: %s\n", res.Meta.Strategy)
	}
	fmt.Fprintf(&b, "\n%s\n\n", Disclaimer)

	if ec := res.Meta.EdgeCase; ec != nil {
		fmt.Fprintf(&b, "> %s: %s\n\n", strings.ToUpper(strings.ReplaceAll(string(ec.Kind), "_", " ")), sanitize(ec.Message))
		for _, g := range ec.Guidance {
			fmt.Fprintf(&b, "- %s\n", sanitize(g))
		}
		if len(ec.Guidance) > 0 {
			b.WriteString("\n")
		}
	}
	if fb := res.Meta.Fallback; fb != nil {
		fmt.Fprintf(&b, "> DEGRADED: full analysis failed (%s); result produced by the `%s` recovery tier.\n\n", sanitize(fb.Error), fb.Tier)
	}

	if s := res.Meta.Reasoning; s != "" {
		fmt.Fprintf(&b, "## Summary\n\n%s\n\n", sanitize(s))
	}
	if res.TargetMarket != "" || res.ValueProp != "" {
		fmt.Fprintf(&b, "- Target market: %s\n", sanitize(res.TargetMarket))
		fmt.Fprintf(&b, "- Value proposition: %s\n\n", sanitize(res.ValueProp))
	}

	if len(res.Scores.Dimensions) > 0 {
		fmt.Fprintf(&b, "## Scores\n\n")
		fmt.Fprintf(&b, "| Dimension | Score | Weight |\n|---|---:|---:|\n")
		w := scoring.Weights(res.Meta.DNA)
		for _, d := range res.Scores.Present() {
			fmt.Fprintf(&b, "| %s | %.1f | %.2f |\n", d.Label(), res.Scores.Dimensions[d], w[d])
		}
		b.WriteString("\n")
		for _, c := range res.Scores.Caps {
			fmt.Fprintf(&b, "- %s capped at %.0f (was %.1f): %s\n", c.Dimension.Label(), c.Limit, c.Before, sanitize(c.Reason))
		}
		if len(res.Scores.Caps) > 0 {
			b.WriteString("\n")
		}
	}

	writeList(&b, "Highlights", res.Highlights)
	writeList(&b, "Risks", res.Risks)

	if mi := res.Meta.Market; mi.Source != "" {
		fmt.Fprintf(&b, "## Market\n\n")
		fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| TAM | $%s |\n", fmtUSD(mi.TAMUSD))
		fmt.Fprintf(&b, "| Growth | %.0f%% |\n", mi.GrowthRate*100)
		fmt.Fprintf(&b, "| Competition (10 = open) | %.1f |\n", mi.CompetitionLevel)
		fmt.Fprintf(&b, "| Typical margins | %.0f%% |\n", mi.TypicalMargins*100)
		fmt.Fprintf(&b, "| Acquisition difficulty | %.1f |\n", mi.CustomerAcquisitionDifficulty)
		fmt.Fprintf(&b, "| Source | %s (confidence %.2f) |\n", mi.Source, mi.Confidence)
		if len(mi.NotableCompetitors) > 0 {
			fmt.Fprintf(&b, "| Notable competitors | %s |\n", sanitizeCell(strings.Join(mi.NotableCompetitors, ", ")))
		}
		b.WriteString("\n")
	}

	if len(res.Pivots) > 0 {
		fmt.Fprintf(&b, "## Pivot Options\n\n")
		writePivots(&b, res.Pivots)
	}

	if c := res.Meta.Consensus; c != nil {
		fmt.Fprintf(&b, "## Consensus\n\n")
		fmt.Fprintf(&b, "- Final score: %.2f (bounds %.2f-%.2f)\n", c.FinalScore, c.ConfidenceBounds[0], c.ConfidenceBounds[1])
		fmt.Fprintf(&b, "- Agreement: %.2f\n", c.ProviderAgreement)
		fmt.Fprintf(&b, "- Mathematically consistent: %t\n\n", c.MathematicalConsistency)
	}
	if fp := res.Meta.FalsePositive; fp != nil {
		fmt.Fprintf(&b, "## Second Look\n\n")
		fmt.Fprintf(&b, "- Adjusted thresholds: GO %d, REVIEW %d\n", fp.AdjustedGo, fp.AdjustedReview)
		fmt.Fprintf(&b, "- Suggested verdict: %s", fp.SuggestedStatus)
		if fp.WouldChange {
			b.WriteString(" (differs from the verdict above)")
		}
		fmt.Fprintf(&b, "\n- Explainability: %.2f\n", fp.Explainability)
		for _, n := range fp.Notes {
			fmt.Fprintf(&b, "- %s\n", sanitize(n))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// PivotsMarkdown renders a standalone pivot suggestion.
func PivotsMarkdown(resp pivot.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Pivot Suggestions\n\n")
	fmt.Fprintf(&b, "- Business model: %s (confidence %.0f%%)\n\n", resp.BusinessModel.PrimaryType, resp.BusinessModel.Confidence*100)
	writeList(&b, "Constraints of the Current Model", resp.OriginalConstraints)
	if len(resp.Pivots) == 0 {
		fmt.Fprintf(&b, "No catalog option beats the current score by enough to recommend a pivot.\n")
		return b.String()
	}
	writePivots(&b, resp.Pivots)
	return b.String()
}

func writePivots(b *strings.Builder, pivots []pivot.Pivot) {
	fmt.Fprintf(b, "| # | Option | Score | Uplift | Skill fit | TAM | Growth |\n|---:|---|---:|---:|---:|---|---|\n")
	for i, p := range pivots {
		fmt.Fprintf(b, "| %d | %s | %.1f | +%.1f | %.0f%% | %s | %s |\n",
			i+1, sanitizeCell(p.Option.Title), p.Overall, p.Delta, p.SkillMatch*100, sanitizeCell(p.TAM), sanitizeCell(p.Growth))
	}
	b.WriteString("\n")
	for _, p := range pivots {
		fmt.Fprintf(b, "### %s\n\n%s\n\n", sanitize(p.Option.Title), sanitize(p.Option.Description))
		if len(p.Competitors) > 0 {
			fmt.Fprintf(b, "- Competitors: %s\n", sanitize(strings.Join(p.Competitors, ", ")))
		}
		if len(p.Barriers) > 0 {
			fmt.Fprintf(b, "- Barriers: %s\n", sanitize(strings.Join(p.Barriers, ", ")))
		}
		if len(p.Opportunities) > 0 {
			fmt.Fprintf(b, "- Opportunities: %s\n", sanitize(strings.Join(p.Opportunities, ", ")))
		}
		b.WriteString("\n")
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", sanitize(it))
	}
	b.WriteString("\n")
}

// RenderHTML converts report markdown into a self-contained HTML page.
func RenderHTML(title, markdown string) (string, error) {
	var content bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" + styleCSS + "</style></head><body><main>" + content.String() + "</main></body></html>", nil
}

const styleCSS = `body{font-family:-apple-system,"Segoe UI",Helvetica,Arial,sans-serif;color:#1f2328;margin:0;background:#f6f8fa}
main{max-width:860px;margin:2rem auto;padding:2rem 2.5rem;background:#fff;border:1px solid #d0d7de;border-radius:6px}
table{border-collapse:collapse;margin:1rem 0}th,td{border:1px solid #d0d7de;padding:.35rem .7rem}
blockquote{margin:1rem 0;padding:.5rem 1rem;border-left:4px solid #bf8700;background:#fff8c5}`

func sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

func sanitizeCell(s string) string {
	return strings.ReplaceAll(sanitize(s), "|", "\\|")
}

// fmtUSD formats a dollar amount with comma separators.
func fmtUSD(v float64) string {
	n := int64(v)
	if n < 0 {
		return "-" + fmtUSD(float64(-n))
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		out.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if out.Len() > 0 {
			out.WriteByte(',')
		}
		out.WriteString(s[i : i+3])
	}
	return out.String()
}
