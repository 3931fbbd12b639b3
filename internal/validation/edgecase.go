package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/lexical"
	"github.com/joelkehle/ideavalidation/internal/scoring"
)

// preRoute returns the edge case that must short-circuit scoring, if any.
// Prohibited content wins over short input.
func preRoute(in idea.Input) *EdgeCase {
	if ev, ok := lexical.Prohibited().Matches(in.Text()); ok || idea.Is(in.IsLegal, false) {
		msg := "The idea involves illegal or prohibited activity and cannot be validated."
		if ok && ev.Reason != "" {
			msg = fmt.Sprintf("The idea involves prohibited activity (%s) and cannot be validated.", ev.Reason)
		}
		return &EdgeCase{Kind: EdgeIllegalContent, Message: msg}
	}
	if n := utf8.RuneCountInString(in.Trimmed()); n < idea.MinIdeaChars {
		return &EdgeCase{
			Kind:    EdgeInsufficientData,
			Message: fmt.Sprintf("Idea description has %d characters; at least %d are needed.", n, idea.MinIdeaChars),
			Guidance: []string{
				"Describe the problem you solve and who has it",
				"Say how customers will pay and roughly how much",
				"Name the alternatives customers use today",
			},
		}
	}
	return nil
}

// edgeResult is the verdict for a pre-routed idea. No scoring has run.
func edgeResult(in idea.Input, ec EdgeCase) Result {
	status := scoring.StatusReview
	if ec.Kind == EdgeIllegalContent {
		status = scoring.StatusNoGo
	}
	return Result{
		Status:       status,
		Scores:       scoring.ComputedScores{Dimensions: map[scoring.Dimension]float64{}},
		Highlights:   []string{},
		Risks:        []string{ec.Message},
		TargetMarket: strings.TrimSpace(in.TargetCustomer),
		ValueProp:    strings.TrimSpace(in.ValueProposition),
		Meta: Meta{
			Strategy:  "edge_case",
			Reasoning: ec.Message,
			EdgeCase:  &ec,
		},
	}
}

// routeAmbiguous marks a result whose business model could not be pinned
// down. A GO is held back to REVIEW; scores are kept.
func routeAmbiguous(res *Result) {
	c := res.Meta.BusinessModel
	ec := &EdgeCase{
		Kind:    EdgeAmbiguousModel,
		Message: fmt.Sprintf("Business model is unclear (best guess %s at %.0f%% confidence).", c.PrimaryType, c.Confidence*100),
		Guidance: []string{
			"State who pays: consumers, businesses, or both sides of a marketplace",
			"Say whether you sell software, physical goods, or a service",
			"Describe the pricing model (one-off, subscription, commission)",
		},
	}
	res.Meta.EdgeCase = ec
	if res.Status == scoring.StatusGo {
		res.Status = scoring.StatusReview
		res.Meta.Reasoning = "Scores clear the GO threshold but the business model is ambiguous. " + res.Meta.Reasoning
	}
	res.Risks = append([]string{ec.Message}, res.Risks...)
}
