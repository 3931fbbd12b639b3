package pivot

import (
	"fmt"
	"slices"

	"github.com/joelkehle/ideavalidation/internal/archetype"
)

const (
	IssueIncompatibleCategory = "incompatible_category"
	IssueInsufficientUplift   = "insufficient_uplift"
)

// Issue is a QA finding; none of them block a response.
type Issue struct {
	Kind     string `json:"kind"`
	OptionID string `json:"option_id"`
	Message  string `json:"message"`
}

// ValidateCompatibility checks recommended pivots against the category
// allow-list and the uplift threshold. Artisan merges are exempt from the
// allow-list.
func ValidateCompatibility(c archetype.Classification, scores []Score, currentScore float64) []Issue {
	var issues []Issue
	threshold := UpliftThreshold(c.PrimaryType)
	for _, s := range scores {
		if s.Source != SourceArtisan && !slices.Contains(allowed[c.PrimaryType], s.Option.Category) {
			issues = append(issues, Issue{
				Kind:     IssueIncompatibleCategory,
				OptionID: s.Option.ID,
				Message:  fmt.Sprintf("category %s is not compatible with %s", s.Option.Category, c.PrimaryType),
			})
		}
		if delta := s.Overall - currentScore; delta < threshold {
			issues = append(issues, Issue{
				Kind:     IssueInsufficientUplift,
				OptionID: s.Option.ID,
				Message:  fmt.Sprintf("uplift %.1f below %.0f", delta, threshold),
			})
		}
	}
	return issues
}

// AllowedCategories returns the catalog categories compatible with t.
func AllowedCategories(t archetype.Type) []string {
	return slices.Clone(allowed[t])
}
