package consensus

import (
	"math"

	"github.com/joelkehle/ideavalidation/internal/scoring"
)

// Clamp bounds every dimension to [0,10] and the overall score to [0,100].
// NaN dimensions become 0. Applying it twice changes nothing.
func Clamp(s *scoring.ComputedScores) {
	if s == nil {
		return
	}
	for d, v := range s.Dimensions {
		switch {
		case math.IsNaN(v), v < 0:
			s.Dimensions[d] = 0
		case v > 10:
			s.Dimensions[d] = 10
		}
	}
	if s.Overall < 0 {
		s.Overall = 0
	}
	if s.Overall > 100 {
		s.Overall = 100
	}
}
