// Package composite combines a pattern classifier, a hybrid-model detector
// and an uncertainty quantifier behind one detection call. Each part can be
// swapped for another implementation.
package composite

import (
	"fmt"
	"math"

	"github.com/joelkehle/ideavalidation/internal/archetype"
)

// agreementUnknownness is the runner-up/winner ratio at or below which the
// quantifier is taken to agree with the pattern classifier (winner at least
// 1.5x the runner-up).
const agreementUnknownness = 2.0 / 3

type PatternClassifier interface {
	Classify(text string) archetype.Classification
}

type HybridDetector interface {
	DetectHybrids(text string, primary archetype.Classification) []Hybrid
}

type UncertaintyQuantifier interface {
	Quantify(primary archetype.Classification, hybrids []Hybrid) Uncertainty
}

type Uncertainty struct {
	Confidence    float64 `json:"confidence"`
	Entropy       float64 `json:"entropy"`
	Unknownness   float64 `json:"unknownness"`
	EvidenceCount int     `json:"evidence_count"`
}

type Result struct {
	Classification archetype.Classification `json:"classification"`
	Hybrids        []Hybrid                 `json:"hybrids,omitempty"`
	Uncertainty    Uncertainty              `json:"uncertainty"`
}

type Detector struct {
	pattern     PatternClassifier
	hybrid      HybridDetector
	uncertainty UncertaintyQuantifier
}

type Option func(*Detector)

func WithPatternClassifier(p PatternClassifier) Option { return func(d *Detector) { d.pattern = p } }
func WithHybridDetector(h HybridDetector) Option       { return func(d *Detector) { d.hybrid = h } }
func WithUncertaintyQuantifier(u UncertaintyQuantifier) Option {
	return func(d *Detector) { d.uncertainty = u }
}

func New(opts ...Option) *Detector {
	d := &Detector{
		pattern:     ArchetypeClassifier{},
		hybrid:      LexicalHybrids{},
		uncertainty: EvidenceQuantifier{},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Detector) Detect(text string) archetype.Classification {
	return d.Analyze(text).Classification
}

// Analyze runs all three collaborators. The returned confidence is the mean
// of the pattern classifier's and the quantifier's, but never below the
// pattern classifier's own when the winner is clearly ahead of the
// runner-up.
func (d *Detector) Analyze(text string) Result {
	primary := d.pattern.Classify(text)
	hybrids := d.hybrid.DetectHybrids(text, primary)
	u := d.uncertainty.Quantify(primary, hybrids)

	c := primary
	c.ReasoningChain = append([]string(nil), primary.ReasoningChain...)
	for _, h := range hybrids {
		c.ReasoningChain = append(c.ReasoningChain, fmt.Sprintf("hybrid pattern %s (%.2f)", h.Name, h.Score))
	}
	c.Confidence = (primary.Confidence + u.Confidence) / 2
	if u.Unknownness <= agreementUnknownness && primary.Confidence > c.Confidence {
		c.Confidence = primary.Confidence
	}
	c.ReasoningChain = append(c.ReasoningChain,
		fmt.Sprintf("composite confidence %.2f (pattern %.2f, quantified %.2f, entropy %.2f)", c.Confidence, primary.Confidence, u.Confidence, u.Entropy))
	return Result{Classification: c, Hybrids: hybrids, Uncertainty: u}
}

// ArchetypeClassifier is the default pattern classifier.
type ArchetypeClassifier struct{}

func (ArchetypeClassifier) Classify(text string) archetype.Classification { return archetype.Detect(text) }

// EvidenceQuantifier derives confidence from evidence volume and how close
// the runner-up archetype came to the winner.
type EvidenceQuantifier struct{}

func (EvidenceQuantifier) Quantify(primary archetype.Classification, hybrids []Hybrid) Uncertainty {
	evidence := len(primary.Indicators) + len(hybrids)
	unknown := unknownness(primary)
	conf := 0.3 + 0.08*float64(evidence) - 0.3*unknown
	conf = math.Max(0.1, math.Min(0.95, conf))
	return Uncertainty{
		Confidence:    conf,
		Entropy:       1 - conf,
		Unknownness:   unknown,
		EvidenceCount: evidence,
	}
}

// unknownness is 1 with no positive evidence, else runner-up/winner.
func unknownness(c archetype.Classification) float64 {
	winner := c.Scores[c.PrimaryType]
	if winner <= 0 {
		return 1
	}
	runnerUp := 0.0
	for t, s := range c.Scores {
		if t != c.PrimaryType && s > runnerUp {
			runnerUp = s
		}
	}
	return math.Min(1, runnerUp/winner)
}
