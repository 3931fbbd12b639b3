// Package validation runs the full idea validation pipeline: edge-case
// routing, business-model detection, per-model strategy dispatch, tiered
// fallback and the optional consensus and false-positive passes.
package validation

import (
	"fmt"
	"time"

	"github.com/joelkehle/ideavalidation/internal/archetype"
	"github.com/joelkehle/ideavalidation/internal/composite"
	"github.com/joelkehle/ideavalidation/internal/consensus"
	"github.com/joelkehle/ideavalidation/internal/dna"
	"github.com/joelkehle/ideavalidation/internal/falsepositive"
	"github.com/joelkehle/ideavalidation/internal/market"
	"github.com/joelkehle/ideavalidation/internal/pivot"
	"github.com/joelkehle/ideavalidation/internal/scoring"
)

// Options are per-call switches. The zero value enforces category caps and
// clamps every score into range.
type Options struct {
	DisableCaps  bool `json:"disable_caps,omitempty"`
	DisableClamp bool `json:"disable_clamp,omitempty"`
}

type EdgeCaseKind string

const (
	EdgeIllegalContent   EdgeCaseKind = "illegal_content"
	EdgeInsufficientData EdgeCaseKind = "insufficient_data"
	EdgeAmbiguousModel   EdgeCaseKind = "ambiguous_model"
)

type EdgeCase struct {
	Kind     EdgeCaseKind `json:"kind"`
	Message  string       `json:"message"`
	Guidance []string     `json:"guidance,omitempty"`
}

type Tier string

const (
	TierFeatureGroup    Tier = "feature_group"
	TierSimplifiedModel Tier = "simplified_model"
	TierRuleBased       Tier = "rule_based"
)

type TierAttempt struct {
	Tier     Tier   `json:"tier"`
	Overall  int    `json:"overall"`
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`
}

// FallbackMeta tags a result produced by a recovery tier.
type FallbackMeta struct {
	Tier     Tier          `json:"tier"`
	Error    string        `json:"error"`
	Attempts []TierAttempt `json:"attempts"`
}

type Meta struct {
	RunID         string                      `json:"run_id"`
	StartedAt     time.Time                   `json:"started_at"`
	Duration      time.Duration               `json:"duration"`
	BusinessModel archetype.Classification    `json:"business_model"`
	Hybrids       []composite.Hybrid          `json:"hybrids,omitempty"`
	Uncertainty   *composite.Uncertainty      `json:"uncertainty,omitempty"`
	DNA           dna.BusinessDNA             `json:"dna"`
	Strategy      string                      `json:"strategy"`
	Weighting     scoring.StrategyDescription `json:"weighting"`
	Market        market.Intelligence         `json:"market"`
	Reasoning     string                      `json:"reasoning"`
	KillFlags     []string                    `json:"kill_flags,omitempty"`
	Thresholds    scoring.Thresholds          `json:"thresholds"`
	Fallback      *FallbackMeta               `json:"fallback,omitempty"`
	Consensus     *consensus.Outcome          `json:"consensus,omitempty"`
	FalsePositive *falsepositive.Report       `json:"false_positive,omitempty"`
	EdgeCase      *EdgeCase                   `json:"edge_case,omitempty"`
	Issues        []pivot.Issue               `json:"pivot_issues,omitempty"`
}

type Result struct {
	Status       scoring.Status         `json:"status"`
	Scores       scoring.ComputedScores `json:"scores"`
	Highlights   []string               `json:"highlights"`
	Risks        []string               `json:"risks"`
	TargetMarket string                 `json:"target_market"`
	ValueProp    string                 `json:"value_prop"`
	Pivots       []pivot.Pivot          `json:"pivots,omitempty"`
	Meta         Meta                   `json:"meta"`
}

// ClassificationError is raised by a strategy that cannot work with the
// detected business model. The orchestrator always recovers from it.
type ClassificationError struct {
	Type       archetype.Type
	Confidence float64
	Reason     string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification %s (confidence %.2f): %s", e.Type, e.Confidence, e.Reason)
}

type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string { return fmt.Sprintf("%s strategy: %v", e.Strategy, e.Err) }
func (e *StrategyError) Unwrap() error { return e.Err }
