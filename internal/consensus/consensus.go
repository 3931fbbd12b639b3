// Package consensus reconciles several normalised signals into one bounded
// score and keeps computed scores inside their ranges.
package consensus

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

const (
	WeightTolerance    = 1e-6
	DefaultReliability = 0.8
	MinReliability     = 0.2
	MaxReliability     = 1.0
	agreementSpread    = 0.5
)

type ProviderResult struct {
	Provider string  `json:"provider"`
	Score    float64 `json:"score"`
}

// Calibration maps a provider's raw score range onto [0,1].
type Calibration struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Reliability float64 `json:"reliability"`
}

type Outcome struct {
	FinalScore              float64            `json:"final_score"`
	ProviderAgreement       float64            `json:"provider_agreement"`
	MathematicalConsistency bool               `json:"mathematical_consistency"`
	ConfidenceBounds        [2]float64         `json:"confidence_bounds"`
	Normalized              map[string]float64 `json:"normalized"`
}

// ConsistencyViolation means the configured weights do not sum to 1. It is a
// configuration defect and is never clamped away.
type ConsistencyViolation struct {
	Sum float64
}

func (e *ConsistencyViolation) Error() string {
	return fmt.Sprintf("consensus weights sum to %.9f, want 1.0", e.Sum)
}

type Engine struct {
	calibrations map[string]Calibration
}

func New(calibrations map[string]Calibration) *Engine {
	c := make(map[string]Calibration, len(calibrations))
	for k, v := range calibrations {
		c[k] = v
	}
	return &Engine{calibrations: c}
}

var defaultEngine = New(nil)

// EnsureConsistency uses uncalibrated providers with scores assumed in [0,1].
func EnsureConsistency(results []ProviderResult, weights map[string]float64) (Outcome, error) {
	return defaultEngine.EnsureConsistency(results, weights)
}

func (e *Engine) EnsureConsistency(results []ProviderResult, weights map[string]float64) (Outcome, error) {
	if err := CheckWeights(weights); err != nil {
		return Outcome{}, err
	}
	out := Outcome{Normalized: make(map[string]float64, len(results))}
	if len(results) == 0 {
		out.MathematicalConsistency = true
		return out, nil
	}

	norms := make([]float64, 0, len(results))
	minRel := MaxReliability
	final := 0.0
	for _, r := range results {
		cal := e.calibration(r.Provider)
		n := cal.normalize(r.Score)
		out.Normalized[r.Provider] = n
		norms = append(norms, n)
		final += n * weights[r.Provider] * cal.Reliability
		if cal.Reliability < minRel {
			minRel = cal.Reliability
		}
	}
	out.FinalScore = clamp01(final)

	sd, err := stats.StandardDeviation(norms)
	if err != nil {
		return Outcome{}, fmt.Errorf("agreement: %w", err)
	}
	out.ProviderAgreement = clamp01(1 - sd/agreementSpread)

	lo, _ := stats.Min(norms)
	hi, _ := stats.Max(norms)
	out.ConfidenceBounds = [2]float64{lo, hi}
	out.MathematicalConsistency = out.FinalScore >= lo*minRel-WeightTolerance && out.FinalScore <= hi+WeightTolerance
	return out, nil
}

// CheckWeights enforces that weights sum to exactly 1 within tolerance.
func CheckWeights(weights map[string]float64) error {
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sum := 0.0
	for _, k := range keys {
		sum += weights[k]
	}
	if math.IsNaN(sum) || math.Abs(sum-1) > WeightTolerance {
		return &ConsistencyViolation{Sum: sum}
	}
	return nil
}

func (e *Engine) calibration(provider string) Calibration {
	c, ok := e.calibrations[provider]
	if !ok {
		c = Calibration{Min: 0, Max: 1, Reliability: DefaultReliability}
	}
	if c.Reliability == 0 {
		c.Reliability = DefaultReliability
	}
	c.Reliability = math.Max(MinReliability, math.Min(MaxReliability, c.Reliability))
	return c
}

func (c Calibration) normalize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if c.Max <= c.Min {
		return clamp01(v)
	}
	return clamp01((v - c.Min) / (c.Max - c.Min))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
