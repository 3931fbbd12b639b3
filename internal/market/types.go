// Package market supplies market intelligence for an idea: an internal
// per-industry dataset, an optional external research provider bounded by
// a hard timeout, and a competitive-density overlay for crowded categories.
package market

import (
	"context"
	"fmt"
	"math"
)

const (
	SourceProvider = "provider"
	SourceInternal = "internal"
	SourceFallback = "fallback"
)

type Intelligence struct {
	TAMUSD                        float64  `json:"tam_usd"`
	GrowthRate                    float64  `json:"growth_rate"`
	CompetitionLevel              float64  `json:"competition_level"`
	KeyTrends                     []string `json:"key_trends,omitempty"`
	RegulatoryBarriers            []string `json:"regulatory_barriers,omitempty"`
	TypicalMargins                float64  `json:"typical_margins"`
	CustomerAcquisitionDifficulty float64  `json:"customer_acquisition_difficulty"`
	Confidence                    float64  `json:"confidence"`
	NotableCompetitors            []string `json:"notable_competitors,omitempty"`
	Source                        string   `json:"source"`
	SaturationCategory            string   `json:"saturation_category,omitempty"`
	Saturation                    float64  `json:"saturation,omitempty"`
}

// Request is what a Provider is asked to research.
type Request struct {
	IdeaText      string `json:"idea_text"`
	Industry      string `json:"industry"`
	SubIndustry   string `json:"sub_industry"`
	BusinessModel string `json:"business_model"`
	CustomerType  string `json:"customer_type"`
	Scale         string `json:"scale"`
}

type Provider interface {
	Research(ctx context.Context, req Request) (Intelligence, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("market provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Validate rejects provider output outside plausible bounds.
func (mi Intelligence) Validate() error {
	switch {
	case !finite(mi.TAMUSD, mi.GrowthRate, mi.CompetitionLevel, mi.TypicalMargins, mi.CustomerAcquisitionDifficulty, mi.Confidence):
		return fmt.Errorf("non-finite field")
	case mi.TAMUSD <= 0 || mi.TAMUSD > 1e14:
		return fmt.Errorf("tam_usd out of range: %v", mi.TAMUSD)
	case mi.GrowthRate < -0.5 || mi.GrowthRate > 2:
		return fmt.Errorf("growth_rate out of range: %v", mi.GrowthRate)
	case mi.CompetitionLevel < 0 || mi.CompetitionLevel > 10:
		return fmt.Errorf("competition_level out of range: %v", mi.CompetitionLevel)
	case mi.CustomerAcquisitionDifficulty < 0 || mi.CustomerAcquisitionDifficulty > 10:
		return fmt.Errorf("customer_acquisition_difficulty out of range: %v", mi.CustomerAcquisitionDifficulty)
	case mi.TypicalMargins < -1 || mi.TypicalMargins > 1:
		return fmt.Errorf("typical_margins out of range: %v", mi.TypicalMargins)
	case mi.Confidence < 0 || mi.Confidence > 1:
		return fmt.Errorf("confidence out of range: %v", mi.Confidence)
	}
	return nil
}

func (mi Intelligence) clone() Intelligence {
	mi.KeyTrends = append([]string(nil), mi.KeyTrends...)
	mi.RegulatoryBarriers = append([]string(nil), mi.RegulatoryBarriers...)
	mi.NotableCompetitors = append([]string(nil), mi.NotableCompetitors...)
	return mi
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
