package scoring

import (
	"fmt"
	"strings"

	"github.com/joelkehle/ideavalidation/internal/dna"
	"github.com/joelkehle/ideavalidation/internal/market"
)

const (
	severeSaturation   = 0.90
	highSaturation     = 0.75
	severeMarketCap    = 2.0
	highMarketCap      = 4.0
	genericFeatureMin  = 2
	differentiationCap = 1.0
)

// applyOverlays runs the reality checks after base scoring and lowers
// dimensions in place.
func applyOverlays(dims map[Dimension]float64, text string, d dna.BusinessDNA) ([]Cap, []string) {
	var caps []Cap
	var notes []string

	if c, ok := market.Saturation(text, d); ok {
		limit := 0.0
		switch {
		case c.Saturation >= severeSaturation:
			limit = severeMarketCap
		case c.Saturation >= highSaturation:
			limit = highMarketCap
		}
		if limit > 0 {
			if cp, capped := capDimension(dims, MarketQuality, limit,
				fmt.Sprintf("%s is ~%.0f%% saturated (%s)", c.Name, c.Saturation*100, strings.Join(c.Competitors, ", "))); capped {
				caps = append(caps, cp)
				notes = append(notes, fmt.Sprintf("Market quality capped at %.0f: %s", limit, cp.Reason))
			}
		}
	}

	if n := genericFeatureCount(text); n >= genericFeatureMin && noveltyHits(text) == 0 {
		if cp, capped := capDimension(dims, Differentiation, differentiationCap,
			fmt.Sprintf("%d generic features and no novelty claim", n)); capped {
			caps = append(caps, cp)
			notes = append(notes, fmt.Sprintf("Differentiation capped at %.0f: features listed are table stakes in this category", differentiationCap))
		}
	}
	return caps, notes
}

func capDimension(dims map[Dimension]float64, dim Dimension, limit float64, reason string) (Cap, bool) {
	v, ok := dims[dim]
	if !ok || v <= limit {
		return Cap{}, false
	}
	dims[dim] = limit
	return Cap{Dimension: dim, Limit: limit, Before: round1(v), Reason: reason}, true
}

var trendStopwords = map[string]bool{"rising": true, "costs": true, "first": true, "based": true, "adoption": true}

func significantWords(s string) []string {
	var out []string
	for _, f := range strings.Fields(strings.ToLower(s)) {
		f = strings.Trim(f, "()/,.-")
		if len(f) >= 5 && !trendStopwords[f] {
			out = append(out, f)
		}
	}
	return out
}
