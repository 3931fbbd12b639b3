// Package lexical scores free text against weighted indicator patterns and
// returns the evidence trail behind every score.
package lexical

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is one weighted indicator. Literal patterns match as
// case-insensitive substrings; Regex patterns are compiled with (?i).
type Pattern struct {
	Expr   string  `yaml:"pattern" json:"pattern"`
	Regex  bool    `yaml:"regex,omitempty" json:"regex,omitempty"`
	Weight float64 `yaml:"weight" json:"weight"`
	Reason string  `yaml:"reason,omitempty" json:"reason,omitempty"`
	Label  string  `yaml:"label,omitempty" json:"label,omitempty"`

	re *regexp.Regexp
}

type Evidence struct {
	Label  string  `json:"label,omitempty"`
	Match  string  `json:"match"`
	Weight float64 `json:"weight"`
	Reason string  `json:"reason,omitempty"`
}

// Set is a compiled, read-only list of patterns. Safe for concurrent use.
type Set struct {
	patterns []Pattern
}

func Lit(expr string, weight float64, reason string) Pattern {
	return Pattern{Expr: strings.ToLower(expr), Weight: weight, Reason: reason}
}

func Re(expr string, weight float64, reason string) Pattern {
	return Pattern{Expr: expr, Regex: true, Weight: weight, Reason: reason}
}

// Labeled returns a copy of p carrying label.
func (p Pattern) Labeled(label string) Pattern {
	p.Label = label
	return p
}

func Compile(ps []Pattern) (*Set, error) {
	out := make([]Pattern, 0, len(ps))
	for i, p := range ps {
		if strings.TrimSpace(p.Expr) == "" {
			return nil, fmt.Errorf("pattern %d: empty expression", i)
		}
		if p.Regex {
			re, err := regexp.Compile("(?i)" + p.Expr)
			if err != nil {
				return nil, fmt.Errorf("pattern %d (%s): %w", i, p.Expr, err)
			}
			p.re = re
		} else {
			p.Expr = strings.ToLower(p.Expr)
		}
		out = append(out, p)
	}
	return &Set{patterns: out}, nil
}

// MustCompile is for package-level tables built at init.
func MustCompile(ps ...Pattern) *Set {
	s, err := Compile(ps)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}

// Score sums the weight of every matching pattern. Each pattern counts
// once regardless of how often it occurs.
func (s *Set) Score(text string) (float64, []Evidence) {
	if s == nil || text == "" {
		return 0, nil
	}
	lower := strings.ToLower(text)
	total := 0.0
	var ev []Evidence
	for _, p := range s.patterns {
		match, ok := p.match(lower)
		if !ok {
			continue
		}
		total += p.Weight
		ev = append(ev, Evidence{Label: p.Label, Match: match, Weight: p.Weight, Reason: p.Reason})
	}
	return total, ev
}

// Matches reports whether any pattern in the set matches text.
func (s *Set) Matches(text string) (Evidence, bool) {
	if s == nil {
		return Evidence{}, false
	}
	lower := strings.ToLower(text)
	for _, p := range s.patterns {
		if match, ok := p.match(lower); ok {
			return Evidence{Label: p.Label, Match: match, Weight: p.Weight, Reason: p.Reason}, true
		}
	}
	return Evidence{}, false
}

func (p Pattern) match(lower string) (string, bool) {
	if p.re != nil {
		m := p.re.FindString(lower)
		return m, m != ""
	}
	if strings.Contains(lower, p.Expr) {
		return p.Expr, true
	}
	return "", false
}

// ContainsAny reports whether lowercased text contains any of words.
func ContainsAny(text string, words ...string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// CountAny counts how many distinct words occur in text.
func CountAny(text string, words ...string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}

// Normalize lowercases and collapses whitespace.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
