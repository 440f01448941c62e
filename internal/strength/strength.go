// Package strength scores candidate strings on a 0-100 complexity
// scale and implements the full/strong acceptance policy. Scoring is
// deterministic, so for a fixed candidate a higher threshold can only
// move acceptance in one direction.
package strength

import (
	"math"
	"strings"
	"unicode"
)

// DefaultThreshold is the strong-mode acceptance cutoff.
const DefaultThreshold = 60

// Weak substrings penalized regardless of position.
var (
	sequentialFragments = []string{"abc", "123", "qwe"}
	commonWords         = []string{"password", "admin", "user", "test"}
)

// Entropy returns the total Shannon entropy of s in bits: the per-
// character entropy of the observed character distribution multiplied
// by the length.
func Entropy(s string) float64 {
	if s == "" {
		return 0
	}
	counts := make(map[rune]int)
	length := 0
	for _, r := range s {
		counts[r]++
		length++
	}
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / float64(length)
		entropy -= p * math.Log2(p)
	}
	return entropy * float64(length)
}

// Score computes the complexity score of a candidate, clamped to
// [0,100]: a length bucket saturating at 20 characters, +10 per
// character class present, a capped entropy bonus, and penalties for
// repeated runs, sequential fragments and common weak words.
func Score(candidate string) float64 {
	if candidate == "" {
		return 0
	}
	length := len([]rune(candidate))
	score := 0.0

	switch {
	case length >= 20:
		score += 30
	case length >= 16:
		score += 25
	case length >= 12:
		score += 20
	case length >= 8:
		score += 15
	default:
		score += float64(length) * 1.5
	}

	var hasLower, hasUpper, hasDigit, hasOther bool
	for _, r := range candidate {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasOther = true
		}
	}
	for _, present := range []bool{hasLower, hasUpper, hasDigit, hasOther} {
		if present {
			score += 10
		}
	}

	score += math.Min(30, Entropy(candidate)/6.0*30)

	if hasRepeatRun(candidate, 3) {
		score -= 15
	}
	lower := strings.ToLower(candidate)
	if containsAny(lower, sequentialFragments) {
		score -= 10
	}
	if containsAny(lower, commonWords) {
		score -= 20
	}

	return math.Max(0, math.Min(100, score))
}

// Level maps a score to its categorical strength label.
func Level(score float64) string {
	switch {
	case score >= 90:
		return "EXCEPTIONAL"
	case score >= 80:
		return "VERY_STRONG"
	case score >= 70:
		return "STRONG"
	case score >= 60:
		return "GOOD"
	case score >= 40:
		return "MODERATE"
	case score >= 20:
		return "WEAK"
	default:
		return "VERY_WEAK"
	}
}

// Filter is the acceptance policy applied after deduplication.
// Rejection is terminal for a candidate; the engine never retries it
// in altered form.
type Filter struct {
	strong    bool
	threshold float64
}

// NewFilter builds a filter. mode "strong" enables threshold scoring;
// anything else accepts every candidate.
func NewFilter(mode string, threshold float64) Filter {
	return Filter{strong: mode == "strong", threshold: threshold}
}

// Accept reports whether the candidate passes the policy.
func (f Filter) Accept(candidate string) bool {
	if !f.strong {
		return true
	}
	return Score(candidate) >= f.threshold
}

// hasRepeatRun reports whether candidate contains n or more identical
// consecutive runes.
func hasRepeatRun(candidate string, n int) bool {
	var prev rune
	run := 0
	for i, r := range candidate {
		if i > 0 && r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
