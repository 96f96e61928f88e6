package trend

import (
	"regexp"
	"strings"
)

var (
	// digits, optional "." or "," separator, optional digits
	numberRe = regexp.MustCompile(`\d+[.,]?\d*`)
	// full month names first so "March 2024" is not cut down to "Mar"
	dateRe = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+\d{4}\b`)
)

// MatchNumber returns the first numeric token of s. Separators are kept as
// written; the value is advisory text and is never parsed.
func MatchNumber(s string) (string, bool) {
	m := numberRe.FindString(s)
	return m, m != ""
}

// MatchDate returns the first "MonthName YYYY" token of s, accepting full
// month names and three-letter abbreviations.
func MatchDate(s string) (string, bool) {
	m := dateRe.FindString(s)
	return m, m != ""
}

// HasKeyword reports whether s contains any trend, supply or factor keyword,
// compared case-insensitively as substrings.
func HasKeyword(s string) bool {
	lower := strings.ToLower(s)
	return containsAny(lower, TrendKeywords) || containsAny(lower, SupplyKeywords) || containsAny(lower, FactorKeywords)
}

// Direction classifies the movement implied by s. Up words are checked
// first, so a sentence with both up and down vocabulary reads as Up.
func Direction(s string) Directionality {
	lower := strings.ToLower(s)
	switch {
	case containsAny(lower, upWords):
		return Up
	case containsAny(lower, downWords):
		return Down
	default:
		return None
	}
}

// Drivers lists the supply and factor keywords present in s, in keyword-set
// order and without repeats.
func Drivers(s string) []string {
	lower := strings.ToLower(s)
	var out []string
	for _, set := range [][]string{SupplyKeywords, FactorKeywords} {
		for _, k := range set {
			if strings.Contains(lower, k) {
				out = append(out, k)
			}
		}
	}
	return out
}

// Mentions reports whether s names product, ignoring case.
func Mentions(s, product string) bool {
	if product == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(product))
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
