package paginate

import "strings"

// KeywordMatcher matches anchors whose href or text contains any keyword,
// ignoring case. With no keywords nothing matches.
func KeywordMatcher(keywords ...string) Matcher {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return func(href, text string) bool {
		h, t := strings.ToLower(href), strings.ToLower(text)
		for _, k := range lowered {
			if strings.Contains(h, k) || strings.Contains(t, k) {
				return true
			}
		}
		return false
	}
}

// PDFMatcher matches hrefs ending in ".pdf". The suffix test is case-sensitive.
func PDFMatcher() Matcher {
	return func(href, _ string) bool {
		return strings.HasSuffix(href, ".pdf")
	}
}
