package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeKeyword canonicalizes a search keyword: surrounding whitespace is
// trimmed, inner whitespace runs collapse to one space, and the text is
// lower-cased. "  Flood   Cleanup " and "flood cleanup" are the same keyword.
func NormalizeKeyword(keyword string) string {
	return cases.Lower(language.Und).String(strings.Join(strings.Fields(keyword), " "))
}

// NormalizeKeywords normalizes every keyword, drops empty ones and removes
// duplicates while keeping first-seen order.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		n := NormalizeKeyword(kw)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
