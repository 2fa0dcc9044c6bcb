// Package sanitizer normalizes user-supplied strings before validation and
// storage. All functions are idempotent and never return errors; invalid
// input degrades to an empty string.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize collapses internal whitespace runs to a single space and
// trims the ends.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeSubject cleans a subject name for storage and filter comparison.
// Matching stays case-insensitive downstream; the stored form keeps its case.
func NormalizeSubject(subject string) string {
	return TrimAndNormalize(subject)
}

// NormalizeToken lowercases a short enum-like value (board, class, mode).
func NormalizeToken(s string) string {
	return strings.ToLower(TrimAndNormalize(s))
}

// NormalizeSlice normalizes each element, dropping empties and duplicates
// while preserving first-seen order.
func NormalizeSlice(values []string, normalize func(string) string) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := normalize(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
