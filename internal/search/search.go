// Package search matches user queries against names without regard to case.
package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of s.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Contains reports whether query occurs in s after Unicode case folding.
// An empty query matches everything.
func Contains(s, query string) bool {
	return strings.Contains(Fold(s), Fold(strings.TrimSpace(query)))
}

// Equal reports whether a and b are equal after trimming and case folding.
func Equal(a, b string) bool {
	return Fold(strings.TrimSpace(a)) == Fold(strings.TrimSpace(b))
}
