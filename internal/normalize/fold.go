// Package normalize provides Unicode-aware text comparison for catalog search.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s in composed normal form with Unicode case folding applied.
// "ОНЕГИН" and "онегин" fold to the same string.
func Fold(s string) string {
	if s == "" {
		return s
	}
	// Casers carry state; one per call keeps Fold safe for concurrent use.
	return cases.Fold().String(norm.NFC.String(s))
}

// ContainsFold reports whether sub occurs in s, ignoring case.
// An empty sub is contained in every string.
func ContainsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(Fold(s), Fold(sub))
}

// EqualFold reports whether a and b are equal, ignoring case.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
