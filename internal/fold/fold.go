// Package fold turns display names into comparison keys.
//
// Two names are the same item, scene label or action when their keys are
// equal: case is folded, combining marks are stripped (so "ё" and "е" or
// "Lada" and "Ladá" collide) and runs of whitespace collapse to one space.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key returns the folded comparison key for s.
func Key(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(stripped)), " ")
}

// Equal reports whether a and b fold to the same key.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
