package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSpaces   = regexp.MustCompile(`\s+`)
	deaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Fold normalizes a string for matching: lowercase with diacritics stripped.
// The same fold is applied to stored fields and to queries, so "Ración" is
// found by both "racion" and "ó".
func Fold(input string) string {
	s, _, err := transform.String(deaccenter, input)
	if err != nil {
		s = input
	}
	return strings.ToLower(s)
}

// NormalizeSpaces collapses runs of whitespace and trims the ends.
func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}
