package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented runes and drops the combining marks, so
// "Martín" and "Martin" compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var punctuationReplacer = strings.NewReplacer(".", "", ",", "")

// NormalizeStreet returns the canonical form of a street name used for all
// comparisons: no diacritics, lowercase, no periods or commas, trimmed.
// NormalizeStreet(NormalizeStreet(s)) == NormalizeStreet(s).
func NormalizeStreet(s string) string {
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		stripped = s
	}
	stripped = strings.ToLower(stripped)
	stripped = punctuationReplacer.Replace(stripped)
	return strings.TrimSpace(stripped)
}

// tokenize splits a normalized street into whitespace separated tokens,
// keeping only tokens of at least two runes.
func tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
