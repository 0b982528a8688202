// Package sanitize cleans free text typed by website visitors before it is
// parsed or logged.
package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	htmlTag    = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// StripHTML removes tags, including tags hidden behind HTML entities, and
// trims the result.
func StripHTML(s string) string {
	s = htmlTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = htmlTag.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Text prepares a single-line value such as an address: HTML and control
// characters are dropped, the text is NFC-composed and whitespace runs
// collapse to one space.
func Text(s string) string {
	s = norm.NFC.String(StripHTML(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
