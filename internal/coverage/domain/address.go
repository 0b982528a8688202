package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// addressPattern captures the shortest leading street segment followed by
// whitespace and the first run of digits. Anything after the number is ignored.
var addressPattern = regexp.MustCompile(`^(.*?)\s+(\d+)`)

// ParsedAddress is a street name and house number extracted from free text.
type ParsedAddress struct {
	Street string
	Number int
}

// Label renders the address the way the user typed it, e.g. "San Martín 550".
func (a ParsedAddress) Label() string {
	return a.Street + " " + strconv.Itoa(a.Number)
}

// ParseAddress splits free text such as "San Martín 550" into street and
// number. It reports false for empty input, input without a number preceded
// by whitespace, or a number that is not a positive int.
func ParseAddress(raw string) (ParsedAddress, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ParsedAddress{}, false
	}

	match := addressPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return ParsedAddress{}, false
	}

	street := strings.TrimSpace(match[1])
	if street == "" {
		return ParsedAddress{}, false
	}

	number, err := strconv.Atoi(match[2])
	if err != nil || number <= 0 {
		return ParsedAddress{}, false
	}

	return ParsedAddress{Street: street, Number: number}, true
}
