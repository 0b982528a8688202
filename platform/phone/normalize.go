// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when the caller does not name a region.
const DefaultRegion = "AR"

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, ok := parseValid(trimmed, region)
	if !ok {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// WhatsAppLink returns a wa.me click-to-chat link for the number, or "" when
// the number is not valid for the region.
func WhatsAppLink(input, region string) string {
	number, ok := parseValid(strings.TrimSpace(input), region)
	if !ok {
		return ""
	}

	e164 := phonenumbers.Format(number, phonenumbers.E164)
	return "https://wa.me/" + strings.TrimPrefix(e164, "+")
}

func parseValid(input, region string) (*phonenumbers.PhoneNumber, bool) {
	if input == "" {
		return nil, false
	}
	if region == "" {
		region = DefaultRegion
	}

	number, err := phonenumbers.Parse(input, strings.ToUpper(region))
	if err != nil {
		return nil, false
	}

	if !phonenumbers.IsValidNumber(number) {
		return nil, false
	}
	return number, true
}
