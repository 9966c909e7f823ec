// Package contact extracts normalized email addresses and phone numbers from
// free-text contact blobs.
package contact

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

	// Russian-format phone: optional 7/8/+7 marker, then 3-3-2-2 digit groups
	// separated by any mix of spaces, hyphens, and parentheses.
	phoneRe = regexp.MustCompile(`(\+?[78])?[\s\-(]*(\d{3})[\s\-)]*(\d{3})[\s\-]*(\d{2})[\s\-]*(\d{2})`)
)

// ExtractEmail returns the first email-looking substring, lower-cased.
// Only the pattern is checked; this is not a full address validator.
func ExtractEmail(text string) (string, bool) {
	m := emailRe.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.ToLower(m), true
}

// ExtractPhone returns the first phone-looking substring normalized to
// +7XXXXXXXXXX form. Only the first match is considered.
func ExtractPhone(text string) (string, bool) {
	m := phoneRe.FindString(text)
	if m == "" {
		return "", false
	}

	var digits strings.Builder
	for _, r := range m {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return normalizeDigits(digits.String()), true
}

// normalizeDigits applies the country-code rules in order: a leading 8 on an
// 11-digit number becomes 7, a 10-digit number gets 7 prepended, and any
// number starting with 7 gets the + prefix. Anything else passes through
// unchanged.
func normalizeDigits(d string) string {
	if len(d) == 11 && strings.HasPrefix(d, "8") {
		d = "7" + d[1:]
	}
	if len(d) == 10 {
		d = "7" + d
	}
	if strings.HasPrefix(d, "7") {
		return "+" + d
	}
	return d
}
