// Package phone normalizes raw phone input into a canonical dialable form.
package phone

import "strings"

const (
	countryCallingCode = "7"
	mobilePrefixDigit  = '9'
	trunkPrefixDigit   = '8'
)

// Normalize converts a raw phone string to a canonical +7-prefixed dialable
// form using Russian numbering heuristics. It is pure and total: input that
// contains no digits at all is returned unchanged rather than rejected.
//
// Priority order:
//  1. 10 digits starting with 9          -> "+7" + digits
//  2. 11 digits starting with 8 (trunk)  -> "+7" + digits[1:]
//  3. 11 digits starting with 7          -> "+" + digits
//  4. raw input already starts with "+"  -> raw unchanged
//  5. anything else                      -> "+" + digits
func Normalize(raw string) string {
	digits := stripNonDigits(raw)
	if digits == "" {
		return raw
	}

	switch {
	case len(digits) == 10 && digits[0] == mobilePrefixDigit:
		return "+" + countryCallingCode + digits
	case len(digits) == 11 && digits[0] == trunkPrefixDigit:
		return "+" + countryCallingCode + digits[1:]
	case len(digits) == 11 && digits[0] == countryCallingCode[0]:
		return "+" + digits
	case strings.HasPrefix(raw, "+"):
		return raw
	default:
		return "+" + digits
	}
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
