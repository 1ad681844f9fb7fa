package identifiers

import (
	"strings"
)

// ValidateISIN checks a 12-character ISIN: a 2-letter country prefix, a
// 9-character alphanumeric national security identifier, and a single
// Luhn check digit computed over the digit-expanded alphanumeric string
// (each letter A-Z expands to its base-36 value 10-35).
func ValidateISIN(isin string) bool {
	isin = strings.ToUpper(strings.TrimSpace(isin))
	if len(isin) != 12 {
		return false
	}
	for i, r := range isin {
		if i < 11 {
			if !isAlphaNumeric(r) {
				return false
			}
		} else if r < '0' || r > '9' {
			return false
		}
	}
	expanded := expandAlphaNumeric(isin)
	return luhnValid(expanded)
}

func isAlphaNumeric(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// expandAlphaNumeric replaces each letter with its base-36 numeric value
// (A=10 ... Z=35) and leaves digits untouched, producing the digit string
// the Luhn check runs over.
func expandAlphaNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteString(itoa(int(r-'A') + 10))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

// luhnValid applies the standard Luhn (mod 10) checksum, processed from
// the rightmost digit, doubling every second digit.
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
