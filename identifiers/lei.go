package identifiers

import "strings"

// ValidateLEI checks the shape of a Legal Entity Identifier: exactly 20
// alphanumeric characters after trimming and upper-casing. The ISO/IEC
// 7064 MOD 97-10 check digits are not verified.
func ValidateLEI(lei string) bool {
	lei = strings.ToUpper(strings.TrimSpace(lei))
	if len(lei) != 20 {
		return false
	}
	for _, r := range lei {
		if !isAlphaNumeric(r) {
			return false
		}
	}
	return true
}

// mod97 computes the numeric string's value modulo 97 without
// overflowing machine integers, processing digit by digit.
func mod97(digits string) int {
	rem := 0
	for _, r := range digits {
		rem = (rem*10 + int(r-'0')) % 97
	}
	return rem
}
