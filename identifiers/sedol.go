package identifiers

import "strings"

// sedolVowels are the letters that never appear in a SEDOL. Every other
// letter takes its base-36 value: B=11, C=12, ..., Z=35.
const sedolVowels = "AEIOU"

var sedolWeights = [6]int{1, 3, 1, 7, 3, 9}

// ValidateSEDOL checks a 7-character SEDOL: 6 payload characters
// (digits or vowel-free letters) plus a modulus-10 weighted check digit.
func ValidateSEDOL(sedol string) bool {
	sedol = strings.ToUpper(strings.TrimSpace(sedol))
	if len(sedol) != 7 {
		return false
	}
	sum := 0
	for i := 0; i < 6; i++ {
		v, ok := sedolCharValue(rune(sedol[i]))
		if !ok {
			return false
		}
		sum += v * sedolWeights[i]
	}
	check := (10 - (sum % 10)) % 10
	last := sedol[6]
	if last < '0' || last > '9' {
		return false
	}
	return int(last-'0') == check
}

func sedolCharValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if r < 'A' || r > 'Z' || strings.ContainsRune(sedolVowels, r) {
		return 0, false
	}
	return int(r-'A') + 10, true
}
