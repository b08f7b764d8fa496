package validators

import "strings"

// NormalizeCPF strips punctuation and returns the 11 digits, or "" when the
// number is not a valid CPF.
func NormalizeCPF(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == ' ':
		default:
			return ""
		}
	}

	digits := b.String()
	if !IsCPF(digits) {
		return ""
	}
	return digits
}

// IsCPF checks length and both check digits of an unformatted CPF.
func IsCPF(digits string) bool {
	if len(digits) != 11 {
		return false
	}

	allSame := true
	for i := 0; i < 11; i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
		if digits[i] != digits[0] {
			allSame = false
		}
	}
	if allSame {
		return false
	}

	return checkDigit(digits[:9]) == int(digits[9]-'0') &&
		checkDigit(digits[:10]) == int(digits[10]-'0')
}

func checkDigit(prefix string) int {
	sum := 0
	weight := len(prefix) + 1
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * weight
		weight--
	}

	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}
