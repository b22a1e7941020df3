package service

import (
	"strings"
	"unicode"

	"github.com/dorada-store/internal/constants"
)

// sanitizeText trims and caps free text at limit runes.
func sanitizeText(raw string, limit int) string {
	value := strings.TrimSpace(raw)
	if limit <= 0 {
		limit = constants.MaxCustomerFieldLength
	}
	runes := []rune(value)
	if len(runes) > limit {
		value = strings.TrimSpace(string(runes[:limit]))
	}
	return value
}

// NormalizePhone validates a phone number under policy and returns the
// stored form.
//
// iraqi: separators and a +964, 964 or 0 prefix are dropped; the rest must
// be a 10 digit mobile number starting with 7. Stored as +9647XXXXXXXXX.
// generic: whitespace is dropped; 10 to 15 digits with an optional +.
func NormalizePhone(raw, policy string) (string, bool) {
	if policy == constants.PhonePolicyGeneric {
		return normalizeGenericPhone(raw)
	}
	return normalizeIraqiPhone(raw)
}

func normalizeIraqiPhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r == '+' || r == '-' || r == '(' || r == ')' || r == '.' || unicode.IsSpace(r):
		default:
			return "", false
		}
	}
	digits := b.String()
	digits = strings.TrimPrefix(digits, "00")
	digits = strings.TrimPrefix(digits, constants.IraqCountryCode)
	digits = strings.TrimPrefix(digits, "0")
	if len(digits) != 10 || digits[0] != '7' {
		return "", false
	}
	return "+" + constants.IraqCountryCode + digits, true
}

// normalizeGenericPhone keeps 10 to 15 ASCII digits once whitespace is gone.
// Anything else, a leading + included, is rejected.
func normalizeGenericPhone(raw string) (string, bool) {
	digits := strings.Join(strings.Fields(raw), "")
	if len(digits) < 10 || len(digits) > 15 {
		return "", false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return digits, true
}

func normalizeSKU(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
