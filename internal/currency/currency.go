// Package currency formats whole-unit amounts with Western digits.
package currency

import (
	"strconv"
	"strings"

	"github.com/dorada-store/internal/constants"

	"github.com/shopspring/decimal"
)

// Format renders 1234567 as "1,234,567 IQD".
func Format(amount int64) string {
	return FormatCode(amount, constants.CurrencyIQD)
}

// FormatCode renders the amount with an explicit currency code.
func FormatCode(amount int64, code string) string {
	return group(amount) + " " + code
}

// FormatDecimal rounds to whole units before formatting.
func FormatDecimal(amount decimal.Decimal) string {
	return Format(amount.Round(0).IntPart())
}

func group(amount int64) string {
	negative := amount < 0
	digits := strconv.FormatInt(amount, 10)
	if negative {
		digits = digits[1:]
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
