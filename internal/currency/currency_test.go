package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := map[int64]string{
		0:         "0 IQD",
		999:       "999 IQD",
		1000:      "1,000 IQD",
		7000:      "7,000 IQD",
		1234567:   "1,234,567 IQD",
		-25000:    "-25,000 IQD",
		100000000: "100,000,000 IQD",
	}
	for amount, want := range cases {
		assert.Equal(t, want, Format(amount), "amount %d", amount)
	}
}

func TestFormatDecimalRounds(t *testing.T) {
	assert.Equal(t, "12,346 IQD", FormatDecimal(decimal.RequireFromString("12345.6")))
	assert.Equal(t, "5,000 USD", FormatCode(5000, "USD"))
}
