package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount as a string like "$1,234.50".
// Uses comma as thousands separator and always two decimals, matching the report cells.
func FormatMoney(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	if neg {
		amount = amount.Neg()
	}

	s := amount.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + $
	b.Grow(len(s) + len(intPart)/3 + 2)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	if rem > len(intPart) {
		rem = len(intPart)
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(frac)

	return b.String()
}
