package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "$0.00",
		"6":          "$6.00",
		"2.5":        "$2.50",
		"999.999":    "$1,000.00",
		"1234.5":     "$1,234.50",
		"1234567.89": "$1,234,567.89",
		"-15.5":      "-$15.50",
		"100000":     "$100,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMoney(decimal.RequireFromString(in)), in)
	}
}
