package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"7", "₹7.00"},
		{"999.5", "₹999.50"},
		{"1234", "₹1,234.00"},
		{"99999", "₹99,999.00"},
		{"123456.78", "₹1,23,456.78"},
		{"1234567.8", "₹12,34,567.80"},
		{"12345678", "₹1,23,45,678.00"},
		{"-1234", "-₹1,234.00"},
		{"2500.999", "₹2,501.00"},
	}
	for _, tc := range cases {
		got := FormatINR(decimal.RequireFromString(tc.in))
		assert.Equal(t, tc.want, got, "input %s", tc.in)
	}
}
