// Package money formats decimal amounts for display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR renders an amount as rupees with Indian digit grouping and two
// decimal places: 1234567.8 → "₹12,34,567.80". The last three integer digits
// form one group, every group before it has two digits.
func FormatINR(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.Grow(len(s) + len(intPart)/2 + 4)
	if neg {
		b.WriteString("-")
	}
	b.WriteString("₹")

	if len(intPart) <= 3 {
		b.WriteString(intPart)
	} else {
		head := intPart[:len(intPart)-3]
		// Group the head into pairs from the right.
		rem := len(head) % 2
		if rem == 1 {
			b.WriteString(head[:1])
			head = head[1:]
			b.WriteByte(',')
		}
		for i := 0; i < len(head); i += 2 {
			b.WriteString(head[i : i+2])
			b.WriteByte(',')
		}
		b.WriteString(intPart[len(intPart)-3:])
	}

	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
