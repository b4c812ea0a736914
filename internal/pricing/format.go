package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR renders an amount the way the storefront displays it, using
// Indian digit grouping: FormatINR(1234567) == "₹12,34,567".
func FormatINR(d decimal.Decimal) string {
	return formatWithSymbol(d, "₹")
}

// FormatRs is FormatINR for outputs limited to Latin-1, such as PDF core
// fonts: FormatRs(1197) == "Rs. 1,197".
func FormatRs(d decimal.Decimal) string {
	return formatWithSymbol(d, "Rs. ")
}

func formatWithSymbol(d decimal.Decimal, symbol string) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(CurrencyPlaces)

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	b.WriteString(groupIndian(intPart))
	b.WriteString(frac)
	return b.String()
}

// groupIndian groups the last three digits, then pairs: 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}
