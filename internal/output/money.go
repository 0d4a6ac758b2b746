package output

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatWon renders a won amount with thousands separators, truncated to whole won:
// 3333333.33 → "3,333,333".
func FormatWon(amount decimal.Decimal) string {
	s := amount.Truncate(0).String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	sb.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		sb.WriteByte(',')
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

// FormatWonUnit is FormatWon followed by the 원 unit.
func FormatWonUnit(amount decimal.Decimal) string {
	return FormatWon(amount) + "원"
}

// FormatPercentage formats a fraction as a percentage: 0.0475 → "4.75%".
func FormatPercentage(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
