package calculation

import "github.com/shopspring/decimal"

var (
	ten      = decimal.NewFromInt(10)
	thousand = decimal.NewFromInt(1000)
)

// residuePlaces absorbs the repeating tail left by annual/12 before flooring. Any exact
// line amount lies at least 1/1,200,000 won away from the next multiple of ten.
const residuePlaces = 8

// Truncate10 floors a non-negative won amount to a multiple of 10. Amounts are taken at
// 8 decimal places: digits beyond that are rounded before flooring, so 9.99999999 floors
// to 0 while 9.999999999 floors to 10.
func Truncate10(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(residuePlaces).Div(ten).Floor().Mul(ten)
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
