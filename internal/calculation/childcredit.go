package calculation

import "github.com/shopspring/decimal"

const (
	childCreditOne      = 12500
	childCreditTwo      = 29160
	childCreditPerExtra = 25000
)

// ChildCredit returns the monthly income tax credit for children aged 8 to 20.
// Negative counts are treated as zero.
func ChildCredit(qualifyingChildren int) decimal.Decimal {
	switch {
	case qualifyingChildren <= 0:
		return decimal.Zero
	case qualifyingChildren == 1:
		return decimal.NewFromInt(childCreditOne)
	case qualifyingChildren == 2:
		return decimal.NewFromInt(childCreditTwo)
	default:
		extra := decimal.NewFromInt(int64(qualifyingChildren - 2))
		return decimal.NewFromInt(childCreditTwo).Add(extra.Mul(decimal.NewFromInt(childCreditPerExtra)))
	}
}
