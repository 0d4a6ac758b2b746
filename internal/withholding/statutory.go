package withholding

import (
	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/shopspring/decimal"
)

var (
	d12           = decimal.NewFromInt(12)
	basicPerHead  = decimal.NewFromInt(1500000)
	earnedDedCap  = decimal.NewFromInt(20000000)
	thousandWon   = decimal.NewFromInt(1000)
	specialExcess = decimal.RequireFromString("0.05")
	largeFamily   = decimal.RequireFromString("0.04")
)

func won(v int64) decimal.Decimal  { return decimal.NewFromInt(v) }
func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// piece is one segment of a piecewise-linear schedule: above From (and up to UpTo, 0 meaning
// unbounded) the value is Base + (x - From) * Rate.
type piece struct {
	UpTo int64
	From int64
	Base int64
	Rate decimal.Decimal
}

func evalPieces(pieces []piece, x decimal.Decimal) decimal.Decimal {
	for _, p := range pieces {
		if p.UpTo == 0 || x.LessThanOrEqual(won(p.UpTo)) {
			return won(p.Base).Add(x.Sub(won(p.From)).Mul(p.Rate))
		}
	}
	return decimal.Zero
}

var earnedIncomeDeduction = []piece{
	{UpTo: 5000000, From: 0, Base: 0, Rate: pct("0.7")},
	{UpTo: 15000000, From: 5000000, Base: 3500000, Rate: pct("0.4")},
	{UpTo: 45000000, From: 15000000, Base: 7500000, Rate: pct("0.15")},
	{UpTo: 100000000, From: 45000000, Base: 12000000, Rate: pct("0.05")},
	{UpTo: 0, From: 100000000, Base: 14750000, Rate: pct("0.02")},
}

// Progressive income tax schedule for 2023 onwards.
var progressiveSchedule = []piece{
	{UpTo: 14000000, From: 0, Base: 0, Rate: pct("0.06")},
	{UpTo: 50000000, From: 14000000, Base: 840000, Rate: pct("0.15")},
	{UpTo: 88000000, From: 50000000, Base: 6240000, Rate: pct("0.24")},
	{UpTo: 150000000, From: 88000000, Base: 15360000, Rate: pct("0.35")},
	{UpTo: 300000000, From: 150000000, Base: 37060000, Rate: pct("0.38")},
	{UpTo: 500000000, From: 300000000, Base: 94060000, Rate: pct("0.40")},
	{UpTo: 1000000000, From: 500000000, Base: 174060000, Rate: pct("0.42")},
	{UpTo: 0, From: 1000000000, Base: 384060000, Rate: pct("0.45")},
}

// EarnedIncomeDeduction returns the deduction from annual gross salary, capped at 20,000,000.
func EarnedIncomeDeduction(salary decimal.Decimal) decimal.Decimal {
	return decimal.Min(evalPieces(earnedIncomeDeduction, salary), earnedDedCap)
}

// ProgressiveTax applies the progressive schedule to a tax base.
func ProgressiveTax(base decimal.Decimal) decimal.Decimal {
	if base.Sign() <= 0 {
		return decimal.Zero
	}
	return evalPieces(progressiveSchedule, base)
}

type specialTier struct {
	base  int64
	rates [4]decimal.Decimal
}

var specialTiers = [3]specialTier{
	{base: 3100000, rates: [4]decimal.Decimal{pct("0.04"), pct("0.04"), pct("0.015"), pct("0.005")}},
	{base: 3600000, rates: [4]decimal.Decimal{pct("0.04"), pct("0.04"), pct("0.02"), pct("0.005")}},
	{base: 5000000, rates: [4]decimal.Decimal{pct("0.07"), pct("0.07"), pct("0.05"), pct("0.03")}},
}

// SpecialDeduction returns the special income deduction for the given dependent count.
// Households of three or more get an extra 4% of salary above 40,000,000.
func SpecialDeduction(salary decimal.Decimal, dependents int) decimal.Decimal {
	tier := specialTiers[min(max(dependents, 1), 3)-1]
	base := won(tier.base)

	var v decimal.Decimal
	switch {
	case salary.LessThanOrEqual(won(30000000)):
		v = base.Add(salary.Mul(tier.rates[0]))
	case salary.LessThanOrEqual(won(45000000)):
		v = base.Add(salary.Mul(tier.rates[1])).Sub(salary.Sub(won(30000000)).Mul(specialExcess))
	case salary.LessThanOrEqual(won(70000000)):
		v = base.Add(salary.Mul(tier.rates[2]))
	default:
		v = base.Add(salary.Mul(tier.rates[3]))
	}
	if dependents >= 3 && salary.GreaterThan(won(40000000)) {
		v = v.Add(salary.Sub(won(40000000)).Mul(largeFamily))
	}
	return v
}

// EarnedIncomeCredit returns the earned income tax credit on computed tax, limited by salary.
func EarnedIncomeCredit(tax, salary decimal.Decimal) decimal.Decimal {
	var credit decimal.Decimal
	if tax.LessThanOrEqual(won(1300000)) {
		credit = tax.Mul(pct("0.55"))
	} else {
		credit = won(715000).Add(tax.Sub(won(1300000)).Mul(pct("0.30")))
	}
	return decimal.Min(credit, creditLimit(salary))
}

func creditLimit(salary decimal.Decimal) decimal.Decimal {
	switch {
	case salary.LessThanOrEqual(won(33000000)):
		return won(740000)
	case salary.LessThanOrEqual(won(70000000)):
		return decimal.Max(won(660000), won(740000).Sub(salary.Sub(won(33000000)).Mul(pct("0.008"))))
	case salary.LessThanOrEqual(won(120000000)):
		return decimal.Max(won(500000), won(660000).Sub(salary.Sub(won(70000000)).Mul(pct("0.5"))))
	default:
		return decimal.Max(won(200000), won(500000).Sub(salary.Sub(won(120000000)).Mul(pct("0.5"))))
	}
}

// MonthlyTax computes the withholding for one band and dependent count. The band midpoint
// stands for the whole band; bands ending at or below ExemptCeiling withhold nothing.
func MonthlyTax(p Params, b Band, dependents int) decimal.Decimal {
	if b.Max <= ExemptCeiling {
		return decimal.Zero
	}
	mid := won(b.Min + b.Max).Mul(thousandWon).Div(decimal.NewFromInt(2))
	salary := mid.Mul(d12)

	income := salary.Sub(EarnedIncomeDeduction(salary))
	pensionBase := decimal.Min(decimal.Max(mid, p.MinPensionBase), p.MaxPensionBase)
	pension := calculation.Truncate10(pensionBase.Mul(p.PensionRate)).Mul(d12)

	base := income.
		Sub(basicPerHead.Mul(won(int64(dependents)))).
		Sub(SpecialDeduction(salary, dependents)).
		Sub(pension)
	base = decimal.Max(base, decimal.Zero)

	tax := ProgressiveTax(base)
	annual := decimal.Max(tax.Sub(EarnedIncomeCredit(tax, salary)), decimal.Zero)
	return calculation.Truncate10(annual.Div(d12))
}
