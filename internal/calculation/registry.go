package calculation

import (
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
)

// RATE ASSUMPTIONS:
//
// 1. Employee share only. Employer contributions are not modelled.
// 2. Pension caps follow the July-June contribution year that covers most of the tax year:
//    2025 uses the 2024.7-2025.6 bases, 2026 uses 2025.7-2026.6.
// 3. Long-term care is a levy on the health premium, not on income.
// 4. Local income tax is a flat surtax on the final income tax.

// NewRateSet2025 returns the 2025 contribution rates
func NewRateSet2025() domain.RateSet {
	return domain.RateSet{
		PensionRate:                decimal.RequireFromString("0.045"),
		HealthRate:                 decimal.RequireFromString("0.03545"),
		LongTermCareRateOfHealth:   decimal.RequireFromString("0.1295"),
		EmploymentRate:             decimal.RequireFromString("0.009"),
		LocalSurtaxRateOfIncomeTax: decimal.RequireFromString("0.1"),
	}
}

// NewRateSet2026 returns the 2026 contribution rates (pension 9% → 9.5%, health 7.09% → 7.19%)
func NewRateSet2026() domain.RateSet {
	return domain.RateSet{
		PensionRate:                decimal.RequireFromString("0.0475"),
		HealthRate:                 decimal.RequireFromString("0.03595"),
		LongTermCareRateOfHealth:   decimal.RequireFromString("0.1314"),
		EmploymentRate:             decimal.RequireFromString("0.009"),
		LocalSurtaxRateOfIncomeTax: decimal.RequireFromString("0.1"),
	}
}

// NewCapSet2025 returns the 2025 income bases
func NewCapSet2025() domain.CapSet {
	return domain.CapSet{
		MinPensionBase: decimal.NewFromInt(390000),
		MaxPensionBase: decimal.NewFromInt(6170000),
		MaxHealthBase:  decimal.NewFromInt(127056982),
	}
}

// NewCapSet2026 returns the 2026 income bases
func NewCapSet2026() domain.CapSet {
	return domain.CapSet{
		MinPensionBase: decimal.NewFromInt(400000),
		MaxPensionBase: decimal.NewFromInt(6370000),
		MaxHealthBase:  decimal.NewFromInt(110332300),
	}
}

// Rates returns the rate set registered for year.
func Rates(year domain.TaxYear) (domain.RateSet, error) {
	switch year {
	case domain.Year2025:
		return NewRateSet2025(), nil
	case domain.Year2026:
		return NewRateSet2026(), nil
	default:
		return domain.RateSet{}, &domain.UnsupportedYearError{Year: year}
	}
}

// Caps returns the income bases registered for year.
func Caps(year domain.TaxYear) (domain.CapSet, error) {
	switch year {
	case domain.Year2025:
		return NewCapSet2025(), nil
	case domain.Year2026:
		return NewCapSet2026(), nil
	default:
		return domain.CapSet{}, &domain.UnsupportedYearError{Year: year}
	}
}

// SupportedYears lists every year with both a rate set and a withholding table.
func SupportedYears() []domain.TaxYear {
	return domain.SupportedTaxYears()
}
