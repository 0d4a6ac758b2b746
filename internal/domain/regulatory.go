package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TaxYear identifies a registered set of statutory rates and withholding tables.
type TaxYear int

const (
	Year2025 TaxYear = 2025
	Year2026 TaxYear = 2026

	// DefaultTaxYear is used when a caller omits the year.
	DefaultTaxYear = Year2026
)

// String returns the year as a plain number.
func (y TaxYear) String() string {
	return strconv.Itoa(int(y))
}

// ParseTaxYear parses a year from user input. Only registered years are accepted; an empty
// string yields DefaultTaxYear.
func ParseTaxYear(s string) (TaxYear, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTaxYear, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: year %q is not a number", ErrInvalidInput, s)
	}
	year := TaxYear(n)
	if !year.Supported() {
		return 0, &UnsupportedYearError{Year: year}
	}
	return year, nil
}

// SupportedTaxYears lists the registered years in ascending order.
func SupportedTaxYears() []TaxYear {
	return []TaxYear{Year2025, Year2026}
}

// Supported reports whether the year is part of the registered enumeration.
func (y TaxYear) Supported() bool {
	switch y {
	case Year2025, Year2026:
		return true
	}
	return false
}

// RateSet contains the contribution and surtax rates for one tax year (employee share)
type RateSet struct {
	PensionRate                decimal.Decimal `yaml:"pension_rate" json:"pension_rate"`
	HealthRate                 decimal.Decimal `yaml:"health_rate" json:"health_rate"`
	LongTermCareRateOfHealth   decimal.Decimal `yaml:"long_term_care_rate_of_health" json:"long_term_care_rate_of_health"`
	EmploymentRate             decimal.Decimal `yaml:"employment_rate" json:"employment_rate"`
	LocalSurtaxRateOfIncomeTax decimal.Decimal `yaml:"local_surtax_rate_of_income_tax" json:"local_surtax_rate_of_income_tax"`
}

// CapSet contains the income bases (monthly won) that bound contributions for one tax year
type CapSet struct {
	MinPensionBase decimal.Decimal `yaml:"min_pension_base" json:"min_pension_base"`
	MaxPensionBase decimal.Decimal `yaml:"max_pension_base" json:"max_pension_base"`

	// MaxHealthBase is registered but not applied to the health line; see DESIGN.md.
	MaxHealthBase decimal.Decimal `yaml:"max_health_base" json:"max_health_base"`
}

// DependentColumns is the number of dependent-count columns in a withholding table.
const DependentColumns = 11

// BracketRow is one salary band of the simplified withholding table.
// Min and Max are monthly salary in thousand won, Min inclusive and Max exclusive.
type BracketRow struct {
	Min   int64   `yaml:"min" json:"min"`
	Max   int64   `yaml:"max" json:"max"`
	Taxes []int64 `yaml:"taxes" json:"taxes"` // won withheld for 1..11 dependents
}

// Contains reports whether a thousand-won value falls inside the band.
func (r BracketRow) Contains(thousandWon int64) bool {
	return r.Min <= thousandWon && thousandWon < r.Max
}
