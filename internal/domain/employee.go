package domain

import (
	"github.com/shopspring/decimal"
)

// SalaryInput is a single salary to evaluate. It carries no identity and is not persisted.
type SalaryInput struct {
	Amount              decimal.Decimal `yaml:"amount" json:"amount"`
	IsMonthly           bool            `yaml:"is_monthly" json:"isMonthly"`
	NonTaxableAllowance decimal.Decimal `yaml:"non_taxable" json:"nonTaxable"`
	DependentCount      int             `yaml:"dependents" json:"dependents"` // includes the earner
	ChildrenUnder20     int             `yaml:"children_under_20" json:"childrenUnder20"`

	// QualifyingChildren counts children aged 8 to 20 for the child tax credit. Nil means 0.
	QualifyingChildren *int `yaml:"children_8_to_20,omitempty" json:"children8to20,omitempty"`
}

// QualifyingChildCount returns the child-credit count, defaulting to zero.
func (s SalaryInput) QualifyingChildCount() int {
	if s.QualifyingChildren == nil {
		return 0
	}
	return *s.QualifyingChildren
}

// MonthlyGross normalizes the amount to a monthly figure. Annual amounts are divided by 12
// without truncation.
func (s SalaryInput) MonthlyGross() decimal.Decimal {
	if s.IsMonthly {
		return s.Amount
	}
	return s.Amount.Div(decimal.NewFromInt(12))
}

// WithMonthlyGross returns a copy of the input with the amount replaced by a monthly figure.
func (s SalaryInput) WithMonthlyGross(gross decimal.Decimal) SalaryInput {
	s.Amount = gross
	s.IsMonthly = true
	return s
}

// IntPtr is a convenience for optional integer fields.
func IntPtr(v int) *int {
	return &v
}
