package domain

import (
	"github.com/shopspring/decimal"
)

// TaxBreakdown is the result of one deduction calculation. All contribution and tax lines
// are truncated to a multiple of 10 won; GrossMonthlyPay and NetPay are not.
type TaxBreakdown struct {
	Year                     TaxYear         `json:"year"`
	GrossMonthlyPay          decimal.Decimal `json:"grossPay"`
	TaxableIncome            decimal.Decimal `json:"taxableIncome"`
	PensionContribution      decimal.Decimal `json:"nationalPension"`
	HealthContribution       decimal.Decimal `json:"healthInsurance"`
	LongTermCareContribution decimal.Decimal `json:"longTermCare"`
	EmploymentContribution   decimal.Decimal `json:"employmentInsurance"`
	IncomeTaxBeforeCredit    decimal.Decimal `json:"incomeTaxBeforeCredit"`
	ChildCredit              decimal.Decimal `json:"childCredit"`
	IncomeTax                decimal.Decimal `json:"incomeTax"`
	LocalSurtax              decimal.Decimal `json:"localIncomeTax"`
	TotalDeductions          decimal.Decimal `json:"totalDeductions"`
	NetPay                   decimal.Decimal `json:"netPay"`
}

// InsuranceTotal sums the four social insurance lines.
func (b *TaxBreakdown) InsuranceTotal() decimal.Decimal {
	return b.PensionContribution.
		Add(b.HealthContribution).
		Add(b.LongTermCareContribution).
		Add(b.EmploymentContribution)
}

// TaxTotal sums income tax and local surtax.
func (b *TaxBreakdown) TaxTotal() decimal.Decimal {
	return b.IncomeTax.Add(b.LocalSurtax)
}

// DeductionLine is a labelled line item, in display order.
type DeductionLine struct {
	Key    string
	Label  string
	Amount decimal.Decimal
}

// Lines returns the six deduction lines in the order payroll slips print them.
func (b *TaxBreakdown) Lines() []DeductionLine {
	return []DeductionLine{
		{Key: "nationalPension", Label: "National pension", Amount: b.PensionContribution},
		{Key: "healthInsurance", Label: "Health insurance", Amount: b.HealthContribution},
		{Key: "longTermCare", Label: "Long-term care", Amount: b.LongTermCareContribution},
		{Key: "employmentInsurance", Label: "Employment insurance", Amount: b.EmploymentContribution},
		{Key: "incomeTax", Label: "Income tax", Amount: b.IncomeTax},
		{Key: "localIncomeTax", Label: "Local income tax", Amount: b.LocalSurtax},
	}
}

// EffectiveDeductionRate is TotalDeductions / GrossMonthlyPay, zero for zero gross.
func (b *TaxBreakdown) EffectiveDeductionRate() decimal.Decimal {
	if b.GrossMonthlyPay.IsZero() {
		return decimal.Zero
	}
	return b.TotalDeductions.Div(b.GrossMonthlyPay)
}
