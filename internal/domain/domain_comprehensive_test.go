package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaxYear(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TaxYear
		wantErr error
	}{
		{name: "empty uses default", input: "", want: DefaultTaxYear},
		{name: "2025", input: "2025", want: Year2025},
		{name: "2026 with spaces", input: " 2026 ", want: Year2026},
		{name: "unregistered year", input: "2024", wantErr: ErrUnsupportedYear},
		{name: "not a number", input: "next", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTaxYear(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnsupportedYearError(t *testing.T) {
	err := error(&UnsupportedYearError{Year: 2031})

	assert.ErrorIs(t, err, ErrUnsupportedYear)
	assert.Contains(t, err.Error(), "2031")
	assert.Contains(t, err.Error(), "2025, 2026")

	var target *UnsupportedYearError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, TaxYear(2031), target.Year)
}

func TestSupportedTaxYears(t *testing.T) {
	years := SupportedTaxYears()
	require.NotEmpty(t, years)
	for i, y := range years {
		assert.True(t, y.Supported())
		if i > 0 {
			assert.Greater(t, int(y), int(years[i-1]), "years must be ascending")
		}
	}
	assert.Contains(t, years, DefaultTaxYear)
	assert.False(t, TaxYear(1999).Supported())
}

func TestSalaryInput_MonthlyGross(t *testing.T) {
	monthly := SalaryInput{Amount: decimal.NewFromInt(3000000), IsMonthly: true}
	assert.True(t, monthly.MonthlyGross().Equal(decimal.NewFromInt(3000000)))

	annual := SalaryInput{Amount: decimal.NewFromInt(36000000)}
	assert.True(t, annual.MonthlyGross().Equal(decimal.NewFromInt(3000000)))

	// 40,000,000 / 12 is not truncated
	uneven := SalaryInput{Amount: decimal.NewFromInt(40000000)}
	assert.True(t, uneven.MonthlyGross().GreaterThan(decimal.NewFromInt(3333333)))
	assert.True(t, uneven.MonthlyGross().LessThan(decimal.NewFromInt(3333334)))
}

func TestSalaryInput_QualifyingChildCount(t *testing.T) {
	assert.Equal(t, 0, SalaryInput{}.QualifyingChildCount())
	assert.Equal(t, 2, SalaryInput{QualifyingChildren: IntPtr(2)}.QualifyingChildCount())
}

func TestSalaryInput_WithMonthlyGross(t *testing.T) {
	in := SalaryInput{Amount: decimal.NewFromInt(48000000), DependentCount: 3}
	out := in.WithMonthlyGross(decimal.NewFromInt(5000000))

	assert.True(t, out.IsMonthly)
	assert.True(t, out.Amount.Equal(decimal.NewFromInt(5000000)))
	assert.Equal(t, 3, out.DependentCount)
	assert.False(t, in.IsMonthly, "original must not change")
}

func TestTaxBreakdown_Totals(t *testing.T) {
	b := &TaxBreakdown{
		GrossMonthlyPay:          decimal.NewFromInt(3000000),
		PensionContribution:      decimal.NewFromInt(142500),
		HealthContribution:       decimal.NewFromInt(107850),
		LongTermCareContribution: decimal.NewFromInt(14170),
		EmploymentContribution:   decimal.NewFromInt(27000),
		IncomeTax:                decimal.NewFromInt(60380),
		LocalSurtax:              decimal.NewFromInt(6030),
		TotalDeductions:          decimal.NewFromInt(357930),
	}

	assert.True(t, b.InsuranceTotal().Equal(decimal.NewFromInt(291520)))
	assert.True(t, b.TaxTotal().Equal(decimal.NewFromInt(66410)))

	lines := b.Lines()
	require.Len(t, lines, 6)
	assert.Equal(t, "nationalPension", lines[0].Key)
	assert.Equal(t, "localIncomeTax", lines[5].Key)

	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount)
	}
	assert.True(t, sum.Equal(b.TotalDeductions))

	rate := b.EffectiveDeductionRate()
	assert.Equal(t, "0.11931", rate.StringFixed(5))
	assert.True(t, (&TaxBreakdown{}).EffectiveDeductionRate().IsZero())
}

func TestBracketRow_Contains(t *testing.T) {
	row := BracketRow{Min: 3000, Max: 3020}
	assert.True(t, row.Contains(3000))
	assert.True(t, row.Contains(3019))
	assert.False(t, row.Contains(3020))
	assert.False(t, row.Contains(2999))
}
