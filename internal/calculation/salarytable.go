package calculation

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
)

// Reference table defaults, annual won.
const (
	DefaultTableStart int64 = 10000000
	DefaultTableEnd   int64 = 159000000
	DefaultTableStep  int64 = 1000000

	// MaxTableSalary bounds End, 100 billion won.
	MaxTableSalary int64 = 100_000_000_000
)

// TableOptions controls a bulk salary table run. Zero values take the defaults above,
// one dependent and no non-taxable allowance.
type TableOptions struct {
	Start               int64
	End                 int64
	Step                int64
	Year                domain.TaxYear
	DependentCount      int
	QualifyingChildren  int
	NonTaxableAllowance decimal.Decimal
}

func (o TableOptions) withDefaults() TableOptions {
	if o.Start == 0 {
		o.Start = DefaultTableStart
	}
	if o.End == 0 {
		o.End = DefaultTableEnd
	}
	if o.Step == 0 {
		o.Step = DefaultTableStep
	}
	if o.Year == 0 {
		o.Year = domain.DefaultTaxYear
	}
	if o.DependentCount == 0 {
		o.DependentCount = 1
	}
	return o
}

// SalaryRow is one line of the bulk reference table.
type SalaryRow struct {
	AnnualSalary decimal.Decimal      `json:"annualSalary"`
	MonthlyGross decimal.Decimal      `json:"monthlyGross"`
	Breakdown    *domain.TaxBreakdown `json:"breakdown"`
}

const maxTablePrealloc = 4096

// SalaryTable evaluates every annual salary from Start to End inclusive in Step increments.
func (e *Engine) SalaryTable(ctx context.Context, opts TableOptions) ([]SalaryRow, error) {
	opts = opts.withDefaults()
	if opts.Step < 0 || opts.Start < 0 || opts.End < opts.Start {
		return nil, fmt.Errorf("%w: table range %d..%d step %d", domain.ErrInvalidInput, opts.Start, opts.End, opts.Step)
	}
	if opts.End > MaxTableSalary {
		return nil, fmt.Errorf("%w: table end %d exceeds %d", domain.ErrInvalidInput, opts.End, MaxTableSalary)
	}

	rows := make([]SalaryRow, 0, min((opts.End-opts.Start)/opts.Step+1, maxTablePrealloc))
	for annual := opts.Start; annual <= opts.End; annual += opts.Step {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		input := domain.SalaryInput{
			Amount:              decimal.NewFromInt(annual),
			NonTaxableAllowance: opts.NonTaxableAllowance,
			DependentCount:      opts.DependentCount,
			QualifyingChildren:  domain.IntPtr(opts.QualifyingChildren),
		}
		b, err := e.CalculateDeductions(input, opts.Year)
		if err != nil {
			return nil, fmt.Errorf("salary %d: %w", annual, err)
		}
		rows = append(rows, SalaryRow{
			AnnualSalary: input.Amount,
			MonthlyGross: b.GrossMonthlyPay,
			Breakdown:    b,
		})
		if annual > opts.End-opts.Step {
			break
		}
	}

	e.Logger.Debugf("salary table: %d rows for %d", len(rows), int(opts.Year))
	return rows, nil
}

// DecadeRange groups reference rows by ten million won.
type DecadeRange struct {
	Start int64
	End   int64
	Label string
}

// DecadeRanges returns the fifteen groups used to page the reference table:
// 10,000,000-19,000,000 through 150,000,000-159,000,000.
func DecadeRanges() []DecadeRange {
	ranges := make([]DecadeRange, 0, 15)
	for start := DefaultTableStart; start <= 150000000; start += 10000000 {
		end := start + 9*DefaultTableStep
		ranges = append(ranges, DecadeRange{
			Start: start,
			End:   end,
			Label: ManwonLabel(start) + " ~ " + ManwonLabel(end),
		})
	}
	return ranges
}

// ManwonLabel renders a won amount the way Korean pay slips do: 45,000,000 → "4,500만원",
// 109,000,000 → "1억 900만원", 100,000,000 → "1억원".
func ManwonLabel(won int64) string {
	manwon := won / 10000
	eok := manwon / 10000
	rest := manwon % 10000
	switch {
	case eok == 0:
		return groupThousands(rest) + "만원"
	case rest == 0:
		return strconv.FormatInt(eok, 10) + "억원"
	default:
		return strconv.FormatInt(eok, 10) + "억 " + groupThousands(rest) + "만원"
	}
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	return s[:len(s)-3] + "," + s[len(s)-3:]
}
