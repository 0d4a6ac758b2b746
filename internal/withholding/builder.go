// Package withholding constructs the simplified monthly withholding table from the
// statutory annual computation. The tables embedded by the calculation package are
// produced by tools/gentable using this builder.
package withholding

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
)

// Params are the year-specific inputs to the construction.
type Params struct {
	Year           domain.TaxYear
	PensionRate    decimal.Decimal
	MinPensionBase decimal.Decimal
	MaxPensionBase decimal.Decimal
}

// ParamsFor takes the pension rate and bases from the registry.
func ParamsFor(year domain.TaxYear) (Params, error) {
	rates, err := calculation.Rates(year)
	if err != nil {
		return Params{}, err
	}
	caps, err := calculation.Caps(year)
	if err != nil {
		return Params{}, err
	}
	return Params{
		Year:           year,
		PensionRate:    rates.PensionRate,
		MinPensionBase: caps.MinPensionBase,
		MaxPensionBase: caps.MaxPensionBase,
	}, nil
}

// Band is a salary band in thousand won, [Min, Max).
type Band struct {
	Min int64
	Max int64
}

// ExemptCeiling is the band edge below which no tax is withheld, in thousand won.
const ExemptCeiling int64 = 770

// Bands returns the statutory band layout: one exempt band, then 5-thousand steps to 1,500,
// 10-thousand steps to 3,000 and 20-thousand steps up to the table ceiling.
func Bands() []Band {
	bands := []Band{{Min: 0, Max: ExemptCeiling}}
	steps := []struct{ upTo, step int64 }{
		{1500, 5},
		{3000, 10},
		{calculation.TableCeiling, 20},
	}
	v := ExemptCeiling
	for _, s := range steps {
		for ; v < s.upTo; v += s.step {
			bands = append(bands, Band{Min: v, Max: v + s.step})
		}
	}
	return bands
}

// Build computes every row of the table for p.
func Build(p Params) []domain.BracketRow {
	bands := Bands()
	rows := make([]domain.BracketRow, 0, len(bands))
	for _, b := range bands {
		taxes := make([]int64, domain.DependentColumns)
		for d := 1; d <= domain.DependentColumns; d++ {
			taxes[d-1] = MonthlyTax(p, b, d).IntPart()
		}
		rows = append(rows, domain.BracketRow{Min: b.Min, Max: b.Max, Taxes: taxes})
	}
	return rows
}

// BuildTable builds and validates the table for p.
func BuildTable(p Params) (*calculation.BracketTable, error) {
	t, err := calculation.NewBracketTable(p.Year, Build(p))
	if err != nil {
		return nil, fmt.Errorf("built table for %d: %w", int(p.Year), err)
	}
	return t, nil
}

// WriteYAML writes rows in the layout LoadBracketTable reads, one flow-style row per line.
func WriteYAML(w io.Writer, year domain.TaxYear, rows []domain.BracketRow) error {
	if _, err := fmt.Fprintf(w, "# Monthly withholding table, tax year %d.\n"+
		"# Columns: won withheld for 1..11 dependents. Bands in thousand won, [min, max).\n"+
		"year: %d\nrows:\n", int(year), int(year)); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "  - {min: %d, max: %d, taxes: [%s]}\n", r.Min, r.Max, joinInts(r.Taxes)); err != nil {
			return err
		}
	}
	return nil
}

func joinInts(v []int64) string {
	out := make([]byte, 0, len(v)*8)
	for i, n := range v {
		if i > 0 {
			out = append(out, ", "...)
		}
		out = strconv.AppendInt(out, n, 10)
	}
	return string(out)
}
