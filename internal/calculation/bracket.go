package calculation

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TableCeiling is the upper bound of every withholding table, in thousand won (10,000,000 won).
// Income at or above it is taxed by HighIncomeTax.
const TableCeiling int64 = 10000

// ErrInvalidTable is returned when a withholding table fails validation.
var ErrInvalidTable = errors.New("invalid withholding table")

// BracketTable is a validated, immutable withholding table for one year.
type BracketTable struct {
	Year domain.TaxYear
	rows []domain.BracketRow
}

type bracketFile struct {
	Year int                 `yaml:"year"`
	Rows []domain.BracketRow `yaml:"rows"`
}

// NewBracketTable validates rows and returns a table that owns a copy of them.
// Rows must start at 0, be contiguous, end at TableCeiling and carry 11 non-negative
// taxes that are multiples of 10.
func NewBracketTable(year domain.TaxYear, rows []domain.BracketRow) (*BracketTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: year %d has no rows", ErrInvalidTable, year)
	}
	if rows[0].Min != 0 {
		return nil, fmt.Errorf("%w: first row starts at %d, want 0", ErrInvalidTable, rows[0].Min)
	}

	copied := make([]domain.BracketRow, len(rows))
	for i, row := range rows {
		if row.Max <= row.Min {
			return nil, fmt.Errorf("%w: row %d has max %d <= min %d", ErrInvalidTable, i, row.Max, row.Min)
		}
		if i > 0 && row.Min != rows[i-1].Max {
			return nil, fmt.Errorf("%w: gap between %d and %d at row %d", ErrInvalidTable, rows[i-1].Max, row.Min, i)
		}
		if len(row.Taxes) != domain.DependentColumns {
			return nil, fmt.Errorf("%w: row %d has %d tax columns, want %d", ErrInvalidTable, i, len(row.Taxes), domain.DependentColumns)
		}
		for j, tax := range row.Taxes {
			if tax < 0 || tax%10 != 0 {
				return nil, fmt.Errorf("%w: row %d column %d has tax %d", ErrInvalidTable, i, j+1, tax)
			}
		}
		copied[i] = domain.BracketRow{Min: row.Min, Max: row.Max, Taxes: append([]int64(nil), row.Taxes...)}
	}
	if last := rows[len(rows)-1].Max; last != TableCeiling {
		return nil, fmt.Errorf("%w: last row ends at %d, want %d", ErrInvalidTable, last, TableCeiling)
	}

	return &BracketTable{Year: year, rows: copied}, nil
}

// LoadBracketTable decodes a YAML withholding table.
func LoadBracketTable(r io.Reader) (*BracketTable, error) {
	var f bracketFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse withholding table: %w", err)
	}
	return NewBracketTable(domain.TaxYear(f.Year), f.Rows)
}

// Rows returns a copy of the table rows.
func (t *BracketTable) Rows() []domain.BracketRow {
	out := make([]domain.BracketRow, len(t.rows))
	for i, row := range t.rows {
		out[i] = domain.BracketRow{Min: row.Min, Max: row.Max, Taxes: append([]int64(nil), row.Taxes...)}
	}
	return out
}

// Len returns the number of salary bands.
func (t *BracketTable) Len() int {
	return len(t.rows)
}

// LookupBaseTax returns the withholding amount for a monthly taxable income in won, before
// the child credit. Dependents are clamped to [1, 11]; income below the first band yields zero.
func (t *BracketTable) LookupBaseTax(income decimal.Decimal, dependents int) decimal.Decimal {
	col := clampDependents(dependents) - 1
	th := income.Div(thousand).Floor().IntPart()
	if th < 0 {
		return decimal.Zero
	}

	if th >= TableCeiling {
		base := decimal.NewFromInt(t.rows[len(t.rows)-1].Taxes[col])
		return Truncate10(base.Add(HighIncomeTax(income)))
	}

	i := sort.Search(len(t.rows), func(i int) bool { return t.rows[i].Max > th })
	if i == len(t.rows) || !t.rows[i].Contains(th) {
		return decimal.Zero
	}
	return decimal.NewFromInt(t.rows[i].Taxes[col])
}

func clampDependents(n int) int {
	if n < 1 {
		return 1
	}
	if n > domain.DependentColumns {
		return domain.DependentColumns
	}
	return n
}

type highIncomeBand struct {
	upTo   int64 // won, inclusive; 0 means unbounded
	from   int64
	base   int64
	factor decimal.Decimal
}

// Additional tax above the table ceiling. The first three bands apply the 98% factor
// printed on the statutory table. Keep it on the third band too: each base is the previous
// band's value at its upper edge, and 6,610,600 + 2,000,000 × 0.392 = 7,394,600 only holds
// with the factor applied.
var highIncomeBands = []highIncomeBand{
	{upTo: 14000000, from: 10000000, base: 25000, factor: decimal.RequireFromString("0.343")},
	{upTo: 28000000, from: 14000000, base: 1397000, factor: decimal.RequireFromString("0.3724")},
	{upTo: 30000000, from: 28000000, base: 6610600, factor: decimal.RequireFromString("0.392")},
	{upTo: 45000000, from: 30000000, base: 7394600, factor: decimal.RequireFromString("0.40")},
	{upTo: 87000000, from: 45000000, base: 13394600, factor: decimal.RequireFromString("0.42")},
	{upTo: 0, from: 87000000, base: 31034600, factor: decimal.RequireFromString("0.45")},
}

// HighIncomeTax returns the additional monthly tax owed on income at or above 10,000,000 won.
// It is added to the last table row's tax for the same dependent count. Income below the
// ceiling returns zero.
func HighIncomeTax(income decimal.Decimal) decimal.Decimal {
	ceiling := decimal.NewFromInt(TableCeiling * 1000)
	if income.LessThan(ceiling) {
		return decimal.Zero
	}
	for _, b := range highIncomeBands {
		if b.upTo == 0 || income.LessThanOrEqual(decimal.NewFromInt(b.upTo)) {
			excess := income.Sub(decimal.NewFromInt(b.from))
			return decimal.NewFromInt(b.base).Add(excess.Mul(b.factor))
		}
	}
	return decimal.Zero
}
