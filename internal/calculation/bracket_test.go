package calculation

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taxes(v int64) []int64 {
	out := make([]int64, domain.DependentColumns)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestNewBracketTable_Validation(t *testing.T) {
	good := []domain.BracketRow{
		{Min: 0, Max: 5000, Taxes: taxes(0)},
		{Min: 5000, Max: TableCeiling, Taxes: taxes(100)},
	}

	tests := []struct {
		name    string
		rows    []domain.BracketRow
		wantErr string
	}{
		{name: "valid", rows: good},
		{name: "empty", rows: nil, wantErr: "no rows"},
		{name: "not starting at zero", rows: []domain.BracketRow{{Min: 10, Max: TableCeiling, Taxes: taxes(0)}}, wantErr: "starts at 10"},
		{name: "gap", rows: []domain.BracketRow{{Min: 0, Max: 100, Taxes: taxes(0)}, {Min: 200, Max: TableCeiling, Taxes: taxes(0)}}, wantErr: "gap"},
		{name: "inverted", rows: []domain.BracketRow{{Min: 0, Max: 0, Taxes: taxes(0)}}, wantErr: "max 0 <= min 0"},
		{name: "short row", rows: []domain.BracketRow{{Min: 0, Max: TableCeiling, Taxes: []int64{0}}}, wantErr: "1 tax columns"},
		{name: "negative tax", rows: []domain.BracketRow{{Min: 0, Max: TableCeiling, Taxes: taxes(-10)}}, wantErr: "tax -10"},
		{name: "not truncated", rows: []domain.BracketRow{{Min: 0, Max: TableCeiling, Taxes: taxes(15)}}, wantErr: "tax 15"},
		{name: "wrong ceiling", rows: []domain.BracketRow{{Min: 0, Max: 9000, Taxes: taxes(0)}}, wantErr: "ends at 9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewBracketTable(domain.Year2026, tt.rows)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTable)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, table.Len())
		})
	}
}

func TestBracketTable_RowsAreCopied(t *testing.T) {
	rows := []domain.BracketRow{{Min: 0, Max: TableCeiling, Taxes: taxes(100)}}
	table, err := NewBracketTable(domain.Year2026, rows)
	require.NoError(t, err)

	rows[0].Taxes[0] = 999990
	out := table.Rows()
	out[0].Taxes[1] = 888880

	fresh := table.Rows()
	assert.Equal(t, int64(100), fresh[0].Taxes[0])
	assert.Equal(t, int64(100), fresh[0].Taxes[1])
}

func TestLoadBracketTable(t *testing.T) {
	src := `year: 2026
rows:
  - {min: 0, max: 3000, taxes: [0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0]}
  - {min: 3000, max: 10000, taxes: [500, 400, 300, 200, 100, 0, 0, 0, 0, 0, 0]}
`
	table, err := LoadBracketTable(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, domain.Year2026, table.Year)

	assert.True(t, table.LookupBaseTax(decimal.NewFromInt(2999999), 1).IsZero())
	assert.True(t, table.LookupBaseTax(decimal.NewFromInt(3000000), 1).Equal(decimal.NewFromInt(500)))
	assert.True(t, table.LookupBaseTax(decimal.NewFromInt(3000000), 3).Equal(decimal.NewFromInt(300)))

	_, err = LoadBracketTable(strings.NewReader("rows: [oops"))
	assert.Error(t, err)
}

func TestLookupBaseTax(t *testing.T) {
	table, err := TableFor(domain.Year2026)
	require.NoError(t, err)

	tests := []struct {
		name       string
		income     string
		dependents int
		want       int64
	}{
		{name: "below threshold", income: "769999", dependents: 1, want: 0},
		{name: "row 3000 one dependent", income: "3000000", dependents: 1, want: 60380},
		{name: "row 3000 floors thousands", income: "3019999.99", dependents: 1, want: 60380},
		{name: "row 3000 eleven dependents", income: "3000000", dependents: 11, want: 30},
		{name: "zero dependents clamp to one", income: "3000000", dependents: 0, want: 60380},
		{name: "fifty dependents clamp to eleven", income: "3000000", dependents: 50, want: 30},
		{name: "last row", income: "9999999", dependents: 1, want: 1468810},
		{name: "ceiling", income: "10000000", dependents: 1, want: 1493810},
		{name: "ceiling eleven dependents", income: "10000000", dependents: 11, want: 959530},
		{name: "negative income", income: "-5", dependents: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.LookupBaseTax(decimal.RequireFromString(tt.income), tt.dependents)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "want %d, got %s", tt.want, got)
		})
	}
}

func TestHighIncomeTax(t *testing.T) {
	tests := []struct {
		income string
		want   string
	}{
		{"9999999", "0"},
		{"10000000", "25000"},
		{"14000000", "1397000"},
		{"28000000", "6610600"},
		{"30000000", "7394600"},
		{"45000000", "13394600"},
		{"50000000", "15494600"},
		{"87000000", "31034600"},
		{"100000000", "36884600"},
	}

	for _, tt := range tests {
		t.Run(tt.income, func(t *testing.T) {
			got := HighIncomeTax(decimal.RequireFromString(tt.income))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "want %s, got %s", tt.want, got)
		})
	}
}

func TestHighIncomeTax_ContinuousAtBreakpoints(t *testing.T) {
	for _, b := range highIncomeBands[:len(highIncomeBands)-1] {
		at := HighIncomeTax(decimal.NewFromInt(b.upTo))
		after := HighIncomeTax(decimal.NewFromInt(b.upTo + 1))
		assert.True(t, after.Sub(at).LessThan(decimal.NewFromInt(1)), "jump at %d", b.upTo)
	}
}

func TestHighIncomeTax_BasesChainAcrossBands(t *testing.T) {
	for i := 1; i < len(highIncomeBands); i++ {
		prev, cur := highIncomeBands[i-1], highIncomeBands[i]
		edge := decimal.NewFromInt(prev.base).Add(decimal.NewFromInt(prev.upTo - prev.from).Mul(prev.factor))
		assert.True(t, edge.Equal(decimal.NewFromInt(cur.base)), "band %d base %d, chained %s", i, cur.base, edge)
	}
	// the third band only chains with the 98% factor
	assert.Equal(t, "0.392", highIncomeBands[2].factor.String())
}

func TestDefaultTables_MonotonicInIncome(t *testing.T) {
	for _, year := range domain.SupportedTaxYears() {
		table, err := TableFor(year)
		require.NoError(t, err)

		rows := table.Rows()
		for i := 1; i < len(rows); i++ {
			for col := 0; col < domain.DependentColumns; col++ {
				assert.GreaterOrEqual(t, rows[i].Taxes[col], rows[i-1].Taxes[col],
					"%d: tax fell between rows %d and %d, column %d", year, i-1, i, col+1)
			}
		}
	}
}

func TestDefaultTables_NonIncreasingInDependents(t *testing.T) {
	for _, year := range domain.SupportedTaxYears() {
		table, err := TableFor(year)
		require.NoError(t, err)

		for _, row := range table.Rows() {
			for col := 1; col < domain.DependentColumns; col++ {
				assert.LessOrEqual(t, row.Taxes[col], row.Taxes[col-1], "%d: row %d", year, row.Min)
			}
		}
	}
}

func TestTableFor_UnsupportedYear(t *testing.T) {
	_, err := TableFor(domain.TaxYear(2030))
	assert.ErrorIs(t, err, domain.ErrUnsupportedYear)
}
