package calculation

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"github.com/rgehrsitz/netpay/internal/domain"
)

//go:embed data/withholding_*.yaml
var tableFS embed.FS

// TableSet maps each registered year to its withholding table.
type TableSet struct {
	tables map[domain.TaxYear]*BracketTable
}

// NewTableSet builds a set from already validated tables. A later table for the same year wins.
func NewTableSet(tables ...*BracketTable) *TableSet {
	ts := &TableSet{tables: make(map[domain.TaxYear]*BracketTable, len(tables))}
	for _, t := range tables {
		ts.tables[t.Year] = t
	}
	return ts
}

// Table returns the table for year or an *domain.UnsupportedYearError.
func (ts *TableSet) Table(year domain.TaxYear) (*BracketTable, error) {
	t, ok := ts.tables[year]
	if !ok {
		return nil, &domain.UnsupportedYearError{Year: year}
	}
	return t, nil
}

var (
	defaultTablesOnce sync.Once
	defaultTables     *TableSet
	defaultTablesErr  error
)

// DefaultTables returns the embedded tables for every supported year. They are parsed and
// validated once per process.
func DefaultTables() (*TableSet, error) {
	defaultTablesOnce.Do(func() {
		defaultTables, defaultTablesErr = loadEmbeddedTables()
	})
	return defaultTables, defaultTablesErr
}

func loadEmbeddedTables() (*TableSet, error) {
	var tables []*BracketTable
	for _, year := range domain.SupportedTaxYears() {
		name := fmt.Sprintf("data/withholding_%d.yaml", int(year))
		raw, err := tableFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		t, err := LoadBracketTable(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if t.Year != year {
			return nil, fmt.Errorf("%s: %w: declares year %d", name, ErrInvalidTable, int(t.Year))
		}
		tables = append(tables, t)
	}
	return NewTableSet(tables...), nil
}

// TableFor returns the embedded table for year.
func TableFor(year domain.TaxYear) (*BracketTable, error) {
	ts, err := DefaultTables()
	if err != nil {
		return nil, err
	}
	return ts.Table(year)
}
