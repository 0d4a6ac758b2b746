package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/rgehrsitz/netpay/internal/domain"
)

// BreakdownFormatter renders a single deduction breakdown.
type BreakdownFormatter interface {
	Name() string
	Format(b *domain.TaxBreakdown) ([]byte, error)
}

var breakdownFormatters = map[string]BreakdownFormatter{
	"console": ConsoleFormatter{},
	"json":    JSONFormatter{Pretty: true},
	"csv":     CSVFormatter{},
	"pdf":     PDFFormatter{},
}

// FormatterFor looks up a breakdown formatter by name.
func FormatterFor(name string) (BreakdownFormatter, error) {
	f, ok := breakdownFormatters[name]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s (available: %v)", name, FormatNames())
	}
	return f, nil
}

// FormatNames lists the registered breakdown formats.
func FormatNames() []string {
	names := make([]string, 0, len(breakdownFormatters))
	for n := range breakdownFormatters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GenerateReport writes b to w in the named format.
func GenerateReport(w io.Writer, b *domain.TaxBreakdown, format string) error {
	f, err := FormatterFor(format)
	if err != nil {
		return err
	}
	data, err := f.Format(b)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}
