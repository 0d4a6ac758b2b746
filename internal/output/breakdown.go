package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/netpay/internal/domain"
)

// ConsoleFormatter renders a pay-slip style summary.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(b *domain.TaxBreakdown) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 44))
	fmt.Fprintf(&buf, "MONTHLY NET PAY (%d rates)\n", int(b.Year))
	fmt.Fprintln(&buf, strings.Repeat("=", 44))
	fmt.Fprintf(&buf, "%-24s %18s\n", "Gross pay", FormatWonUnit(b.GrossMonthlyPay))
	fmt.Fprintf(&buf, "%-24s %18s\n", "Taxable income", FormatWonUnit(b.TaxableIncome))
	fmt.Fprintln(&buf, strings.Repeat("-", 44))

	for _, line := range b.Lines() {
		fmt.Fprintf(&buf, "%-24s %18s\n", line.Label, FormatWonUnit(line.Amount))
	}
	if b.ChildCredit.IsPositive() {
		fmt.Fprintf(&buf, "  %-22s %18s\n", "(child credit applied)", "-"+FormatWonUnit(b.ChildCredit))
	}

	fmt.Fprintln(&buf, strings.Repeat("-", 44))
	fmt.Fprintf(&buf, "%-24s %18s\n", "Total deductions", FormatWonUnit(b.TotalDeductions))
	fmt.Fprintf(&buf, "%-24s %18s\n", "Net pay", FormatWonUnit(b.NetPay))
	fmt.Fprintf(&buf, "%-24s %18s\n", "Deduction rate", FormatPercentage(b.EffectiveDeductionRate()))
	fmt.Fprintln(&buf, strings.Repeat("=", 44))

	return buf.Bytes(), nil
}

// JSONFormatter emits the breakdown in the API's JSON shape.
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(b *domain.TaxBreakdown) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(b, "", "  ")
	}
	return json.Marshal(b)
}

// CSVFormatter writes one line per deduction plus gross, total and net.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(b *domain.TaxBreakdown) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	records := [][]string{
		{"item", "amount"},
		{"grossPay", b.GrossMonthlyPay.StringFixed(2)},
		{"taxableIncome", b.TaxableIncome.StringFixed(2)},
	}
	for _, line := range b.Lines() {
		records = append(records, []string{line.Key, line.Amount.StringFixed(0)})
	}
	records = append(records,
		[]string{"totalDeductions", b.TotalDeductions.StringFixed(0)},
		[]string{"netPay", b.NetPay.StringFixed(2)},
	)

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
