package output

import (
	"bytes"
	"encoding/csv"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/netpay/internal/domain"
)

// NamedBreakdown pairs a batch entry name with its result.
type NamedBreakdown struct {
	Name      string               `json:"name"`
	Breakdown *domain.TaxBreakdown `json:"breakdown"`
}

// BatchJSON renders a batch as a JSON array.
func BatchJSON(items []NamedBreakdown) ([]byte, error) {
	return json.MarshalIndent(items, "", "  ")
}

// BatchCSV writes one row per salary with every deduction line as a column.
func BatchCSV(items []NamedBreakdown) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"name", "year", "grossPay", "taxableIncome"}
	for _, line := range (&domain.TaxBreakdown{}).Lines() {
		header = append(header, line.Key)
	}
	header = append(header, "totalDeductions", "netPay")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, item := range items {
		b := item.Breakdown
		record := []string{item.Name, fmt.Sprint(int(b.Year)), b.GrossMonthlyPay.StringFixed(2), b.TaxableIncome.StringFixed(2)}
		for _, line := range b.Lines() {
			record = append(record, line.Amount.StringFixed(0))
		}
		record = append(record, b.TotalDeductions.StringFixed(0), b.NetPay.StringFixed(2))
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}
