package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/xuri/excelize/v2"
)

var tableHeaders = []string{
	"Annual salary", "Monthly gross", "National pension", "Health insurance", "Long-term care",
	"Employment insurance", "Income tax", "Local income tax", "Total deductions", "Net pay",
}

func tableRecord(r calculation.SalaryRow) []string {
	b := r.Breakdown
	return []string{
		r.AnnualSalary.StringFixed(0),
		r.MonthlyGross.StringFixed(0),
		b.PensionContribution.StringFixed(0),
		b.HealthContribution.StringFixed(0),
		b.LongTermCareContribution.StringFixed(0),
		b.EmploymentContribution.StringFixed(0),
		b.IncomeTax.StringFixed(0),
		b.LocalSurtax.StringFixed(0),
		b.TotalDeductions.StringFixed(0),
		b.NetPay.StringFixed(0),
	}
}

// FormatSalaryTable renders rows as a console table with a group heading per ten million won.
func FormatSalaryTable(rows []calculation.SalaryRow) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-16s %12s %12s %12s %12s\n", "Annual", "Monthly", "Insurance", "Tax", "Net pay"))
	sb.WriteString(strings.Repeat("-", 68) + "\n")

	ranges := calculation.DecadeRanges()
	current := -1
	for _, r := range rows {
		annual := r.AnnualSalary.IntPart()
		if i := decadeIndex(ranges, annual); i >= 0 && i != current {
			current = i
			sb.WriteString(fmt.Sprintf("[%s]\n", ranges[i].Label))
		}
		b := r.Breakdown
		sb.WriteString(fmt.Sprintf("%-16s %12s %12s %12s %12s\n",
			ManwonOrWon(annual),
			FormatWon(b.GrossMonthlyPay),
			FormatWon(b.InsuranceTotal()),
			FormatWon(b.TaxTotal()),
			FormatWon(b.NetPay)))
	}
	return sb.String()
}

func decadeIndex(ranges []calculation.DecadeRange, annual int64) int {
	for i, dr := range ranges {
		if annual >= dr.Start && annual < dr.Start+10000000 {
			return i
		}
	}
	return -1
}

// ManwonOrWon labels whole ten-thousand amounts in 만원 and anything else in won.
func ManwonOrWon(won int64) string {
	if won%10000 == 0 {
		return calculation.ManwonLabel(won)
	}
	return fmt.Sprintf("%d원", won)
}

// SalaryTableCSV writes rows as CSV with a header line.
func SalaryTableCSV(rows []calculation.SalaryRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(tableHeaders); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(tableRecord(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// SalaryTableJSON encodes rows with their full breakdowns.
func SalaryTableJSON(rows []calculation.SalaryRow) ([]byte, error) {
	return json.MarshalIndent(rows, "", "  ")
}

const salarySheet = "Salary table"

// SalaryTableWorkbook builds a workbook with one sheet of rows, numbers stored as numbers.
func SalaryTableWorkbook(rows []calculation.SalaryRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", salarySheet); err != nil {
		return nil, err
	}

	for i, h := range tableHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(salarySheet, cell, h); err != nil {
			return nil, err
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(salarySheet, 1, 1, headerStyle); err != nil {
		return nil, err
	}

	wonStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, err
	}

	for i, r := range rows {
		b := r.Breakdown
		values := []interface{}{
			r.AnnualSalary.IntPart(),
			r.MonthlyGross.Truncate(0).IntPart(),
			b.PensionContribution.IntPart(),
			b.HealthContribution.IntPart(),
			b.LongTermCareContribution.IntPart(),
			b.EmploymentContribution.IntPart(),
			b.IncomeTax.IntPart(),
			b.LocalSurtax.IntPart(),
			b.TotalDeductions.IntPart(),
			b.NetPay.Truncate(0).IntPart(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(salarySheet, cell, &values); err != nil {
			return nil, err
		}
	}
	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(tableHeaders), len(rows)+1)
		if err := f.SetCellStyle(salarySheet, "A2", last, wonStyle); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(salarySheet, "A", "J", 18); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteSalaryTableXLSX writes the workbook for rows to w.
func WriteSalaryTableXLSX(w io.Writer, rows []calculation.SalaryRow) error {
	f, err := SalaryTableWorkbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}
