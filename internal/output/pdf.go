package output

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/rgehrsitz/netpay/internal/domain"
)

// PDFFormatter renders a one-page pay slip. The core fonts carry no Hangul, so labels
// are English and amounts carry a KRW suffix.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(b *domain.TaxBreakdown) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Payslip deductions (%d)", int(b.Year)))
	pdf.Ln(14)

	row := func(label, amount string) {
		pdf.CellFormat(90, 8, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, amount+" KRW", "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 12)
	row("Gross pay", FormatWon(b.GrossMonthlyPay))
	row("Taxable income", FormatWon(b.TaxableIncome))
	pdf.Ln(4)
	for _, line := range b.Lines() {
		row(line.Label, FormatWon(line.Amount))
	}
	if b.ChildCredit.IsPositive() {
		row("Child credit (applied to income tax)", "-"+FormatWon(b.ChildCredit))
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	row("Total deductions", FormatWon(b.TotalDeductions))
	row("Net pay", FormatWon(b.NetPay))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
