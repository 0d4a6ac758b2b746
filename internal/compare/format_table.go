package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/netpay/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table with one column per year
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	nameWidth := 22
	numWidth := 14

	results := append([]ComparisonResult{*compSet.BaseResult}, compSet.AlternativeResults...)
	width := nameWidth + (numWidth+1)*(len(results)+len(compSet.AlternativeResults))

	sb.WriteString("TAX YEAR COMPARISON\n")
	sb.WriteString(strings.Repeat("=", width) + "\n")
	sb.WriteString(fmt.Sprintf("Base Year: %d\n\n", int(compSet.BaseYear)))

	// header
	sb.WriteString(fmt.Sprintf("%-*s", nameWidth, "Item"))
	for _, r := range results {
		sb.WriteString(fmt.Sprintf(" %*d", numWidth, int(r.Year)))
	}
	for _, alt := range compSet.AlternativeResults {
		sb.WriteString(fmt.Sprintf(" %*s", numWidth, fmt.Sprintf("Δ %d", int(alt.Year))))
	}
	sb.WriteString("\n" + strings.Repeat("-", width) + "\n")

	row := func(label string, pick func(ComparisonResult) decimal.Decimal, diffs []decimal.Decimal) {
		sb.WriteString(fmt.Sprintf("%-*s", nameWidth, label))
		for _, r := range results {
			sb.WriteString(fmt.Sprintf(" %*s", numWidth, output.FormatWon(pick(r))))
		}
		for _, d := range diffs {
			sb.WriteString(fmt.Sprintf(" %*s", numWidth, tf.formatDelta(d)))
		}
		sb.WriteString("\n")
	}

	row("Gross pay", func(r ComparisonResult) decimal.Decimal { return r.Breakdown.GrossMonthlyPay }, nil)
	for i, line := range compSet.BaseResult.Breakdown.Lines() {
		idx := i
		diffs := make([]decimal.Decimal, 0, len(compSet.AlternativeResults))
		for _, alt := range compSet.AlternativeResults {
			diffs = append(diffs, alt.Lines[idx].Diff)
		}
		row(line.Label, func(r ComparisonResult) decimal.Decimal { return r.Breakdown.Lines()[idx].Amount }, diffs)
	}

	sb.WriteString(strings.Repeat("-", width) + "\n")
	totalDiffs := make([]decimal.Decimal, 0, len(compSet.AlternativeResults))
	netDiffs := make([]decimal.Decimal, 0, len(compSet.AlternativeResults))
	for _, alt := range compSet.AlternativeResults {
		totalDiffs = append(totalDiffs, alt.TotalDiffFromBase)
		netDiffs = append(netDiffs, alt.NetDiffFromBase)
	}
	row("Total deductions", func(r ComparisonResult) decimal.Decimal { return r.Breakdown.TotalDeductions }, totalDiffs)
	row("Net pay", func(r ComparisonResult) decimal.Decimal { return r.Breakdown.NetPay }, netDiffs)
	sb.WriteString(strings.Repeat("=", width) + "\n")

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nSUMMARY\n")
		sb.WriteString(strings.Repeat("-", width) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
	}

	return sb.String()
}

// formatDelta renders a signed won difference
func (tf *TableFormatter) formatDelta(d decimal.Decimal) string {
	if d.IsZero() {
		return "0"
	}
	if d.IsPositive() {
		return "+" + output.FormatWon(d)
	}
	return "-" + output.FormatWon(d.Abs())
}

// FormatCompact creates a compact single-line summary
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base %d net %s", int(compSet.BaseYear), output.FormatWon(compSet.BaseResult.Breakdown.NetPay)))
	for _, alt := range compSet.AlternativeResults {
		sb.WriteString(fmt.Sprintf(" | %d: %s", int(alt.Year), tf.formatDelta(alt.NetDiffFromBase)))
	}

	return sb.String()
}
