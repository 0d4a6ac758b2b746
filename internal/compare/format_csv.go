package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format writes one row per year and line item
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{"Year", "Type", "Item", "Amount", "Diff from Base"}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	base := compSet.BaseResult
	year := strconv.Itoa(int(base.Year))
	for _, line := range base.Breakdown.Lines() {
		if err := writer.Write([]string{year, "base", line.Key, line.Amount.StringFixed(0), "0"}); err != nil {
			return "", err
		}
	}
	if err := writer.Write([]string{year, "base", "netPay", base.Breakdown.NetPay.StringFixed(2), "0"}); err != nil {
		return "", err
	}

	for _, alt := range compSet.AlternativeResults {
		year := strconv.Itoa(int(alt.Year))
		for _, l := range alt.Lines {
			if err := writer.Write([]string{year, "alternative", l.Key, l.Value.StringFixed(0), l.Diff.StringFixed(0)}); err != nil {
				return "", err
			}
		}
		row := []string{year, "alternative", "netPay", alt.Breakdown.NetPay.StringFixed(2), alt.NetDiffFromBase.StringFixed(2)}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
