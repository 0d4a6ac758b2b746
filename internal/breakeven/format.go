package breakeven

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/netpay/internal/output"
)

// TableFormatter formats solver results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a solver result
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("GROSS-FOR-NET SOLUTION\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Tax Year:            %d\n", result.Breakdown.Year))
	sb.WriteString(fmt.Sprintf("Target Net Pay:      %s\n", output.FormatWonUnit(result.Request.TargetNet)))
	sb.WriteString(fmt.Sprintf("Dependents:          %d\n", result.Request.Template.DependentCount))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Converged)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	sb.WriteString("\n")

	b := result.Breakdown
	sb.WriteString("REQUIRED PAY\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Monthly Gross:       %s\n", output.FormatWonUnit(result.Gross)))
	sb.WriteString(fmt.Sprintf("Annual Gross:        %s\n", output.FormatWonUnit(result.Gross.Mul(twelve))))
	sb.WriteString(fmt.Sprintf("Total Deductions:    %s\n", output.FormatWonUnit(b.TotalDeductions)))
	sb.WriteString(fmt.Sprintf("Net Pay:             %s\n", output.FormatWonUnit(b.NetPay)))
	sb.WriteString(fmt.Sprintf("Surplus Over Target: %s\n", output.FormatWonUnit(result.Gap)))

	return sb.String()
}

func (tf *TableFormatter) formatStatus(converged bool) string {
	if converged {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *Result) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}
