package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/output"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Generate the annual salary reference table",
	Long: `Evaluate every annual salary between --start and --end in --step increments and
print the monthly deductions for each one. xlsx output requires --output.`,
	Example: `  netpay table
  netpay table --start 30000000 --end 80000000 --step 5000000 --dependents 2
  netpay table --format xlsx --output salaries.xlsx`,
	Args: cobra.NoArgs,
	Run:  fatalOnError(runTable),
}

func init() {
	addSalaryFlags(tableCmd, false)
	addYearFlag(tableCmd)
	tableCmd.Flags().Int64("start", calculation.DefaultTableStart, "First annual salary in won")
	tableCmd.Flags().Int64("end", calculation.DefaultTableEnd, "Last annual salary in won")
	tableCmd.Flags().Int64("step", calculation.DefaultTableStep, "Annual salary increment in won")
	tableCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json, xlsx)")
	tableCmd.Flags().StringP("output", "o", "", "Write the table to a file instead of stdout")
}

func runTable(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}
	in, err := salaryFromFlags(cmd, false)
	if err != nil {
		return err
	}
	year, err := yearFromFlags(cmd)
	if err != nil {
		return err
	}
	start, _ := cmd.Flags().GetInt64("start")
	end, _ := cmd.Flags().GetInt64("end")
	step, _ := cmd.Flags().GetInt64("step")
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")

	if format == "xlsx" && outPath == "" {
		return fmt.Errorf("xlsx output requires --output")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := engine.SalaryTable(ctx, calculation.TableOptions{
		Start:               start,
		End:                 end,
		Step:                step,
		Year:                year,
		DependentCount:      in.DependentCount,
		QualifyingChildren:  in.QualifyingChildCount(),
		NonTaxableAllowance: in.NonTaxableAllowance,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case "table", "":
		buf.WriteString(output.FormatSalaryTable(rows))
	case "csv":
		data, err := output.SalaryTableCSV(rows)
		if err != nil {
			return err
		}
		buf.Write(data)
	case "json":
		data, err := output.SalaryTableJSON(rows)
		if err != nil {
			return err
		}
		buf.Write(data)
	case "xlsx":
		if err := output.WriteSalaryTableXLSX(&buf, rows); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format: %s (supported: table, csv, json, xlsx)", format)
	}

	if err := writeOutput(cmd.OutOrStdout(), outPath, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	if outPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Table with %d rows written to %s\n", len(rows), outPath)
	}
	return nil
}
