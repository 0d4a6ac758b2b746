package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/config"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/rgehrsitz/netpay/internal/output"
	"github.com/spf13/cobra"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate monthly deductions and net pay",
	Long: `Calculate the six deduction lines and the take-home pay for one salary given by
flags, or for every salary in a YAML batch file passed with --input.`,
	Example: `  netpay calculate --amount 3000000
  netpay calculate --amount 60000000 --annual --dependents 3 --children-under-20 2 --children-8-20 1
  netpay calculate --input salaries.yaml --format csv --output report.csv`,
	Args: cobra.NoArgs,
	Run:  fatalOnError(runCalculate),
}

func init() {
	addSalaryFlags(calculateCmd, true)
	addYearFlag(calculateCmd)
	calculateCmd.Flags().StringP("input", "i", "", "YAML batch file of salaries")
	calculateCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv, pdf)")
	calculateCmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")
	inputPath, _ := cmd.Flags().GetString("input")

	var buf bytes.Buffer
	if inputPath != "" {
		if err := calculateBatch(&buf, engine, inputPath, format); err != nil {
			return err
		}
	} else {
		in, err := salaryFromFlags(cmd, true)
		if err != nil {
			return err
		}
		year, err := yearFromFlags(cmd)
		if err != nil {
			return err
		}
		breakdown, err := engine.CalculateDeductions(in, year)
		if err != nil {
			return err
		}
		if err := output.GenerateReport(&buf, breakdown, format); err != nil {
			return err
		}
	}

	if err := writeOutput(cmd.OutOrStdout(), outPath, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if outPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", outPath)
	}
	return nil
}

// calculateBatch evaluates every entry of a batch file. A PDF cannot be concatenated, so
// batches only support the text formats.
func calculateBatch(w io.Writer, engine *calculation.Engine, path, format string) error {
	if format == "pdf" {
		return fmt.Errorf("%w: pdf output supports a single salary only", domain.ErrInvalidInput)
	}
	batch, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return err
	}

	items := make([]output.NamedBreakdown, 0, len(batch.Salaries))
	for i, entry := range batch.Salaries {
		b, err := engine.CalculateDeductions(entry.SalaryInput, batch.YearFor(entry))
		if err != nil {
			return fmt.Errorf("salary %s: %w", entryLabel(entry, i), err)
		}
		items = append(items, output.NamedBreakdown{Name: entryLabel(entry, i), Breakdown: b})
	}

	var data []byte
	switch format {
	case "json":
		data, err = output.BatchJSON(items)
	case "csv":
		data, err = output.BatchCSV(items)
	case "console", "":
		for _, item := range items {
			fmt.Fprintf(w, "== %s ==\n", item.Name)
			if err := output.GenerateReport(w, item.Breakdown, "console"); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func entryLabel(e config.SalaryEntry, i int) string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("#%d", i+1)
}
