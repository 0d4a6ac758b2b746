package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/netpay/internal/compare"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare one salary across tax years",
	Long: `Calculate the same salary under each tax year and show the change in every
deduction line relative to the first year listed.`,
	Example: `  netpay compare --amount 3000000
  netpay compare --amount 3000000 --years 2025,2026 --format json`,
	Args: cobra.NoArgs,
	Run:  fatalOnError(runCompare),
}

func init() {
	addSalaryFlags(compareCmd, true)
	compareCmd.Flags().String("years", "", "Comma-separated tax years, the first is the base (default: all)")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json, summary)")
}

func runCompare(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}
	in, err := salaryFromFlags(cmd, true)
	if err != nil {
		return err
	}
	rawYears, _ := cmd.Flags().GetString("years")
	years, err := parseYearList(rawYears)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ce := compare.NewCompareEngine(engine)
	var set *compare.ComparisonSet
	if len(years) == 0 {
		set, err = ce.CompareAll(ctx, in)
	} else {
		set, err = ce.Compare(ctx, in, years)
	}
	if err != nil {
		return err
	}

	var out string
	switch format {
	case "table", "":
		out = (&compare.TableFormatter{}).Format(set)
	case "compact":
		out = (&compare.TableFormatter{}).FormatCompact(set)
	case "csv":
		out, err = (&compare.CSVFormatter{}).Format(set)
	case "json":
		out, err = (&compare.JSONFormatter{Pretty: true}).Format(set)
	case "summary":
		out, err = (&compare.JSONFormatter{Pretty: true, Summary: true}).Format(set)
	default:
		return fmt.Errorf("unknown output format: %s (supported: table, compact, csv, json, summary)", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// parseYearList parses "2025,2026". An empty string yields nil.
func parseYearList(raw string) ([]domain.TaxYear, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var years []domain.TaxYear
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		y, err := domain.ParseTaxYear(part)
		if err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, nil
}
