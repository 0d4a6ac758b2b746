package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/rgehrsitz/netpay/internal/output"
	"github.com/spf13/cobra"
)

var bracketsCmd = &cobra.Command{
	Use:   "brackets <monthly-taxable-income>",
	Short: "Look up the withholding table for a monthly taxable income",
	Long: `Print the withholding-table band containing the income and the base tax for every
dependent count. Income at or above 10,000,000 won also shows the high-income addition.`,
	Example: `  netpay brackets 3000000
  netpay brackets 12,000,000 --year 2025`,
	Args: cobra.ExactArgs(1),
	Run:  fatalOnError(runBrackets),
}

func init() {
	addYearFlag(bracketsCmd)
}

func runBrackets(cmd *cobra.Command, args []string) error {
	income, err := parseWon(args[0])
	if err != nil {
		return err
	}
	if income.IsNegative() {
		return fmt.Errorf("income cannot be negative")
	}
	year, err := yearFromFlags(cmd)
	if err != nil {
		return err
	}
	brackets, err := calculation.TableFor(year)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Withholding table %d, monthly taxable income %s\n", int(year), output.FormatWonUnit(income))

	thousand := income.Div(thousandWon).IntPart()
	if thousand >= calculation.TableCeiling {
		fmt.Fprintf(w, "Band: above table ceiling (high-income addition %s)\n",
			output.FormatWonUnit(calculation.HighIncomeTax(income)))
	} else {
		for _, row := range brackets.Rows() {
			if row.Contains(thousand) {
				fmt.Fprintf(w, "Band: %s to %s thousand won\n",
					output.FormatWon(decimalInt(row.Min)), output.FormatWon(decimalInt(row.Max)))
				break
			}
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Dependents", "Base tax")
	for d := 1; d <= domain.DependentColumns; d++ {
		t.Row(strconv.Itoa(d), output.FormatWon(brackets.LookupBaseTax(income, d)))
	}
	fmt.Fprintln(w, t.Render())
	return nil
}
