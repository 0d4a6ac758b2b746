package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/netpay/internal/config"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// addSalaryFlags registers the flags that describe one salary.
func addSalaryFlags(cmd *cobra.Command, withAmount bool) {
	if withAmount {
		cmd.Flags().StringP("amount", "a", "", "Salary amount in won")
		cmd.Flags().Bool("annual", false, "Treat --amount as an annual salary")
	}
	cmd.Flags().String("non-taxable", "0", "Monthly non-taxable allowance in won")
	cmd.Flags().IntP("dependents", "d", 1, "Dependents including the earner")
	cmd.Flags().Int("children-under-20", 0, "Children under 20")
	cmd.Flags().Int("children-8-20", 0, "Children aged 8 to 20 (child tax credit)")
}

// salaryFromFlags reads the flags added by addSalaryFlags and validates the result.
func salaryFromFlags(cmd *cobra.Command, withAmount bool) (domain.SalaryInput, error) {
	var in domain.SalaryInput
	var err error

	if withAmount {
		raw, _ := cmd.Flags().GetString("amount")
		if strings.TrimSpace(raw) == "" {
			return in, fmt.Errorf("%w: --amount is required", domain.ErrInvalidInput)
		}
		if in.Amount, err = parseWon(raw); err != nil {
			return in, fmt.Errorf("--amount: %w", err)
		}
		annual, _ := cmd.Flags().GetBool("annual")
		in.IsMonthly = !annual
	}

	raw, _ := cmd.Flags().GetString("non-taxable")
	if in.NonTaxableAllowance, err = parseWon(raw); err != nil {
		return in, fmt.Errorf("--non-taxable: %w", err)
	}
	in.DependentCount, _ = cmd.Flags().GetInt("dependents")
	in.ChildrenUnder20, _ = cmd.Flags().GetInt("children-under-20")
	qualifying, _ := cmd.Flags().GetInt("children-8-20")
	in.QualifyingChildren = domain.IntPtr(qualifying)

	if withAmount {
		err = config.ValidateAmountRange(in)
	} else {
		err = config.ValidateSalaryInput(in)
	}
	return in, err
}

// parseWon accepts plain or comma-grouped amounts: "3000000" or "3,000,000".
func parseWon(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not an amount", domain.ErrInvalidInput, raw)
	}
	return d, nil
}

// yearFromFlags parses --year; empty means the default year.
func yearFromFlags(cmd *cobra.Command) (domain.TaxYear, error) {
	raw, _ := cmd.Flags().GetString("year")
	return domain.ParseTaxYear(raw)
}

func addYearFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("year", "y", "", fmt.Sprintf("Tax year (default %d)", domain.DefaultTaxYear))
}

var thousandWon = decimal.NewFromInt(1000)

func decimalInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
