package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/netpay/internal/breakeven"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Find the monthly gross that yields a target net pay",
	Long: `Search for the smallest monthly gross salary whose take-home pay reaches --target
for the given household. The search is a bisection over whole won.`,
	Example: `  netpay solve --target 2500000
  netpay solve --target 4000000 --dependents 3 --children-under-20 2 --format json`,
	Args: cobra.NoArgs,
	Run:  fatalOnError(runSolve),
}

func init() {
	addSalaryFlags(solveCmd, false)
	addYearFlag(solveCmd)
	solveCmd.Flags().StringP("target", "t", "", "Target monthly net pay in won")
	solveCmd.Flags().String("tolerance", "10", "Acceptable surplus of net pay over the target in won")
	solveCmd.Flags().Int("max-iterations", 0, "Bisection iteration limit (0 uses the default)")
	solveCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	_ = solveCmd.MarkFlagRequired("target")
}

func runSolve(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}
	template, err := salaryFromFlags(cmd, false)
	if err != nil {
		return err
	}
	year, err := yearFromFlags(cmd)
	if err != nil {
		return err
	}
	rawTarget, _ := cmd.Flags().GetString("target")
	if strings.TrimSpace(rawTarget) == "" {
		return fmt.Errorf("%w: --target is required", domain.ErrInvalidInput)
	}
	target, err := parseWon(rawTarget)
	if err != nil {
		return fmt.Errorf("--target: %w", err)
	}
	rawTolerance, _ := cmd.Flags().GetString("tolerance")
	tolerance, err := parseWon(rawTolerance)
	if err != nil {
		return fmt.Errorf("--tolerance: %w", err)
	}
	maxIter, _ := cmd.Flags().GetInt("max-iterations")
	format, _ := cmd.Flags().GetString("format")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := breakeven.NewDefaultSolver(engine).SolveGross(ctx, breakeven.Request{
		TargetNet:     target,
		Template:      template,
		Year:          year,
		Tolerance:     tolerance,
		MaxIterations: maxIter,
	})
	if err != nil {
		return err
	}

	var out string
	switch format {
	case "table", "":
		out = (&breakeven.TableFormatter{}).Format(result)
	case "json":
		out, err = (&breakeven.JSONFormatter{Pretty: true}).Format(result)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format: %s (supported: table, json)", format)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
