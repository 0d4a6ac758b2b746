package breakeven

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSolver(t *testing.T) *Solver {
	t.Helper()
	engine, err := calculation.NewDefaultEngine()
	require.NoError(t, err)
	return NewDefaultSolver(engine)
}

func won(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestNewSolver(t *testing.T) {
	engine := &calculation.Engine{}
	options := DefaultSolverOptions()

	solver := NewSolver(engine, options)
	require.NotNil(t, solver)
	assert.Same(t, engine, solver.CalcEngine)
	assert.Equal(t, options, solver.Options)
}

func TestDefaultSolverOptions(t *testing.T) {
	opts := DefaultSolverOptions()
	assert.NoError(t, opts.Validate())
	assert.True(t, opts.Lower.IsZero())
	assert.Equal(t, 64, opts.MaxIterations)
}

func TestSolverOptions_Validate(t *testing.T) {
	base := DefaultSolverOptions()
	tests := []struct {
		name   string
		mutate func(*SolverOptions)
		want   string
	}{
		{"negative lower", func(o *SolverOptions) { o.Lower = won(-1) }, "lower bound"},
		{"inverted bounds", func(o *SolverOptions) { o.Upper = o.Lower }, "upper bound"},
		{"negative tolerance", func(o *SolverOptions) { o.Tolerance = won(-10) }, "tolerance"},
		{"no iterations", func(o *SolverOptions) { o.MaxIterations = 0 }, "max iterations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.mutate(&opts)
			err := opts.Validate()
			require.Error(t, err)

			var solverErr *SolverError
			require.True(t, errors.As(err, &solverErr))
			assert.Equal(t, "validate_options", solverErr.Operation)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSolveGross_ReachesTarget(t *testing.T) {
	solver := newTestSolver(t)

	for _, deps := range []int{1, 3} {
		for _, target := range []int64{1500000, 2642070, 4000000, 9000000} {
			req := Request{
				TargetNet: won(target),
				Template:  domain.SalaryInput{DependentCount: deps},
				Year:      domain.Year2026,
			}
			result, err := solver.SolveGross(context.Background(), req)
			require.NoError(t, err, "target %d", target)

			assert.True(t, result.Breakdown.NetPay.GreaterThanOrEqual(req.TargetNet), "net below target %d", target)
			assert.False(t, result.Gap.IsNegative())
			assert.True(t, result.Converged)
			assert.LessOrEqual(t, result.Iterations, solver.Options.MaxIterations)
			assert.True(t, result.Gross.Equal(result.Gross.Floor()), "gross should be whole won")

			// the reported breakdown is the engine's own answer for the gross
			check, err := solver.CalcEngine.CalculateDeductions(domain.SalaryInput{
				Amount: result.Gross, IsMonthly: true, DependentCount: deps,
			}, domain.Year2026)
			require.NoError(t, err)
			assert.Equal(t, check, result.Breakdown)
		}
	}
}

func TestSolveGross_KnownPoint(t *testing.T) {
	solver := newTestSolver(t)

	result, err := solver.SolveGross(context.Background(), Request{
		TargetNet: won(2642070),
		Template:  domain.SalaryInput{DependentCount: 1},
		Year:      domain.Year2026,
	})
	require.NoError(t, err)

	// 3,000,000 won nets exactly 2,642,070 won in 2026
	assert.True(t, result.Gross.LessThanOrEqual(won(3000100)))
	assert.True(t, result.Gross.GreaterThan(won(2990000)))
}

func TestSolveGross_TemplateCarriesAllowance(t *testing.T) {
	solver := newTestSolver(t)
	template := domain.SalaryInput{
		DependentCount:      1,
		NonTaxableAllowance: won(200000),
		Amount:              won(123), // ignored
	}

	result, err := solver.SolveGross(context.Background(), Request{
		TargetNet: won(3000000),
		Template:  template,
		Year:      domain.Year2025,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Year2025, result.Breakdown.Year)
	assert.True(t, result.Breakdown.TaxableIncome.Equal(result.Gross.Sub(won(200000))))
}

func TestSolveGross_LowerBoundAlreadyMeetsTarget(t *testing.T) {
	solver := newTestSolver(t)
	lower := won(5000000)

	result, err := solver.SolveGross(context.Background(), Request{
		TargetNet: won(1000000),
		Template:  domain.SalaryInput{DependentCount: 1},
		Lower:     &lower,
	})
	require.NoError(t, err)
	assert.True(t, result.Gross.Equal(lower))
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, domain.DefaultTaxYear, result.Breakdown.Year)
}

func TestSolveGross_Unreachable(t *testing.T) {
	solver := newTestSolver(t)
	upper := won(1000000)

	_, err := solver.SolveGross(context.Background(), Request{
		TargetNet: won(5000000),
		Template:  domain.SalaryInput{DependentCount: 1},
		Upper:     &upper,
	})
	require.Error(t, err)

	var solverErr *SolverError
	require.True(t, errors.As(err, &solverErr))
	assert.True(t, strings.Contains(solverErr.Message, "unreachable"))
}

func TestSolveGross_InvalidRequests(t *testing.T) {
	solver := newTestSolver(t)

	_, err := solver.SolveGross(context.Background(), Request{TargetNet: won(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	lower, upper := won(10), won(5)
	_, err = solver.SolveGross(context.Background(), Request{TargetNet: won(100), Lower: &lower, Upper: &upper})
	var solverErr *SolverError
	require.True(t, errors.As(err, &solverErr))
	assert.Equal(t, "validate_options", solverErr.Operation)

	_, err = solver.SolveGross(context.Background(), Request{TargetNet: won(100), Year: domain.TaxYear(2030)})
	assert.ErrorIs(t, err, domain.ErrUnsupportedYear)

	_, err = NewDefaultSolver(nil).SolveGross(context.Background(), Request{TargetNet: won(100)})
	assert.Error(t, err)
}

func TestSolveGross_ContextCancellation(t *testing.T) {
	solver := newTestSolver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.SolveGross(ctx, Request{
		TargetNet: won(2500000),
		Template:  domain.SalaryInput{DependentCount: 1},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolveGross_MaxIterationsExceeded(t *testing.T) {
	solver := newTestSolver(t)

	result, err := solver.SolveGross(context.Background(), Request{
		TargetNet:     won(2642070),
		Template:      domain.SalaryInput{DependentCount: 1},
		MaxIterations: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Iterations)
	assert.False(t, result.Converged)
	assert.True(t, result.Breakdown.NetPay.GreaterThanOrEqual(won(2642070)))
}

func TestSolverError(t *testing.T) {
	cause := errors.New("boom")
	err := &SolverError{Operation: "solve_gross", Message: "failed", Cause: cause}
	assert.Equal(t, "solve_gross: failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := &SolverError{Operation: "validate_options", Message: "bad"}
	assert.Equal(t, "validate_options: bad", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestFormatters(t *testing.T) {
	solver := newTestSolver(t)
	result, err := solver.SolveGross(context.Background(), Request{
		TargetNet: won(2642070),
		Template:  domain.SalaryInput{DependentCount: 1},
		Year:      domain.Year2026,
	})
	require.NoError(t, err)

	table := (&TableFormatter{}).Format(result)
	assert.Contains(t, table, "GROSS-FOR-NET SOLUTION")
	assert.Contains(t, table, "2,642,070원")
	assert.Contains(t, table, "✓ Converged")

	out, err := (&JSONFormatter{Pretty: true}).Format(result)
	require.NoError(t, err)
	assert.Contains(t, out, `"converged": true`)
	assert.Contains(t, out, `"targetNet": "2642070"`)
}
