package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// Solver finds the monthly gross pay needed for a target net pay
type Solver struct {
	CalcEngine *calculation.Engine
	Options    SolverOptions
}

// NewSolver creates a new gross-for-net solver
func NewSolver(calcEngine *calculation.Engine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.Engine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// options merges the request overrides onto the solver defaults.
func (s *Solver) options(req Request) SolverOptions {
	opts := s.Options
	if req.Lower != nil {
		opts.Lower = *req.Lower
	}
	if req.Upper != nil {
		opts.Upper = *req.Upper
	}
	if !req.Tolerance.IsZero() {
		opts.Tolerance = req.Tolerance
	}
	if req.MaxIterations > 0 {
		opts.MaxIterations = req.MaxIterations
	}
	return opts
}

// SolveGross bisects whole-won monthly gross amounts between the bounds. The returned gross
// always produces a net pay at or above the target. Net pay is not strictly monotonic in
// gross because each line is truncated separately, so the result is the smallest gross the
// search visited rather than a global minimum.
func (s *Solver) SolveGross(ctx context.Context, req Request) (*Result, error) {
	if s.CalcEngine == nil {
		return nil, &SolverError{Operation: "solve_gross", Message: "calculation engine is not configured"}
	}
	if req.TargetNet.IsNegative() {
		return nil, &SolverError{
			Operation: "solve_gross",
			Message:   "target net pay cannot be negative",
			Cause:     domain.ErrInvalidInput,
		}
	}

	opts := s.options(req)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	lo := opts.Lower.Ceil()
	hi := opts.Upper.Floor()

	year := req.Year
	if year == 0 {
		year = domain.DefaultTaxYear
	}

	evaluate := func(gross decimal.Decimal) (*domain.TaxBreakdown, error) {
		b, err := s.CalcEngine.CalculateDeductions(req.Template.WithMonthlyGross(gross), year)
		if err != nil {
			return nil, &SolverError{
				Operation: "solve_gross",
				Message:   fmt.Sprintf("failed to calculate deductions at %s", gross.String()),
				Cause:     err,
			}
		}
		return b, nil
	}

	best, err := evaluate(hi)
	if err != nil {
		return nil, err
	}
	if best.NetPay.LessThan(req.TargetNet) {
		return nil, &SolverError{
			Operation: "solve_gross",
			Message: fmt.Sprintf("target net pay %s is unreachable below gross %s (net %s)",
				req.TargetNet.String(), hi.String(), best.NetPay.StringFixed(0)),
		}
	}

	result := &Result{Request: req, Gross: hi, Breakdown: best}

	low, err := evaluate(lo)
	if err != nil {
		return nil, err
	}
	result.Iterations = 1
	if low.NetPay.GreaterThanOrEqual(req.TargetNet) {
		result.Gross = lo
		result.Breakdown = low
		result.Converged = true
		result.Gap = low.NetPay.Sub(req.TargetNet)
		return result, nil
	}

	// lo always misses the target, hi always reaches it
	for result.Iterations < opts.MaxIterations && hi.Sub(lo).GreaterThan(one) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result.Iterations++
		mid := lo.Add(hi).Div(decimal.NewFromInt(2)).Floor()
		b, err := evaluate(mid)
		if err != nil {
			return nil, err
		}
		if b.NetPay.GreaterThanOrEqual(req.TargetNet) {
			hi = mid
			result.Gross = mid
			result.Breakdown = b
			if b.NetPay.Sub(req.TargetNet).LessThanOrEqual(opts.Tolerance) {
				break
			}
		} else {
			lo = mid
		}
	}

	result.Gap = result.Breakdown.NetPay.Sub(req.TargetNet)
	result.Converged = result.Gap.LessThanOrEqual(opts.Tolerance) || hi.Sub(lo).LessThanOrEqual(one)
	return result, nil
}
