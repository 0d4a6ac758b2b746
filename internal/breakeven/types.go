package breakeven

import (
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
)

// Request asks for the monthly gross that yields a target net pay.
type Request struct {
	// TargetNet is the monthly take-home amount to reach.
	TargetNet decimal.Decimal `json:"targetNet"`
	// Template supplies dependents, children and the non-taxable allowance. Its amount is ignored.
	Template domain.SalaryInput `json:"template"`
	Year     domain.TaxYear     `json:"year"`

	// Optional overrides of the solver options
	Lower         *decimal.Decimal `json:"lower,omitempty"`
	Upper         *decimal.Decimal `json:"upper,omitempty"`
	Tolerance     decimal.Decimal  `json:"tolerance,omitempty"`
	MaxIterations int              `json:"maxIterations,omitempty"`
}

// Result is the outcome of a gross-for-net search.
type Result struct {
	Request    Request              `json:"request"`
	Gross      decimal.Decimal      `json:"gross"`
	Breakdown  *domain.TaxBreakdown `json:"breakdown"`
	Gap        decimal.Decimal      `json:"gap"` // net pay minus target, never negative
	Iterations int                  `json:"iterations"`
	Converged  bool                 `json:"converged"`
}

// SolverOptions configures the bisection
type SolverOptions struct {
	Lower         decimal.Decimal // smallest monthly gross considered
	Upper         decimal.Decimal // largest monthly gross considered
	Tolerance     decimal.Decimal // acceptable surplus of net pay over the target
	MaxIterations int
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Lower:         decimal.Zero,
		Upper:         decimal.NewFromInt(1_000_000_000),
		Tolerance:     decimal.NewFromInt(10),
		MaxIterations: 64,
	}
}

// Validate checks that the bounds and limits are usable
func (o SolverOptions) Validate() error {
	if o.Lower.IsNegative() {
		return &SolverError{Operation: "validate_options", Message: "lower bound cannot be negative"}
	}
	if !o.Upper.GreaterThan(o.Lower) {
		return &SolverError{Operation: "validate_options", Message: "upper bound must be greater than lower bound"}
	}
	if o.Tolerance.IsNegative() {
		return &SolverError{Operation: "validate_options", Message: "tolerance cannot be negative"}
	}
	if o.MaxIterations <= 0 {
		return &SolverError{Operation: "validate_options", Message: "max iterations must be positive"}
	}
	return nil
}

// SolverError represents errors from the gross-for-net solver
type SolverError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolverError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *SolverError) Unwrap() error {
	return e.Cause
}
