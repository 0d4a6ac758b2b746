// Package tui is an interactive terminal calculator built on Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/netpay/internal/breakeven"
	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/compare"
	"github.com/rgehrsitz/netpay/internal/config"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/rgehrsitz/netpay/internal/tui/components"
)

// Form field positions
const (
	fieldAmount = iota
	fieldNonTaxable
	fieldDependents
	fieldChildren
	fieldQualifying
)

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	engine  *calculation.Engine
	year    domain.TaxYear
	monthly bool

	form   components.Form
	target components.Form

	breakdown  *domain.TaxBreakdown
	comparison *compare.ComparisonSet
	solution   *breakeven.Result

	err     error
	loading bool
}

// NewModel creates a new application model
func NewModel(engine *calculation.Engine, year domain.TaxYear) Model {
	if year == 0 {
		year = domain.DefaultTaxYear
	}
	return Model{
		currentScene: SceneCalculator,
		engine:       engine,
		year:         year,
		monthly:      true,
		form: components.NewForm(
			[]string{"Salary", "Non-taxable", "Dependents", "Children under 20", "Children 8-20"},
			[]string{"3000000", "0", "1", "0", "0"},
		),
		target: components.NewForm([]string{"Target net pay"}, []string{"2500000"}),
		width:  80,
		height: 24,
	}
}

// Init runs the first calculation with the default form values
func (m Model) Init() tea.Cmd {
	return m.calculateCmd()
}

// Input parses the form into a salary input.
func (m Model) Input() (domain.SalaryInput, error) {
	amount, err := decimal.NewFromString(orZero(m.form.Value(fieldAmount)))
	if err != nil {
		return domain.SalaryInput{}, fmt.Errorf("%w: salary", domain.ErrInvalidInput)
	}
	allowance, err := decimal.NewFromString(orZero(m.form.Value(fieldNonTaxable)))
	if err != nil {
		return domain.SalaryInput{}, fmt.Errorf("%w: non-taxable allowance", domain.ErrInvalidInput)
	}
	counts := make([]int, 3)
	for i, field := range []int{fieldDependents, fieldChildren, fieldQualifying} {
		n, err := strconv.Atoi(orZero(m.form.Value(field)))
		if err != nil {
			return domain.SalaryInput{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, m.form.Fields[field].Label)
		}
		counts[i] = n
	}

	in := domain.SalaryInput{
		Amount:              amount,
		IsMonthly:           m.monthly,
		NonTaxableAllowance: allowance,
		DependentCount:      counts[0],
		ChildrenUnder20:     counts[1],
		QualifyingChildren:  domain.IntPtr(counts[2]),
	}
	if err := config.ValidateAmountRange(in); err != nil {
		return domain.SalaryInput{}, err
	}
	return in, nil
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func (m Model) calculateCmd() tea.Cmd {
	in, err := m.Input()
	engine, year := m.engine, m.year
	return func() tea.Msg {
		if err != nil {
			return CalculationCompleteMsg{Err: err}
		}
		b, err := engine.CalculateDeductions(in, year)
		return CalculationCompleteMsg{Breakdown: b, Err: err}
	}
}

func (m Model) compareCmd() tea.Cmd {
	in, err := m.Input()
	engine := m.engine
	return func() tea.Msg {
		if err != nil {
			return ComparisonCompleteMsg{Err: err}
		}
		set, err := compare.NewCompareEngine(engine).CompareAll(context.Background(), in)
		return ComparisonCompleteMsg{Set: set, Err: err}
	}
}

func (m Model) solveCmd() tea.Cmd {
	in, err := m.Input()
	engine, year := m.engine, m.year
	targetText := orZero(m.target.Value(0))
	return func() tea.Msg {
		if err != nil {
			return SolveCompleteMsg{Err: err}
		}
		target, perr := decimal.NewFromString(targetText)
		if perr != nil {
			return SolveCompleteMsg{Err: fmt.Errorf("%w: target net pay", domain.ErrInvalidInput)}
		}
		result, err := breakeven.NewDefaultSolver(engine).SolveGross(context.Background(), breakeven.Request{
			TargetNet: target,
			Template:  in,
			Year:      year,
		})
		return SolveCompleteMsg{Result: result, Err: err}
	}
}

// nextYear cycles through the supported years.
func nextYear(current domain.TaxYear) domain.TaxYear {
	years := domain.SupportedTaxYears()
	for i, y := range years {
		if y == current {
			return years[(i+1)%len(years)]
		}
	}
	return years[0]
}
