package calculation

import (
	"fmt"
	"sync"

	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
)

// Engine computes monthly payroll deductions. It holds only read-only tables and is safe
// for concurrent use.
type Engine struct {
	Tables *TableSet
	Logger Logger
	Debug  bool // log every intermediate line at debug level
}

// NewEngine creates an engine over the given withholding tables.
func NewEngine(tables *TableSet) *Engine {
	return &Engine{
		Tables: tables,
		Logger: NopLogger{},
	}
}

// NewDefaultEngine creates an engine over the embedded tables.
func NewDefaultEngine() (*Engine, error) {
	tables, err := DefaultTables()
	if err != nil {
		return nil, fmt.Errorf("failed to load withholding tables: %w", err)
	}
	return NewEngine(tables), nil
}

// SetLogger sets the logger; nil installs NopLogger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Calculate runs CalculateDeductions for DefaultTaxYear.
func (e *Engine) Calculate(input domain.SalaryInput) (*domain.TaxBreakdown, error) {
	return e.CalculateDeductions(input, domain.DefaultTaxYear)
}

// CalculateDeductions computes every deduction line for one month of pay. Each line is
// truncated to 10 won on its own before the lines are summed. An unsupported year fails
// before any arithmetic happens.
func (e *Engine) CalculateDeductions(input domain.SalaryInput, year domain.TaxYear) (*domain.TaxBreakdown, error) {
	rates, err := Rates(year)
	if err != nil {
		return nil, err
	}
	caps, err := Caps(year)
	if err != nil {
		return nil, err
	}
	if e.Tables == nil {
		return nil, fmt.Errorf("engine has no withholding tables")
	}
	table, err := e.Tables.Table(year)
	if err != nil {
		return nil, err
	}

	gross := input.MonthlyGross()
	taxable := decimal.Max(decimal.Zero, gross.Sub(input.NonTaxableAllowance))

	pension := Truncate10(clamp(taxable, caps.MinPensionBase, caps.MaxPensionBase).Mul(rates.PensionRate))
	// MaxHealthBase is not applied to the health line.
	health := Truncate10(taxable.Mul(rates.HealthRate))
	longTermCare := Truncate10(health.Mul(rates.LongTermCareRateOfHealth))
	employment := Truncate10(taxable.Mul(rates.EmploymentRate))

	rawTax := table.LookupBaseTax(taxable, input.DependentCount)
	credit := ChildCredit(input.QualifyingChildCount())
	incomeTax := Truncate10(decimal.Max(decimal.Zero, rawTax.Sub(credit)))
	localSurtax := Truncate10(incomeTax.Mul(rates.LocalSurtaxRateOfIncomeTax))

	total := pension.Add(health).Add(longTermCare).Add(employment).Add(incomeTax).Add(localSurtax)

	if e.Debug {
		e.Logger.Debugf("year=%d gross=%s taxable=%s pension=%s health=%s ltc=%s employment=%s rawTax=%s credit=%s incomeTax=%s local=%s",
			int(year), gross.StringFixed(2), taxable.StringFixed(2), pension, health, longTermCare, employment,
			rawTax, credit, incomeTax, localSurtax)
	}

	return &domain.TaxBreakdown{
		Year:                     year,
		GrossMonthlyPay:          gross,
		TaxableIncome:            taxable,
		PensionContribution:      pension,
		HealthContribution:       health,
		LongTermCareContribution: longTermCare,
		EmploymentContribution:   employment,
		IncomeTaxBeforeCredit:    rawTax,
		ChildCredit:              credit,
		IncomeTax:                incomeTax,
		LocalSurtax:              localSurtax,
		TotalDeductions:          total,
		NetPay:                   gross.Sub(total),
	}, nil
}

var (
	defaultEngineOnce sync.Once
	defaultEngine     *Engine
	defaultEngineErr  error
)

// CalculateDeductions runs the calculation on a shared engine over the embedded tables.
func CalculateDeductions(input domain.SalaryInput, year domain.TaxYear) (*domain.TaxBreakdown, error) {
	defaultEngineOnce.Do(func() {
		defaultEngine, defaultEngineErr = NewDefaultEngine()
	})
	if defaultEngineErr != nil {
		return nil, defaultEngineErr
	}
	return defaultEngine.CalculateDeductions(input, year)
}
