package config

import (
	"fmt"
	"io"
	"os"

	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SalaryEntry is one named salary in a batch file. An unset Year falls back to the batch year.
type SalaryEntry struct {
	Name               string         `yaml:"name"`
	Year               domain.TaxYear `yaml:"year,omitempty"`
	domain.SalaryInput `yaml:",inline"`
}

// Batch is a file of salaries evaluated together.
type Batch struct {
	Year     domain.TaxYear `yaml:"year"`
	Salaries []SalaryEntry  `yaml:"salaries"`
}

// YearFor returns the year the entry is evaluated under.
func (b *Batch) YearFor(e SalaryEntry) domain.TaxYear {
	if e.Year != 0 {
		return e.Year
	}
	return b.Year
}

// InputParser handles parsing of batch input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a batch from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*Batch, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	defer f.Close()

	return ip.Load(f)
}

// Load parses and validates a batch from r
func (ip *InputParser) Load(r io.Reader) (*Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if batch.Year == 0 {
		batch.Year = domain.DefaultTaxYear
	}

	if err := ip.ValidateBatch(&batch); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &batch, nil
}

// ValidateBatch validates every entry and the years they use
func (ip *InputParser) ValidateBatch(batch *Batch) error {
	if !batch.Year.Supported() {
		return &domain.UnsupportedYearError{Year: batch.Year}
	}
	if len(batch.Salaries) == 0 {
		return fmt.Errorf("%w: no salaries provided", domain.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(batch.Salaries))
	for i, entry := range batch.Salaries {
		label := entry.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		} else if seen[entry.Name] {
			return fmt.Errorf("%w: duplicate salary name %q", domain.ErrInvalidInput, entry.Name)
		}
		seen[entry.Name] = true

		if year := batch.YearFor(entry); !year.Supported() {
			return fmt.Errorf("salary %s: %w", label, &domain.UnsupportedYearError{Year: year})
		}
		if err := ValidateSalaryInput(entry.SalaryInput); err != nil {
			return fmt.Errorf("salary %s validation failed: %w", label, err)
		}
	}
	return nil
}

// ValidateSalaryInput rejects inputs the engine does not accept. Every error wraps
// domain.ErrInvalidInput.
func ValidateSalaryInput(in domain.SalaryInput) error {
	if in.Amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", domain.ErrInvalidInput)
	}
	if in.NonTaxableAllowance.IsNegative() {
		return fmt.Errorf("%w: non-taxable allowance cannot be negative", domain.ErrInvalidInput)
	}
	if in.DependentCount < 0 {
		return fmt.Errorf("%w: dependents cannot be negative", domain.ErrInvalidInput)
	}
	if in.ChildrenUnder20 < 0 {
		return fmt.Errorf("%w: children under 20 cannot be negative", domain.ErrInvalidInput)
	}
	if in.ChildrenUnder20 > MaxChildren {
		return fmt.Errorf("%w: children under 20 cannot exceed %d", domain.ErrInvalidInput, MaxChildren)
	}
	if q := in.QualifyingChildCount(); q < 0 {
		return fmt.Errorf("%w: children aged 8 to 20 cannot be negative", domain.ErrInvalidInput)
	} else if q > in.ChildrenUnder20 {
		return fmt.Errorf("%w: children aged 8 to 20 (%d) exceed children under 20 (%d)",
			domain.ErrInvalidInput, q, in.ChildrenUnder20)
	}
	return nil
}

// MaxChildren bounds the child counts of one household.
const MaxChildren = 20

// MaxAmount guards the HTTP and CLI surfaces against absurd inputs, 100 billion won.
var MaxAmount = decimal.NewFromInt(100_000_000_000)

// ValidateAmountRange applies MaxAmount on top of ValidateSalaryInput.
func ValidateAmountRange(in domain.SalaryInput) error {
	if err := ValidateSalaryInput(in); err != nil {
		return err
	}
	if in.Amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: amount exceeds %s", domain.ErrInvalidInput, MaxAmount.String())
	}
	return nil
}
