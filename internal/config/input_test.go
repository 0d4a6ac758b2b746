package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	batch, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, batch, "Should return nil batch")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.yaml")

	err := os.WriteFile(invalidFile, []byte("invalid: yaml: content: [unclosed"), 0644)
	assert.NoError(t, err)

	parser := NewInputParser()
	batch, err := parser.LoadFromFile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, batch, "Should return nil batch")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "valid.yaml")

	validYAML := `
year: 2025
salaries:
  - name: "junior"
    amount: 36000000
    non_taxable: 200000
    dependents: 1
  - name: "parent"
    year: 2026
    amount: 5000000
    is_monthly: true
    dependents: 4
    children_under_20: 2
    children_8_to_20: 2
`
	err := os.WriteFile(validFile, []byte(validYAML), 0644)
	require.NoError(t, err)

	parser := NewInputParser()
	batch, err := parser.LoadFromFile(validFile)
	require.NoError(t, err, "Should load valid YAML")

	assert.Equal(t, domain.Year2025, batch.Year)
	require.Len(t, batch.Salaries, 2)

	junior := batch.Salaries[0]
	assert.Equal(t, "junior", junior.Name)
	assert.True(t, junior.Amount.Equal(decimal.NewFromInt(36000000)))
	assert.True(t, junior.NonTaxableAllowance.Equal(decimal.NewFromInt(200000)))
	assert.False(t, junior.IsMonthly)
	assert.Nil(t, junior.QualifyingChildren)
	assert.Equal(t, domain.Year2025, batch.YearFor(junior))

	parent := batch.Salaries[1]
	assert.True(t, parent.IsMonthly)
	assert.Equal(t, 2, parent.QualifyingChildCount())
	assert.Equal(t, domain.Year2026, batch.YearFor(parent))
}

func TestInputParser_Load_DefaultYear(t *testing.T) {
	batch, err := NewInputParser().Load(strings.NewReader("salaries:\n  - amount: 3000000\n    is_monthly: true\n"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTaxYear, batch.Year)
}

func TestInputParser_ValidateBatch(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		msg     string
	}{
		{
			name:    "unsupported batch year",
			yaml:    "year: 2020\nsalaries:\n  - amount: 1\n",
			wantErr: domain.ErrUnsupportedYear,
		},
		{
			name:    "unsupported entry year",
			yaml:    "salaries:\n  - name: a\n    year: 2031\n    amount: 1\n",
			wantErr: domain.ErrUnsupportedYear,
			msg:     "salary a",
		},
		{
			name:    "empty",
			yaml:    "year: 2026\n",
			wantErr: domain.ErrInvalidInput,
			msg:     "no salaries",
		},
		{
			name:    "duplicate names",
			yaml:    "salaries:\n  - {name: a, amount: 1}\n  - {name: a, amount: 2}\n",
			wantErr: domain.ErrInvalidInput,
			msg:     "duplicate",
		},
		{
			name:    "negative amount",
			yaml:    "salaries:\n  - amount: -1\n",
			wantErr: domain.ErrInvalidInput,
			msg:     "salary #1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().Load(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestValidateSalaryInput(t *testing.T) {
	valid := domain.SalaryInput{
		Amount:          decimal.NewFromInt(3000000),
		IsMonthly:       true,
		DependentCount:  3,
		ChildrenUnder20: 2,
	}
	assert.NoError(t, ValidateSalaryInput(valid))

	atLimit := valid
	atLimit.ChildrenUnder20 = MaxChildren
	atLimit.QualifyingChildren = domain.IntPtr(MaxChildren)
	assert.NoError(t, ValidateSalaryInput(atLimit))

	zeroDependents := valid
	zeroDependents.DependentCount = 0
	assert.NoError(t, ValidateSalaryInput(zeroDependents), "engine clamps dependents, zero is allowed")

	tests := []struct {
		name   string
		mutate func(*domain.SalaryInput)
		msg    string
	}{
		{"negative amount", func(s *domain.SalaryInput) { s.Amount = decimal.NewFromInt(-1) }, "amount"},
		{"negative allowance", func(s *domain.SalaryInput) { s.NonTaxableAllowance = decimal.NewFromInt(-1) }, "non-taxable"},
		{"negative dependents", func(s *domain.SalaryInput) { s.DependentCount = -1 }, "dependents"},
		{"negative children", func(s *domain.SalaryInput) { s.ChildrenUnder20 = -1 }, "children under 20"},
		{"negative qualifying", func(s *domain.SalaryInput) { s.QualifyingChildren = domain.IntPtr(-1) }, "8 to 20"},
		{"qualifying above children", func(s *domain.SalaryInput) { s.QualifyingChildren = domain.IntPtr(3) }, "exceed"},
		{"too many children", func(s *domain.SalaryInput) {
			s.ChildrenUnder20 = 368934881474201
			s.QualifyingChildren = domain.IntPtr(368934881474201)
		}, "cannot exceed 20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := ValidateSalaryInput(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidateAmountRange(t *testing.T) {
	in := domain.SalaryInput{Amount: MaxAmount.Add(decimal.NewFromInt(1))}
	err := ValidateAmountRange(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in.Amount = MaxAmount
	assert.NoError(t, ValidateAmountRange(in))
}
