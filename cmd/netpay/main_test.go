package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/netpay/internal/compare"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRootCommand(t *testing.T) {
	cmd := rootCmd

	if cmd == nil {
		t.Fatal("Expected root command to be created")
	}
	if cmd.Use != "netpay" {
		t.Errorf("Expected root command use to be 'netpay', got %s", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Expected root command to have a short description")
	}
	if cmd.Long == "" {
		t.Error("Expected root command to have a long description")
	}
}

func TestRootCommand_Execute(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{})

	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Execute(); err != nil {
		t.Errorf("Expected no error for root command execution, got %v", err)
	}
	if buf.String() == "" {
		t.Error("Expected root command to show help/usage")
	}
}

func TestRootCommand_Help(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"--help"})

	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Execute(); err != nil {
		t.Errorf("Expected no error for help command, got %v", err)
	}
	if !strings.Contains(buf.String(), "calculate") {
		t.Error("Expected help text to list the calculate command")
	}
}

func TestCommandSubcommands(t *testing.T) {
	expectedCommands := []string{
		"calculate",
		"table",
		"compare",
		"solve",
		"brackets",
		"validate",
		"serve",
		"version",
	}

	cmd := rootCmd.Commands()
	for _, expectedCmd := range expectedCommands {
		found := false
		for _, c := range cmd {
			if c.Name() == expectedCmd {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected command '%s' to be registered with root command", expectedCmd)
		}
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"invalid-command"})

	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for invalid command")
	}
}

func TestRootCommand_InvalidFlag(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"--invalid-flag"})

	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for invalid flag")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"version"})

	var buf bytes.Buffer
	cmd.SetOutput(&buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "netpay dev (commit none, built unknown)")
}

// invoke resets cmd's flags, applies flags and calls run directly so errors come back
// instead of reaching log.Fatal.
func invoke(t *testing.T, cmd *cobra.Command, run func(*cobra.Command, []string) error, flags map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value), name)
	}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := run(cmd, args)
	return out.String(), err
}

func TestCalculate_Console(t *testing.T) {
	out, err := invoke(t, calculateCmd, runCalculate, map[string]string{"amount": "3,000,000"})
	require.NoError(t, err)
	assert.Contains(t, out, "MONTHLY NET PAY (2026 rates)")
	assert.Contains(t, out, "2,642,070원")
	assert.Contains(t, out, "357,930원")
}

func TestCalculate_JSON(t *testing.T) {
	out, err := invoke(t, calculateCmd, runCalculate, map[string]string{"amount": "3000000", "format": "json"})
	require.NoError(t, err)

	var b domain.TaxBreakdown
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, domain.Year2026, b.Year)
	assert.Equal(t, "2642070", b.NetPay.String())
}

func TestCalculate_AnnualMatchesMonthly(t *testing.T) {
	monthly, err := invoke(t, calculateCmd, runCalculate, map[string]string{"amount": "3000000", "format": "csv"})
	require.NoError(t, err)
	annual, err := invoke(t, calculateCmd, runCalculate, map[string]string{"amount": "36000000", "annual": "true", "format": "csv"})
	require.NoError(t, err)
	assert.Equal(t, monthly, annual)
}

func TestCalculate_YearChangesResult(t *testing.T) {
	y2025, err := invoke(t, calculateCmd, runCalculate, map[string]string{"amount": "3000000", "year": "2025", "format": "json"})
	require.NoError(t, err)
	var b domain.TaxBreakdown
	require.NoError(t, json.Unmarshal([]byte(y2025), &b))
	assert.Equal(t, domain.Year2025, b.Year)
	assert.Equal(t, "2650220", b.NetPay.String())
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		flags   map[string]string
		wantErr error
		msg     string
	}{
		{name: "missing amount", flags: map[string]string{}, wantErr: domain.ErrInvalidInput},
		{name: "not a number", flags: map[string]string{"amount": "abc"}, wantErr: domain.ErrInvalidInput},
		{name: "negative", flags: map[string]string{"amount": "-1"}, wantErr: domain.ErrInvalidInput},
		{name: "too many qualifying children", flags: map[string]string{"amount": "3000000", "children-8-20": "2", "children-under-20": "1"}, wantErr: domain.ErrInvalidInput},
		{name: "unsupported year", flags: map[string]string{"amount": "3000000", "year": "2024"}, wantErr: domain.ErrUnsupportedYear},
		{name: "unknown format", flags: map[string]string{"amount": "3000000", "format": "xml"}, msg: "unsupported format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := invoke(t, calculateCmd, runCalculate, tt.flags)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

const batchYAML = `year: 2025
salaries:
  - name: "junior"
    amount: 36000000
    dependents: 1
  - name: "parent"
    year: 2026
    amount: 3000000
    is_monthly: true
    dependents: 1
`

func writeBatch(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salaries.yaml")
	require.NoError(t, os.WriteFile(path, []byte(batchYAML), 0o644))
	return path
}

func TestCalculate_Batch(t *testing.T) {
	path := writeBatch(t)

	out, err := invoke(t, calculateCmd, runCalculate, map[string]string{"input": path, "format": "csv"})
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"junior", "2025"}, records[1][:2])
	assert.Equal(t, []string{"parent", "2026"}, records[2][:2])
	assert.Equal(t, "2642070.00", records[2][len(records[2])-1])

	out, err = invoke(t, calculateCmd, runCalculate, map[string]string{"input": path})
	require.NoError(t, err)
	assert.Contains(t, out, "== junior ==")
	assert.Contains(t, out, "== parent ==")

	_, err = invoke(t, calculateCmd, runCalculate, map[string]string{"input": path, "format": "pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalculate_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slip.pdf")
	out, err := invoke(t, calculateCmd, runCalculate, map[string]string{"amount": "3000000", "format": "pdf", "output": path})
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestTable_CSV(t *testing.T) {
	out, err := invoke(t, tableCmd, runTable, map[string]string{
		"start": "30000000", "end": "36000000", "step": "6000000", "format": "csv",
	})
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "36000000", records[2][0])
	assert.Equal(t, "2642070", records[2][len(records[2])-1])
}

func TestTable_Console(t *testing.T) {
	out, err := invoke(t, tableCmd, runTable, map[string]string{"start": "30000000", "end": "32000000"})
	require.NoError(t, err)
	assert.Contains(t, out, "Net pay")
	assert.Contains(t, out, "3,000만원")
}

func TestTable_XLSX(t *testing.T) {
	_, err := invoke(t, tableCmd, runTable, map[string]string{"format": "xlsx"})
	assert.Error(t, err, "xlsx without --output")

	path := filepath.Join(t.TempDir(), "table.xlsx")
	_, err = invoke(t, tableCmd, runTable, map[string]string{
		"start": "30000000", "end": "40000000", "format": "xlsx", "output": path,
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.NotEmpty(t, f.GetSheetList())
}

func TestTable_Errors(t *testing.T) {
	_, err := invoke(t, tableCmd, runTable, map[string]string{"format": "yaml"})
	assert.Error(t, err)

	_, err = invoke(t, tableCmd, runTable, map[string]string{"year": "2030"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedYear)
}

func TestCompare(t *testing.T) {
	out, err := invoke(t, compareCmd, runCompare, map[string]string{"amount": "3000000"})
	require.NoError(t, err)
	assert.Contains(t, out, "TAX YEAR COMPARISON")

	out, err = invoke(t, compareCmd, runCompare, map[string]string{"amount": "3000000", "years": "2025,2026", "format": "json"})
	require.NoError(t, err)
	var set struct {
		BaseYear           int `json:"baseYear"`
		AlternativeResults []struct {
			NetDiffFromBase string `json:"netDiffFromBase"`
		} `json:"alternativeResults"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	assert.Equal(t, 2025, set.BaseYear)
	require.Len(t, set.AlternativeResults, 1)
	assert.Equal(t, "-8150", set.AlternativeResults[0].NetDiffFromBase)
}

func TestCompare_Summary(t *testing.T) {
	out, err := invoke(t, compareCmd, runCompare, map[string]string{"amount": "3000000", "format": "summary"})
	require.NoError(t, err)

	var summary compare.ComparisonSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.Len(t, summary.Years, 2)
	assert.Equal(t, "2650220", summary.Years[0].NetPay.String())
	assert.Equal(t, "2642070", summary.Years[1].NetPay.String())
	assert.Equal(t, "-8150", summary.Years[1].NetDiff.String())
}

func TestCompare_Errors(t *testing.T) {
	_, err := invoke(t, compareCmd, runCompare, map[string]string{"amount": "3000000", "years": "2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = invoke(t, compareCmd, runCompare, map[string]string{"amount": "3000000", "years": "2025,2019"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedYear)

	_, err = invoke(t, compareCmd, runCompare, map[string]string{"amount": "3000000", "format": "html"})
	assert.Error(t, err)
}

func TestParseYearList(t *testing.T) {
	years, err := parseYearList(" 2026, 2025 ,")
	require.NoError(t, err)
	assert.Equal(t, []domain.TaxYear{domain.Year2026, domain.Year2025}, years)

	years, err = parseYearList("")
	require.NoError(t, err)
	assert.Nil(t, years)

	_, err = parseYearList("twenty")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSolve(t *testing.T) {
	out, err := invoke(t, solveCmd, runSolve, map[string]string{"target": "2642070"})
	require.NoError(t, err)
	assert.Contains(t, out, "GROSS-FOR-NET SOLUTION")
	assert.Contains(t, out, "Converged")

	out, err = invoke(t, solveCmd, runSolve, map[string]string{"target": "2642070", "format": "json"})
	require.NoError(t, err)
	var result struct {
		Gross     string `json:"gross"`
		Converged bool   `json:"converged"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Converged)
	assert.NotEmpty(t, result.Gross)
}

func TestSolve_Errors(t *testing.T) {
	_, err := invoke(t, solveCmd, runSolve, map[string]string{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = invoke(t, solveCmd, runSolve, map[string]string{"target": "-5"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = invoke(t, solveCmd, runSolve, map[string]string{"target": "2500000", "format": "xml"})
	assert.Error(t, err)
}

func TestBrackets(t *testing.T) {
	out, err := invoke(t, bracketsCmd, runBrackets, nil, "3000000")
	require.NoError(t, err)
	assert.Contains(t, out, "Withholding table 2026")
	assert.Contains(t, out, "Band: 3,000 to 3,020 thousand won")
	assert.Contains(t, out, "60,380")

	out, err = invoke(t, bracketsCmd, runBrackets, nil, "12,000,000")
	require.NoError(t, err)
	assert.Contains(t, out, "above table ceiling")

	_, err = invoke(t, bracketsCmd, runBrackets, nil, "lots")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidate(t *testing.T) {
	out, err := invoke(t, validateCmd, runValidate, nil, writeBatch(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid: 2 salaries, base year 2025")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("salaries: []\n"), 0o644))
	_, err = invoke(t, validateCmd, runValidate, nil, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseWon(t *testing.T) {
	d, err := parseWon(" 3,000,000 ")
	require.NoError(t, err)
	assert.Equal(t, "3000000", d.String())

	d, err = parseWon("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseWon("3백만")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
