package compare

import (
	"fmt"

	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/rgehrsitz/netpay/internal/output"
	"github.com/shopspring/decimal"
)

// LineDiff is the change in one deduction line relative to the base year.
type LineDiff struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Base  decimal.Decimal `json:"base"`
	Value decimal.Decimal `json:"value"`
	Diff  decimal.Decimal `json:"diff"`
}

// ComparisonResult is one year's breakdown plus its differences from the base year
type ComparisonResult struct {
	Year      domain.TaxYear       `json:"year"`
	Breakdown *domain.TaxBreakdown `json:"breakdown"`

	// Comparison to Base
	NetDiffFromBase   decimal.Decimal `json:"netDiffFromBase"`
	TotalDiffFromBase decimal.Decimal `json:"totalDiffFromBase"`
	Lines             []LineDiff      `json:"lines,omitempty"`
}

// ComparisonSet is one salary evaluated under several years
type ComparisonSet struct {
	Input              domain.SalaryInput `json:"input"`
	BaseYear           domain.TaxYear     `json:"baseYear"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
}

// CalculateComparison fills in the differences between result and base
func CalculateComparison(result, base ComparisonResult) ComparisonResult {
	result.NetDiffFromBase = result.Breakdown.NetPay.Sub(base.Breakdown.NetPay)
	result.TotalDiffFromBase = result.Breakdown.TotalDeductions.Sub(base.Breakdown.TotalDeductions)

	baseLines := base.Breakdown.Lines()
	lines := result.Breakdown.Lines()
	result.Lines = make([]LineDiff, len(lines))
	for i, l := range lines {
		result.Lines[i] = LineDiff{
			Key:   l.Key,
			Label: l.Label,
			Base:  baseLines[i].Amount,
			Value: l.Amount,
			Diff:  l.Amount.Sub(baseLines[i].Amount),
		}
	}
	return result
}

// GenerateRecommendations summarises which year leaves more take-home pay
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	for _, alt := range compSet.AlternativeResults {
		switch {
		case alt.NetDiffFromBase.IsNegative():
			recommendations = append(recommendations, fmt.Sprintf(
				"Net pay under %d is %s won lower per month than under %d",
				int(alt.Year), output.FormatWon(alt.NetDiffFromBase.Abs()), int(compSet.BaseYear)))
		case alt.NetDiffFromBase.IsPositive():
			recommendations = append(recommendations, fmt.Sprintf(
				"Net pay under %d is %s won higher per month than under %d",
				int(alt.Year), output.FormatWon(alt.NetDiffFromBase), int(compSet.BaseYear)))
		default:
			recommendations = append(recommendations, fmt.Sprintf(
				"Net pay is unchanged between %d and %d", int(compSet.BaseYear), int(alt.Year)))
		}

		// largest single mover
		var biggest *LineDiff
		for i := range alt.Lines {
			if biggest == nil || alt.Lines[i].Diff.Abs().GreaterThan(biggest.Diff.Abs()) {
				biggest = &alt.Lines[i]
			}
		}
		if biggest != nil && !biggest.Diff.IsZero() {
			recommendations = append(recommendations, fmt.Sprintf(
				"Largest change in %d: %s (%s%s won)",
				int(alt.Year), biggest.Label, sign(biggest.Diff), output.FormatWon(biggest.Diff.Abs())))
		}
	}

	return recommendations
}

func sign(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-"
	}
	return "+"
}
