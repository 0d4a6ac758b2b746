package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/domain"
)

// CompareEngine evaluates one salary under several tax years
type CompareEngine struct {
	CalcEngine *calculation.Engine
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	return &CompareEngine{CalcEngine: calcEngine}
}

// Compare runs input under each year. The first year is the base; at least two years are
// required and none may repeat.
func (ce *CompareEngine) Compare(ctx context.Context, input domain.SalaryInput, years []domain.TaxYear) (*ComparisonSet, error) {
	if len(years) < 2 {
		return nil, fmt.Errorf("%w: comparison needs at least two years, got %d", domain.ErrInvalidInput, len(years))
	}
	seen := make(map[domain.TaxYear]bool, len(years))
	for _, y := range years {
		if seen[y] {
			return nil, fmt.Errorf("%w: year %d listed twice", domain.ErrInvalidInput, int(y))
		}
		seen[y] = true
	}

	results := make([]ComparisonResult, 0, len(years))
	for _, year := range years {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		b, err := ce.CalcEngine.CalculateDeductions(input, year)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate %d: %w", int(year), err)
		}
		results = append(results, ComparisonResult{Year: year, Breakdown: b})
	}

	base := results[0]
	alternatives := make([]ComparisonResult, 0, len(results)-1)
	for _, r := range results[1:] {
		alternatives = append(alternatives, CalculateComparison(r, base))
	}

	compSet := &ComparisonSet{
		Input:              input,
		BaseYear:           base.Year,
		BaseResult:         &base,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// CompareAll compares input across every supported year, oldest first.
func (ce *CompareEngine) CompareAll(ctx context.Context, input domain.SalaryInput) (*ComparisonSet, error) {
	return ce.Compare(ctx, input, domain.SupportedTaxYears())
}
