package compare

import (
	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
)

// JSONFormatter renders a comparison as JSON. By default the full ComparisonSet is
// emitted; with Summary set, one entry per year carries only the totals and the lines
// that moved.
type JSONFormatter struct {
	Pretty  bool
	Summary bool
}

// YearSummary is one year of a summarised comparison. The base year has zero diffs.
type YearSummary struct {
	Year            domain.TaxYear  `json:"year"`
	NetPay          decimal.Decimal `json:"netPay"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetDiff         decimal.Decimal `json:"netDiff"`
	TotalDiff       decimal.Decimal `json:"totalDiff"`
	Changed         []LineDiff      `json:"changed,omitempty"`
}

// ComparisonSummary is the Summary shape of a comparison.
type ComparisonSummary struct {
	BaseYear        domain.TaxYear `json:"baseYear"`
	Years           []YearSummary  `json:"years"`
	Recommendations []string       `json:"recommendations"`
}

// Summarize reduces compSet to per-year totals.
func Summarize(compSet *ComparisonSet) ComparisonSummary {
	base := compSet.BaseResult.Breakdown
	summary := ComparisonSummary{
		BaseYear:        compSet.BaseYear,
		Recommendations: compSet.Recommendations,
		Years: []YearSummary{{
			Year:            compSet.BaseYear,
			NetPay:          base.NetPay,
			TotalDeductions: base.TotalDeductions,
		}},
	}
	for _, alt := range compSet.AlternativeResults {
		ys := YearSummary{
			Year:            alt.Year,
			NetPay:          alt.Breakdown.NetPay,
			TotalDeductions: alt.Breakdown.TotalDeductions,
			NetDiff:         alt.NetDiffFromBase,
			TotalDiff:       alt.TotalDiffFromBase,
		}
		for _, l := range alt.Lines {
			if !l.Diff.IsZero() {
				ys.Changed = append(ys.Changed, l)
			}
		}
		summary.Years = append(summary.Years, ys)
	}
	return summary
}

// Format encodes compSet in the configured shape.
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var payload interface{} = compSet
	if jf.Summary {
		payload = Summarize(compSet)
	}

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
