package advice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/shopspring/decimal"
)

// IRP and pension savings together earn a credit on up to 9,000,000 won a year.
var (
	pensionCreditLimit = decimal.NewFromInt(9_000_000)
	highEarnerGross    = decimal.NewFromInt(5_500_000)
	savingsShare       = decimal.RequireFromString("0.2")
)

// RuleGenerator is an offline Generator that derives three tips from the breakdown itself.
// It backs the advice endpoint when no external generator is configured.
func RuleGenerator(_ context.Context, p Prompt) (string, error) {
	b := p.Breakdown
	if b == nil {
		return "", fmt.Errorf("%w: prompt has no breakdown", domain.ErrInvalidInput)
	}

	monthlyIRP := pensionCreditLimit.Div(decimal.NewFromInt(12)).Floor()
	creditRate := "16.5%"
	if b.GrossMonthlyPay.GreaterThan(highEarnerGross) {
		creditRate = "13.2%"
	}
	saving := b.NetPay.Mul(savingsShare).Div(decimal.NewFromInt(10000)).Floor().Mul(decimal.NewFromInt(10000))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("1. 절세: 연금저축과 IRP에 월 %s원까지 납입하면 %s 세액공제를 받을 수 있습니다.\n",
		monthlyIRP.StringFixed(0), creditRate))
	sb.WriteString(fmt.Sprintf("2. 예산: 실수령액 %s원 중 최소 %s원을 급여일에 자동이체로 먼저 저축하세요.\n",
		b.NetPay.StringFixed(0), saving.StringFixed(0)))
	sb.WriteString(fmt.Sprintf("3. 자산 형성: 매월 공제액 %s원 중 국민연금 %s원은 노후 자산입니다. ISA로 비과세 투자를 병행하세요.",
		b.TotalDeductions.StringFixed(0), b.PensionContribution.StringFixed(0)))
	return sb.String(), nil
}
