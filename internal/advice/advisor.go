// Package advice hands a computed breakdown to an external text generator and returns
// free-form financial tips. The calculation engine never depends on this package.
package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/domain"
)

// FailureMessage is shown to the user whenever advice cannot be produced.
const FailureMessage = "AI 조언을 가져오는 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

// SystemInstruction frames the generator as a Korean personal-finance advisor.
const SystemInstruction = "You are a professional Korean financial advisor specializing in tax optimization and wealth management."

// ErrUnavailable is returned alongside FailureMessage. The generator's own error is logged, not returned.
var ErrUnavailable = errors.New("advice unavailable")

// Advisor produces advice text for a breakdown.
type Advisor interface {
	Advise(ctx context.Context, b *domain.TaxBreakdown) (string, error)
}

// Prompt is the request handed to a Generator.
type Prompt struct {
	System    string
	Text      string
	Breakdown *domain.TaxBreakdown
}

// Generator is the opaque text-generation collaborator.
type Generator func(ctx context.Context, p Prompt) (string, error)

// BuildPrompt renders the monthly figures into the advisory prompt.
func BuildPrompt(b *domain.TaxBreakdown) Prompt {
	var sb strings.Builder
	sb.WriteString("Based on the following monthly salary breakdown in South Korea, provide 3 brief, high-impact financial tips.\n")
	sb.WriteString("Format your response in simple Korean.\n\n")
	sb.WriteString(fmt.Sprintf("Gross Salary: %s KRW\n", b.GrossMonthlyPay.StringFixed(0)))
	sb.WriteString(fmt.Sprintf("Net Salary: %s KRW\n", b.NetPay.StringFixed(0)))
	sb.WriteString(fmt.Sprintf("Total Tax/Insurance: %s KRW\n\n", b.TotalDeductions.StringFixed(0)))
	sb.WriteString("Focus on:\n")
	sb.WriteString("1. Tax saving strategies (e.g., IRP, ISA).\n")
	sb.WriteString("2. Budgeting for someone with this income.\n")
	sb.WriteString("3. Long-term wealth building.\n")

	return Prompt{
		System:    SystemInstruction,
		Text:      sb.String(),
		Breakdown: b,
	}
}

// Service adapts a Generator to the Advisor interface.
type Service struct {
	generate Generator
	logger   calculation.Logger
}

// NewService creates an advisor around generate. A nil logger discards output.
func NewService(generate Generator, logger calculation.Logger) *Service {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Service{generate: generate, logger: logger}
}

// Advise returns the generated text, or FailureMessage with ErrUnavailable.
func (s *Service) Advise(ctx context.Context, b *domain.TaxBreakdown) (string, error) {
	if b == nil {
		return FailureMessage, fmt.Errorf("%w: no breakdown", domain.ErrInvalidInput)
	}
	if s.generate == nil {
		s.logger.Warnf("advice requested but no generator is configured")
		return FailureMessage, ErrUnavailable
	}

	text, err := s.generate(ctx, BuildPrompt(b))
	if err != nil {
		s.logger.Errorf("advice generation failed: %v", err)
		return FailureMessage, ErrUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warnf("advice generator returned empty text")
		return FailureMessage, ErrUnavailable
	}
	return text, nil
}
