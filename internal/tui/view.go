package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/netpay/internal/output"
	"github.com/rgehrsitz/netpay/internal/tui/components"
	"github.com/rgehrsitz/netpay/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch m.currentScene {
	case SceneCalculator:
		content = m.renderCalculator()
	case SceneCompare:
		content = m.renderCompare()
	case SceneSolve:
		content = m.renderSolve()
	case SceneHelp:
		content = renderHelp()
	default:
		content = "Unknown scene"
	}

	if m.err != nil {
		content += "\n" + tuistyles.ErrorStyle.Render("Error: "+m.err.Error())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	basis := "monthly"
	if !m.monthly {
		basis = "annual"
	}
	title := tuistyles.TitleStyle.Render("NETPAY - Korean payroll deductions")
	crumb := tuistyles.SubtitleStyle.Render(fmt.Sprintf("%s • %d rates • %s salary", m.currentScene, m.year, basis))
	return lipgloss.JoinVertical(lipgloss.Left, title, crumb, "")
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("enter", "calculate"),
		formatShortcut("tab", "next field"),
		formatShortcut("m", "monthly/annual"),
		formatShortcut("y", "year"),
		formatShortcut("c", "compare"),
		formatShortcut("g", "gross for net"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	return "\n" + tuistyles.StatusBarStyle.Render(strings.Join(shortcuts, " • "))
}

func formatShortcut(key, desc string) string {
	return tuistyles.HelpKeyStyle.Render(key) + " " + tuistyles.HelpDescStyle.Render(desc)
}

func (m Model) renderCalculator() string {
	form := tuistyles.PanelStyle.Render(m.form.View())
	if m.breakdown == nil {
		return form
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, form, " ", m.renderBreakdown())
}

func (m Model) renderBreakdown() string {
	b := m.breakdown
	var sb strings.Builder
	row := func(label string, amount decimal.Decimal) {
		sb.WriteString(tuistyles.LabelStyle.Render(label))
		sb.WriteString(fmt.Sprintf("%14s\n", output.FormatWonUnit(amount)))
	}

	row("Monthly gross", b.GrossMonthlyPay)
	row("Taxable income", b.TaxableIncome)
	sb.WriteString("\n")
	for _, line := range b.Lines() {
		row(line.Label, line.Amount)
	}
	if b.ChildCredit.IsPositive() {
		sb.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("child credit %s applied", output.FormatWonUnit(b.ChildCredit))) + "\n")
	}
	sb.WriteString("\n")
	row("Total deductions", b.TotalDeductions)
	sb.WriteString(tuistyles.LabelStyle.Render("Net pay"))
	sb.WriteString(tuistyles.PositiveStyle.Render(fmt.Sprintf("%14s", output.FormatWonUnit(b.NetPay))))
	sb.WriteString("\n" + tuistyles.SubtitleStyle.Render("deduction rate "+output.FormatPercentage(b.EffectiveDeductionRate())))

	return tuistyles.PanelStyle.Render(sb.String())
}

func (m Model) renderCompare() string {
	if m.loading {
		return tuistyles.SubtitleStyle.Render("Comparing years...")
	}
	if m.comparison == nil || m.comparison.BaseResult == nil {
		return tuistyles.SubtitleStyle.Render("No comparison yet.")
	}

	base := m.comparison.BaseResult
	cards := []*components.MetricCard{
		components.NewMetricCard(fmt.Sprintf("%d net pay", base.Year), output.FormatWonUnit(base.Breakdown.NetPay)),
	}
	for _, alt := range m.comparison.AlternativeResults {
		card := components.NewMetricCard(fmt.Sprintf("%d net pay", alt.Year), output.FormatWonUnit(alt.Breakdown.NetPay))
		if !alt.NetDiffFromBase.IsZero() {
			card.WithChange(alt.NetDiffFromBase.IsPositive(), output.FormatWonUnit(alt.NetDiffFromBase.Abs()))
		}
		cards = append(cards, card)
	}

	var sb strings.Builder
	sb.WriteString(components.MetricRow(cards...) + "\n")
	for _, rec := range m.comparison.Recommendations {
		sb.WriteString(tuistyles.SubtitleStyle.Render("• "+rec) + "\n")
	}
	return sb.String()
}

func (m Model) renderSolve() string {
	var sb strings.Builder
	sb.WriteString(tuistyles.PanelStyle.Render(m.target.View()) + "\n")
	sb.WriteString(tuistyles.SubtitleStyle.Render("Dependents and allowances come from the calculator form.") + "\n")

	if m.solution != nil {
		r := m.solution
		sb.WriteString("\n" + components.MetricRow(
			components.NewMetricCard("Monthly gross", output.FormatWonUnit(r.Gross)),
			components.NewMetricCard("Annual gross", output.FormatWonUnit(r.Gross.Mul(decimal.NewFromInt(12)))),
			components.NewMetricCard("Net pay", output.FormatWonUnit(r.Breakdown.NetPay)),
		))
	}
	return sb.String()
}

func renderHelp() string {
	lines := []string{
		"Type amounts in won; commas are allowed.",
		"Dependents include the earner. Children 8-20 earn the child tax credit.",
		"Every deduction line is truncated to 10 won before it is summed.",
		"",
		formatShortcut("enter", "recalculate (or solve on the gross-for-net screen)"),
		formatShortcut("esc", "back to the calculator"),
	}
	return tuistyles.PanelStyle.Render(strings.Join(lines, "\n"))
}
