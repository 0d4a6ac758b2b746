package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/netpay/internal/tui/tuistyles"
)

// MetricCard displays one headline amount with an optional change against another year.
type MetricCard struct {
	Label  string
	Value  string
	Change string
	Up     bool
	Width  int
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{Label: label, Value: value, Width: 26}
}

// WithChange adds a signed change line
func (m *MetricCard) WithChange(up bool, change string) *MetricCard {
	m.Up = up
	m.Change = change
	return m
}

// Render returns the styled card
func (m *MetricCard) Render() string {
	content := tuistyles.SubtitleStyle.Render(m.Label) + "\n" + tuistyles.ValueStyle.Render(m.Value)
	if m.Change != "" {
		arrow := "↓"
		if m.Up {
			arrow = "↑"
		}
		content += "\n" + tuistyles.TrendStyle(m.Up).Render(fmt.Sprintf("%s %s", arrow, m.Change))
	}
	return tuistyles.PanelStyle.Width(m.Width).Render(content)
}

// MetricRow renders cards side by side.
func MetricRow(cards ...*MetricCard) string {
	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		rendered = append(rendered, c.Render())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
