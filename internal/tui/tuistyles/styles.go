// Package tuistyles holds the lipgloss palette shared by the TUI and its components.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary = lipgloss.Color("#4F8EF7")
	ColorAccent  = lipgloss.Color("#F5A623")
	ColorSuccess = lipgloss.Color("#3FB950")
	ColorDanger  = lipgloss.Color("#F85149")
	ColorMuted   = lipgloss.Color("#8B949E")
	ColorBorder  = lipgloss.Color("#30363D")
	ColorText    = lipgloss.Color("#E6EDF3")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			PaddingLeft(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingLeft(1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingLeft(1)

	HelpKeyStyle  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	LabelStyle        = lipgloss.NewStyle().Foreground(ColorMuted).Width(22)
	FocusedLabelStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Width(22)
	ValueStyle        = lipgloss.NewStyle().Foreground(ColorText).Bold(true)

	PositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	NegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)
	ErrorStyle    = lipgloss.NewStyle().Foreground(ColorDanger).Bold(true).PaddingLeft(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// TrendStyle colours a change by direction.
func TrendStyle(positive bool) lipgloss.Style {
	if positive {
		return PositiveStyle
	}
	return NegativeStyle
}
