package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/usagedeck/internal/core"
)

// Catppuccin Mocha subset.
var (
	colorBase    = lipgloss.Color("#1E1E2E")
	colorSurface = lipgloss.Color("#313244")
	colorText    = lipgloss.Color("#CDD6F4")
	colorSubtext = lipgloss.Color("#A6ADC8")
	colorDim     = lipgloss.Color("#585B70")

	colorAccent   = lipgloss.Color("#CBA6F7") // mauve
	colorBlue     = lipgloss.Color("#89B4FA")
	colorGreen    = lipgloss.Color("#A6E3A1")
	colorYellow   = lipgloss.Color("#F9E2AF")
	colorRed      = lipgloss.Color("#F38BA8")
	colorSapphire = lipgloss.Color("#74C7EC")
	colorLavender = lipgloss.Color("#B4BEFE")
)

var (
	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorLavender)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	recInfoStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	recWarnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	recHighStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorSapphire).
			Bold(true)
)

func severityStyle(sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityHigh:
		return recHighStyle
	case core.SeverityWarning:
		return recWarnStyle
	default:
		return recInfoStyle
	}
}

func gaugeColor(pct int) lipgloss.Color {
	switch {
	case pct >= 80:
		return colorRed
	case pct >= 50:
		return colorYellow
	default:
		return colorGreen
	}
}
