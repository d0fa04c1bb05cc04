package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderGauge draws a fixed-width progress bar, green through red as
// the percentage climbs.
func renderGauge(pct, w int) string {
	if w < 4 {
		w = 4
	}
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}

	filled := pct * w / 100
	if filled < 1 && pct > 0 {
		filled = 1
	}

	bar := lipgloss.NewStyle().Foreground(gaugeColor(pct)).Render(strings.Repeat("█", filled))
	track := dimStyle.Render(strings.Repeat("░", w-filled))
	return bar + track
}
