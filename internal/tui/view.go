package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/usagedeck/internal/core"
)

var providerNames = map[core.ProviderID]string{
	core.ProviderOpenAI:     "OpenAI",
	core.ProviderAnthropic:  "Anthropic",
	core.ProviderOpenRouter: "OpenRouter",
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if !m.hasData {
		b.WriteString(dimStyle.Render("  fetching usage..."))
		b.WriteString("\n")
		return b.String()
	}

	cards := m.renderCards()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")

	if len(m.snap.History) > 1 {
		b.WriteString(sectionHeaderStyle.Render("  Token trend"))
		b.WriteString("\n")
		b.WriteString(indent(m.spark.View(), 2))
		b.WriteString("\n")
	}

	recs := core.Evaluate(m.snap)
	if len(recs) > 0 {
		b.WriteString(sectionHeaderStyle.Render("  Recommendations"))
		b.WriteString("\n")
		for _, r := range recs {
			b.WriteString("  " + severityStyle(r.Severity).Render("• "+r.Message))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	brand := headerBrandStyle.Render(" usagedeck ")
	status := ""
	if m.refreshing {
		status = dimStyle.Render("refreshing...")
	} else if !m.lastRefresh.IsZero() {
		status = dimStyle.Render("updated " + m.lastRefresh.Format("15:04:05"))
	}
	return brand + " " + headerStyle.Render("LLM usage") + "  " + status
}

func (m Model) renderFooter() string {
	parts := []string{
		helpKeyStyle.Render("r") + helpStyle.Render(" refresh"),
		helpKeyStyle.Render("q") + helpStyle.Render(" quit"),
	}
	return "  " + strings.Join(parts, helpStyle.Render("  ·  "))
}

func (m Model) renderCards() []string {
	cards := make([]string, 0, 3)
	for _, id := range core.ProviderIDs() {
		cards = append(cards, renderProviderCard(id, m.snap.Provider(id)))
	}
	return cards
}

func renderProviderCard(id core.ProviderID, ps core.ProviderSnapshot) string {
	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(providerNames[id]))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("tokens "))
	b.WriteString(valueStyle.Render(formatTokens(ps.Tokens)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("cost   "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("$%.2f", ps.Cost)))
	b.WriteString("\n")

	if ps.BillingCycle != nil {
		c := ps.BillingCycle
		b.WriteString(labelStyle.Render("cycle  "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%d%%, %dd left", c.Progress, c.DaysRemaining)))
		b.WriteString("\n")
		b.WriteString(renderGauge(c.Progress, 20))
	} else if ps.Note != "" {
		b.WriteString(dimStyle.Render(truncate(ps.Note, 26)))
	} else {
		b.WriteString(dimStyle.Render("not configured"))
	}

	return cardStyle.Render(b.String())
}

func formatTokens(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max < 1 {
		return ""
	}
	return s[:max-1] + "…"
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
