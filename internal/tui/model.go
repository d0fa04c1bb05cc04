// Package tui renders the aggregated usage snapshot in the terminal.
// It drives the same aggregator the HTTP dashboard uses, so both
// surfaces always agree on the numbers.
package tui

import (
	"context"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/janekbaraniewski/usagedeck/internal/core"
)

type tickMsg time.Time

type snapshotMsg core.Snapshot

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type Model struct {
	agg      *core.Aggregator
	configs  func() core.ProviderConfigs
	interval time.Duration

	snap        core.Snapshot
	refreshing  bool
	hasData     bool
	lastRefresh time.Time
	width       int
	height      int

	spark sparkline.Model
}

func NewModel(agg *core.Aggregator, configs func() core.ProviderConfigs, interval time.Duration) Model {
	return Model{
		agg:      agg,
		configs:  configs,
		interval: interval,
		spark: sparkline.New(40, 4,
			sparkline.WithStyle(lipgloss.NewStyle().Foreground(colorAccent))),
	}
}

func (m Model) refreshCmd() tea.Cmd {
	agg, configs := m.agg, m.configs
	return func() tea.Msg {
		return snapshotMsg(agg.Refresh(context.Background(), configs()))
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), tickCmd(m.interval))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 4
		if w < 10 {
			w = 10
		}
		m.spark.Resize(w, 4)
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.interval)}
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, m.refreshCmd())
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snap = core.Snapshot(msg)
		m.refreshing = false
		m.hasData = true
		m.lastRefresh = time.Now()

		m.spark.Clear()
		m.spark.PushAll(lo.Map(m.snap.History, func(h core.HistoryEntry, _ int) float64 {
			return float64(h.OpenAI + h.Anthropic + h.OpenRouter)
		}))
		m.spark.Draw()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if !m.refreshing {
				m.refreshing = true
				return m, m.refreshCmd()
			}
		}
	}
	return m, nil
}

// Run starts the full-screen terminal dashboard and blocks until quit.
func Run(agg *core.Aggregator, configs func() core.ProviderConfigs, interval time.Duration) error {
	p := tea.NewProgram(NewModel(agg, configs, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
