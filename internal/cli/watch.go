package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/me/triage/pkg/model"
)

// queueAPI is the part of Client the watch view needs.
type queueAPI interface {
	Queue() (model.QueueSnapshot, error)
	QueueCommand(name string) (model.QueueSnapshot, error)
}

type watchKeys struct {
	Toggle key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

func defaultWatchKeys() watchKeys {
	return watchKeys{
		Toggle: key.NewBinding(key.WithKeys(" ", "space", "p"), key.WithHelp("space", "start/pause")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	watchTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	watchHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	watchErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	watchUrgentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	watchNormalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	watchBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	watchStatusStyles = map[model.ItemStatus]lipgloss.Style{
		model.ItemStatusWaiting:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")),
		model.ItemStatusProcessing: lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true),
		model.ItemStatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
	}
)

// snapshotMsg carries a fetched snapshot. refresh is set for fetches made
// by the polling loop, as opposed to the result of a key command.
type snapshotMsg struct {
	snap    model.QueueSnapshot
	err     error
	refresh bool
}

type refreshMsg struct{}

// watchModel is the bubbletea model behind `triage queue watch`.
type watchModel struct {
	api          queueAPI
	interval     time.Duration
	untilDrained bool
	keys         watchKeys
	bar          progress.Model

	snap   model.QueueSnapshot
	loaded bool
	err    error
}

func newWatchModel(api queueAPI, interval time.Duration, untilDrained bool) watchModel {
	if interval <= 0 {
		interval = time.Second
	}
	return watchModel{
		api:          api,
		interval:     interval,
		untilDrained: untilDrained,
		keys:         defaultWatchKeys(),
		bar:          progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m watchModel) Init() tea.Cmd {
	return m.fetch()
}

func (m watchModel) fetch() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.api.Queue()
		return snapshotMsg{snap: snap, err: err, refresh: true}
	}
}

func (m watchModel) command(name string) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.api.QueueCommand(name)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m watchModel) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if m.snap.Running {
				return m, m.command("pause")
			}
			return m, m.command("start")
		case key.Matches(msg, m.keys.Reset):
			return m, m.command("reset")
		}

	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(60, msg.Width-8))

	case refreshMsg:
		return m, m.fetch()

	case snapshotMsg:
		m.err = msg.err
		if msg.err == nil {
			m.snap = msg.snap
			m.loaded = true
			if m.untilDrained && m.snap.Phase == model.QueuePhaseDrained {
				return m, tea.Quit
			}
		}
		// Only polling results re-arm the tick; command results arrive
		// while a tick is already pending.
		if msg.refresh {
			return m, m.scheduleRefresh()
		}
		return m, nil
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(watchTitleStyle.Render("Priority Queue"))
	b.WriteString("  ")
	b.WriteString(string(m.snap.Phase))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(watchErrStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n\n")
	}
	if !m.loaded {
		b.WriteString("loading...\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s %d of %d processed (%.1f%%)\n", m.bar.ViewAs(m.snap.Progress/100), m.snap.CompletedCount, m.snap.Total, m.snap.Progress)
	fmt.Fprintf(&b, "%s %d   %s %d   in flight %d\n\n",
		watchUrgentStyle.Render("urgent"), m.snap.UrgentCount,
		watchNormalStyle.Render("normal"), m.snap.NormalCount,
		m.snap.InFlightCount)

	var rows []string
	for _, e := range m.snap.Entries {
		pos := "  -"
		if e.Position > 0 {
			pos = fmt.Sprintf("#%-2d", e.Position)
		}
		tier := watchNormalStyle.Render(fmt.Sprintf("%-6s", e.Priority))
		if e.Priority == model.PriorityUrgent {
			tier = watchUrgentStyle.Render(fmt.Sprintf("%-6s", e.Priority))
		}
		status := watchStatusStyles[e.Status].Render(string(e.Status))
		rows = append(rows, fmt.Sprintf("%s  %-6s  %s  %s", pos, e.ID, tier, status))
	}
	if len(rows) == 0 {
		rows = append(rows, "queue is empty")
	}
	b.WriteString(watchBoxStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	help := []string{}
	for _, k := range []key.Binding{m.keys.Toggle, m.keys.Reset, m.keys.Quit} {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(watchHintStyle.Render(strings.Join(help, " • ")))
	return b.String()
}
