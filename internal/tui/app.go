// Package tui implements the padsim terminal UI: a live view of the
// virtual pad fed by hub notices, with a scrolling event log.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/padbridge/padbridge/internal/sim"
	"github.com/padbridge/padbridge/internal/tui/theme"
	"github.com/padbridge/padbridge/internal/tui/views/eventlog"
	"github.com/padbridge/padbridge/internal/tui/views/pad"
)

// noticeMsg carries one hub notice into the Bubble Tea loop.
type noticeMsg sim.Notice

// Model is the root Bubble Tea model.
type Model struct {
	hub   *sim.Hub
	gen   *sim.Generator
	state *sim.PadState
	addr  string

	keys   KeyMap
	width  int
	height int

	clients int
	log     eventlog.Model
}

// New creates the root model.
func New(hub *sim.Hub, gen *sim.Generator, state *sim.PadState, addr string) Model {
	return Model{
		hub:   hub,
		gen:   gen,
		state: state,
		addr:  addr,
		keys:  DefaultKeyMap(),
		log:   eventlog.New(),
	}
}

// Init starts consuming hub notices.
func (m Model) Init() tea.Cmd {
	return waitForNotice(m.hub)
}

func waitForNotice(hub *sim.Hub) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-hub.Notices())
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case noticeMsg:
		m.applyNotice(sim.Notice(msg))
		return m, waitForNotice(m.hub)
	}

	return m, nil
}

func (m *Model) applyNotice(n sim.Notice) {
	switch n.Kind {
	case sim.NoticeClientConnected:
		m.clients++
		m.log.Add("conn", "bridge connected "+shortID(n.ClientID))
	case sim.NoticeClientDisconnected:
		if m.clients > 0 {
			m.clients--
		}
		m.log.Add("conn", "bridge disconnected "+shortID(n.ClientID))
	case sim.NoticeBatchApplied:
		m.log.Add("recv", fmt.Sprintf("%d event(s): %s", n.Events, n.Detail))
	case sim.NoticeBatchRejected:
		m.log.Add("rej", n.Detail)
	case sim.NoticeDemoBatch:
		m.log.Add("demo", fmt.Sprintf("%d event(s): %s", n.Events, n.Detail))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reset):
		m.state.Reset()
		m.log.Add("conn", "pad reset")
		return m, nil

	case key.Matches(msg, m.keys.Demo):
		if m.gen.Toggle() {
			m.log.Add("demo", "demo generator on")
		} else {
			m.log.Add("demo", "demo generator off")
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.log.ScrollUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.log.ScrollDown(1)
		return m, nil
	}

	return m, nil
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	snap := m.state.Snapshot()

	logLines := m.height - 22
	if logLines < 3 {
		logLines = 3
	}

	sections := []string{
		m.statusBar(snap),
		pad.View(snap),
		m.log.View(m.width, logLines),
		theme.StyleDimmed.Render("  j/k:scroll log  r:reset  d:demo  q:quit"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) statusBar(snap sim.Snapshot) string {
	var connStr string
	if m.clients > 0 {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).
			Render(fmt.Sprintf("● %d bridge(s)", m.clients))
	} else {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○ no bridge")
	}

	demoStr := theme.StyleDimmed.Render("demo off")
	if m.gen.Enabled() {
		demoStr = lipgloss.NewStyle().Foreground(theme.ColorDemo).Render("demo on")
	}

	counts := fmt.Sprintf("%d batches  %d events", snap.BatchesApplied, snap.EventsApplied)
	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := "padsim " + m.addr + sep + connStr + sep + counts + sep + demoStr

	width := m.width
	if width < 40 {
		width = 40
	}
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
