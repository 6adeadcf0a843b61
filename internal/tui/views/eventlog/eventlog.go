// Package eventlog provides the scrolling hub-activity log at the
// bottom of the padsim TUI.
package eventlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/padbridge/padbridge/internal/tui/theme"
)

const maxEntries = 200

// Entry is a single log line.
type Entry struct {
	Time    time.Time
	Kind    string // "recv", "rej", "conn", "demo"
	Message string
}

// Model holds log state.
type Model struct {
	Entries []Entry
	Offset  int // scroll offset from the bottom
}

// New creates an empty log.
func New() Model {
	return Model{}
}

// Add appends an entry, caps the buffer, and snaps the view back to
// the bottom.
func (m *Model) Add(kind, message string) {
	m.Entries = append(m.Entries, Entry{Time: time.Now(), Kind: kind, Message: message})
	if len(m.Entries) > maxEntries {
		m.Entries = m.Entries[len(m.Entries)-maxEntries:]
	}
	m.Offset = 0
}

// ScrollUp moves the view toward older entries.
func (m *Model) ScrollUp(n int) {
	m.Offset += n
	max := len(m.Entries) - 1
	if max < 0 {
		max = 0
	}
	if m.Offset > max {
		m.Offset = max
	}
}

// ScrollDown moves the view toward the newest entries.
func (m *Model) ScrollDown(n int) {
	m.Offset -= n
	if m.Offset < 0 {
		m.Offset = 0
	}
}

// View renders the newest visible lines.
func (m Model) View(width, visible int) string {
	if visible < 1 {
		visible = 1
	}
	title := theme.StyleHeader.Render(" EVENTS")

	if len(m.Entries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			theme.StyleDimmed.Render("  waiting for frames..."))
	}

	end := len(m.Entries) - m.Offset
	start := end - visible
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}

	var lines []string
	for i := start; i < end; i++ {
		e := m.Entries[i]
		ts := theme.StyleDimmed.Render(e.Time.Format("15:04:05.000"))
		kind := lipgloss.NewStyle().Foreground(kindColor(e.Kind)).Width(5).Render(e.Kind)
		msg := truncate(e.Message, width-24)
		lines = append(lines, fmt.Sprintf("  %s %s %s", ts, kind, msg))
	}

	if m.Offset > 0 {
		lines = append(lines, theme.StyleDimmed.Render(fmt.Sprintf("  ↓ %d newer", m.Offset)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"))
}

// truncate shortens s to at most max runes, marking the cut with
// "...". Counting runes keeps multi-byte characters whole; terminals
// too narrow to fit the marker get the message untouched rather than
// a bad slice.
func truncate(s string, max int) string {
	if max < 4 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func kindColor(kind string) lipgloss.Color {
	switch kind {
	case "recv":
		return theme.ColorApplied
	case "rej":
		return theme.ColorRejected
	case "conn":
		return theme.ColorClient
	case "demo":
		return theme.ColorDemo
	default:
		return theme.ColorDimmed
	}
}
