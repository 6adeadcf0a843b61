// Package pad renders the virtual pad: sticks as signed bars, triggers
// as fill bars, and buttons, keys, and mouse buttons as lit grids.
package pad

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/padbridge/padbridge/internal/gamepad"
	"github.com/padbridge/padbridge/internal/sim"
	"github.com/padbridge/padbridge/internal/tui/theme"
)

const barWidth = 21 // odd so a centered axis has a visible middle

// View renders the full pad from one snapshot.
func View(snap sim.Snapshot) string {
	sections := []string{
		theme.StyleHeader.Render(" STICKS"),
		axisLines(snap),
		theme.StyleHeader.Render(" TRIGGERS"),
		triggerLines(snap),
		theme.StyleHeader.Render(" BUTTONS"),
		gridLine(gamepad.Codes(gamepad.Button), snap.Buttons),
		theme.StyleHeader.Render(" KEYS"),
		gridLine(gamepad.Codes(gamepad.Keyboard), snap.Keys),
		theme.StyleHeader.Render(" MOUSE"),
		gridLine(gamepad.Codes(gamepad.MouseButton), snap.Mouse),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func axisLines(snap sim.Snapshot) string {
	var lines []string
	for _, code := range gamepad.Codes(gamepad.Axis) {
		v := snap.Axes[code]
		bar := lipgloss.NewStyle().Foreground(theme.ColorAxis).Render(signedBar(v))
		lines = append(lines, fmt.Sprintf("  %-7s %s %+5.2f", code, bar, v))
	}
	return strings.Join(lines, "\n")
}

func triggerLines(snap sim.Snapshot) string {
	var lines []string
	for _, code := range gamepad.Codes(gamepad.Trigger) {
		v := snap.Triggers[code]
		bar := lipgloss.NewStyle().Foreground(theme.ColorTrigger).Render(fillBar(v))
		lines = append(lines, fmt.Sprintf("  %-13s %s %5.2f", code, bar, v))
	}
	return strings.Join(lines, "\n")
}

// signedBar renders a value in [-1, 1] around a center mark:
// [      =====|          ] for -0.5.
func signedBar(v float64) string {
	half := barWidth / 2
	cells := make([]rune, barWidth)
	for i := range cells {
		cells[i] = ' '
	}
	cells[half] = '|'

	n := int(v * float64(half))
	if n > 0 {
		for i := 1; i <= n && half+i < barWidth; i++ {
			cells[half+i] = '='
		}
	} else if n < 0 {
		for i := 1; i <= -n && half-i >= 0; i++ {
			cells[half-i] = '='
		}
	}
	return "[" + string(cells) + "]"
}

// fillBar renders a value in [0, 1] as a left-anchored fill.
func fillBar(v float64) string {
	n := int(v * float64(barWidth))
	if n > barWidth {
		n = barWidth
	}
	return "[" + strings.Repeat("#", n) + strings.Repeat(" ", barWidth-n) + "]"
}

// gridLine renders a code table as one row of lit/unlit cells in the
// taxonomy's stable order.
func gridLine(codes []string, pressed map[string]bool) string {
	var cells []string
	for _, code := range codes {
		cells = append(cells, theme.ButtonStyle(pressed[code]).Render("["+code+"]"))
	}
	return "  " + strings.Join(cells, " ")
}
