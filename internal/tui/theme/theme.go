// Package theme provides the Lip Gloss palette and reusable styles for
// the padsim TUI. It is a leaf package with no internal imports to
// avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Input element colors.
var (
	ColorPressed  = lipgloss.Color("#22c55e")
	ColorReleased = lipgloss.Color("#4b5563")
	ColorAxis     = lipgloss.Color("#3b82f6")
	ColorTrigger  = lipgloss.Color("#d97706")
)

// Event log colors.
var (
	ColorApplied  = lipgloss.Color("#16a34a")
	ColorRejected = lipgloss.Color("#dc2626")
	ColorClient   = lipgloss.Color("#7c3aed")
	ColorDemo     = lipgloss.Color("#06b6d4")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// Reusable styles.
var (
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)
)

// ButtonStyle returns the style for a button or key cell.
func ButtonStyle(pressed bool) lipgloss.Style {
	if pressed {
		return lipgloss.NewStyle().Bold(true).Foreground(ColorPressed)
	}
	return lipgloss.NewStyle().Foreground(ColorReleased)
}
