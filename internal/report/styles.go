package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles are bound to a renderer for the output writer, so colors are only
// emitted when that writer is a terminal.
type styles struct {
	Header      lipgloss.Style
	Subtle      lipgloss.Style
	Instance    lipgloss.Style
	NoInstance  lipgloss.Style
	Warning     lipgloss.Style
	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		Header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff")),
		Subtle: r.NewStyle().
			Foreground(lipgloss.Color("#666688")),
		Instance: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88")),
		NoInstance: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444")),
		Warning: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00")),
		MetricLabel: r.NewStyle().
			Foreground(lipgloss.Color("#888899")),
		MetricValue: r.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true),
	}
}
