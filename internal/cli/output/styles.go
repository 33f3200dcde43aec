package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used by text-mode output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Keyword highlights SQL keywords in token listings.
	Keyword lipgloss.Style
	// Caret marks the failing token under a source snippet.
	Caret lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:          r.NewStyle().Bold(true),
		Muted:         r.NewStyle().Foreground(lipgloss.Color("8")),
		Success:       r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:       r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:         r.NewStyle().Foreground(lipgloss.Color("9")),
		Info:          r.NewStyle().Foreground(lipgloss.Color("12")),
		Keyword:       r.NewStyle().Foreground(lipgloss.Color("13")),
		Caret:         r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		StatusSuccess: r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		StatusFailed:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}
