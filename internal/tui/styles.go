package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/IshaanNene/scrapewatch/internal/dashboard"
)

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaOrange     = "#FFB86C"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaComment    = "#6272A4"
)

type styles struct {
	title, label, value, dim, help, prompt, alert, card, pager lipgloss.Style

	tones map[dashboard.Tone]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaForeground)).
			Bold(true),
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)).
			Faint(true),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaOrange)).
			Bold(true),
		alert: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaRed)).
			Padding(0, 1),
		card: lipgloss.NewStyle().
			PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(draculaPurple)),
		pager: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)),
		tones: map[dashboard.Tone]lipgloss.Style{
			dashboard.ToneActive:  lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan)),
			dashboard.ToneSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color(draculaGreen)),
			dashboard.ToneError:   lipgloss.NewStyle().Foreground(lipgloss.Color(draculaRed)),
			dashboard.ToneNeutral: lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment)),
		},
	}
}

// pill renders a status label with a border in its tone colour.
func (s styles) pill(l dashboard.Label) string {
	st := s.tones[l.Tone]
	return st.
		Border(lipgloss.RoundedBorder(), false, true, false, true).
		BorderForeground(st.GetForeground()).
		Padding(0, 1).
		Render(l.Text)
}
