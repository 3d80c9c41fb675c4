package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("25")).
			Padding(0, 1)

	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	refundStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	owedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("25")).
			Padding(0, 2)
)
