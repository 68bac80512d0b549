package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#626262"}
	colorError  = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F87"}
	colorBorder = lipgloss.AdaptiveColor{Light: "#C8C8C8", Dark: "#3C3C3C"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	labelStyle = lipgloss.NewStyle().
			Width(10).
			Foreground(colorMuted)

	focusedStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)
)

func tableColumns() []table.Column {
	return []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Email", Width: 28},
		{Title: "Consent given for", Width: 48},
	}
}

func newStyledTable(height int) table.Model {
	t := table.New(
		table.WithColumns(tableColumns()),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Foreground(colorAccent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(colorAccent).
		Bold(false)
	t.SetStyles(s)
	return t
}
