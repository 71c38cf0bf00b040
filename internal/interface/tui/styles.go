package tui

import "github.com/charmbracelet/lipgloss"

// Global styles used across views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("170")).
				Bold(true)

	openSessionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("120"))

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("yellow"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("green"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)
