package cli

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	criticalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	milestoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	addedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
