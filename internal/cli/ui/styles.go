package ui

import "github.com/charmbracelet/lipgloss"

// Styles defines all lipgloss styles used in the CLI
var Styles = struct {
	Bold       lipgloss.Style
	Muted      lipgloss.Style
	Value      lipgloss.Style
	Highlight  lipgloss.Style
	Header     lipgloss.Style
	SuccessBox lipgloss.Style
	ErrorBox   lipgloss.Style
}{
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Value:     lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
	Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).Padding(0, 1),

	SuccessBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("42")).
		Padding(0, 1).
		Width(60),

	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196")).
		Padding(0, 1).
		Width(60),
}
