package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	// Color definitions for terminal output
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)
)

// Out receives all command output. Tests swap it for a buffer.
var Out io.Writer = color.Output

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	successColor.Fprintf(Out, "✓ %s\n", fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	errorColor.Fprintf(Out, "✗ %s\n", fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	warningColor.Fprintf(Out, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	infoColor.Fprintf(Out, "ℹ %s\n", fmt.Sprintf(format, args...))
}

// PrintBold prints a bold message
func PrintBold(format string, args ...interface{}) {
	boldColor.Fprintln(Out, fmt.Sprintf(format, args...))
}

// Println writes a plain line
func Println(s string) {
	fmt.Fprintln(Out, s)
}

// PrintChatWelcomeBanner prints the chat banner in the organisation's
// primary color
func PrintChatWelcomeBanner(orgName, primary string) {
	if orgName == "" {
		orgName = "Cora"
	}
	accent := lipgloss.Color(primary)

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(accent).
		Align(lipgloss.Center).
		Width(60).
		Render(fmt.Sprintf("%s Assistant · Interactive Mode", orgName))

	banner := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Align(lipgloss.Center).
		Render(title)

	fmt.Fprintln(Out, banner)
}

// PrintSuccessBox prints a success message in a box
func PrintSuccessBox(title, content string) {
	fmt.Fprintln(Out, Styles.SuccessBox.Render(fmt.Sprintf("%s\n\n%s", successColor.Sprint(title), content)))
}

// PrintErrorBox prints an error message in a box
func PrintErrorBox(title, content string) {
	fmt.Fprintln(Out, Styles.ErrorBox.Render(fmt.Sprintf("%s\n\n%s", errorColor.Sprint(title), content)))
}
