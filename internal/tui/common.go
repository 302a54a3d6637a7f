// Package tui provides the Bubble Tea monitor shown by `dbcli-deploy watch`.
//
// The monitor only launches in an interactive terminal. It is never
// activated for --json, --quiet or piped output.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/dbcli/deploy-skills/internal/deploy"
	"github.com/dbcli/deploy-skills/internal/ui"
)

// ShouldRunTUI returns true if the monitor should be launched.
//
// Parameters:
//   - jsonOutput: whether --json was passed
//   - quiet: whether --quiet was passed
//
// Returns:
//   - bool: true if stdout is a terminal and neither flag is set
func ShouldRunTUI(jsonOutput, quiet bool) bool {
	if jsonOutput || quiet {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ui.Cyan)

	sectionStyle = lipgloss.NewStyle().
			Foreground(ui.DimGray).
			Bold(true).
			MarginTop(1)

	dimStyle     = lipgloss.NewStyle().Foreground(ui.DimGray)
	successStyle = lipgloss.NewStyle().Foreground(ui.Green)
	errorStyle   = lipgloss.NewStyle().Foreground(ui.Red).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(ui.Amber)
	helpStyle    = lipgloss.NewStyle().Foreground(ui.Gray)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#374151"))
)

// separator returns a horizontal line of the given width.
func separator(width int) string {
	if width <= 0 {
		width = 40
	}
	return separatorStyle.Render(strings.Repeat("─", width))
}

// statusStyle picks the style for a shape status.
func statusStyle(s deploy.Status) lipgloss.Style {
	switch s {
	case deploy.StatusDeployed:
		return successStyle
	case deploy.StatusFailed:
		return errorStyle
	case deploy.StatusSkipped, deploy.StatusDeclined:
		return warningStyle
	default:
		return dimStyle
	}
}

// newSpinner creates a consistently styled braille spinner.
func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.Cyan)
	return s
}
