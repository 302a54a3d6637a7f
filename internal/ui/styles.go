// Package ui provides terminal output components using Charm libraries.
//
// This package contains the styling and message helpers shared by every
// dbcli-deploy command, plus the confirmation prompt used before a
// deployment overwrites existing files.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette used across the CLI.
var (
	Cyan    = lipgloss.Color("#06B6D4")
	Red     = lipgloss.Color("#EF4444")
	Amber   = lipgloss.Color("#F59E0B")
	Green   = lipgloss.Color("#22C55E")
	Gray    = lipgloss.Color("#6B7280")
	DimGray = lipgloss.Color("#9CA3AF")
)

// Text styles.
var (
	// TitleStyle for section headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// WarningStyle for warning messages
	WarningStyle = lipgloss.NewStyle().
			Foreground(Amber)

	// InfoStyle for informational messages
	InfoStyle = lipgloss.NewStyle().
			Foreground(Cyan)

	// DimStyle for less important text
	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	// AccentStyle for prompt suffixes and list bullets
	AccentStyle = lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true)
)

// Table styles.
var (
	// TableHeaderStyle for table headers
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Bold(true)

	// TableCellStyle for table cells
	TableCellStyle = lipgloss.NewStyle()
)

// Outcome status styles, used by the deployment summary.
var (
	StatusDeployedStyle = lipgloss.NewStyle().Foreground(Green)
	StatusSkippedStyle  = lipgloss.NewStyle().Foreground(Amber)
	StatusFailedStyle   = lipgloss.NewStyle().Foreground(Red)
)
