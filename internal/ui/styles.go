package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple

	// Status colors
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorInfo    = lipgloss.Color("#3B82F6") // Blue

	// Pull request state colors
	ColorOpen   = lipgloss.Color("#10B981") // Green
	ColorDraft  = lipgloss.Color("#F59E0B") // Amber
	ColorMerged = lipgloss.Color("#8B5CF6") // Purple
	ColorClosed = lipgloss.Color("#6B7280") // Gray
	ColorLocal  = lipgloss.Color("#9CA3AF") // Light gray

	// Text colors
	ColorTextMuted  = lipgloss.Color("#9CA3AF") // Gray
	ColorTextBright = lipgloss.Color("#FFFFFF") // White
)

// Text styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	BoldStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTextBright)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)

// Pull request state styles
var (
	StatusOpenStyle = lipgloss.NewStyle().
			Foreground(ColorOpen).
			Bold(true)

	StatusDraftStyle = lipgloss.NewStyle().
				Foreground(ColorDraft).
				Bold(true)

	StatusMergedStyle = lipgloss.NewStyle().
				Foreground(ColorMerged).
				Bold(true)

	StatusClosedStyle = lipgloss.NewStyle().
				Foreground(ColorClosed)

	StatusLocalStyle = lipgloss.NewStyle().
				Foreground(ColorLocal)
)

// Message styles
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)
)

// Tree styles
var (
	TreeRootStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTextBright)

	TreeEnumeratorStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)

	CurrentMarkerStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)
)
