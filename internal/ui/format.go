package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Truncate truncates text to maxLen with an ellipsis if needed.
// Uses lipgloss for proper ANSI-aware width handling.
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= maxLen {
		return text
	}

	if maxLen <= 3 {
		return lipgloss.NewStyle().MaxWidth(maxLen).Render(text)
	}
	return lipgloss.NewStyle().MaxWidth(maxLen-3).Render(text) + "..."
}

// RenderSeparator renders a horizontal separator line. A non-positive
// width uses the terminal width.
func RenderSeparator(width int) string {
	if width <= 0 {
		width = GetTerminalWidth()
	}
	return DimStyle.Render(strings.Repeat("─", width))
}

// RenderKeyValue renders a "key: value" line with a dimmed key
func RenderKeyValue(key string, value string) string {
	return DimStyle.Render(key+":") + " " + value
}
