// Package console provides formatting helpers for user-facing terminal
// output. All helpers return strings; callers print them to stderr so that
// stdout stays reserved for machine-readable output.
package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	verboseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

// FormatSuccessMessage formats a success message with a checkmark.
func FormatSuccessMessage(message string) string {
	return successStyle.Render("✓ " + message)
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string) string {
	return infoStyle.Render("ℹ " + message)
}

// FormatWarningMessage formats a warning message.
func FormatWarningMessage(message string) string {
	return warningStyle.Render("⚠ " + message)
}

// FormatErrorMessage formats an error message.
func FormatErrorMessage(message string) string {
	return errorStyle.Render("✗ " + message)
}

// FormatProgressMessage formats an in-progress step message.
func FormatProgressMessage(message string) string {
	return infoStyle.Render("→ " + message)
}

// FormatCommandMessage formats a command about to be executed.
func FormatCommandMessage(command string) string {
	return commandStyle.Render("$ " + command)
}

// FormatVerboseMessage formats a low-priority detail message.
func FormatVerboseMessage(message string) string {
	return verboseStyle.Render(message)
}

// FormatListItem formats a bulleted list entry.
func FormatListItem(message string) string {
	return "  • " + message
}

// FormatErrorWithSuggestions formats an error message followed by an
// indented suggestion list. An empty suggestion slice yields only the error
// line.
func FormatErrorWithSuggestions(message string, suggestions []string) string {
	var sb strings.Builder
	sb.WriteString(FormatErrorMessage(message))
	if len(suggestions) > 0 {
		sb.WriteString("\n")
		sb.WriteString("  Suggestions:\n")
		for _, suggestion := range suggestions {
			sb.WriteString(FormatListItem(suggestion))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// TableConfig describes a table for RenderTable.
type TableConfig struct {
	Title     string
	Headers   []string
	Rows      [][]string
	ShowTotal bool
	TotalRow  []string
}

// RenderTable renders a plain aligned table. An empty header set yields an
// empty string.
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 {
		return ""
	}

	widths := make([]int, len(config.Headers))
	for i, h := range config.Headers {
		widths[i] = len(h)
	}
	rows := config.Rows
	if config.ShowTotal && len(config.TotalRow) > 0 {
		rows = append(append([][]string{}, rows...), config.TotalRow)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	formatRow := func(cells []string) string {
		parts := make([]string, 0, len(cells))
		for i, cell := range cells {
			if i < len(widths) {
				parts = append(parts, fmt.Sprintf("%-*s", widths[i], cell))
			} else {
				parts = append(parts, cell)
			}
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var sb strings.Builder
	if config.Title != "" {
		sb.WriteString(titleStyle.Render(config.Title))
		sb.WriteString("\n")
	}
	sb.WriteString(formatRow(config.Headers))
	sb.WriteString("\n")
	for i, width := range widths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Repeat("-", width))
	}
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(formatRow(row))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToRelativePath converts an absolute path to one relative to the current
// working directory when possible; relative paths are returned unchanged.
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}
