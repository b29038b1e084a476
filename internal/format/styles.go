package format

import "github.com/charmbracelet/lipgloss"

var (
	// Accent is used for paths and headings.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	// Muted is used for secondary information and table borders.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold is used for emphasis.
	Bold = lipgloss.NewStyle().Bold(true)

	// Warning is used for non-fatal notices such as empty results.
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))

	// Success is used for confirmation messages.
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
)
