package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles defines the visual theme for terminal output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for section headers (e.g. "Detailed Code Report:").
	Header lipgloss.Style

	// Label styles fixed metric labels.
	Label lipgloss.Style

	// Value styles metric values.
	Value lipgloss.Style

	// OriginalTitle and FormattedTitle label the two code panels.
	OriginalTitle  lipgloss.Style
	FormattedTitle lipgloss.Style

	// OriginalBorder and FormattedBorder draw the two code panels.
	OriginalBorder  lipgloss.Style
	FormattedBorder lipgloss.Style

	// LineNumber styles the gutter in code panels.
	LineNumber lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableBorder is used for table borders.
	TableBorder lipgloss.Style

	// Success, Warning and Failure style status messages.
	Success lipgloss.Style
	Warning lipgloss.Style
	Failure lipgloss.Style

	// Prompt styles interactive questions.
	Prompt lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("198")),
		Value:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("113")),

		OriginalTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
		FormattedTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("40")),

		OriginalBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("51")).
			Padding(0, 1),
		FormattedBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("40")).
			Padding(0, 1),

		LineNumber: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableBorder: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("40")),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		Failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),

		Prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
