package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the styles of one renderer. Styles built for a renderer
// without color support render plain text.
type Styles struct {
	Title   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Name    lipgloss.Style
	Detail  lipgloss.Style
}

// NewStyles builds the styles for a lipgloss renderer
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title: r.NewStyle().
			Foreground(HeadingColor).
			Bold(true),

		Error: r.NewStyle().
			Foreground(ErrorColor).
			Bold(true),

		Warning: r.NewStyle().
			Foreground(WarningColor).
			Bold(true),

		Success: r.NewStyle().
			Foreground(SuccessColor),

		Muted: r.NewStyle().
			Foreground(MutedColor),

		Name: r.NewStyle().
			Foreground(NameColor).
			Bold(true),

		Detail: r.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(2),
	}
}
