// Package cli provides terminal rendering for the interactive chat
// transcript: styled turns, reply option lists, and asset download
// progress.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the transcript color scheme.
type Theme struct {
	Primary   lipgloss.Color // accent color (prompts, borders)
	User      lipgloss.Color // user turn label
	Assistant lipgloss.Color // assistant turn label
	Dim       lipgloss.Color // help text, progress, tokens
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary:   lipgloss.Color("#00ff9f"),
	User:      lipgloss.Color("#58a6ff"),
	Assistant: lipgloss.Color("#00ff9f"),
	Dim:       lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Prompt    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Token     lipgloss.Style
	Option    lipgloss.Style
	Help      lipgloss.Style
	Error     lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		User:      lipgloss.NewStyle().Bold(true).Foreground(t.User),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(t.Assistant),
		Token:     lipgloss.NewStyle().Foreground(t.Dim).Italic(true),
		Option:    lipgloss.NewStyle().Foreground(t.Primary),
		Help:      lipgloss.NewStyle().Foreground(t.Dim),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff6b6b")),
	}
}
