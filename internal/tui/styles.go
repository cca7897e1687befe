package tui

import (
	"logviewer/internal/config"
	"logviewer/internal/highlight"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles of every pane, derived from the
// configured theme.
type Styles struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Pane      lipgloss.Style
	Focused   lipgloss.Style
	Cursor    lipgloss.Style
	Directory lipgloss.Style
	File      lipgloss.Style
	Empty     lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Prompt    lipgloss.Style
	Marked    lipgloss.Color

	// Span categories
	Syntax map[highlight.Style]lipgloss.Style
}

// NewStyles builds the styles for a theme.
func NewStyles(cfg *config.Config) Styles {
	th := cfg.Theme
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(th.Primary)).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Info)),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")),
		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(th.Border)),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(th.Primary)).
			Bold(true),
		Directory: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#81A1C1")).
			Bold(true),
		File: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8DEE9")),
		Empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Error)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Success)),
		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Warning)).
			Bold(true),
		Marked: lipgloss.Color(th.Emphasis),
		Syntax: map[highlight.Style]lipgloss.Style{
			highlight.Keyword:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
			highlight.Class:     lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
			highlight.Comment:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
			highlight.Quotation: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
			highlight.Function:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Italic(true),
		},
	}
}

// span returns the style for one span. An engine-chosen colour wins over
// the category palette.
func (s Styles) span(sp highlight.Span) lipgloss.Style {
	st, ok := s.Syntax[sp.Style]
	if !ok {
		st = lipgloss.NewStyle()
	}
	if sp.Color != "" {
		st = st.Foreground(lipgloss.Color(sp.Color))
	}
	return st
}
