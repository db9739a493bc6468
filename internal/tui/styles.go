package tui

import "github.com/charmbracelet/lipgloss"

// Styles is the palette for one theme.
type Styles struct {
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	Prompt      [3]lipgloss.Style
	Editor      lipgloss.Style
	Focused     lipgloss.Style
	Success     lipgloss.Style
	Danger      lipgloss.Style
	Warning     lipgloss.Style
	Stat        lipgloss.Style
	Doc         lipgloss.Style
}

// NewStyles returns the dark or light palette.
func NewStyles(dark bool) Styles {
	fg, subtle, border, tabBg := lipgloss.Color("235"), lipgloss.Color("245"), lipgloss.Color("250"), lipgloss.Color("254")
	prompts := [3]lipgloss.Color{"29", "25", "136"}
	if dark {
		fg, subtle, border, tabBg = lipgloss.Color("255"), lipgloss.Color("250"), lipgloss.Color("240"), lipgloss.Color("236")
		prompts = [3]lipgloss.Color{"79", "111", "221"}
	}

	s := Styles{
		ActiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(tabBg).
			Padding(0, 1).
			Bold(true),
		InactiveTab: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(fg).
			Bold(true),
		Subtle: lipgloss.NewStyle().
			Foreground(subtle),
		Editor: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Success: lipgloss.NewStyle().
			Foreground(prompts[0]).
			Bold(true),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true),
		Stat: lipgloss.NewStyle().
			Foreground(fg).
			Bold(true).
			Width(8).
			Align(lipgloss.Right),
		Doc: lipgloss.NewStyle().Padding(1, 2),
	}
	for i, c := range prompts {
		s.Prompt[i] = lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	s.Focused = s.Editor.BorderForeground(lipgloss.Color("205"))
	return s
}
