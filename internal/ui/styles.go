package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Header     lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	Success    lipgloss.Style
	Error      lipgloss.Style
	Faint      lipgloss.Style
	Box        lipgloss.Style
	Spinner    lipgloss.Style
	Link       lipgloss.Style
	MenuCursor lipgloss.Style
	MenuItem   lipgloss.Style
}

func defaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Title:      base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Subtitle:   base.Faint(true),
		Header:     base.Bold(true),
		Label:      base.Foreground(lipgloss.Color("#A3A3A3")),
		Value:      base.Foreground(lipgloss.Color("#D1D5DB")),
		Success:    base.Foreground(lipgloss.Color("#22C55E")),
		Error:      base.Foreground(lipgloss.Color("#EF4444")),
		Faint:      base.Faint(true),
		Box:        base.Padding(0, 1),
		Spinner:    base.Foreground(lipgloss.Color("#22D3EE")),
		Link:       base.Foreground(lipgloss.Color("#60A5FA")).Underline(true),
		MenuCursor: base.Foreground(lipgloss.Color("#22D3EE")).Bold(true),
		MenuItem:   base.Foreground(lipgloss.Color("#D1D5DB")),
	}
}
