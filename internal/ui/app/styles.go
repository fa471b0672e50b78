package app

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the set of colors the screens draw with, as plain values
// straight from the config file. A color is either a hex string
// ("#7d56f4") or an ANSI-256 index ("205"); empty fields fall back to
// the built-in palette.
type Theme struct {
	Accent string
	Muted  string
	Error  string
	Border string
}

// Styles is the rendered form of the theme. The theme itself carries
// no behavior; everything that draws lives here.
type Styles struct {
	Title  lipgloss.Style
	Accent lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
	Border lipgloss.Style
	Status lipgloss.Style
}

func NewStyles(theme Theme) Styles {
	accent := pick(theme.Accent, "205")
	muted := pick(theme.Muted, "243")
	errColor := pick(theme.Error, "196")
	border := pick(theme.Border, "240")

	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),
		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color(accent)),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color(errColor)),
		Border: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(border)).Padding(0, 1),
		Status: lipgloss.NewStyle().Padding(0, 1),
	}
}

func pick(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
