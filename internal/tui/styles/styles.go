// Package styles holds the lipgloss styles shared by the TUI panels.
package styles

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Theme names accepted by Apply.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Colors, set by Apply.
var (
	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Accent    lipgloss.TerminalColor

	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor

	Border    lipgloss.TerminalColor
	Surface   lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	TextMuted lipgloss.TerminalColor
	TextDim   lipgloss.TerminalColor
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	Liked     lipgloss.Style
	Failed    lipgloss.Style
	Selected  lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
	WarningBorder lipgloss.Style
)

var current = ThemeAuto

func init() {
	Apply(ThemeAuto)
}

// Current returns the theme last passed to Apply.
func Current() string {
	return current
}

// Apply switches every style to the catppuccin palette for theme. Auto
// follows the terminal background: Latte on light, Mocha on dark.
func Apply(theme string) {
	switch theme {
	case ThemeDark, ThemeLight:
	default:
		theme = ThemeAuto
	}
	current = theme

	light, dark := catppuccin.Latte, catppuccin.Mocha
	pick := func(l, d string) lipgloss.TerminalColor {
		switch theme {
		case ThemeDark:
			return lipgloss.Color(d)
		case ThemeLight:
			return lipgloss.Color(l)
		}
		return lipgloss.AdaptiveColor{Light: l, Dark: d}
	}

	Primary = pick(light.Mauve().Hex, dark.Mauve().Hex)
	Secondary = pick(light.Green().Hex, dark.Green().Hex)
	Accent = pick(light.Peach().Hex, dark.Peach().Hex)
	Success = pick(light.Green().Hex, dark.Green().Hex)
	Warning = pick(light.Yellow().Hex, dark.Yellow().Hex)
	Error = pick(light.Red().Hex, dark.Red().Hex)
	Border = pick(light.Surface2().Hex, dark.Surface2().Hex)
	Surface = pick(light.Surface0().Hex, dark.Surface0().Hex)
	Text = pick(light.Text().Hex, dark.Text().Hex)
	TextMuted = pick(light.Subtext0().Hex, dark.Subtext0().Hex)
	TextDim = pick(light.Overlay1().Hex, dark.Overlay1().Hex)

	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(Success)
	Paused = lipgloss.NewStyle().Foreground(Warning)
	Liked = lipgloss.NewStyle().Foreground(pick(light.Pink().Hex, dark.Pink().Hex))
	Failed = lipgloss.NewStyle().Foreground(Error)
	Selected = lipgloss.NewStyle().Background(Surface)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
	WarningBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Warning)
}

// Toggle returns the theme to switch to from current, the way the web
// player's theme button flips between light and dark.
func Toggle(current string, darkBackground bool) string {
	switch current {
	case ThemeDark:
		return ThemeLight
	case ThemeLight:
		return ThemeDark
	}
	if darkBackground {
		return ThemeLight
	}
	return ThemeDark
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing, loading bool) string {
	switch {
	case loading:
		return Dim.Render("…")
	case playing:
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// Heart renders the like toggle.
func Heart(liked bool) string {
	if liked {
		return Liked.Render("♥")
	}
	return Dim.Render("♡")
}

// Repeat repeats a string n times
func Repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}
