// Package tui provides the terminal exhibit browser.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tankmate/tankmate/internal/config"
	"github.com/tankmate/tankmate/internal/report"
)

// Theme contains all style definitions for the TUI.
type Theme struct {
	// Colors (raw values for reference)
	PrimaryColor    lipgloss.Color
	SecondaryColor  lipgloss.Color
	AccentColor     lipgloss.Color
	BackgroundColor lipgloss.Color
	ForegroundColor lipgloss.Color
	ErrorColor      lipgloss.Color
	WarningColor    lipgloss.Color
	SuccessColor    lipgloss.Color
	MutedColor      lipgloss.Color

	// Palette the theme was built from; views build their own styles
	// from it.
	Palette report.Palette

	Base lipgloss.Style
	Bold lipgloss.Style

	// Color styles (for direct use)
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Success   lipgloss.Style
	Muted     lipgloss.Style

	// Component styles
	Header    lipgloss.Style
	Footer    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Box       lipgloss.Style
	Alert     lipgloss.Style
	AlertWarn lipgloss.Style
	AlertCrit lipgloss.Style

	StatusDivider lipgloss.Style
}

// NewTheme creates a theme for a color scheme.
func NewTheme(scheme config.ColorScheme) *Theme {
	return buildTheme(report.PaletteFor(scheme))
}

func buildTheme(p report.Palette) *Theme {
	t := &Theme{
		PrimaryColor:    p.Primary,
		SecondaryColor:  p.Secondary,
		AccentColor:     p.Accent,
		BackgroundColor: p.Background,
		ForegroundColor: p.Foreground,
		MutedColor:      p.Muted,
		ErrorColor:      p.Error,
		WarningColor:    p.Warning,
		SuccessColor:    p.Success,
		Palette:         p,
	}

	t.Base = lipgloss.NewStyle().Foreground(p.Foreground)
	t.Bold = t.Base.Bold(true)

	t.Primary = lipgloss.NewStyle().Foreground(p.Primary)
	t.Secondary = lipgloss.NewStyle().Foreground(p.Secondary)
	t.Accent = lipgloss.NewStyle().Foreground(p.Accent)
	t.Error = lipgloss.NewStyle().Foreground(p.Error)
	t.Warning = lipgloss.NewStyle().Foreground(p.Warning)
	t.Success = lipgloss.NewStyle().Foreground(p.Success)
	t.Muted = lipgloss.NewStyle().Foreground(p.Muted)

	// Header - top bar with the aquarium name
	t.Header = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		Padding(0, 1)

	t.Footer = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Padding(0, 1)

	t.Title = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true).
		Padding(0, 1)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Padding(0, 1)

	t.Label = lipgloss.NewStyle().
		Foreground(p.Secondary)

	t.Value = lipgloss.NewStyle().
		Foreground(p.Primary)

	t.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Secondary).
		Padding(0, 1)

	t.Alert = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true)

	t.AlertWarn = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true)

	t.AlertCrit = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	t.StatusDivider = lipgloss.NewStyle().
		Foreground(p.Muted).
		SetString(" │ ")

	return t
}

// Box characters for drawing
const (
	BoxHorizontal       = "─"
	BoxDoubleHorizontal = "═"
)

// DrawHorizontalLine draws a horizontal line.
func (t *Theme) DrawHorizontalLine(width int) string {
	return t.Secondary.Render(strings.Repeat(BoxHorizontal, max(width, 0)))
}

// DrawDoubleLine draws a double horizontal line.
func (t *Theme) DrawDoubleLine(width int) string {
	return t.Primary.Render(strings.Repeat(BoxDoubleHorizontal, max(width, 0)))
}
