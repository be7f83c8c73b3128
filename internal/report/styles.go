package report

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/tankmate/tankmate/internal/config"
)

// Palette is the set of colors of a color scheme.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Foreground lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Warning    lipgloss.Color
	Success    lipgloss.Color
}

// PaletteFor returns the palette of a color scheme. Unknown schemes get
// the reef palette.
func PaletteFor(scheme config.ColorScheme) Palette {
	switch scheme {
	case config.ColorSchemeAbyss:
		return Palette{
			Primary:    lipgloss.Color("#5DADE2"),
			Secondary:  lipgloss.Color("#2E86C1"),
			Accent:     lipgloss.Color("#AED6F1"),
			Foreground: lipgloss.Color("#D6EAF8"),
			Background: lipgloss.Color("#0B1A2A"),
			Muted:      lipgloss.Color("#34495E"),
			Error:      lipgloss.Color("#E74C3C"),
			Warning:    lipgloss.Color("#F4D03F"),
			Success:    lipgloss.Color("#48C9B0"),
		}
	case config.ColorSchemePlain:
		return Palette{
			Primary:    lipgloss.Color("#FFFFFF"),
			Secondary:  lipgloss.Color("#AAAAAA"),
			Accent:     lipgloss.Color("#FFFFFF"),
			Foreground: lipgloss.Color("#FFFFFF"),
			Background: lipgloss.Color("#000000"),
			Muted:      lipgloss.Color("#666666"),
			Error:      lipgloss.Color("#FF4444"),
			Warning:    lipgloss.Color("#FFAA00"),
			Success:    lipgloss.Color("#FFFFFF"),
		}
	default:
		return Palette{
			Primary:    lipgloss.Color("#2CD7C7"),
			Secondary:  lipgloss.Color("#1D9EA3"),
			Accent:     lipgloss.Color("#FF7F50"),
			Foreground: lipgloss.Color("#E0F7F5"),
			Background: lipgloss.Color("#0D2F39"),
			Muted:      lipgloss.Color("#2C4A54"),
			Error:      lipgloss.Color("#E74C3C"),
			Warning:    lipgloss.Color("#F4D03F"),
			Success:    lipgloss.Color("#2CD7C7"),
		}
	}
}

// Styles are the text styles of report output.
type Styles struct {
	Heading lipgloss.Style
	Name    lipgloss.Style
	Okay    lipgloss.Style
	Problem lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Value   lipgloss.Style
}

// NewStyles builds the styles of a palette on a renderer.
func NewStyles(r *lipgloss.Renderer, p Palette) *Styles {
	return &Styles{
		Heading: r.NewStyle().Bold(true).Foreground(p.Primary),
		Name:    r.NewStyle().Bold(true).Foreground(p.Accent),
		Okay:    r.NewStyle().Foreground(p.Success),
		Problem: r.NewStyle().Foreground(p.Error),
		Warning: r.NewStyle().Foreground(p.Warning),
		Muted:   r.NewStyle().Foreground(p.Muted),
		Value:   r.NewStyle().Foreground(p.Secondary),
	}
}

// UseColor decides whether output to w is colored. In auto mode color is
// used on terminals unless NO_COLOR is set.
func UseColor(w io.Writer, mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewRenderer returns a renderer for w that colors only when color is set.
func NewRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}
