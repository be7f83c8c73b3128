// Package exhibits provides the TUI view of a validated aquarium.
package exhibits

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/report"
	"github.com/tankmate/tankmate/internal/services/aquarium"
	"github.com/tankmate/tankmate/internal/tui/components"
)

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	okay    lipgloss.Style
	problem lipgloss.Style
	help    lipgloss.Style
}

func newStyles(p report.Palette) styles {
	return styles{
		title:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		section: lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		label:   lipgloss.NewStyle().Foreground(p.Secondary),
		value:   lipgloss.NewStyle().Foreground(p.Foreground),
		okay:    lipgloss.NewStyle().Foreground(p.Success),
		problem: lipgloss.NewStyle().Foreground(p.Error),
		help:    lipgloss.NewStyle().Foreground(p.Muted),
	}
}

// View lists the exhibits of one validation.
type View struct {
	styles   styles
	table    *components.Table
	exhibits []*aquarium.ExhibitValidation
	subject  string
	loading  bool
	err      error
}

// NewView creates an exhibit list drawn in a palette. It shows a loading
// message until SetResult is called.
func NewView(p report.Palette) *View {
	columns := []components.Column{
		{Title: "Exhibit", Width: 12, Weight: 1.5, Priority: 10},
		{Title: "Status", Width: 11, Priority: 9},
		{Title: "Size", Width: 9, Align: lipgloss.Right, Priority: 8},
		{Title: "Quality", Width: 7, Align: lipgloss.Right, Priority: 5},
		{Title: "Animals", Width: 7, Align: lipgloss.Right, Priority: 4},
		{Title: "Shortfalls", Width: 12, Weight: 2.0, Priority: 3},
	}

	s := newStyles(p)
	table := components.NewTable(columns)
	table.SetStyles(
		s.section,
		s.value,
		s.label,
		lipgloss.NewStyle().Foreground(p.Background).Background(p.Primary).Bold(true),
		s.help,
	)
	table.SetVisibleRows(20)
	table.Focus(true)

	return &View{styles: s, table: table, loading: true}
}

// SetResult shows a finished validation, or the error that stopped it.
func (v *View) SetResult(subject string, result *aquarium.AquariumCheckResult, err error) {
	v.subject = subject
	v.loading = false
	v.err = err
	v.exhibits = nil
	if result != nil {
		v.exhibits = result.Exhibits
	}

	rows := make([][]string, len(v.exhibits))
	for i, e := range v.exhibits {
		rows[i] = []string{
			e.Name,
			Status(e),
			fmt.Sprintf("%d/%d", e.Needed.Size, e.Loaded.Size),
			fmt.Sprintf("%d%%", e.Needed.Quality),
			fmt.Sprintf("%d", e.Animals),
			ShortfallSummary(e.Shortfalls()),
		}
	}
	v.table.SetRows(rows)
}

// Status is "ok" or the number of distinct problems of an exhibit.
func Status(e *aquarium.ExhibitValidation) string {
	if e.IsOkay() {
		return "ok"
	}
	return fmt.Sprintf("%d problems", len(report.Messages(e.Violations)))
}

// ShortfallSummary joins shortfalls as "resource loaded/needed".
func ShortfallSummary(shortfalls []aquarium.Shortfall) string {
	parts := make([]string, len(shortfalls))
	for i, s := range shortfalls {
		parts[i] = fmt.Sprintf("%s %d/%d", s.Resource, s.Loaded, s.Needed)
	}
	return strings.Join(parts, ", ")
}

// Counts returns how many exhibits are okay, out of all shown.
func (v *View) Counts() (okay, total int) {
	for _, e := range v.exhibits {
		if e.IsOkay() {
			okay++
		}
	}
	return okay, len(v.exhibits)
}

// Loading reports whether the validation is still running.
func (v *View) Loading() bool {
	return v.loading
}

// SetVisibleRows sets the number of visible table rows.
func (v *View) SetVisibleRows(n int) {
	v.table.SetVisibleRows(n)
}

// MoveUp moves the selection up.
func (v *View) MoveUp() {
	v.table.MoveUp()
}

// MoveDown moves the selection down.
func (v *View) MoveDown() {
	v.table.MoveDown()
}

// PageUp moves the selection up one page.
func (v *View) PageUp() {
	v.table.PageUp()
}

// PageDown moves the selection down one page.
func (v *View) PageDown() {
	v.table.PageDown()
}

// GoToTop selects the first exhibit.
func (v *View) GoToTop() {
	v.table.GoToTop()
}

// GoToBottom selects the last exhibit.
func (v *View) GoToBottom() {
	v.table.GoToBottom()
}

// SelectedExhibit returns the currently selected exhibit.
func (v *View) SelectedExhibit() *aquarium.ExhibitValidation {
	idx := v.table.Selected()
	if idx >= 0 && idx < len(v.exhibits) {
		return v.exhibits[idx]
	}
	return nil
}

// Render renders the exhibit list, responsive to the terminal width.
func (v *View) Render(width int) string {
	var b strings.Builder

	b.WriteString(v.styles.title.Render("═══ EXHIBITS ═══"))
	b.WriteString("\n\n")

	if v.subject != "" {
		b.WriteString(v.styles.label.Render("Aquarium: "))
		b.WriteString(v.styles.value.Render(v.subject))
		b.WriteString("\n\n")
	}

	switch {
	case v.err != nil:
		b.WriteString(v.styles.problem.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.loading:
		b.WriteString(v.styles.label.Render("Validating..."))
		b.WriteString("\n")
	case v.table.Empty():
		b.WriteString(v.styles.label.Render("No occupied exhibits."))
		b.WriteString("\n")
	default:
		b.WriteString(v.table.RenderResponsive(width))
	}

	b.WriteString("\n")
	if width < 60 {
		b.WriteString(v.styles.help.Render("↑↓:Nav  Enter:View"))
	} else {
		b.WriteString(v.styles.help.Render("Up/Down:Select  Enter:Details  PgUp/Dn:Page  Home/End:Jump"))
	}

	return b.String()
}

// RenderEnvironment renders what an exhibit offers against what its
// animals need.
func (v *View) RenderEnvironment(e *aquarium.ExhibitValidation, width int) string {
	if e == nil {
		return v.styles.label.Render("No exhibit selected")
	}

	labelWidth := 22
	if width < 60 {
		labelWidth = 14
	}
	label := v.styles.label.Width(labelWidth)

	var b strings.Builder
	line := func(name, val string) {
		b.WriteString(label.Render(name+":") + " " + val + "\n")
	}

	loaded, needed := e.Loaded, e.Needed

	size := fmt.Sprintf("%d/%d", needed.Size, loaded.Size)
	if needed.Size > loaded.Size {
		line("Size", v.styles.problem.Render(size))
	} else {
		line("Size", v.styles.value.Render(size))
	}
	line("Temperature", v.styles.value.Render(string(needed.Temperature)))
	line("Salinity", v.styles.value.Render(string(needed.Salinity)))
	line("Quality", v.styles.value.Render(fmt.Sprintf("%d%%", needed.Quality)))

	for _, a := range amounts(loaded, needed) {
		if !a.needed.Valid {
			continue
		}
		val := fmt.Sprintf("%s/%d", a.loaded, a.needed.V)
		if a.loaded.Or(0) < a.needed.V {
			line(a.name, v.styles.problem.Render(val))
		} else {
			line(a.name, v.styles.value.Render(val))
		}
	}

	if needed.Interior != models.InteriorNone {
		val := fmt.Sprintf("%s/%s", loaded.Interior, needed.Interior)
		if loaded.Interior != needed.Interior {
			line("Interior", v.styles.problem.Render(val))
		} else {
			line("Interior", v.styles.value.Render(val))
		}
	}

	if len(e.Food) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.section.Render("FOOD PER DAY"))
		b.WriteString("\n")
		for _, f := range e.Food {
			b.WriteString(v.styles.value.Render("  " + f.String()))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderProblems renders the distinct violations of an exhibit.
func (v *View) RenderProblems(e *aquarium.ExhibitValidation) string {
	if e == nil {
		return ""
	}
	if e.IsOkay() {
		return v.styles.okay.Render("No problems!")
	}

	var lines []string
	for _, m := range report.Messages(e.Violations) {
		lines = append(lines, v.styles.problem.Render("- "+m))
	}
	return strings.Join(lines, "\n")
}

type amount struct {
	name           string
	loaded, needed models.Amount
}

func amounts(loaded, needed models.Environment) []amount {
	return []amount{
		{"Light", loaded.Light, needed.Light},
		{"Plants", loaded.Plants, needed.Plants},
		{"Rocks", loaded.Rocks, needed.Rocks},
		{"Caves", loaded.Caves, needed.Caves},
		{"Bogwood", loaded.Bogwood, needed.Bogwood},
		{"Flat surfaces", loaded.FlatSurfaces, needed.FlatSurfaces},
		{"Vertical surfaces", loaded.VerticalSurfaces, needed.VerticalSurfaces},
		{"Fluffy foliage", loaded.FluffyFoliage, needed.FluffyFoliage},
		{"Different decorations", loaded.DifferentDecorations, needed.DifferentDecorations},
	}
}
