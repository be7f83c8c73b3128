// Package history provides the TUI view of recorded check reports.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/report"
	"github.com/tankmate/tankmate/internal/services/aquarium"
	"github.com/tankmate/tankmate/internal/tui/components"
	"github.com/tankmate/tankmate/internal/util"
)

// Source lists stored reports.
type Source interface {
	History(ctx context.Context, filter models.CheckReportFilter, page models.Pagination) (*models.CheckReportList, error)
}

// kinds are the options of the kind filter; "all" clears it.
var kinds = []string{
	"all",
	string(models.ReportKindCheck),
	string(models.ReportKindValidate),
	string(models.ReportKindExpand),
}

// View displays a page of the report history.
type View struct {
	source   Source
	table    *components.Table
	search   *components.Input
	kind     *components.Select
	reports  []*models.CheckReport
	page     models.Pagination
	filter   models.CheckReportFilter
	loading  bool
	disabled bool
	err      error
	now      time.Time

	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	okay    lipgloss.Style
	problem lipgloss.Style
	help    lipgloss.Style
}

// NewView creates a history view reading from source.
func NewView(source Source, p report.Palette) *View {
	columns := []components.Column{
		{Title: "Report", Width: 8, Priority: 4},
		{Title: "Kind", Width: 8, Priority: 8},
		{Title: "When", Width: 9, Priority: 7},
		{Title: "Status", Width: 11, Priority: 9},
		{Title: "Exh", Width: 3, Align: lipgloss.Right, Priority: 3},
		{Title: "Subject", Width: 12, Weight: 1, Priority: 10},
	}

	v := &View{
		source:  source,
		page:    models.DefaultPagination(),
		now:     time.Now(),
		title:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		label:   lipgloss.NewStyle().Foreground(p.Secondary),
		value:   lipgloss.NewStyle().Foreground(p.Foreground),
		okay:    lipgloss.NewStyle().Foreground(p.Success),
		problem: lipgloss.NewStyle().Foreground(p.Error),
		help:    lipgloss.NewStyle().Foreground(p.Muted),
	}

	v.table = components.NewTable(columns)
	v.table.SetStyles(
		lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		v.value,
		v.label,
		lipgloss.NewStyle().Foreground(p.Background).Background(p.Primary).Bold(true),
		v.help,
	)
	v.table.SetVisibleRows(v.page.PageSize)
	v.table.Focus(true)

	inputStyles := components.InputStyles{
		Label:  v.label,
		Value:  v.value,
		Focus:  lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Muted:  v.help,
		Option: v.label,
	}
	v.search = components.NewInput("Search").SetPlaceholder("subject").SetWidth(24).SetStyles(inputStyles)
	v.kind = components.NewSelect("Kind", kinds).SetStyles(inputStyles)

	return v
}

// Load fetches the current page of reports.
func (v *View) Load(ctx context.Context) error {
	v.loading = true
	v.err = nil

	list, err := v.source.History(ctx, v.filter, v.page)
	v.loading = false
	if errors.Is(err, aquarium.ErrNoHistory) {
		v.disabled = true
		return nil
	}
	if err != nil {
		v.err = err
		return err
	}

	v.reports = list.Reports
	rows := make([][]string, len(v.reports))
	for i, r := range v.reports {
		rows[i] = []string{
			shortID(r.ID),
			string(r.Kind),
			util.Ago(r.CreatedAt, v.now),
			Status(r),
			fmt.Sprintf("%d", r.ExhibitCount),
			r.Subject,
		}
	}
	v.table.SetRows(rows)
	v.table.SetPagination(list.Page, list.TotalPages, list.Total)

	// Past the last page after a filter change.
	if list.TotalPages > 0 && v.page.Page > list.TotalPages {
		v.page.Page = list.TotalPages
		return v.Load(ctx)
	}

	return nil
}

// Status is "ok" or the number of distinct problems of a report.
func Status(r *models.CheckReport) string {
	if r.Okay {
		return "ok"
	}
	return fmt.Sprintf("%d problems", report.ProblemCount(r.Violations))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// SetNow sets the time report ages are computed against.
func (v *View) SetNow(t time.Time) {
	v.now = t
}

// Disabled reports whether history recording is off.
func (v *View) Disabled() bool {
	return v.disabled
}

// Searching reports whether the search input has focus.
func (v *View) Searching() bool {
	return v.search.IsFocused()
}

// StartSearch focuses the search input.
func (v *View) StartSearch() {
	v.search.Focus(true)
}

// HandleSearchKey feeds a key to the search input. It returns true when
// the search was committed or cancelled and the list must be reloaded.
func (v *View) HandleSearchKey(key string) bool {
	switch key {
	case "enter":
		v.search.Focus(false)
		v.filter.SubjectTerm = v.search.Value()
		v.page.Page = 1
		return true
	case "esc":
		v.search.Focus(false)
		v.search.SetValue("")
		v.filter.SubjectTerm = ""
		v.page.Page = 1
		return true
	}
	v.search.HandleKey(key)
	return false
}

// CycleKind moves the kind filter to the next kind.
func (v *View) CycleKind() {
	v.kind.Cycle()
	v.filter.Kind = nil
	if k := models.ReportKind(v.kind.Value()); k.Valid() {
		v.filter.Kind = &k
	}
	v.page.Page = 1
}

// NextPage moves to the next page.
func (v *View) NextPage() {
	v.page.Page++
}

// PrevPage moves to the previous page.
func (v *View) PrevPage() {
	if v.page.Page > 1 {
		v.page.Page--
	}
}

// MoveUp moves the selection up.
func (v *View) MoveUp() {
	v.table.MoveUp()
}

// MoveDown moves the selection down.
func (v *View) MoveDown() {
	v.table.MoveDown()
}

// SelectedReport returns the currently selected report.
func (v *View) SelectedReport() *models.CheckReport {
	idx := v.table.Selected()
	if idx >= 0 && idx < len(v.reports) {
		return v.reports[idx]
	}
	return nil
}

// Render renders the history list, responsive to the terminal width.
func (v *View) Render(width int) string {
	var b strings.Builder

	b.WriteString(v.title.Render("═══ REPORT HISTORY ═══"))
	b.WriteString("\n\n")

	if v.disabled {
		b.WriteString(v.label.Render("Report history is not available."))
		return b.String()
	}

	labelWidth := 8
	if width < 60 {
		labelWidth = 0
	}
	b.WriteString(v.search.RenderWithLabelWidth(labelWidth))
	b.WriteString("  ")
	b.WriteString(v.kind.RenderWithLabelWidth(labelWidth))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.problem.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.loading:
		b.WriteString(v.label.Render("Loading..."))
		b.WriteString("\n")
	case v.table.Empty():
		b.WriteString(v.label.Render("No reports recorded."))
		b.WriteString("\n")
	default:
		b.WriteString(v.table.RenderResponsive(width))
	}

	b.WriteString("\n")
	if width < 60 {
		b.WriteString(v.help.Render("↑↓:Nav  Enter:View  /:Search"))
	} else {
		b.WriteString(v.help.Render("Up/Down:Select  Enter:Details  /:Search  f:Kind  PgUp/Dn:Page"))
	}

	return b.String()
}

// RenderDetail renders one report with its violations grouped by exhibit.
func (v *View) RenderDetail(r *models.CheckReport, width int) string {
	if r == nil {
		return v.value.Render("No report selected")
	}

	labelWidth := 14
	if width < 60 {
		labelWidth = 10
	}
	label := v.label.Width(labelWidth)

	var b strings.Builder

	b.WriteString(v.title.Render("═══ REPORT " + shortID(r.ID) + " ═══"))
	b.WriteString("\n\n")
	b.WriteString(label.Render("Kind:") + " " + v.value.Render(string(r.Kind)) + "\n")
	b.WriteString(label.Render("Subject:") + " " + v.value.Render(r.Subject) + "\n")
	b.WriteString(label.Render("Recorded:") + " " + v.value.Render(util.FormatTimestamp(r.CreatedAt)) + "\n")
	b.WriteString(label.Render("Exhibits:") + " " + v.value.Render(fmt.Sprintf("%d", r.ExhibitCount)) + "\n")
	b.WriteString("\n")

	if r.Okay {
		b.WriteString(v.okay.Render("No problems!"))
	} else {
		exhibit := ""
		seen := make(map[string]bool)
		for i, viol := range r.Violations {
			if i == 0 || viol.Exhibit != exhibit {
				exhibit = viol.Exhibit
				clear(seen)
				if exhibit != "" {
					b.WriteString(v.title.Render(exhibit + ":"))
					b.WriteString("\n")
				}
			}
			if seen[viol.Message] {
				continue
			}
			seen[viol.Message] = true
			b.WriteString(v.problem.Render("- " + viol.Message))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.help.Render("Esc:Back"))

	return b.String()
}
