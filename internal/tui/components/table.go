// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// separatorWidth is the width of " | " between cells.
const separatorWidth = 3

// Column defines a table column.
type Column struct {
	Title string
	// Width is the fixed width, or the minimum width of a weighted column.
	Width int
	Align lipgloss.Position
	// Weight is the share of spare width a column takes; 0 keeps Width.
	Weight float64
	// Priority decides drop order on narrow terminals; lowest goes first.
	Priority int
}

// Table is a simple table component.
type Table struct {
	columns     []Column
	rows        [][]string
	selected    int
	offset      int
	visibleRows int
	focused     bool

	// Styles
	headerStyle   lipgloss.Style
	rowStyle      lipgloss.Style
	rowAltStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	borderStyle   lipgloss.Style

	// Pagination
	currentPage int
	totalPages  int
	totalRows   int
}

// NewTable creates a new table with the given columns.
func NewTable(columns []Column) *Table {
	return &Table{
		columns:       columns,
		rows:          [][]string{},
		visibleRows:   10,
		headerStyle:   lipgloss.NewStyle().Bold(true),
		rowStyle:      lipgloss.NewStyle(),
		rowAltStyle:   lipgloss.NewStyle().Faint(true),
		selectedStyle: lipgloss.NewStyle().Reverse(true),
		borderStyle:   lipgloss.NewStyle(),
	}
}

// SetRows sets the table data and keeps the selection in range.
func (t *Table) SetRows(rows [][]string) {
	t.rows = rows
	if t.selected >= len(rows) {
		t.GoToBottom()
	}
	if len(rows) == 0 {
		t.GoToTop()
	}
}

// SetPagination sets pagination info.
func (t *Table) SetPagination(page, totalPages, totalRows int) {
	t.currentPage = page
	t.totalPages = totalPages
	t.totalRows = totalRows
}

// SetVisibleRows sets the number of visible rows.
func (t *Table) SetVisibleRows(n int) {
	t.visibleRows = max(n, 1)
}

// SetStyles sets the table styles.
func (t *Table) SetStyles(header, row, rowAlt, selected, border lipgloss.Style) {
	t.headerStyle = header
	t.rowStyle = row
	t.rowAltStyle = rowAlt
	t.selectedStyle = selected
	t.borderStyle = border
}

// Focus sets the table focus state.
func (t *Table) Focus(focused bool) {
	t.focused = focused
}

// Selected returns the currently selected row index.
func (t *Table) Selected() int {
	return t.selected
}

// SelectedRow returns the currently selected row data.
func (t *Table) SelectedRow() []string {
	if t.selected >= 0 && t.selected < len(t.rows) {
		return t.rows[t.selected]
	}
	return nil
}

// MoveUp moves the selection up.
func (t *Table) MoveUp() {
	if t.selected > 0 {
		t.selected--
		if t.selected < t.offset {
			t.offset = t.selected
		}
	}
}

// MoveDown moves the selection down.
func (t *Table) MoveDown() {
	if t.selected < len(t.rows)-1 {
		t.selected++
		if t.selected >= t.offset+t.visibleRows {
			t.offset = t.selected - t.visibleRows + 1
		}
	}
}

// PageUp moves up one page.
func (t *Table) PageUp() {
	t.selected -= t.visibleRows
	if t.selected < 0 {
		t.selected = 0
	}
	t.offset = t.selected
}

// PageDown moves down one page.
func (t *Table) PageDown() {
	t.selected += t.visibleRows
	if t.selected >= len(t.rows) {
		t.selected = len(t.rows) - 1
	}
	if t.selected < 0 {
		t.selected = 0
	}
	t.offset = max(t.selected-t.visibleRows+1, 0)
}

// GoToTop goes to the first row.
func (t *Table) GoToTop() {
	t.selected = 0
	t.offset = 0
}

// GoToBottom goes to the last row.
func (t *Table) GoToBottom() {
	if len(t.rows) > 0 {
		t.selected = len(t.rows) - 1
		t.offset = max(t.selected-t.visibleRows+1, 0)
	}
}

// Render renders the table at the columns' own widths.
func (t *Table) Render() string {
	return t.RenderResponsive(0)
}

// RenderResponsive renders the table to fit width, dropping low priority
// columns and growing weighted ones. A width of 0 uses fixed widths.
func (t *Table) RenderResponsive(width int) string {
	var b strings.Builder

	widths := t.computeWidths(width)

	totalWidth := 2
	visible := 0
	for _, w := range widths {
		if w > 0 {
			totalWidth += w
			visible++
		}
	}
	if visible > 1 {
		totalWidth += (visible - 1) * separatorWidth
	}

	b.WriteString(t.renderRow(t.getHeaders(), widths, t.headerStyle))
	b.WriteString("\n")
	b.WriteString(t.borderStyle.Render(strings.Repeat("-", totalWidth)))
	b.WriteString("\n")

	endIdx := min(t.offset+t.visibleRows, len(t.rows))
	for i := t.offset; i < endIdx; i++ {
		style := t.rowStyle
		switch {
		case i == t.selected && t.focused:
			style = t.selectedStyle
		case (i-t.offset)%2 == 1:
			style = t.rowAltStyle
		}

		b.WriteString(t.renderRow(t.rows[i], widths, style))
		b.WriteString("\n")
	}

	if t.totalPages > 0 {
		b.WriteString(t.borderStyle.Render(strings.Repeat("-", totalWidth)))
		b.WriteString("\n")
		b.WriteString(t.borderStyle.Render(fmt.Sprintf("Page %d/%d | %d total", t.currentPage, t.totalPages, t.totalRows)))
	}

	return b.String()
}

// computeWidths returns the rendered width of every column; dropped
// columns get 0.
func (t *Table) computeWidths(available int) []int {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = col.Width
	}
	if available <= 0 {
		return widths
	}

	used := func() (total, visible int) {
		for _, w := range widths {
			if w > 0 {
				total += w
				visible++
			}
		}
		if visible > 1 {
			total += (visible - 1) * separatorWidth
		}
		return total + 2, visible
	}

	// Drop the lowest priority column until the rest fit.
	for {
		total, visible := used()
		if total <= available || visible <= 1 {
			break
		}
		lowest := -1
		for i, col := range t.columns {
			if widths[i] == 0 {
				continue
			}
			if lowest < 0 || col.Priority < t.columns[lowest].Priority {
				lowest = i
			}
		}
		widths[lowest] = 0
	}

	// Share what is left among weighted columns.
	fixed, totalWeight := 0, 0.0
	visible := 0
	for i, col := range t.columns {
		if widths[i] == 0 {
			continue
		}
		visible++
		if col.Weight > 0 {
			totalWeight += col.Weight
		} else {
			fixed += col.Width
		}
	}
	if totalWeight == 0 {
		return widths
	}

	remaining := available - fixed - 2
	if visible > 1 {
		remaining -= (visible - 1) * separatorWidth
	}
	for i, col := range t.columns {
		if widths[i] == 0 || col.Weight == 0 {
			continue
		}
		widths[i] = max(int(float64(remaining)*col.Weight/totalWeight), col.Width)
	}

	return widths
}

func (t *Table) getHeaders() []string {
	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Title
	}
	return headers
}

func (t *Table) renderRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string

	for i, col := range t.columns {
		width := widths[i]
		if width == 0 {
			continue
		}

		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}

		runes := []rune(cell)
		if len(runes) > width {
			cell = string(runes[:width-1]) + "…"
		}

		pad := max(width-lipgloss.Width(cell), 0)
		switch col.Align {
		case lipgloss.Right:
			cell = strings.Repeat(" ", pad) + cell
		case lipgloss.Center:
			cell = strings.Repeat(" ", pad/2) + cell + strings.Repeat(" ", pad-pad/2)
		default: // Left
			cell += strings.Repeat(" ", pad)
		}

		parts = append(parts, style.Render(cell))
	}

	return " " + strings.Join(parts, " | ") + " "
}

// Empty returns true if the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}
