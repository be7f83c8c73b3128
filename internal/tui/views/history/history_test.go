package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tankmate/tankmate/internal/config"
	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/report"
	"github.com/tankmate/tankmate/internal/services/aquarium"
	"github.com/tankmate/tankmate/internal/testutil"
)

// fakeSource serves a fixed list of reports, filtered by kind and subject.
type fakeSource struct {
	reports []*models.CheckReport
	err     error
	calls   []models.CheckReportFilter
	pages   []int
}

func (f *fakeSource) History(_ context.Context, filter models.CheckReportFilter, page models.Pagination) (*models.CheckReportList, error) {
	f.calls = append(f.calls, filter)
	f.pages = append(f.pages, page.Page)
	if f.err != nil {
		return nil, f.err
	}

	var matched []*models.CheckReport
	for _, r := range f.reports {
		if filter.Kind != nil && r.Kind != *filter.Kind {
			continue
		}
		if filter.SubjectTerm != "" && !strings.Contains(r.Subject, filter.SubjectTerm) {
			continue
		}
		matched = append(matched, r)
	}

	totalPages := (len(matched) + page.PageSize - 1) / page.PageSize
	start := min((page.Page-1)*page.PageSize, len(matched))
	end := min(start+page.PageSize, len(matched))

	return &models.CheckReportList{
		Reports:    matched[start:end],
		Total:      len(matched),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: totalPages,
	}, nil
}

var recorded = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testReports() []*models.CheckReport {
	return []*models.CheckReport{
		testutil.FixtureReport(func(r *models.CheckReport) {
			r.ID = "3f2a9c10-0000-4000-8000-000000000001"
		}),
		testutil.FixtureReport(func(r *models.CheckReport) {
			r.ID = "7b1d4e22-0000-4000-8000-000000000002"
			r.Kind = models.ReportKindValidate
			r.Subject = "reef.yaml"
			r.Okay = true
			r.ExhibitCount = 3
			r.Violations = nil
		}),
	}
}

func newTestView(source Source) *View {
	v := NewView(source, report.PaletteFor(config.ColorSchemePlain))
	v.SetNow(recorded.Add(90 * time.Minute))
	return v
}

func TestView_Load(t *testing.T) {
	source := &fakeSource{reports: testReports()}
	view := newTestView(source)

	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	output := view.Render(120)
	for _, want := range []string{"REPORT HISTORY", "3f2a9c10", "7b1d4e22", "check", "validate", "1h ago", "1 problems", "ok", "reef.yaml", "Page 1/1 | 2 total"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if strings.Contains(output, "3f2a9c10-0000") {
		t.Error("expected report ids shortened")
	}
}

func TestView_Load_Empty(t *testing.T) {
	view := newTestView(&fakeSource{})

	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.Contains(view.Render(120), "No reports recorded.") {
		t.Error("expected empty state message")
	}
	if view.SelectedReport() != nil {
		t.Error("expected no selection")
	}
}

func TestView_Load_NoHistory(t *testing.T) {
	view := newTestView(&fakeSource{err: aquarium.ErrNoHistory})

	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("expected no error when history is off, got %v", err)
	}
	if !view.Disabled() {
		t.Error("expected view disabled")
	}
	if !strings.Contains(view.Render(120), "Report history is not available.") {
		t.Error("expected unavailable message")
	}
}

func TestView_Load_Error(t *testing.T) {
	view := newTestView(&fakeSource{err: errors.New("database is locked")})

	if err := view.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if view.Disabled() {
		t.Error("expected view to stay enabled on a plain error")
	}
	if !strings.Contains(view.Render(120), "Error: database is locked") {
		t.Error("expected error in output")
	}
}

func TestView_Search(t *testing.T) {
	source := &fakeSource{reports: testReports()}
	view := newTestView(source)

	view.StartSearch()
	if !view.Searching() {
		t.Fatal("expected search focus")
	}

	for _, k := range []string{"r", "e", "e", "f"} {
		if view.HandleSearchKey(k) {
			t.Fatalf("expected typing %q not to commit", k)
		}
	}
	if !view.HandleSearchKey("enter") {
		t.Fatal("expected enter to commit")
	}
	if view.Searching() {
		t.Error("expected search focus to end")
	}

	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := source.calls[len(source.calls)-1].SubjectTerm; got != "reef" {
		t.Errorf("expected subject term reef, got %q", got)
	}
	if r := view.SelectedReport(); r == nil || r.Subject != "reef.yaml" {
		t.Errorf("expected reef.yaml report, got %+v", r)
	}

	view.StartSearch()
	if !view.HandleSearchKey("esc") {
		t.Fatal("expected esc to commit")
	}
	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := source.calls[len(source.calls)-1].SubjectTerm; got != "" {
		t.Errorf("expected cleared subject term, got %q", got)
	}
}

func TestView_CycleKind(t *testing.T) {
	source := &fakeSource{reports: testReports()}
	view := newTestView(source)

	view.CycleKind()
	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	filter := source.calls[len(source.calls)-1]
	if filter.Kind == nil || *filter.Kind != models.ReportKindCheck {
		t.Fatalf("expected check filter, got %+v", filter.Kind)
	}
	if r := view.SelectedReport(); r == nil || r.Kind != models.ReportKindCheck {
		t.Errorf("expected check report, got %+v", r)
	}

	// validate, expand, then back to all.
	view.CycleKind()
	view.CycleKind()
	view.CycleKind()
	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if source.calls[len(source.calls)-1].Kind != nil {
		t.Error("expected kind filter cleared after a full cycle")
	}
}

func TestView_Paging(t *testing.T) {
	source := &fakeSource{reports: testReports()}
	view := newTestView(source)

	view.PrevPage()
	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := source.pages[len(source.pages)-1]; got != 1 {
		t.Errorf("expected page to stay at 1, got %d", got)
	}

	// Past the last page reloads the last one.
	view.NextPage()
	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := source.pages[len(source.pages)-1]; got != 1 {
		t.Errorf("expected reload of page 1, got %d", got)
	}
	if view.SelectedReport() == nil {
		t.Error("expected reports after reload")
	}
}

func TestView_Navigation(t *testing.T) {
	view := newTestView(&fakeSource{reports: testReports()})
	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	view.MoveDown()
	if r := view.SelectedReport(); r == nil || r.Subject != "reef.yaml" {
		t.Errorf("expected second report, got %+v", r)
	}
	view.MoveUp()
	if r := view.SelectedReport(); r == nil || r.Kind != models.ReportKindCheck {
		t.Errorf("expected first report, got %+v", r)
	}
}

func TestView_RenderHelp(t *testing.T) {
	view := newTestView(&fakeSource{})

	if !strings.Contains(view.Render(120), "f:Kind") {
		t.Error("expected full help text on wide terminal")
	}
	if !strings.Contains(view.Render(50), "↑↓:Nav") {
		t.Error("expected compact help text on narrow terminal")
	}
}

func TestStatus(t *testing.T) {
	reports := testReports()
	if got := Status(reports[0]); got != "1 problems" {
		t.Errorf("Status = %q, want 1 problems", got)
	}
	if got := Status(reports[1]); got != "ok" {
		t.Errorf("Status = %q, want ok", got)
	}
}

func TestView_RenderDetail(t *testing.T) {
	view := newTestView(&fakeSource{})
	r := testutil.FixtureReport(func(r *models.CheckReport) {
		r.ID = "3f2a9c10-0000-4000-8000-000000000001"
		r.Kind = models.ReportKindValidate
		r.Subject = "aquarium.yaml"
		r.ExhibitCount = 2
		r.Violations = []models.ReportViolation{
			{Exhibit: "Chiller", AnimalID: 5, Species: "cold_goby", Constraint: "temperature", Conflicting: "clownfish", Message: "cold_goby requires cold tank but clownfish requires warm"},
			{Exhibit: "Chiller", AnimalID: 6, Species: "cold_goby", Constraint: "temperature", Conflicting: "clownfish", Message: "cold_goby requires cold tank but clownfish requires warm"},
			{Exhibit: "Lagoon", AnimalID: 9, Species: "grouper", Constraint: "quality", Message: "grouper requires 80% water quality"},
		}
	})

	output := view.RenderDetail(r, 120)
	for _, want := range []string{"REPORT 3f2a9c10", "validate", "aquarium.yaml", "2026-03-01", "Chiller:", "Lagoon:", "grouper requires 80% water quality"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in detail", want)
		}
	}
	if strings.Count(output, "requires cold tank") != 1 {
		t.Error("expected repeated messages once per exhibit")
	}
}

func TestView_RenderDetail_Okay(t *testing.T) {
	view := newTestView(&fakeSource{})
	r := testReports()[1]

	if !strings.Contains(view.RenderDetail(r, 120), "No problems!") {
		t.Error("expected no problems for an okay report")
	}
	for _, width := range []int{120, 50} {
		placeholder := view.RenderDetail(nil, width)
		if !strings.Contains(placeholder, "No report selected") {
			t.Errorf("expected placeholder for nil report at width %d, got %q", width, placeholder)
		}
		if strings.Contains(placeholder, "\n") {
			t.Errorf("placeholder should be one line at width %d, got %q", width, placeholder)
		}
	}
}
