package repository

import (
	"context"
	"testing"
	"time"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/testutil"
)

func setupReportTest(t *testing.T) (*ReportRepository, *testutil.TestDB, context.Context) {
	t.Helper()
	db := testutil.NewTestDB(t)
	repo := NewReportRepository(db.DB)
	ctx := context.Background()
	return repo, db, ctx
}

func TestReportRepository_Create(t *testing.T) {
	repo, db, ctx := setupReportTest(t)

	report := testutil.FixtureReport()

	t.Run("Create report with violations", func(t *testing.T) {
		if err := repo.Create(ctx, nil, report); err != nil {
			t.Fatalf("failed to create report: %v", err)
		}

		got, err := repo.GetByID(ctx, report.ID)
		if err != nil {
			t.Fatalf("failed to get report: %v", err)
		}

		if got.Kind != report.Kind {
			t.Errorf("expected kind %s, got %s", report.Kind, got.Kind)
		}
		if got.Subject != report.Subject {
			t.Errorf("expected subject %q, got %q", report.Subject, got.Subject)
		}
		if got.Okay {
			t.Error("expected a failed report")
		}
		if !got.CreatedAt.Equal(report.CreatedAt) {
			t.Errorf("expected created_at %v, got %v", report.CreatedAt, got.CreatedAt)
		}
		if len(got.Violations) != 1 || got.Violations[0] != report.Violations[0] {
			t.Errorf("expected violations %+v, got %+v", report.Violations, got.Violations)
		}
		db.AssertRowCount(t, "report_violations", 1)
	})

	t.Run("Create duplicate id fails", func(t *testing.T) {
		if err := repo.Create(ctx, nil, report); err == nil {
			t.Error("expected error for duplicate report id")
		}
		db.AssertRowCount(t, "report_violations", 1)
	})

	t.Run("Create sets created_at", func(t *testing.T) {
		fresh := testutil.FixtureReport(func(r *models.CheckReport) {
			r.CreatedAt = time.Time{}
		})
		before := time.Now().UTC()
		if err := repo.Create(ctx, nil, fresh); err != nil {
			t.Fatalf("failed to create report: %v", err)
		}
		if fresh.CreatedAt.Before(before) {
			t.Errorf("created_at %v not set to now", fresh.CreatedAt)
		}
	})

	t.Run("Invalid report is rejected", func(t *testing.T) {
		bad := testutil.FixtureReport(func(r *models.CheckReport) {
			r.Kind = "guess"
		})
		if err := repo.Create(ctx, nil, bad); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestReportRepository_CreateInTransaction(t *testing.T) {
	repo, db, ctx := setupReportTest(t)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	report := testutil.FixtureReport()
	if err := repo.Create(ctx, tx, report); err != nil {
		t.Fatalf("failed to create report: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	db.AssertRowCount(t, "check_reports", 0)
	db.AssertRowCount(t, "report_violations", 0)
}

func TestReportRepository_GetByID_NotFound(t *testing.T) {
	repo, _, ctx := setupReportTest(t)

	if _, err := repo.GetByID(ctx, "missing"); err == nil {
		t.Error("expected error for missing report")
	}
}

func TestReportRepository_List(t *testing.T) {
	repo, _, ctx := setupReportTest(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		report := testutil.FixtureReport(func(r *models.CheckReport) {
			r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
			if i%2 == 0 {
				r.Kind = models.ReportKindValidate
				r.Subject = "reef.yaml"
				r.Okay = true
				r.ExhibitCount = 3
				r.Violations = nil
			}
		})
		if err := repo.Create(ctx, nil, report); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	t.Run("List all newest first", func(t *testing.T) {
		list, err := repo.List(ctx, models.CheckReportFilter{}, models.DefaultPagination())
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if list.Total != 5 {
			t.Errorf("expected 5 reports, got %d", list.Total)
		}
		for i := 1; i < len(list.Reports); i++ {
			if list.Reports[i].CreatedAt.After(list.Reports[i-1].CreatedAt) {
				t.Errorf("reports not newest first at %d", i)
			}
		}
		if len(list.Reports[1].Violations) != 1 {
			t.Errorf("expected listed check report to carry its violation, got %d", len(list.Reports[1].Violations))
		}
	})

	t.Run("Filter by kind", func(t *testing.T) {
		kind := models.ReportKindValidate
		list, err := repo.List(ctx, models.CheckReportFilter{Kind: &kind}, models.DefaultPagination())
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if list.Total != 3 {
			t.Errorf("expected 3 validate reports, got %d", list.Total)
		}
	})

	t.Run("Filter failed only", func(t *testing.T) {
		okay := false
		list, err := repo.List(ctx, models.CheckReportFilter{OkayOnly: &okay}, models.DefaultPagination())
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if list.Total != 2 {
			t.Errorf("expected 2 failed reports, got %d", list.Total)
		}
	})

	t.Run("Filter by subject and time", func(t *testing.T) {
		since := base.Add(2 * time.Hour)
		list, err := repo.List(ctx, models.CheckReportFilter{SubjectTerm: "reef", Since: &since}, models.DefaultPagination())
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if list.Total != 2 {
			t.Errorf("expected 2 reports, got %d", list.Total)
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		list, err := repo.List(ctx, models.CheckReportFilter{}, models.Pagination{Page: 2, PageSize: 2})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(list.Reports) != 2 {
			t.Errorf("expected 2 reports on page 2, got %d", len(list.Reports))
		}
		if list.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", list.TotalPages)
		}
		if !list.Reports[0].CreatedAt.Equal(base.Add(2 * time.Hour)) {
			t.Errorf("unexpected first report on page 2: %v", list.Reports[0].CreatedAt)
		}
	})
}

func TestReportRepository_DeleteAndPrune(t *testing.T) {
	repo, db, ctx := setupReportTest(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 4; i++ {
		report := testutil.FixtureReport(func(r *models.CheckReport) {
			r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		})
		if err := repo.Create(ctx, nil, report); err != nil {
			t.Fatalf("setup: %v", err)
		}
		ids = append(ids, report.ID)
	}

	if err := repo.Delete(ctx, nil, ids[3]); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	db.AssertRowCount(t, "report_violations", 3)

	if err := repo.Delete(ctx, nil, ids[3]); err == nil {
		t.Error("expected error deleting a missing report")
	}

	removed, err := repo.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("failed to prune: %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune() removed %d, want 2", removed)
	}
	db.AssertRowCount(t, "check_reports", 1)

	if _, err := repo.GetByID(ctx, ids[2]); err != nil {
		t.Errorf("newest report should survive pruning: %v", err)
	}

	if removed, _ := repo.Prune(ctx, 0); removed != 0 {
		t.Errorf("Prune(0) removed %d, want 0", removed)
	}
}
