// Package aquarium runs compatibility checks over exhibits: single
// hypothetical tanks, whole aquariums, and expansions of an existing
// aquarium. Results can be recorded to the report history.
package aquarium

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/tankmate/tankmate/internal/catalog"
	"github.com/tankmate/tankmate/internal/config"
	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/repository"
	"github.com/tankmate/tankmate/internal/rules"
	"github.com/tankmate/tankmate/internal/util"
)

// ErrNoHistory is returned by history operations when no database is open.
var ErrNoHistory = errors.New("report history is not available")

// Service provides exhibit checking operations.
type Service struct {
	data        *catalog.GameData
	reports     *repository.ReportRepository
	check       config.CheckConfig
	record      bool
	keepReports int
	idGenerator *util.IDGenerator
}

// NewService creates a new aquarium service. db may be nil, in which case
// nothing is recorded and the history is unavailable.
func NewService(data *catalog.GameData, db *sql.DB, cfg *config.Config) *Service {
	s := &Service{
		data:        data,
		check:       cfg.Check,
		idGenerator: util.NewIDGenerator(),
	}

	if db != nil {
		s.reports = repository.NewReportRepository(db)
		s.record = cfg.Database.RecordReports
		s.keepReports = cfg.Database.KeepReports
	}

	return s
}

// Data returns the catalog the service checks against.
func (s *Service) Data() *catalog.GameData {
	return s.data
}

// History lists recorded reports, newest first.
func (s *Service) History(ctx context.Context, filter models.CheckReportFilter, page models.Pagination) (*models.CheckReportList, error) {
	if s.reports == nil {
		return nil, ErrNoHistory
	}
	return s.reports.List(ctx, filter, page)
}

// Report retrieves one recorded report.
func (s *Service) Report(ctx context.Context, id string) (*models.CheckReport, error) {
	if s.reports == nil {
		return nil, ErrNoHistory
	}
	return s.reports.GetByID(ctx, id)
}

// exhibitViolations pairs violations with the exhibit they were found in.
type exhibitViolations struct {
	exhibit    string
	violations []rules.Violation
}

// recordReport stores a report when recording is enabled. Failures are
// logged and otherwise ignored; a check never fails because its history
// could not be written.
func (s *Service) recordReport(ctx context.Context, kind models.ReportKind, subject string, exhibits int, found []exhibitViolations) {
	if !s.record {
		return
	}

	report := &models.CheckReport{
		ID:           s.idGenerator.NewID(),
		Kind:         kind,
		Subject:      subject,
		ExhibitCount: exhibits,
	}
	for _, f := range found {
		for _, v := range f.violations {
			report.Violations = append(report.Violations, toReportViolation(f.exhibit, v))
		}
	}
	report.Okay = len(report.Violations) == 0

	if err := s.reports.Create(ctx, nil, report); err != nil {
		slog.Warn("failed to record report", "kind", kind, "subject", subject, "error", err)
		return
	}
	slog.Debug("recorded report", "id", report.ID, "kind", kind, "violations", len(report.Violations))

	if n, err := s.reports.Prune(ctx, s.keepReports); err != nil {
		slog.Warn("failed to prune report history", "error", err)
	} else if n > 0 {
		slog.Debug("pruned report history", "removed", n)
	}
}

func toReportViolation(exhibit string, v rules.Violation) models.ReportViolation {
	rv := models.ReportViolation{
		Exhibit:    exhibit,
		AnimalID:   v.Animal.ID,
		Species:    v.Animal.Species,
		Constraint: v.Constraint.Kind.String(),
		Message:    v.String(),
	}
	if v.Conflicting != nil {
		rv.Conflicting = v.Conflicting.Species
	}
	return rv
}
