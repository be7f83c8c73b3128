package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/util"
)

// ReportRepository handles check report history.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Create stores a report and its violations. With a nil tx the inserts run
// in a transaction of their own.
func (r *ReportRepository) Create(ctx context.Context, tx *sql.Tx, report *models.CheckReport) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	if err := report.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if tx != nil {
		return r.insert(ctx, tx, report)
	}

	own, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer own.Rollback()

	if err := r.insert(ctx, own, report); err != nil {
		return err
	}

	if err := own.Commit(); err != nil {
		return fmt.Errorf("committing report: %w", err)
	}
	return nil
}

func (r *ReportRepository) insert(ctx context.Context, ex execer, report *models.CheckReport) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO check_reports (id, kind, subject, okay, exhibit_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		report.ID,
		string(report.Kind),
		report.Subject,
		report.Okay,
		report.ExhibitCount,
		util.FormatTimestamp(report.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}

	for i, v := range report.Violations {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO report_violations (
				report_id, position, exhibit, animal_id, species,
				constraint_kind, conflicting, message
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			report.ID,
			i,
			v.Exhibit,
			int64(v.AnimalID),
			v.Species,
			v.Constraint,
			nullableString(v.Conflicting),
			v.Message,
		)
		if err != nil {
			return fmt.Errorf("inserting violation %d: %w", i, err)
		}
	}

	return nil
}

// GetByID retrieves a report with its violations.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.CheckReport, error) {
	query := `
		SELECT id, kind, subject, okay, exhibit_count, created_at
		FROM check_reports
		WHERE id = ?`

	report, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if report.Violations, err = r.violations(ctx, report.ID); err != nil {
		return nil, err
	}

	return report, nil
}

// List retrieves reports newest first, with their violations.
func (r *ReportRepository) List(ctx context.Context, filter models.CheckReportFilter, page models.Pagination) (*models.CheckReportList, error) {
	var conditions []string
	var args []any

	if filter.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(*filter.Kind))
	}
	if filter.OkayOnly != nil {
		conditions = append(conditions, "okay = ?")
		args = append(args, *filter.OkayOnly)
	}
	if filter.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, util.FormatTimestamp(*filter.Since))
	}
	if filter.SubjectTerm != "" {
		conditions = append(conditions, "subject LIKE ?")
		args = append(args, "%"+filter.SubjectTerm+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM check_reports %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting reports: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, kind, subject, okay, exhibit_count, created_at
		FROM check_reports
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, whereClause)

	args = append(args, page.Limit(), page.Offset())
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}

	var reports []*models.CheckReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	// The pool holds one connection; release it before the nested queries.
	rows.Close()

	for _, report := range reports {
		if report.Violations, err = r.violations(ctx, report.ID); err != nil {
			return nil, err
		}
	}

	return &models.CheckReportList{
		Reports:    reports,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.Limit(),
		TotalPages: page.TotalPages(total),
	}, nil
}

// Delete removes a report and, by cascade, its violations.
func (r *ReportRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	var ex execer = r.db
	if tx != nil {
		ex = tx
	}

	result, err := ex.ExecContext(ctx, "DELETE FROM check_reports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("report not found: %s", id)
	}

	return nil
}

// Prune keeps the newest keep reports and deletes the rest, returning how
// many were removed. keep <= 0 removes nothing.
func (r *ReportRepository) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, `
		DELETE FROM check_reports
		WHERE id NOT IN (
			SELECT id FROM check_reports ORDER BY created_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning reports: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned reports: %w", err)
	}

	return int(n), nil
}

func (r *ReportRepository) violations(ctx context.Context, reportID string) ([]models.ReportViolation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT exhibit, animal_id, species, constraint_kind, conflicting, message
		FROM report_violations
		WHERE report_id = ?
		ORDER BY position`, reportID)
	if err != nil {
		return nil, fmt.Errorf("querying violations: %w", err)
	}
	defer rows.Close()

	var violations []models.ReportViolation
	for rows.Next() {
		var v models.ReportViolation
		var animalID int64
		var conflicting sql.NullString
		if err := rows.Scan(&v.Exhibit, &animalID, &v.Species, &v.Constraint, &conflicting, &v.Message); err != nil {
			return nil, fmt.Errorf("scanning violation: %w", err)
		}
		v.AnimalID = models.AnimalID(animalID)
		v.Conflicting = conflicting.String
		violations = append(violations, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating violations: %w", err)
	}

	return violations, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*models.CheckReport, error) {
	var report models.CheckReport
	var kind, createdAt string

	err := row.Scan(&report.ID, &kind, &report.Subject, &report.Okay, &report.ExhibitCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning report: %w", err)
	}

	report.Kind = models.ReportKind(kind)
	if report.CreatedAt, err = util.ParseTimestamp(createdAt); err != nil {
		return nil, err
	}

	return &report, nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
