package models

import (
	"fmt"
	"time"
)

// ReportKind names the command that produced a report.
type ReportKind string

const (
	ReportKindCheck    ReportKind = "check"
	ReportKindValidate ReportKind = "validate"
	ReportKindExpand   ReportKind = "expand"
)

// Valid returns true if the report kind is valid.
func (k ReportKind) Valid() bool {
	switch k {
	case ReportKindCheck, ReportKindValidate, ReportKindExpand:
		return true
	default:
		return false
	}
}

// CheckReport is a stored record of one check, validation or expansion.
type CheckReport struct {
	ID   string     `json:"id" yaml:"id"`
	Kind ReportKind `json:"kind" yaml:"kind"`
	// Subject is what was checked: species counts, an aquarium file or a
	// save name.
	Subject      string            `json:"subject" yaml:"subject"`
	Okay         bool              `json:"okay" yaml:"okay"`
	ExhibitCount int               `json:"exhibit_count" yaml:"exhibit_count"`
	CreatedAt    time.Time         `json:"created_at" yaml:"created_at"`
	Violations   []ReportViolation `json:"violations,omitempty" yaml:"violations,omitempty"`
}

// ReportViolation is one violation as stored in the history.
type ReportViolation struct {
	Exhibit     string   `json:"exhibit,omitempty" yaml:"exhibit,omitempty"`
	AnimalID    AnimalID `json:"animal_id" yaml:"animal_id"`
	Species     string   `json:"species" yaml:"species"`
	Constraint  string   `json:"constraint" yaml:"constraint"`
	Conflicting string   `json:"conflicting,omitempty" yaml:"conflicting,omitempty"`
	Message     string   `json:"message" yaml:"message"`
}

// Validate checks that the report can be stored.
func (r *CheckReport) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("invalid kind: %s", r.Kind)
	}
	if r.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if r.ExhibitCount < 0 {
		return fmt.Errorf("exhibit_count must be non-negative")
	}
	if r.Okay && len(r.Violations) > 0 {
		return fmt.Errorf("an okay report cannot carry violations")
	}
	for i, v := range r.Violations {
		if v.Species == "" || v.Constraint == "" || v.Message == "" {
			return fmt.Errorf("violation %d: species, constraint and message are required", i+1)
		}
	}
	return nil
}

// CheckReportFilter narrows history queries.
type CheckReportFilter struct {
	Kind     *ReportKind
	OkayOnly *bool
	Since    *time.Time
	// SubjectTerm matches subjects containing it.
	SubjectTerm string
}

// CheckReportList is a page of reports, newest first.
type CheckReportList struct {
	Reports    []*CheckReport
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Page sizes of history listings.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Pagination selects one page of a listing. Pages count from 1.
type Pagination struct {
	Page     int
	PageSize int
}

// DefaultPagination is the first page at the default size.
func DefaultPagination() Pagination {
	return Pagination{Page: 1, PageSize: DefaultPageSize}
}

// Limit is the page size clamped to MaxPageSize. An unset size means the
// default.
func (p Pagination) Limit() int {
	switch {
	case p.PageSize < 1:
		return DefaultPageSize
	case p.PageSize > MaxPageSize:
		return MaxPageSize
	}
	return p.PageSize
}

// Offset is the number of rows before the page.
func (p Pagination) Offset() int {
	return (max(p.Page, 1) - 1) * p.Limit()
}

// TotalPages is the number of pages total rows fill, at least one.
func (p Pagination) TotalPages(total int) int {
	n := p.Limit()
	return max((total+n-1)/n, 1)
}
