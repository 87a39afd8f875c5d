package db

import (
	"context"
	"time"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

// RosterStore reads the roster data a generation run consumes. All reads are
// scoped to one company or studio; the engine never sees other tenants' data.
type RosterStore interface {
	StudioExists(ctx context.Context, companyID, studioID string) (bool, error)
	GetActiveEmployees(ctx context.Context, companyID string) ([]model.Employee, error)
	GetEmployeeRules(ctx context.Context, companyID string) ([]model.EmployeeRule, error)
	GetAvailabilityBlocks(ctx context.Context, companyID string) ([]model.AvailabilityBlock, error)
	GetUnavailabilityBlocks(ctx context.Context, companyID string) ([]model.UnavailabilityBlock, error)
	GetDateRangeBlocks(ctx context.Context, companyID string, from, to time.Time) ([]model.DateRangeBlock, error)
	GetShiftTemplates(ctx context.Context, studioID string) ([]model.ShiftTemplate, error)
	GetEmployeeNames(ctx context.Context, companyID string) (map[string]string, error)
}

// ScheduleStore persists and reads generation runs. SaveRun commits the run,
// its assignments, and both audit tables in a single transaction; a failure
// must leave nothing visible to readers.
type ScheduleStore interface {
	FindRun(ctx context.Context, studioID string, monthStart, monthEnd time.Time) (*ScheduleRun, error)
	GetRun(ctx context.Context, runID string) (*ScheduleRun, error)
	SaveRun(ctx context.Context, run ScheduleRun, shifts []ScheduledShift, shiftAudits []ShiftAudit, candidateAudits []CandidateAudit, overwrite bool) error

	GetScheduledShifts(ctx context.Context, runID string) ([]ScheduledShift, error)
	GetShiftAudits(ctx context.Context, runID string) ([]ShiftAudit, error)
	GetCandidateAudits(ctx context.Context, runID string, shiftDate time.Time, label string, startMin, endMin int) ([]CandidateAudit, error)

	// Single-assignment mutations for the manager editing workflow.
	GetScheduledShift(ctx context.Context, shiftID string) (*ScheduledShift, error)
	InsertScheduledShift(ctx context.Context, shift ScheduledShift) error
	UpdateScheduledShift(ctx context.Context, shiftID, employeeID string) error
	DeleteScheduledShift(ctx context.Context, shiftID string) error
}
