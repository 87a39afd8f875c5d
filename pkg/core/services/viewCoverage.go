package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lcmartin/studioshift/pkg/db"
)

// CoverageAssignee is one assigned employee: the ID is always the stored
// employee ID, the name falls back to the ID when the roster no longer
// resolves it.
type CoverageAssignee struct {
	EmployeeID string
	Name       string
}

// CoverageRow is one shift instance in a coverage report, with the assigned
// employees resolved to names.
type CoverageRow struct {
	ShiftDate        time.Time
	Label            string
	StartMin         int
	EndMin           int
	RequiredCount    int
	AssignedCount    int
	MissingCount     int
	CandidateCount   int
	Assigned         []CoverageAssignee
	RejectionSummary map[string]int
}

// CoverageReport is the full staffing picture for one run.
type CoverageReport struct {
	Run      db.ScheduleRun
	Rows     []CoverageRow
	GapCount int
}

// ViewCoverageStore defines the database operations needed to build a coverage report
type ViewCoverageStore interface {
	GetRun(ctx context.Context, runID string) (*db.ScheduleRun, error)
	GetShiftAudits(ctx context.Context, runID string) ([]db.ShiftAudit, error)
	GetScheduledShifts(ctx context.Context, runID string) ([]db.ScheduledShift, error)
	GetEmployeeNames(ctx context.Context, companyID string) (map[string]string, error)
}

// ViewCoverage joins a run's shift audits with its assignments to produce a
// per-instance staffing report.
func ViewCoverage(
	ctx context.Context,
	database ViewCoverageStore,
	logger *zap.Logger,
	runID string,
) (*CoverageReport, error) {
	logger.Debug("Building coverage report", zap.String("run_id", runID))

	run, err := database.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	audits, err := database.GetShiftAudits(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift audits: %w", err)
	}
	shifts, err := database.GetScheduledShifts(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scheduled shifts: %w", err)
	}
	names, err := database.GetEmployeeNames(ctx, run.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employee names: %w", err)
	}

	// Index assignments by instance key for the join
	assigned := make(map[string][]CoverageAssignee)
	for _, s := range shifts {
		key := instanceKey(s.ShiftDate, s.Label, s.StartMin, s.EndMin)
		name := names[s.EmployeeID]
		if name == "" {
			name = s.EmployeeID
		}
		assigned[key] = append(assigned[key], CoverageAssignee{EmployeeID: s.EmployeeID, Name: name})
	}

	rows := make([]CoverageRow, 0, len(audits))
	gaps := 0
	for _, a := range audits {
		key := instanceKey(a.ShiftDate, a.Label, a.StartMin, a.EndMin)
		assignees := assigned[key]
		sort.Slice(assignees, func(i, j int) bool {
			if assignees[i].Name != assignees[j].Name {
				return assignees[i].Name < assignees[j].Name
			}
			return assignees[i].EmployeeID < assignees[j].EmployeeID
		})
		if a.MissingCount > 0 {
			gaps++
		}
		rows = append(rows, CoverageRow{
			ShiftDate:        a.ShiftDate,
			Label:            a.Label,
			StartMin:         a.StartMin,
			EndMin:           a.EndMin,
			RequiredCount:    a.RequiredCount,
			AssignedCount:    a.AssignedCount,
			MissingCount:     a.MissingCount,
			CandidateCount:   a.CandidateCount,
			Assigned:         assignees,
			RejectionSummary: a.RejectionSummary,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].ShiftDate.Equal(rows[j].ShiftDate) {
			return rows[i].ShiftDate.Before(rows[j].ShiftDate)
		}
		if rows[i].StartMin != rows[j].StartMin {
			return rows[i].StartMin < rows[j].StartMin
		}
		return rows[i].Label < rows[j].Label
	})

	logger.Debug("Coverage report built",
		zap.Int("rows", len(rows)),
		zap.Int("gaps", gaps))

	return &CoverageReport{Run: *run, Rows: rows, GapCount: gaps}, nil
}

func instanceKey(date time.Time, label string, startMin, endMin int) string {
	return fmt.Sprintf("%s|%s|%d-%d", date.Format("2006-01-02"), label, startMin, endMin)
}
