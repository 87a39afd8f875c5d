package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lcmartin/studioshift/pkg/db"
)

// CandidateRow is one employee's audit entry for a shift instance.
type CandidateRow struct {
	EmployeeID      string
	EmployeeName    string
	Eligible        bool
	RejectionReason string
	Selected        bool
	Score           float64
	MinutesSoFar    int
	ScoreBreakdown  map[string]float64
}

// ShiftAuditReport explains how one shift instance was staffed: every
// candidate considered, why the rejected ones fell away, and the scores that
// ranked the eligible ones.
type ShiftAuditReport struct {
	Run        db.ScheduleRun
	ShiftDate  time.Time
	Label      string
	StartMin   int
	EndMin     int
	Candidates []CandidateRow
}

// ViewShiftAuditStore defines the database operations needed to inspect a shift's audit trail
type ViewShiftAuditStore interface {
	GetRun(ctx context.Context, runID string) (*db.ScheduleRun, error)
	GetCandidateAudits(ctx context.Context, runID string, shiftDate time.Time, label string, startMin, endMin int) ([]db.CandidateAudit, error)
	GetEmployeeNames(ctx context.Context, companyID string) (map[string]string, error)
}

// ViewShiftAudit returns the full candidate-by-candidate audit for one shift
// instance of a run. Selected candidates sort first, then eligible ones by
// descending score, then rejected ones by employee ID.
func ViewShiftAudit(
	ctx context.Context,
	database ViewShiftAuditStore,
	logger *zap.Logger,
	runID string,
	shiftDate time.Time,
	label string,
	startMin, endMin int,
) (*ShiftAuditReport, error) {
	logger.Debug("Fetching shift audit",
		zap.String("run_id", runID),
		zap.String("date", shiftDate.Format("2006-01-02")),
		zap.String("label", label))

	run, err := database.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	audits, err := database.GetCandidateAudits(ctx, runID, shiftDate, label, startMin, endMin)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate audits: %w", err)
	}
	if len(audits) == 0 {
		return nil, fmt.Errorf("%w: no audit for %s %s", ErrShiftNotFound, shiftDate.Format("2006-01-02"), label)
	}

	names, err := database.GetEmployeeNames(ctx, run.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employee names: %w", err)
	}

	candidates := make([]CandidateRow, 0, len(audits))
	for _, a := range audits {
		name := names[a.EmployeeID]
		if name == "" {
			name = a.EmployeeID
		}
		candidates = append(candidates, CandidateRow{
			EmployeeID:      a.EmployeeID,
			EmployeeName:    name,
			Eligible:        a.Eligible,
			RejectionReason: a.RejectionReason,
			Selected:        a.Selected,
			Score:           a.Score,
			MinutesSoFar:    a.MinutesSoFar,
			ScoreBreakdown:  a.ScoreBreakdown,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Selected != b.Selected {
			return a.Selected
		}
		if a.Eligible != b.Eligible {
			return a.Eligible
		}
		if a.Eligible && a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.EmployeeID < b.EmployeeID
	})

	return &ShiftAuditReport{
		Run:        *run,
		ShiftDate:  shiftDate,
		Label:      label,
		StartMin:   startMin,
		EndMin:     endMin,
		Candidates: candidates,
	}, nil
}
