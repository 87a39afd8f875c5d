package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lcmartin/studioshift/pkg/core/model"
	"github.com/lcmartin/studioshift/pkg/core/scheduler"
	"github.com/lcmartin/studioshift/pkg/db"
)

var validate = validator.New()

// GenerateScheduleRequest describes one schedule generation run.
type GenerateScheduleRequest struct {
	CompanyID  string                     `validate:"required"`
	StudioID   string                     `validate:"required"`
	MonthStart time.Time                  `validate:"required"`
	MonthEnd   time.Time                  `validate:"required"`
	Version    scheduler.GeneratorVersion `validate:"required,oneof=v1 v2"`
	Overwrite  bool
}

// GenerateScheduleResult summarizes a completed run.
type GenerateScheduleResult struct {
	RunID           string
	Version         scheduler.GeneratorVersion
	InstanceCount   int
	AssignmentCount int
	GapCount        int
	Coverage        []scheduler.InstanceCoverage
}

// GenerateScheduleStore defines the database operations needed to generate a schedule
type GenerateScheduleStore interface {
	StudioExists(ctx context.Context, companyID, studioID string) (bool, error)
	GetActiveEmployees(ctx context.Context, companyID string) ([]model.Employee, error)
	GetEmployeeRules(ctx context.Context, companyID string) ([]model.EmployeeRule, error)
	GetAvailabilityBlocks(ctx context.Context, companyID string) ([]model.AvailabilityBlock, error)
	GetUnavailabilityBlocks(ctx context.Context, companyID string) ([]model.UnavailabilityBlock, error)
	GetDateRangeBlocks(ctx context.Context, companyID string, from, to time.Time) ([]model.DateRangeBlock, error)
	GetShiftTemplates(ctx context.Context, studioID string) ([]model.ShiftTemplate, error)
	FindRun(ctx context.Context, studioID string, monthStart, monthEnd time.Time) (*db.ScheduleRun, error)
	SaveRun(ctx context.Context, run db.ScheduleRun, shifts []db.ScheduledShift, shiftAudits []db.ShiftAudit, candidateAudits []db.CandidateAudit, overwrite bool) error
}

// GenerateSchedule expands the studio's shift templates over the requested
// month, assigns employees, and persists the run with its full audit trail.
// With Overwrite set, prior shifts for the studio and month are replaced in
// the same transaction.
func GenerateSchedule(
	ctx context.Context,
	database GenerateScheduleStore,
	weights scheduler.Weights,
	logger *zap.Logger,
	req GenerateScheduleRequest,
) (*GenerateScheduleResult, error) {
	logger.Debug("Starting generateSchedule",
		zap.String("studio_id", req.StudioID),
		zap.String("version", string(req.Version)),
		zap.Bool("overwrite", req.Overwrite))

	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid generation request: %w", err)
	}
	if req.MonthEnd.Before(req.MonthStart) {
		return nil, fmt.Errorf("%w: end %s before start %s",
			ErrInvalidRange, req.MonthEnd.Format("2006-01-02"), req.MonthStart.Format("2006-01-02"))
	}

	exists, err := database.StudioExists(ctx, req.CompanyID, req.StudioID)
	if err != nil {
		return nil, fmt.Errorf("failed to check studio: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrStudioNotFound, req.StudioID)
	}

	if !req.Overwrite {
		existing, err := database.FindRun(ctx, req.StudioID, req.MonthStart, req.MonthEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to check for existing run: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: run %s", ErrDuplicateRun, existing.ID)
		}
	}

	data, err := loadRoster(ctx, database, req)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded roster",
		zap.Int("employees", len(data.Employees)),
		zap.Int("templates", len(data.Templates)))

	gen, err := scheduler.New(req.Version, weights)
	if err != nil {
		return nil, err
	}

	logger.Info("Running schedule generator", zap.String("version", string(req.Version)))
	result, err := gen.Generate(*data, req.MonthStart, req.MonthEnd)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	gaps := 0
	for _, cov := range result.Coverage {
		if cov.MissingCount > 0 {
			gaps++
			logger.Warn("Coverage gap",
				zap.String("date", cov.Instance.Date.Format("2006-01-02")),
				zap.String("label", cov.Instance.Label),
				zap.Int("missing", cov.MissingCount))
		}
	}
	logger.Info("Generation completed",
		zap.Int("instances", len(result.Instances)),
		zap.Int("assignments", len(result.Assignments)),
		zap.Int("gaps", gaps))

	run := db.ScheduleRun{
		ID:               uuid.New().String(),
		CompanyID:        req.CompanyID,
		StudioID:         req.StudioID,
		MonthStart:       req.MonthStart,
		MonthEnd:         req.MonthEnd,
		GeneratorVersion: string(req.Version),
	}
	shifts, shiftAudits, candidateAudits := convertRunRecords(run, req.StudioID, result)

	if err := database.SaveRun(ctx, run, shifts, shiftAudits, candidateAudits, req.Overwrite); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}
	logger.Info("Run saved",
		zap.String("run_id", run.ID),
		zap.Int("shifts", len(shifts)))

	return &GenerateScheduleResult{
		RunID:           run.ID,
		Version:         req.Version,
		InstanceCount:   len(result.Instances),
		AssignmentCount: len(result.Assignments),
		GapCount:        gaps,
		Coverage:        result.Coverage,
	}, nil
}

// loadRoster fetches the roster snapshot for a run and applies employee rules
// to the profiles.
func loadRoster(ctx context.Context, database GenerateScheduleStore, req GenerateScheduleRequest) (*scheduler.RosterData, error) {
	employees, err := database.GetActiveEmployees(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	rules, err := database.GetEmployeeRules(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employee rules: %w", err)
	}
	byID := make(map[string]*model.Employee, len(employees))
	for i := range employees {
		byID[employees[i].ID] = &employees[i]
	}
	if err := model.ApplyRules(byID, rules); err != nil {
		return nil, fmt.Errorf("failed to apply employee rules: %w", err)
	}

	availability, err := database.GetAvailabilityBlocks(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	unavailability, err := database.GetUnavailabilityBlocks(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unavailability: %w", err)
	}
	dateRanges, err := database.GetDateRangeBlocks(ctx, req.CompanyID, req.MonthStart, req.MonthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch date blocks: %w", err)
	}
	templates, err := database.GetShiftTemplates(ctx, req.StudioID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift templates: %w", err)
	}

	return &scheduler.RosterData{
		Employees:      employees,
		Availability:   availability,
		Unavailability: unavailability,
		DateRanges:     dateRanges,
		Templates:      templates,
	}, nil
}

// convertRunRecords maps an engine result to database records for persistence.
func convertRunRecords(run db.ScheduleRun, studioID string, result *scheduler.Result) ([]db.ScheduledShift, []db.ShiftAudit, []db.CandidateAudit) {
	instances := make(map[string]model.ShiftInstance, len(result.Instances))
	for _, inst := range result.Instances {
		instances[inst.ID] = inst
	}

	shifts := make([]db.ScheduledShift, 0, len(result.Assignments))
	for _, a := range result.Assignments {
		inst := instances[a.InstanceID]
		shifts = append(shifts, db.ScheduledShift{
			ID:         uuid.New().String(),
			RunID:      run.ID,
			StudioID:   studioID,
			EmployeeID: a.EmployeeID,
			ShiftDate:  inst.Date,
			DayOfWeek:  inst.DayOfWeek,
			Label:      inst.Label,
			StartMin:   inst.StartMin,
			EndMin:     inst.EndMin,
		})
	}

	shiftAudits := make([]db.ShiftAudit, 0, len(result.Coverage))
	for _, cov := range result.Coverage {
		summary := make(map[string]int, len(cov.RejectionSummary))
		for reason, count := range cov.RejectionSummary {
			summary[string(reason)] = count
		}
		shiftAudits = append(shiftAudits, db.ShiftAudit{
			RunID:            run.ID,
			ShiftDate:        cov.Instance.Date,
			Label:            cov.Instance.Label,
			StartMin:         cov.Instance.StartMin,
			EndMin:           cov.Instance.EndMin,
			RequiredCount:    cov.Instance.RequiredCount,
			AssignedCount:    cov.ScheduledCount,
			CandidateCount:   cov.CandidateCount,
			MissingCount:     cov.MissingCount,
			RejectionSummary: summary,
		})
	}

	candidateAudits := make([]db.CandidateAudit, 0, len(result.Audit))
	for _, rec := range result.Audit {
		inst := instances[rec.InstanceID]
		candidateAudits = append(candidateAudits, db.CandidateAudit{
			RunID:           run.ID,
			ShiftDate:       inst.Date,
			Label:           inst.Label,
			StartMin:        inst.StartMin,
			EndMin:          inst.EndMin,
			EmployeeID:      rec.EmployeeID,
			Eligible:        rec.Eligible,
			RejectionReason: string(rec.RejectionReason),
			Selected:        rec.Selected,
			Score:           rec.Score,
			MinutesSoFar:    rec.MinutesSoFar,
			ScoreBreakdown:  rec.ScoreBreakdown,
		})
	}

	return shifts, shiftAudits, candidateAudits
}
