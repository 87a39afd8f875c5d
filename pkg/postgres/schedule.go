package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lcmartin/studioshift/pkg/db"
)

// FindRun returns the most recent run for a studio and month window, or nil
// if none exists.
func (d *DB) FindRun(ctx context.Context, studioID string, monthStart, monthEnd time.Time) (*db.ScheduleRun, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT schedule_run_id, company_id, studio_id, month_start, month_end, generator_version, created_at
		FROM schedule_runs
		WHERE studio_id = $1 AND month_start = $2 AND month_end = $3
		ORDER BY created_at DESC
		LIMIT 1
	`, studioID, monthStart, monthEnd)
	return scanRun(row)
}

func (d *DB) GetRun(ctx context.Context, runID string) (*db.ScheduleRun, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT schedule_run_id, company_id, studio_id, month_start, month_end, generator_version, created_at
		FROM schedule_runs
		WHERE schedule_run_id = $1
	`, runID)
	return scanRun(row)
}

func scanRun(row pgx.Row) (*db.ScheduleRun, error) {
	var run db.ScheduleRun
	err := row.Scan(&run.ID, &run.CompanyID, &run.StudioID, &run.MonthStart, &run.MonthEnd, &run.GeneratorVersion, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan schedule run: %w", err)
	}
	return &run, nil
}

// SaveRun persists a run with its assignments and audit rows in one
// transaction. With overwrite set, prior scheduled shifts for the studio in
// the run's date range are deleted inside the same transaction, so readers
// never observe a half-replaced schedule.
func (d *DB) SaveRun(
	ctx context.Context,
	run db.ScheduleRun,
	shifts []db.ScheduledShift,
	shiftAudits []db.ShiftAudit,
	candidateAudits []db.CandidateAudit,
	overwrite bool,
) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO schedule_runs (schedule_run_id, company_id, studio_id, month_start, month_end, generator_version)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, run.ID, run.CompanyID, run.StudioID, run.MonthStart, run.MonthEnd, run.GeneratorVersion)
	if err != nil {
		return fmt.Errorf("failed to insert schedule run: %w", err)
	}

	if overwrite {
		_, err = tx.Exec(ctx, `
			DELETE FROM scheduled_shifts
			WHERE studio_id = $1 AND shift_date BETWEEN $2 AND $3
		`, run.StudioID, run.MonthStart, run.MonthEnd)
		if err != nil {
			return fmt.Errorf("failed to delete prior shifts: %w", err)
		}
	}

	for _, s := range shifts {
		_, err = tx.Exec(ctx, `
			INSERT INTO scheduled_shifts
			  (scheduled_shift_id, schedule_run_id, studio_id, employee_id, shift_date, day_of_week, label, start_min, end_min)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, s.ID, s.RunID, s.StudioID, s.EmployeeID, s.ShiftDate, s.DayOfWeek, s.Label, s.StartMin, s.EndMin)
		if err != nil {
			return fmt.Errorf("failed to insert scheduled shift: %w", err)
		}
	}

	for _, a := range shiftAudits {
		summary, err := json.Marshal(a.RejectionSummary)
		if err != nil {
			return fmt.Errorf("failed to marshal rejection summary: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO schedule_audit_shift
			  (schedule_run_id, shift_date, label, start_min, end_min,
			   required_count, assigned_count, candidate_count, missing_count, rejection_summary)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, a.RunID, a.ShiftDate, a.Label, a.StartMin, a.EndMin,
			a.RequiredCount, a.AssignedCount, a.CandidateCount, a.MissingCount, summary)
		if err != nil {
			return fmt.Errorf("failed to insert shift audit: %w", err)
		}
	}

	for _, c := range candidateAudits {
		details, err := json.Marshal(candidateDetails{
			Selected:       c.Selected,
			MinutesSoFar:   c.MinutesSoFar,
			Score:          c.Score,
			ScoreBreakdown: c.ScoreBreakdown,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal candidate details: %w", err)
		}
		var reason *string
		if c.RejectionReason != "" {
			reason = &c.RejectionReason
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO schedule_audit_candidate
			  (schedule_run_id, shift_date, label, start_min, end_min, employee_id, eligible, rejection_reason, details)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, c.RunID, c.ShiftDate, c.Label, c.StartMin, c.EndMin, c.EmployeeID, c.Eligible, reason, details)
		if err != nil {
			return fmt.Errorf("failed to insert candidate audit: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schedule run: %w", err)
	}
	return nil
}

// candidateDetails is the JSONB details payload of a candidate audit row.
type candidateDetails struct {
	Selected       bool               `json:"selected"`
	MinutesSoFar   int                `json:"minutes_so_far"`
	Score          float64            `json:"score"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown,omitempty"`
}

func (d *DB) GetScheduledShifts(ctx context.Context, runID string) ([]db.ScheduledShift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT scheduled_shift_id, schedule_run_id, studio_id, employee_id, shift_date, day_of_week, label, start_min, end_min
		FROM scheduled_shifts
		WHERE schedule_run_id = $1
		ORDER BY shift_date, start_min, employee_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled shifts: %w", err)
	}
	defer rows.Close()

	var shifts []db.ScheduledShift
	for rows.Next() {
		var s db.ScheduledShift
		if err := rows.Scan(&s.ID, &s.RunID, &s.StudioID, &s.EmployeeID, &s.ShiftDate, &s.DayOfWeek, &s.Label, &s.StartMin, &s.EndMin); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

func (d *DB) GetShiftAudits(ctx context.Context, runID string) ([]db.ShiftAudit, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT schedule_run_id, shift_date, label, start_min, end_min,
		       required_count, assigned_count, candidate_count, missing_count, rejection_summary
		FROM schedule_audit_shift
		WHERE schedule_run_id = $1
		ORDER BY shift_date, start_min, label
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift audits: %w", err)
	}
	defer rows.Close()

	var audits []db.ShiftAudit
	for rows.Next() {
		var a db.ShiftAudit
		var summary []byte
		if err := rows.Scan(&a.RunID, &a.ShiftDate, &a.Label, &a.StartMin, &a.EndMin,
			&a.RequiredCount, &a.AssignedCount, &a.CandidateCount, &a.MissingCount, &summary); err != nil {
			return nil, fmt.Errorf("failed to scan shift audit: %w", err)
		}
		if err := json.Unmarshal(summary, &a.RejectionSummary); err != nil {
			return nil, fmt.Errorf("failed to decode rejection summary: %w", err)
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func (d *DB) GetCandidateAudits(ctx context.Context, runID string, shiftDate time.Time, label string, startMin, endMin int) ([]db.CandidateAudit, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT schedule_run_id, shift_date, label, start_min, end_min, employee_id,
		       eligible, COALESCE(rejection_reason, ''), details
		FROM schedule_audit_candidate
		WHERE schedule_run_id = $1 AND shift_date = $2 AND label = $3 AND start_min = $4 AND end_min = $5
		ORDER BY employee_id
	`, runID, shiftDate, label, startMin, endMin)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate audits: %w", err)
	}
	defer rows.Close()

	var audits []db.CandidateAudit
	for rows.Next() {
		var c db.CandidateAudit
		var details []byte
		if err := rows.Scan(&c.RunID, &c.ShiftDate, &c.Label, &c.StartMin, &c.EndMin, &c.EmployeeID,
			&c.Eligible, &c.RejectionReason, &details); err != nil {
			return nil, fmt.Errorf("failed to scan candidate audit: %w", err)
		}
		var payload candidateDetails
		if err := json.Unmarshal(details, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode candidate details: %w", err)
		}
		c.Selected = payload.Selected
		c.MinutesSoFar = payload.MinutesSoFar
		c.Score = payload.Score
		c.ScoreBreakdown = payload.ScoreBreakdown
		audits = append(audits, c)
	}
	return audits, rows.Err()
}

func (d *DB) GetScheduledShift(ctx context.Context, shiftID string) (*db.ScheduledShift, error) {
	var s db.ScheduledShift
	err := d.pool.QueryRow(ctx, `
		SELECT scheduled_shift_id, schedule_run_id, studio_id, employee_id, shift_date, day_of_week, label, start_min, end_min
		FROM scheduled_shifts
		WHERE scheduled_shift_id = $1
	`, shiftID).Scan(&s.ID, &s.RunID, &s.StudioID, &s.EmployeeID, &s.ShiftDate, &s.DayOfWeek, &s.Label, &s.StartMin, &s.EndMin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan scheduled shift: %w", err)
	}
	return &s, nil
}

func (d *DB) InsertScheduledShift(ctx context.Context, s db.ScheduledShift) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO scheduled_shifts
		  (scheduled_shift_id, schedule_run_id, studio_id, employee_id, shift_date, day_of_week, label, start_min, end_min)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ID, s.RunID, s.StudioID, s.EmployeeID, s.ShiftDate, s.DayOfWeek, s.Label, s.StartMin, s.EndMin)
	if err != nil {
		return fmt.Errorf("failed to insert scheduled shift: %w", err)
	}
	return nil
}

func (d *DB) UpdateScheduledShift(ctx context.Context, shiftID, employeeID string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE scheduled_shifts SET employee_id = $2 WHERE scheduled_shift_id = $1
	`, shiftID, employeeID)
	if err != nil {
		return fmt.Errorf("failed to update scheduled shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scheduled shift %s not found", shiftID)
	}
	return nil
}

func (d *DB) DeleteScheduledShift(ctx context.Context, shiftID string) error {
	tag, err := d.pool.Exec(ctx, `
		DELETE FROM scheduled_shifts WHERE scheduled_shift_id = $1
	`, shiftID)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scheduled shift %s not found", shiftID)
	}
	return nil
}
