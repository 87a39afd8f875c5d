package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

// StudioExists reports whether the studio belongs to the company.
func (d *DB) StudioExists(ctx context.Context, companyID, studioID string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM studios WHERE studio_id = $1 AND company_id = $2
		)
	`, studioID, companyID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check studio: %w", err)
	}
	return exists, nil
}

// GetActiveEmployees returns the active roster for a company. Preference
// rules are loaded separately and applied by the caller.
func (d *DB) GetActiveEmployees(ctx context.Context, companyID string) ([]model.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT employee_id, company_id, name, COALESCE(email, ''), is_active
		FROM employees
		WHERE company_id = $1 AND is_active
		ORDER BY employee_id
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.Name, &e.Email, &e.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// GetEmployeeNames resolves employee IDs to display names, including inactive
// employees so historical reports still render.
func (d *DB) GetEmployeeNames(ctx context.Context, companyID string) (map[string]string, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT employee_id, name FROM employees WHERE company_id = $1
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan employee name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (d *DB) GetEmployeeRules(ctx context.Context, companyID string) ([]model.EmployeeRule, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT r.employee_id, r.rule_type, r.value_json
		FROM employee_rules r
		JOIN employees e ON e.employee_id = r.employee_id
		WHERE e.company_id = $1
		ORDER BY r.created_at
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee rules: %w", err)
	}
	defer rows.Close()

	var rules []model.EmployeeRule
	for rows.Next() {
		var r model.EmployeeRule
		var value []byte
		if err := rows.Scan(&r.EmployeeID, &r.Type, &value); err != nil {
			return nil, fmt.Errorf("failed to scan employee rule: %w", err)
		}
		r.Value = json.RawMessage(value)
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (d *DB) GetAvailabilityBlocks(ctx context.Context, companyID string) ([]model.AvailabilityBlock, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT a.employee_id, a.day_of_week, a.start_min, a.end_min, a.kind
		FROM employee_availability a
		JOIN employees e ON e.employee_id = a.employee_id
		WHERE e.company_id = $1
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability blocks: %w", err)
	}
	defer rows.Close()

	var blocks []model.AvailabilityBlock
	for rows.Next() {
		var b model.AvailabilityBlock
		if err := rows.Scan(&b.EmployeeID, &b.DayOfWeek, &b.StartMin, &b.EndMin, &b.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan availability block: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (d *DB) GetUnavailabilityBlocks(ctx context.Context, companyID string) ([]model.UnavailabilityBlock, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT u.employee_id, u.day_of_week, u.start_min, u.end_min, COALESCE(u.reason, '')
		FROM employee_unavailability u
		JOIN employees e ON e.employee_id = u.employee_id
		WHERE e.company_id = $1
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unavailability blocks: %w", err)
	}
	defer rows.Close()

	var blocks []model.UnavailabilityBlock
	for rows.Next() {
		var b model.UnavailabilityBlock
		if err := rows.Scan(&b.EmployeeID, &b.DayOfWeek, &b.StartMin, &b.EndMin, &b.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan unavailability block: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// GetDateRangeBlocks returns time-off and PTO ranges intersecting [from, to].
func (d *DB) GetDateRangeBlocks(ctx context.Context, companyID string, from, to time.Time) ([]model.DateRangeBlock, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT b.employee_id, b.kind, b.start_date, b.end_date, COALESCE(b.note, '')
		FROM employee_date_blocks b
		JOIN employees e ON e.employee_id = b.employee_id
		WHERE e.company_id = $1 AND b.end_date >= $2 AND b.start_date <= $3
	`, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query date range blocks: %w", err)
	}
	defer rows.Close()

	var blocks []model.DateRangeBlock
	for rows.Next() {
		var b model.DateRangeBlock
		if err := rows.Scan(&b.EmployeeID, &b.Kind, &b.StartDate, &b.EndDate, &b.Note); err != nil {
			return nil, fmt.Errorf("failed to scan date range block: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (d *DB) GetShiftTemplates(ctx context.Context, studioID string) ([]model.ShiftTemplate, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT shift_template_id, studio_id, label, weekdays, start_min, end_min, required_count, active
		FROM shift_templates
		WHERE studio_id = $1
		ORDER BY label
	`, studioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift templates: %w", err)
	}
	defer rows.Close()

	var templates []model.ShiftTemplate
	for rows.Next() {
		var t model.ShiftTemplate
		var weekdays []int16
		if err := rows.Scan(&t.ID, &t.StudioID, &t.Label, &weekdays, &t.StartMin, &t.EndMin, &t.RequiredCount, &t.Active); err != nil {
			return nil, fmt.Errorf("failed to scan shift template: %w", err)
		}
		t.Weekdays = make([]int, len(weekdays))
		for i, d := range weekdays {
			t.Weekdays[i] = int(d)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}
