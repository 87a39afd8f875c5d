package model

import (
	"encoding/json"
	"fmt"
)

// RuleType identifies one kind of employee preference rule. Rules arrive from
// the roster as a typed key plus a JSON value payload; each kind has its own
// payload shape and unknown kinds are rejected at ingestion.
type RuleType string

const (
	RuleEmploymentType    RuleType = "EMPLOYMENT_TYPE"
	RuleWeekendPreference RuleType = "WEEKEND_PREFERENCE"
	RuleIdealHoursWeekly  RuleType = "IDEAL_HOURS_WEEKLY"
	RuleHardNoConstraints RuleType = "HARD_NO_CONSTRAINTS"
	RuleChangesNext30Days RuleType = "CHANGES_NEXT_30_DAYS"
)

// EmployeeRule is a raw rule record as stored: a kind plus its JSON payload.
type EmployeeRule struct {
	EmployeeID string
	Type       RuleType
	Value      json.RawMessage
}

type employmentTypePayload struct {
	Type EmploymentType `json:"type"`
}

type weekendPreferencePayload struct {
	Preference WeekendPreference `json:"preference"`
}

type idealHoursPayload struct {
	Hours *float64 `json:"hours"`
}

type hardNoPayload struct {
	Note string `json:"note"`
}

type changesPayload struct {
	Expected bool   `json:"expected"`
	Note     string `json:"note"`
}

// ApplyRule decodes a rule payload and applies it to the employee profile.
// Returns an error for unknown rule kinds or malformed payloads so bad data is
// caught when the roster is ingested, not mid-generation.
func ApplyRule(e *Employee, rule EmployeeRule) error {
	switch rule.Type {
	case RuleEmploymentType:
		var p employmentTypePayload
		if err := json.Unmarshal(rule.Value, &p); err != nil {
			return fmt.Errorf("malformed %s payload for employee %s: %w", rule.Type, rule.EmployeeID, err)
		}
		if !p.Type.IsValid() {
			return fmt.Errorf("unknown employment type %q for employee %s", p.Type, rule.EmployeeID)
		}
		e.EmploymentType = p.Type

	case RuleWeekendPreference:
		var p weekendPreferencePayload
		if err := json.Unmarshal(rule.Value, &p); err != nil {
			return fmt.Errorf("malformed %s payload for employee %s: %w", rule.Type, rule.EmployeeID, err)
		}
		if !p.Preference.IsValid() {
			return fmt.Errorf("unknown weekend preference %q for employee %s", p.Preference, rule.EmployeeID)
		}
		e.WeekendPreference = p.Preference

	case RuleIdealHoursWeekly:
		var p idealHoursPayload
		if err := json.Unmarshal(rule.Value, &p); err != nil {
			return fmt.Errorf("malformed %s payload for employee %s: %w", rule.Type, rule.EmployeeID, err)
		}
		if p.Hours != nil && *p.Hours < 0 {
			return fmt.Errorf("negative ideal hours for employee %s", rule.EmployeeID)
		}
		e.IdealHoursWeekly = p.Hours

	case RuleHardNoConstraints:
		var p hardNoPayload
		if err := json.Unmarshal(rule.Value, &p); err != nil {
			return fmt.Errorf("malformed %s payload for employee %s: %w", rule.Type, rule.EmployeeID, err)
		}
		e.HardNoNote = p.Note

	case RuleChangesNext30Days:
		var p changesPayload
		if err := json.Unmarshal(rule.Value, &p); err != nil {
			return fmt.Errorf("malformed %s payload for employee %s: %w", rule.Type, rule.EmployeeID, err)
		}
		e.ChangesExpected = p.Expected
		e.ChangesNote = p.Note

	default:
		return fmt.Errorf("unknown rule type %q for employee %s", rule.Type, rule.EmployeeID)
	}

	return nil
}

// ApplyRules applies every rule to its matching employee in place.
func ApplyRules(employees map[string]*Employee, rules []EmployeeRule) error {
	for _, rule := range rules {
		emp, ok := employees[rule.EmployeeID]
		if !ok {
			// Rules for employees outside the roster (e.g. deactivated) are skipped.
			continue
		}
		if err := ApplyRule(emp, rule); err != nil {
			return err
		}
	}
	return nil
}
