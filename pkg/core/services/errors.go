package services

import (
	"errors"
	"fmt"

	"github.com/lcmartin/studioshift/pkg/core/scheduler"
)

var (
	// ErrStudioNotFound means the requested studio does not belong to the company.
	ErrStudioNotFound = errors.New("studio not found")

	// ErrInvalidRange means the requested month window is malformed.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrDuplicateRun means a schedule already exists for the studio and month
	// and overwrite was not requested.
	ErrDuplicateRun = errors.New("schedule already exists for this studio and month")

	// ErrRunNotFound means no schedule run exists with the given ID.
	ErrRunNotFound = errors.New("schedule run not found")

	// ErrShiftNotFound means no scheduled shift exists with the given ID.
	ErrShiftNotFound = errors.New("scheduled shift not found")

	// ErrEmployeeNotFound means the employee is not on the company's active roster.
	ErrEmployeeNotFound = errors.New("employee not found")
)

// IneligibleError reports a manual assignment that would break a hard
// scheduling constraint.
type IneligibleError struct {
	EmployeeID string
	Reason     scheduler.RejectionReason
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("employee %s is ineligible: %s", e.EmployeeID, e.Reason)
}
