package db

import "time"

// ScheduleRun is one persisted generation run.
type ScheduleRun struct {
	ID               string
	CompanyID        string
	StudioID         string
	MonthStart       time.Time
	MonthEnd         time.Time
	GeneratorVersion string
	CreatedAt        time.Time
}

// ScheduledShift is one persisted assignment of an employee to a shift
// instance within a run.
type ScheduledShift struct {
	ID         string
	RunID      string
	StudioID   string
	EmployeeID string
	ShiftDate  time.Time
	DayOfWeek  int
	Label      string
	StartMin   int
	EndMin     int
}

// ShiftAudit is the per-instance staffing summary for a run.
type ShiftAudit struct {
	RunID            string
	ShiftDate        time.Time
	Label            string
	StartMin         int
	EndMin           int
	RequiredCount    int
	AssignedCount    int
	CandidateCount   int
	MissingCount     int
	RejectionSummary map[string]int
}

// CandidateAudit is one (instance, employee) audit row: eligibility outcome,
// selection flag, and the score breakdown for eligible candidates.
type CandidateAudit struct {
	RunID           string
	ShiftDate       time.Time
	Label           string
	StartMin        int
	EndMin          int
	EmployeeID      string
	Eligible        bool
	RejectionReason string
	Selected        bool
	Score           float64
	MinutesSoFar    int
	ScoreBreakdown  map[string]float64
}
