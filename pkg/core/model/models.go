package model

import "time"

type EmploymentType string

const (
	FullTime EmploymentType = "full_time"
	PartTime EmploymentType = "part_time"
)

func (t EmploymentType) IsValid() bool {
	return t == FullTime || t == PartTime
}

type WeekendPreference string

const (
	PreferSaturday WeekendPreference = "saturday"
	PreferSunday   WeekendPreference = "sunday"
	PreferEither   WeekendPreference = "either"
)

func (p WeekendPreference) IsValid() bool {
	return p == PreferSaturday || p == PreferSunday || p == PreferEither
}

// Employee represents a studio employee on the roster.
// Read-only to the scheduling engine during a run.
type Employee struct {
	ID        string
	CompanyID string
	Name      string
	Email     string
	IsActive  bool

	EmploymentType    EmploymentType
	WeekendPreference WeekendPreference
	// IdealHoursWeekly is the weekly hour target for part-time employees.
	// nil means no target was submitted.
	IdealHoursWeekly *float64
	HardNoNote       string
	ChangesExpected  bool
	ChangesNote      string
}

type BlockKind string

const (
	BlockAvailable BlockKind = "available"
	BlockPreferred BlockKind = "preferred"
)

// AvailabilityBlock is a recurring weekly window an employee volunteered to work.
// Day of week follows the roster convention: 0=Sunday .. 6=Saturday.
// Blocks for the same employee may overlap; coverage is the union of blocks.
type AvailabilityBlock struct {
	EmployeeID string
	DayOfWeek  int
	StartMin   int // minutes since midnight
	EndMin     int
	Kind       BlockKind
}

// UnavailabilityBlock is a recurring weekly window an employee cannot work.
// Overrides any availability block it overlaps.
type UnavailabilityBlock struct {
	EmployeeID string
	DayOfWeek  int
	StartMin   int
	EndMin     int
	Reason     string
}

type DateRangeKind string

const (
	RangeTimeOff DateRangeKind = "time_off"
	RangePTO     DateRangeKind = "pto"
)

// DateRangeBlock blocks an employee for whole calendar days, inclusive of both
// bounds, regardless of weekly availability.
type DateRangeBlock struct {
	EmployeeID string
	Kind       DateRangeKind
	StartDate  time.Time
	EndDate    time.Time
	Note       string
}

// ShiftTemplate describes a recurring shift the studio needs staffed.
// End before start means the shift crosses midnight into the next day.
type ShiftTemplate struct {
	ID            string
	StudioID      string
	Label         string
	Weekdays      []int // 0=Sunday .. 6=Saturday
	StartMin      int
	EndMin        int
	RequiredCount int
	Active        bool
}

// CrossesMidnight reports whether the template's window ends on the following
// calendar day.
func (t ShiftTemplate) CrossesMidnight() bool {
	return t.EndMin < t.StartMin
}

// ShiftInstance is one dated occurrence of a template. Immutable once expanded
// for a run.
type ShiftInstance struct {
	ID            string
	StudioID      string
	Date          time.Time
	DayOfWeek     int
	Label         string
	StartMin      int
	EndMin        int
	RequiredCount int
}

func (s ShiftInstance) CrossesMidnight() bool {
	return s.EndMin < s.StartMin
}

// DurationMin returns the shift length in minutes, accounting for windows that
// cross midnight.
func (s ShiftInstance) DurationMin() int {
	if s.CrossesMidnight() {
		return (24*60 - s.StartMin) + s.EndMin
	}
	return s.EndMin - s.StartMin
}

// Assignment pairs an employee with a shift instance.
type Assignment struct {
	ID         string
	RunID      string
	InstanceID string
	EmployeeID string
}
