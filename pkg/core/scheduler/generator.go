package scheduler

import (
	"fmt"
	"time"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

// GeneratorVersion selects which generation strategy a run uses.
type GeneratorVersion string

const (
	VersionV1 GeneratorVersion = "v1"
	VersionV2 GeneratorVersion = "v2"
)

func (v GeneratorVersion) IsValid() bool {
	return v == VersionV1 || v == VersionV2
}

// RosterData is the read-only roster snapshot a generation run consumes.
// Employee rules are expected to be already applied to the Employee profiles.
type RosterData struct {
	Employees      []model.Employee
	Availability   []model.AvailabilityBlock
	Unavailability []model.UnavailabilityBlock
	DateRanges     []model.DateRangeBlock
	Templates      []model.ShiftTemplate
}

// InstanceCoverage reports staffing for one shift instance after generation.
// A missing count above zero is a coverage gap, not a failure; the rejection
// summary tells the manager why candidates fell away.
type InstanceCoverage struct {
	Instance         model.ShiftInstance
	ScheduledCount   int
	MissingCount     int
	CandidateCount   int
	AssignedIDs      []string
	RejectionSummary map[RejectionReason]int
}

// Result is the outcome of one generation run: the expanded instances, the
// assignments, the per-instance coverage, and the full candidate audit.
type Result struct {
	Instances   []model.ShiftInstance
	Assignments []model.Assignment
	Coverage    []InstanceCoverage
	Audit       []CandidateRecord
}

// Generator produces a month's assignments from roster data. Implementations
// are pure computations over their inputs: no I/O, deterministic for identical
// inputs. Two generation requests for the same scope must be serialized by the
// caller; run state is never shared.
type Generator interface {
	Generate(data RosterData, monthStart, monthEnd time.Time) (*Result, error)
}

// New returns the generator strategy for the requested version.
func New(version GeneratorVersion, weights Weights) (Generator, error) {
	switch version {
	case VersionV1:
		return &v1Generator{}, nil
	case VersionV2:
		return &v2Generator{weights: weights}, nil
	default:
		return nil, fmt.Errorf("unknown generator version %q", version)
	}
}

// weeksIn returns the length of an inclusive date range in weeks.
func weeksIn(monthStart, monthEnd time.Time) float64 {
	days := monthEnd.Sub(monthStart).Hours()/24 + 1
	return days / 7
}
