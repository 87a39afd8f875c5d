package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lcmartin/studioshift/pkg/db"
)

type mockCoverageStore struct {
	run    *db.ScheduleRun
	audits []db.ShiftAudit
	shifts []db.ScheduledShift
	names  map[string]string
}

func (m *mockCoverageStore) GetRun(ctx context.Context, runID string) (*db.ScheduleRun, error) {
	if m.run != nil && m.run.ID == runID {
		return m.run, nil
	}
	return nil, nil
}

func (m *mockCoverageStore) GetShiftAudits(ctx context.Context, runID string) ([]db.ShiftAudit, error) {
	return m.audits, nil
}

func (m *mockCoverageStore) GetScheduledShifts(ctx context.Context, runID string) ([]db.ScheduledShift, error) {
	return m.shifts, nil
}

func (m *mockCoverageStore) GetEmployeeNames(ctx context.Context, companyID string) (map[string]string, error) {
	return m.names, nil
}

func coverageFixtureStore() *mockCoverageStore {
	monday := date(2026, 3, 2)
	tuesday := date(2026, 3, 3)
	return &mockCoverageStore{
		run: &db.ScheduleRun{
			ID: "run-1", CompanyID: "c1", StudioID: "s1",
			MonthStart: date(2026, 3, 1), MonthEnd: date(2026, 3, 31),
			GeneratorVersion: "v2",
		},
		names: map[string]string{"e1": "Ana", "e2": "Ben"},
		audits: []db.ShiftAudit{
			// Deliberately out of order to exercise the sort
			{
				RunID: "run-1", ShiftDate: tuesday, Label: "AM Open",
				StartMin: 8 * 60, EndMin: 14 * 60,
				RequiredCount: 2, AssignedCount: 1, CandidateCount: 2, MissingCount: 1,
				RejectionSummary: map[string]int{"availability_blocked": 1},
			},
			{
				RunID: "run-1", ShiftDate: monday, Label: "PM Close",
				StartMin: 14 * 60, EndMin: 20 * 60,
				RequiredCount: 1, AssignedCount: 1, CandidateCount: 2,
			},
			{
				RunID: "run-1", ShiftDate: monday, Label: "AM Open",
				StartMin: 8 * 60, EndMin: 14 * 60,
				RequiredCount: 1, AssignedCount: 1, CandidateCount: 2,
			},
		},
		shifts: []db.ScheduledShift{
			{ID: "sh-1", RunID: "run-1", EmployeeID: "e1", ShiftDate: monday, Label: "AM Open", StartMin: 8 * 60, EndMin: 14 * 60},
			{ID: "sh-2", RunID: "run-1", EmployeeID: "e2", ShiftDate: monday, Label: "PM Close", StartMin: 14 * 60, EndMin: 20 * 60},
			{ID: "sh-3", RunID: "run-1", EmployeeID: "e2", ShiftDate: tuesday, Label: "AM Open", StartMin: 8 * 60, EndMin: 14 * 60},
		},
	}
}

func TestViewCoverage_JoinsAuditsWithAssignments(t *testing.T) {
	mock := coverageFixtureStore()

	report, err := ViewCoverage(context.Background(), mock, zap.NewNop(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.Run.ID)
	assert.Equal(t, 1, report.GapCount)
	require.Len(t, report.Rows, 3)

	// Chronological order, morning before evening
	assert.Equal(t, date(2026, 3, 2), report.Rows[0].ShiftDate)
	assert.Equal(t, "AM Open", report.Rows[0].Label)
	assert.Equal(t, "PM Close", report.Rows[1].Label)
	assert.Equal(t, date(2026, 3, 3), report.Rows[2].ShiftDate)

	assert.Equal(t, []CoverageAssignee{{EmployeeID: "e1", Name: "Ana"}}, report.Rows[0].Assigned)
	assert.Equal(t, []CoverageAssignee{{EmployeeID: "e2", Name: "Ben"}}, report.Rows[1].Assigned)

	understaffed := report.Rows[2]
	assert.Equal(t, 2, understaffed.RequiredCount)
	assert.Equal(t, 1, understaffed.AssignedCount)
	assert.Equal(t, 1, understaffed.MissingCount)
	assert.Equal(t, map[string]int{"availability_blocked": 1}, understaffed.RejectionSummary)
}

func TestViewCoverage_UnknownEmployeeKeepsID(t *testing.T) {
	// A fallback display name must not obscure which employee holds the shift
	mock := coverageFixtureStore()
	mock.names = map[string]string{"e1": "Ana"}

	report, err := ViewCoverage(context.Background(), mock, zap.NewNop(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, []CoverageAssignee{{EmployeeID: "e2", Name: "e2"}}, report.Rows[1].Assigned)
}

func TestViewCoverage_SameSlotAssigneesSorted(t *testing.T) {
	mock := coverageFixtureStore()
	mock.shifts = append(mock.shifts, db.ScheduledShift{
		ID: "sh-4", RunID: "run-1", EmployeeID: "e2",
		ShiftDate: date(2026, 3, 2), Label: "AM Open", StartMin: 8 * 60, EndMin: 14 * 60,
	})

	report, err := ViewCoverage(context.Background(), mock, zap.NewNop(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, []CoverageAssignee{
		{EmployeeID: "e1", Name: "Ana"},
		{EmployeeID: "e2", Name: "Ben"},
	}, report.Rows[0].Assigned)
}

func TestViewCoverage_FullyStaffedRunHasNoGaps(t *testing.T) {
	mock := coverageFixtureStore()
	mock.audits[0].RequiredCount = 1
	mock.audits[0].MissingCount = 0
	mock.audits[0].RejectionSummary = nil

	report, err := ViewCoverage(context.Background(), mock, zap.NewNop(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, 0, report.GapCount)
}

func TestViewCoverage_RunNotFound(t *testing.T) {
	mock := coverageFixtureStore()

	_, err := ViewCoverage(context.Background(), mock, zap.NewNop(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestInstanceKey_DistinguishesSlots(t *testing.T) {
	d := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	a := instanceKey(d, "AM Open", 8*60, 14*60)
	b := instanceKey(d, "AM Open", 9*60, 14*60)
	c := instanceKey(d, "PM Close", 8*60, 14*60)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, instanceKey(d, "AM Open", 8*60, 14*60))
}
