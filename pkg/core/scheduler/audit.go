package scheduler

import "sort"

// CandidateRecord is the audit trail entry for one (instance, employee) pair:
// the eligibility outcome, the score when eligible, and whether the employee
// ended up selected. The repair pass overwrites Selected and Score when it
// changes an outcome.
type CandidateRecord struct {
	InstanceID      string
	EmployeeID      string
	Eligible        bool
	RejectionReason RejectionReason
	Selected        bool
	Score           float64
	MinutesSoFar    int
	ScoreBreakdown  map[string]float64
}

// Recorder accumulates exactly one CandidateRecord per (instance, employee)
// pair evaluated during a run. Records are keyed so later stages overwrite
// rather than duplicate.
type Recorder struct {
	byInstance map[string]map[string]*CandidateRecord
}

func NewRecorder() *Recorder {
	return &Recorder{byInstance: make(map[string]map[string]*CandidateRecord)}
}

// Record stores or replaces the record for (instanceID, employeeID).
func (r *Recorder) Record(rec CandidateRecord) {
	byEmp, ok := r.byInstance[rec.InstanceID]
	if !ok {
		byEmp = make(map[string]*CandidateRecord)
		r.byInstance[rec.InstanceID] = byEmp
	}
	stored := rec
	byEmp[rec.EmployeeID] = &stored
}

// SetSelected updates the selection outcome for an existing record. Used by
// the selector after picking candidates and by the repair pass after a swap.
func (r *Recorder) SetSelected(instanceID, employeeID string, selected bool, score float64, breakdown map[string]float64) {
	if rec, ok := r.byInstance[instanceID][employeeID]; ok {
		rec.Selected = selected
		rec.Score = score
		if breakdown != nil {
			rec.ScoreBreakdown = breakdown
		}
	}
}

// Get returns the record for one pair, if present.
func (r *Recorder) Get(instanceID, employeeID string) (CandidateRecord, bool) {
	rec, ok := r.byInstance[instanceID][employeeID]
	if !ok {
		return CandidateRecord{}, false
	}
	return *rec, true
}

// ForInstance returns the records for one instance, sorted by employee ID for
// deterministic output.
func (r *Recorder) ForInstance(instanceID string) []CandidateRecord {
	byEmp := r.byInstance[instanceID]
	records := make([]CandidateRecord, 0, len(byEmp))
	for _, rec := range byEmp {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].EmployeeID < records[j].EmployeeID })
	return records
}

// All returns every record, sorted by instance then employee ID.
func (r *Recorder) All() []CandidateRecord {
	var records []CandidateRecord
	for _, byEmp := range r.byInstance {
		for _, rec := range byEmp {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].InstanceID != records[j].InstanceID {
			return records[i].InstanceID < records[j].InstanceID
		}
		return records[i].EmployeeID < records[j].EmployeeID
	})
	return records
}
