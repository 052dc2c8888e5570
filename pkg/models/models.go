package models

import "time"

// Confidence classifies how reliable a suggestion is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SkillRef is one skill held by an employee.
type SkillRef struct {
	SkillID          uint   `json:"skill_id"`
	SkillName        string `json:"skill_name"`
	ProficiencyLevel int    `json:"proficiency_level"`
}

// AvailabilityWindow is a weekly recurring window during which an employee
// can (or cannot) work. Times are local "15:04" strings.
type AvailabilityWindow struct {
	DayOfWeek   int    `json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// ConflictingShift describes an existing shift that overlaps the one being filled.
type ConflictingShift struct {
	ShiftID      uint      `json:"shift_id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	LocationName string    `json:"location_name,omitempty"`
}

// Seniority is an employee's level label plus an ordinal rank.
// Higher rank means more senior.
type Seniority struct {
	Level string `json:"level"`
	Rank  int    `json:"rank"`
}

// EmployeeCandidate is a prospective assignee for a shift, rebuilt fresh on
// every scoring request. Conflict fields are derived, never stored.
type EmployeeCandidate struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`

	HourlyRate *float64   `json:"hourly_rate,omitempty"`
	Seniority  *Seniority `json:"seniority,omitempty"`

	Skills       []SkillRef           `json:"skills"`
	Availability []AvailabilityWindow `json:"availability"`

	HasConflictingShift bool               `json:"has_conflicting_shift"`
	ConflictingShifts   []ConflictingShift `json:"conflicting_shifts,omitempty"`
}

// FullName returns the display name used for deterministic tie-breaking.
func (e *EmployeeCandidate) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// ShiftRequirement is the shift being filled.
// Invariant: ShiftEnd is after ShiftStart; the interval is half-open,
// the end instant itself does not overlap.
type ShiftRequirement struct {
	ShiftID         uint      `json:"shift_id"`
	ScheduleID      uint      `json:"schedule_id"`
	LocationID      uint      `json:"location_id"`
	ShiftStart      time.Time `json:"shift_start"`
	ShiftEnd        time.Time `json:"shift_end"`
	RoleDuringShift string    `json:"role_during_shift,omitempty"`
	RequiredSkills  []uint    `json:"required_skills,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// DurationHours returns the shift length in fractional hours.
func (s *ShiftRequirement) DurationHours() float64 {
	return s.ShiftEnd.Sub(s.ShiftStart).Hours()
}

// MatchDetails is the scoring breakdown for one (candidate, shift) pair.
// SkillsMatched and SkillsMissing are disjoint and together cover the
// shift's required skills exactly.
type MatchDetails struct {
	SkillsMatch       bool    `json:"skills_match"`
	SkillsMatched     []uint  `json:"skills_matched"`
	SkillsMissing     []uint  `json:"skills_missing"`
	SeniorityScore    float64 `json:"seniority_score"`
	AvailabilityMatch bool    `json:"availability_match"`
	HasConflicts      bool    `json:"has_conflicts"`
	CostEstimate      float64 `json:"cost_estimate"`
}

// AssignmentSuggestion is one ranked candidate for a shift.
// Confidence is a deterministic function of score and the conflict flag,
// never chosen independently.
type AssignmentSuggestion struct {
	Employee     EmployeeCandidate `json:"employee"`
	Score        float64           `json:"score"`
	Reasons      []Reason          `json:"reason_codes"`
	Reasoning    []string          `json:"reasoning"`
	Confidence   Confidence        `json:"confidence"`
	MatchDetails MatchDetails      `json:"match_details"`
}

// AutoAssignmentResult is the per-shift output of the suggestion pipeline.
// CanAutoAssign is true only when BestMatch exists with high confidence and
// no conflicts.
type AutoAssignmentResult struct {
	ShiftID            uint                   `json:"shift_id"`
	Suggestions        []AssignmentSuggestion `json:"suggestions"`
	BestMatch          *AssignmentSuggestion  `json:"best_match"`
	CanAutoAssign      bool                   `json:"can_auto_assign"`
	LaborBudgetWarning string                 `json:"labor_budget_warning,omitempty"`
}

// BulkSummary partitions a batch of results.
// Total = len(results); NoSuggestions counts empty suggestion sets;
// HasSuggestions counts non-empty ones. CanAutoAssign is a subset of
// HasSuggestions, so the three do not sum to Total.
type BulkSummary struct {
	Total          int `json:"total"`
	CanAutoAssign  int `json:"can_auto_assign"`
	HasSuggestions int `json:"has_suggestions"`
	NoSuggestions  int `json:"no_suggestions"`
}

// BulkAssignmentResponse aggregates per-shift results for a bulk request.
type BulkAssignmentResponse struct {
	Results []AutoAssignmentResult `json:"results"`
	Summary BulkSummary            `json:"summary"`
}

// AssignmentSuccessResponse is returned after a successful shift binding.
type AssignmentSuccessResponse struct {
	Success    bool   `json:"success"`
	ShiftID    uint   `json:"shift_id"`
	EmployeeID uint   `json:"employee_id"`
	Forced     bool   `json:"forced,omitempty"`
	Message    string `json:"message"`
}

// BulkAssignOutcome is one item of a bulk commit response.
type BulkAssignOutcome struct {
	ShiftID    uint   `json:"shift_id"`
	EmployeeID uint   `json:"employee_id,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// BulkAssignResponse reports a best-effort bulk commit. A single shift's
// failure never aborts the others.
type BulkAssignResponse struct {
	Outcomes     []BulkAssignOutcome `json:"outcomes"`
	SuccessCount int                 `json:"success_count"`
	FailureCount int                 `json:"failure_count"`
}
