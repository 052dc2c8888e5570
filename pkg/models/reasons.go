package models

import "fmt"

// ReasonCode tags one factor that contributed to a suggestion's score.
// Scoring emits codes, not display text; rendering to strings happens at the
// edge so the engine can be tested without string matching.
type ReasonCode string

const (
	ReasonSkillsMatched       ReasonCode = "skills_matched"
	ReasonSkillsMissing       ReasonCode = "skills_missing"
	ReasonNoSkillsRequired    ReasonCode = "no_skills_required"
	ReasonSeniorityBonus      ReasonCode = "seniority_bonus"
	ReasonAvailabilityMatch   ReasonCode = "availability_match"
	ReasonOutsideAvailability ReasonCode = "outside_availability"
	ReasonNoAvailabilityData  ReasonCode = "no_availability_data"
	ReasonHasConflict         ReasonCode = "has_conflict"
)

// Reason is one tagged scoring factor. Count/Total carry skill coverage,
// Points carries the signed score contribution, Label carries a seniority
// level name where one applies.
type Reason struct {
	Code   ReasonCode `json:"code"`
	Count  int        `json:"count,omitempty"`
	Total  int        `json:"total,omitempty"`
	Points float64    `json:"points,omitempty"`
	Label  string     `json:"label,omitempty"`
}

// String renders the reason as UI-facing English text.
func (r Reason) String() string {
	switch r.Code {
	case ReasonSkillsMatched:
		return fmt.Sprintf("Matches %d of %d required skills", r.Count, r.Total)
	case ReasonSkillsMissing:
		return fmt.Sprintf("Missing %d of %d required skills", r.Count, r.Total)
	case ReasonNoSkillsRequired:
		return "No specific skills required for this shift"
	case ReasonSeniorityBonus:
		if r.Label != "" {
			return fmt.Sprintf("Seniority (%s) adds %.0f points", r.Label, r.Points)
		}
		return fmt.Sprintf("Seniority adds %.0f points", r.Points)
	case ReasonAvailabilityMatch:
		return "Available during the full shift window"
	case ReasonOutsideAvailability:
		return "Recorded availability does not cover this shift"
	case ReasonNoAvailabilityData:
		return "No availability on record for this day"
	case ReasonHasConflict:
		if r.Count > 1 {
			return fmt.Sprintf("Has scheduling conflicts with %d other shifts", r.Count)
		}
		return "Has a scheduling conflict with another shift"
	default:
		return string(r.Code)
	}
}

// RenderReasons converts tagged reasons to display strings, preserving order.
func RenderReasons(reasons []Reason) []string {
	out := make([]string, len(reasons))
	for i, r := range reasons {
		out[i] = r.String()
	}
	return out
}
