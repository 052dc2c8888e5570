package assignment

import (
	"strconv"
	"strings"

	"github.com/tablecraft/staffing-api-go/pkg/models"
)

// Scoring weights. The score is additive out of 100: skill coverage carries
// up to MaxSkillPoints, a covering availability window adds
// AvailabilityBonus, seniority adds at most MaxSeniorityPoints, and a
// scheduling conflict deducts ConflictPenalty. The maximum reachable score
// with a conflict is 60, below HighThreshold, so a conflicted candidate can
// never score into the high tier.
const (
	MaxSkillPoints     = 50.0
	AvailabilityBonus  = 25.0
	MaxSeniorityPoints = 15.0
	ConflictPenalty    = 30.0

	// Confidence thresholds, shared with the ranker's auto-assign decision.
	HighThreshold   = 75.0
	MediumThreshold = 50.0
)

// seniorityPointsPerRank converts an ordinal rank (higher = more senior)
// into score points, capped at MaxSeniorityPoints.
const seniorityPointsPerRank = 3.0

// ScoredCandidate pairs a candidate with its scoring output for one shift.
type ScoredCandidate struct {
	Candidate  models.EmployeeCandidate
	Score      float64
	Confidence models.Confidence
	Details    models.MatchDetails
	Reasons    []models.Reason
}

// ScoreCandidate computes the 0-100 suitability score, the match breakdown,
// and the ordered reason codes for one (candidate, shift) pair. Reasons are
// emitted in factor order: skills, seniority, availability, conflicts.
func ScoreCandidate(cand models.EmployeeCandidate, shift models.ShiftRequirement) ScoredCandidate {
	details := models.MatchDetails{
		SkillsMatched: []uint{},
		SkillsMissing: []uint{},
		HasConflicts:  cand.HasConflictingShift,
	}
	var reasons []models.Reason
	var score float64

	// 1. Skill coverage, proportional to matched/required. No required
	// skills means a trivial full match with no penalty.
	required := shift.RequiredSkills
	if len(required) == 0 {
		details.SkillsMatch = true
		score += MaxSkillPoints
		reasons = append(reasons, models.Reason{Code: models.ReasonNoSkillsRequired})
	} else {
		held := make(map[uint]bool, len(cand.Skills))
		for _, s := range cand.Skills {
			held[s.SkillID] = true
		}
		for _, id := range required {
			if held[id] {
				details.SkillsMatched = append(details.SkillsMatched, id)
			} else {
				details.SkillsMissing = append(details.SkillsMissing, id)
			}
		}
		details.SkillsMatch = len(details.SkillsMissing) == 0
		score += MaxSkillPoints * float64(len(details.SkillsMatched)) / float64(len(required))

		reasons = append(reasons, models.Reason{
			Code:  models.ReasonSkillsMatched,
			Count: len(details.SkillsMatched),
			Total: len(required),
		})
		if len(details.SkillsMissing) > 0 {
			reasons = append(reasons, models.Reason{
				Code:  models.ReasonSkillsMissing,
				Count: len(details.SkillsMissing),
				Total: len(required),
			})
		}
	}

	// 2. Seniority, monotonic in rank and capped so it cannot alone
	// reach the high tier.
	if cand.Seniority != nil && cand.Seniority.Rank > 0 {
		pts := float64(cand.Seniority.Rank) * seniorityPointsPerRank
		if pts > MaxSeniorityPoints {
			pts = MaxSeniorityPoints
		}
		details.SeniorityScore = pts
		score += pts
		reasons = append(reasons, models.Reason{
			Code:   models.ReasonSeniorityBonus,
			Points: pts,
			Label:  cand.Seniority.Level,
		})
	}

	// 3. Availability. A covering window earns a fixed bonus; absent data
	// is "unknown", never a penalty.
	covered, hasData := availabilityCovers(cand.Availability, shift)
	details.AvailabilityMatch = covered
	switch {
	case covered:
		score += AvailabilityBonus
		reasons = append(reasons, models.Reason{Code: models.ReasonAvailabilityMatch})
	case hasData:
		reasons = append(reasons, models.Reason{Code: models.ReasonOutsideAvailability})
	default:
		reasons = append(reasons, models.Reason{Code: models.ReasonNoAvailabilityData})
	}

	// 4. Conflict penalty.
	if cand.HasConflictingShift {
		score -= ConflictPenalty
		count := len(cand.ConflictingShifts)
		if count == 0 {
			count = 1
		}
		reasons = append(reasons, models.Reason{Code: models.ReasonHasConflict, Count: count})
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	details.CostEstimate = EstimateCost(cand.HourlyRate, shift.DurationHours())

	return ScoredCandidate{
		Candidate:  cand,
		Score:      score,
		Confidence: confidenceFor(score, details.HasConflicts),
		Details:    details,
		Reasons:    reasons,
	}
}

// confidenceFor maps a score and conflict flag to a tier. A conflicted
// candidate is never high-confidence regardless of score.
func confidenceFor(score float64, hasConflicts bool) models.Confidence {
	switch {
	case score >= HighThreshold && !hasConflicts:
		return models.ConfidenceHigh
	case score >= MediumThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// availabilityCovers reports whether any window for the shift's weekday
// fully contains the shift's local time-of-day range. The second return
// is whether the employee has any window recorded for that weekday at all.
// A shift crossing midnight never matches a same-day window.
func availabilityCovers(windows []models.AvailabilityWindow, shift models.ShiftRequirement) (covered, hasData bool) {
	day := int(shift.ShiftStart.Weekday())
	startMin := shift.ShiftStart.Hour()*60 + shift.ShiftStart.Minute()
	endMin := startMin + int(shift.ShiftEnd.Sub(shift.ShiftStart).Minutes())

	for _, w := range windows {
		if w.DayOfWeek != day {
			continue
		}
		hasData = true
		if !w.IsAvailable {
			continue
		}
		wStart, ok1 := parseClock(w.StartTime)
		wEnd, ok2 := parseClock(w.EndTime)
		if !ok1 || !ok2 {
			continue
		}
		if endMin <= 24*60 && wStart <= startMin && wEnd >= endMin {
			covered = true
		}
	}
	return covered, hasData
}

// parseClock converts a "15:04" string to minutes since midnight.
// "24:00" is accepted as end-of-day.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, false
	}
	return h*60 + m, true
}
