package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablecraft/staffing-api-go/pkg/models"
)

// 2024-01-01 was a Monday.
var monday9to5 = models.ShiftRequirement{
	ShiftID:    1,
	ShiftStart: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	ShiftEnd:   time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
}

func rate(v float64) *float64 { return &v }

func mondayAvailability(start, end string) []models.AvailabilityWindow {
	return []models.AvailabilityWindow{
		{DayOfWeek: 1, StartTime: start, EndTime: end, IsAvailable: true},
	}
}

func TestScoreCandidate_FullMatchIsHighConfidence(t *testing.T) {
	shift := monday9to5
	shift.RequiredSkills = []uint{10, 20}

	cand := models.EmployeeCandidate{
		ID:        1,
		FirstName: "Alice",
		IsActive:  true,
		Skills: []models.SkillRef{
			{SkillID: 10, SkillName: "barista"},
			{SkillID: 20, SkillName: "service"},
		},
		Availability: mondayAvailability("08:00", "18:00"),
		Seniority:    &models.Seniority{Level: "mid", Rank: 3},
	}

	sc := ScoreCandidate(cand, shift)

	assert.True(t, sc.Details.SkillsMatch)
	assert.ElementsMatch(t, []uint{10, 20}, sc.Details.SkillsMatched)
	assert.Empty(t, sc.Details.SkillsMissing)
	assert.True(t, sc.Details.AvailabilityMatch)
	assert.False(t, sc.Details.HasConflicts)
	assert.Equal(t, models.ConfidenceHigh, sc.Confidence)
	assert.GreaterOrEqual(t, sc.Score, HighThreshold)
}

func TestScoreCandidate_NoRequiredSkillsIsTrivialMatch(t *testing.T) {
	cand := models.EmployeeCandidate{ID: 1, FirstName: "Bob"}

	sc := ScoreCandidate(cand, monday9to5)

	assert.True(t, sc.Details.SkillsMatch)
	assert.Empty(t, sc.Details.SkillsMissing)
	require.NotEmpty(t, sc.Reasons)
	assert.Equal(t, models.ReasonNoSkillsRequired, sc.Reasons[0].Code)
}

func TestScoreCandidate_SkillPartitionIsExhaustive(t *testing.T) {
	shift := monday9to5
	shift.RequiredSkills = []uint{1, 2, 3}

	cand := models.EmployeeCandidate{
		ID:     1,
		Skills: []models.SkillRef{{SkillID: 2}},
	}

	sc := ScoreCandidate(cand, shift)

	got := append(append([]uint{}, sc.Details.SkillsMatched...), sc.Details.SkillsMissing...)
	assert.ElementsMatch(t, shift.RequiredSkills, got)
	assert.False(t, sc.Details.SkillsMatch)
	for _, id := range sc.Details.SkillsMatched {
		assert.NotContains(t, sc.Details.SkillsMissing, id)
	}
}

func TestScoreCandidate_ConflictNeverImprovesScore(t *testing.T) {
	shift := monday9to5
	shift.RequiredSkills = []uint{10}

	base := models.EmployeeCandidate{
		ID:           1,
		Skills:       []models.SkillRef{{SkillID: 10}},
		Availability: mondayAvailability("08:00", "18:00"),
		Seniority:    &models.Seniority{Level: "senior", Rank: 5},
	}
	conflicted := base
	conflicted.HasConflictingShift = true
	conflicted.ConflictingShifts = []models.ConflictingShift{{ShiftID: 99}}

	clean := ScoreCandidate(base, shift)
	dirty := ScoreCandidate(conflicted, shift)

	assert.Less(t, dirty.Score, clean.Score)
	assert.NotEqual(t, models.ConfidenceHigh, dirty.Confidence)
}

func TestScoreCandidate_ConflictedCandidateCannotReachHigh(t *testing.T) {
	// Maximum possible positives with a conflict is still below the
	// high threshold.
	max := MaxSkillPoints + AvailabilityBonus + MaxSeniorityPoints - ConflictPenalty
	assert.Less(t, max, HighThreshold)
}

func TestScoreCandidate_ConflictScenario(t *testing.T) {
	shift := monday9to5
	shift.RequiredSkills = []uint{10, 20}

	cand := models.EmployeeCandidate{
		ID:        1,
		FirstName: "Alice",
		Skills: []models.SkillRef{
			{SkillID: 10}, {SkillID: 20},
		},
		Availability:        mondayAvailability("08:00", "18:00"),
		Seniority:           &models.Seniority{Level: "mid", Rank: 3},
		HasConflictingShift: true,
		ConflictingShifts: []models.ConflictingShift{{
			ShiftID: 2,
			Start:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			End:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		}},
	}

	sc := ScoreCandidate(cand, shift)

	assert.True(t, sc.Details.HasConflicts)
	assert.NotEqual(t, models.ConfidenceHigh, sc.Confidence)
}

func TestScoreCandidate_SeniorityIsCappedAndMonotonic(t *testing.T) {
	var prev float64
	for rank := 1; rank <= 10; rank++ {
		cand := models.EmployeeCandidate{
			ID:        1,
			Seniority: &models.Seniority{Level: "l", Rank: rank},
		}
		sc := ScoreCandidate(cand, monday9to5)
		assert.GreaterOrEqual(t, sc.Details.SeniorityScore, prev, "rank %d", rank)
		assert.LessOrEqual(t, sc.Details.SeniorityScore, MaxSeniorityPoints)
		prev = sc.Details.SeniorityScore
	}
}

func TestScoreCandidate_AvailabilityCases(t *testing.T) {
	tests := []struct {
		name        string
		windows     []models.AvailabilityWindow
		wantMatch   bool
		wantReason  models.ReasonCode
	}{
		{
			name:       "covering window",
			windows:    mondayAvailability("08:00", "18:00"),
			wantMatch:  true,
			wantReason: models.ReasonAvailabilityMatch,
		},
		{
			name:       "exact window",
			windows:    mondayAvailability("09:00", "17:00"),
			wantMatch:  true,
			wantReason: models.ReasonAvailabilityMatch,
		},
		{
			name:       "window too short",
			windows:    mondayAvailability("10:00", "16:00"),
			wantMatch:  false,
			wantReason: models.ReasonOutsideAvailability,
		},
		{
			name: "window marked unavailable",
			windows: []models.AvailabilityWindow{
				{DayOfWeek: 1, StartTime: "08:00", EndTime: "18:00", IsAvailable: false},
			},
			wantMatch:  false,
			wantReason: models.ReasonOutsideAvailability,
		},
		{
			name: "wrong day only",
			windows: []models.AvailabilityWindow{
				{DayOfWeek: 2, StartTime: "08:00", EndTime: "18:00", IsAvailable: true},
			},
			wantMatch:  false,
			wantReason: models.ReasonNoAvailabilityData,
		},
		{
			name:       "no data",
			windows:    nil,
			wantMatch:  false,
			wantReason: models.ReasonNoAvailabilityData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand := models.EmployeeCandidate{ID: 1, Availability: tt.windows}
			sc := ScoreCandidate(cand, monday9to5)
			assert.Equal(t, tt.wantMatch, sc.Details.AvailabilityMatch)

			var codes []models.ReasonCode
			for _, r := range sc.Reasons {
				codes = append(codes, r.Code)
			}
			assert.Contains(t, codes, tt.wantReason)
		})
	}
}

func TestScoreCandidate_MissingAvailabilityIsNotPenalized(t *testing.T) {
	withData := models.EmployeeCandidate{
		ID: 1,
		Availability: []models.AvailabilityWindow{
			{DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00", IsAvailable: true},
		},
	}
	noData := models.EmployeeCandidate{ID: 2}

	assert.Equal(t, ScoreCandidate(noData, monday9to5).Score, ScoreCandidate(withData, monday9to5).Score)
}

func TestScoreCandidate_OvernightShiftNeverMatchesSameDayWindow(t *testing.T) {
	shift := models.ShiftRequirement{
		ShiftID:    1,
		ShiftStart: time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC),
		ShiftEnd:   time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC),
	}
	cand := models.EmployeeCandidate{
		ID:           1,
		Availability: mondayAvailability("00:00", "24:00"),
	}

	sc := ScoreCandidate(cand, shift)
	assert.False(t, sc.Details.AvailabilityMatch)
}

func TestScoreCandidate_Deterministic(t *testing.T) {
	shift := monday9to5
	shift.RequiredSkills = []uint{10, 20}
	cand := models.EmployeeCandidate{
		ID:           1,
		Skills:       []models.SkillRef{{SkillID: 10}},
		Availability: mondayAvailability("08:00", "18:00"),
	}

	first := ScoreCandidate(cand, shift)
	second := ScoreCandidate(cand, shift)
	assert.Equal(t, first, second)
}

func TestScoreCandidate_ReasonOrderFollowsFactors(t *testing.T) {
	shift := monday9to5
	shift.RequiredSkills = []uint{10}

	cand := models.EmployeeCandidate{
		ID:                  1,
		Skills:              []models.SkillRef{{SkillID: 10}},
		Seniority:           &models.Seniority{Level: "mid", Rank: 3},
		Availability:        mondayAvailability("08:00", "18:00"),
		HasConflictingShift: true,
	}

	sc := ScoreCandidate(cand, shift)
	var codes []models.ReasonCode
	for _, r := range sc.Reasons {
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []models.ReasonCode{
		models.ReasonSkillsMatched,
		models.ReasonSeniorityBonus,
		models.ReasonAvailabilityMatch,
		models.ReasonHasConflict,
	}, codes)
}

func TestEstimateCost(t *testing.T) {
	assert.Equal(t, 120.0, EstimateCost(rate(15), 8))
	assert.Equal(t, 0.0, EstimateCost(nil, 8))
	assert.InDelta(t, 37.5, EstimateCost(rate(15), 2.5), 1e-9)
}

func TestParseClock(t *testing.T) {
	for input, want := range map[string]int{
		"00:00": 0,
		"09:30": 570,
		"24:00": 1440,
	} {
		got, ok := parseClock(input)
		require.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	for _, bad := range []string{"", "9", "25:00", "24:01", "12:60", "ab:cd"} {
		_, ok := parseClock(bad)
		assert.False(t, ok, bad)
	}
}
