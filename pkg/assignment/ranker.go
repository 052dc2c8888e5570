package assignment

import (
	"fmt"
	"sort"

	"github.com/tablecraft/staffing-api-go/pkg/models"
)

// Rank orders scored candidates descending by score with a deterministic
// tie-break (employee name, then id), picks the best match, and decides
// auto-assign eligibility. laborBudget, when non-nil, is an advisory
// per-shift ceiling: exceeding it sets a warning but blocks nothing.
func Rank(shiftID uint, scored []ScoredCandidate, laborBudget *float64) models.AutoAssignmentResult {
	suggestions := make([]models.AssignmentSuggestion, 0, len(scored))
	for _, sc := range scored {
		suggestions = append(suggestions, models.AssignmentSuggestion{
			Employee:     sc.Candidate,
			Score:        sc.Score,
			Reasons:      sc.Reasons,
			Reasoning:    models.RenderReasons(sc.Reasons),
			Confidence:   sc.Confidence,
			MatchDetails: sc.Details,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		ni, nj := suggestions[i].Employee.FullName(), suggestions[j].Employee.FullName()
		if ni != nj {
			return ni < nj
		}
		return suggestions[i].Employee.ID < suggestions[j].Employee.ID
	})

	result := models.AutoAssignmentResult{
		ShiftID:     shiftID,
		Suggestions: suggestions,
	}

	if len(suggestions) == 0 {
		return result
	}

	best := suggestions[0]
	result.BestMatch = &best
	result.CanAutoAssign = best.Confidence == models.ConfidenceHigh && !best.MatchDetails.HasConflicts

	if laborBudget != nil && best.MatchDetails.CostEstimate > *laborBudget {
		result.LaborBudgetWarning = fmt.Sprintf(
			"projected labor cost %.2f exceeds budget %.2f", best.MatchDetails.CostEstimate, *laborBudget)
	}

	return result
}

// Summarize partitions bulk results into the batch summary counts.
func Summarize(results []models.AutoAssignmentResult) models.BulkSummary {
	summary := models.BulkSummary{Total: len(results)}
	for _, r := range results {
		if len(r.Suggestions) == 0 {
			summary.NoSuggestions++
			continue
		}
		summary.HasSuggestions++
		if r.CanAutoAssign {
			summary.CanAutoAssign++
		}
	}
	return summary
}
