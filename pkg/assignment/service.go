// Package assignment implements the shift auto-assignment engine: candidate
// scoring, suggestion ranking, labor-cost estimation, single and bulk
// assignment with a force-override escape hatch.
package assignment

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tablecraft/staffing-api-go/pkg/apperrors"
	"github.com/tablecraft/staffing-api-go/pkg/models"
)

// bulkParallelism caps concurrent per-shift pipelines in a bulk request.
const bulkParallelism = 8

// ShiftRecord is a shift requirement plus its current binding state.
type ShiftRecord struct {
	models.ShiftRequirement
	AssignedEmployeeID *uint
}

// CandidateQuery selects candidates for one shift window.
type CandidateQuery struct {
	Shift models.ShiftRequirement
	// Role filters to employees holding this role; empty means any role.
	Role string
	// ExcludeShiftID is skipped during conflict detection so an existing
	// shift being edited does not conflict with itself.
	ExcludeShiftID uint
}

// OpenShiftFilter selects open (unassigned) shifts for bulk suggestions.
type OpenShiftFilter struct {
	ScheduleID *uint
	LocationID *uint
	StartDate  *time.Time
	EndDate    *time.Time
}

// SuggestionOptions tweak a single suggestion request. LocationID and
// RequiredSkills, when set, override the shift's own values.
type SuggestionOptions struct {
	LocationID     *uint
	RequiredSkills []uint
	LaborBudget    *float64
}

// ShiftSuggestionRequest is one item of a caller-enumerated bulk request.
type ShiftSuggestionRequest struct {
	ShiftID        uint
	LocationID     *uint
	RequiredSkills []uint
}

// Decision is the audit record written when an assignment commits.
type Decision struct {
	TenantID   uint
	ShiftID    uint
	EmployeeID uint
	Score      float64
	Confidence models.Confidence
	Forced     bool
}

// Store is the tenant-scoped persistence the engine reads from and the one
// write it performs: the conditional shift binding.
type Store interface {
	GetShift(ctx context.Context, tenantID, shiftID uint) (*ShiftRecord, error)
	LoadCandidates(ctx context.Context, tenantID uint, q CandidateQuery) ([]models.EmployeeCandidate, error)
	OpenShifts(ctx context.Context, tenantID uint, f OpenShiftFilter) ([]ShiftRecord, error)
	// AssignEmployee binds employee to shift only if the shift's current
	// binding still equals expectedCurrent; otherwise it returns
	// apperrors.ErrShiftTaken.
	AssignEmployee(ctx context.Context, tenantID, shiftID, employeeID uint, expectedCurrent *uint) error
	RecordDecision(ctx context.Context, d Decision) error
}

// Service runs the suggestion pipeline and commits assignments.
type Service struct {
	store Store
	log   *zap.Logger
}

// NewService creates an assignment Service.
func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// GetSuggestions runs the full pipeline for one shift: load candidates,
// score, estimate cost, rank.
func (s *Service) GetSuggestions(ctx context.Context, tenantID, shiftID uint, opts SuggestionOptions) (*models.AutoAssignmentResult, error) {
	record, err := s.store.GetShift(ctx, tenantID, shiftID)
	if err != nil {
		return nil, err
	}
	req := record.ShiftRequirement
	if opts.LocationID != nil {
		req.LocationID = *opts.LocationID
	}
	if len(opts.RequiredSkills) > 0 {
		req.RequiredSkills = opts.RequiredSkills
	}

	candidates, err := s.store.LoadCandidates(ctx, tenantID, CandidateQuery{
		Shift:          req,
		Role:           req.RoleDuringShift,
		ExcludeShiftID: req.ShiftID,
	})
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, ScoreCandidate(c, req))
	}

	result := Rank(shiftID, scored, opts.LaborBudget)
	return &result, nil
}

// AutoAssign resolves an employee (explicit, or the shift's current best
// match), applies the confidence/conflict gate unless force is set, then
// commits the binding with a conditional update and records the decision.
func (s *Service) AutoAssign(ctx context.Context, tenantID, shiftID uint, employeeID *uint, force bool) (*models.AssignmentSuccessResponse, error) {
	record, err := s.store.GetShift(ctx, tenantID, shiftID)
	if err != nil {
		return nil, err
	}

	// Re-assigning the same employee is a no-op success.
	if employeeID != nil && record.AssignedEmployeeID != nil && *record.AssignedEmployeeID == *employeeID {
		return &models.AssignmentSuccessResponse{
			Success:    true,
			ShiftID:    shiftID,
			EmployeeID: *employeeID,
			Message:    "employee already assigned to this shift",
		}, nil
	}

	chosen, err := s.resolveCandidate(ctx, tenantID, record, employeeID)
	if err != nil {
		return nil, err
	}

	if !force && (chosen.Confidence == models.ConfidenceLow || chosen.Details.HasConflicts) {
		msg := "candidate confidence is low"
		if chosen.Details.HasConflicts {
			msg = "candidate has a conflicting shift"
		}
		return nil, &apperrors.AssignmentBlockedError{
			ShiftID:    shiftID,
			EmployeeID: chosen.Candidate.ID,
			Msg:        msg,
		}
	}

	if err := s.store.AssignEmployee(ctx, tenantID, shiftID, chosen.Candidate.ID, record.AssignedEmployeeID); err != nil {
		return nil, err
	}

	if err := s.store.RecordDecision(ctx, Decision{
		TenantID:   tenantID,
		ShiftID:    shiftID,
		EmployeeID: chosen.Candidate.ID,
		Score:      chosen.Score,
		Confidence: chosen.Confidence,
		Forced:     force,
	}); err != nil {
		// The binding committed; a lost audit row is logged, not fatal.
		s.log.Warn("failed to record assignment decision",
			zap.Uint("shift_id", shiftID), zap.Error(err))
	}

	msg := "employee assigned to shift"
	if force {
		msg = "employee assigned to shift (forced override)"
	}
	return &models.AssignmentSuccessResponse{
		Success:    true,
		ShiftID:    shiftID,
		EmployeeID: chosen.Candidate.ID,
		Forced:     force,
		Message:    msg,
	}, nil
}

// resolveCandidate scores the explicitly requested employee, or falls back
// to the shift's best match.
func (s *Service) resolveCandidate(ctx context.Context, tenantID uint, record *ShiftRecord, employeeID *uint) (*ScoredCandidate, error) {
	req := record.ShiftRequirement

	if employeeID != nil {
		// No role filter: an explicit pick may cross roles.
		candidates, err := s.store.LoadCandidates(ctx, tenantID, CandidateQuery{
			Shift:          req,
			ExcludeShiftID: req.ShiftID,
		})
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			if c.ID == *employeeID {
				sc := ScoreCandidate(c, req)
				return &sc, nil
			}
		}
		return nil, apperrors.NotFound("employee", *employeeID)
	}

	result, err := s.GetSuggestions(ctx, tenantID, req.ShiftID, SuggestionOptions{})
	if err != nil {
		return nil, err
	}
	if result.BestMatch == nil {
		return nil, apperrors.Validationf("no employee id given and no suggestion available for shift %d", req.ShiftID)
	}
	best := result.BestMatch
	return &ScoredCandidate{
		Candidate:  best.Employee,
		Score:      best.Score,
		Confidence: best.Confidence,
		Details:    best.MatchDetails,
		Reasons:    best.Reasons,
	}, nil
}

// BulkSuggestions runs the pipeline over every open shift matching the
// filter. Shifts are evaluated independently; a failure on one degrades it
// to an empty suggestion set instead of aborting the batch.
func (s *Service) BulkSuggestions(ctx context.Context, tenantID uint, filter OpenShiftFilter, laborBudget *float64) (*models.BulkAssignmentResponse, error) {
	shifts, err := s.store.OpenShifts(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	requests := make([]ShiftSuggestionRequest, len(shifts))
	for i, sh := range shifts {
		requests[i] = ShiftSuggestionRequest{ShiftID: sh.ShiftID}
	}
	return s.suggestMany(ctx, tenantID, requests, laborBudget), nil
}

// BulkSuggestionsFor runs the pipeline over a caller-enumerated shift list,
// honoring per-shift location and skill overrides.
func (s *Service) BulkSuggestionsFor(ctx context.Context, tenantID uint, requests []ShiftSuggestionRequest, laborBudget *float64) *models.BulkAssignmentResponse {
	return s.suggestMany(ctx, tenantID, requests, laborBudget)
}

func (s *Service) suggestMany(ctx context.Context, tenantID uint, requests []ShiftSuggestionRequest, laborBudget *float64) *models.BulkAssignmentResponse {
	results := make([]models.AutoAssignmentResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkParallelism)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			result, err := s.GetSuggestions(gctx, tenantID, req.ShiftID, SuggestionOptions{
				LocationID:     req.LocationID,
				RequiredSkills: req.RequiredSkills,
				LaborBudget:    laborBudget,
			})
			if err != nil {
				s.log.Warn("suggestion pipeline failed for shift, reporting empty set",
					zap.Uint("shift_id", req.ShiftID), zap.Error(err))
				results[i] = models.AutoAssignmentResult{
					ShiftID:     req.ShiftID,
					Suggestions: []models.AssignmentSuggestion{},
				}
				return nil
			}
			results[i] = *result
			return nil
		})
	}
	_ = g.Wait()

	return &models.BulkAssignmentResponse{
		Results: results,
		Summary: Summarize(results),
	}
}

// BulkAssign commits assignments for the given shifts as independent
// best-effort operations: one failure never aborts the others.
func (s *Service) BulkAssign(ctx context.Context, tenantID uint, shiftIDs []uint, force bool) *models.BulkAssignResponse {
	outcomes := make([]models.BulkAssignOutcome, len(shiftIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkParallelism)
	for i, id := range shiftIDs {
		i, id := i, id
		g.Go(func() error {
			resp, err := s.AutoAssign(gctx, tenantID, id, nil, force)
			if err != nil {
				outcomes[i] = models.BulkAssignOutcome{ShiftID: id, Error: err.Error()}
				return nil
			}
			outcomes[i] = models.BulkAssignOutcome{
				ShiftID:    id,
				EmployeeID: resp.EmployeeID,
				Success:    true,
			}
			return nil
		})
	}
	_ = g.Wait()

	resp := &models.BulkAssignResponse{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Success {
			resp.SuccessCount++
		} else {
			resp.FailureCount++
		}
	}
	return resp
}
