// Package handlers wires the assignment engine to the HTTP surface.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tablecraft/staffing-api-go/pkg/apperrors"
	"github.com/tablecraft/staffing-api-go/pkg/assignment"
	"github.com/tablecraft/staffing-api-go/pkg/models"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB      *gorm.DB
	Service *assignment.Service
	Logger  *zap.Logger
}

// New creates a Handler.
func New(db *gorm.DB, svc *assignment.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{DB: db, Service: svc, Logger: logger}
}

// GetAssignmentSuggestions ranks candidates for one shift.
// GET /api/shifts/:id/assignment-suggestions
func (h *Handler) GetAssignmentSuggestions(c *gin.Context) {
	t := tenant(c)
	shiftID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	opts := assignment.SuggestionOptions{
		LaborBudget: t.DefaultShiftBudget,
	}
	if v := c.Query("location_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location_id"})
			return
		}
		loc := uint(id)
		opts.LocationID = &loc
	}
	if v := c.Query("required_skills"); v != "" {
		skills, err := parseSkillList(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid required_skills"})
			return
		}
		opts.RequiredSkills = skills
	}
	if v := c.Query("labor_budget"); v != "" {
		budget, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid labor_budget"})
			return
		}
		opts.LaborBudget = &budget
	}

	result, err := h.Service.GetSuggestions(c.Request.Context(), t.ID, shiftID, opts)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.RecordUsage(c, 1, len(result.Suggestions))
	c.JSON(http.StatusOK, result)
}

// AutoAssignShift binds an employee (explicit or best match) to a shift.
// POST /api/shifts/:id/auto-assign
func (h *Handler) AutoAssignShift(c *gin.Context) {
	t := tenant(c)
	shiftID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		EmployeeID *uint `json:"employee_id"`
		Force      bool  `json:"force"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	resp, err := h.Service.AutoAssign(c.Request.Context(), t.ID, shiftID, req.EmployeeID, req.Force)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetBulkAssignmentSuggestions runs the pipeline over open shifts selected
// by a filter.
// GET /api/assignment-suggestions/bulk
func (h *Handler) GetBulkAssignmentSuggestions(c *gin.Context) {
	t := tenant(c)

	var filter assignment.OpenShiftFilter
	if v := c.Query("schedule_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule_id"})
			return
		}
		sid := uint(id)
		filter.ScheduleID = &sid
	}
	if v := c.Query("location_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location_id"})
			return
		}
		lid := uint(id)
		filter.LocationID = &lid
	}
	if v := c.Query("start_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
			return
		}
		filter.StartDate = &d
	}
	if v := c.Query("end_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, expected YYYY-MM-DD"})
			return
		}
		// End date is inclusive: shifts starting any time that day match.
		d = d.AddDate(0, 0, 1)
		filter.EndDate = &d
	}

	budget := t.DefaultShiftBudget
	if v := c.Query("labor_budget"); v != "" {
		b, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid labor_budget"})
			return
		}
		budget = &b
	}

	resp, err := h.Service.BulkSuggestions(c.Request.Context(), t.ID, filter, budget)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.RecordUsage(c, resp.Summary.Total, suggestionCount(resp))
	c.JSON(http.StatusOK, resp)
}

// GetBulkSuggestionsForShifts runs the pipeline over a caller-enumerated
// shift list with per-shift overrides.
// POST /api/assignment-suggestions/bulk
func (h *Handler) GetBulkSuggestionsForShifts(c *gin.Context) {
	t := tenant(c)

	var req struct {
		Shifts []struct {
			ShiftID        uint   `json:"shift_id" binding:"required"`
			LocationID     *uint  `json:"location_id"`
			RequiredSkills []uint `json:"required_skills"`
		} `json:"shifts" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requests := make([]assignment.ShiftSuggestionRequest, len(req.Shifts))
	for i, sh := range req.Shifts {
		requests[i] = assignment.ShiftSuggestionRequest{
			ShiftID:        sh.ShiftID,
			LocationID:     sh.LocationID,
			RequiredSkills: sh.RequiredSkills,
		}
	}

	resp := h.Service.BulkSuggestionsFor(c.Request.Context(), t.ID, requests, t.DefaultShiftBudget)
	h.RecordUsage(c, resp.Summary.Total, suggestionCount(resp))
	c.JSON(http.StatusOK, resp)
}

// BulkAutoAssign commits assignments for a set of shifts, best effort.
// POST /api/shifts/auto-assign/bulk
func (h *Handler) BulkAutoAssign(c *gin.Context) {
	t := tenant(c)

	var req struct {
		ShiftIDs []uint `json:"shift_ids" binding:"required,min=1"`
		Force    bool   `json:"force"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := h.Service.BulkAssign(c.Request.Context(), t.ID, req.ShiftIDs, req.Force)
	c.JSON(http.StatusOK, resp)
}

// respondError maps the error taxonomy to HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsBlocked(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "force_assignable": true})
	case errors.Is(err, apperrors.ErrShiftTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.Logger.Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

func parseSkillList(csv string) ([]uint, error) {
	parts := strings.Split(csv, ",")
	skills := make([]uint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, err
		}
		skills = append(skills, uint(id))
	}
	return skills, nil
}

func suggestionCount(resp *models.BulkAssignmentResponse) int {
	n := 0
	for _, r := range resp.Results {
		n += len(r.Suggestions)
	}
	return n
}
