package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tablecraft/staffing-api-go/pkg/database"
)

// Resource endpoints cover the storage contract the engine reads from:
// employees, skills, availability, time off, locations, schedules, shifts.
// CRM entities (proposals, contracts, leads) are a different product surface
// and are not served here.

// CreateEmployee adds an employee to the tenant roster.
// POST /api/employees
func (h *Handler) CreateEmployee(c *gin.Context) {
	t := tenant(c)
	var req struct {
		FirstName      string   `json:"first_name" binding:"required"`
		LastName       string   `json:"last_name"`
		Email          string   `json:"email" binding:"omitempty,email"`
		Role           string   `json:"role"`
		LocationID     *uint    `json:"location_id"`
		HourlyRate     *float64 `json:"hourly_rate"`
		SeniorityLevel string   `json:"seniority_level"`
		SeniorityRank  int      `json:"seniority_rank" binding:"omitempty,min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.LocationID != nil && !h.tenantOwns(c, t.ID, &database.Location{}, *req.LocationID, "Location") {
		return
	}

	emp := database.Employee{
		TenantID:       t.ID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Role:           req.Role,
		IsActive:       true,
		LocationID:     req.LocationID,
		HourlyRate:     req.HourlyRate,
		SeniorityLevel: req.SeniorityLevel,
		SeniorityRank:  req.SeniorityRank,
	}
	if err := h.DB.Create(&emp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create employee"})
		return
	}
	c.JSON(http.StatusCreated, emp)
}

// ListEmployees returns the tenant roster, optionally filtered by role.
// GET /api/employees
func (h *Handler) ListEmployees(c *gin.Context) {
	t := tenant(c)
	q := h.DB.Where("tenant_id = ?", t.ID)
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}
	var employees []database.Employee
	q.Order("first_name, last_name, id").Find(&employees)
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// DeactivateEmployee soft-deletes an employee from candidacy.
// DELETE /api/employees/:id
func (h *Handler) DeactivateEmployee(c *gin.Context) {
	t := tenant(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	res := h.DB.Where("tenant_id = ?", t.ID).Delete(&database.Employee{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not remove employee"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee removed"})
}

// CreateSkill registers a skill name for the tenant.
// POST /api/skills
func (h *Handler) CreateSkill(c *gin.Context) {
	t := tenant(c)
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	skill := database.Skill{TenantID: t.ID, Name: req.Name}
	if err := h.DB.Create(&skill).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create skill"})
		return
	}
	c.JSON(http.StatusCreated, skill)
}

// ListSkills returns the tenant's skill catalog.
// GET /api/skills
func (h *Handler) ListSkills(c *gin.Context) {
	t := tenant(c)
	var skills []database.Skill
	h.DB.Where("tenant_id = ?", t.ID).Order("name").Find(&skills)
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

// AddEmployeeSkill links a skill to an employee with a proficiency level.
// POST /api/employees/:id/skills
func (h *Handler) AddEmployeeSkill(c *gin.Context) {
	t := tenant(c)
	empID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		SkillID          uint `json:"skill_id" binding:"required"`
		ProficiencyLevel int  `json:"proficiency_level" binding:"omitempty,min=1,max=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.tenantOwns(c, t.ID, &database.Employee{}, empID, "Employee") ||
		!h.tenantOwns(c, t.ID, &database.Skill{}, req.SkillID, "Skill") {
		return
	}
	if req.ProficiencyLevel == 0 {
		req.ProficiencyLevel = 1
	}

	link := database.EmployeeSkill{
		TenantID:         t.ID,
		EmployeeID:       empID,
		SkillID:          req.SkillID,
		ProficiencyLevel: req.ProficiencyLevel,
	}
	if err := h.DB.Create(&link).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not add skill"})
		return
	}
	c.JSON(http.StatusCreated, link)
}

// SetAvailability records a weekly recurring availability window.
// POST /api/employees/:id/availability
func (h *Handler) SetAvailability(c *gin.Context) {
	t := tenant(c)
	empID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		DayOfWeek   *int   `json:"day_of_week" binding:"required,min=0,max=6"`
		StartTime   string `json:"start_time" binding:"required,timeofday"`
		EndTime     string `json:"end_time" binding:"required,timeofday"`
		IsAvailable *bool  `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.tenantOwns(c, t.ID, &database.Employee{}, empID, "Employee") {
		return
	}
	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	window := database.Availability{
		TenantID:    t.ID,
		EmployeeID:  empID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: isAvailable,
	}
	if err := h.DB.Create(&window).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record availability"})
		return
	}
	c.JSON(http.StatusCreated, window)
}

// CreateTimeOff records a time-off request. Approved requests remove the
// employee from candidacy for overlapping shifts.
// POST /api/employees/:id/time-off
func (h *Handler) CreateTimeOff(c *gin.Context) {
	t := tenant(c)
	empID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Start  time.Time `json:"start" binding:"required"`
		End    time.Time `json:"end" binding:"required"`
		Status string    `json:"status" binding:"omitempty,oneof=pending approved denied"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.End.After(req.Start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be after start"})
		return
	}
	if !h.tenantOwns(c, t.ID, &database.Employee{}, empID, "Employee") {
		return
	}
	if req.Status == "" {
		req.Status = "pending"
	}

	timeOff := database.TimeOff{
		TenantID:   t.ID,
		EmployeeID: empID,
		Start:      req.Start,
		End:        req.End,
		Status:     req.Status,
	}
	if err := h.DB.Create(&timeOff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record time off"})
		return
	}
	c.JSON(http.StatusCreated, timeOff)
}

// CreateLocation registers a venue.
// POST /api/locations
func (h *Handler) CreateLocation(c *gin.Context) {
	t := tenant(c)
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loc := database.Location{TenantID: t.ID, Name: req.Name}
	if err := h.DB.Create(&loc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create location"})
		return
	}
	c.JSON(http.StatusCreated, loc)
}

// CreateSchedule opens a new rota period.
// POST /api/schedules
func (h *Handler) CreateSchedule(c *gin.Context) {
	t := tenant(c)
	var req struct {
		Name      string    `json:"name" binding:"required"`
		StartDate time.Time `json:"start_date"`
		EndDate   time.Time `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sched := database.Schedule{
		TenantID:  t.ID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := h.DB.Create(&sched).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create schedule"})
		return
	}
	c.JSON(http.StatusCreated, sched)
}

// CreateShift adds a shift, optionally tagged with required skills.
// POST /api/shifts
func (h *Handler) CreateShift(c *gin.Context) {
	t := tenant(c)
	var req struct {
		ScheduleID       uint      `json:"schedule_id"`
		LocationID       uint      `json:"location_id"`
		Start            time.Time `json:"start" binding:"required"`
		End              time.Time `json:"end" binding:"required"`
		RoleDuringShift  string    `json:"role_during_shift"`
		Notes            string    `json:"notes"`
		RequiredSkillIDs []uint    `json:"required_skill_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.End.After(req.Start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shift end must be after shift start"})
		return
	}

	shift := database.Shift{
		TenantID:        t.ID,
		ScheduleID:      req.ScheduleID,
		LocationID:      req.LocationID,
		Start:           req.Start,
		End:             req.End,
		RoleDuringShift: req.RoleDuringShift,
		Notes:           req.Notes,
	}
	if err := h.DB.Omit("RequiredSkills").Create(&shift).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create shift"})
		return
	}

	if len(req.RequiredSkillIDs) > 0 {
		var skills []database.Skill
		h.DB.Where("tenant_id = ? AND id IN ?", t.ID, req.RequiredSkillIDs).Find(&skills)
		if len(skills) != len(req.RequiredSkillIDs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown skill id in required_skill_ids"})
			return
		}
		if err := h.DB.Model(&shift).Association("RequiredSkills").Append(&skills); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not attach required skills"})
			return
		}
		shift.RequiredSkills = skills
	}

	c.JSON(http.StatusCreated, shift)
}

// ListShifts returns the tenant's shifts, optionally only open ones.
// GET /api/shifts
func (h *Handler) ListShifts(c *gin.Context) {
	t := tenant(c)
	q := h.DB.Preload("RequiredSkills").Where("tenant_id = ?", t.ID)
	if c.Query("open") == "true" {
		q = q.Where("employee_id IS NULL")
	}
	if v := c.Query("schedule_id"); v != "" {
		q = q.Where("schedule_id = ?", v)
	}
	var shifts []database.Shift
	q.Order("starts_at, id").Find(&shifts)
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

// tenantOwns verifies a record exists within the tenant, responding 404 if not.
func (h *Handler) tenantOwns(c *gin.Context, tenantID uint, model interface{}, id uint, name string) bool {
	var count int64
	h.DB.Model(model).Where("tenant_id = ? AND id = ?", tenantID, id).Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": name + " not found"})
		return false
	}
	return true
}
