package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register wires all routes onto the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Staffing Assignment API",
			"version": "1.0.0",
		})
	})

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/tenants", h.CreateTenant)
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Tenant API
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		// Assignment engine
		api.GET("/shifts/:id/assignment-suggestions", h.GetAssignmentSuggestions)
		api.POST("/shifts/:id/auto-assign", h.AutoAssignShift)
		api.GET("/assignment-suggestions/bulk", h.GetBulkAssignmentSuggestions)
		api.POST("/assignment-suggestions/bulk", h.GetBulkSuggestionsForShifts)
		api.POST("/shifts/auto-assign/bulk", h.BulkAutoAssign)

		// Roster and shift data
		api.POST("/employees", h.CreateEmployee)
		api.GET("/employees", h.ListEmployees)
		api.DELETE("/employees/:id", h.DeactivateEmployee)
		api.POST("/employees/:id/skills", h.AddEmployeeSkill)
		api.POST("/employees/:id/availability", h.SetAvailability)
		api.POST("/employees/:id/time-off", h.CreateTimeOff)
		api.POST("/skills", h.CreateSkill)
		api.GET("/skills", h.ListSkills)
		api.POST("/locations", h.CreateLocation)
		api.POST("/schedules", h.CreateSchedule)
		api.POST("/shifts", h.CreateShift)
		api.GET("/shifts", h.ListShifts)

		api.GET("/usage", h.GetMyUsage)
	}
}
