package database

import (
	"time"

	"gorm.io/gorm"
)

// Tenant represents one organization. Every domain row carries a TenantID
// and every query is filtered by it; no operation may cross tenants.
type Tenant struct {
	ID                 uint     `gorm:"primaryKey" json:"id"`
	Slug               string   `gorm:"unique;not null" json:"slug"`
	Name               string   `gorm:"not null" json:"name"`
	DefaultShiftBudget *float64 `json:"default_shift_budget,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// AdminUser represents the admin_users table for the key-management plane.
type AdminUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// APIKey represents the api_keys table. Keys are HMAC-signed and scoped to
// a single tenant.
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	TenantID   uint       `gorm:"index;not null" json:"tenant_id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table, one row per key per day.
type APIUsage struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	KeyID               uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date                string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount        int    `gorm:"default:0" json:"request_count"`
	ShiftsScored        int    `gorm:"default:0" json:"shifts_scored"`
	SuggestionsReturned int    `gorm:"default:0" json:"suggestions_returned"`
}

// Employee represents the employees table. LocationID is the home venue;
// nil means the employee works anywhere.
type Employee struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	TenantID       uint           `gorm:"index;not null" json:"tenant_id"`
	FirstName      string         `gorm:"not null" json:"first_name"`
	LastName       string         `json:"last_name"`
	Email          string         `gorm:"index" json:"email"`
	Role           string         `gorm:"index" json:"role"`
	LocationID     *uint          `gorm:"index" json:"location_id,omitempty"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	HourlyRate     *float64       `json:"hourly_rate,omitempty"`
	SeniorityLevel string         `json:"seniority_level,omitempty"`
	SeniorityRank  int            `json:"seniority_rank,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Skill represents the skills table.
type Skill struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID uint   `gorm:"index;not null" json:"tenant_id"`
	Name     string `gorm:"not null" json:"name"`
}

// EmployeeSkill links an employee to a skill with a proficiency level.
type EmployeeSkill struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	TenantID         uint `gorm:"index;not null" json:"tenant_id"`
	EmployeeID       uint `gorm:"uniqueIndex:idx_employee_skill;not null" json:"employee_id"`
	SkillID          uint `gorm:"uniqueIndex:idx_employee_skill;not null" json:"skill_id"`
	ProficiencyLevel int  `gorm:"default:1" json:"proficiency_level"`
}

// Availability is one weekly recurring window for an employee.
// StartTime and EndTime are local "15:04" strings.
type Availability struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TenantID    uint   `gorm:"index;not null" json:"tenant_id"`
	EmployeeID  uint   `gorm:"index;not null" json:"employee_id"`
	DayOfWeek   int    `gorm:"not null" json:"day_of_week"`
	StartTime   string `gorm:"not null" json:"start_time"`
	EndTime     string `gorm:"not null" json:"end_time"`
	IsAvailable bool   `gorm:"default:true" json:"is_available"`
}

// TimeOff represents approved or pending time-off requests. Approved rows
// exclude an employee from candidacy for overlapping shifts.
type TimeOff struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	TenantID   uint           `gorm:"index;not null" json:"tenant_id"`
	EmployeeID uint           `gorm:"index;not null" json:"employee_id"`
	Start      time.Time      `gorm:"column:starts_at;not null" json:"start"`
	End        time.Time      `gorm:"column:ends_at;not null" json:"end"`
	Status     string         `gorm:"default:pending" json:"status"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Location represents the locations table.
type Location struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID uint   `gorm:"index;not null" json:"tenant_id"`
	Name     string `gorm:"not null" json:"name"`
}

// Schedule groups shifts into a published rota.
type Schedule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"index;not null" json:"tenant_id"`
	Name      string    `gorm:"not null" json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Shift represents the shifts table. EmployeeID is nil for an open shift.
// Start/End form a half-open interval; End itself does not overlap.
type Shift struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	TenantID        uint           `gorm:"index;not null" json:"tenant_id"`
	ScheduleID      uint           `gorm:"index" json:"schedule_id"`
	LocationID      uint           `gorm:"index" json:"location_id"`
	Start           time.Time      `gorm:"column:starts_at;not null;index" json:"start"`
	End             time.Time      `gorm:"column:ends_at;not null" json:"end"`
	EmployeeID      *uint          `gorm:"index" json:"employee_id,omitempty"`
	RoleDuringShift string         `json:"role_during_shift,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	RequiredSkills  []Skill        `gorm:"many2many:shift_required_skills" json:"required_skills,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// AssignmentDecision is the append-only audit record written whenever the
// executor binds an employee to a shift.
type AssignmentDecision struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TenantID   uint      `gorm:"index;not null" json:"tenant_id"`
	ShiftID    uint      `gorm:"index;not null" json:"shift_id"`
	EmployeeID uint      `gorm:"not null" json:"employee_id"`
	Score      float64   `json:"score"`
	Confidence string    `json:"confidence"`
	Forced     bool      `json:"forced"`
	CreatedAt  time.Time `json:"created_at"`
}
