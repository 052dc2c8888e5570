// Package store is the gorm-backed persistence layer behind the assignment
// engine. Every query is scoped to a tenant id; soft-deleted rows are
// invisible through gorm's DeletedAt handling.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tablecraft/staffing-api-go/pkg/apperrors"
	"github.com/tablecraft/staffing-api-go/pkg/assignment"
	"github.com/tablecraft/staffing-api-go/pkg/database"
	"github.com/tablecraft/staffing-api-go/pkg/models"
)

// Store implements assignment.Store on a gorm DB.
type Store struct {
	DB *gorm.DB
}

// New creates a Store.
func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// GetShift fetches one shift with its required skills and current binding.
func (s *Store) GetShift(ctx context.Context, tenantID, shiftID uint) (*assignment.ShiftRecord, error) {
	var shift database.Shift
	err := s.DB.WithContext(ctx).
		Preload("RequiredSkills").
		Where("tenant_id = ?", tenantID).
		First(&shift, shiftID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("shift", shiftID)
	}
	if err != nil {
		return nil, err
	}

	record := &assignment.ShiftRecord{
		ShiftRequirement:   toRequirement(shift),
		AssignedEmployeeID: shift.EmployeeID,
	}
	return record, nil
}

// OpenShifts returns unassigned shifts matching the filter, ordered by
// start time for deterministic batch output.
func (s *Store) OpenShifts(ctx context.Context, tenantID uint, f assignment.OpenShiftFilter) ([]assignment.ShiftRecord, error) {
	q := s.DB.WithContext(ctx).
		Preload("RequiredSkills").
		Where("tenant_id = ? AND employee_id IS NULL", tenantID)
	if f.ScheduleID != nil {
		q = q.Where("schedule_id = ?", *f.ScheduleID)
	}
	if f.LocationID != nil {
		q = q.Where("location_id = ?", *f.LocationID)
	}
	if f.StartDate != nil {
		q = q.Where("starts_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("starts_at < ?", *f.EndDate)
	}

	var shifts []database.Shift
	if err := q.Order("starts_at, id").Find(&shifts).Error; err != nil {
		return nil, err
	}

	records := make([]assignment.ShiftRecord, len(shifts))
	for i, sh := range shifts {
		records[i] = assignment.ShiftRecord{
			ShiftRequirement:   toRequirement(sh),
			AssignedEmployeeID: sh.EmployeeID,
		}
	}
	return records, nil
}

// LoadCandidates fetches active employees for the shift window (optionally
// filtered by role and location), drops anyone on approved time off, and
// annotates the rest with overlapping-shift conflicts. Overlap is half-open:
// existing.start < shift.end AND existing.end > shift.start.
func (s *Store) LoadCandidates(ctx context.Context, tenantID uint, q assignment.CandidateQuery) ([]models.EmployeeCandidate, error) {
	db := s.DB.WithContext(ctx)

	empQuery := db.Where("tenant_id = ? AND is_active = ?", tenantID, true)
	if q.Role != "" {
		empQuery = empQuery.Where("role = ?", q.Role)
	}
	if q.Shift.LocationID != 0 {
		// Employees homed at another venue are out; unhomed ones work anywhere.
		empQuery = empQuery.Where("(location_id IS NULL OR location_id = ?)", q.Shift.LocationID)
	}

	var employees []database.Employee
	if err := empQuery.Order("first_name, last_name, id").Find(&employees).Error; err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return []models.EmployeeCandidate{}, nil
	}

	ids := make([]uint, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}

	shiftStart, shiftEnd := q.Shift.ShiftStart, q.Shift.ShiftEnd

	// Approved time off overlapping the window excludes the employee.
	var timeOffs []database.TimeOff
	if err := db.Where(
		"tenant_id = ? AND status = ? AND employee_id IN ? AND starts_at < ? AND ends_at > ?",
		tenantID, "approved", ids, shiftEnd, shiftStart,
	).Find(&timeOffs).Error; err != nil {
		return nil, err
	}
	onLeave := make(map[uint]bool, len(timeOffs))
	for _, t := range timeOffs {
		onLeave[t.EmployeeID] = true
	}

	type skillRow struct {
		EmployeeID       uint
		SkillID          uint
		ProficiencyLevel int
		Name             string
	}
	var skillRows []skillRow
	if err := db.Table("employee_skills").
		Select("employee_skills.employee_id, employee_skills.skill_id, employee_skills.proficiency_level, skills.name").
		Joins("JOIN skills ON skills.id = employee_skills.skill_id").
		Where("employee_skills.tenant_id = ? AND employee_skills.employee_id IN ?", tenantID, ids).
		Scan(&skillRows).Error; err != nil {
		return nil, err
	}
	skillsByEmployee := make(map[uint][]models.SkillRef)
	for _, r := range skillRows {
		skillsByEmployee[r.EmployeeID] = append(skillsByEmployee[r.EmployeeID], models.SkillRef{
			SkillID:          r.SkillID,
			SkillName:        r.Name,
			ProficiencyLevel: r.ProficiencyLevel,
		})
	}

	var availRows []database.Availability
	if err := db.Where("tenant_id = ? AND employee_id IN ?", tenantID, ids).
		Order("employee_id, day_of_week, start_time").
		Find(&availRows).Error; err != nil {
		return nil, err
	}
	availByEmployee := make(map[uint][]models.AvailabilityWindow)
	for _, a := range availRows {
		availByEmployee[a.EmployeeID] = append(availByEmployee[a.EmployeeID], models.AvailabilityWindow{
			DayOfWeek:   a.DayOfWeek,
			StartTime:   a.StartTime,
			EndTime:     a.EndTime,
			IsAvailable: a.IsAvailable,
		})
	}

	conflictQuery := db.Where(
		"tenant_id = ? AND employee_id IN ? AND starts_at < ? AND ends_at > ?",
		tenantID, ids, shiftEnd, shiftStart,
	)
	if q.ExcludeShiftID != 0 {
		conflictQuery = conflictQuery.Where("id <> ?", q.ExcludeShiftID)
	}
	var conflictShifts []database.Shift
	if err := conflictQuery.Order("starts_at, id").Find(&conflictShifts).Error; err != nil {
		return nil, err
	}

	locationNames, err := s.locationNames(ctx, tenantID, conflictShifts)
	if err != nil {
		return nil, err
	}
	conflictsByEmployee := make(map[uint][]models.ConflictingShift)
	for _, sh := range conflictShifts {
		if sh.EmployeeID == nil {
			continue
		}
		conflictsByEmployee[*sh.EmployeeID] = append(conflictsByEmployee[*sh.EmployeeID], models.ConflictingShift{
			ShiftID:      sh.ID,
			Start:        sh.Start,
			End:          sh.End,
			LocationName: locationNames[sh.LocationID],
		})
	}

	candidates := make([]models.EmployeeCandidate, 0, len(employees))
	for _, e := range employees {
		if onLeave[e.ID] {
			continue
		}
		cand := models.EmployeeCandidate{
			ID:           e.ID,
			FirstName:    e.FirstName,
			LastName:     e.LastName,
			Email:        e.Email,
			Role:         e.Role,
			IsActive:     e.IsActive,
			HourlyRate:   e.HourlyRate,
			Skills:       skillsByEmployee[e.ID],
			Availability: availByEmployee[e.ID],
		}
		if e.SeniorityLevel != "" || e.SeniorityRank > 0 {
			cand.Seniority = &models.Seniority{Level: e.SeniorityLevel, Rank: e.SeniorityRank}
		}
		if conflicts := conflictsByEmployee[e.ID]; len(conflicts) > 0 {
			cand.HasConflictingShift = true
			cand.ConflictingShifts = conflicts
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

func (s *Store) locationNames(ctx context.Context, tenantID uint, shifts []database.Shift) (map[uint]string, error) {
	idSet := make(map[uint]bool)
	for _, sh := range shifts {
		if sh.LocationID != 0 {
			idSet[sh.LocationID] = true
		}
	}
	names := make(map[uint]string, len(idSet))
	if len(idSet) == 0 {
		return names, nil
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	var locations []database.Location
	if err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&locations).Error; err != nil {
		return nil, err
	}
	for _, l := range locations {
		names[l.ID] = l.Name
	}
	return names, nil
}

// AssignEmployee binds an employee to a shift with an optimistic-concurrency
// check: the update only applies while the shift's current binding still
// equals expectedCurrent. A concurrent change surfaces as ErrShiftTaken.
func (s *Store) AssignEmployee(ctx context.Context, tenantID, shiftID, employeeID uint, expectedCurrent *uint) error {
	q := s.DB.WithContext(ctx).Model(&database.Shift{}).
		Where("id = ? AND tenant_id = ?", shiftID, tenantID)
	if expectedCurrent == nil {
		q = q.Where("employee_id IS NULL")
	} else {
		q = q.Where("employee_id = ?", *expectedCurrent)
	}

	res := q.Update("employee_id", employeeID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		s.DB.WithContext(ctx).Model(&database.Shift{}).
			Where("id = ? AND tenant_id = ?", shiftID, tenantID).
			Count(&count)
		if count == 0 {
			return apperrors.NotFound("shift", shiftID)
		}
		return apperrors.ErrShiftTaken
	}
	return nil
}

// RecordDecision appends an assignment-decision audit row.
func (s *Store) RecordDecision(ctx context.Context, d assignment.Decision) error {
	return s.DB.WithContext(ctx).Create(&database.AssignmentDecision{
		TenantID:   d.TenantID,
		ShiftID:    d.ShiftID,
		EmployeeID: d.EmployeeID,
		Score:      d.Score,
		Confidence: string(d.Confidence),
		Forced:     d.Forced,
	}).Error
}

func toRequirement(shift database.Shift) models.ShiftRequirement {
	req := models.ShiftRequirement{
		ShiftID:         shift.ID,
		ScheduleID:      shift.ScheduleID,
		LocationID:      shift.LocationID,
		ShiftStart:      shift.Start,
		ShiftEnd:        shift.End,
		RoleDuringShift: shift.RoleDuringShift,
		Notes:           shift.Notes,
	}
	for _, sk := range shift.RequiredSkills {
		req.RequiredSkills = append(req.RequiredSkills, sk.ID)
	}
	return req
}
