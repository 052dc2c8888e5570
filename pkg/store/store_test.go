package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tablecraft/staffing-api-go/pkg/apperrors"
	"github.com/tablecraft/staffing-api-go/pkg/assignment"
	"github.com/tablecraft/staffing-api-go/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

const testTenant = uint(1)

var day = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // a Monday

func at(hour int) time.Time { return day.Add(time.Duration(hour) * time.Hour) }

func seedEmployee(t *testing.T, db *gorm.DB, tenantID uint, first, last, role string) database.Employee {
	t.Helper()
	emp := database.Employee{
		TenantID:  tenantID,
		FirstName: first,
		LastName:  last,
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&emp).Error)
	return emp
}

func seedShift(t *testing.T, db *gorm.DB, tenantID uint, start, end time.Time, employeeID *uint) database.Shift {
	t.Helper()
	shift := database.Shift{
		TenantID:   tenantID,
		Start:      start,
		End:        end,
		EmployeeID: employeeID,
	}
	require.NoError(t, db.Create(&shift).Error)
	return shift
}

func TestLoadCandidates_ConflictAnnotation(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	alice := seedEmployee(t, db, testTenant, "Alice", "Arno", "server")
	bob := seedEmployee(t, db, testTenant, "Bob", "Birch", "server")

	loc := database.Location{TenantID: testTenant, Name: "Main Hall"}
	require.NoError(t, db.Create(&loc).Error)

	// Alice works 10:00-12:00, inside the 09:00-17:00 window.
	overlapping := database.Shift{
		TenantID: testTenant, LocationID: loc.ID,
		Start: at(10), End: at(12), EmployeeID: &alice.ID,
	}
	require.NoError(t, db.Create(&overlapping).Error)
	// Bob works 07:00-09:00, touching the window start: no conflict.
	seedShift(t, db, testTenant, at(7), at(9), &bob.ID)

	q := assignment.CandidateQuery{}
	q.Shift.ShiftStart = at(9)
	q.Shift.ShiftEnd = at(17)

	candidates, err := s.LoadCandidates(context.Background(), testTenant, q)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// Ordered by first name.
	assert.Equal(t, "Alice", candidates[0].FirstName)
	assert.True(t, candidates[0].HasConflictingShift)
	require.Len(t, candidates[0].ConflictingShifts, 1)
	assert.Equal(t, overlapping.ID, candidates[0].ConflictingShifts[0].ShiftID)
	assert.Equal(t, "Main Hall", candidates[0].ConflictingShifts[0].LocationName)

	assert.Equal(t, "Bob", candidates[1].FirstName)
	assert.False(t, candidates[1].HasConflictingShift)
	assert.Empty(t, candidates[1].ConflictingShifts)
}

func TestLoadCandidates_ExcludeShiftID(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	alice := seedEmployee(t, db, testTenant, "Alice", "Arno", "server")
	// Alice already holds the shift being edited.
	own := seedShift(t, db, testTenant, at(9), at(17), &alice.ID)

	q := assignment.CandidateQuery{ExcludeShiftID: own.ID}
	q.Shift.ShiftID = own.ID
	q.Shift.ShiftStart = at(9)
	q.Shift.ShiftEnd = at(17)

	candidates, err := s.LoadCandidates(context.Background(), testTenant, q)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.False(t, candidates[0].HasConflictingShift)
}

func TestLoadCandidates_RoleAndActivityFilters(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	seedEmployee(t, db, testTenant, "Alice", "Arno", "server")
	seedEmployee(t, db, testTenant, "Bob", "Birch", "chef")
	inactive := database.Employee{
		TenantID: testTenant, FirstName: "Iggy", Role: "server", IsActive: false,
	}
	require.NoError(t, db.Create(&inactive).Error)

	q := assignment.CandidateQuery{Role: "server"}
	q.Shift.ShiftStart = at(9)
	q.Shift.ShiftEnd = at(17)

	candidates, err := s.LoadCandidates(context.Background(), testTenant, q)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Alice", candidates[0].FirstName)
}

func TestLoadCandidates_LocationScoping(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	hall := database.Location{TenantID: testTenant, Name: "Main Hall"}
	annex := database.Location{TenantID: testTenant, Name: "Annex"}
	require.NoError(t, db.Create(&hall).Error)
	require.NoError(t, db.Create(&annex).Error)

	homed := seedEmployee(t, db, testTenant, "Alice", "Arno", "server")
	require.NoError(t, db.Model(&homed).Update("location_id", hall.ID).Error)
	elsewhere := seedEmployee(t, db, testTenant, "Bob", "Birch", "server")
	require.NoError(t, db.Model(&elsewhere).Update("location_id", annex.ID).Error)
	seedEmployee(t, db, testTenant, "Cara", "Cole", "server")

	q := assignment.CandidateQuery{}
	q.Shift.LocationID = hall.ID
	q.Shift.ShiftStart = at(9)
	q.Shift.ShiftEnd = at(17)

	// Employees homed at the shift's venue plus roaming ones qualify.
	candidates, err := s.LoadCandidates(context.Background(), testTenant, q)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Alice", candidates[0].FirstName)
	assert.Equal(t, "Cara", candidates[1].FirstName)

	// Without a location the whole roster is in.
	q.Shift.LocationID = 0
	candidates, err = s.LoadCandidates(context.Background(), testTenant, q)
	require.NoError(t, err)
	assert.Len(t, candidates, 3)
}

func TestLoadCandidates_ApprovedTimeOffExcludes(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	alice := seedEmployee(t, db, testTenant, "Alice", "Arno", "server")
	bob := seedEmployee(t, db, testTenant, "Bob", "Birch", "server")

	require.NoError(t, db.Create(&database.TimeOff{
		TenantID: testTenant, EmployeeID: alice.ID,
		Start: at(0), End: at(24), Status: "approved",
	}).Error)
	// Pending requests do not exclude.
	require.NoError(t, db.Create(&database.TimeOff{
		TenantID: testTenant, EmployeeID: bob.ID,
		Start: at(0), End: at(24), Status: "pending",
	}).Error)

	q := assignment.CandidateQuery{}
	q.Shift.ShiftStart = at(9)
	q.Shift.ShiftEnd = at(17)

	candidates, err := s.LoadCandidates(context.Background(), testTenant, q)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Bob", candidates[0].FirstName)
}

func TestLoadCandidates_SkillsAndAvailability(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	alice := seedEmployee(t, db, testTenant, "Alice", "Arno", "server")
	skill := database.Skill{TenantID: testTenant, Name: "barista"}
	require.NoError(t, db.Create(&skill).Error)
	require.NoError(t, db.Create(&database.EmployeeSkill{
		TenantID: testTenant, EmployeeID: alice.ID, SkillID: skill.ID, ProficiencyLevel: 3,
	}).Error)
	require.NoError(t, db.Create(&database.Availability{
		TenantID: testTenant, EmployeeID: alice.ID,
		DayOfWeek: 1, StartTime: "08:00", EndTime: "18:00", IsAvailable: true,
	}).Error)

	q := assignment.CandidateQuery{}
	q.Shift.ShiftStart = at(9)
	q.Shift.ShiftEnd = at(17)

	candidates, err := s.LoadCandidates(context.Background(), testTenant, q)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	require.Len(t, candidates[0].Skills, 1)
	assert.Equal(t, skill.ID, candidates[0].Skills[0].SkillID)
	assert.Equal(t, "barista", candidates[0].Skills[0].SkillName)
	assert.Equal(t, 3, candidates[0].Skills[0].ProficiencyLevel)

	require.Len(t, candidates[0].Availability, 1)
	assert.Equal(t, 1, candidates[0].Availability[0].DayOfWeek)
}

func TestLoadCandidates_TenantIsolation(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	seedEmployee(t, db, testTenant, "Alice", "Arno", "server")
	seedEmployee(t, db, 2, "Zara", "Zorn", "server")

	q := assignment.CandidateQuery{}
	q.Shift.ShiftStart = at(9)
	q.Shift.ShiftEnd = at(17)

	candidates, err := s.LoadCandidates(context.Background(), testTenant, q)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Alice", candidates[0].FirstName)
}

func TestLoadCandidates_NoMatchesIsEmptyNotError(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	q := assignment.CandidateQuery{}
	q.Shift.ShiftStart = at(9)
	q.Shift.ShiftEnd = at(17)

	candidates, err := s.LoadCandidates(context.Background(), testTenant, q)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestGetShift_MapsRequirement(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	skill := database.Skill{TenantID: testTenant, Name: "barista"}
	require.NoError(t, db.Create(&skill).Error)

	shift := database.Shift{
		TenantID:        testTenant,
		ScheduleID:      7,
		LocationID:      3,
		Start:           at(9),
		End:             at(17),
		RoleDuringShift: "server",
		Notes:           "VIP event",
		RequiredSkills:  []database.Skill{skill},
	}
	require.NoError(t, db.Create(&shift).Error)

	record, err := s.GetShift(context.Background(), testTenant, shift.ID)
	require.NoError(t, err)

	assert.Equal(t, shift.ID, record.ShiftID)
	assert.Equal(t, uint(7), record.ScheduleID)
	assert.Equal(t, uint(3), record.LocationID)
	assert.Equal(t, "server", record.RoleDuringShift)
	assert.Equal(t, "VIP event", record.Notes)
	assert.Equal(t, []uint{skill.ID}, record.RequiredSkills)
	assert.Nil(t, record.AssignedEmployeeID)
}

func TestGetShift_CrossTenantIsNotFound(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	shift := seedShift(t, db, 2, at(9), at(17), nil)

	_, err := s.GetShift(context.Background(), testTenant, shift.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestOpenShifts_Filters(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	emp := seedEmployee(t, db, testTenant, "Alice", "Arno", "server")

	openA := database.Shift{TenantID: testTenant, ScheduleID: 1, Start: at(9), End: at(17)}
	openB := database.Shift{TenantID: testTenant, ScheduleID: 2, Start: at(33), End: at(41)}
	taken := database.Shift{TenantID: testTenant, ScheduleID: 1, Start: at(9), End: at(17), EmployeeID: &emp.ID}
	require.NoError(t, db.Create(&openA).Error)
	require.NoError(t, db.Create(&openB).Error)
	require.NoError(t, db.Create(&taken).Error)

	all, err := s.OpenShifts(context.Background(), testTenant, assignment.OpenShiftFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by start time.
	assert.Equal(t, openA.ID, all[0].ShiftID)
	assert.Equal(t, openB.ID, all[1].ShiftID)

	sched := uint(2)
	bySchedule, err := s.OpenShifts(context.Background(), testTenant, assignment.OpenShiftFilter{ScheduleID: &sched})
	require.NoError(t, err)
	require.Len(t, bySchedule, 1)
	assert.Equal(t, openB.ID, bySchedule[0].ShiftID)

	cutoff := day.AddDate(0, 0, 1)
	byDate, err := s.OpenShifts(context.Background(), testTenant, assignment.OpenShiftFilter{EndDate: &cutoff})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, openA.ID, byDate[0].ShiftID)
}

func TestAssignEmployee_OptimisticConcurrency(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	alice := seedEmployee(t, db, testTenant, "Alice", "Arno", "server")
	bob := seedEmployee(t, db, testTenant, "Bob", "Birch", "server")
	shift := seedShift(t, db, testTenant, at(9), at(17), nil)

	ctx := context.Background()

	// First writer wins.
	require.NoError(t, s.AssignEmployee(ctx, testTenant, shift.ID, alice.ID, nil))

	// A second writer that read the shift as open loses.
	err := s.AssignEmployee(ctx, testTenant, shift.ID, bob.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrShiftTaken)

	// Reassignment with the correct expected value succeeds.
	require.NoError(t, s.AssignEmployee(ctx, testTenant, shift.ID, bob.ID, &alice.ID))

	var reloaded database.Shift
	require.NoError(t, db.First(&reloaded, shift.ID).Error)
	require.NotNil(t, reloaded.EmployeeID)
	assert.Equal(t, bob.ID, *reloaded.EmployeeID)
}

func TestAssignEmployee_UnknownShift(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	err := s.AssignEmployee(context.Background(), testTenant, 404, 1, nil)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRecordDecision_AppendsAuditRow(t *testing.T) {
	db := newTestDB(t)
	s := New(db)

	require.NoError(t, s.RecordDecision(context.Background(), assignment.Decision{
		TenantID:   testTenant,
		ShiftID:    1,
		EmployeeID: 2,
		Score:      84,
		Confidence: "high",
		Forced:     true,
	}))

	var rows []database.AssignmentDecision
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(2), rows[0].EmployeeID)
	assert.Equal(t, "high", rows[0].Confidence)
	assert.True(t, rows[0].Forced)
}
