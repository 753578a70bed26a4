package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countShiftsAt counts the shifts occupying one cell of one day; the grid
// invariant says this is never more than 1.
func countShiftsAt(s *Schedule, dayName string, role Role, position int32) int {
	count := 0
	for _, day := range s.Days {
		if day.Name != dayName {
			continue
		}
		for _, shift := range day.Shifts {
			if shift.Role == role && shift.Position == position {
				count++
			}
		}
	}
	return count
}

func TestNewEmptyDaysTemplate(t *testing.T) {
	days := NewEmptyDays()

	require.Len(t, days, 7)
	for i, day := range days {
		assert.Equal(t, int32(i+1), day.DayID)
		assert.Equal(t, DayNames[i], day.Name)
		assert.Empty(t, day.Shifts)
		assert.NotNil(t, day.Shifts)
	}
	assert.Equal(t, "ראשון", days[0].Name)
	assert.Equal(t, "שבת", days[6].Name)
}

func TestAssignFirstPlacement(t *testing.T) {
	s := NewEmptySchedule(1, WeekCurrent)

	s.Assign("ראשון", RoleWaiters, 1, "emp1")

	assert.Equal(t, "emp1", s.AssignedEmployee("ראשון", RoleWaiters, 1))

	// every other cell stays empty
	for _, dayName := range DayNames {
		for _, cell := range CellsFor(BranchTypeGeneric) {
			if dayName == "ראשון" && cell.Role == RoleWaiters && cell.Position == 1 {
				continue
			}
			assert.Empty(t, s.AssignedEmployee(dayName, cell.Role, cell.Position))
		}
	}
}

func TestAssignOverwritesOccupiedCell(t *testing.T) {
	s := NewEmptySchedule(1, WeekCurrent)

	s.Assign("שני", RoleCooks, 2, "emp1")
	s.Assign("שני", RoleCooks, 2, "emp2")

	assert.Equal(t, "emp2", s.AssignedEmployee("שני", RoleCooks, 2))
	assert.Equal(t, 1, countShiftsAt(s, "שני", RoleCooks, 2))

	// emp1 left no residual shift anywhere
	for _, day := range s.Days {
		for _, shift := range day.Shifts {
			assert.NotEqual(t, "emp1", shift.EmployeeID)
		}
	}
}

func TestAssignClearIsIdempotent(t *testing.T) {
	s := NewEmptySchedule(1, WeekCurrent)
	s.Assign("שלישי", RoleManager, 1, "emp1")

	s.Assign("שלישי", RoleManager, 1, "")
	once := s.Clone()

	s.Assign("שלישי", RoleManager, 1, "")

	assert.Equal(t, once.Days, s.Days)
	assert.Empty(t, s.AssignedEmployee("שלישי", RoleManager, 1))
}

func TestAssignSequenceKeepsCellsUnique(t *testing.T) {
	s := NewEmptySchedule(1, WeekCurrent)

	ops := []struct {
		day        string
		role       Role
		position   int32
		employeeID string
	}{
		{"ראשון", RoleWaiters, 1, "a"},
		{"ראשון", RoleWaiters, 1, "b"},
		{"ראשון", RoleWaiters, 2, "a"},
		{"ראשון", RoleWaiters, 1, ""},
		{"ראשון", RoleWaiters, 1, "c"},
		{"שבת", RoleWaiters, 1, "c"},
		{"ראשון", RoleCooks, 1, "c"},
		{"ראשון", RoleWaiters, 1, "d"},
	}
	for _, op := range ops {
		s.Assign(op.day, op.role, op.position, op.employeeID)
	}

	for _, dayName := range DayNames {
		for _, cell := range CellsFor(BranchTypeGeneric) {
			assert.LessOrEqual(t, countShiftsAt(s, dayName, cell.Role, cell.Position), 1)
		}
	}
	assert.Equal(t, "d", s.AssignedEmployee("ראשון", RoleWaiters, 1))
	assert.Equal(t, "a", s.AssignedEmployee("ראשון", RoleWaiters, 2))
}

func TestAssignAppendsMissingDay(t *testing.T) {
	s := &Schedule{BranchID: 1, Week: WeekCurrent, Days: []Day{}}

	s.Assign("ראשון", RoleManager, 1, "emp1")

	require.Len(t, s.Days, 1)
	assert.Equal(t, "emp1", s.AssignedEmployee("ראשון", RoleManager, 1))
}

func TestCloneDoesNotAlias(t *testing.T) {
	s := NewEmptySchedule(1, WeekCurrent)
	s.Assign("ראשון", RoleWaiters, 1, "emp1")

	clone := s.Clone()
	clone.Assign("ראשון", RoleWaiters, 1, "emp2")
	clone.Assign("שבת", RoleCooks, 1, "emp3")

	assert.Equal(t, "emp1", s.AssignedEmployee("ראשון", RoleWaiters, 1))
	assert.Empty(t, s.AssignedEmployee("שבת", RoleCooks, 1))
}

func TestNormalizeBackfillsMissingDays(t *testing.T) {
	s := &Schedule{BranchID: 1, Week: WeekNext}

	s.Normalize()

	require.Len(t, s.Days, 7)
	assert.Equal(t, NewEmptyDays(), s.Days)
}

func TestParseWeekSelector(t *testing.T) {
	week, err := ParseWeekSelector("current")
	require.NoError(t, err)
	assert.Equal(t, WeekCurrent, week)

	week, err = ParseWeekSelector("next")
	require.NoError(t, err)
	assert.Equal(t, WeekNext, week)

	_, err = ParseWeekSelector("previous")
	assert.Error(t, err)
}

func TestShiftUnmarshalAcceptsLegacyWorkerID(t *testing.T) {
	var shift Shift
	require.NoError(t, json.Unmarshal([]byte(`{"role":"waiters","position":3,"workerId":"emp9"}`), &shift))
	assert.Equal(t, "emp9", shift.EmployeeID)

	// the current key wins when both are present
	require.NoError(t, json.Unmarshal([]byte(`{"role":"waiters","position":3,"employeeId":"new","workerId":"old"}`), &shift))
	assert.Equal(t, "new", shift.EmployeeID)
}

func TestDaysJSONRoundTrip(t *testing.T) {
	s := NewEmptySchedule(1, WeekCurrent)
	s.Assign("רביעי", RoleApprentices, 2, "emp1")
	s.Assign("שישי", RoleWaiters, 5, "emp2")

	data, err := json.Marshal(s.Days)
	require.NoError(t, err)

	var decoded []Day
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, s.Days, decoded)
}
