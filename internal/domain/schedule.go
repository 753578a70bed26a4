package domain

import (
	"encoding/json"
	"fmt"
)

type WeekSelector string

const (
	WeekCurrent WeekSelector = "current"
	WeekNext    WeekSelector = "next"
)

func ParseWeekSelector(s string) (WeekSelector, error) {
	switch WeekSelector(s) {
	case WeekCurrent, WeekNext:
		return WeekSelector(s), nil
	default:
		return "", fmt.Errorf("invalid week selector %q", s)
	}
}

// DayNames is the fixed Sunday..Saturday template every schedule is built
// from. dayId is the 1-based index into this list.
var DayNames = []string{"ראשון", "שני", "שלישי", "רביעי", "חמישי", "שישי", "שבת"}

// Shift binds one employee to one (role, position) cell of a day. A cell
// with no shift is empty; shifts are removed, not blanked, when cleared.
type Shift struct {
	Role       Role   `json:"role"`
	Position   int32  `json:"position"`
	EmployeeID string `json:"employeeId"`
}

// UnmarshalJSON accepts the legacy "workerId" key as an alias for
// "employeeId"; old persisted documents still carry it.
func (s *Shift) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role       Role   `json:"role"`
		Position   int32  `json:"position"`
		EmployeeID string `json:"employeeId"`
		WorkerID   string `json:"workerId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Role = raw.Role
	s.Position = raw.Position
	s.EmployeeID = raw.EmployeeID
	if s.EmployeeID == "" {
		s.EmployeeID = raw.WorkerID
	}

	return nil
}

type Day struct {
	DayID  int32   `json:"dayId"`
	Name   string  `json:"name"`
	Shifts []Shift `json:"shifts"`
}

type Schedule struct {
	BranchID int64        `json:"branch"`
	Week     WeekSelector `json:"week"`
	Days     []Day        `json:"days"`
}

// NewEmptyDays generates the fixed 7-day template with every cell empty.
func NewEmptyDays() []Day {
	days := make([]Day, 0, len(DayNames))
	for i, name := range DayNames {
		days = append(days, Day{
			DayID:  int32(i + 1),
			Name:   name,
			Shifts: make([]Shift, 0),
		})
	}
	return days
}

func NewEmptySchedule(branchID int64, week WeekSelector) *Schedule {
	return &Schedule{
		BranchID: branchID,
		Week:     week,
		Days:     NewEmptyDays(),
	}
}

// CloneDays deep-copies a days array. The current and next week documents
// must never share shift slices, so every hand-off goes through here.
func CloneDays(days []Day) []Day {
	cloned := make([]Day, 0, len(days))
	for _, day := range days {
		shifts := make([]Shift, len(day.Shifts))
		copy(shifts, day.Shifts)
		cloned = append(cloned, Day{
			DayID:  day.DayID,
			Name:   day.Name,
			Shifts: shifts,
		})
	}
	return cloned
}

func (s *Schedule) Clone() *Schedule {
	if s == nil {
		return nil
	}
	return &Schedule{
		BranchID: s.BranchID,
		Week:     s.Week,
		Days:     CloneDays(s.Days),
	}
}

// Normalize backfills a missing or corrupted days array with the empty
// template. A schedule handed out by the repository always has 7 days.
func (s *Schedule) Normalize() {
	if len(s.Days) == 0 {
		s.Days = NewEmptyDays()
	}
}

// Assign applies one grid operation: clear the (role, position) cell of the
// named day, then place employeeID there if it is non-empty. Deleting first
// makes clearing idempotent and placement last-write-wins, and guarantees a
// day never holds two shifts for the same cell.
func (s *Schedule) Assign(dayName string, role Role, position int32, employeeID string) {
	dayIdx := -1
	for i := range s.Days {
		if s.Days[i].Name == dayName {
			dayIdx = i
			break
		}
	}
	if dayIdx == -1 {
		// should not happen with the fixed template, but a document missing
		// a day must still accept the operation
		s.Days = append(s.Days, Day{
			DayID:  int32(len(s.Days) + 1),
			Name:   dayName,
			Shifts: make([]Shift, 0),
		})
		dayIdx = len(s.Days) - 1
	}

	day := &s.Days[dayIdx]

	kept := day.Shifts[:0]
	for _, shift := range day.Shifts {
		if shift.Role == role && shift.Position == position {
			continue
		}
		kept = append(kept, shift)
	}
	day.Shifts = kept

	if employeeID != "" {
		day.Shifts = append(day.Shifts, Shift{
			Role:       role,
			Position:   position,
			EmployeeID: employeeID,
		})
	}
}

// AssignedEmployee resolves the employee placed at a cell, or "" when the
// cell is empty.
func (s *Schedule) AssignedEmployee(dayName string, role Role, position int32) string {
	for i := range s.Days {
		if s.Days[i].Name != dayName {
			continue
		}
		for _, shift := range s.Days[i].Shifts {
			if shift.Role == role && shift.Position == position {
				return shift.EmployeeID
			}
		}
		return ""
	}
	return ""
}
