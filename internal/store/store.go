// Package store holds the client-facing schedule state container. Edits are
// applied to local state immediately, persisted through a Saver, and rolled
// back in full when the save fails, so callers always observe a consistent
// grid.
package store

import (
	"errors"
	"sync"

	"github.com/shibutz-dev/shibutz/backend/internal/domain"
)

var ErrEmptyCell = errors.New("no employee assigned at the source cell")

// Saver persists a full days array for one week variant and returns the
// authoritative echo of what was stored. *repository.Repository satisfies
// it.
type Saver interface {
	SaveSchedule(branchID int64, week domain.WeekSelector, days []domain.Day) (*domain.Schedule, error)
}

// CellRef addresses one grid cell of one day.
type CellRef struct {
	Day      string
	Role     domain.Role
	Position int32
}

// ScheduleStore is an explicit, injected state container, not a
// process-wide singleton. All mutations go through UpdateOptimistic.
type ScheduleStore struct {
	mu       sync.Mutex
	saver    Saver
	schedule *domain.Schedule

	// issued identifies the newest local edit; adopted the newest save
	// completion merged back into local state. Completions are keyed off
	// these so a slow early save cannot clobber newer local state.
	issued  uint64
	adopted uint64
}

func New(saver Saver, initial *domain.Schedule) *ScheduleStore {
	return &ScheduleStore{
		saver:    saver,
		schedule: initial.Clone(),
	}
}

// Snapshot returns a deep copy of the current local schedule.
func (s *ScheduleStore) Snapshot() *domain.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule.Clone()
}

// Reset replaces local state wholesale, e.g. after a fresh fetch.
func (s *ScheduleStore) Reset(schedule *domain.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule = schedule.Clone()
	s.issued++
	s.adopted = s.issued
}

// UpdateOptimistic applies next to local state synchronously, then persists
// it. On success the server's echo becomes the local state; on failure local
// state is restored to the pre-call snapshot (full replace, not a merge) and
// the error is returned for the caller to surface.
//
// A completion belonging to an edit older than the newest issued one neither
// rolls back nor overwrites local state: request identity, not arrival
// order, decides.
func (s *ScheduleStore) UpdateOptimistic(next *domain.Schedule) (*domain.Schedule, error) {
	s.mu.Lock()
	original := s.schedule
	s.schedule = next.Clone()
	s.issued++
	id := s.issued
	branchID := s.schedule.BranchID
	week := s.schedule.Week
	days := domain.CloneDays(s.schedule.Days)
	s.mu.Unlock()

	saved, err := s.saver.SaveSchedule(branchID, week, days)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if s.issued == id {
			s.schedule = original
		}
		return nil, err
	}

	if id > s.adopted {
		s.adopted = id
		if s.issued == id {
			s.schedule = saved.Clone()
		}
	}

	return saved.Clone(), nil
}

// Assign places employeeID at a cell (or clears it when employeeID is
// empty) as one optimistic transition.
func (s *ScheduleStore) Assign(cell CellRef, employeeID string) (*domain.Schedule, error) {
	next := s.Snapshot()
	next.Assign(cell.Day, cell.Role, cell.Position, employeeID)
	return s.UpdateOptimistic(next)
}

// Clear empties a cell; dropping on the trash target lands here. It never
// attempts a reciprocal placement.
func (s *ScheduleStore) Clear(cell CellRef) (*domain.Schedule, error) {
	return s.Assign(cell, "")
}

// Move drags the employee at from into to. Both sub-operations form a
// single local transition and a single save, so a failed save rolls the
// clear and the placement back together and the employee reappears at
// from instead of vanishing from both cells.
func (s *ScheduleStore) Move(from CellRef, to CellRef) (*domain.Schedule, error) {
	next := s.Snapshot()

	employeeID := next.AssignedEmployee(from.Day, from.Role, from.Position)
	if employeeID == "" {
		return nil, ErrEmptyCell
	}

	next.Assign(from.Day, from.Role, from.Position, "")
	next.Assign(to.Day, to.Role, to.Position, employeeID)

	return s.UpdateOptimistic(next)
}
