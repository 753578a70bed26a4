package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/shibutz-dev/shibutz/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saveCall struct {
	branchID int64
	week     domain.WeekSelector
	days     []domain.Day
}

// echoSaver records every call and echoes back exactly what was saved.
type echoSaver struct {
	mu    sync.Mutex
	calls []saveCall
}

func (f *echoSaver) SaveSchedule(branchID int64, week domain.WeekSelector, days []domain.Day) (*domain.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, saveCall{branchID: branchID, week: week, days: domain.CloneDays(days)})
	return &domain.Schedule{BranchID: branchID, Week: week, Days: domain.CloneDays(days)}, nil
}

func (f *echoSaver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type failingSaver struct {
	err error
}

func (f *failingSaver) SaveSchedule(int64, domain.WeekSelector, []domain.Day) (*domain.Schedule, error) {
	return nil, f.err
}

// gatedSaver blocks every save until the test releases it, so tests can
// decide completion order.
type gatedSaver struct {
	started chan *gatedCall
}

type gatedCall struct {
	branchID int64
	week     domain.WeekSelector
	days     []domain.Day
	release  chan error
}

func (g *gatedSaver) SaveSchedule(branchID int64, week domain.WeekSelector, days []domain.Day) (*domain.Schedule, error) {
	call := &gatedCall{
		branchID: branchID,
		week:     week,
		days:     domain.CloneDays(days),
		release:  make(chan error),
	}
	g.started <- call
	if err := <-call.release; err != nil {
		return nil, err
	}
	return &domain.Schedule{BranchID: branchID, Week: week, Days: call.days}, nil
}

func TestAssignPersistsAndAdoptsEcho(t *testing.T) {
	saver := &echoSaver{}
	s := New(saver, domain.NewEmptySchedule(1, domain.WeekCurrent))

	saved, err := s.Assign(CellRef{Day: "ראשון", Role: domain.RoleWaiters, Position: 1}, "emp1")
	require.NoError(t, err)

	assert.Equal(t, "emp1", saved.AssignedEmployee("ראשון", domain.RoleWaiters, 1))
	assert.Equal(t, "emp1", s.Snapshot().AssignedEmployee("ראשון", domain.RoleWaiters, 1))

	require.Len(t, saver.calls, 1)
	assert.Equal(t, int64(1), saver.calls[0].branchID)
	assert.Equal(t, domain.WeekCurrent, saver.calls[0].week)
	assert.Len(t, saver.calls[0].days, 7)
}

func TestFailedSaveRollsBackToPreCallState(t *testing.T) {
	saver := &echoSaver{}
	s := New(saver, domain.NewEmptySchedule(1, domain.WeekCurrent))

	_, err := s.Assign(CellRef{Day: "שני", Role: domain.RoleCooks, Position: 1}, "emp1")
	require.NoError(t, err)
	before := s.Snapshot()

	s.saver = &failingSaver{err: errors.New("save rejected")}

	_, err = s.Assign(CellRef{Day: "שני", Role: domain.RoleCooks, Position: 2}, "emp2")
	require.Error(t, err)

	// full restore of the pre-call snapshot, not a partial merge
	assert.Equal(t, before.Days, s.Snapshot().Days)
	assert.Empty(t, s.Snapshot().AssignedEmployee("שני", domain.RoleCooks, 2))
}

func TestFailedMoveRestoresSourceCell(t *testing.T) {
	saver := &echoSaver{}
	s := New(saver, domain.NewEmptySchedule(1, domain.WeekCurrent))

	from := CellRef{Day: "שלישי", Role: domain.RoleWaiters, Position: 2}
	to := CellRef{Day: "חמישי", Role: domain.RoleWaiters, Position: 1}

	_, err := s.Assign(from, "emp1")
	require.NoError(t, err)

	s.saver = &failingSaver{err: errors.New("save rejected")}

	_, err = s.Move(from, to)
	require.Error(t, err)

	// the clear and the placement roll back together
	snap := s.Snapshot()
	assert.Equal(t, "emp1", snap.AssignedEmployee(from.Day, from.Role, from.Position))
	assert.Empty(t, snap.AssignedEmployee(to.Day, to.Role, to.Position))
}

func TestMoveEmptySourceDoesNotSave(t *testing.T) {
	saver := &echoSaver{}
	s := New(saver, domain.NewEmptySchedule(1, domain.WeekCurrent))

	_, err := s.Move(
		CellRef{Day: "ראשון", Role: domain.RoleManager, Position: 1},
		CellRef{Day: "שני", Role: domain.RoleManager, Position: 1},
	)

	assert.ErrorIs(t, err, ErrEmptyCell)
	assert.Equal(t, 0, saver.callCount())
}

func TestMoveIsASingleSave(t *testing.T) {
	saver := &echoSaver{}
	s := New(saver, domain.NewEmptySchedule(1, domain.WeekCurrent))

	from := CellRef{Day: "רביעי", Role: domain.RoleApprentices, Position: 1}
	to := CellRef{Day: "רביעי", Role: domain.RoleApprentices, Position: 2}

	_, err := s.Assign(from, "emp1")
	require.NoError(t, err)

	_, err = s.Move(from, to)
	require.NoError(t, err)

	// one save for the assign, one for the whole move
	assert.Equal(t, 2, saver.callCount())
	snap := s.Snapshot()
	assert.Empty(t, snap.AssignedEmployee(from.Day, from.Role, from.Position))
	assert.Equal(t, "emp1", snap.AssignedEmployee(to.Day, to.Role, to.Position))
}

func TestClearNeverPlacesAnywhere(t *testing.T) {
	saver := &echoSaver{}
	s := New(saver, domain.NewEmptySchedule(1, domain.WeekCurrent))

	cell := CellRef{Day: "שישי", Role: domain.RoleWaiters, Position: 3}
	_, err := s.Assign(cell, "emp1")
	require.NoError(t, err)

	_, err = s.Clear(cell)
	require.NoError(t, err)

	for _, day := range s.Snapshot().Days {
		assert.Empty(t, day.Shifts)
	}
}

func TestResetReplacesLocalState(t *testing.T) {
	saver := &echoSaver{}
	s := New(saver, domain.NewEmptySchedule(1, domain.WeekCurrent))

	fresh := domain.NewEmptySchedule(1, domain.WeekCurrent)
	fresh.Assign("שבת", domain.RoleManager, 1, "emp9")

	s.Reset(fresh)

	assert.Equal(t, "emp9", s.Snapshot().AssignedEmployee("שבת", domain.RoleManager, 1))
	assert.Equal(t, 0, saver.callCount())
}

func TestStaleCompletionDoesNotClobberNewerState(t *testing.T) {
	saver := &gatedSaver{started: make(chan *gatedCall, 2)}
	s := New(saver, domain.NewEmptySchedule(1, domain.WeekCurrent))

	cell := CellRef{Day: "ראשון", Role: domain.RoleWaiters, Position: 1}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Assign(cell, "emp1")
	}()
	first := <-saver.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Assign(cell, "emp2")
	}()
	second := <-saver.started

	// the newer save completes first, then the older one lands late
	second.release <- nil
	first.release <- nil
	wg.Wait()

	assert.Equal(t, "emp2", s.Snapshot().AssignedEmployee(cell.Day, cell.Role, cell.Position))
}

func TestStaleFailureDoesNotRollBackNewerState(t *testing.T) {
	saver := &gatedSaver{started: make(chan *gatedCall, 2)}
	s := New(saver, domain.NewEmptySchedule(1, domain.WeekCurrent))

	cell := CellRef{Day: "שני", Role: domain.RoleCooks, Position: 3}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Assign(cell, "emp1")
	}()
	first := <-saver.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Assign(cell, "emp2")
	}()
	second := <-saver.started

	second.release <- nil
	first.release <- errors.New("timed out")
	wg.Wait()

	// the failure belongs to the older edit, the newer one stays adopted
	assert.Equal(t, "emp2", s.Snapshot().AssignedEmployee(cell.Day, cell.Role, cell.Position))
}
