package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellsForGeneric(t *testing.T) {
	cells := CellsFor(BranchTypeGeneric)

	// 1 manager + 6 waiters + 4 cooks + 3 apprentices
	require.Len(t, cells, 14)
	assert.Equal(t, Cell{Role: RoleManager, Position: 1}, cells[0])
	assert.Equal(t, Cell{Role: RoleWaiters, Position: 1}, cells[1])
	assert.Equal(t, Cell{Role: RoleApprentices, Position: 3}, cells[len(cells)-1])
}

func TestCellsForMoked(t *testing.T) {
	cells := CellsFor(BranchTypeMoked)

	require.Len(t, cells, 8)
	assert.Equal(t, Cell{Role: RoleMorning, Position: 1}, cells[0])
	assert.Equal(t, Cell{Role: RoleEvening, Position: 3}, cells[len(cells)-1])
}

func TestCapacityOf(t *testing.T) {
	assert.Equal(t, int32(1), CapacityOf(BranchTypeGeneric, RoleManager))
	assert.Equal(t, int32(6), CapacityOf(BranchTypeGeneric, RoleWaiters))
	assert.Equal(t, int32(2), CapacityOf(BranchTypeMoked, RoleNoon))
}

func TestCapacityOfUnknownRolePanics(t *testing.T) {
	assert.Panics(t, func() {
		CapacityOf(BranchTypeGeneric, RoleMorning)
	})
	assert.Panics(t, func() {
		CapacityOf(BranchTypeMoked, RoleWaiters)
	})
}

func TestCellsForUnknownBranchTypePanics(t *testing.T) {
	assert.Panics(t, func() {
		CellsFor(BranchType("warehouse"))
	})
}

func TestRolesForOrder(t *testing.T) {
	assert.Equal(t, []Role{RoleManager, RoleWaiters, RoleCooks, RoleApprentices}, RolesFor(BranchTypeGeneric))
	assert.Equal(t, []Role{RoleMorning, RoleNoon, RoleEvening}, RolesFor(BranchTypeMoked))
}

func TestIsEligible(t *testing.T) {
	waiter := &Employee{Departments: []Department{DepartmentWaiters}}
	cook := &Employee{Departments: []Department{DepartmentCooks}}
	mokedEmployee := &Employee{Departments: []Department{}}

	assert.True(t, IsEligible(waiter, RoleWaiters))
	assert.False(t, IsEligible(waiter, RoleManager))
	assert.False(t, IsEligible(waiter, RoleCooks))

	// apprentices are staffed from the cooks department
	assert.True(t, IsEligible(cook, RoleApprentices))

	// moked time slots have no department mapping, everyone is eligible
	assert.True(t, IsEligible(mokedEmployee, RoleMorning))
	assert.True(t, IsEligible(waiter, RoleEvening))
}
