package domain

import (
	"fmt"
	"slices"
)

type Role string

const (
	RoleManager     Role = "manager"
	RoleWaiters     Role = "waiters"
	RoleCooks       Role = "cooks"
	RoleApprentices Role = "apprentices"

	RoleMorning Role = "morning"
	RoleNoon    Role = "noon"
	RoleEvening Role = "evening"
)

// Cell is one addressable slot of the weekly grid within a day.
type Cell struct {
	Role     Role  `json:"role"`
	Position int32 `json:"position"`
}

type roleSpec struct {
	role     Role
	capacity int32
}

// The capacity table is the single authoritative copy: grid, validation,
// seeding and the UI all have to agree on it.
var gridSpecs = map[BranchType][]roleSpec{
	BranchTypeGeneric: {
		{role: RoleManager, capacity: 1},
		{role: RoleWaiters, capacity: 6},
		{role: RoleCooks, capacity: 4},
		{role: RoleApprentices, capacity: 3},
	},
	BranchTypeMoked: {
		{role: RoleMorning, capacity: 3},
		{role: RoleNoon, capacity: 2},
		{role: RoleEvening, capacity: 3},
	},
}

func specsFor(bt BranchType) []roleSpec {
	specs, ok := gridSpecs[bt]
	if !ok {
		panic(fmt.Sprintf("unknown branch type %q", bt))
	}
	return specs
}

// RolesFor returns the ordered role set of a branch type.
func RolesFor(bt BranchType) []Role {
	specs := specsFor(bt)
	roles := make([]Role, 0, len(specs))
	for _, spec := range specs {
		roles = append(roles, spec.role)
	}
	return roles
}

// CapacityOf returns the number of positions a role has. Asking for a role
// outside the branch type's role set is a programming error.
func CapacityOf(bt BranchType, role Role) int32 {
	for _, spec := range specsFor(bt) {
		if spec.role == role {
			return spec.capacity
		}
	}
	panic(fmt.Sprintf("role %q is not part of the %q grid", role, bt))
}

// CellsFor enumerates every valid (role, position) cell of a branch type, in
// grid order. Positions are 1-based.
func CellsFor(bt BranchType) []Cell {
	cells := make([]Cell, 0)
	for _, spec := range specsFor(bt) {
		for pos := int32(1); pos <= spec.capacity; pos++ {
			cells = append(cells, Cell{Role: spec.role, Position: pos})
		}
	}
	return cells
}

// HasRole reports whether role belongs to the branch type's grid.
func HasRole(bt BranchType, role Role) bool {
	for _, spec := range specsFor(bt) {
		if spec.role == role {
			return true
		}
	}
	return false
}

// roleDepartments maps a role to the department expected to staff it. Roles
// without a mapping (the moked time slots) are open to everyone.
var roleDepartments = map[Role]Department{
	RoleManager:     DepartmentManager,
	RoleWaiters:     DepartmentWaiters,
	RoleCooks:       DepartmentCooks,
	RoleApprentices: DepartmentCooks,
}

// IsEligible reports whether the employee's departments match the role. This
// is a soft, UI-level check: an ineligible placement is allowed after an
// explicit confirmation, it is never rejected by the server.
func IsEligible(e *Employee, role Role) bool {
	dept, mapped := roleDepartments[role]
	if !mapped {
		return true
	}
	return slices.Contains(e.Departments, dept)
}
