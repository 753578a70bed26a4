package domain

import (
	"slices"
	"time"
)

type Department string

const (
	DepartmentManager     Department = "manager"
	DepartmentWaiters     Department = "waiters"
	DepartmentCooks       Department = "cooks"
	DepartmentApprentices Department = "apprentices"
)

var knownDepartments = []Department{
	DepartmentManager,
	DepartmentWaiters,
	DepartmentCooks,
	DepartmentApprentices,
}

func IsKnownDepartment(d Department) bool {
	return slices.Contains(knownDepartments, d)
}

type Employee struct {
	ID          string       `json:"id"`
	BranchID    int64        `json:"branch"`
	Name        string       `json:"name"`
	Color       string       `json:"color"`
	Departments []Department `json:"departments"`
	CreatedAt   time.Time    `json:"createdAt"`
	Version     int32        `json:"-"`
}
