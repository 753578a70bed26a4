package utils

import (
	"errors"
	"testing"

	"github.com/shibutz-dev/shibutz/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEmployee() *domain.Employee {
	return &domain.Employee{
		ID:          "e1",
		BranchID:    1,
		Name:        "יוסי כהן",
		Color:       "#1f6feb",
		Departments: []domain.Department{domain.DepartmentWaiters},
	}
}

func requireValidationError(t *testing.T, err error, field string, message string) {
	t.Helper()
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr), "expected a validation error, got %v", err)
	assert.Equal(t, field, vErr.Field)
	assert.Equal(t, message, vErr.Message)
}

func TestValidateEmployeeAccepts(t *testing.T) {
	err := ValidateEmployee(validEmployee(), nil, domain.BranchTypeGeneric)
	assert.NoError(t, err)
}

func TestValidateEmployeeNameTooShort(t *testing.T) {
	e := validEmployee()
	e.Name = "י"

	err := ValidateEmployee(e, nil, domain.BranchTypeGeneric)
	requireValidationError(t, err, "name", "name too short")
}

func TestValidateEmployeeRuleOrder(t *testing.T) {
	// a 1-char name AND a duplicate color: the name rule runs first
	sibling := validEmployee()
	sibling.ID = "e2"

	e := validEmployee()
	e.Name = "י"

	err := ValidateEmployee(e, []*domain.Employee{sibling}, domain.BranchTypeGeneric)
	requireValidationError(t, err, "name", "name too short")
}

func TestValidateEmployeeDuplicateName(t *testing.T) {
	sibling := validEmployee()
	sibling.ID = "e2"
	sibling.Color = "#333333"

	err := ValidateEmployee(validEmployee(), []*domain.Employee{sibling}, domain.BranchTypeGeneric)
	requireValidationError(t, err, "name", "duplicate name")
}

func TestValidateEmployeeExcludesSelfOnUpdate(t *testing.T) {
	// the stored copy of the same employee must not count as a duplicate
	stored := validEmployee()

	err := ValidateEmployee(validEmployee(), []*domain.Employee{stored}, domain.BranchTypeGeneric)
	assert.NoError(t, err)
}

func TestValidateEmployeeColorRequired(t *testing.T) {
	e := validEmployee()
	e.Color = ""

	err := ValidateEmployee(e, nil, domain.BranchTypeGeneric)
	requireValidationError(t, err, "color", "color required")
}

func TestValidateEmployeeDuplicateColor(t *testing.T) {
	sibling := validEmployee()
	sibling.ID = "e2"
	sibling.Name = "דנה לוי"
	sibling.Color = "#1F6FEB" // same color, different case

	err := ValidateEmployee(validEmployee(), []*domain.Employee{sibling}, domain.BranchTypeGeneric)
	requireValidationError(t, err, "color", "duplicate color")
}

func TestValidateEmployeeColorTooLight(t *testing.T) {
	e := validEmployee()
	e.Color = "#FFFFFF"

	err := ValidateEmployee(e, nil, domain.BranchTypeGeneric)
	requireValidationError(t, err, "color", "color too light")
}

func TestValidateEmployeeInvalidColor(t *testing.T) {
	e := validEmployee()
	e.Color = "blue"

	err := ValidateEmployee(e, nil, domain.BranchTypeGeneric)
	requireValidationError(t, err, "color", "invalid color")
}

func TestValidateEmployeeDepartmentsRequired(t *testing.T) {
	e := validEmployee()
	e.Departments = nil

	err := ValidateEmployee(e, nil, domain.BranchTypeGeneric)
	requireValidationError(t, err, "departments", "at least one department required")
}

func TestValidateEmployeeUnknownDepartment(t *testing.T) {
	e := validEmployee()
	e.Departments = []domain.Department{"security"}

	err := ValidateEmployee(e, nil, domain.BranchTypeGeneric)
	requireValidationError(t, err, "departments", "unknown department")
}

func TestValidateEmployeeMokedForcesEmptyDepartments(t *testing.T) {
	e := validEmployee()
	e.Departments = []domain.Department{domain.DepartmentWaiters, domain.DepartmentCooks}

	err := ValidateEmployee(e, nil, domain.BranchTypeMoked)
	require.NoError(t, err)
	assert.Empty(t, e.Departments)
	assert.NotNil(t, e.Departments)
}

func TestGeneratedColorsPassTheLightnessRule(t *testing.T) {
	for i := 0; i < 100; i++ {
		e := validEmployee()
		e.Color = GenerateRandomEmployeeColor()

		assert.NoError(t, ValidateEmployee(e, nil, domain.BranchTypeGeneric))
	}
}
