package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/shibutz-dev/shibutz/backend/internal/domain"
)

// MaxColorLightness is the Lab lightness above which an employee color is
// unreadable on the white schedule grid.
const MaxColorLightness = 0.80

// ValidateEmployee checks an employee against its branch siblings before it
// reaches the repository. The rules run in a fixed order and the first
// failure wins. siblings is every other employee of the same branch; when
// updating, the employee itself is excluded by ID.
//
// Moked branches have no departments, so the department list is forced to
// empty there instead of being validated.
func ValidateEmployee(e *domain.Employee, siblings []*domain.Employee, branchType domain.BranchType) error {
	if utf8.RuneCountInString(e.Name) < 2 {
		return domain.NewValidationError("name", "name too short")
	}

	for _, other := range siblings {
		if other.ID == e.ID {
			continue
		}
		if other.Name == e.Name {
			return domain.NewValidationError("name", "duplicate name")
		}
	}

	if e.Color == "" {
		return domain.NewValidationError("color", "color required")
	}

	for _, other := range siblings {
		if other.ID == e.ID {
			continue
		}
		if strings.EqualFold(other.Color, e.Color) {
			return domain.NewValidationError("color", "duplicate color")
		}
	}

	color, err := colorful.Hex(e.Color)
	if err != nil {
		return domain.NewValidationError("color", "invalid color")
	}
	if lightness, _, _ := color.Lab(); lightness > MaxColorLightness {
		return domain.NewValidationError("color", "color too light")
	}

	if branchType == domain.BranchTypeMoked {
		e.Departments = make([]domain.Department, 0)
		return nil
	}

	if len(e.Departments) == 0 {
		return domain.NewValidationError("departments", "at least one department required")
	}
	for _, dept := range e.Departments {
		if !domain.IsKnownDepartment(dept) {
			return domain.NewValidationError("departments", "unknown department")
		}
	}

	return nil
}
