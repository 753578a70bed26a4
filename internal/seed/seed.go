package seed

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shibutz-dev/shibutz/backend/internal/domain"
	"github.com/shibutz-dev/shibutz/backend/internal/repository"
	"github.com/shibutz-dev/shibutz/backend/internal/utils"
)

// SeedDemoBranches inserts n random generic branches plus one moked branch,
// each with a small roster and a partially filled current-week grid.
func SeedDemoBranches(repo *repository.Repository, n int, password string) {
	types := make([]domain.BranchType, 0, n+1)
	for i := 0; i < n; i++ {
		types = append(types, domain.BranchTypeGeneric)
	}
	types = append(types, domain.BranchTypeMoked)

	created := 0
	for _, branchType := range types {
		branch, err := utils.GenerateRandomBranch(password, branchType)
		if err != nil {
			slog.Error("failed to generate branch", "error", err)
			continue
		}

		if err := repo.CreateBranch(branch); err != nil {
			slog.Error("failed to insert branch", "name", branch.Name, "error", err)
			continue
		}

		employees := seedEmployees(repo, branch)
		seedAssignments(repo, branch, employees)
		created++
	}

	slog.Info("demo branches seeded", "count", created)
}

func seedEmployees(repo *repository.Repository, branch *domain.Branch) []*domain.Employee {
	employees := make([]*domain.Employee, 0)

	for i := 0; i < 8; i++ {
		employee := utils.GenerateRandomEmployee(branch)
		if err := utils.ValidateEmployee(employee, employees, branch.Type); err != nil {
			// random name/color collision, just draw again
			continue
		}
		if err := repo.CreateEmployee(employee); err != nil {
			slog.Error("failed to insert employee", "name", employee.Name, "error", err)
			continue
		}
		employees = append(employees, employee)
	}

	return employees
}

// seedAssignments drops employees into roughly a third of the grid cells of
// the current week, through the same protocol the API uses.
func seedAssignments(repo *repository.Repository, branch *domain.Branch, employees []*domain.Employee) {
	if len(employees) == 0 {
		return
	}

	schedule := domain.NewEmptySchedule(branch.ID, domain.WeekCurrent)
	cells := domain.CellsFor(branch.Type)

	for _, dayName := range domain.DayNames {
		for _, cell := range cells {
			if rand.Intn(3) != 0 {
				continue
			}
			employee := employees[rand.Intn(len(employees))]
			schedule.Assign(dayName, cell.Role, cell.Position, employee.ID)
		}
	}

	if _, err := repo.SaveSchedule(branch.ID, domain.WeekCurrent, schedule.Days); err != nil {
		slog.Error("failed to save seeded schedule", "branch", branch.Name, "error", err)
	}
}

// SeedRoster imports employees for one branch from a CSV file with a
// name,color,departments header; departments are separated by "|". Rows run
// through the same validation layer as the API.
func SeedRoster(repo *repository.Repository, branchName string, path string) error {
	branch, err := repo.GetBranchByName(branchName)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		return err
	}

	columns := map[string]int{}
	for i, header := range headers {
		columns[strings.TrimSpace(strings.ToLower(header))] = i
	}
	for _, required := range []string{"name", "color"} {
		if _, ok := columns[required]; !ok {
			return errors.New("roster file is missing the " + required + " column")
		}
	}

	siblings, err := repo.GetEmployeesByBranch(branch.ID)
	if err != nil {
		return err
	}

	imported := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		employee := &domain.Employee{
			ID:          uuid.New().String(),
			BranchID:    branch.ID,
			Name:        strings.TrimSpace(record[columns["name"]]),
			Color:       strings.TrimSpace(record[columns["color"]]),
			Departments: make([]domain.Department, 0),
		}

		if idx, ok := columns["departments"]; ok && record[idx] != "" {
			for _, dept := range strings.Split(record[idx], "|") {
				employee.Departments = append(employee.Departments, domain.Department(strings.TrimSpace(dept)))
			}
		}

		if err := utils.ValidateEmployee(employee, siblings, branch.Type); err != nil {
			slog.Error("skipping invalid roster row", "name", employee.Name, "error", err)
			continue
		}

		if err := repo.CreateEmployee(employee); err != nil {
			slog.Error("failed to insert roster employee", "name", employee.Name, "error", err)
			continue
		}

		siblings = append(siblings, employee)
		imported++
	}

	slog.Info("roster imported", "branch", branchName, "count", imported)
	return nil
}
