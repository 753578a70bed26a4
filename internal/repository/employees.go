package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shibutz-dev/shibutz/backend/internal/domain"
)

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	departments, err := json.Marshal(employee.Departments)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO employees (id, branch_id, name, color, departments)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, version
	`

	args := []any{employee.ID, employee.BranchID, employee.Name, employee.Color, departments}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.CreatedAt, &employee.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetEmployeeByID(id string) (*domain.Employee, error) {
	query := `
		SELECT branch_id, name, color, departments, created_at, version
		FROM employees WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	employee := &domain.Employee{
		ID: id,
	}
	var departments []byte

	dst := []any{&employee.BranchID, &employee.Name, &employee.Color, &departments, &employee.CreatedAt, &employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(departments, &employee.Departments); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) GetEmployeesByBranch(branchID int64) ([]*domain.Employee, error) {
	query := `
		SELECT id, name, color, departments, created_at, version
		FROM employees WHERE branch_id = $1
		ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := &domain.Employee{
			BranchID: branchID,
		}
		var departments []byte

		dst := []any{&employee.ID, &employee.Name, &employee.Color, &departments, &employee.CreatedAt, &employee.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(departments, &employee.Departments); err != nil {
			return nil, err
		}

		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) UpdateEmployee(employee *domain.Employee) error {
	departments, err := json.Marshal(employee.Departments)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE employees
		SET
			name = $1,
			color = $2,
			departments = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING created_at, version
	`

	args := []any{employee.Name, employee.Color, departments, employee.ID, employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.CreatedAt, &employee.Version); err != nil {
		return err
	}

	return nil
}

// DeleteEmployee removes the roster row only. Shift assignments referencing
// the employee are left in place; they simply no longer resolve.
func (r *Repository) DeleteEmployee(id string) error {
	query := `DELETE FROM employees WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
