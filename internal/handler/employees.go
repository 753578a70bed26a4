package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shibutz-dev/shibutz/backend/internal/domain"
	"github.com/shibutz-dev/shibutz/backend/internal/utils"
)

func (h *Handler) GetBranchEmployees(w http.ResponseWriter, r *http.Request) {
	branch := r.Context().Value(BranchCtx).(*domain.Branch)

	employees, err := h.repository.GetEmployeesByBranch(branch.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched employees", employees)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	branch := r.Context().Value(BranchCtx).(*domain.Branch)

	var req struct {
		Name        string              `json:"name" validate:"required"`
		Color       string              `json:"color"`
		Departments []domain.Department `json:"departments"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := &domain.Employee{
		ID:          uuid.New().String(),
		BranchID:    branch.ID,
		Name:        req.Name,
		Color:       req.Color,
		Departments: req.Departments,
	}
	if employee.Departments == nil {
		employee.Departments = make([]domain.Department, 0)
	}

	siblings, err := h.repository.GetEmployeesByBranch(branch.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// domain rules run before anything touches the database
	if err := utils.ValidateEmployee(employee, siblings, branch.Type); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateEmployee(employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "employees_branch_id_name_key":
				h.badRequest(w, r, errors.New("duplicate name"))
			case pgErr.ConstraintName == "employees_branch_id_color_key":
				h.badRequest(w, r, errors.New("duplicate color"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "employee created", employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	branch := r.Context().Value(BranchCtx).(*domain.Branch)
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	var req struct {
		Name        *string              `json:"name"`
		Color       *string              `json:"color"`
		Departments *[]domain.Department `json:"departments"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Color != nil {
		employee.Color = *req.Color
	}
	if req.Departments != nil {
		employee.Departments = *req.Departments
	}

	siblings, err := h.repository.GetEmployeesByBranch(branch.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.ValidateEmployee(employee, siblings, branch.Type); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateEmployee(employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "employees_branch_id_name_key":
				h.badRequest(w, r, errors.New("duplicate name"))
			case pgErr.ConstraintName == "employees_branch_id_color_key":
				h.badRequest(w, r, errors.New("duplicate color"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "failed to update employee, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "employee updated", employee)
}

// DeleteEmployee removes the employee from the roster only; existing shift
// assignments keep their reference and simply stop resolving in the UI.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(employee.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "employee deleted", nil)
}
