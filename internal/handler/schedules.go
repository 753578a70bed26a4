package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shibutz-dev/shibutz/backend/internal/domain"
)

// GetSchedule returns one week's grid of a branch, looked up by name. The
// first request for week=next materializes an empty next-week grid.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	branchName := r.URL.Query().Get("branch")
	if branchName == "" {
		h.errorResponse(w, r, "branch is required")
		return
	}

	weekParam := r.URL.Query().Get("week")
	if weekParam == "" {
		weekParam = string(domain.WeekCurrent)
	}
	week, err := domain.ParseWeekSelector(weekParam)
	if err != nil {
		h.errorResponse(w, r, "invalid week selector")
		return
	}

	schedule, err := h.repository.GetSchedule(branchName, week)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "branch does not exist")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "fetched schedule", schedule)
}

// SaveSchedule replaces the full days array of one week variant. Reaching
// here means the caller already passed canManageBranch.
func (h *Handler) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	branch := r.Context().Value(BranchCtx).(*domain.Branch)

	var req struct {
		Week string       `json:"week" validate:"required"`
		Days []domain.Day `json:"days" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	week, err := domain.ParseWeekSelector(req.Week)
	if err != nil {
		h.errorResponse(w, r, "invalid week selector")
		return
	}

	saved, err := h.repository.SaveSchedule(branch.ID, week, req.Days)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "branch does not exist")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "schedule saved", saved)
}

// AssignShift applies one assignment operation to a cell: clear it, then
// place the employee when one is given. An ineligible employee is still
// placed; the response just flags the exception so the UI can ask for
// confirmation next time.
func (h *Handler) AssignShift(w http.ResponseWriter, r *http.Request) {
	branch := r.Context().Value(BranchCtx).(*domain.Branch)

	var req struct {
		Week       string `json:"week" validate:"required"`
		Day        string `json:"day" validate:"required"`
		Role       string `json:"role" validate:"required"`
		Position   int32  `json:"position" validate:"required,min=1"`
		EmployeeID string `json:"employeeId"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	week, err := domain.ParseWeekSelector(req.Week)
	if err != nil {
		h.errorResponse(w, r, "invalid week selector")
		return
	}

	if !slices.Contains(domain.DayNames, req.Day) {
		h.errorResponse(w, r, "unknown day")
		return
	}

	role := domain.Role(req.Role)
	if !domain.HasRole(branch.Type, role) {
		h.errorResponse(w, r, "unknown role for this branch type")
		return
	}
	if req.Position > domain.CapacityOf(branch.Type, role) {
		h.errorResponse(w, r, "position out of range")
		return
	}

	exception := false
	if req.EmployeeID != "" {
		employee, err := h.repository.GetEmployeeByID(req.EmployeeID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "employee does not exist")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		if employee.BranchID != branch.ID {
			h.errorResponse(w, r, "employee does not belong to this branch")
			return
		}

		exception = !domain.IsEligible(employee, role)
	}

	schedule, err := h.repository.GetSchedule(branch.Name, week)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "branch does not exist")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	schedule.Assign(req.Day, role, req.Position, req.EmployeeID)

	saved, err := h.repository.SaveSchedule(branch.ID, week, schedule.Days)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	switch {
	case req.EmployeeID == "":
		h.successResponse(w, r, "shift cleared", saved)
	case exception:
		h.successResponse(w, r, "shift assigned (exception placement)", saved)
	default:
		h.successResponse(w, r, "shift assigned", saved)
	}
}

// CheckEligibility is the soft department check the UI consults before
// asking the user to confirm an exception placement.
func (h *Handler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	branch := r.Context().Value(BranchCtx).(*domain.Branch)

	employeeID := r.URL.Query().Get("employee")
	if employeeID == "" {
		h.errorResponse(w, r, "employee is required")
		return
	}

	role := domain.Role(r.URL.Query().Get("role"))
	if !domain.HasRole(branch.Type, role) {
		h.errorResponse(w, r, "unknown role for this branch type")
		return
	}

	employee, err := h.repository.GetEmployeeByID(employeeID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "employee does not exist")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "eligibility checked", map[string]bool{
		"eligible": domain.IsEligible(employee, role),
	})
}

// TransitionWeeks promotes every branch's next-week grid into the current
// week and notifies the branches by email.
func (h *Handler) TransitionWeeks(w http.ResponseWriter, r *http.Request) {
	branches, err := h.repository.TransitionAllWeeks()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	for _, branch := range branches {
		if branch.Email == "" || branch.LastScheduleTransition == nil {
			continue
		}

		mailMessage := domain.MailMessage{
			Type: "schedule_transition",
			To:   branch.Email,
			Data: domain.ScheduleTransitionMailData{
				Name:           branch.Name,
				TransitionedAt: branch.LastScheduleTransition.Format(time.RFC3339),
			},
		}

		mailData, err := json.Marshal(mailMessage)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
		err = h.mailChannel.PublishWithContext(
			ctx,
			"",
			"email_queue",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        mailData,
			},
		)
		cancel()
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "week transition applied to "+strconv.Itoa(len(branches))+" branches", nil)
}
