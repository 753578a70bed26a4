package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shibutz-dev/shibutz/backend/internal/domain"
	"github.com/shibutz-dev/shibutz/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myBranch := r.Context().Value(MyBranchCtx).(*domain.Branch)
	h.successResponse(w, r, "fetched account info", myBranch)
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	myBranch := r.Context().Value(MyBranchCtx).(*domain.Branch)

	var req struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(myBranch.PasswordHash), []byte(req.OldPassword)); err != nil {
		h.errorResponse(w, r, "wrong old password")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	myBranch.PasswordHash = string(hashedPassword)

	if err := h.repository.UpdateBranch(myBranch); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "failed to update password, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "password updated", nil)
}

func (h *Handler) GetAllBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.repository.GetAllBranches()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched branches", branches)
}

func (h *Handler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required,min=2"`
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Type     string `json:"type" validate:"required,oneof=generic moked"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	password := utils.GenerateRandomPassword(h.config.NewBranch.PasswordLength)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	branch := &domain.Branch{
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Email:        req.Email,
		Type:         domain.BranchType(req.Type),
	}

	if err := h.repository.CreateBranch(branch); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "branches_username_key":
				h.badRequest(w, r, errors.New("username already exists"))
			case pgErr.ConstraintName == "branches_name_key":
				h.badRequest(w, r, errors.New("branch name already exists"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	mailMessage := domain.MailMessage{
		Type: "create_branch",
		To:   branch.Email,
		Data: domain.CreateBranchMailData{
			Name:     req.Name,
			Username: req.Username,
			Password: password,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "branch created", branch)
}

func (h *Handler) GetBranch(w http.ResponseWriter, r *http.Request) {
	branch := r.Context().Value(BranchCtx).(*domain.Branch)
	h.successResponse(w, r, "fetched branch", branch)
}

func (h *Handler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  *string `json:"name" validate:"omitempty,min=2"`
		Email *string `json:"email" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	branch := r.Context().Value(BranchCtx).(*domain.Branch)

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Email != nil {
		branch.Email = *req.Email
	}

	if err := h.repository.UpdateBranch(branch); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "branches_name_key":
				h.badRequest(w, r, errors.New("branch name already exists"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "failed to update branch, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "branch updated", branch)
}

func (h *Handler) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	branch := r.Context().Value(BranchCtx).(*domain.Branch)

	if branch.IsAdmin {
		h.errorResponse(w, r, "cannot delete the admin account")
		return
	}

	if err := h.repository.DeleteBranch(branch.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "branch deleted", nil)
}
