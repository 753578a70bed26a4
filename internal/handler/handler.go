package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shibutz-dev/shibutz/backend/internal/config"
	"github.com/shibutz-dev/shibutz/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// everything below requires a logged-in branch
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myBranch)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/branches", func(r chi.Router) {
			r.With(h.requireAdmin).Post("/", h.CreateBranch)
			r.With(h.requireAdmin).Get("/", h.GetAllBranches)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.branchInfo)
				r.With(h.canManageBranch).Get("/", h.GetBranch)
				r.With(h.requireAdmin).Patch("/", h.UpdateBranch)
				r.With(h.requireAdmin).Delete("/", h.DeleteBranch)
				r.Route("/employees", func(r chi.Router) {
					r.Use(h.canManageBranch)
					r.Get("/", h.GetBranchEmployees)
					r.Post("/", h.CreateEmployee)
					r.Route("/{employeeID}", func(r chi.Router) {
						r.Use(h.employeeInfo)
						r.Patch("/", h.UpdateEmployee)
						r.Delete("/", h.DeleteEmployee)
					})
				})
			})
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", h.GetSchedule)
			r.With(h.requireAdmin).Post("/transition", h.TransitionWeeks)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.branchInfo)
				r.Use(h.canManageBranch)
				r.Put("/", h.SaveSchedule)
				r.Post("/assign", h.AssignShift)
				r.Get("/eligibility", h.CheckEligibility)
			})
		})
	})
}
