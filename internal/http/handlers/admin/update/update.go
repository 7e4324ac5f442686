// Package update implements the admin edit of an application. The form
// rewrites the profile fields; the registration fee stays fixed even when
// the participant status changes.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/aceresearch/registration-portal/internal/http/response"
	"github.com/aceresearch/registration-portal/internal/lib/sl"
	"github.com/aceresearch/registration-portal/internal/models"
	"github.com/aceresearch/registration-portal/internal/storage/repository"
)

// Request is the admin application form, addressed by email.
type Request struct {
	Email             string `json:"email" validate:"required,email"`
	Name              string `json:"name" validate:"required,min=2,max=100"`
	Designation       string `json:"designation" validate:"required"`
	Organization      string `json:"organization" validate:"required"`
	Department        string `json:"department" validate:"required"`
	MobileNumber      string `json:"mobile_number" validate:"required"`
	ParticipantStatus string `json:"participant_status" validate:"required,oneof=academician student"`
	Presentation      string `json:"presentation" validate:"required,oneof=yes no"`
	Address           string `json:"address" validate:"required"`
}

type Service interface {
	Update(ctx context.Context, app models.Application) error
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	err := h.service.Update(r.Context(), models.Application{
		Email:             req.Email,
		Name:              req.Name,
		Designation:       req.Designation,
		Organization:      req.Organization,
		Department:        req.Department,
		MobileNumber:      req.MobileNumber,
		ParticipantStatus: req.ParticipantStatus,
		Presentation:      req.Presentation,
		Address:           req.Address,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("application not found", slog.String("email", req.Email))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("application not found"))
			return
		}
		log.Error("failed to update application", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update application"))
		return
	}

	log.Info("application updated", slog.String("email", req.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "application updated",
	}))
}
