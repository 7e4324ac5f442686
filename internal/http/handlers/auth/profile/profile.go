// Package profile implements the endpoint behind the account settings
// form: changing the username and, with the current password, the password.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/aceresearch/registration-portal/internal/http/middlewarectx"
	"github.com/aceresearch/registration-portal/internal/http/response"
	"github.com/aceresearch/registration-portal/internal/lib/sl"
	services "github.com/aceresearch/registration-portal/internal/services/auth"
)

// Request carries the profile form. All fields are optional but a new
// password requires the current one.
type Request struct {
	Username        string `json:"username" validate:"omitempty,min=3,max=50"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=6"`
}

type Service interface {
	UpdateProfile(ctx context.Context, email, currentPassword, newPassword, newUsername string) error
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
	const op = "handlers.auth.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := r.Context().Value(middlewarectx.Email).(string)
	if !ok || email == "" {
		log.Error("email missing from request context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

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

	if req.Username == "" && req.NewPassword == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("nothing to update"))
		return
	}

	err := h.service.UpdateProfile(r.Context(), email, req.CurrentPassword, req.NewPassword, req.Username)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Error("profile update rejected", slog.String("email", email))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("current password is incorrect"))
			return
		}
		log.Error("failed to update profile", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update profile"))
		return
	}

	log.Info("profile updated", slog.String("email", email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "profile updated",
	}))
}
