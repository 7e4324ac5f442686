package register

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/aceresearch/registration-portal/internal/http/response"
	"github.com/aceresearch/registration-portal/internal/lib/sl"
	registration "github.com/aceresearch/registration-portal/internal/services/registration"
)

// Request is the registration form of the portal.
type Request struct {
	Name              string `json:"name" validate:"required,min=2,max=100"`
	Email             string `json:"email" validate:"required,email"`
	Designation       string `json:"designation" validate:"required"`
	Organization      string `json:"organization" validate:"required"`
	Department        string `json:"department" validate:"required"`
	MobileNumber      string `json:"mobile_number" validate:"required"`
	ParticipantStatus string `json:"participant_status" validate:"required,oneof=academician student"`
	Presentation      string `json:"presentation" validate:"required,oneof=yes no"`
	Address           string `json:"address" validate:"required"`
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
	const op = "handlers.auth.register"

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
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.Register(r.Context(), registration.Input{
		Name:              req.Name,
		Email:             req.Email,
		Designation:       req.Designation,
		Organization:      req.Organization,
		Department:        req.Department,
		MobileNumber:      req.MobileNumber,
		ParticipantStatus: req.ParticipantStatus,
		Presentation:      req.Presentation,
		Address:           req.Address,
	})
	switch {
	case errors.Is(err, registration.ErrDuplicateRegistration):
		log.Error("duplicate registration", slog.String("email", req.Email))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("an application with this email already exists"))
		return
	case errors.Is(err, registration.ErrValidation):
		log.Error("registration input rejected", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, registration.ErrNotificationFailed):
		// The application and the account are committed at this point; only
		// the credentials email failed. The caller still gets a success.
		log.Error("credentials email failed", sl.Err(err))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"message":  "registration saved, credentials email could not be delivered",
			"username": result.Username,
			"notified": false,
		}))
		return
	case err != nil:
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message":  "registration successful, credentials sent by email",
		"username": result.Username,
		"notified": true,
	}))
}
