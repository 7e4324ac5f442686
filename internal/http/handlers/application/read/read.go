// Package read implements the registrant dashboard endpoint: the caller's
// own application looked up by the email inside their token.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aceresearch/registration-portal/internal/http/middlewarectx"
	"github.com/aceresearch/registration-portal/internal/http/response"
	"github.com/aceresearch/registration-portal/internal/lib/sl"
	"github.com/aceresearch/registration-portal/internal/models"
	"github.com/aceresearch/registration-portal/internal/storage/repository"
)

// View is the application as shown on the dashboard. Proof files appear
// as metadata flags only, the bytes have their own download endpoint.
type View struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Designation       string     `json:"designation"`
	Organization      string     `json:"organization"`
	Department        string     `json:"department"`
	MobileNumber      string     `json:"mobile_number"`
	Email             string     `json:"email"`
	ParticipantStatus string     `json:"participant_status"`
	Presentation      string     `json:"presentation"`
	Address           string     `json:"address"`
	RegistrationFee   int        `json:"registration_fee"`
	HasPaymentProof   bool       `json:"has_payment_proof"`
	HasPaymentImage   bool       `json:"has_payment_image"`
	PaymentDate       *time.Time `json:"payment_date,omitempty"`
	TransactionID     string     `json:"transaction_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// NewView builds the dashboard projection of an application.
func NewView(app *models.Application) View {
	return View{
		ID:                app.ID,
		Name:              app.Name,
		Designation:       app.Designation,
		Organization:      app.Organization,
		Department:        app.Department,
		MobileNumber:      app.MobileNumber,
		Email:             app.Email,
		ParticipantStatus: app.ParticipantStatus,
		Presentation:      app.Presentation,
		Address:           app.Address,
		RegistrationFee:   app.RegistrationFee,
		HasPaymentProof:   app.PaymentProof != nil,
		HasPaymentImage:   app.PaymentImage != nil,
		PaymentDate:       app.PaymentDate,
		TransactionID:     app.TransactionID,
		CreatedAt:         app.CreatedAt,
	}
}

// Service is the slice of the application service the handler needs.
type Service interface {
	GetByEmail(ctx context.Context, email string) (*models.Application, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.read"

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

	app, err := h.service.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("application not found", slog.String("email", email))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("application not found"))
			return
		}
		log.Error("failed to read application", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read application"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(NewView(app)))
}
