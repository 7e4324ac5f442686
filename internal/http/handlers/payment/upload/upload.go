// Package upload implements the payment proof endpoint. Registrants send a
// multipart form with a pdf receipt and/or an image of it; the files are
// stored against their application and the payment gets marked with the
// upload time and a transaction id.
package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aceresearch/registration-portal/internal/http/middlewarectx"
	"github.com/aceresearch/registration-portal/internal/http/response"
	"github.com/aceresearch/registration-portal/internal/lib/sl"
	"github.com/aceresearch/registration-portal/internal/models"
	"github.com/aceresearch/registration-portal/internal/storage/repository"
)

// maxUploadBytes bounds the whole multipart form.
const maxUploadBytes = 10 << 20

var allowedTypes = map[string]string{
	"application/pdf": "pdf",
	"image/jpeg":      "image",
	"image/png":       "image",
}

type Service interface {
	AttachPaymentProof(ctx context.Context, email string, pdf, image *models.FileBlob) (string, error)
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
	const op = "handlers.payment.upload"

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

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	pdf, err := readFormFile(r, "payment_proof", "pdf")
	if err != nil {
		log.Error("rejected pdf upload", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	image, err := readFormFile(r, "payment_image", "image")
	if err != nil {
		log.Error("rejected image upload", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	if pdf == nil && image == nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("no payment proof file attached"))
		return
	}

	transactionID, err := h.service.AttachPaymentProof(r.Context(), email, pdf, image)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("application not found", slog.String("email", email))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("application not found"))
			return
		}
		log.Error("failed to store payment proof", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to store payment proof"))
		return
	}

	log.Info("payment proof uploaded",
		slog.String("email", email),
		slog.String("transaction_id", transactionID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message":        "payment proof uploaded",
		"transaction_id": transactionID,
	}))
}

// readFormFile pulls one optional file out of the form and checks its
// declared content type belongs to the expected kind.
func readFormFile(r *http.Request, field, wantKind string) (*models.FileBlob, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, errors.New("unreadable file in field " + field)
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if kind := allowedTypes[contentType]; kind != wantKind {
		return nil, errors.New("unsupported content type for field " + field)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("failed to read file in field " + field)
	}
	return &models.FileBlob{
		Data:        data,
		ContentType: contentType,
		Filename:    header.Filename,
	}, nil
}
