// Package download serves stored payment proof files back to their owner
// and, by email, to administrators.
package download

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aceresearch/registration-portal/internal/http/middlewarectx"
	"github.com/aceresearch/registration-portal/internal/http/response"
	"github.com/aceresearch/registration-portal/internal/lib/sl"
	"github.com/aceresearch/registration-portal/internal/models"
	"github.com/aceresearch/registration-portal/internal/storage/repository"
)

type Service interface {
	ProofFile(ctx context.Context, email, kind string) (*models.FileBlob, error)
}

type Handler struct {
	log     *slog.Logger
	service Service

	// fromURL switches the email source: the admin route carries it as a
	// URL parameter, the self route reads it from the token context.
	fromURL bool
}

// New serves the registrant's own proof; the email comes from the token.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// NewAdmin serves any registrant's proof; the email comes from the URL.
func NewAdmin(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, fromURL: true}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.download"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var email string
	if h.fromURL {
		email = chi.URLParam(r, "email")
	} else {
		email, _ = r.Context().Value(middlewarectx.Email).(string)
	}
	if email == "" {
		log.Error("email missing from request")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	kind := chi.URLParam(r, "kind")
	if kind != "pdf" && kind != "image" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown proof kind"))
		return
	}

	blob, err := h.service.ProofFile(r.Context(), email, kind)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("proof not found", slog.String("email", email), slog.String("kind", kind))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("payment proof not found"))
			return
		}
		log.Error("failed to read proof", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read payment proof"))
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("Content-Disposition", `inline; filename="`+blob.Filename+`"`)
	if _, err := w.Write(blob.Data); err != nil {
		log.Error("failed to write proof body", sl.Err(err))
	}
}
