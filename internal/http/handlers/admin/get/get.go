// Package get implements the admin lookup of a single registrant account.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aceresearch/registration-portal/internal/http/response"
	"github.com/aceresearch/registration-portal/internal/lib/sl"
	"github.com/aceresearch/registration-portal/internal/models"
	"github.com/aceresearch/registration-portal/internal/storage/repository"
)

type Service interface {
	GetRegistrant(ctx context.Context, uid string) (*models.Account, error)
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
	const op = "handlers.admin.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing registrant uid"))
		return
	}

	account, err := h.service.GetRegistrant(r.Context(), uid)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Error("registrant not found", slog.String("uid", uid))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("registrant not found"))
		return
	case err != nil:
		log.Error("failed to get registrant", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get registrant"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(models.AccountSummary{
		UID:      account.UID,
		Username: account.Username,
		Email:    account.Email,
		Role:     account.Role,
	}))
}
