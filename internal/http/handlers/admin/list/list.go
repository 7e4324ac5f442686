// Package list implements the admin overview of all registrant accounts.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aceresearch/registration-portal/internal/http/response"
	"github.com/aceresearch/registration-portal/internal/lib/sl"
	"github.com/aceresearch/registration-portal/internal/models"
)

type Service interface {
	ListAccounts(ctx context.Context) ([]models.AccountSummary, error)
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
	const op = "handlers.admin.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list accounts"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"accounts": accounts,
		"count":    len(accounts),
	}))
}
