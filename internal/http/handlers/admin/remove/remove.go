// Package remove implements the admin removal of a registrant: the account
// and its application go away together.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aceresearch/registration-portal/internal/http/middlewarectx"
	"github.com/aceresearch/registration-portal/internal/http/response"
	"github.com/aceresearch/registration-portal/internal/lib/sl"
	services "github.com/aceresearch/registration-portal/internal/services/admin"
	"github.com/aceresearch/registration-portal/internal/storage/repository"
)

type Service interface {
	DeleteRegistrant(ctx context.Context, actorUsername, uid string) error
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
	const op = "handlers.admin.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || actor == "" {
		log.Error("username missing from request context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing registrant uid"))
		return
	}

	err := h.service.DeleteRegistrant(r.Context(), actor, uid)
	switch {
	case errors.Is(err, services.ErrSelfDelete):
		log.Error("self delete refused", slog.String("uid", uid))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("cannot delete own account"))
		return
	case errors.Is(err, repository.ErrNotFound):
		log.Error("registrant not found", slog.String("uid", uid))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("registrant not found"))
		return
	case err != nil:
		log.Error("failed to delete registrant", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete registrant"))
		return
	}

	log.Info("registrant deleted", slog.String("uid", uid), slog.String("deleted_by", actor))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "registrant deleted",
	}))
}
