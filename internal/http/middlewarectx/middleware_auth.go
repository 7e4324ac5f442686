// Package middlewarectx contains the HTTP middleware of the portal.
//
// JWTMiddleware checks the JWT in the Authorization header, validates it
// through the auth service and, when valid, puts the username, role and
// email of the caller into the request context for the handlers.
//
// On a failed check it returns HTTP 401 Unauthorized with the error message.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aceresearch/registration-portal/internal/http/response"
	"github.com/aceresearch/registration-portal/internal/lib/sl"
	"github.com/aceresearch/registration-portal/internal/models"
)

// Key is the type of the request context keys.
type Key string

const (
	// User is the context key of the caller's username.
	User Key = "username"
	// Role is the context key of the caller's role.
	Role Key = "role"
	// Email is the context key of the caller's email. Email is the pairing
	// key between the account and the application, so most handlers read
	// this one.
	Email Key = "email"
)

// Service validates a JWT and returns the identity it carries.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.Account, bool, error)
}

// JWTMiddleware returns the middleware that checks the JWT from the
// Authorization header.
//
// When the token is valid it adds the username, role and email to the
// request context, otherwise it answers HTTP 401 Unauthorized.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "middlewarectx.JWTMiddleware"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			account, valid, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil || !valid {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), User, account.Username)
			ctx = context.WithValue(ctx, Role, account.Role)
			ctx = context.WithValue(ctx, Email, account.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
