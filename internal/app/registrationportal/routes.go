// Package registrationportal registers all routes of the portal.
package registrationportal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminget "github.com/aceresearch/registration-portal/internal/http/handlers/admin/get"
	adminlist "github.com/aceresearch/registration-portal/internal/http/handlers/admin/list"
	adminremove "github.com/aceresearch/registration-portal/internal/http/handlers/admin/remove"
	adminupdate "github.com/aceresearch/registration-portal/internal/http/handlers/admin/update"
	applicationread "github.com/aceresearch/registration-portal/internal/http/handlers/application/read"
	"github.com/aceresearch/registration-portal/internal/http/handlers/auth/login"
	"github.com/aceresearch/registration-portal/internal/http/handlers/auth/profile"
	"github.com/aceresearch/registration-portal/internal/http/handlers/auth/register"
	"github.com/aceresearch/registration-portal/internal/http/handlers/health"
	"github.com/aceresearch/registration-portal/internal/http/handlers/payment/download"
	"github.com/aceresearch/registration-portal/internal/http/handlers/payment/upload"
	"github.com/aceresearch/registration-portal/internal/http/middlewarectx"
	adminservice "github.com/aceresearch/registration-portal/internal/services/admin"
	applicationservice "github.com/aceresearch/registration-portal/internal/services/application"
	authservice "github.com/aceresearch/registration-portal/internal/services/auth"
	registrationservice "github.com/aceresearch/registration-portal/internal/services/registration"
)

// RegisterRoutes registers all routes of the portal.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	registrationService *registrationservice.RegistrationService,
	authService *authservice.AuthService,
	applicationService *applicationservice.ApplicationService,
	adminService *adminservice.AdminService,
) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Open endpoints, throttled.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/register", register.New(logger, registrationService).ServeHTTP)
			r.Post("/login", login.New(logger, authService).ServeHTTP)
		})

		// Registrant endpoints behind JWT.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Get("/applications/me", applicationread.New(logger, applicationService).ServeHTTP)
			r.Put("/profile", profile.New(logger, authService).ServeHTTP)
			r.Post("/payments/proof", upload.New(logger, applicationService).ServeHTTP)
			r.Get("/payments/proof/{kind}", download.New(logger, applicationService).ServeHTTP)
		})

		// Admin endpoints behind JWT plus the role check.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.AdminOnlyMiddleware(logger))
			r.Get("/admin/registrants", adminlist.New(logger, adminService).ServeHTTP)
			r.Get("/admin/registrants/{uid}", adminget.New(logger, adminService).ServeHTTP)
			r.Put("/admin/applications", adminupdate.New(logger, applicationService).ServeHTTP)
			r.Delete("/admin/registrants/{uid}", adminremove.New(logger, adminService).ServeHTTP)
			r.Get("/admin/registrants/{email}/proof/{kind}", download.NewAdmin(logger, applicationService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
}
