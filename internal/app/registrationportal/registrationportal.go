// Package registrationportal wires the whole portal together: storage,
// cache, mail transport, services, router and the HTTP server lifecycle.
package registrationportal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/aceresearch/registration-portal/internal/cache"
	"github.com/aceresearch/registration-portal/internal/config"
	"github.com/aceresearch/registration-portal/internal/lib/jwt"
	"github.com/aceresearch/registration-portal/internal/lib/smtp"
	"github.com/aceresearch/registration-portal/internal/migrations"
	adminservice "github.com/aceresearch/registration-portal/internal/services/admin"
	applicationservice "github.com/aceresearch/registration-portal/internal/services/application"
	authservice "github.com/aceresearch/registration-portal/internal/services/auth"
	registrationservice "github.com/aceresearch/registration-portal/internal/services/registration"
	senderservice "github.com/aceresearch/registration-portal/internal/services/sender"
	"github.com/aceresearch/registration-portal/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	sender := senderservice.NewSenderService(logger, transport)

	registrationService := registrationservice.NewRegistrationService(
		registrationStore{db}, sender, cfg.Branding, logger)
	authService := authservice.NewAuthService(db,
		jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL))
	applicationService := applicationservice.NewApplicationService(db, cacheRedis, logger)
	adminService := adminservice.NewAdminService(adminStore{db}, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger,
		registrationService, authService, applicationService, adminService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
