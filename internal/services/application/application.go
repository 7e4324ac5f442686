// Package services contains the application business logic: the registrant
// dashboard read path, profile updates and payment proof handling.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aceresearch/registration-portal/internal/lib/sl"
	"github.com/aceresearch/registration-portal/internal/models"
)

type ApplicationRepository interface {
	FindApplicationByEmail(ctx context.Context, email string) (*models.Application, error)
	UpdateApplicationByEmail(ctx context.Context, app models.Application) error
	AttachPaymentProof(ctx context.Context, email string,
		pdf, image *models.FileBlob, paymentDate time.Time, transactionID string) error
	GetProofFile(ctx context.Context, email, kind string) (*models.FileBlob, error)
}

type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

type ApplicationService struct {
	repo  ApplicationRepository
	cache Cache
	log   *slog.Logger
}

func NewApplicationService(repo ApplicationRepository, cache Cache, log *slog.Logger) *ApplicationService {
	return &ApplicationService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// GetByEmail returns the application registered under the email. Proof file
// bytes are never part of the result, only their metadata.
func (s *ApplicationService) GetByEmail(ctx context.Context, email string) (*models.Application, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var result *models.Application
	cacheKey := fmt.Sprintf("application:%s", email)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read application from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.FindApplicationByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache application", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// Update rewrites the profile fields of the application. The registration
// fee stays what it was at registration time even when the status changes.
func (s *ApplicationService) Update(ctx context.Context, app models.Application) error {
	app.Email = strings.ToLower(strings.TrimSpace(app.Email))

	if err := s.repo.UpdateApplicationByEmail(ctx, app); err != nil {
		return err
	}

	cacheKey := fmt.Sprintf("application:%s", app.Email)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate application cache", slog.String("key", cacheKey), sl.Err(err))
	}

	s.log.Info("updated application", slog.String("email", app.Email))
	return nil
}

// AttachPaymentProof stores the uploaded proof files against the application
// and marks the payment with the upload time and a fresh transaction id.
// Returns the assigned transaction id.
func (s *ApplicationService) AttachPaymentProof(ctx context.Context, email string,
	pdf, image *models.FileBlob) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	transactionID := uuid.New().String()
	if err := s.repo.AttachPaymentProof(ctx, email, pdf, image, time.Now().UTC(), transactionID); err != nil {
		return "", err
	}

	cacheKey := fmt.Sprintf("application:%s", email)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate application cache", slog.String("key", cacheKey), sl.Err(err))
	}

	s.log.Info("attached payment proof",
		slog.String("email", email),
		slog.String("transaction_id", transactionID))
	return transactionID, nil
}

// ProofFile returns a stored payment proof including its bytes. Kind is
// "pdf" or "image". Files are served straight from storage, never cached.
func (s *ApplicationService) ProofFile(ctx context.Context, email, kind string) (*models.FileBlob, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.repo.GetProofFile(ctx, email, kind)
}
