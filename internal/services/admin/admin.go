// Package services contains the administrative operations over registrants:
// listing accounts, inspecting a registrant and removing one entirely.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aceresearch/registration-portal/internal/models"
)

// ErrSelfDelete is returned when an administrator tries to remove their
// own account.
var ErrSelfDelete = errors.New("cannot delete own account")

// TxStore is the slice of the storage available inside a delete transaction.
type TxStore interface {
	DeleteAccountsByEmail(ctx context.Context, email string) (int64, error)
	DeleteApplicationsByEmail(ctx context.Context, email string) (int64, error)
}

// Store is the persistence used by the admin service.
type Store interface {
	ListAccounts(ctx context.Context) ([]models.AccountSummary, error)
	GetAccountByUID(ctx context.Context, uid string) (*models.Account, error)
	RunInTx(ctx context.Context, fn func(tx TxStore) error) error
}

type AdminService struct {
	store Store
	log   *slog.Logger
}

func NewAdminService(store Store, log *slog.Logger) *AdminService {
	return &AdminService{
		store: store,
		log:   log,
	}
}

// ListAccounts returns every account without password hashes.
func (s *AdminService) ListAccounts(ctx context.Context) ([]models.AccountSummary, error) {
	return s.store.ListAccounts(ctx)
}

// GetRegistrant returns the account behind the uid.
func (s *AdminService) GetRegistrant(ctx context.Context, uid string) (*models.Account, error) {
	return s.store.GetAccountByUID(ctx, uid)
}

// DeleteRegistrant removes the account and its application in one
// transaction, paired by email. Administrators cannot remove themselves.
func (s *AdminService) DeleteRegistrant(ctx context.Context, actorUsername, uid string) error {
	const op = "admin.DeleteRegistrant"

	account, err := s.store.GetAccountByUID(ctx, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if account.Username == actorUsername {
		return ErrSelfDelete
	}

	err = s.store.RunInTx(ctx, func(tx TxStore) error {
		if _, err := tx.DeleteAccountsByEmail(ctx, account.Email); err != nil {
			return err
		}
		if _, err := tx.DeleteApplicationsByEmail(ctx, account.Email); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("deleted registrant",
		slog.String("uid", uid),
		slog.String("email", account.Email),
		slog.String("deleted_by", actorUsername))
	return nil
}
