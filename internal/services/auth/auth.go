// Package services contains the authentication business logic: login by
// email, token validation and profile updates.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aceresearch/registration-portal/internal/lib/jwt"
	"github.com/aceresearch/registration-portal/internal/lib/password"
	"github.com/aceresearch/registration-portal/internal/models"
)

// ErrInvalidCredentials is returned when the email or password is wrong.
// Unknown email and wrong password are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountRepository describes the account persistence used by authentication.
type AccountRepository interface {
	// GetAccountByEmail returns the account registered under the email.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)

	// UpdateAccountCredentials updates username and, when the hash is not
	// empty, the password hash of the account.
	UpdateAccountCredentials(ctx context.Context, email, username, newHash string) error
}

// AuthService is the injected identity provider of the portal.
type AuthService struct {
	accounts AccountRepository
	jwtMaker jwt.Maker
}

// NewAuthService creates a new AuthService.
func NewAuthService(accounts AccountRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		accounts: accounts,
		jwtMaker: jwtMaker,
	}
}

// Login verifies the password of the account registered under the email and
// issues a JWT carrying username, role and email.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (token, role string, err error) {
	account, err := s.accounts.GetAccountByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(account.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(account.Username, account.Role, account.Email)
	if err != nil {
		return "", "", err
	}
	return token, account.Role, nil
}

// ValidateToken checks a JWT and returns the account identity it carries.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.Account, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, false, err
	}
	account := &models.Account{
		Username: claims.Username,
		Role:     claims.Role,
		Email:    claims.Email,
	}
	return account, true, nil
}

// UpdateProfile changes the username and optionally the password of the
// account. A password change requires the current password; a username
// change alone does not.
func (s *AuthService) UpdateProfile(ctx context.Context, email, currentPassword, newPassword, newUsername string) error {
	const op = "auth.UpdateProfile"

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	newHash := ""
	if newPassword != "" {
		if err := password.CompareHash(account.PasswordHash, currentPassword); err != nil {
			return ErrInvalidCredentials
		}
		newHash, err = password.GetHash(newPassword)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	username := account.Username
	if newUsername != "" {
		username = newUsername
	}

	if err := s.accounts.UpdateAccountCredentials(ctx, email, username, newHash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
