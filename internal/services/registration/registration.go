// Package services contains the registration business logic: the one place
// in the portal where two records must be created atomically and a
// notification must go out exactly once per successful registration.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aceresearch/registration-portal/internal/config"
	"github.com/aceresearch/registration-portal/internal/lib/credentials"
	"github.com/aceresearch/registration-portal/internal/lib/password"
	"github.com/aceresearch/registration-portal/internal/lib/sl"
	"github.com/aceresearch/registration-portal/internal/models"
	"github.com/aceresearch/registration-portal/internal/storage/repository"
)

// Registration fees by participant status. The fee is fixed at creation
// time and never recomputed.
const (
	FeeStudent = 800
	FeeRegular = 1200
)

// ErrDuplicateRegistration is returned when an application already exists
// for the submitted email. Store state is untouched.
var ErrDuplicateRegistration = errors.New("application with this email already exists")

// ErrValidation is returned when required fields are missing or malformed.
var ErrValidation = errors.New("invalid registration input")

// ErrNotificationFailed is returned together with a non-nil Result when the
// records were committed but the credentials email could not be sent. The
// registrant exists and can be helped by support; remediation differs from
// a failed registration, so the outcome is distinct.
var ErrNotificationFailed = errors.New("registration saved but notification email failed")

// Input is the validated form data for one registration.
type Input struct {
	Name              string
	Email             string
	Designation       string
	Organization      string
	Department        string
	MobileNumber      string
	ParticipantStatus string
	Presentation      string
	Address           string
}

// Result identifies the created records.
type Result struct {
	ApplicationID    int64
	AccountUID       string
	Username         string
	NotificationSent bool
}

// TxStore is the slice of the repository available inside the atomic unit
// of work.
type TxStore interface {
	CreateApplication(ctx context.Context, app models.Application) (int64, error)
	CreateAccount(ctx context.Context, acc models.Account) (string, error)
}

// Store describes the persistence needed by the registration flow.
type Store interface {
	FindApplicationByEmail(ctx context.Context, email string) (*models.Application, error)
	RunInTx(ctx context.Context, fn func(tx TxStore) error) error
}

// Notifier sends the credentials email. One attempt per registration, no
// retry contract.
type Notifier interface {
	SendRegistrationCredentials(notice models.CredentialsNotice) error
}

// RegistrationService orchestrates the registration transaction.
type RegistrationService struct {
	store    Store
	notifier Notifier
	branding config.Branding
	log      *slog.Logger
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(store Store, notifier Notifier, branding config.Branding, log *slog.Logger) *RegistrationService {
	return &RegistrationService{
		store:    store,
		notifier: notifier,
		branding: branding,
		log:      log,
	}
}

// Register creates the Application and the Account for one registrant in a
// single atomic unit of work and then sends the credentials email.
//
// Outcomes: ErrDuplicateRegistration when the email is taken (no writes),
// a wrapped persistence error when the commit fails (neither record
// persists), ErrNotificationFailed together with a non-nil Result when the
// commit succeeded but the email did not, and a Result with
// NotificationSent=true on full success.
func (s *RegistrationService) Register(ctx context.Context, in Input) (*Result, error) {
	const op = "registration.Register"

	if err := validate(in); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	_, err := s.store.FindApplicationByEmail(ctx, email)
	if err == nil {
		return nil, ErrDuplicateRegistration
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	plainPassword := credentials.GeneratePassword()
	username := credentials.CreateUsername(in.Name)

	// The plaintext exists only to be emailed; only the hash is stored.
	hash, err := password.GetHash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := models.Application{
		Name:              in.Name,
		Designation:       in.Designation,
		Organization:      in.Organization,
		Department:        in.Department,
		MobileNumber:      in.MobileNumber,
		Email:             email,
		ParticipantStatus: in.ParticipantStatus,
		Presentation:      in.Presentation,
		Address:           in.Address,
		RegistrationFee:   feeFor(in.ParticipantStatus),
	}
	acc := models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	res := &Result{Username: username}
	err = s.store.RunInTx(ctx, func(tx TxStore) error {
		appID, err := tx.CreateApplication(ctx, app)
		if err != nil {
			return err
		}
		accUID, err := tx.CreateAccount(ctx, acc)
		if err != nil {
			return err
		}
		res.ApplicationID = appID
		res.AccountUID = accUID
		return nil
	})
	if err != nil {
		// A unique-violation race lost to a concurrent registration is the
		// same outcome as a failed pre-check.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registration committed",
		slog.String("email", email),
		slog.String("username", username),
		slog.Int64("application_id", res.ApplicationID))

	notice := models.CredentialsNotice{
		Email:            email,
		Name:             in.Name,
		Username:         username,
		Password:         plainPassword,
		OrganizationName: s.branding.OrganizationName,
		EventName:        s.branding.EventName,
		SupportEmail:     s.branding.SupportEmail,
	}
	if err := s.notifier.SendRegistrationCredentials(notice); err != nil {
		s.log.Error("credentials email failed", sl.Err(err), slog.String("email", email))
		return res, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	res.NotificationSent = true
	return res, nil
}

func validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	switch in.ParticipantStatus {
	case models.StatusAcademician, models.StatusStudent:
	default:
		return fmt.Errorf("%w: unknown participant status %q", ErrValidation, in.ParticipantStatus)
	}
	switch in.Presentation {
	case "yes", "no":
	default:
		return fmt.Errorf("%w: presentation must be yes or no", ErrValidation)
	}
	return nil
}

func feeFor(participantStatus string) int {
	if participantStatus == models.StatusStudent {
		return FeeStudent
	}
	return FeeRegular
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
