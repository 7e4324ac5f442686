package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/aceresearch/registration-portal/internal/lib/jwt"
	"github.com/aceresearch/registration-portal/internal/lib/password"
	"github.com/aceresearch/registration-portal/internal/models"
	services "github.com/aceresearch/registration-portal/internal/services/auth"
)

type AccountRepoMock struct {
	mock.Mock
}

func (m *AccountRepoMock) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *AccountRepoMock) UpdateAccountCredentials(ctx context.Context, email, username, newHash string) error {
	args := m.Called(ctx, email, username, newHash)
	return args.Error(0)
}

type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(username, role, email string) (string, error) {
	args := m.Called(username, role, email)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "ace24Qw3rt"

	hashedPassword, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	testAccount := &models.Account{
		Email:        "jane@x.com",
		Username:     "janedoe42",
		PasswordHash: hashedPassword,
		Role:         "user",
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *AccountRepoMock, j *JwtMakerMock)
		wantToken  string
		wantRole   string
		wantErr    error
	}{
		{
			name:     "successful login",
			email:    "jane@x.com",
			password: rawPassword,
			setupMocks: func(r *AccountRepoMock, j *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "jane@x.com").Return(testAccount, nil).Once()
				j.On("GenerateToken", "janedoe42", "user", "jane@x.com").Return("jwt-token-123", nil).Once()
			},
			wantToken: "jwt-token-123",
			wantRole:  "user",
		},
		{
			name:     "email is normalized before lookup",
			email:    "  Jane@X.com ",
			password: rawPassword,
			setupMocks: func(r *AccountRepoMock, j *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "jane@x.com").Return(testAccount, nil).Once()
				j.On("GenerateToken", "janedoe42", "user", "jane@x.com").Return("jwt-token-123", nil).Once()
			},
			wantToken: "jwt-token-123",
			wantRole:  "user",
		},
		{
			name:     "account not found",
			email:    "nobody@x.com",
			password: "password",
			setupMocks: func(r *AccountRepoMock, _ *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "nobody@x.com").
					Return(nil, errors.New("record not found")).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "jane@x.com",
			password: "wrongpassword",
			setupMocks: func(r *AccountRepoMock, _ *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "jane@x.com").Return(testAccount, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "token generation error",
			email:    "jane@x.com",
			password: rawPassword,
			setupMocks: func(r *AccountRepoMock, j *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "jane@x.com").Return(testAccount, nil).Once()
				j.On("GenerateToken", "janedoe42", "user", "jane@x.com").
					Return("", errors.New("token error")).Once()
			},
			wantErr: nil, // plain error, checked below
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AccountRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo, jwtMock)

			token, role, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantToken != "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, tt.wantRole, role)
			} else {
				assert.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Empty(t, token)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	validClaims := &customjwt.CustomClaims{
		Username: "janedoe42",
		Role:     "user",
		Email:    "jane@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	tests := []struct {
		name        string
		token       string
		setupMocks  func(j *JwtMakerMock)
		wantAccount *models.Account
		wantValid   bool
		wantErr     bool
	}{
		{
			name:  "valid token",
			token: "valid-token",
			setupMocks: func(j *JwtMakerMock) {
				j.On("ParseToken", "valid-token").Return(validClaims, nil).Once()
			},
			wantAccount: &models.Account{
				Username: "janedoe42",
				Role:     "user",
				Email:    "jane@x.com",
			},
			wantValid: true,
		},
		{
			name:  "invalid token",
			token: "invalid-token",
			setupMocks: func(j *JwtMakerMock) {
				j.On("ParseToken", "invalid-token").Return(nil, errors.New("invalid token")).Once()
			},
			wantErr: true,
		},
		{
			name:  "expired token",
			token: "expired-token",
			setupMocks: func(j *JwtMakerMock) {
				j.On("ParseToken", "expired-token").Return(nil, errors.New("token expired")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AccountRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(jwtMock)

			account, valid, err := svc.ValidateToken(context.Background(), tt.token)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantAccount, account)
			assert.Equal(t, tt.wantValid, valid)

			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	currentPassword := "ace24Old01"
	hashedPassword, err := password.GetHash(currentPassword)
	require.NoError(t, err)

	testAccount := &models.Account{
		Email:        "jane@x.com",
		Username:     "janedoe42",
		PasswordHash: hashedPassword,
		Role:         "user",
	}

	t.Run("password change with correct current password", func(t *testing.T) {
		repo := new(AccountRepoMock)
		svc := services.NewAuthService(repo, new(JwtMakerMock))

		repo.On("GetAccountByEmail", mock.Anything, "jane@x.com").Return(testAccount, nil).Once()
		repo.On("UpdateAccountCredentials", mock.Anything, "jane@x.com", "janedoe42",
			mock.MatchedBy(func(hash string) bool {
				return hash != "" && password.CompareHash(hash, "newpassword1") == nil
			})).Return(nil).Once()

		err := svc.UpdateProfile(context.Background(), "jane@x.com", currentPassword, "newpassword1", "")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("password change rejected with wrong current password", func(t *testing.T) {
		repo := new(AccountRepoMock)
		svc := services.NewAuthService(repo, new(JwtMakerMock))

		repo.On("GetAccountByEmail", mock.Anything, "jane@x.com").Return(testAccount, nil).Once()

		err := svc.UpdateProfile(context.Background(), "jane@x.com", "wrong", "newpassword1", "")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		repo.AssertNotCalled(t, "UpdateAccountCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("username change alone needs no password", func(t *testing.T) {
		repo := new(AccountRepoMock)
		svc := services.NewAuthService(repo, new(JwtMakerMock))

		repo.On("GetAccountByEmail", mock.Anything, "jane@x.com").Return(testAccount, nil).Once()
		repo.On("UpdateAccountCredentials", mock.Anything, "jane@x.com", "janenew", "").Return(nil).Once()

		err := svc.UpdateProfile(context.Background(), "jane@x.com", "", "", "janenew")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
