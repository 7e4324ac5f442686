package read

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aceresearch/registration-portal/internal/http/middlewarectx"
	"github.com/aceresearch/registration-portal/internal/models"
	"github.com/aceresearch/registration-portal/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) GetByEmail(ctx context.Context, email string) (*models.Application, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReadHandler_ServeHTTP(t *testing.T) {
	app := &models.Application{
		ID:                7,
		Name:              "Jane Doe",
		Email:             "jane@x.com",
		ParticipantStatus: models.StatusStudent,
		RegistrationFee:   800,
		PaymentProof:      &models.FileBlob{Data: []byte("%PDF-1.4"), ContentType: "application/pdf"},
	}

	tests := []struct {
		name           string
		ctxEmail       any
		setupMock      func(m *ServiceMock)
		wantStatusCode int
		check          func(t *testing.T, data map[string]any)
		wantError      string
	}{
		{
			name:     "own application returned",
			ctxEmail: "jane@x.com",
			setupMock: func(m *ServiceMock) {
				m.On("GetByEmail", mock.Anything, "jane@x.com").Return(app, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			check: func(t *testing.T, data map[string]any) {
				assert.Equal(t, "jane@x.com", data["email"])
				assert.Equal(t, float64(800), data["registration_fee"])
				assert.Equal(t, true, data["has_payment_proof"])
				assert.Equal(t, false, data["has_payment_image"])
				// the dashboard never carries file bytes
				_, hasBytes := data["payment_proof"]
				assert.False(t, hasBytes)
			},
		},
		{
			name:           "missing identity",
			ctxEmail:       nil,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "user identification missing",
		},
		{
			name:     "application not found",
			ctxEmail: "nobody@x.com",
			setupMock: func(m *ServiceMock) {
				m.On("GetByEmail", mock.Anything, "nobody@x.com").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      "application not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.setupMock != nil {
				tt.setupMock(serviceMock)
			}

			req := httptest.NewRequest(http.MethodGet, "/applications/me", nil)
			if tt.ctxEmail != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Email, tt.ctxEmail))
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.check != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				tt.check(t, data)
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
