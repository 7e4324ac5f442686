package remove

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aceresearch/registration-portal/internal/http/middlewarectx"
	services "github.com/aceresearch/registration-portal/internal/services/admin"
	"github.com/aceresearch/registration-portal/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) DeleteRegistrant(ctx context.Context, actorUsername, uid string) error {
	args := m.Called(ctx, actorUsername, uid)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(actor, uid string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/admin/registrants/"+uid, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("uid", uid)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if actor != "" {
		ctx = context.WithValue(ctx, middlewarectx.User, actor)
	}
	return req.WithContext(ctx)
}

func TestRemoveHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		actor          string
		uid            string
		mockErr        error
		mockExpected   bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "registrant deleted",
			actor:          "admin",
			uid:            "uid-1",
			mockExpected:   true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing identity",
			actor:          "",
			uid:            "uid-1",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "user identification missing",
		},
		{
			name:           "self delete refused",
			actor:          "admin",
			uid:            "uid-admin",
			mockExpected:   true,
			mockErr:        services.ErrSelfDelete,
			wantStatusCode: http.StatusForbidden,
			wantError:      "cannot delete own account",
		},
		{
			name:           "registrant not found",
			actor:          "admin",
			uid:            "missing",
			mockExpected:   true,
			mockErr:        repository.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "registrant not found",
		},
		{
			name:           "storage failure",
			actor:          "admin",
			uid:            "uid-1",
			mockExpected:   true,
			mockErr:        errors.New("connection refused"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to delete registrant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockExpected {
				serviceMock.On("DeleteRegistrant", mock.Anything, tt.actor, tt.uid).
					Return(tt.mockErr).Once()
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(tt.actor, tt.uid))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
