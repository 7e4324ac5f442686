package download

import (
	"context"
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
	"github.com/aceresearch/registration-portal/internal/models"
	"github.com/aceresearch/registration-portal/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ProofFile(ctx context.Context, email, kind string) (*models.FileBlob, error) {
	args := m.Called(ctx, email, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FileBlob), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestDownloadHandler_ServeHTTP(t *testing.T) {
	blob := &models.FileBlob{
		Data:        []byte("%PDF-1.4 fake"),
		ContentType: "application/pdf",
		Filename:    "receipt.pdf",
	}

	t.Run("own pdf streamed back", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("ProofFile", mock.Anything, "jane@x.com", "pdf").Return(blob, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/payments/proof/pdf", nil)
		req = withURLParams(req, map[string]string{"kind": "pdf"})
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Email, "jane@x.com"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, `inline; filename="receipt.pdf"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, blob.Data, rec.Body.Bytes())
		serviceMock.AssertExpectations(t)
	})

	t.Run("admin downloads by email", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := NewAdmin(newNoopLogger(), serviceMock)

		serviceMock.On("ProofFile", mock.Anything, "jane@x.com", "image").Return(
			&models.FileBlob{Data: []byte{0xFF, 0xD8}, ContentType: "image/jpeg", Filename: "receipt.jpg"},
			nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/admin/registrants/jane@x.com/proof/image", nil)
		req = withURLParams(req, map[string]string{"email": "jane@x.com", "kind": "image"})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
		serviceMock.AssertExpectations(t)
	})

	t.Run("unknown kind", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodGet, "/payments/proof/docx", nil)
		req = withURLParams(req, map[string]string{"kind": "docx"})
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Email, "jane@x.com"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		serviceMock.AssertNotCalled(t, "ProofFile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("proof not uploaded yet", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("ProofFile", mock.Anything, "jane@x.com", "pdf").
			Return(nil, repository.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/payments/proof/pdf", nil)
		req = withURLParams(req, map[string]string{"kind": "pdf"})
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Email, "jane@x.com"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		handler := New(newNoopLogger(), serviceMock)

		serviceMock.On("ProofFile", mock.Anything, "jane@x.com", "pdf").
			Return(nil, errors.New("connection reset")).Once()

		req := httptest.NewRequest(http.MethodGet, "/payments/proof/pdf", nil)
		req = withURLParams(req, map[string]string{"kind": "pdf"})
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Email, "jane@x.com"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
