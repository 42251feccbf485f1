package edit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/admin-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/admin-dashboard/internal/models"
	"github.com/magabrotheeeer/admin-dashboard/internal/storage/repository"
)

// MockService реализует интерфейс edit.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Edit(ctx context.Context, actor, id string, req models.DummyProfileEdit) error {
	return m.Called(ctx, actor, id, req).Error(0)
}

const validID = "7b6cfb0e-6f52-4ee2-a1a5-0f0d20a6a1bb"

func TestEditHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := models.DummyProfileEdit{Name: "Alice", Email: "alice@example.com"}

	tests := []struct {
		name           string
		id             string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное обновление профиля",
			id:          validID,
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("Edit", mock.Anything, "admin@example.com", validID, validBody).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   validID,
		},
		{
			name:           "некорректный id в url",
			id:             "abc",
			requestBody:    validBody,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid profile id"}`,
		},
		{
			name:           "ошибка валидации",
			id:             validID,
			requestBody:    models.DummyProfileEdit{Name: "Alice", Email: "not-an-email"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email must be a valid email`,
		},
		{
			name:        "профиль не найден",
			id:          validID,
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("Edit", mock.Anything, "admin@example.com", validID, validBody).
					Return(repository.ErrProfileNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"profile not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			body, err := json.Marshal(tt.requestBody)
			assert.NoError(t, err)

			req := httptest.NewRequest(http.MethodPut, "/users/"+tt.id, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := context.WithValue(req.Context(), middlewarectx.User, "admin@example.com")
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
