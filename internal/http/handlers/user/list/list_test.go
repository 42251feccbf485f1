package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/admin-dashboard/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, page, pageSize int, search string) (*models.ProfilePage, error) {
	args := m.Called(ctx, page, pageSize, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfilePage), args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "параметры по умолчанию",
			url:  "/users",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, 0, 0, "").
					Return(&models.ProfilePage{
						Profiles: []*models.Profile{{ID: "u1", Name: "Alice"}},
						Count:    1, Page: 1, PageSize: 20,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":1`,
		},
		{
			name: "страница и поиск из запроса",
			url:  "/users?page=2&pageSize=10&search=ali",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, 2, 10, "ali").
					Return(&models.ProfilePage{
						Profiles: []*models.Profile{},
						Count:    0, Page: 1, PageSize: 10, Search: "ali",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"search":"ali"`,
		},
		{
			name: "ошибка сервиса",
			url:  "/users",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, 0, 0, "").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not list profiles"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
