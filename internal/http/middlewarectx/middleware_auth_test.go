package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/admin-dashboard/internal/lib/jwt"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func okHandler(t *testing.T, wantEmail, wantRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, _ := r.Context().Value(User).(string)
		role, _ := r.Context().Value(Role).(string)
		assert.Equal(t, wantEmail, email)
		assert.Equal(t, wantRole, role)
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	token, err := maker.GenerateToken("admin@example.com", "admin")
	require.NoError(t, err)

	mw := JWTMiddleware(maker, newNoopLogger())
	handler := mw(okHandler(t, "admin@example.com", "admin"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestJWTMiddleware_Unauthorized(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)

	tests := []struct {
		name   string
		header string
	}{
		{name: "заголовок отсутствует", header: ""},
		{name: "заголовок без Bearer", header: "Token abc"},
		{name: "мусор вместо токена", header: "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := JWTMiddleware(maker, newNoopLogger())
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not be called")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	otherMaker := jwt.NewJWTMaker("other-secret", time.Hour)
	token, err := otherMaker.GenerateToken("admin@example.com", "admin")
	require.NoError(t, err)

	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	mw := JWTMiddleware(maker, newNoopLogger())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
