package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/admin-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/otp"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/smtp"
	"github.com/magabrotheeeer/admin-dashboard/internal/models"
	"github.com/magabrotheeeer/admin-dashboard/internal/storage/repository"
)

type ProfilesMock struct{ mock.Mock }

func (m *ProfilesMock) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

type CodesMock struct{ mock.Mock }

func (m *CodesMock) SaveCode(ctx context.Context, email, hash string, ttl time.Duration) error {
	return m.Called(ctx, email, hash, ttl).Error(0)
}

func (m *CodesMock) GetCode(ctx context.Context, email string) (string, bool, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *CodesMock) DeleteCode(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type TransportMock struct{ mock.Mock }

func (m *TransportMock) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *TransportMock) GetSMTPUser() string {
	return m.Called().String(0)
}

type SMTPClientMock struct{ mock.Mock }

func (m *SMTPClientMock) Mail(from string) error { return m.Called(from).Error(0) }
func (m *SMTPClientMock) Rcpt(to string) error   { return m.Called(to).Error(0) }

func (m *SMTPClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *SMTPClientMock) Quit() error  { return m.Called().Error(0) }
func (m *SMTPClientMock) Close() error { return m.Called().Error(0) }

type WriteCloserMock struct{ mock.Mock }

func (m *WriteCloserMock) Write(p []byte) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *WriteCloserMock) Close() error { return m.Called().Error(0) }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(profiles *ProfilesMock, codes *CodesMock, transport *TransportMock) *AuthService {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	return NewAuthService(profiles, codes, transport, maker, newNoopLogger(), 10*time.Minute, 6)
}

func TestAuthService_SendOTP(t *testing.T) {
	profiles := new(ProfilesMock)
	codes := new(CodesMock)
	transport := new(TransportMock)
	client := new(SMTPClientMock)
	wc := new(WriteCloserMock)
	svc := newService(profiles, codes, transport)

	profiles.On("GetProfileByEmail", mock.Anything, "admin@example.com").
		Return(&models.Profile{ID: "u1", Email: "admin@example.com", Role: "admin"}, nil).Once()
	codes.On("SaveCode", mock.Anything, "admin@example.com", mock.Anything, 10*time.Minute).
		Return(nil).Once()
	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@example.com").Return(nil).Once()
	client.On("Rcpt", "admin@example.com").Return(nil).Once()
	client.On("Data").Return(wc, nil).Once()
	wc.On("Write", mock.Anything).Return(0, nil).Once()
	wc.On("Close").Return(nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil)

	require.NoError(t, svc.SendOTP(context.Background(), "admin@example.com"))
	profiles.AssertExpectations(t)
	codes.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestAuthService_SendOTP_NotAdmin(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.Profile
		err     error
	}{
		{
			name:    "профиль с ролью user",
			profile: &models.Profile{ID: "u1", Email: "user@example.com", Role: "user"},
		},
		{
			// почта без профиля не отличается в ответе от не-администратора
			name: "профиль не найден",
			err:  repository.ErrProfileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := new(ProfilesMock)
			codes := new(CodesMock)
			transport := new(TransportMock)
			svc := newService(profiles, codes, transport)

			profiles.On("GetProfileByEmail", mock.Anything, "user@example.com").
				Return(tt.profile, tt.err).Once()

			err := svc.SendOTP(context.Background(), "user@example.com")
			require.ErrorIs(t, err, ErrNotAdmin)
			codes.AssertNotCalled(t, "SaveCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			transport.AssertNotCalled(t, "Connect")
		})
	}
}

func TestAuthService_VerifyOTP(t *testing.T) {
	hash, err := otp.GetHash("123456")
	require.NoError(t, err)

	profiles := new(ProfilesMock)
	codes := new(CodesMock)
	transport := new(TransportMock)
	svc := newService(profiles, codes, transport)

	codes.On("GetCode", mock.Anything, "admin@example.com").Return(hash, true, nil).Once()
	codes.On("DeleteCode", mock.Anything, "admin@example.com").Return(nil).Once()
	profiles.On("GetProfileByEmail", mock.Anything, "admin@example.com").
		Return(&models.Profile{Email: "admin@example.com", Role: "admin"}, nil).Once()

	token, err := svc.VerifyOTP(context.Background(), "admin@example.com", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	codes.AssertExpectations(t)
}

func TestAuthService_VerifyOTP_WrongCode(t *testing.T) {
	hash, err := otp.GetHash("123456")
	require.NoError(t, err)

	profiles := new(ProfilesMock)
	codes := new(CodesMock)
	svc := newService(profiles, codes, new(TransportMock))

	codes.On("GetCode", mock.Anything, "admin@example.com").Return(hash, true, nil).Once()

	_, err = svc.VerifyOTP(context.Background(), "admin@example.com", "654321")
	require.ErrorIs(t, err, ErrInvalidCode)
	// неудачная попытка не сжигает код
	codes.AssertNotCalled(t, "DeleteCode", mock.Anything, mock.Anything)
}

func TestAuthService_VerifyOTP_ExpiredCode(t *testing.T) {
	profiles := new(ProfilesMock)
	codes := new(CodesMock)
	svc := newService(profiles, codes, new(TransportMock))

	codes.On("GetCode", mock.Anything, "admin@example.com").Return("", false, nil).Once()

	_, err := svc.VerifyOTP(context.Background(), "admin@example.com", "123456")
	require.ErrorIs(t, err, ErrInvalidCode)
}

func TestAuthService_Me(t *testing.T) {
	profiles := new(ProfilesMock)
	svc := newService(profiles, new(CodesMock), new(TransportMock))

	profiles.On("GetProfileByEmail", mock.Anything, "admin@example.com").
		Return(&models.Profile{Name: "Admin", Email: "admin@example.com", Role: "admin"}, nil).Once()

	got, err := svc.Me(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, &models.SessionProfile{Name: "Admin", Email: "admin@example.com", Role: "admin"}, got)
}
