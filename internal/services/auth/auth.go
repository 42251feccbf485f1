// Package services содержит бизнес-логику входа администратора по
// одноразовому коду: отправку кода на почту, проверку кода с выдачей
// JWT токена сессии и чтение профиля текущей сессии.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/admin-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/otp"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/smtp"
	"github.com/magabrotheeeer/admin-dashboard/internal/models"
	"github.com/magabrotheeeer/admin-dashboard/internal/storage/repository"
)

// Коды входа отправляются только администраторам: панель закрыта для
// обычных пользователей ещё до проверки кода.
var (
	// ErrNotAdmin почта не принадлежит администратору.
	ErrNotAdmin = errors.New("profile is not an admin")
	// ErrInvalidCode код не совпал, истёк или не запрашивался.
	ErrInvalidCode = errors.New("invalid or expired code")
)

// ProfileProvider отдаёт профили по почте.
type ProfileProvider interface {
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
}

// CodeStore хранит хэши одноразовых кодов с ограниченным временем жизни.
type CodeStore interface {
	SaveCode(ctx context.Context, email, hash string, ttl time.Duration) error
	GetCode(ctx context.Context, email string) (string, bool, error)
	DeleteCode(ctx context.Context, email string) error
}

// AuthService реализует вход администратора по одноразовому коду.
type AuthService struct {
	profiles   ProfileProvider
	codes      CodeStore
	transport  smtp.TransportInterface
	maker      jwt.Maker
	log        *slog.Logger
	codeTTL    time.Duration
	codeLength int
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(profiles ProfileProvider, codes CodeStore, transport smtp.TransportInterface,
	maker jwt.Maker, log *slog.Logger, codeTTL time.Duration, codeLength int) *AuthService {
	return &AuthService{
		profiles:   profiles,
		codes:      codes,
		transport:  transport,
		maker:      maker,
		log:        log,
		codeTTL:    codeTTL,
		codeLength: codeLength,
	}
}

// SendOTP генерирует одноразовый код, сохраняет его bcrypt-хэш и отправляет
// код письмом. Для почты без профиля администратора возвращает ErrNotAdmin:
// отсутствующий профиль и профиль без роли admin не различаются в ответе.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	const op = "services.SendOTP"

	profile, err := s.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ErrNotAdmin
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if profile.Role != "admin" {
		return ErrNotAdmin
	}

	code, err := otp.GenerateCode(s.codeLength)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	hash, err := otp.GetHash(code)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.codes.SaveCode(ctx, email, hash, s.codeTTL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sendCodeEmail(email, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("sent login code", slog.String("email", email))
	return nil
}

// VerifyOTP проверяет код против сохранённого хэша и выдаёт JWT токен
// сессии. Код одноразовый: после успешной проверки он удаляется.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	const op = "services.VerifyOTP"

	hash, ok, err := s.codes.GetCode(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return "", ErrInvalidCode
	}
	if err := otp.CompareHash(hash, code); err != nil {
		return "", ErrInvalidCode
	}
	if err := s.codes.DeleteCode(ctx, email); err != nil {
		s.log.Warn("failed to delete used code", slog.String("email", email), sl.Err(err))
	}

	profile, err := s.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.maker.GenerateToken(profile.Email, profile.Role)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("verified login code", slog.String("email", email))
	return token, nil
}

// Me возвращает данные профиля текущей сессии.
func (s *AuthService) Me(ctx context.Context, email string) (*models.SessionProfile, error) {
	profile, err := s.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &models.SessionProfile{
		Name:  profile.Name,
		Email: profile.Email,
		Role:  profile.Role,
	}, nil
}

func (s *AuthService) sendCodeEmail(to, code string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: Your login code",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		fmt.Sprintf("Your one-time login code is %s. It expires in %d minutes.",
			code, int(s.codeTTL.Minutes())),
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}
	if err := client.Rcpt(to); err != nil {
		s.log.Error("failed to set RCPT TO", slog.String("recipient", to), sl.Err(err))
		return err
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to open DATA stream", sl.Err(err))
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write message body", sl.Err(err))
		return err
	}
	if err := wc.Close(); err != nil {
		s.log.Error("failed to close DATA stream", sl.Err(err))
		return err
	}
	return client.Quit()
}
