// Package verifyotp реализует HTTP-обработчик проверки одноразового кода
// входа. При совпадении кода выдаётся JWT токен сессии, код сжигается.
package verifyotp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	services "github.com/magabrotheeeer/admin-dashboard/internal/services/auth"

	"github.com/magabrotheeeer/admin-dashboard/internal/lib/sl"
)

// Handler управляет HTTP-запросами на проверку кода входа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики входа
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики проверки кода.
type Service interface {
	VerifyOTP(ctx context.Context, email, code string) (string, error)
}

// Request тело запроса на проверку кода.
type Request struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Проверить одноразовый код входа
// @Description Проверяет код и возвращает JWT токен сессии. Код одноразовый.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Почта и код"
// @Success 200 {object} map[string]string "Токен сессии"
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 401 {object} map[string]string "Код не совпал или истёк"
// @Failure 500 {object} map[string]string "Ошибка проверки кода"
// @Router /auth/verify-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyotp"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Email and code are required"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Email and code are required"})
		return
	}

	token, err := h.service.VerifyOTP(r.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCode) {
			log.Info("invalid code", slog.String("email", req.Email))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "Invalid or expired code"})
			return
		}
		log.Error("failed to verify otp", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "Failed to verify code"})
		return
	}

	log.Info("otp verified", slog.String("email", req.Email))
	render.JSON(w, r, map[string]string{"token": token})
}
