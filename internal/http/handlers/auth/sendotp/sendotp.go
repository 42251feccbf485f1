// Package sendotp реализует HTTP-обработчик отправки одноразового кода входа.
//
// Handler принимает JSON-запрос с почтой, проверяет, что почта принадлежит
// администратору, и отправляет код письмом. Ответ следует формату страницы
// входа: {"success": true} при успехе и {"error": ...} при отказе, при этом
// несуществующая почта и почта без прав администратора не различаются.
package sendotp

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

// Handler управляет HTTP-запросами на отправку кода входа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики входа
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики отправки кода.
type Service interface {
	SendOTP(ctx context.Context, email string) error
}

// Request тело запроса на отправку кода.
type Request struct {
	Email string `json:"email" validate:"required,email"`
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
// @Summary Отправить одноразовый код входа
// @Description Отправляет код входа на почту администратора. Для почты без прав администратора возвращает 403.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Почта администратора"
// @Success 200 {object} map[string]bool "Код отправлен"
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 403 {object} map[string]string "Почта не принадлежит администратору"
// @Failure 500 {object} map[string]string "Ошибка отправки кода"
// @Router /auth/send-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.sendotp"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Email is required"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Email is required"})
		return
	}

	if err := h.service.SendOTP(r.Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrNotAdmin) {
			log.Info("otp request rejected", slog.String("email", req.Email))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, map[string]string{"error": "Not authorized"})
			return
		}
		log.Error("failed to send otp", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "Failed to send code"})
		return
	}

	log.Info("otp sent", slog.String("email", req.Email))
	render.JSON(w, r, map[string]bool{"success": true})
}
