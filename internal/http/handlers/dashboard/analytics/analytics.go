// Package analytics реализует HTTP-обработчик страницы аналитики.
package analytics

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/admin-dashboard/internal/http/response"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/admin-dashboard/internal/models"
)

// Handler управляет HTTP-запросами на данные страницы аналитики.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис сборки данных аналитики
}

// Service описывает интерфейс сборки данных страницы аналитики.
type Service interface {
	Analytics(ctx context.Context) (*models.AnalyticsStats, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Данные страницы аналитики
// @Description Возвращает разбивки по источникам, возрастам, целям, полу, платформам и статусам, временные ряды регистраций и ключевые показатели подписок.
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} response.Response "Данные аналитики"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сборки данных"
// @Security BearerAuth
// @Router /dashboard/analytics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.analytics"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	result, err := h.service.Analytics(r.Context())
	if err != nil {
		log.Error("failed to collect analytics", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not collect analytics"))
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
