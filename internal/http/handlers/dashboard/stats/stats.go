// Package stats реализует HTTP-обработчик главной страницы дашборда.
package stats

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

// Handler управляет HTTP-запросами на данные главной страницы.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис сборки данных дашборда
}

// Service описывает интерфейс сборки данных главной страницы.
type Service interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Данные главной страницы дашборда
// @Description Возвращает регистрации за сегодня, общее число пользователей, разбивку по источникам и дневной ряд регистраций.
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} response.Response "Данные дашборда"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сборки данных"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	result, err := h.service.Dashboard(r.Context())
	if err != nil {
		log.Error("failed to collect dashboard stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not collect dashboard stats"))
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
