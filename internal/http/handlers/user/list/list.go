// Package list реализует HTTP-обработчик постраничного списка пользователей.
//
// Параметры запроса: page (номер страницы, выходящие за границы значения
// зажимаются), pageSize и search (подстрока для поиска по имени и почте).
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/admin-dashboard/internal/http/response"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/admin-dashboard/internal/models"
)

// Handler управляет HTTP-запросами на список пользователей.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики пользователей
}

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	List(ctx context.Context, page, pageSize int, search string) (*models.ProfilePage, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает страницу профилей с поиском по имени и почте, новые первыми.
// @Tags Users
// @Produce  json
// @Param page query int false "Номер страницы, по умолчанию 1"
// @Param pageSize query int false "Размер страницы, по умолчанию 20"
// @Param search query string false "Подстрока для поиска по имени и почте"
// @Success 200 {object} response.Response "Страница профилей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения списка"
// @Security BearerAuth
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	search := r.URL.Query().Get("search")

	result, err := h.service.List(r.Context(), page, pageSize, search)
	if err != nil {
		log.Error("failed to list profiles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list profiles"))
		return
	}

	log.Info("profiles listed", slog.Int("count", result.Count), slog.Int("page", result.Page))
	render.JSON(w, r, response.OKWithData(result))
}
