// Package me реализует HTTP-обработчик чтения профиля текущей сессии.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/admin-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/response"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/admin-dashboard/internal/models"
)

// Handler управляет HTTP-запросами на чтение профиля сессии.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики входа
}

// Service описывает интерфейс чтения профиля сессии.
type Service interface {
	Me(ctx context.Context, email string) (*models.SessionProfile, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль текущей сессии
// @Description Возвращает имя, почту и роль пользователя текущей сессии.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Данные сессии"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения профиля"
// @Security BearerAuth
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	profile, err := h.service.Me(r.Context(), email)
	if err != nil {
		log.Error("failed to read session profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read session profile"))
		return
	}

	render.JSON(w, r, response.OKWithData(profile))
}
